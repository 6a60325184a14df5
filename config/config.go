package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tair/product-catalog/pkg/database"
)

const configFileEnvName = "CATALOG_CONFIG_FILE"

// Storage backends
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type KafkaConfig struct {
	Brokers        []string `mapstructure:"brokers"`
	EventsTopic    string   `mapstructure:"events_topic"`
	PurchasesTopic string   `mapstructure:"purchases_topic"`
	GroupID        string   `mapstructure:"group_id"`
}

// Enabled reports whether a broker is configured
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	ImageTTL time.Duration `mapstructure:"image_ttl"`
}

type CloudinaryConfig struct {
	// URL has the form cloudinary://<key>:<secret>@<cloud>
	URL    string `mapstructure:"url"`
	Folder string `mapstructure:"folder"`
}

type Config struct {
	ServiceName    string           `mapstructure:"service_name"`
	Environment    string           `mapstructure:"environment"`
	LogLevel       string           `mapstructure:"log_level"`
	HTTPPort       string           `mapstructure:"http_port"`
	GRPCPort       string           `mapstructure:"grpc_port"`
	Storage        string           `mapstructure:"storage"`
	JaegerEndpoint string           `mapstructure:"jaeger_endpoint"`
	JWTSecret      string           `mapstructure:"jwt_secret"`
	Database       database.Config  `mapstructure:"database"`
	Kafka          KafkaConfig      `mapstructure:"kafka"`
	Redis          RedisConfig      `mapstructure:"redis"`
	Cloudinary     CloudinaryConfig `mapstructure:"cloudinary"`
}

// IsDevelopment reports whether console logging should be used
func (c Config) IsDevelopment() bool { return c.Environment == "development" }

// settings maps each key to its environment variable and default
var settings = []struct {
	key, env string
	def      any
}{
	{"service_name", "OTEL_SERVICE_NAME", "product-service"},
	{"environment", "ENVIRONMENT", "development"},
	{"log_level", "LOG_LEVEL", "info"},
	{"http_port", "HTTP_PORT", "8081"},
	{"grpc_port", "GRPC_PORT", "9091"},
	{"storage", "STORAGE", StoragePostgres},
	{"jaeger_endpoint", "JAEGER_ENDPOINT", "http://localhost:14268/api/traces"},
	{"jwt_secret", "JWT_SECRET", ""},
	{"database.host", "DB_HOST", "localhost"},
	{"database.port", "DB_PORT", "5432"},
	{"database.user", "DB_USER", "postgres"},
	{"database.password", "DB_PASSWORD", "postgres"},
	{"database.name", "DB_NAME", "productdb"},
	{"database.sslmode", "DB_SSLMODE", "disable"},
	{"kafka.brokers", "KAFKA_BROKERS", []string{}},
	{"kafka.events_topic", "KAFKA_EVENTS_TOPIC", "product-events"},
	{"kafka.purchases_topic", "KAFKA_PURCHASES_TOPIC", "product-purchased"},
	{"kafka.group_id", "KAFKA_GROUP_ID", "product-service"},
	{"redis.addr", "REDIS_ADDR", ""},
	{"redis.password", "REDIS_PASSWORD", ""},
	{"redis.db", "REDIS_DB", 0},
	{"redis.image_ttl", "REDIS_IMAGE_TTL", 24 * time.Hour},
	{"cloudinary.url", "CLOUDINARY_URL", ""},
	{"cloudinary.folder", "CLOUDINARY_FOLDER", "products"},
}

// Load reads defaults, an optional config file (--config flag or
// CATALOG_CONFIG_FILE) and environment variables, in increasing priority.
func Load(args []string) (Config, error) {
	v := viper.New()

	for _, s := range settings {
		v.SetDefault(s.key, s.def)
		if err := v.BindEnv(s.key, s.env); err != nil {
			return Config{}, fmt.Errorf("failed to bind %s: %w", s.env, err)
		}
	}

	path, err := configFilePath(args)
	if err != nil {
		return Config{}, err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Storage {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("unknown storage %q", c.Storage)
	}
	if c.HTTPPort == "" {
		return errors.New("http port is required")
	}
	return nil
}

func configFilePath(args []string) (string, error) {
	cmdLine := pflag.NewFlagSet("catalog", pflag.ContinueOnError)
	path := cmdLine.String("config", "", "config file")
	if err := cmdLine.Parse(args); err != nil {
		return "", fmt.Errorf("failed to parse flags: %w", err)
	}
	if env, ok := os.LookupEnv(configFileEnvName); ok {
		return env, nil
	}
	return *path, nil
}
