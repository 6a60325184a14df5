package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"

	"github.com/tair/product-catalog/config"
	"github.com/tair/product-catalog/internal/product"
	grpcDelivery "github.com/tair/product-catalog/internal/product/delivery/grpc"
	httpDelivery "github.com/tair/product-catalog/internal/product/delivery/http"
	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/internal/product/imagestore"
	"github.com/tair/product-catalog/internal/product/repository"
	"github.com/tair/product-catalog/internal/product/repository/memory"
	"github.com/tair/product-catalog/kafka"
	"github.com/tair/product-catalog/pkg/auth"
	"github.com/tair/product-catalog/pkg/database"
	"github.com/tair/product-catalog/pkg/logger"
	"github.com/tair/product-catalog/pkg/tracing"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.Init("product-service", true)
		logger.Logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Str("storage", cfg.Storage).
		Msg("Starting product service")

	tp, err := tracing.InitTracer(tracing.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: "1.0.0",
		JaegerEndpoint: cfg.JaegerEndpoint,
	})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize tracer")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	uploader, closeUploader := newUploader(cfg)
	defer closeUploader()

	publisher, closePublisher := newPublisher(cfg)
	defer closePublisher()

	service, health, closeStore := newService(cfg, uploader, publisher)
	defer closeStore()

	if cfg.Kafka.Enabled() {
		consumer, err := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, []string{cfg.Kafka.PurchasesTopic})
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
		}
		consumer.RegisterHandler(kafka.EventTypeProductPurchased, kafka.NewPurchaseHandler(service))
		consumer.Start(ctx)
		defer consumer.Close()
	}

	if cfg.JWTSecret == "" {
		logger.Logger.Warn().Msg("JWT_SECRET not set, admin endpoints will reject every token")
	}
	validator := auth.NewValidator(cfg.JWTSecret)
	registry := prometheus.DefaultRegisterer

	httpServer := newHTTPServer(cfg.HTTPPort, service, validator, registry, health)
	grpcServer := grpcDelivery.NewGRPCServer(
		grpcDelivery.NewProductServer(service),
		grpcDelivery.NewInterceptors(registry, validator),
	)

	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Msg("HTTP server started")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	go func() {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to listen for gRPC")
		}
		logger.Logger.Info().Str("port", cfg.GRPCPort).Msg("gRPC server started")
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start gRPC server")
		}
	}()

	<-ctx.Done()
	logger.Logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	grpcServer.GracefulStop()

	if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
		logger.Logger.Error().Err(err).Msg("Tracer shutdown failed")
	}
}

// newService builds the workflow service on the configured store and
// returns a health check for it
func newService(cfg config.Config, uploader domain.ImageUploader, publisher domain.EventPublisher) (*product.Service, httpDelivery.HealthChecker, func()) {
	if cfg.Storage == config.StorageMemory {
		logger.Logger.Warn().Msg("Using in-memory product store, data is lost on restart")
		repo := repository.NewTracingProductRepository(memory.NewProductRepository())
		return product.NewServiceWithRepository(repo, uploader, publisher), nil, func() {}
	}

	db, err := database.NewGormConnection(cfg.Database)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}

	if err := repository.NewGormProductRepository(db).AutoMigrate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}
	logger.Logger.Info().Msg("Database initialized successfully")

	service, err := product.InitializeService(db, uploader, publisher)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize service")
	}

	return service, sqlDB.PingContext, func() { _ = sqlDB.Close() }
}

func newUploader(cfg config.Config) (domain.ImageUploader, func()) {
	if cfg.Cloudinary.URL == "" {
		logger.Logger.Warn().Msg("CLOUDINARY_URL not set, image uploads are disabled")
		return imagestore.DisabledUploader{}, func() {}
	}

	cld, err := imagestore.NewCloudinaryUploader(cfg.Cloudinary.URL, cfg.Cloudinary.Folder)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize image uploader")
	}
	if cfg.Redis.Addr == "" {
		return cld, func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	logger.Logger.Info().Str("addr", cfg.Redis.Addr).Msg("Image upload cache enabled")
	return imagestore.NewCachedUploader(cld, client, cfg.Redis.ImageTTL), func() { _ = client.Close() }
}

func newPublisher(cfg config.Config) (domain.EventPublisher, func()) {
	if !cfg.Kafka.Enabled() {
		logger.Logger.Warn().Msg("KAFKA_BROKERS not set, product events are not published")
		return domain.NoopPublisher{}, func() {}
	}

	publisher, err := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka publisher")
	}
	return publisher, func() { _ = publisher.Close() }
}

func newHTTPServer(
	port string,
	service *product.Service,
	validator *auth.Validator,
	registry prometheus.Registerer,
	health httpDelivery.HealthChecker,
) *http.Server {
	router := mux.NewRouter()

	handler := httpDelivery.NewProductHandler(service, validator, httpDelivery.NewMetrics(registry))
	handler.RegisterRoutes(router)
	httpDelivery.RegisterHealthCheck(router, health)
	httpDelivery.RegisterSwaggerDocs(router)
	router.Handle("/metrics", promhttp.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return &http.Server{
		Addr:              ":" + port,
		Handler:           otelhttp.NewHandler(c.Handler(router), "product-service"),
		ReadHeaderTimeout: 5 * time.Second,
	}
}
