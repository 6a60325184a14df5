package grpc

import (
	"context"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	grpccodes "google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/tair/product-catalog/pkg/auth"
	"github.com/tair/product-catalog/pkg/logger"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UsernameKey contextKey = "username"
	RoleKey     contextKey = "role"
)

// adminMethods require a token with the admin role, every other method is public
var adminMethods = map[string]bool{
	FullMethod("AddProduct"):    true,
	FullMethod("UpdateProduct"): true,
	FullMethod("DeleteProduct"): true,
}

// Interceptors bundles the unary interceptors of the catalog gRPC server
type Interceptors struct {
	validator *auth.Validator

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestSummary  *prometheus.SummaryVec
	errorsTotal     *prometheus.CounterVec
}

// NewInterceptors creates the interceptors and registers their metrics on reg
func NewInterceptors(reg prometheus.Registerer, validator *auth.Validator) *Interceptors {
	i := &Interceptors{
		validator: validator,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "product_service_grpc_requests_total",
				Help: "Total number of gRPC requests",
			},
			[]string{"method", "status_code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "product_service_grpc_request_duration_seconds",
				Help:    "Duration of gRPC requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		requestSummary: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Name: "product_service_grpc_request_duration_summary",
				Help: "Summary of gRPC request durations with percentiles",
				Objectives: map[float64]float64{
					0.5:  0.05,
					0.9:  0.01,
					0.95: 0.01,
					0.99: 0.001,
				},
				MaxAge: 10 * time.Minute,
			},
			[]string{"method"},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "product_service_grpc_errors_total",
				Help: "Total number of gRPC errors",
			},
			[]string{"method", "error_code"},
		),
	}

	reg.MustRegister(i.requestsTotal, i.requestDuration, i.requestSummary, i.errorsTotal)
	return i
}

// Chain returns the interceptors in the order they must run
func (i *Interceptors) Chain() []grpc.UnaryServerInterceptor {
	return []grpc.UnaryServerInterceptor{i.Tracing, i.Metrics, i.Logging, i.Auth}
}

// Tracing annotates the server span opened by the otelgrpc stats handler
func (i *Interceptors) Tracing(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	span := oteltrace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.String("rpc.system", "grpc"),
		attribute.String("rpc.method", info.FullMethod),
		attribute.String("service.name", "product-service"),
	)

	resp, err := handler(ctx, req)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if st, ok := status.FromError(err); ok {
			span.SetAttributes(attribute.String("rpc.grpc.status_code", st.Code().String()))
		}
	} else {
		span.SetStatus(codes.Ok, "success")
	}

	return resp, err
}

// Metrics collects Prometheus metrics for gRPC calls
func (i *Interceptors) Metrics(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	start := time.Now()

	resp, err := handler(ctx, req)

	duration := time.Since(start).Seconds()

	statusCode := status.Code(err).String()
	if err != nil {
		i.errorsTotal.WithLabelValues(info.FullMethod, statusCode).Inc()
	}

	i.requestsTotal.WithLabelValues(info.FullMethod, statusCode).Inc()
	i.requestDuration.WithLabelValues(info.FullMethod).Observe(duration)
	i.requestSummary.WithLabelValues(info.FullMethod).Observe(duration)

	return resp, err
}

// Logging logs gRPC requests with structured logging
func (i *Interceptors) Logging(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	start := time.Now()

	resp, err := handler(ctx, req)

	duration := time.Since(start)
	if err != nil {
		logger.Error(ctx).
			Str("method", info.FullMethod).
			Str("protocol", "grpc").
			Dur("duration", duration).
			Str("grpc_status", status.Code(err).String()).
			Err(err).
			Msg("gRPC request failed")
	} else {
		logger.Info(ctx).
			Str("method", info.FullMethod).
			Str("protocol", "grpc").
			Dur("duration", duration).
			Msg("gRPC request completed")
	}

	return resp, err
}

// Auth validates JWT tokens for admin methods
func (i *Interceptors) Auth(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	if !adminMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, status.Error(grpccodes.Unauthenticated, "metadata not provided")
	}

	tokens := md.Get("authorization")
	if len(tokens) == 0 {
		return nil, status.Error(grpccodes.Unauthenticated, "authorization token not provided")
	}

	claims, err := i.validator.ValidateToken(strings.TrimPrefix(tokens[0], "Bearer "))
	if err != nil {
		return nil, status.Errorf(grpccodes.Unauthenticated, "invalid token: %v", err)
	}

	if !claims.IsAdmin() {
		logger.Warn(ctx).
			Str("method", info.FullMethod).
			Str("username", claims.Username).
			Str("role", claims.Role).
			Msg("Admin access denied")
		return nil, status.Error(grpccodes.PermissionDenied, "admin access required")
	}

	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, UsernameKey, claims.Username)
	ctx = context.WithValue(ctx, RoleKey, claims.Role)

	return handler(ctx, req)
}
