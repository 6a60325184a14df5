package grpc

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
)

// NewGRPCServer creates a gRPC server exposing srv with tracing, metrics,
// logging and auth applied to every unary call
func NewGRPCServer(srv ProductServiceServer, interceptors *Interceptors, opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(interceptors.Chain()...),
	}, opts...)

	server := grpc.NewServer(opts...)
	RegisterProductServiceServer(server, srv)
	return server
}
