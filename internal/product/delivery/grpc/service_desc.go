package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "catalog.v1.ProductService"

// ProductServiceServer is the server API of catalog.v1.ProductService.
// Every message is a google.protobuf.Struct.
type ProductServiceServer interface {
	GetProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListProducts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListAvailableProducts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SearchProducts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetStats(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(ProductServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// FullMethod returns the wire name of method
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func methodDesc(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ProductServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(ProductServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ProductServiceDesc is the grpc.ServiceDesc for catalog.v1.ProductService
var ProductServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProductServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		methodDesc("GetProduct", ProductServiceServer.GetProduct),
		methodDesc("ListProducts", ProductServiceServer.ListProducts),
		methodDesc("ListAvailableProducts", ProductServiceServer.ListAvailableProducts),
		methodDesc("SearchProducts", ProductServiceServer.SearchProducts),
		methodDesc("AddProduct", ProductServiceServer.AddProduct),
		methodDesc("UpdateProduct", ProductServiceServer.UpdateProduct),
		methodDesc("DeleteProduct", ProductServiceServer.DeleteProduct),
		methodDesc("GetStats", ProductServiceServer.GetStats),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "catalog/v1/product.proto",
}

func RegisterProductServiceServer(s grpc.ServiceRegistrar, srv ProductServiceServer) {
	s.RegisterService(&ProductServiceDesc, srv)
}
