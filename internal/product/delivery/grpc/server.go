package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tair/product-catalog/internal/product"
	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/internal/product/dto"
	"github.com/tair/product-catalog/internal/product/usecase/command"
)

// ProductServer implements catalog.v1.ProductService on top of the workflow service
type ProductServer struct {
	service *product.Service
}

var _ ProductServiceServer = (*ProductServer)(nil)

// NewProductServer creates a new gRPC product server
func NewProductServer(service *product.Service) *ProductServer {
	return &ProductServer{service: service}
}

func (s *ProductServer) GetProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requireID(req)
	if err != nil {
		return nil, toStatus(err)
	}

	p, err := s.service.GetProductByID(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return reply(productMessage(dto.ToDTO(p)))
}

func (s *ProductServer) ListProducts(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	products, err := s.service.GetProducts(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return reply(productListMessage(dto.ToDTOs(products)))
}

func (s *ProductServer) ListAvailableProducts(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	products, err := s.service.GetAvailableProducts(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return reply(productListMessage(dto.ToDTOs(products)))
}

func (s *ProductServer) SearchProducts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	term, err := optionalString(req, fieldQuery)
	if err != nil {
		return nil, toStatus(err)
	}
	q := ""
	if term != nil {
		q = *term
	}

	products, err := s.service.SearchProducts(ctx, q)
	if err != nil {
		return nil, toStatus(err)
	}
	return reply(productListMessage(products))
}

func (s *ProductServer) AddProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, image, err := toProductDTO(req)
	if err != nil {
		return nil, toStatus(err)
	}

	created, err := s.service.AddProduct(ctx, in, image)
	if err != nil {
		return nil, toStatus(err)
	}

	out := productValue(dto.ToDTO(created))
	out["message"] = command.MessageProductAdded
	return reply(structpb.NewStruct(out))
}

func (s *ProductServer) UpdateProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requireID(req)
	if err != nil {
		return nil, toStatus(err)
	}
	patch, image, err := toPatch(req)
	if err != nil {
		return nil, toStatus(err)
	}

	updated, err := s.service.UpdateProduct(ctx, id, patch, image)
	if err != nil {
		return nil, toStatus(err)
	}
	return reply(productMessage(*updated))
}

func (s *ProductServer) DeleteProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requireID(req)
	if err != nil {
		return nil, toStatus(err)
	}

	if err := s.service.DeleteProduct(ctx, id); err != nil {
		return nil, toStatus(err)
	}
	return reply(structpb.NewStruct(map[string]any{"success": true}))
}

func (s *ProductServer) GetStats(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	stats, err := s.service.GetStats(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return reply(statsMessage(stats))
}

func reply(msg *structpb.Struct, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return msg, nil
}

// toStatus maps workflow errors to gRPC status codes
func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicateProduct):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, domain.ErrCategoryRequired),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidProduct):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrUploadFailed):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
