package grpc

import (
	"encoding/base64"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/internal/product/dto"
	"github.com/tair/product-catalog/internal/product/usecase/query"
)

// Request field names
const (
	fieldID    = "id"
	fieldQuery = "query"
	fieldName  = "name"
	fieldType  = "type"
	fieldPrice = "price"
	fieldStock = "stock"
	fieldImage = "image" // base64 encoded bytes
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidProduct}, args...)...)
}

func requireID(in *structpb.Struct) (uint, error) {
	v, ok := in.GetFields()[fieldID]
	if !ok {
		return 0, invalid("id is required")
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue < 1 || n.NumberValue > math.MaxUint32 || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, invalid("invalid id")
	}
	return uint(n.NumberValue), nil
}

func optionalString(in *structpb.Struct, key string) (*string, error) {
	v, ok := in.GetFields()[key]
	if !ok {
		return nil, nil
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return nil, invalid("%s must be a string", key)
	}
	return &s.StringValue, nil
}

func optionalInt(in *structpb.Struct, key string) (*int, error) {
	v, ok := in.GetFields()[key]
	if !ok {
		return nil, nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) {
		return nil, invalid("%s must be an integer", key)
	}
	if n.NumberValue > math.MaxInt32 || n.NumberValue < math.MinInt32 {
		return nil, invalid("%s is out of range", key)
	}
	i := int(n.NumberValue)
	return &i, nil
}

// optionalPrice accepts either a decimal string or a number
func optionalPrice(in *structpb.Struct) (*decimal.Decimal, error) {
	v, ok := in.GetFields()[fieldPrice]
	if !ok {
		return nil, nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		price, err := decimal.NewFromString(k.StringValue)
		if err != nil {
			return nil, invalid("invalid price %q", k.StringValue)
		}
		return &price, nil
	case *structpb.Value_NumberValue:
		if math.IsNaN(k.NumberValue) || math.IsInf(k.NumberValue, 0) {
			return nil, invalid("price must be finite")
		}
		price := decimal.NewFromFloat(k.NumberValue)
		return &price, nil
	default:
		return nil, invalid("price must be a string or a number")
	}
}

func optionalImage(in *structpb.Struct) ([]byte, error) {
	encoded, err := optionalString(in, fieldImage)
	if err != nil || encoded == nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(*encoded)
	if err != nil {
		return nil, invalid("image must be base64 encoded")
	}
	return data, nil
}

func toProductDTO(in *structpb.Struct) (dto.ProductDTO, []byte, error) {
	var out dto.ProductDTO

	name, err := optionalString(in, fieldName)
	if err != nil {
		return out, nil, err
	}
	productType, err := optionalString(in, fieldType)
	if err != nil {
		return out, nil, err
	}
	price, err := optionalPrice(in)
	if err != nil {
		return out, nil, err
	}
	stock, err := optionalInt(in, fieldStock)
	if err != nil {
		return out, nil, err
	}
	image, err := optionalImage(in)
	if err != nil {
		return out, nil, err
	}

	if name != nil {
		out.Name = *name
	}
	if productType != nil {
		out.Type = *productType
	}
	if price != nil {
		out.Price = *price
	}
	if stock != nil {
		out.Stock = *stock
	}
	return out, image, nil
}

func toPatch(in *structpb.Struct) (dto.UpdateProductDTO, []byte, error) {
	var patch dto.UpdateProductDTO
	var err error

	if patch.Name, err = optionalString(in, fieldName); err != nil {
		return patch, nil, err
	}
	if patch.Type, err = optionalString(in, fieldType); err != nil {
		return patch, nil, err
	}
	if patch.Price, err = optionalPrice(in); err != nil {
		return patch, nil, err
	}
	if patch.Stock, err = optionalInt(in, fieldStock); err != nil {
		return patch, nil, err
	}
	image, err := optionalImage(in)
	return patch, image, err
}

func productValue(p dto.ProductDTO) map[string]any {
	return map[string]any{
		"id":    p.ID,
		"name":  p.Name,
		"type":  p.Type,
		"price": p.Price.StringFixed(2),
		"stock": p.Stock,
		"image": p.Image,
	}
}

func productMessage(p dto.ProductDTO) (*structpb.Struct, error) {
	return structpb.NewStruct(productValue(p))
}

func productListMessage(products []dto.ProductDTO) (*structpb.Struct, error) {
	items := make([]any, 0, len(products))
	for _, p := range products {
		items = append(items, productValue(p))
	}
	return structpb.NewStruct(map[string]any{
		"products": items,
		"total":    len(products),
	})
}

func statsMessage(stats *query.ProductStats) (*structpb.Struct, error) {
	byCategory := make(map[string]any, len(stats.ProductsByCategory))
	for category, n := range stats.ProductsByCategory {
		byCategory[category] = n
	}
	return structpb.NewStruct(map[string]any{
		"total_products":       stats.TotalProducts,
		"available_products":   stats.AvailableProducts,
		"out_of_stock":         stats.OutOfStock,
		"total_stock":          stats.TotalStock,
		"average_price":        stats.AveragePrice.StringFixed(2),
		"products_by_category": byCategory,
	})
}
