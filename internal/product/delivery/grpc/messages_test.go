package grpc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tair/product-catalog/internal/product/domain"
)

func TestToProductDTO_RejectsUnrepresentableNumbers(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value float64
	}{
		{"positive infinite price", fieldPrice, math.Inf(1)},
		{"negative infinite price", fieldPrice, math.Inf(-1)},
		{"NaN price", fieldPrice, math.NaN()},
		{"huge stock", fieldStock, 1e19},
		{"huge negative stock", fieldStock, -1e19},
		{"infinite stock", fieldStock, math.Inf(1)},
		{"NaN stock", fieldStock, math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := &structpb.Struct{Fields: map[string]*structpb.Value{
				fieldName: structpb.NewStringValue("Lamp"),
				fieldType: structpb.NewStringValue("Muebles"),
				tt.field:  structpb.NewNumberValue(tt.value),
			}}

			assert.NotPanics(t, func() {
				_, _, err := toProductDTO(in)
				assert.ErrorIs(t, err, domain.ErrInvalidProduct)

				_, _, err = toPatch(in)
				assert.ErrorIs(t, err, domain.ErrInvalidProduct)
			})
		})
	}
}
