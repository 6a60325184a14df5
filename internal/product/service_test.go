package product

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/internal/product/dto"
	"github.com/tair/product-catalog/internal/product/repository/memory"
)

type fakeUploader struct {
	calls int
	err   error
}

func (u *fakeUploader) Upload(_ context.Context, data []byte) (string, error) {
	u.calls++
	if u.err != nil {
		return "", u.err
	}
	return fmt.Sprintf("https://img.example.com/%d-%d.png", u.calls, len(data)), nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.ProductEvent
	err    error
}

func (p *recordingPublisher) PublishProductEvent(_ context.Context, event domain.ProductEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType)
	}
	return out
}

type fixture struct {
	svc       *Service
	repo      *memory.ProductRepository
	uploader  *fakeUploader
	publisher *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := memory.NewProductRepository()
	uploader := &fakeUploader{}
	publisher := &recordingPublisher{}
	return &fixture{
		svc:       NewServiceWithRepository(repo, uploader, publisher),
		repo:      repo,
		uploader:  uploader,
		publisher: publisher,
	}
}

func (f *fixture) seed(t *testing.T, name, productType string, stock int) *domain.Product {
	t.Helper()
	p := &domain.Product{Name: name, Type: productType, Price: decimal.NewFromInt(10), Stock: stock}
	require.NoError(t, f.repo.Create(context.Background(), p))
	return p
}

func ptr[T any](v T) *T { return &v }

func TestAddProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("NewPairIsRetrievable", func(t *testing.T) {
		f := newFixture(t)

		created, err := f.svc.AddProduct(ctx, dto.ProductDTO{
			Name: "Blue Shirt", Type: "Ropa", Price: decimal.RequireFromString("19.90"), Stock: 5,
		}, nil)
		require.NoError(t, err)
		require.NotZero(t, created.ID)

		got, err := f.svc.GetProductByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Blue Shirt", got.Name)
		assert.Equal(t, 5, got.Stock)
		assert.Empty(t, got.Image)
		assert.Zero(t, f.uploader.calls)
		assert.Equal(t, []string{domain.EventProductCreated}, f.publisher.types())
	})

	t.Run("ExactDuplicateRejected", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, "Blue Shirt", "Ropa", 5)

		_, err := f.svc.AddProduct(ctx, dto.ProductDTO{Name: "Blue Shirt", Type: "Ropa"}, []byte("png"))
		require.ErrorIs(t, err, domain.ErrDuplicateProduct)

		count, err := f.repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
		assert.Zero(t, f.uploader.calls)
		assert.Empty(t, f.publisher.types())
	})

	t.Run("NormalizedDuplicateRejected", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, "Blue Shirt", "Ropa", 5)

		_, err := f.svc.AddProduct(ctx, dto.ProductDTO{Name: "blueshirt", Type: "Ropa"}, nil)
		assert.ErrorIs(t, err, domain.ErrDuplicateProduct)
	})

	t.Run("SameNameOtherTypeAllowed", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, "Blue Shirt", "Ropa", 5)

		_, err := f.svc.AddProduct(ctx, dto.ProductDTO{Name: "Blue Shirt", Type: "Juguetería"}, nil)
		assert.NoError(t, err)
	})

	t.Run("ImageUploadedOnce", func(t *testing.T) {
		f := newFixture(t)

		created, err := f.svc.AddProduct(ctx, dto.ProductDTO{Name: "Lamp", Type: "Muebles"}, []byte("image-bytes"))
		require.NoError(t, err)
		assert.Equal(t, 1, f.uploader.calls)
		assert.Equal(t, "https://img.example.com/1-11.png", created.Image)
	})

	t.Run("UploadFailure", func(t *testing.T) {
		f := newFixture(t)
		f.uploader.err = errors.New("gateway down")

		_, err := f.svc.AddProduct(ctx, dto.ProductDTO{Name: "Lamp", Type: "Muebles"}, []byte("x"))
		require.ErrorIs(t, err, domain.ErrUploadFailed)
		assert.Contains(t, err.Error(), "gateway down")

		count, _ := f.repo.Count(ctx)
		assert.Zero(t, count)
	})

	t.Run("Validation", func(t *testing.T) {
		f := newFixture(t)
		cases := []struct {
			name string
			in   dto.ProductDTO
			want error
		}{
			{"MissingName", dto.ProductDTO{Type: "Ropa"}, domain.ErrInvalidProduct},
			{"BlankName", dto.ProductDTO{Name: "   ", Type: "Ropa"}, domain.ErrInvalidProduct},
			{"MissingCategory", dto.ProductDTO{Name: "x"}, domain.ErrCategoryRequired},
			{"BadCategory", dto.ProductDTO{Name: "x", Type: "Zapatos"}, domain.ErrInvalidCategory},
			{"NegativePrice", dto.ProductDTO{Name: "x", Type: "Ropa", Price: decimal.NewFromInt(-1)}, domain.ErrInvalidProduct},
			{"NegativeStock", dto.ProductDTO{Name: "x", Type: "Ropa", Stock: -1}, domain.ErrInvalidProduct},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := f.svc.AddProduct(ctx, tc.in, nil)
				assert.ErrorIs(t, err, tc.want)
			})
		}
	})

	t.Run("PublishFailureDoesNotFail", func(t *testing.T) {
		f := newFixture(t)
		f.publisher.err = errors.New("broker down")

		_, err := f.svc.AddProduct(ctx, dto.ProductDTO{Name: "Lamp", Type: "Muebles"}, nil)
		assert.NoError(t, err)
	})
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.seed(t, "Sofa", "Muebles", 1)
	f.seed(t, "Mesa", "Muebles", 1)

	require.ErrorIs(t, f.svc.DeleteProduct(ctx, 999), domain.ErrProductNotFound)

	require.NoError(t, f.svc.DeleteProduct(ctx, p.ID))

	_, err := f.svc.GetProductByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	all, err := f.svc.GetProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, []string{domain.EventProductDeleted}, f.publisher.types())
}

func TestSearchProducts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "Blue Shirt", "Ropa", 5)
	f.seed(t, "Red Pants", "Ropa", 0)

	found, err := f.svc.SearchProducts(ctx, "shirt")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Blue Shirt", found[0].Name)

	found, err = f.svc.SearchProducts(ctx, "ROPA")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Blue Shirt", found[0].Name)

	f.seed(t, "Green Shirt", "Ropa", 2)
	found, err = f.svc.SearchProducts(ctx, "")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Blue Shirt", found[0].Name)
	assert.Equal(t, "Green Shirt", found[1].Name)

	found, err = f.svc.SearchProducts(ctx, "sofa")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestGetAvailableProducts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	stocks := []int{0, 3, 0, 1, 7}
	for i, s := range stocks {
		f.seed(t, fmt.Sprintf("Item %d", i), "Libros", s)
	}

	available, err := f.svc.GetAvailableProducts(ctx)
	require.NoError(t, err)
	require.Len(t, available, 3)
	for _, p := range available {
		assert.Positive(t, p.Stock)
	}

	all, err := f.svc.GetProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(stocks))
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("PriceOnly", func(t *testing.T) {
		f := newFixture(t)
		p := f.seed(t, "Blue Shirt", "Ropa", 5)
		p.Image = "https://img.example.com/old.png"
		require.NoError(t, f.repo.Update(ctx, p))

		out, err := f.svc.UpdateProduct(ctx, p.ID, dto.UpdateProductDTO{Price: ptr(decimal.RequireFromString("12.5"))}, nil)
		require.NoError(t, err)
		assert.True(t, out.Price.Equal(decimal.RequireFromString("12.5")))

		got, err := f.svc.GetProductByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Blue Shirt", got.Name)
		assert.Equal(t, "Ropa", got.Type)
		assert.Equal(t, 5, got.Stock)
		assert.Equal(t, "https://img.example.com/old.png", got.Image)
		assert.Equal(t, []string{domain.EventProductUpdated}, f.publisher.types())
	})

	t.Run("InvalidCategoryIsAllOrNothing", func(t *testing.T) {
		f := newFixture(t)
		p := f.seed(t, "Blue Shirt", "Ropa", 5)

		_, err := f.svc.UpdateProduct(ctx, p.ID, dto.UpdateProductDTO{
			Name:  ptr("Renamed"),
			Type:  ptr("Zapatos"),
			Stock: ptr(1),
		}, []byte("img"))
		require.ErrorIs(t, err, domain.ErrInvalidCategory)

		got, err := f.svc.GetProductByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Blue Shirt", got.Name)
		assert.Equal(t, 5, got.Stock)
		assert.Zero(t, f.uploader.calls)
		assert.Empty(t, f.publisher.types())
	})

	t.Run("NotFound", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.UpdateProduct(ctx, 42, dto.UpdateProductDTO{Stock: ptr(1)}, nil)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("EmptyStringsLeaveFieldsUnchanged", func(t *testing.T) {
		f := newFixture(t)
		p := f.seed(t, "Blue Shirt", "Ropa", 5)

		out, err := f.svc.UpdateProduct(ctx, p.ID, dto.UpdateProductDTO{Name: ptr(""), Type: ptr(""), Image: ptr("")}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Blue Shirt", out.Name)
		assert.Equal(t, "Ropa", out.Type)
	})

	t.Run("RenameIntoExistingPairRejected", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, "Blue Shirt", "Ropa", 5)
		p := f.seed(t, "Red Shirt", "Ropa", 5)

		_, err := f.svc.UpdateProduct(ctx, p.ID, dto.UpdateProductDTO{Name: ptr("blue shirt")}, nil)
		assert.ErrorIs(t, err, domain.ErrDuplicateProduct)
	})

	t.Run("RenameOwnCasingAllowed", func(t *testing.T) {
		f := newFixture(t)
		p := f.seed(t, "blue shirt", "Ropa", 5)

		out, err := f.svc.UpdateProduct(ctx, p.ID, dto.UpdateProductDTO{Name: ptr("Blue Shirt")}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Blue Shirt", out.Name)
	})

	t.Run("ImageUploadedOnceAndApplied", func(t *testing.T) {
		f := newFixture(t)
		p := f.seed(t, "Lamp", "Muebles", 1)

		out, err := f.svc.UpdateProduct(ctx, p.ID, dto.UpdateProductDTO{Image: ptr("https://ignored")}, []byte("abc"))
		require.NoError(t, err)
		assert.Equal(t, 1, f.uploader.calls)
		assert.Equal(t, "https://img.example.com/1-3.png", out.Image)
	})

	t.Run("NegativeStockRejected", func(t *testing.T) {
		f := newFixture(t)
		p := f.seed(t, "Lamp", "Muebles", 1)

		_, err := f.svc.UpdateProduct(ctx, p.ID, dto.UpdateProductDTO{Stock: ptr(-2)}, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidProduct)
	})
}

func TestVerifyNameAndType(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "Smart TV", "Tecnología", 1)

	assert.ErrorIs(t, f.svc.VerifyNameAndType(ctx, "SMART tv", "tecnología"), domain.ErrDuplicateProduct)
	assert.ErrorIs(t, f.svc.VerifyNameAndType(ctx, " Smart  TV ", "Tecnología"), domain.ErrDuplicateProduct)
	assert.NoError(t, f.svc.VerifyNameAndType(ctx, "Smart Watch", "Tecnología"))
}

func TestApplyPurchase(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.seed(t, "Lamp", "Muebles", 3)

	out, err := f.svc.ApplyPurchase(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Stock)

	out, err = f.svc.ApplyPurchase(ctx, p.ID, 5)
	require.NoError(t, err)
	assert.Zero(t, out.Stock)

	_, err = f.svc.ApplyPurchase(ctx, p.ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidProduct)

	_, err = f.svc.ApplyPurchase(ctx, 999, 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestGetStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, "A", "Libros", 2)
	f.seed(t, "B", "Libros", 0)
	f.seed(t, "C", "Comida", 5)

	stats, err := f.svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalProducts)
	assert.Equal(t, int64(2), stats.AvailableProducts)
	assert.Equal(t, int64(1), stats.OutOfStock)
	assert.Equal(t, int64(7), stats.TotalStock)
	assert.True(t, stats.AveragePrice.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, map[string]int64{"Libros": 2, "Comida": 1}, stats.ProductsByCategory)
}
