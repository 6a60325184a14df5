package grpc

import (
	"context"
	"encoding/base64"
	"math"
	"net"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tair/product-catalog/internal/product"
	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/internal/product/repository/memory"
	"github.com/tair/product-catalog/pkg/auth"
)

type stubUploader struct{ calls int }

func (u *stubUploader) Upload(context.Context, []byte) (string, error) {
	u.calls++
	return "https://img.example.com/grpc.png", nil
}

type client struct {
	conn  *grpc.ClientConn
	admin string
	user  string
}

func newClient(t *testing.T) (*client, *stubUploader) {
	t.Helper()

	uploader := &stubUploader{}
	svc := product.NewServiceWithRepository(memory.NewProductRepository(), uploader, domain.NoopPublisher{})
	validator := auth.NewValidator("grpc-secret")
	server := NewGRPCServer(NewProductServer(svc), NewInterceptors(prometheus.NewRegistry(), validator))

	lis := bufconn.Listen(1 << 20)
	go func() { _ = server.Serve(lis) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	admin, err := validator.GenerateToken(1, "root", auth.RoleAdmin, time.Hour)
	require.NoError(t, err)
	user, err := validator.GenerateToken(2, "alice", auth.RoleUser, time.Hour)
	require.NoError(t, err)

	return &client{conn: conn, admin: admin, user: user}, uploader
}

func (c *client) call(t *testing.T, method, token string, req map[string]any) (*structpb.Struct, error) {
	t.Helper()
	in, err := structpb.NewStruct(req)
	require.NoError(t, err)

	ctx := context.Background()
	if token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
	}
	out := new(structpb.Struct)
	err = c.conn.Invoke(ctx, FullMethod(method), in, out)
	return out, err
}

func products(t *testing.T, out *structpb.Struct) []string {
	t.Helper()
	var names []string
	for _, v := range out.GetFields()["products"].GetListValue().GetValues() {
		names = append(names, v.GetStructValue().GetFields()["name"].GetStringValue())
	}
	return names
}

func TestProductServer_Lifecycle(t *testing.T) {
	c, uploader := newClient(t)

	out, err := c.call(t, "AddProduct", c.admin, map[string]any{
		"name":  "Novel",
		"type":  "Libros",
		"price": "19.90",
		"stock": 3,
		"image": base64.StdEncoding.EncodeToString([]byte("jpeg")),
	})
	require.NoError(t, err)
	fields := out.GetFields()
	id := fields["id"].GetNumberValue()
	assert.NotZero(t, id)
	assert.Equal(t, "19.90", fields["price"].GetStringValue())
	assert.Equal(t, "https://img.example.com/grpc.png", fields["image"].GetStringValue())
	assert.Equal(t, "product added", fields["message"].GetStringValue())
	assert.Equal(t, 1, uploader.calls)

	out, err = c.call(t, "GetProduct", "", map[string]any{"id": id})
	require.NoError(t, err)
	assert.Equal(t, "Novel", out.GetFields()["name"].GetStringValue())

	out, err = c.call(t, "UpdateProduct", c.admin, map[string]any{"id": id, "stock": 0})
	require.NoError(t, err)
	assert.Equal(t, float64(0), out.GetFields()["stock"].GetNumberValue())

	out, err = c.call(t, "ListProducts", "", map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Novel"}, products(t, out))

	out, err = c.call(t, "ListAvailableProducts", "", map[string]any{})
	require.NoError(t, err)
	assert.Empty(t, products(t, out))

	out, err = c.call(t, "GetStats", "", map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, float64(1), out.GetFields()["out_of_stock"].GetNumberValue())

	_, err = c.call(t, "DeleteProduct", c.admin, map[string]any{"id": id})
	require.NoError(t, err)

	_, err = c.call(t, "GetProduct", "", map[string]any{"id": id})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestProductServer_Search(t *testing.T) {
	c, _ := newClient(t)
	for _, p := range []map[string]any{
		{"name": "Red Shirt", "type": "Ropa", "price": 10, "stock": 2},
		{"name": "Blue Shirt", "type": "Ropa", "price": 12, "stock": 0},
		{"name": "Table", "type": "Muebles", "price": 90, "stock": 1},
	} {
		_, err := c.call(t, "AddProduct", c.admin, p)
		require.NoError(t, err)
	}

	out, err := c.call(t, "SearchProducts", "", map[string]any{"query": "SHIRT"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Red Shirt"}, products(t, out))

	out, err = c.call(t, "SearchProducts", "", map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Red Shirt", "Table"}, products(t, out))
}

func TestProductServer_ErrorCodes(t *testing.T) {
	c, _ := newClient(t)
	_, err := c.call(t, "AddProduct", c.admin, map[string]any{"name": "Ball", "type": "Juguetería", "price": 5, "stock": 1})
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		token  string
		req    map[string]any
		code   codes.Code
	}{
		{"missing token", "AddProduct", "", map[string]any{"name": "X", "type": "Libros"}, codes.Unauthenticated},
		{"non admin", "DeleteProduct", c.user, map[string]any{"id": 1}, codes.PermissionDenied},
		{"invalid category", "AddProduct", c.admin, map[string]any{"name": "X", "type": "Toys"}, codes.InvalidArgument},
		{"duplicate", "AddProduct", c.admin, map[string]any{"name": "BALL", "type": "Juguetería"}, codes.AlreadyExists},
		{"bad image", "AddProduct", c.admin, map[string]any{"name": "Y", "type": "Libros", "image": "%%%"}, codes.InvalidArgument},
		{"infinite price", "AddProduct", c.admin, map[string]any{"name": "Z", "type": "Libros", "price": math.Inf(1)}, codes.InvalidArgument},
		{"NaN price", "UpdateProduct", c.admin, map[string]any{"id": 1, "price": math.NaN()}, codes.InvalidArgument},
		{"stock out of range", "AddProduct", c.admin, map[string]any{"name": "Z", "type": "Libros", "stock": 1e12}, codes.InvalidArgument},
		{"missing id", "GetProduct", "", map[string]any{}, codes.InvalidArgument},
		{"unknown id", "UpdateProduct", c.admin, map[string]any{"id": 99, "stock": 1}, codes.NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.call(t, tt.method, tt.token, tt.req)
			assert.Equal(t, tt.code, status.Code(err))
		})
	}
}
