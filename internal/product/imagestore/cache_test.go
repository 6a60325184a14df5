package imagestore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingUploader struct {
	calls int
	err   error
}

func (c *countingUploader) Upload(_ context.Context, data []byte) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return "https://img.example.com/" + string(data), nil
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCachedUploader_ReusesURLForSameBytes(t *testing.T) {
	mr, client := newTestRedis(t)
	next := &countingUploader{}
	c := NewCachedUploader(next, client, time.Hour)
	ctx := context.Background()

	first, err := c.Upload(ctx, []byte("a"))
	require.NoError(t, err)
	second, err := c.Upload(ctx, []byte("a"))
	require.NoError(t, err)
	other, err := c.Upload(ctx, []byte("b"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.Equal(t, 2, next.calls)
	assert.True(t, mr.Exists(cacheKey([]byte("a"))))
	assert.Equal(t, time.Hour, mr.TTL(cacheKey([]byte("a"))))
}

func TestCachedUploader_UploadErrorIsNotCached(t *testing.T) {
	mr, client := newTestRedis(t)
	next := &countingUploader{err: errors.New("boom")}
	c := NewCachedUploader(next, client, time.Hour)

	_, err := c.Upload(context.Background(), []byte("a"))

	assert.Error(t, err)
	assert.False(t, mr.Exists(cacheKey([]byte("a"))))
}

func TestCachedUploader_FallsBackWhenRedisIsDown(t *testing.T) {
	mr, client := newTestRedis(t)
	mr.Close()
	next := &countingUploader{}
	c := NewCachedUploader(next, client, time.Hour)

	url, err := c.Upload(context.Background(), []byte("a"))

	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/a", url)
	assert.Equal(t, 1, next.calls)
}
