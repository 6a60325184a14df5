package imagestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/product-catalog/internal/product/domain"
	"github.com/tair/product-catalog/pkg/logger"
)

const keyPrefix = "product-image:"

// CachedUploader remembers the URL of every uploaded image by content hash,
// so identical bytes are stored only once. Redis failures degrade to a
// direct upload.
type CachedUploader struct {
	next   domain.ImageUploader
	client redis.UniversalClient
	ttl    time.Duration
}

func NewCachedUploader(next domain.ImageUploader, client redis.UniversalClient, ttl time.Duration) *CachedUploader {
	return &CachedUploader{next: next, client: client, ttl: ttl}
}

func (c *CachedUploader) Upload(ctx context.Context, data []byte) (string, error) {
	key := cacheKey(data)

	url, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		logger.Debug(ctx).Str("key", key).Msg("Image cache hit")
		return url, nil
	case !errors.Is(err, redis.Nil):
		logger.Warn(ctx).Err(err).Msg("Image cache lookup failed")
	}

	url, err = c.next.Upload(ctx, data)
	if err != nil {
		return "", err
	}

	if err := c.client.Set(ctx, key, url, c.ttl).Err(); err != nil {
		logger.Warn(ctx).Err(err).Msg("Image cache store failed")
	}
	return url, nil
}

func cacheKey(data []byte) string {
	sum := sha256.Sum256(data)
	return keyPrefix + hex.EncodeToString(sum[:])
}
