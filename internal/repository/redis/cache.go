package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/mindmesh/mindmesh-api/internal/domain"
)

const (
	artifactCachePrefix = "artifact:"
	artifactCacheTTL    = 24 * time.Hour
)

// ArtifactCache caches AI-derived artifacts keyed by (kind, transcript
// digest) so regenerating the same artifact for an unchanged transcript
// skips the provider call.
type ArtifactCache struct {
	client *Client
}

// NewArtifactCache creates a new artifact cache.
func NewArtifactCache(client *Client) *ArtifactCache {
	return &ArtifactCache{client: client}
}

func artifactKey(kind domain.ArtifactKind, transcript string) string {
	sum := sha256.Sum256([]byte(transcript))
	return fmt.Sprintf("%s%s:%s", artifactCachePrefix, kind, hex.EncodeToString(sum[:]))
}

// Get returns the cached artifact JSON, or nil on a miss. A cache failure
// is reported as a miss; generation must not depend on Redis availability.
func (c *ArtifactCache) Get(ctx context.Context, kind domain.ArtifactKind, transcript string) []byte {
	data, err := c.client.rdb.Get(ctx, artifactKey(kind, transcript)).Bytes()
	if err != nil {
		return nil
	}
	return data
}

// Set caches the artifact JSON.
func (c *ArtifactCache) Set(ctx context.Context, kind domain.ArtifactKind, transcript string, data []byte) error {
	return c.client.rdb.Set(ctx, artifactKey(kind, transcript), data, artifactCacheTTL).Err()
}

// FlushAll removes all cached artifacts.
func (c *ArtifactCache) FlushAll(ctx context.Context) (int64, error) {
	pattern := artifactCachePrefix + "*"
	var cursor uint64
	var deleted int64

	for {
		keys, nextCursor, err := c.client.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("failed to scan keys: %w", err)
		}

		if len(keys) > 0 {
			count, err := c.client.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("failed to delete keys: %w", err)
			}
			deleted += count
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return deleted, nil
}
