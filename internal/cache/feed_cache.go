package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stylesnap/backend/internal/models"
)

// FeedCache keeps anonymous feed pages in Redis for a short TTL. Viewer
// annotated pages are never cached.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeedCache creates a FeedCache.
func NewFeedCache(client *redis.Client) *FeedCache {
	return &FeedCache{client: client, ttl: 30 * time.Second}
}

// Key builds a cache key from the feed predicate fields.
func (c *FeedCache) Key(page, limit int, filter, userID, sort, occasion, style, tags, status string) string {
	return fmt.Sprintf("feed:%d:%d:%s:%s:%s:%s:%s:%s:%s",
		page, limit, filter, userID, sort, occasion, style, tags, status)
}

// Get returns the cached page for key, or (nil, false) on miss or any
// Redis error.
func (c *FeedCache) Get(ctx context.Context, key string) (*models.FeedPage, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var page models.FeedPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, false
	}
	return &page, true
}

// Set stores a page under key; errors are swallowed, the cache is best
// effort.
func (c *FeedCache) Set(ctx context.Context, key string, page *models.FeedPage) {
	data, err := json.Marshal(page)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, data, c.ttl)
}
