package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/models"
	"github.com/redis/go-redis/v9"
	"github.com/samber/mo"
)

const catalogCacheTTL = 1 * time.Hour

func catalogCacheKey(jurisdiction, code string) string {
	return fmt.Sprintf("apl:catalog:%s:%s", jurisdiction, code)
}

// GetCachedCatalogEntry returns the cached lookup result for a code, or None
// on a miss or a decode failure.
func (c *RedisClient) GetCachedCatalogEntry(ctx context.Context, jurisdiction, code string) mo.Option[models.CatalogEntry] {
	raw, err := c.Get(ctx, catalogCacheKey(jurisdiction, code))
	if err != nil {
		return mo.None[models.CatalogEntry]()
	}

	var entry models.CatalogEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return mo.None[models.CatalogEntry]()
	}
	return mo.Some(entry)
}

// CacheCatalogEntry stores one lookup result.
func (c *RedisClient) CacheCatalogEntry(ctx context.Context, entry models.CatalogEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.Set(ctx, catalogCacheKey(entry.Jurisdiction, entry.Code), raw, catalogCacheTTL)
}

// InvalidateCatalogCache drops every cached lookup for a jurisdiction. Called
// after a job applies changes so readers never serve entries a sync retired.
func (c *RedisClient) InvalidateCatalogCache(ctx context.Context, jurisdiction string) error {
	err := c.DeleteByPattern(ctx, fmt.Sprintf("apl:catalog:%s:*", jurisdiction))
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
