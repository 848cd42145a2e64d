package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/angelmondragon/storefront-wishlist/pkg/logger"
)

type cacheStore interface {
	MGet(ctx context.Context, keys ...string) ([]string, []bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CatalogKey(locale string, productSaleElementID int64) string
}

// CachedLookup is a read-through redis cache in front of another Lookup.
// Cache failures degrade to calling the next lookup.
type CachedLookup struct {
	next  Lookup
	cache cacheStore
	ttl   time.Duration
	logg  *logger.Logger
}

func NewCachedLookup(next Lookup, cache cacheStore, ttl time.Duration, logg *logger.Logger) *CachedLookup {
	if logg == nil {
		logg = logger.Nop()
	}
	return &CachedLookup{next: next, cache: cache, ttl: ttl, logg: logg}
}

// Products implements Lookup.
func (c *CachedLookup) Products(ctx context.Context, locale string, ids []int64) (map[int64]Product, error) {
	ids = uniqueIDs(ids)
	out := make(map[int64]Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.cache.CatalogKey(locale, id)
	}

	missing := ids
	values, found, err := c.cache.MGet(ctx, keys...)
	if err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "catalog cache read failed")
	} else {
		missing = missing[:0:0]
		for i, id := range ids {
			var product Product
			if found[i] && json.Unmarshal([]byte(values[i]), &product) == nil {
				out[id] = product
				continue
			}
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return out, nil
	}

	fetched, err := c.next.Products(ctx, locale, missing)
	if err != nil {
		return nil, err
	}
	for id, product := range fetched {
		out[id] = product
		payload, err := json.Marshal(product)
		if err != nil {
			continue
		}
		if err := c.cache.Set(ctx, c.cache.CatalogKey(locale, id), payload, c.ttl); err != nil {
			c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "catalog cache write failed")
		}
	}
	return out, nil
}

var _ Lookup = (*CachedLookup)(nil)
