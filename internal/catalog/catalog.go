// Package catalog resolves product sale elements to the product details shown
// next to wishlist items.
package catalog

import (
	"context"

	"github.com/shopspring/decimal"
)

// Product describes one purchasable product sale element.
type Product struct {
	ProductSaleElementID int64           `json:"productSaleElementId"`
	ProductID            int64           `json:"productId"`
	Ref                  string          `json:"ref"`
	Title                string          `json:"title"`
	Price                decimal.Decimal `json:"price"`
	Currency             string          `json:"currency"`
	ImageURL             string          `json:"imageUrl,omitempty"`
	InStock              bool            `json:"inStock"`
}

// Lookup returns the products known for ids in locale. Unknown ids are absent
// from the result.
type Lookup interface {
	Products(ctx context.Context, locale string, ids []int64) (map[int64]Product, error)
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
