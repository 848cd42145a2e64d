package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// MaxItemQuantity is the largest quantity a wishlist or cart line can hold.
// Quantity columns are 32-bit INTEGER.
const MaxItemQuantity = math.MaxInt32

// WishlistItem is one product variant line of a wishlist.
type WishlistItem struct {
	ID                   uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	WishlistID           uuid.UUID `gorm:"column:wishlist_id;type:uuid;not null;uniqueIndex:wishlist_items_wishlist_pse_key"`
	ProductSaleElementID int64     `gorm:"column:product_sale_element_id;not null;uniqueIndex:wishlist_items_wishlist_pse_key"`
	Quantity             int       `gorm:"column:quantity;not null"`
	Position             int       `gorm:"column:position;not null"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (WishlistItem) TableName() string { return "wishlist_items" }
