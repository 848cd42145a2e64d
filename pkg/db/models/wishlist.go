package models

import (
	"time"

	"github.com/google/uuid"
)

// Constraint identifiers, as named by Postgres and as reported by sqlite.
const (
	WishlistCodeKey            = "wishlists_code_key"
	WishlistCustomerDefaultKey = "wishlists_customer_default_key"
	WishlistSessionDefaultKey  = "wishlists_session_default_key"
	WishlistTypeSourceKey      = "wishlists_type_source_key"

	WishlistCodeColumn     = "wishlists.code"
	WishlistCustomerColumn = "wishlists.customer_id"
	WishlistSessionColumn  = "wishlists.session_id"
	WishlistSourceColumn   = "wishlists.source_wishlist_id"
)

// Wishlist is an owner-scoped, named collection of product variants.
type Wishlist struct {
	ID               uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID       *uuid.UUID     `gorm:"column:customer_id;type:uuid"`
	SessionID        *string        `gorm:"column:session_id"`
	Title            string         `gorm:"column:title;not null"`
	Code             string         `gorm:"column:code;not null"`
	IsDefault        bool           `gorm:"column:is_default;not null;default:false"`
	IsType           bool           `gorm:"column:is_type;not null;default:false"`
	SourceWishlistID *uuid.UUID     `gorm:"column:source_wishlist_id;type:uuid"`
	Items            []WishlistItem `gorm:"foreignKey:WishlistID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (Wishlist) TableName() string { return "wishlists" }
