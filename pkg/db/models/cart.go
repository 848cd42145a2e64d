package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-wishlist/pkg/enums"
)

// Cart is the owner's shopping cart as far as wishlist conversion is concerned.
type Cart struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID *uuid.UUID       `gorm:"column:customer_id;type:uuid"`
	SessionID  *string          `gorm:"column:session_id"`
	Status     enums.CartStatus `gorm:"column:status;not null;default:'active'"`
	Items      []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (Cart) TableName() string { return "carts" }
