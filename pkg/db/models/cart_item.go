package models

import (
	"time"

	"github.com/google/uuid"
)

type CartItem struct {
	ID                   uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CartID               uuid.UUID `gorm:"column:cart_id;type:uuid;not null"`
	ProductSaleElementID int64     `gorm:"column:product_sale_element_id;not null"`
	Quantity             int       `gorm:"column:quantity;not null"`
	Position             int       `gorm:"column:position;not null"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartItem) TableName() string { return "cart_items" }
