package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-wishlist/pkg/db/models"
	"github.com/angelmondragon/storefront-wishlist/pkg/enums"
	"github.com/angelmondragon/storefront-wishlist/pkg/owner"
)

const mergeItemSQL = `INSERT INTO cart_items (id, cart_id, product_sale_element_id, quantity, position, created_at, updated_at)
VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM cart_items WHERE cart_id = ?), ?, ?)
ON CONFLICT (cart_id, product_sale_element_id)
DO UPDATE SET quantity = cart_items.quantity + excluded.quantity, updated_at = excluded.updated_at
WHERE cart_items.quantity <= ? - excluded.quantity`

// ErrQuantityLimit is returned by MergeItem when the merged quantity would exceed models.MaxItemQuantity.
var ErrQuantityLimit = errors.New("cart item quantity limit exceeded")

// Repository exposes persistence operations for carts.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindActive loads the owner's active cart with its items in position order.
func (r *Repository) FindActive(ctx context.Context, key owner.Key) (*models.Cart, error) {
	var cart models.Cart
	err := key.Scope(r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})).
		Where("status = ?", enums.CartStatusActive).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Create inserts an empty cart.
func (r *Repository) Create(ctx context.Context, cart *models.Cart) error {
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	if cart.Status == "" {
		cart.Status = enums.CartStatusActive
	}
	return r.db.WithContext(ctx).Omit("Items").Create(cart).Error
}

// MarkReplaced retires an active cart so a new one can take its place.
func (r *Repository) MarkReplaced(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ? AND status = ?", id, enums.CartStatusActive).
		Update("status", enums.CartStatusReplaced).
		Error
}

// MergeItem adds a line or increases the quantity of an existing one.
func (r *Repository) MergeItem(ctx context.Context, cartID uuid.UUID, productSaleElementID int64, quantity int) error {
	if quantity > models.MaxItemQuantity {
		return ErrQuantityLimit
	}
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).
		Exec(mergeItemSQL, uuid.New(), cartID, productSaleElementID, quantity, cartID, now, now, models.MaxItemQuantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrQuantityLimit
	}
	return nil
}
