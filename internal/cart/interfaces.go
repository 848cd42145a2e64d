package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-wishlist/pkg/db/models"
	"github.com/angelmondragon/storefront-wishlist/pkg/owner"
)

// CartRepository defines the persistence surface required by the cart service.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	FindActive(ctx context.Context, key owner.Key) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	MarkReplaced(ctx context.Context, id uuid.UUID) error
	MergeItem(ctx context.Context, cartID uuid.UUID, productSaleElementID int64, quantity int) error
}
