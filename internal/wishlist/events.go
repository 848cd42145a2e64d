package wishlist

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-wishlist/internal/cart"
	"github.com/angelmondragon/storefront-wishlist/pkg/db/models"
	"github.com/angelmondragon/storefront-wishlist/pkg/enums"
	"github.com/angelmondragon/storefront-wishlist/pkg/outbox"
)

type createdEvent struct {
	WishlistID uuid.UUID        `json:"wishlistId"`
	Owner      *outbox.OwnerRef `json:"owner"`
	Title      string           `json:"title"`
	IsType     bool             `json:"isType"`
	ItemCount  int              `json:"itemCount"`
}

type deletedEvent struct {
	WishlistID uuid.UUID        `json:"wishlistId"`
	Owner      *outbox.OwnerRef `json:"owner"`
}

type convertedEvent struct {
	WishlistID uuid.UUID                `json:"wishlistId"`
	CartID     uuid.UUID                `json:"cartId"`
	Mode       enums.CartConversionMode `json:"mode"`
	Lines      []cart.Line              `json:"lines"`
}

func ownerRef(wishlist *models.Wishlist) *outbox.OwnerRef {
	return &outbox.OwnerRef{CustomerID: wishlist.CustomerID, SessionID: wishlist.SessionID}
}
