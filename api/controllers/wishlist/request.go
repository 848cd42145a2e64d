package wishlist

import (
	"github.com/google/uuid"

	wishlistsvc "github.com/angelmondragon/storefront-wishlist/internal/wishlist"
)

type itemRequest struct {
	ProductSaleElementID int64 `json:"productSaleElementId" validate:"gt=0"`
	Quantity             int   `json:"quantity" validate:"max=2147483647"`
}

type createRequest struct {
	Title               string        `json:"title" validate:"required,max=255"`
	ProductSaleElements []itemRequest `json:"productSaleElements" validate:"dive"`
}

type duplicateRequest struct {
	Title *string `json:"title" validate:"omitempty,max=255"`
}

type updateRequest struct {
	Title string `json:"title" validate:"required,max=255"`
}

// Quantity defaults to 1 and WishListID to the owner's default wishlist.
type addProductRequest struct {
	Quantity   *int       `json:"quantity" validate:"omitempty,min=1,max=2147483647"`
	WishListID *uuid.UUID `json:"wishListId"`
}

type wishListRequest struct {
	WishListID uuid.UUID `json:"wishListId" validate:"required"`
}

func (req createRequest) toInput() wishlistsvc.CreateUpdateInput {
	items := make([]wishlistsvc.ItemInput, 0, len(req.ProductSaleElements))
	for _, item := range req.ProductSaleElements {
		items = append(items, wishlistsvc.ItemInput{
			ProductSaleElementID: item.ProductSaleElementID,
			Quantity:             item.Quantity,
		})
	}
	return wishlistsvc.CreateUpdateInput{Title: req.Title, Items: items}
}
