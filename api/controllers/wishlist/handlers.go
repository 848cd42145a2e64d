package wishlist

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-wishlist/api/middleware"
	"github.com/angelmondragon/storefront-wishlist/api/responses"
	"github.com/angelmondragon/storefront-wishlist/api/validators"
	wishlistsvc "github.com/angelmondragon/storefront-wishlist/internal/wishlist"
	"github.com/angelmondragon/storefront-wishlist/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-wishlist/pkg/errors"
	"github.com/angelmondragon/storefront-wishlist/pkg/logger"
	"github.com/angelmondragon/storefront-wishlist/pkg/owner"
)

const (
	paramWishListID           = "wishListId"
	paramProductSaleElementID = "productSaleElementId"
	paramCode                 = "code"

	msgNotFound          = "WishList not found"
	msgTypeAlreadyExists = "Wish List Type already exists"
)

// Views renders stored wishlists for responses.
type Views interface {
	Full(ctx context.Context, w *models.Wishlist) wishlistsvc.WishlistView
	Shared(ctx context.Context, w *models.Wishlist) wishlistsvc.WishlistView
	FullList(ctx context.Context, wishlists []models.Wishlist) []wishlistsvc.WishlistView
	LiteList(ctx context.Context, wishlists []models.Wishlist) []wishlistsvc.WishlistLiteView
}

// WishlistGet returns one owned wishlist, or null when the id is absent or unknown.
func WishlistGet(svc wishlistsvc.Service, views Views, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !available(w, r, svc, views, logg) {
			return
		}
		id, err := validators.ParseQueryUUID(r, paramWishListID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if id == nil {
			responses.WriteSuccess(w, nil)
			return
		}

		record, err := svc.GetWishList(r.Context(), middleware.OwnerFromContext(r.Context()), *id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if record == nil {
			responses.WriteSuccess(w, nil)
			return
		}
		responses.WriteSuccess(w, views.Full(r.Context(), record))
	}
}

// WishlistByCode serves a shared wishlist to anyone holding its code.
func WishlistByCode(svc wishlistsvc.Service, views Views, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !available(w, r, svc, views, logg) {
			return
		}
		code := strings.TrimSpace(chi.URLParam(r, paramCode))
		record, err := svc.GetWishListByCode(r.Context(), code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views.Shared(r.Context(), record))
	}
}

func WishlistLiteAll(svc wishlistsvc.Service, views Views, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !available(w, r, svc, views, logg) {
			return
		}
		records, err := svc.GetAllWishLists(r.Context(), middleware.OwnerFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views.LiteList(r.Context(), records))
	}
}

func WishlistAll(svc wishlistsvc.Service, views Views, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !available(w, r, svc, views, logg) {
			return
		}
		records, err := svc.GetAllWishLists(r.Context(), middleware.OwnerFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views.FullList(r.Context(), records))
	}
}

func WishlistCreate(svc wishlistsvc.Service, views Views, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !available(w, r, svc, views, logg) {
			return
		}
		var payload createRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.CreateUpdateWishList(r.Context(), middleware.OwnerFromContext(r.Context()), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views.Full(r.Context(), record))
	}
}

func WishlistDuplicate(svc wishlistsvc.Service, views Views, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !available(w, r, svc, views, logg) {
			return
		}
		id, err := validators.ParseUUIDParam(r, paramWishListID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload duplicateRequest
		if err := validators.DecodeOptionalJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.DuplicateWishList(r.Context(), middleware.OwnerFromContext(r.Context()), id, payload.Title)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views.Full(r.Context(), record))
	}
}

// WishlistDuplicateAsType promotes a copy of the wishlist to a reusable type.
// A source may have at most one type copy.
func WishlistDuplicateAsType(svc wishlistsvc.Service, views Views, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !available(w, r, svc, views, logg) {
			return
		}
		ctx := r.Context()
		id, err := validators.ParseUUIDParam(r, paramWishListID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		key := middleware.OwnerFromContext(ctx)

		source, err := svc.GetWishList(ctx, key, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if source == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, msgNotFound))
			return
		}

		exists, err := svc.IsWishListTypeAlreadyExists(ctx, source)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if exists {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeAlreadyExists, msgTypeAlreadyExists))
			return
		}

		clone, err := svc.CloneWishList(ctx, key, source.ID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		clone.IsType = true
		if err := svc.SaveWishList(ctx, clone); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, views.Full(ctx, clone))
	}
}

// WishlistUpdate renames a wishlist. Items are changed through add, remove and clear.
func WishlistUpdate(svc wishlistsvc.Service, views Views, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !available(w, r, svc, views, logg) {
			return
		}
		id, err := validators.ParseUUIDParam(r, paramWishListID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.CreateUpdateWishList(r.Context(), middleware.OwnerFromContext(r.Context()), wishlistsvc.CreateUpdateInput{
			ID:    &id,
			Title: payload.Title,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views.Full(r.Context(), record))
	}
}

func WishlistDelete(svc wishlistsvc.Service, views Views, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !available(w, r, svc, views, logg) {
			return
		}
		id, err := validators.ParseUUIDParam(r, paramWishListID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteWishList(r.Context(), middleware.OwnerFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteEmpty(w)
	}
}

func WishlistAddProduct(svc wishlistsvc.Service, views Views, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !available(w, r, svc, views, logg) {
			return
		}
		pseID, err := validators.ParseIDParam(r, paramProductSaleElementID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload addProductRequest
		if err := validators.DecodeOptionalJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.AddProduct(r.Context(), middleware.OwnerFromContext(r.Context()), wishlistsvc.AddProductInput{
			ProductSaleElementID: pseID,
			Quantity:             payload.Quantity,
			WishListID:           payload.WishListID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views.Full(r.Context(), record))
	}
}

func WishlistSetDefault(svc wishlistsvc.Service, views Views, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !available(w, r, svc, views, logg) {
			return
		}
		var payload wishListRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.SetWishListToDefault(r.Context(), middleware.OwnerFromContext(r.Context()), payload.WishListID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views.Full(r.Context(), record))
	}
}

func WishlistRemoveProduct(svc wishlistsvc.Service, views Views, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !available(w, r, svc, views, logg) {
			return
		}
		pseID, err := validators.ParseIDParam(r, paramProductSaleElementID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload wishListRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.RemoveProduct(r.Context(), middleware.OwnerFromContext(r.Context()), pseID, payload.WishListID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views.Full(r.Context(), record))
	}
}

func WishlistClear(svc wishlistsvc.Service, views Views, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !available(w, r, svc, views, logg) {
			return
		}
		id, err := validators.ParseUUIDParam(r, paramWishListID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.ClearWishList(r.Context(), middleware.OwnerFromContext(r.Context()), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views.Full(r.Context(), record))
	}
}

// WishlistExists answers {"data": true} or {"data": false}.
func WishlistExists(svc wishlistsvc.Service, views Views, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !available(w, r, svc, views, logg) {
			return
		}
		pseID, err := validators.ParseIDParam(r, paramProductSaleElementID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(r, paramWishListID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		found, err := svc.InWishList(r.Context(), middleware.OwnerFromContext(r.Context()), pseID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, found)
	}
}

func WishlistAddToCart(svc wishlistsvc.Service, views Views, logg *logger.Logger) http.HandlerFunc {
	return cartConversion(svc, views, logg, wishlistsvc.Service.AddWishListToCart)
}

func WishlistCartFromWishlist(svc wishlistsvc.Service, views Views, logg *logger.Logger) http.HandlerFunc {
	return cartConversion(svc, views, logg, wishlistsvc.Service.CreateCartFromWishlist)
}

type conversionFunc func(wishlistsvc.Service, context.Context, owner.Key, uuid.UUID) error

func cartConversion(svc wishlistsvc.Service, views Views, logg *logger.Logger, convert conversionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !available(w, r, svc, views, logg) {
			return
		}
		id, err := validators.ParseUUIDParam(r, paramWishListID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := convert(svc, r.Context(), middleware.OwnerFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteEmpty(w)
	}
}

func available(w http.ResponseWriter, r *http.Request, svc wishlistsvc.Service, views Views, logg *logger.Logger) bool {
	if svc == nil || views == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wishlist service unavailable"))
		return false
	}
	return true
}
