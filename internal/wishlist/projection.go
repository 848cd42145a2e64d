package wishlist

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/angelmondragon/storefront-wishlist/internal/catalog"
	"github.com/angelmondragon/storefront-wishlist/pkg/db/models"
	"github.com/angelmondragon/storefront-wishlist/pkg/locale"
	"github.com/angelmondragon/storefront-wishlist/pkg/logger"
)

// ProductView is the catalog detail shown next to an item.
type ProductView struct {
	productID int64
	ref       string
	title     string
	price     decimal.Decimal
	currency  string
	imageURL  string
	inStock   bool
}

func NewProductView(p catalog.Product) ProductView {
	return ProductView{
		productID: p.ProductID,
		ref:       p.Ref,
		title:     p.Title,
		price:     p.Price,
		currency:  p.Currency,
		imageURL:  p.ImageURL,
		inStock:   p.InStock,
	}
}

func (v ProductView) Title() string          { return v.title }
func (v ProductView) Price() decimal.Decimal { return v.price }

func (v ProductView) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ProductID int64           `json:"productId"`
		Ref       string          `json:"ref"`
		Title     string          `json:"title"`
		Price     decimal.Decimal `json:"price"`
		Currency  string          `json:"currency"`
		ImageURL  string          `json:"imageUrl,omitempty"`
		InStock   bool            `json:"inStock"`
	}{v.productID, v.ref, v.title, v.price, v.currency, v.imageURL, v.inStock})
}

// ItemView is one wishlist line as returned by the API.
type ItemView struct {
	productSaleElementID int64
	quantity             int
	product              *ProductView
}

// NewItemView builds an item; product may be nil when the catalog has no detail.
func NewItemView(productSaleElementID int64, quantity int, product *ProductView) ItemView {
	return ItemView{productSaleElementID: productSaleElementID, quantity: quantity, product: product}
}

func (v ItemView) ProductSaleElementID() int64 { return v.productSaleElementID }
func (v ItemView) Quantity() int               { return v.quantity }
func (v ItemView) Product() *ProductView {
	if v.product == nil {
		return nil
	}
	p := *v.product
	return &p
}

func (v ItemView) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ProductSaleElementID int64        `json:"productSaleElementId"`
		Quantity             int          `json:"quantity"`
		Product              *ProductView `json:"product,omitempty"`
	}{v.productSaleElementID, v.quantity, v.product})
}

// WishlistLiteView is a wishlist without its items.
type WishlistLiteView struct {
	id         uuid.UUID
	isDefault  bool
	isType     bool
	customerID *uuid.UUID
	sessionID  *string
	title      string
	code       string
	sharedURL  string
}

// NewWishlistLiteView copies the wishlist header fields.
func NewWishlistLiteView(w *models.Wishlist, sharedURL string) WishlistLiteView {
	view := WishlistLiteView{
		id:        w.ID,
		isDefault: w.IsDefault,
		isType:    w.IsType,
		title:     w.Title,
		code:      w.Code,
		sharedURL: sharedURL,
	}
	if w.CustomerID != nil {
		id := *w.CustomerID
		view.customerID = &id
	}
	if w.SessionID != nil {
		id := *w.SessionID
		view.sessionID = &id
	}
	return view
}

func (v WishlistLiteView) ID() uuid.UUID     { return v.id }
func (v WishlistLiteView) Default() bool     { return v.isDefault }
func (v WishlistLiteView) IsType() bool      { return v.isType }
func (v WishlistLiteView) Title() string     { return v.title }
func (v WishlistLiteView) Code() string      { return v.code }
func (v WishlistLiteView) SharedURL() string { return v.sharedURL }

type liteJSON struct {
	ID         uuid.UUID  `json:"id"`
	Default    bool       `json:"default"`
	IsType     bool       `json:"isType"`
	CustomerID *uuid.UUID `json:"customerId"`
	SessionID  *string    `json:"sessionId"`
	Title      string     `json:"title"`
	Code       string     `json:"code"`
	SharedURL  string     `json:"sharedUrl"`
}

func (v WishlistLiteView) wire() liteJSON {
	return liteJSON{v.id, v.isDefault, v.isType, v.customerID, v.sessionID, v.title, v.code, v.sharedURL}
}

func (v WishlistLiteView) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.wire())
}

// WishlistView is a wishlist with its items.
type WishlistView struct {
	WishlistLiteView
	items []ItemView
}

func NewWishlistView(lite WishlistLiteView, items []ItemView) WishlistView {
	copied := make([]ItemView, len(items))
	copy(copied, items)
	return WishlistView{WishlistLiteView: lite, items: copied}
}

// Items returns a copy of the item views.
func (v WishlistView) Items() []ItemView {
	out := make([]ItemView, len(v.items))
	copy(out, v.items)
	return out
}

func (v WishlistView) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		liteJSON
		Items []ItemView `json:"items"`
	}{v.wire(), v.items})
}

// Presenter turns stored wishlists into API views. It never writes.
type Presenter struct {
	catalog catalog.Lookup
	urls    SharedURLBuilder
	logg    *logger.Logger
}

// NewPresenter builds a presenter; a nil lookup leaves items without product detail.
func NewPresenter(lookup catalog.Lookup, urls SharedURLBuilder, logg *logger.Logger) *Presenter {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Presenter{catalog: lookup, urls: urls, logg: logg}
}

func (p *Presenter) Lite(ctx context.Context, w *models.Wishlist) WishlistLiteView {
	return NewWishlistLiteView(w, p.urls.Build(locale.FromContext(ctx), w.Code))
}

func (p *Presenter) LiteList(ctx context.Context, wishlists []models.Wishlist) []WishlistLiteView {
	out := make([]WishlistLiteView, len(wishlists))
	for i := range wishlists {
		out[i] = p.Lite(ctx, &wishlists[i])
	}
	return out
}

func (p *Presenter) Full(ctx context.Context, w *models.Wishlist) WishlistView {
	return p.fullWith(ctx, w, p.products(ctx, w.Items))
}

// Shared is the view served for a share code. Owner identifiers are withheld.
func (p *Presenter) Shared(ctx context.Context, w *models.Wishlist) WishlistView {
	anon := *w
	anon.CustomerID, anon.SessionID = nil, nil
	return p.Full(ctx, &anon)
}

// FullList expands every wishlist with one catalog lookup.
func (p *Presenter) FullList(ctx context.Context, wishlists []models.Wishlist) []WishlistView {
	var all []models.WishlistItem
	for _, w := range wishlists {
		all = append(all, w.Items...)
	}
	products := p.products(ctx, all)
	out := make([]WishlistView, len(wishlists))
	for i := range wishlists {
		out[i] = p.fullWith(ctx, &wishlists[i], products)
	}
	return out
}

func (p *Presenter) fullWith(ctx context.Context, w *models.Wishlist, products map[int64]catalog.Product) WishlistView {
	items := make([]ItemView, len(w.Items))
	for i, item := range w.Items {
		var product *ProductView
		if detail, ok := products[item.ProductSaleElementID]; ok {
			view := NewProductView(detail)
			product = &view
		}
		items[i] = NewItemView(item.ProductSaleElementID, item.Quantity, product)
	}
	return NewWishlistView(p.Lite(ctx, w), items)
}

func (p *Presenter) products(ctx context.Context, items []models.WishlistItem) map[int64]catalog.Product {
	if p.catalog == nil || len(items) == 0 {
		return nil
	}
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ProductSaleElementID
	}
	var lang string
	if tag := locale.FromContext(ctx); tag != language.Und {
		lang = tag.String()
	}
	products, err := p.catalog.Products(ctx, lang, ids)
	if err != nil {
		p.logg.Warn(p.logg.WithField(ctx, "error", err.Error()), "catalog lookup failed, returning items without product detail")
		return nil
	}
	return products
}
