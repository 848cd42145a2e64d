package wishlist

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-wishlist/internal/cart"
	"github.com/angelmondragon/storefront-wishlist/pkg/db"
	"github.com/angelmondragon/storefront-wishlist/pkg/db/models"
	"github.com/angelmondragon/storefront-wishlist/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-wishlist/pkg/errors"
	"github.com/angelmondragon/storefront-wishlist/pkg/logger"
	"github.com/angelmondragon/storefront-wishlist/pkg/outbox"
	"github.com/angelmondragon/storefront-wishlist/pkg/owner"
)

const (
	maxTitleLength = 255

	msgNotFound          = "WishList not found"
	msgTypeAlreadyExists = "Wish List Type already exists"
)

var (
	defaultConstraints = []string{
		models.WishlistCustomerDefaultKey,
		models.WishlistSessionDefaultKey,
		models.WishlistCustomerColumn,
		models.WishlistSessionColumn,
	}
	typeSourceConstraints = []string{
		models.WishlistTypeSourceKey,
		models.WishlistSourceColumn,
	}
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type cartMutator interface {
	AddLines(ctx context.Context, tx *gorm.DB, key owner.Key, lines []cart.Line) (*models.Cart, error)
	ReplaceWithLines(ctx context.Context, tx *gorm.DB, key owner.Key, lines []cart.Line) (*models.Cart, error)
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	Repo   *Repository
	Tx     txRunner
	Carts  cartMutator
	Outbox eventEmitter
	Logger *logger.Logger
	// DefaultTitle names the wishlist created when a product is added without one.
	DefaultTitle string
}

// ItemInput is one initial wishlist line.
type ItemInput struct {
	ProductSaleElementID int64
	Quantity             int
}

// CreateUpdateInput creates a wishlist when ID is nil and renames one otherwise.
type CreateUpdateInput struct {
	ID    *uuid.UUID
	Title string
	Items []ItemInput
}

// AddProductInput adds a variant to WishListID, or to the owner's default wishlist when nil.
type AddProductInput struct {
	ProductSaleElementID int64
	Quantity             *int
	WishListID           *uuid.UUID
}

// Service exposes business rules for wishlist management.
type Service interface {
	GetWishList(ctx context.Context, key owner.Key, id uuid.UUID) (*models.Wishlist, error)
	GetWishListByCode(ctx context.Context, code string) (*models.Wishlist, error)
	GetAllWishLists(ctx context.Context, key owner.Key) ([]models.Wishlist, error)
	CreateUpdateWishList(ctx context.Context, key owner.Key, input CreateUpdateInput) (*models.Wishlist, error)
	DuplicateWishList(ctx context.Context, key owner.Key, id uuid.UUID, newTitle *string) (*models.Wishlist, error)
	IsWishListTypeAlreadyExists(ctx context.Context, source *models.Wishlist) (bool, error)
	CloneWishList(ctx context.Context, key owner.Key, id uuid.UUID) (*models.Wishlist, error)
	SaveWishList(ctx context.Context, wishlist *models.Wishlist) error
	DeleteWishList(ctx context.Context, key owner.Key, id uuid.UUID) error
	AddProduct(ctx context.Context, key owner.Key, input AddProductInput) (*models.Wishlist, error)
	RemoveProduct(ctx context.Context, key owner.Key, productSaleElementID int64, wishListID uuid.UUID) (*models.Wishlist, error)
	ClearWishList(ctx context.Context, key owner.Key, id uuid.UUID) (*models.Wishlist, error)
	SetWishListToDefault(ctx context.Context, key owner.Key, id uuid.UUID) (*models.Wishlist, error)
	InWishList(ctx context.Context, key owner.Key, productSaleElementID int64, wishListID uuid.UUID) (bool, error)
	AddWishListToCart(ctx context.Context, key owner.Key, id uuid.UUID) error
	CreateCartFromWishlist(ctx context.Context, key owner.Key, id uuid.UUID) error
}

type service struct {
	repo         *Repository
	tx           txRunner
	carts        cartMutator
	outbox       eventEmitter
	logg         *logger.Logger
	defaultTitle string
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	if params.Carts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart service is required")
	}
	if params.Outbox == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "outbox service is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	defaultTitle, err := normalizeTitle(params.DefaultTitle)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "default wishlist title is invalid")
	}
	return &service{
		repo:         params.Repo,
		tx:           params.Tx,
		carts:        params.Carts,
		outbox:       params.Outbox,
		logg:         logg,
		defaultTitle: defaultTitle,
	}, nil
}

// GetWishList returns nil without error when the wishlist is absent or owned by someone else.
func (s *service) GetWishList(ctx context.Context, key owner.Key, id uuid.UUID) (*models.Wishlist, error) {
	if err := requireOwner(key); err != nil {
		return nil, err
	}
	wishlist, err := s.repo.FindOwned(ctx, key, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist")
	}
	return wishlist, nil
}

// GetWishListByCode is the public share lookup and is not owner scoped.
func (s *service) GetWishListByCode(ctx context.Context, code string) (*models.Wishlist, error) {
	wishlist, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, lookupError(err)
	}
	return wishlist, nil
}

func (s *service) GetAllWishLists(ctx context.Context, key owner.Key) ([]models.Wishlist, error) {
	if err := requireOwner(key); err != nil {
		return nil, err
	}
	wishlists, err := s.repo.ListByOwner(ctx, key)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlists")
	}
	return wishlists, nil
}

// CreateUpdateWishList renames input.ID when set; items are only used on creation.
func (s *service) CreateUpdateWishList(ctx context.Context, key owner.Key, input CreateUpdateInput) (*models.Wishlist, error) {
	if err := requireOwner(key); err != nil {
		return nil, err
	}
	title, err := normalizeTitle(input.Title)
	if err != nil {
		return nil, err
	}
	if input.ID != nil {
		return s.rename(ctx, key, *input.ID, title)
	}

	items, err := mergeItems(input.Items)
	if err != nil {
		return nil, err
	}
	customerID, sessionID := key.Columns()
	wishlist := &models.Wishlist{
		ID:         uuid.New(),
		CustomerID: customerID,
		SessionID:  sessionID,
		Title:      title,
		Code:       newCode(),
		Items:      items,
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		hasDefault, err := hasDefault(ctx, repo, key)
		if err != nil {
			return err
		}
		wishlist.IsDefault = !hasDefault
		return s.insert(ctx, tx, wishlist)
	})
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.withOwner(ctx, key, wishlist.ID), "wishlist created")
	return wishlist, nil
}

func (s *service) rename(ctx context.Context, key owner.Key, id uuid.UUID, title string) (*models.Wishlist, error) {
	var wishlist *models.Wishlist
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindOwned(ctx, key, id); err != nil {
			return lookupError(err)
		}
		if err := repo.UpdateTitle(ctx, id, title); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rename wishlist")
		}
		var err error
		wishlist, err = reload(ctx, repo, id)
		return err
	})
	return wishlist, err
}

// DuplicateWishList copies title and items into a new wishlist owned by key.
func (s *service) DuplicateWishList(ctx context.Context, key owner.Key, id uuid.UUID, newTitle *string) (*models.Wishlist, error) {
	if err := requireOwner(key); err != nil {
		return nil, err
	}
	var override string
	if newTitle != nil && strings.TrimSpace(*newTitle) != "" {
		title, err := normalizeTitle(*newTitle)
		if err != nil {
			return nil, err
		}
		override = title
	}

	var duplicate *models.Wishlist
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		source, err := s.repo.WithTx(tx).FindOwned(ctx, key, id)
		if err != nil {
			return lookupError(err)
		}
		duplicate = copyWishlist(source, key)
		if override != "" {
			duplicate.Title = override
		}
		return s.insert(ctx, tx, duplicate)
	})
	if err != nil {
		return nil, err
	}
	return duplicate, nil
}

func (s *service) IsWishListTypeAlreadyExists(ctx context.Context, source *models.Wishlist) (bool, error) {
	if source == nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "source wishlist is required")
	}
	exists, err := s.repo.TypeCloneExists(ctx, source.ID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check wishlist type")
	}
	return exists, nil
}

// CloneWishList returns an unsaved copy that remembers its source. The caller
// decides whether it becomes a type and persists it with SaveWishList.
func (s *service) CloneWishList(ctx context.Context, key owner.Key, id uuid.UUID) (*models.Wishlist, error) {
	if err := requireOwner(key); err != nil {
		return nil, err
	}
	source, err := s.repo.FindOwned(ctx, key, id)
	if err != nil {
		return nil, lookupError(err)
	}
	clone := copyWishlist(source, key)
	sourceID := source.ID
	clone.SourceWishlistID = &sourceID
	return clone, nil
}

func (s *service) SaveWishList(ctx context.Context, wishlist *models.Wishlist) error {
	if wishlist == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "wishlist is required")
	}
	if wishlist.CustomerID == nil && wishlist.SessionID == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "wishlist owner is required")
	}
	if _, err := normalizeTitle(wishlist.Title); err != nil {
		return err
	}
	if wishlist.Code == "" {
		wishlist.Code = newCode()
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.insert(ctx, tx, wishlist)
	})
}

// DeleteWishList never reports a missing wishlist.
func (s *service) DeleteWishList(ctx context.Context, key owner.Key, id uuid.UUID) error {
	if err := requireOwner(key); err != nil {
		return err
	}
	deleted := false
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		wishlist, err := repo.FindOwned(ctx, key, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist")
		}
		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete wishlist")
		}
		deleted = true
		return s.emit(ctx, tx, enums.EventWishlistDeleted, wishlist, deletedEvent{
			WishlistID: wishlist.ID,
			Owner:      ownerRef(wishlist),
		})
	})
	if err == nil && deleted {
		s.logg.Info(s.withOwner(ctx, key, id), "wishlist deleted")
	}
	return err
}

func (s *service) AddProduct(ctx context.Context, key owner.Key, input AddProductInput) (*models.Wishlist, error) {
	if err := requireOwner(key); err != nil {
		return nil, err
	}
	if input.ProductSaleElementID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product sale element id must be positive")
	}
	quantity := 1
	if input.Quantity != nil {
		quantity = *input.Quantity
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if quantity > models.MaxItemQuantity {
		return nil, errQuantityTooLarge(nil)
	}

	var wishlist *models.Wishlist
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		target, err := s.target(ctx, tx, key, input.WishListID)
		if err != nil {
			return err
		}
		if err := repo.AddItem(ctx, target, input.ProductSaleElementID, quantity); err != nil {
			if errors.Is(err, ErrQuantityLimit) {
				return errQuantityTooLarge(err)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add wishlist item")
		}
		wishlist, err = reload(ctx, repo, target)
		return err
	})
	return wishlist, err
}

// target resolves the wishlist AddProduct writes to, creating the owner's
// default wishlist when none was named and none exists.
func (s *service) target(ctx context.Context, tx *gorm.DB, key owner.Key, id *uuid.UUID) (uuid.UUID, error) {
	repo := s.repo.WithTx(tx)
	if id != nil {
		wishlist, err := repo.FindOwned(ctx, key, *id)
		if err != nil {
			return uuid.Nil, lookupError(err)
		}
		return wishlist.ID, nil
	}
	current, err := repo.FindDefault(ctx, key)
	if err == nil {
		return current.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load default wishlist")
	}
	customerID, sessionID := key.Columns()
	created := &models.Wishlist{
		ID:         uuid.New(),
		CustomerID: customerID,
		SessionID:  sessionID,
		Title:      s.defaultTitle,
		Code:       newCode(),
		IsDefault:  true,
	}
	if err := s.insert(ctx, tx, created); err != nil {
		return uuid.Nil, err
	}
	return created.ID, nil
}

func (s *service) RemoveProduct(ctx context.Context, key owner.Key, productSaleElementID int64, wishListID uuid.UUID) (*models.Wishlist, error) {
	return s.mutateOwned(ctx, key, wishListID, func(repo *Repository) error {
		if err := repo.RemoveItem(ctx, wishListID, productSaleElementID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist item")
		}
		return nil
	})
}

func (s *service) ClearWishList(ctx context.Context, key owner.Key, id uuid.UUID) (*models.Wishlist, error) {
	return s.mutateOwned(ctx, key, id, func(repo *Repository) error {
		if err := repo.ClearItems(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear wishlist")
		}
		return nil
	})
}

// SetWishListToDefault is idempotent; a concurrent default change surfaces as a conflict.
func (s *service) SetWishListToDefault(ctx context.Context, key owner.Key, id uuid.UUID) (*models.Wishlist, error) {
	return s.mutateOwned(ctx, key, id, func(repo *Repository) error {
		if err := repo.SetDefault(ctx, key, id); err != nil {
			if db.IsUniqueViolation(err, defaultConstraints...) {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "default wishlist changed concurrently")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set default wishlist")
		}
		return nil
	})
}

func (s *service) mutateOwned(ctx context.Context, key owner.Key, id uuid.UUID, fn func(repo *Repository) error) (*models.Wishlist, error) {
	if err := requireOwner(key); err != nil {
		return nil, err
	}
	var wishlist *models.Wishlist
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindOwned(ctx, key, id); err != nil {
			return lookupError(err)
		}
		if err := fn(repo); err != nil {
			return err
		}
		var err error
		wishlist, err = reload(ctx, repo, id)
		return err
	})
	return wishlist, err
}

// InWishList is false for wishlists the owner cannot see.
func (s *service) InWishList(ctx context.Context, key owner.Key, productSaleElementID int64, wishListID uuid.UUID) (bool, error) {
	if err := requireOwner(key); err != nil {
		return false, err
	}
	if _, err := s.repo.FindOwned(ctx, key, wishListID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist")
	}
	found, err := s.repo.HasItem(ctx, wishListID, productSaleElementID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check wishlist item")
	}
	return found, nil
}

// AddWishListToCart merges every line into the active cart. The wishlist is left as is.
func (s *service) AddWishListToCart(ctx context.Context, key owner.Key, id uuid.UUID) error {
	return s.convert(ctx, key, id, enums.CartConversionMerge)
}

// CreateCartFromWishlist starts a fresh cart holding exactly the wishlist lines.
func (s *service) CreateCartFromWishlist(ctx context.Context, key owner.Key, id uuid.UUID) error {
	return s.convert(ctx, key, id, enums.CartConversionReplace)
}

func (s *service) convert(ctx context.Context, key owner.Key, id uuid.UUID, mode enums.CartConversionMode) error {
	if err := requireOwner(key); err != nil {
		return err
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		wishlist, err := s.repo.WithTx(tx).FindOwned(ctx, key, id)
		if err != nil {
			return lookupError(err)
		}
		lines := make([]cart.Line, 0, len(wishlist.Items))
		for _, item := range wishlist.Items {
			lines = append(lines, cart.Line{ProductSaleElementID: item.ProductSaleElementID, Quantity: item.Quantity})
		}

		var target *models.Cart
		switch mode {
		case enums.CartConversionMerge:
			if len(lines) == 0 {
				return nil
			}
			target, err = s.carts.AddLines(ctx, tx, key, lines)
		default:
			target, err = s.carts.ReplaceWithLines(ctx, tx, key, lines)
		}
		if err != nil {
			return passThrough(err, "update cart")
		}
		return s.emit(ctx, tx, enums.EventWishlistConvertedToCart, wishlist, convertedEvent{
			WishlistID: wishlist.ID,
			CartID:     target.ID,
			Mode:       mode,
			Lines:      lines,
		})
	})
}

// insert creates wishlist and queues wishlist_created in tx.
func (s *service) insert(ctx context.Context, tx *gorm.DB, wishlist *models.Wishlist) error {
	if err := s.repo.WithTx(tx).Create(ctx, wishlist); err != nil {
		switch {
		case db.IsUniqueViolation(err, typeSourceConstraints...):
			return pkgerrors.Wrap(pkgerrors.CodeAlreadyExists, err, msgTypeAlreadyExists)
		case db.IsUniqueViolation(err, defaultConstraints...):
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "default wishlist changed concurrently")
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create wishlist")
		}
	}
	return s.emit(ctx, tx, enums.EventWishlistCreated, wishlist, createdEvent{
		WishlistID: wishlist.ID,
		Owner:      ownerRef(wishlist),
		Title:      wishlist.Title,
		IsType:     wishlist.IsType,
		ItemCount:  len(wishlist.Items),
	})
}

func (s *service) emit(ctx context.Context, tx *gorm.DB, eventType enums.OutboxEventType, wishlist *models.Wishlist, data any) error {
	err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.AggregateWishlist,
		AggregateID:   wishlist.ID,
		Owner:         ownerRef(wishlist),
		Data:          data,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "queue wishlist event")
	}
	return nil
}

func (s *service) withOwner(ctx context.Context, key owner.Key, id uuid.UUID) context.Context {
	ctx = s.logg.WithOwner(ctx, key.Kind().String(), key.ID())
	return s.logg.WithField(ctx, "wishlist_id", id.String())
}

func hasDefault(ctx context.Context, repo *Repository, key owner.Key) (bool, error) {
	_, err := repo.FindDefault(ctx, key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	default:
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load default wishlist")
	}
}

func reload(ctx context.Context, repo *Repository, id uuid.UUID) (*models.Wishlist, error) {
	wishlist, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload wishlist")
	}
	return wishlist, nil
}

// copyWishlist builds an unsaved, non-default, non-type copy of source owned by key.
func copyWishlist(source *models.Wishlist, key owner.Key) *models.Wishlist {
	customerID, sessionID := key.Columns()
	items := make([]models.WishlistItem, len(source.Items))
	for i, item := range source.Items {
		items[i] = models.WishlistItem{
			ProductSaleElementID: item.ProductSaleElementID,
			Quantity:             item.Quantity,
			Position:             item.Position,
		}
	}
	return &models.Wishlist{
		ID:         uuid.New(),
		CustomerID: customerID,
		SessionID:  sessionID,
		Title:      source.Title,
		Code:       newCode(),
		Items:      items,
	}
}

// mergeItems drops lines with a non-positive quantity or variant and sums repeated variants.
func mergeItems(inputs []ItemInput) ([]models.WishlistItem, error) {
	items := make([]models.WishlistItem, 0, len(inputs))
	index := make(map[int64]int, len(inputs))
	for _, input := range inputs {
		if input.Quantity <= 0 || input.ProductSaleElementID <= 0 {
			continue
		}
		if input.Quantity > models.MaxItemQuantity {
			return nil, errQuantityTooLarge(nil)
		}
		if i, ok := index[input.ProductSaleElementID]; ok {
			if items[i].Quantity > models.MaxItemQuantity-input.Quantity {
				return nil, errQuantityTooLarge(nil)
			}
			items[i].Quantity += input.Quantity
			continue
		}
		index[input.ProductSaleElementID] = len(items)
		items = append(items, models.WishlistItem{
			ProductSaleElementID: input.ProductSaleElementID,
			Quantity:             input.Quantity,
			Position:             len(items) + 1,
		})
	}
	return items, nil
}

func errQuantityTooLarge(cause error) error {
	const msg = "quantity must be at most 2147483647"
	if cause == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, msg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, cause, msg)
}

func normalizeTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "title must be at most 255 characters")
	}
	return title, nil
}

// newCode returns a 32 character lowercase hex share token.
func newCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func requireOwner(key owner.Key) error {
	if !key.Valid() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "wishlist owner is required")
	}
	return nil
}

func lookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, msgNotFound)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist")
}

func passThrough(err error, message string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}
