package cart

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-wishlist/pkg/db"
	"github.com/angelmondragon/storefront-wishlist/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-wishlist/pkg/errors"
	"github.com/angelmondragon/storefront-wishlist/pkg/owner"
)

var activeCartConstraints = []string{
	"carts_customer_active_key",
	"carts_session_active_key",
	"carts.customer_id",
	"carts.session_id",
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Line is one product variant and quantity to place in a cart.
type Line struct {
	ProductSaleElementID int64 `json:"productSaleElementId"`
	Quantity             int   `json:"quantity"`
}

// Service exposes the cart mutations other features rely on.
type Service interface {
	// AddLines merges lines into the owner's active cart, opening one when needed.
	AddLines(ctx context.Context, tx *gorm.DB, key owner.Key, lines []Line) (*models.Cart, error)
	// ReplaceWithLines retires the active cart and opens a new one holding exactly lines.
	ReplaceWithLines(ctx context.Context, tx *gorm.DB, key owner.Key, lines []Line) (*models.Cart, error)
	ActiveCart(ctx context.Context, key owner.Key) (*models.Cart, error)
}

type service struct {
	repo CartRepository
	tx   txRunner
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) AddLines(ctx context.Context, tx *gorm.DB, key owner.Key, lines []Line) (*models.Cart, error) {
	if err := validate(key, lines); err != nil {
		return nil, err
	}
	var result *models.Cart
	err := s.inTx(ctx, tx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := repo.FindActive(ctx, key)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			cart, err = s.open(ctx, repo, key)
			if err != nil {
				return err
			}
		case err != nil:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active cart")
		}
		if err := mergeLines(ctx, repo, cart, lines); err != nil {
			return err
		}
		result, err = reload(ctx, repo, key)
		return err
	})
	return result, err
}

func (s *service) ReplaceWithLines(ctx context.Context, tx *gorm.DB, key owner.Key, lines []Line) (*models.Cart, error) {
	if err := validate(key, lines); err != nil {
		return nil, err
	}
	var result *models.Cart
	err := s.inTx(ctx, tx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.FindActive(ctx, key)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active cart")
		default:
			if err := repo.MarkReplaced(ctx, current.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "retire active cart")
			}
		}
		cart, err := s.open(ctx, repo, key)
		if err != nil {
			return err
		}
		if err := mergeLines(ctx, repo, cart, lines); err != nil {
			return err
		}
		result, err = reload(ctx, repo, key)
		return err
	})
	return result, err
}

func (s *service) ActiveCart(ctx context.Context, key owner.Key) (*models.Cart, error) {
	if !key.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "cart owner is required")
	}
	cart, err := s.repo.FindActive(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "active cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active cart")
	}
	return cart, nil
}

func (s *service) inTx(ctx context.Context, tx *gorm.DB, fn func(tx *gorm.DB) error) error {
	if tx != nil {
		return fn(tx)
	}
	return s.tx.WithTx(ctx, fn)
}

func (s *service) open(ctx context.Context, repo CartRepository, key owner.Key) (*models.Cart, error) {
	customerID, sessionID := key.Columns()
	cart := &models.Cart{CustomerID: customerID, SessionID: sessionID}
	if err := repo.Create(ctx, cart); err != nil {
		if db.IsUniqueViolation(err, activeCartConstraints...) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "active cart changed concurrently")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return cart, nil
}

func mergeLines(ctx context.Context, repo CartRepository, cart *models.Cart, lines []Line) error {
	for _, line := range lines {
		if err := repo.MergeItem(ctx, cart.ID, line.ProductSaleElementID, line.Quantity); err != nil {
			if errors.Is(err, ErrQuantityLimit) {
				return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "cart quantity must be at most 2147483647")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart line")
		}
	}
	return nil
}

func reload(ctx context.Context, repo CartRepository, key owner.Key) (*models.Cart, error) {
	cart, err := repo.FindActive(ctx, key)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload cart")
	}
	return cart, nil
}

func validate(key owner.Key, lines []Line) error {
	if !key.Valid() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "cart owner is required")
	}
	for _, line := range lines {
		if line.ProductSaleElementID <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "product sale element id must be positive")
		}
		if line.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
		}
		if line.Quantity > models.MaxItemQuantity {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at most 2147483647")
		}
	}
	return nil
}
