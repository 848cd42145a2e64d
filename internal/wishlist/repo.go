package wishlist

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-wishlist/pkg/db/models"
	"github.com/angelmondragon/storefront-wishlist/pkg/owner"
)

const upsertItemSQL = `INSERT INTO wishlist_items (id, wishlist_id, product_sale_element_id, quantity, position, created_at, updated_at)
VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM wishlist_items WHERE wishlist_id = ?), ?, ?)
ON CONFLICT (wishlist_id, product_sale_element_id)
DO UPDATE SET quantity = wishlist_items.quantity + excluded.quantity, updated_at = excluded.updated_at
WHERE wishlist_items.quantity <= ? - excluded.quantity`

// ErrQuantityLimit is returned by AddItem when the merged quantity would exceed models.MaxItemQuantity.
var ErrQuantityLimit = errors.New("wishlist item quantity limit exceeded")

// Repository encapsulates wishlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func (r *Repository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

// FindByID loads a wishlist and its items regardless of owner.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Wishlist, error) {
	var wishlist models.Wishlist
	if err := r.withItems(ctx).Where("id = ?", id).First(&wishlist).Error; err != nil {
		return nil, err
	}
	return &wishlist, nil
}

// FindByCode loads the wishlist published under a share code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Wishlist, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var wishlist models.Wishlist
	if err := r.withItems(ctx).Where("code = ?", code).First(&wishlist).Error; err != nil {
		return nil, err
	}
	return &wishlist, nil
}

// FindOwned loads a wishlist only when key owns it.
func (r *Repository) FindOwned(ctx context.Context, key owner.Key, id uuid.UUID) (*models.Wishlist, error) {
	var wishlist models.Wishlist
	if err := key.Scope(r.withItems(ctx)).Where("id = ?", id).First(&wishlist).Error; err != nil {
		return nil, err
	}
	return &wishlist, nil
}

// ListByOwner returns the owner's wishlists, default first then oldest first.
func (r *Repository) ListByOwner(ctx context.Context, key owner.Key) ([]models.Wishlist, error) {
	var wishlists []models.Wishlist
	err := key.Scope(r.withItems(ctx)).
		Order("is_default DESC").
		Order("created_at ASC").
		Order("id ASC").
		Find(&wishlists).Error
	if err != nil {
		return nil, err
	}
	return wishlists, nil
}

// FindDefault returns the owner's default wishlist.
func (r *Repository) FindDefault(ctx context.Context, key owner.Key) (*models.Wishlist, error) {
	var wishlist models.Wishlist
	if err := key.Scope(r.withItems(ctx)).Where("is_default = ?", true).First(&wishlist).Error; err != nil {
		return nil, err
	}
	return &wishlist, nil
}

// Create inserts the wishlist row followed by its items. Item ids, wishlist ids
// and positions are filled in when missing.
func (r *Repository) Create(ctx context.Context, wishlist *models.Wishlist) error {
	if wishlist.ID == uuid.Nil {
		wishlist.ID = uuid.New()
	}
	db := r.db.WithContext(ctx)
	if err := db.Omit("Items").Create(wishlist).Error; err != nil {
		return err
	}
	if len(wishlist.Items) == 0 {
		return nil
	}
	for i := range wishlist.Items {
		item := &wishlist.Items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.WishlistID = wishlist.ID
		if item.Position == 0 {
			item.Position = i + 1
		}
	}
	return db.Create(&wishlist.Items).Error
}

// UpdateTitle renames a wishlist.
func (r *Repository) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Wishlist{}).
		Where("id = ?", id).
		Update("title", title)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the items and then the wishlist row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("wishlist_id = ?", id).Delete(&models.WishlistItem{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&models.Wishlist{}).Error
}

// AddItem appends the variant or, when it is already listed, adds quantity to it.
// The wishlist row's updated_at moves with every item change.
func (r *Repository) AddItem(ctx context.Context, wishlistID uuid.UUID, productSaleElementID int64, quantity int) error {
	if quantity > models.MaxItemQuantity {
		return ErrQuantityLimit
	}
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).
		Exec(upsertItemSQL, uuid.New(), wishlistID, productSaleElementID, quantity, wishlistID, now, now, models.MaxItemQuantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrQuantityLimit
	}
	return r.touch(ctx, wishlistID, now)
}

// RemoveItem deletes the variant line if it exists.
func (r *Repository) RemoveItem(ctx context.Context, wishlistID uuid.UUID, productSaleElementID int64) error {
	err := r.db.WithContext(ctx).
		Where("wishlist_id = ? AND product_sale_element_id = ?", wishlistID, productSaleElementID).
		Delete(&models.WishlistItem{}).
		Error
	if err != nil {
		return err
	}
	return r.touch(ctx, wishlistID, time.Now().UTC())
}

// ClearItems deletes every line of the wishlist and keeps the row.
func (r *Repository) ClearItems(ctx context.Context, wishlistID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("wishlist_id = ?", wishlistID).
		Delete(&models.WishlistItem{}).
		Error
	if err != nil {
		return err
	}
	return r.touch(ctx, wishlistID, time.Now().UTC())
}

func (r *Repository) touch(ctx context.Context, wishlistID uuid.UUID, now time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Wishlist{}).
		Where("id = ?", wishlistID).
		UpdateColumn("updated_at", now).
		Error
}

// SetDefault moves the owner's default flag to id. Call it inside a transaction:
// the partial unique indexes reject a second default between the two statements.
func (r *Repository) SetDefault(ctx context.Context, key owner.Key, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := key.Scope(db.Model(&models.Wishlist{})).
		Where("is_default = ? AND id <> ?", true, id).
		Update("is_default", false).Error; err != nil {
		return err
	}
	res := key.Scope(db.Model(&models.Wishlist{})).
		Where("id = ?", id).
		Update("is_default", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TypeCloneExists reports whether a type wishlist was already cloned from sourceID.
func (r *Repository) TypeCloneExists(ctx context.Context, sourceID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Wishlist{}).
		Where("source_wishlist_id = ? AND is_type = ?", sourceID, true).
		Count(&count).Error
	return count > 0, err
}

// HasItem reports whether the variant is listed in the wishlist.
func (r *Repository) HasItem(ctx context.Context, wishlistID uuid.UUID, productSaleElementID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("wishlist_id = ? AND product_sale_element_id = ?", wishlistID, productSaleElementID).
		Count(&count).Error
	return count > 0, err
}

// DeleteStaleSessionWishlists removes anonymous wishlists not touched since cutoff.
// Customer-owned wishlists are never expired.
func (r *Repository) DeleteStaleSessionWishlists(ctx context.Context, cutoff time.Time) (int64, error) {
	db := r.db.WithContext(ctx)
	stale := db.Model(&models.Wishlist{}).
		Select("id").
		Where("customer_id IS NULL AND updated_at < ?", cutoff)
	if err := db.Where("wishlist_id IN (?)", stale).Delete(&models.WishlistItem{}).Error; err != nil {
		return 0, err
	}
	res := db.Where("customer_id IS NULL AND updated_at < ?", cutoff).Delete(&models.Wishlist{})
	return res.RowsAffected, res.Error
}
