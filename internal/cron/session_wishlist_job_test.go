package cron

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront-wishlist/internal/wishlist"
	"github.com/angelmondragon/storefront-wishlist/pkg/db/dbtest"
	"github.com/angelmondragon/storefront-wishlist/pkg/db/models"
	"github.com/angelmondragon/storefront-wishlist/pkg/logger"
)

func TestSessionWishlistJobExpiresOnlyStaleAnonymousWishlists(t *testing.T) {
	client := dbtest.Client(t)
	db := client.DB()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	stale := now.Add(-400 * 24 * time.Hour)

	session := "sess-old"
	fresh := "sess-new"
	customer := uuid.New()
	rows := []models.Wishlist{
		{ID: uuid.New(), SessionID: &session, Title: "old", Code: "c1", CreatedAt: stale, UpdatedAt: stale,
			Items: []models.WishlistItem{{ID: uuid.New(), ProductSaleElementID: 5, Quantity: 1, Position: 1, CreatedAt: stale, UpdatedAt: stale}}},
		{ID: uuid.New(), SessionID: &fresh, Title: "new", Code: "c2", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New(), CustomerID: &customer, Title: "mine", Code: "c3", CreatedAt: stale, UpdatedAt: stale},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	jobIface, err := NewSessionWishlistJob(SessionWishlistJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Repository: wishlist.NewRepository(db),
		TTL:        365 * 24 * time.Hour,
	})
	require.NoError(t, err)
	job := jobIface.(*sessionWishlistJob)
	job.now = func() time.Time { return now }

	require.NoError(t, job.Run(context.Background()))

	var titles []string
	require.NoError(t, db.Model(&models.Wishlist{}).Order("title").Pluck("title", &titles).Error)
	assert.Equal(t, []string{"mine", "new"}, titles)

	var items int64
	require.NoError(t, db.Model(&models.WishlistItem{}).Count(&items).Error)
	assert.Zero(t, items)
}

func TestSessionWishlistJobRequiresTTL(t *testing.T) {
	_, err := NewSessionWishlistJob(SessionWishlistJobParams{
		Logger:     logger.Nop(),
		Repository: wishlist.NewRepository(nil),
	})
	assert.Error(t, err)
}
