package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-wishlist/pkg/db/dbtest"
	"github.com/angelmondragon/storefront-wishlist/pkg/db/models"
	"github.com/angelmondragon/storefront-wishlist/pkg/enums"
	"github.com/angelmondragon/storefront-wishlist/pkg/logger"
)

func TestEmitStoresEnvelope(t *testing.T) {
	client := dbtest.Client(t)
	repo := NewRepository(client.DB())
	svc := NewService(repo, logger.Nop())

	aggregateID := uuid.New()
	session := "sess-1"
	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return svc.Emit(context.Background(), tx, DomainEvent{
			EventType:     enums.EventWishlistCreated,
			AggregateType: enums.AggregateWishlist,
			AggregateID:   aggregateID,
			Owner:         &OwnerRef{SessionID: &session},
			Data:          map[string]any{"title": "Birthday"},
		})
	})
	require.NoError(t, err)

	var rows []models.OutboxEvent
	require.NoError(t, client.DB().Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, enums.EventWishlistCreated, rows[0].EventType)
	assert.Equal(t, aggregateID, rows[0].AggregateID)

	env, err := DecodeEnvelope(rows[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, 1, env.Version)
	assert.Equal(t, rows[0].ID.String(), env.EventID)
	require.NotNil(t, env.Owner)
	assert.Equal(t, "sess-1", *env.Owner.SessionID)
	assert.JSONEq(t, `{"title":"Birthday"}`, string(env.Data))
}

func TestEmitRequiresTransactionAndKnownTypes(t *testing.T) {
	svc := NewService(NewRepository(nil), nil)
	err := svc.Emit(context.Background(), nil, DomainEvent{EventType: enums.EventWishlistCreated, AggregateType: enums.AggregateWishlist})
	require.Error(t, err)

	client := dbtest.Client(t)
	err = client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return svc.Emit(context.Background(), tx, DomainEvent{EventType: "order_created", AggregateType: enums.AggregateWishlist})
	})
	require.Error(t, err)
}

func TestEmitRollsBackWithCaller(t *testing.T) {
	client := dbtest.Client(t)
	svc := NewService(NewRepository(client.DB()), nil)

	boom := errors.New("boom")
	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		if err := svc.Emit(context.Background(), tx, DomainEvent{
			EventType:     enums.EventWishlistDeleted,
			AggregateType: enums.AggregateWishlist,
			AggregateID:   uuid.New(),
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, client.DB().Model(&models.OutboxEvent{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRepositoryPublishLifecycle(t *testing.T) {
	client := dbtest.Client(t)
	repo := NewRepository(client.DB())
	dlq := NewDLQRepository(client.DB())

	base := time.Now().UTC().Add(-time.Minute)
	events := []models.OutboxEvent{
		{ID: uuid.New(), EventType: enums.EventWishlistCreated, AggregateType: enums.AggregateWishlist, AggregateID: uuid.New(), Payload: []byte(`{}`), CreatedAt: base},
		{ID: uuid.New(), EventType: enums.EventWishlistDeleted, AggregateType: enums.AggregateWishlist, AggregateID: uuid.New(), Payload: []byte(`{}`), CreatedAt: base.Add(time.Second)},
		{ID: uuid.New(), EventType: enums.EventWishlistDeleted, AggregateType: enums.AggregateWishlist, AggregateID: uuid.New(), Payload: []byte(`{}`), CreatedAt: base.Add(2 * time.Second), AttemptCount: 3},
	}
	ctx := context.Background()
	require.NoError(t, client.WithTx(ctx, func(tx *gorm.DB) error {
		for _, e := range events {
			if err := repo.Insert(tx, e); err != nil {
				return err
			}
		}
		return nil
	}))

	require.NoError(t, client.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := repo.FetchUnpublishedForPublish(tx, 10, 3)
		require.NoError(t, err)
		require.Len(t, rows, 2, "row at max attempts must be skipped")
		assert.Equal(t, events[0].ID, rows[0].ID)

		require.NoError(t, repo.MarkPublishedTx(tx, rows[0].ID))
		require.NoError(t, repo.MarkFailedTx(tx, rows[1].ID, errors.New("unavailable")))
		return nil
	}))

	var failed models.OutboxEvent
	require.NoError(t, client.DB().First(&failed, "id = ?", events[1].ID).Error)
	assert.Equal(t, 1, failed.AttemptCount)
	require.NotNil(t, failed.LastError)
	assert.Equal(t, "unavailable", *failed.LastError)

	require.NoError(t, client.WithTx(ctx, func(tx *gorm.DB) error {
		msg := "gave up"
		if err := dlq.InsertTx(tx, models.OutboxDLQ{
			EventID:       failed.ID,
			EventType:     failed.EventType,
			AggregateType: failed.AggregateType,
			AggregateID:   failed.AggregateID,
			Payload:       failed.Payload,
			ErrorReason:   enums.OutboxDLQReasonMaxAttempts,
			ErrorMessage:  &msg,
			FailedAt:      time.Now().UTC(),
		}); err != nil {
			return err
		}
		return repo.MarkTerminalTx(tx, failed.ID, errors.New("gave up"), 3)
	}))

	require.NoError(t, client.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := repo.FetchUnpublishedForPublish(tx, 10, 3)
		require.NoError(t, err)
		assert.Empty(t, rows)
		return nil
	}))

	var dlqCount int64
	require.NoError(t, client.DB().Model(&models.OutboxDLQ{}).Count(&dlqCount).Error)
	assert.Equal(t, int64(1), dlqCount)
}

func TestDeletePublishedBeforeKeepsPendingRows(t *testing.T) {
	client := dbtest.Client(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	old := time.Now().UTC().Add(-40 * 24 * time.Hour)
	recent := time.Now().UTC().Add(-time.Hour)
	rows := []models.OutboxEvent{
		{ID: uuid.New(), EventType: enums.EventWishlistCreated, AggregateType: enums.AggregateWishlist, AggregateID: uuid.New(), Payload: []byte(`{}`), PublishedAt: &old},
		{ID: uuid.New(), EventType: enums.EventWishlistCreated, AggregateType: enums.AggregateWishlist, AggregateID: uuid.New(), Payload: []byte(`{}`), PublishedAt: &recent},
		{ID: uuid.New(), EventType: enums.EventWishlistCreated, AggregateType: enums.AggregateWishlist, AggregateID: uuid.New(), Payload: []byte(`{}`), CreatedAt: old},
	}
	for _, row := range rows {
		require.NoError(t, client.DB().Create(&row).Error)
	}

	deleted, err := repo.DeletePublishedBefore(ctx, client.DB(), time.Now().UTC().Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	var remaining int64
	require.NoError(t, client.DB().Model(&models.OutboxEvent{}).Count(&remaining).Error)
	assert.EqualValues(t, 2, remaining)
}
