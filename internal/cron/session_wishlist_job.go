package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-wishlist/pkg/logger"
	"github.com/angelmondragon/storefront-wishlist/pkg/metrics"
)

type staleSessionRepo interface {
	DeleteStaleSessionWishlists(ctx context.Context, cutoff time.Time) (int64, error)
}

type SessionWishlistJobParams struct {
	Logger     *logger.Logger
	Repository staleSessionRepo
	Metrics    *metrics.CronJobMetrics
	// TTL matches the session cookie lifetime; older anonymous wishlists are unreachable.
	TTL time.Duration
}

// NewSessionWishlistJob expires anonymous wishlists left untouched for TTL.
func NewSessionWishlistJob(params SessionWishlistJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	if params.Repository == nil {
		return nil, errors.New("wishlist repository required")
	}
	if params.TTL <= 0 {
		return nil, errors.New("session wishlist ttl must be positive")
	}
	return &sessionWishlistJob{
		logg:    params.Logger,
		repo:    params.Repository,
		metrics: params.Metrics,
		ttl:     params.TTL,
		now:     time.Now,
	}, nil
}

type sessionWishlistJob struct {
	logg    *logger.Logger
	repo    staleSessionRepo
	metrics *metrics.CronJobMetrics
	ttl     time.Duration
	now     func() time.Time
}

func (j *sessionWishlistJob) Name() string { return "session-wishlist-expiry" }

func (j *sessionWishlistJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.ttl)
	deleted, err := j.repo.DeleteStaleSessionWishlists(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("expire session wishlists: %w", err)
	}
	j.metrics.AddDeleted(j.Name(), deleted)
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"rows_deleted": deleted,
	}), "session wishlist expiry complete")
	return nil
}
