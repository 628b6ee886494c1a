package cron

import (
	"context"
	"fmt"
	"time"
)

type promotionExpirer interface {
	ExpirePromotions(ctx context.Context, now time.Time) (int64, error)
}

type promotionExpiryJob struct {
	repo promotionExpirer
	now  func() time.Time
}

// NewPromotionExpiryJob clears the promoted flag once promoted_until passes,
// so the storefront promoted filter stops listing stale offers.
func NewPromotionExpiryJob(repo promotionExpirer, now func() time.Time) (Job, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if now == nil {
		now = time.Now
	}
	return &promotionExpiryJob{repo: repo, now: now}, nil
}

func (j *promotionExpiryJob) Name() string { return "promotion-expiry" }

func (j *promotionExpiryJob) Run(ctx context.Context) (int64, error) {
	rows, err := j.repo.ExpirePromotions(ctx, j.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("expire promotions: %w", err)
	}
	return rows, nil
}
