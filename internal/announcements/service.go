package announcements

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/mercadito-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/mercadito-backend/pkg/errors"
)

// DTO is the public announcement shape.
type DTO struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	StartAt   *time.Time `json:"start_at"`
	EndAt     *time.Time `json:"end_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// Repository reads announcements.
type Repository interface {
	ListVisible(ctx context.Context, now time.Time) ([]models.Announcement, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds an announcement repository to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ListVisible returns active announcements whose optional window contains now, newest first.
func (r *repository) ListVisible(ctx context.Context, now time.Time) ([]models.Announcement, error) {
	var rows []models.Announcement
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Where("start_at IS NULL OR start_at <= ?", now).
		Where("end_at IS NULL OR end_at >= ?", now).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Service lists the banners currently on display.
type Service interface {
	ListActive(ctx context.Context) ([]DTO, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds the announcement service; now defaults to time.Now.
func NewService(repo Repository, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("announcement repository required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, now: now}, nil
}

func (s *service) ListActive(ctx context.Context) ([]DTO, error) {
	rows, err := s.repo.ListVisible(ctx, s.now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list announcements")
	}
	out := make([]DTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, DTO{
			ID:        row.ID,
			Title:     row.Title,
			Message:   row.Message,
			StartAt:   row.StartAt,
			EndAt:     row.EndAt,
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}
