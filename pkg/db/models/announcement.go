package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Announcement is a storefront banner shown while active and inside its window.
type Announcement struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Title     string     `gorm:"column:title;size:140;not null"`
	Message   string     `gorm:"column:message;not null"`
	Active    bool       `gorm:"column:active;not null"`
	StartAt   *time.Time `gorm:"column:start_at"`
	EndAt     *time.Time `gorm:"column:end_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (a *Announcement) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
