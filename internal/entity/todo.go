package entity

import (
	"time"

	"github.com/google/uuid"
)

type Todo struct {
	ID          uuid.UUID `gorm:"primaryKey"`
	ProjectID   string    `gorm:"not null;index"`
	Title       string    `gorm:"not null"`
	Description string
	Status      string `gorm:"not null;default:pending"`
	AssigneeID  string
	CreatedBy   string    `gorm:"not null"`
	DueAt       *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}
