package entity

import (
	"time"

	"github.com/google/uuid"
)

type Scene struct {
	ID          uuid.UUID `gorm:"primaryKey"`
	ProjectID   string    `gorm:"not null;index"`
	Name        string    `gorm:"not null"`
	Description string
	SortOrder   int       `gorm:"not null;default:0"`
	CreatedBy   string    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// Image metadata is captured once at upload registration; the blob itself
// lives in external storage outside this service.
type Image struct {
	ID          uuid.UUID `gorm:"primaryKey"`
	SceneID     string    `gorm:"not null;index"`
	ProjectID   string    `gorm:"not null;index"`
	FileName    string    `gorm:"not null"`
	ContentType string
	Width       int
	Height      int
	StorageKey  string    `gorm:"not null"`
	UploadedBy  string    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}
