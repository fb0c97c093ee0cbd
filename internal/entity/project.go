package entity

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID          uuid.UUID `gorm:"primaryKey"`
	Name        string    `gorm:"not null"`
	Description string
	Status      string    `gorm:"not null;default:active"`
	CreatedBy   string    `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// ProjectParticipant is the durable participation relationship the collab
// role resolver reads. The project creator is authoritative owner whether
// or not a row exists for them.
type ProjectParticipant struct {
	ID        int64     `gorm:"primaryKey"`
	ProjectID string    `gorm:"not null;uniqueIndex:idx_project_user"`
	UserID    string    `gorm:"not null;uniqueIndex:idx_project_user"`
	Role      string    `gorm:"not null"`
	InvitedBy string
	JoinedAt  time.Time `gorm:"autoCreateTime"`
}
