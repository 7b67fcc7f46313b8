package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TechniqueVideo is the one curated video per technique. A row with
// VideoID == "" is the placeholder the transform layer emits when no video
// has been curated yet; callers must treat it as "no video available".
type TechniqueVideo struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TechniqueID  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"technique_id"`
	Technique    *Technique     `gorm:"constraint:OnDelete:CASCADE;foreignKey:TechniqueID;references:ID" json:"technique,omitempty"`
	Platform     string         `gorm:"column:platform" json:"platform"`
	VideoID      string         `gorm:"column:video_id" json:"video_id"`
	URL          string         `gorm:"column:url" json:"url"`
	StartSeconds int            `gorm:"column:start_seconds;not null;default:0" json:"start_seconds"`
	EndSeconds   int            `gorm:"column:end_seconds;not null;default:0" json:"end_seconds"`
	AIScore      float64        `gorm:"column:ai_score;not null;default:0" json:"ai_score"`
	EvaluatedAt  time.Time      `gorm:"column:evaluated_at;not null;default:now()" json:"evaluated_at"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TechniqueVideo) TableName() string { return "technique_video" }
