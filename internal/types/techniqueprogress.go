package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Progress statuses. A user becomes confident on a quiz attempt scoring at
// least QuizConfidenceThreshold; any attempt at all makes them practicing.
const (
	ProgressStatusNew        = "new"
	ProgressStatusPracticing = "practicing"
	ProgressStatusConfident  = "confident"

	QuizConfidenceThreshold = 80
)

// TechniqueProgress is the per-user mastery record for a technique, unique
// on (user_id, technique_id). Rows are upsert-only and never hard-deleted.
type TechniqueProgress struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index:idx_user_technique,unique" json:"user_id"`
	User           *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	TechniqueID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_user_technique,unique" json:"technique_id"`
	Technique      *Technique     `gorm:"constraint:OnDelete:CASCADE;foreignKey:TechniqueID;references:ID" json:"technique,omitempty"`
	Status         string         `gorm:"column:status;not null;default:'new'" json:"status"`
	CompletedSteps datatypes.JSON `gorm:"type:jsonb;column:completed_steps" json:"completed_steps"`
	QuizScore      int            `gorm:"column:quiz_score;not null;default:0" json:"quiz_score"`
	QuizAttempts   int            `gorm:"column:quiz_attempts;not null;default:0" json:"quiz_attempts"`
	PracticeCount  int            `gorm:"column:practice_count;not null;default:0" json:"practice_count"`
	LastPracticed  *time.Time     `gorm:"column:last_practiced" json:"last_practiced,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TechniqueProgress) TableName() string { return "technique_progress" }
