package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TutorialStep struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TechniqueID uuid.UUID      `gorm:"type:uuid;not null;index:idx_technique_step,unique" json:"technique_id"`
	Technique   *Technique     `gorm:"constraint:OnDelete:CASCADE;foreignKey:TechniqueID;references:ID" json:"technique,omitempty"`
	StepNumber  int            `gorm:"column:step_number;not null;index:idx_technique_step,unique" json:"step_number"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Instruction string         `gorm:"column:instruction;type:text;not null" json:"instruction"`
	ImageURL    string         `gorm:"column:image_url" json:"image_url,omitempty"`
	VideoURL    string         `gorm:"column:video_url" json:"video_url,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TutorialStep) TableName() string { return "tutorial_step" }
