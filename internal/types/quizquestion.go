package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuizQuestion struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TechniqueID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"technique_id"`
	Technique    *Technique     `gorm:"constraint:OnDelete:CASCADE;foreignKey:TechniqueID;references:ID" json:"technique,omitempty"`
	Prompt       string         `gorm:"column:prompt;type:text;not null" json:"prompt"`
	Choices      datatypes.JSON `gorm:"type:jsonb;column:choices" json:"choices"`
	CorrectIndex int            `gorm:"column:correct_index;not null;default:0" json:"correct_index"`
	Explanation  string         `gorm:"column:explanation;type:text" json:"explanation,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (QuizQuestion) TableName() string { return "quiz_question" }
