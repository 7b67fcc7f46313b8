package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ProjectTypeScarf   = "scarf"
	ProjectTypeHat     = "hat"
	ProjectTypeSocks   = "socks"
	ProjectTypeSweater = "sweater"
	ProjectTypeBlanket = "blanket"
	ProjectTypeMittens = "mittens"
	ProjectTypeShawl   = "shawl"
	ProjectTypeOther   = "other"
)

type Project struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User          *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Name          string         `gorm:"column:name;not null" json:"name"`
	ProjectType   string         `gorm:"column:project_type;not null;default:'other'" json:"project_type"`
	Difficulty    int            `gorm:"column:difficulty;not null;default:1" json:"difficulty"`
	Yarn          string         `gorm:"column:yarn" json:"yarn,omitempty"`
	Needles       string         `gorm:"column:needles" json:"needles,omitempty"`
	Size          string         `gorm:"column:size" json:"size,omitempty"`
	Notes         string         `gorm:"column:notes;type:text" json:"notes,omitempty"`
	TotalRowCount int            `gorm:"column:total_row_count;not null;default:0" json:"total_row_count"`
	TimeEstimate  string         `gorm:"column:time_estimate" json:"time_estimate,omitempty"`
	CreatedAt     time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Project) TableName() string { return "project" }
