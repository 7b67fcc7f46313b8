package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Step type tags as produced by the step generator.
const (
	StepTypeSingle = "single"
	StepTypeGroup  = "group"
	StepTypeRepeat = "repeat"
)

// ProjectStep is one instruction unit in a project's ordered sequence.
// Steps have no existence outside their project; deleting the project
// cascades to them.
//
// Completion is boolean unless RowCount > 1, in which case CompletedRows
// (row indices in [0, RowCount)) is authoritative and Completed is only a
// UI convenience.
type ProjectStep struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_project_position,unique" json:"project_id"`
	Project       *Project       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	Position      int            `gorm:"column:position;not null;index:idx_project_position,unique" json:"position"`
	StepType      string         `gorm:"column:step_type;not null;default:'single'" json:"step_type"`
	Title         string         `gorm:"column:title;not null" json:"title"`
	Description   string         `gorm:"column:description;type:text" json:"description"`
	TechniqueIDs  datatypes.JSON `gorm:"type:jsonb;column:technique_ids" json:"technique_ids"`
	Completed     bool           `gorm:"column:completed;not null;default:false" json:"completed"`
	RowCount      int            `gorm:"column:row_count;not null;default:0" json:"row_count"`
	CompletedRows datatypes.JSON `gorm:"type:jsonb;column:completed_rows" json:"completed_rows"`
	RowStart      int            `gorm:"column:row_start;not null;default:0" json:"row_start"`
	RowEnd        int            `gorm:"column:row_end;not null;default:0" json:"row_end"`
	StitchCount   int            `gorm:"column:stitch_count;not null;default:0" json:"stitch_count"`
	RepeatCount   int            `gorm:"column:repeat_count;not null;default:0" json:"repeat_count"`
	Milestone     bool           `gorm:"column:milestone;not null;default:false" json:"milestone"`
	ColorFrom     string         `gorm:"column:color_from" json:"color_from,omitempty"`
	ColorTo       string         `gorm:"column:color_to" json:"color_to,omitempty"`
	ColorName     string         `gorm:"column:color_name" json:"color_name,omitempty"`
	CreatedAt     time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ProjectStep) TableName() string { return "project_step" }
