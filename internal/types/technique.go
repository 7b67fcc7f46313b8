package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Technique categories form a closed set. Rows carrying anything else are
// excluded from category tallies rather than failing reads.
const (
	CategoryBasics    = "basics"
	CategoryCastOn    = "cast-on"
	CategoryBindOff   = "bind-off"
	CategoryIncreases = "increases"
	CategoryDecreases = "decreases"
	CategoryCables    = "cables"
	CategoryLace      = "lace"
	CategoryColorwork = "colorwork"
	CategoryShaping   = "shaping"
	CategoryFinishing = "finishing"
)

func KnownCategories() []string {
	return []string{
		CategoryBasics,
		CategoryCastOn,
		CategoryBindOff,
		CategoryIncreases,
		CategoryDecreases,
		CategoryCables,
		CategoryLace,
		CategoryColorwork,
		CategoryShaping,
		CategoryFinishing,
	}
}

type Technique struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name            string         `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Abbreviation    string         `gorm:"column:abbreviation" json:"abbreviation,omitempty"`
	Category        string         `gorm:"column:category;not null;index" json:"category"`
	Description     string         `gorm:"column:description;type:text" json:"description"`
	Difficulty      int            `gorm:"column:difficulty;not null;default:1" json:"difficulty"`
	Tips            datatypes.JSON `gorm:"type:jsonb;column:tips" json:"tips"`
	CommonMistakes  datatypes.JSON `gorm:"type:jsonb;column:common_mistakes" json:"common_mistakes"`
	RelatedIDs      datatypes.JSON `gorm:"type:jsonb;column:related_ids" json:"related_ids"`
	PrerequisiteIDs datatypes.JSON `gorm:"type:jsonb;column:prerequisite_ids" json:"prerequisite_ids"`
	Tags            datatypes.JSON `gorm:"type:jsonb;column:tags" json:"tags"`
	Aliases         datatypes.JSON `gorm:"type:jsonb;column:aliases" json:"aliases"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Technique) TableName() string { return "technique" }

// TechniqueDetail is the fully joined read model assembled by the transform
// layer: the technique row plus its tutorial steps, quiz and curated video.
type TechniqueDetail struct {
	Technique
	TutorialSteps []*TutorialStep `json:"tutorial_steps"`
	QuizQuestions []*QuizQuestion `json:"quiz_questions"`
	Video         *TechniqueVideo `json:"video"`
}
