package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yarnwise/yarnwise-backend/internal/logger"
	"github.com/yarnwise/yarnwise-backend/internal/types"
)

type TechniqueProgressRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.TechniqueProgress, error)
	GetByUserAndTechnique(ctx context.Context, tx *gorm.DB, userID, techniqueID uuid.UUID) (*types.TechniqueProgress, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.TechniqueProgress) error
	UpsertFields(ctx context.Context, tx *gorm.DB, userID, techniqueID uuid.UUID, fields map[string]any) error
}

type techniqueProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTechniqueProgressRepo(db *gorm.DB, baseLog *logger.Logger) TechniqueProgressRepo {
	return &techniqueProgressRepo{db: db, log: baseLog.With("repo", "TechniqueProgressRepo")}
}

func (r *techniqueProgressRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.TechniqueProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.TechniqueProgress
	if userID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *techniqueProgressRepo) GetByUserAndTechnique(ctx context.Context, tx *gorm.DB, userID, techniqueID uuid.UUID) (*types.TechniqueProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil || techniqueID == uuid.Nil {
		return nil, nil
	}
	var results []*types.TechniqueProgress
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND technique_id = ?", userID, techniqueID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// Upsert writes the full row keyed by the unique (user_id, technique_id)
// pair, creating it on first interaction.
func (r *techniqueProgressRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.TechniqueProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return transaction.WithContext(ctx).
		Where("user_id = ? AND technique_id = ?", row.UserID, row.TechniqueID).
		Assign(row).
		FirstOrCreate(row).Error
}

// UpsertFields merges only the given columns into the row for the unique
// pair, creating a default row first if none exists. Unspecified fields are
// left untouched.
func (r *techniqueProgressRepo) UpsertFields(ctx context.Context, tx *gorm.DB, userID, techniqueID uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil || techniqueID == uuid.Nil || len(fields) == 0 {
		return nil
	}

	assignments := make([]clause.Assignment, 0, len(fields))
	base := &types.TechniqueProgress{
		ID:          uuid.New(),
		UserID:      userID,
		TechniqueID: techniqueID,
		Status:      types.ProgressStatusNew,
	}
	for col, val := range fields {
		assignments = append(assignments, clause.Assignment{Column: clause.Column{Name: col}, Value: val})
		applyProgressField(base, col, val)
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "technique_id"}},
			DoUpdates: assignments,
		}).
		Create(base).Error
}

func applyProgressField(row *types.TechniqueProgress, col string, val any) {
	switch col {
	case "status":
		if s, ok := val.(string); ok {
			row.Status = s
		}
	case "quiz_score":
		if n, ok := val.(int); ok {
			row.QuizScore = n
		}
	case "quiz_attempts":
		if n, ok := val.(int); ok {
			row.QuizAttempts = n
		}
	case "practice_count":
		if n, ok := val.(int); ok {
			row.PracticeCount = n
		}
	case "completed_steps":
		switch b := val.(type) {
		case datatypes.JSON:
			row.CompletedSteps = b
		case []byte:
			row.CompletedSteps = b
		}
	case "last_practiced":
		switch t := val.(type) {
		case *time.Time:
			row.LastPracticed = t
		case time.Time:
			row.LastPracticed = &t
		}
	}
}
