package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yarnwise/yarnwise-backend/internal/logger"
	"github.com/yarnwise/yarnwise-backend/internal/types"
)

type TutorialStepRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.TutorialStep) ([]*types.TutorialStep, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.TutorialStep) error
	GetByTechniqueIDs(ctx context.Context, tx *gorm.DB, techniqueIDs []uuid.UUID) ([]*types.TutorialStep, error)
}

type tutorialStepRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTutorialStepRepo(db *gorm.DB, baseLog *logger.Logger) TutorialStepRepo {
	return &tutorialStepRepo{db: db, log: baseLog.With("repo", "TutorialStepRepo")}
}

func (r *tutorialStepRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.TutorialStep) ([]*types.TutorialStep, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.TutorialStep{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *tutorialStepRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.TutorialStep) error {
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
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "technique_id"}, {Name: "step_number"}},
			UpdateAll: true,
		}).
		Create(row).Error
}

func (r *tutorialStepRepo) GetByTechniqueIDs(ctx context.Context, tx *gorm.DB, techniqueIDs []uuid.UUID) ([]*types.TutorialStep, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.TutorialStep
	if len(techniqueIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("technique_id IN ?", techniqueIDs).
		Order("step_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
