package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yarnwise/yarnwise-backend/internal/logger"
	"github.com/yarnwise/yarnwise-backend/internal/types"
)

type TechniqueVideoRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *types.TechniqueVideo) error
	GetByTechniqueIDs(ctx context.Context, tx *gorm.DB, techniqueIDs []uuid.UUID) ([]*types.TechniqueVideo, error)
}

type techniqueVideoRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTechniqueVideoRepo(db *gorm.DB, baseLog *logger.Logger) TechniqueVideoRepo {
	return &techniqueVideoRepo{db: db, log: baseLog.With("repo", "TechniqueVideoRepo")}
}

// Upsert keys on technique_id: one curated video per technique.
func (r *techniqueVideoRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.TechniqueVideo) error {
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
			Columns:   []clause.Column{{Name: "technique_id"}},
			UpdateAll: true,
		}).
		Create(row).Error
}

func (r *techniqueVideoRepo) GetByTechniqueIDs(ctx context.Context, tx *gorm.DB, techniqueIDs []uuid.UUID) ([]*types.TechniqueVideo, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.TechniqueVideo
	if len(techniqueIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("technique_id IN ?", techniqueIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
