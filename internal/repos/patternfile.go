package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yarnwise/yarnwise-backend/internal/logger"
	"github.com/yarnwise/yarnwise-backend/internal/types"
)

type PatternFileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.PatternFile) ([]*types.PatternFile, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.PatternFile, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.PatternFile, error)
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type patternFileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPatternFileRepo(db *gorm.DB, baseLog *logger.Logger) PatternFileRepo {
	return &patternFileRepo{db: db, log: baseLog.With("repo", "PatternFileRepo")}
}

func (r *patternFileRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.PatternFile) ([]*types.PatternFile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.PatternFile{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *patternFileRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.PatternFile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var results []*types.PatternFile
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *patternFileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.PatternFile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.PatternFile
	if userID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *patternFileRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Unscoped().
		Where("id IN ?", ids).
		Delete(&types.PatternFile{}).Error
}
