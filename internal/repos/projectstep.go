package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yarnwise/yarnwise-backend/internal/logger"
	"github.com/yarnwise/yarnwise-backend/internal/types"
)

type ProjectStepRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.ProjectStep) ([]*types.ProjectStep, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ProjectStep, error)
	GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.ProjectStep, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error
	FullDeleteByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) error
}

type projectStepRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectStepRepo(db *gorm.DB, baseLog *logger.Logger) ProjectStepRepo {
	return &projectStepRepo{db: db, log: baseLog.With("repo", "ProjectStepRepo")}
}

func (r *projectStepRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ProjectStep) ([]*types.ProjectStep, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.ProjectStep{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *projectStepRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ProjectStep, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var results []*types.ProjectStep
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

func (r *projectStepRepo) GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.ProjectStep, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ProjectStep
	if projectID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *projectStepRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil || len(fields) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.ProjectStep{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *projectStepRepo) FullDeleteByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if projectID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Unscoped().
		Where("project_id = ?", projectID).
		Delete(&types.ProjectStep{}).Error
}
