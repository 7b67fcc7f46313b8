package repos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yarnwise/yarnwise-backend/internal/logger"
	"github.com/yarnwise/yarnwise-backend/internal/types"
)

type TechniqueRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Technique) ([]*types.Technique, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.Technique) error
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Technique, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Technique, error)
	GetByCategory(ctx context.Context, tx *gorm.DB, category string) ([]*types.Technique, error)
	Search(ctx context.Context, tx *gorm.DB, query string, limit int) ([]*types.Technique, error)
	Categories(ctx context.Context, tx *gorm.DB) ([]string, error)
}

type techniqueRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTechniqueRepo(db *gorm.DB, baseLog *logger.Logger) TechniqueRepo {
	return &techniqueRepo{db: db, log: baseLog.With("repo", "TechniqueRepo")}
}

func (r *techniqueRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Technique) ([]*types.Technique, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.Technique{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Upsert keys on name: seeding is idempotent across restarts.
func (r *techniqueRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.Technique) error {
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
			Columns:   []clause.Column{{Name: "name"}},
			UpdateAll: true,
		}).
		Create(row).Error
}

func (r *techniqueRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Technique, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Technique
	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *techniqueRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Technique, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Technique
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *techniqueRepo) GetByCategory(ctx context.Context, tx *gorm.DB, category string) ([]*types.Technique, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Technique
	if category == "" {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("category = ?", category).
		Order("difficulty ASC").
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Search does a case-insensitive substring match across name, description
// and abbreviation. Ordering by name doubles as the tie-breaker; no ranking
// beyond that.
func (r *techniqueRepo) Search(ctx context.Context, tx *gorm.DB, query string, limit int) ([]*types.Technique, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Technique
	query = strings.TrimSpace(query)
	if query == "" {
		return results, nil
	}
	pattern := "%" + strings.ToLower(query) + "%"
	q := transaction.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(abbreviation) LIKE ?", pattern, pattern, pattern).
		Order("name ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *techniqueRepo) Categories(ctx context.Context, tx *gorm.DB) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var categories []string
	if err := transaction.WithContext(ctx).
		Model(&types.Technique{}).
		Pluck("category", &categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
