package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yarnwise/yarnwise-backend/internal/apperrors"
	"github.com/yarnwise/yarnwise-backend/internal/logger"
	"github.com/yarnwise/yarnwise-backend/internal/repos"
	"github.com/yarnwise/yarnwise-backend/internal/transform"
	"github.com/yarnwise/yarnwise-backend/internal/types"
)

// ProgressUpdate carries the optional fields of an Upsert. Nil means "leave
// the stored value alone".
type ProgressUpdate struct {
	Status         *string
	CompletedSteps []string
	QuizScore      *int
	QuizAttempts   *int
	PracticeCount  *int
}

type ProgressService interface {
	// GetAll maps technique id -> progress for every record the user has.
	// Techniques the user never touched are absent, not zero-valued.
	GetAll(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]*types.TechniqueProgress, error)
	Upsert(ctx context.Context, userID, techniqueID uuid.UUID, update ProgressUpdate) error
	// MarkStatus sets the status and stamps last_practiced.
	MarkStatus(ctx context.Context, userID, techniqueID uuid.UUID, status string) error
	// RecordQuizAttempt merges a quiz result into the record: the stored
	// score never regresses, the attempt counter always increments, and
	// the confidence check runs against the attempt's raw score. A low
	// attempt therefore demotes a confident user back to practicing even
	// though their stored best stays put.
	RecordQuizAttempt(ctx context.Context, userID, techniqueID uuid.UUID, score int) (*types.TechniqueProgress, error)
	// RecordPractice bumps the practice counter and stamps last_practiced.
	RecordPractice(ctx context.Context, userID, techniqueID uuid.UUID) (*types.TechniqueProgress, error)
}

type progressService struct {
	db           *gorm.DB
	log          *logger.Logger
	progressRepo repos.TechniqueProgressRepo
}

func NewProgressService(db *gorm.DB, log *logger.Logger, progressRepo repos.TechniqueProgressRepo) ProgressService {
	return &progressService{
		db:           db,
		log:          log.With("service", "ProgressService"),
		progressRepo: progressRepo,
	}
}

func (s *progressService) GetAll(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]*types.TechniqueProgress, error) {
	rows, err := s.progressRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, apperrors.QueryFailed("progress.get_all", err)
	}
	out := make(map[uuid.UUID]*types.TechniqueProgress, len(rows))
	for _, row := range rows {
		out[row.TechniqueID] = row
	}
	return out, nil
}

func (s *progressService) Upsert(ctx context.Context, userID, techniqueID uuid.UUID, update ProgressUpdate) error {
	fields := map[string]any{}
	if update.Status != nil {
		fields["status"] = *update.Status
	}
	if update.CompletedSteps != nil {
		fields["completed_steps"] = transform.MustJSON(update.CompletedSteps)
	}
	if update.QuizScore != nil {
		fields["quiz_score"] = *update.QuizScore
	}
	if update.QuizAttempts != nil {
		fields["quiz_attempts"] = *update.QuizAttempts
	}
	if update.PracticeCount != nil {
		fields["practice_count"] = *update.PracticeCount
	}
	if len(fields) == 0 {
		return nil
	}
	if err := s.progressRepo.UpsertFields(ctx, nil, userID, techniqueID, fields); err != nil {
		return apperrors.QueryFailed("progress.upsert", err)
	}
	return nil
}

func (s *progressService) MarkStatus(ctx context.Context, userID, techniqueID uuid.UUID, status string) error {
	now := time.Now().UTC()
	err := s.progressRepo.UpsertFields(ctx, nil, userID, techniqueID, map[string]any{
		"status":         status,
		"last_practiced": &now,
	})
	if err != nil {
		return apperrors.QueryFailed("progress.mark_status", err)
	}
	return nil
}

func (s *progressService) RecordQuizAttempt(ctx context.Context, userID, techniqueID uuid.UUID, score int) (*types.TechniqueProgress, error) {
	current, err := s.progressRepo.GetByUserAndTechnique(ctx, nil, userID, techniqueID)
	if err != nil {
		return nil, apperrors.QueryFailed("progress.record_quiz_attempt", err)
	}

	prevScore := 0
	prevAttempts := 0
	var row *types.TechniqueProgress
	if current != nil {
		prevScore = current.QuizScore
		prevAttempts = current.QuizAttempts
		row = current
	} else {
		row = &types.TechniqueProgress{
			UserID:      userID,
			TechniqueID: techniqueID,
		}
	}

	now := time.Now().UTC()
	row.QuizAttempts = prevAttempts + 1
	row.QuizScore = maxInt(prevScore, score)
	// Threshold deliberately checks the attempt's raw score, not the
	// stored best.
	if score >= types.QuizConfidenceThreshold {
		row.Status = types.ProgressStatusConfident
	} else {
		row.Status = types.ProgressStatusPracticing
	}
	row.LastPracticed = &now

	if err := s.progressRepo.Upsert(ctx, nil, row); err != nil {
		return nil, apperrors.QueryFailed("progress.record_quiz_attempt", err)
	}
	return row, nil
}

func (s *progressService) RecordPractice(ctx context.Context, userID, techniqueID uuid.UUID) (*types.TechniqueProgress, error) {
	current, err := s.progressRepo.GetByUserAndTechnique(ctx, nil, userID, techniqueID)
	if err != nil {
		return nil, apperrors.QueryFailed("progress.record_practice", err)
	}

	row := current
	if row == nil {
		row = &types.TechniqueProgress{
			UserID:      userID,
			TechniqueID: techniqueID,
		}
	}

	now := time.Now().UTC()
	row.PracticeCount++
	row.LastPracticed = &now
	if row.Status == "" || row.Status == types.ProgressStatusNew {
		row.Status = types.ProgressStatusPracticing
	}

	if err := s.progressRepo.Upsert(ctx, nil, row); err != nil {
		return nil, apperrors.QueryFailed("progress.record_practice", err)
	}
	return row, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
