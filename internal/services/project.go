package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yarnwise/yarnwise-backend/internal/apperrors"
	"github.com/yarnwise/yarnwise-backend/internal/logger"
	"github.com/yarnwise/yarnwise-backend/internal/navigation"
	"github.com/yarnwise/yarnwise-backend/internal/repos"
	"github.com/yarnwise/yarnwise-backend/internal/transform"
	"github.com/yarnwise/yarnwise-backend/internal/types"
)

// ProjectWithSteps is the detail projection: the project row, its ordered
// steps, and the derived completion percentage.
type ProjectWithSteps struct {
	Project         *types.Project       `json:"project"`
	Steps           []*types.ProjectStep `json:"steps"`
	PercentComplete int                  `json:"percent_complete"`
}

type ProjectService interface {
	Create(ctx context.Context, userID uuid.UUID, project *types.Project) (*types.Project, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.Project, error)
	Get(ctx context.Context, userID, projectID uuid.UUID) (*ProjectWithSteps, error)
	Update(ctx context.Context, userID, projectID uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, userID, projectID uuid.UUID) error

	// ToggleStep flips a step's boolean completion flag.
	ToggleStep(ctx context.Context, userID, projectID, stepID uuid.UUID) (*types.ProjectStep, error)
	// SetCompletedRows replaces a multi-row step's completed-row set. Rows
	// outside [0, rowCount) or duplicated are dropped, not rejected.
	SetCompletedRows(ctx context.Context, userID, projectID, stepID uuid.UUID, rows []int) (*types.ProjectStep, error)

	// GenerateSteps calls the step generator and replaces the project's
	// step list transactionally; the old steps survive a failed generation.
	GenerateSteps(ctx context.Context, userID, projectID uuid.UUID, customInstructions string) (*ProjectWithSteps, error)
}

type projectService struct {
	db          *gorm.DB
	log         *logger.Logger
	projectRepo repos.ProjectRepo
	stepRepo    repos.ProjectStepRepo
	aiClient    AIClient
}

func NewProjectService(db *gorm.DB, log *logger.Logger, projectRepo repos.ProjectRepo, stepRepo repos.ProjectStepRepo, aiClient AIClient) ProjectService {
	return &projectService{
		db:          db,
		log:         log.With("service", "ProjectService"),
		projectRepo: projectRepo,
		stepRepo:    stepRepo,
		aiClient:    aiClient,
	}
}

func (s *projectService) Create(ctx context.Context, userID uuid.UUID, project *types.Project) (*types.Project, error) {
	if userID == uuid.Nil {
		return nil, apperrors.ErrUnauthenticated
	}
	if project == nil || project.Name == "" {
		return nil, fmt.Errorf("project name required")
	}
	if project.Difficulty < 1 || project.Difficulty > 5 {
		return nil, fmt.Errorf("difficulty must be between 1 and 5")
	}
	if project.ProjectType == "" {
		project.ProjectType = types.ProjectTypeOther
	}
	project.ID = uuid.New()
	project.UserID = userID
	if _, err := s.projectRepo.Create(ctx, nil, []*types.Project{project}); err != nil {
		return nil, apperrors.QueryFailed("project.create", err)
	}
	return project, nil
}

func (s *projectService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.Project, error) {
	rows, err := s.projectRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, apperrors.QueryFailed("project.list", err)
	}
	return rows, nil
}

func (s *projectService) Get(ctx context.Context, userID, projectID uuid.UUID) (*ProjectWithSteps, error) {
	project, err := s.ownedProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	steps, err := s.stepRepo.GetByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, apperrors.QueryFailed("project_step.list", err)
	}
	return &ProjectWithSteps{
		Project:         project,
		Steps:           steps,
		PercentComplete: navigation.ProjectPercentComplete(steps),
	}, nil
}

func (s *projectService) Update(ctx context.Context, userID, projectID uuid.UUID, fields map[string]any) error {
	if _, err := s.ownedProject(ctx, userID, projectID); err != nil {
		return err
	}
	if err := s.projectRepo.UpdateFields(ctx, nil, projectID, fields); err != nil {
		return apperrors.QueryFailed("project.update", err)
	}
	return nil
}

func (s *projectService) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
	if _, err := s.ownedProject(ctx, userID, projectID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.stepRepo.FullDeleteByProjectID(ctx, tx, projectID); err != nil {
			return apperrors.QueryFailed("project_step.delete", err)
		}
		if err := s.projectRepo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{projectID}); err != nil {
			return apperrors.QueryFailed("project.delete", err)
		}
		return nil
	})
}

func (s *projectService) ToggleStep(ctx context.Context, userID, projectID, stepID uuid.UUID) (*types.ProjectStep, error) {
	step, err := s.ownedStep(ctx, userID, projectID, stepID)
	if err != nil {
		return nil, err
	}
	step.Completed = !step.Completed
	if err := s.stepRepo.UpdateFields(ctx, nil, step.ID, map[string]any{"completed": step.Completed}); err != nil {
		return nil, apperrors.QueryFailed("project_step.update", err)
	}
	return step, nil
}

func (s *projectService) SetCompletedRows(ctx context.Context, userID, projectID, stepID uuid.UUID, rows []int) (*types.ProjectStep, error) {
	step, err := s.ownedStep(ctx, userID, projectID, stepID)
	if err != nil {
		return nil, err
	}
	if step.RowCount <= 1 {
		return nil, fmt.Errorf("step has no row tracking")
	}
	valid := make([]int, 0, len(rows))
	seen := make(map[int]bool, len(rows))
	for _, r := range rows {
		if r < 0 || r >= step.RowCount || seen[r] {
			continue
		}
		seen[r] = true
		valid = append(valid, r)
	}
	step.CompletedRows = transform.MustJSON(valid)
	step.Completed = len(valid) == step.RowCount
	err = s.stepRepo.UpdateFields(ctx, nil, step.ID, map[string]any{
		"completed_rows": step.CompletedRows,
		"completed":      step.Completed,
	})
	if err != nil {
		return nil, apperrors.QueryFailed("project_step.update", err)
	}
	return step, nil
}

func (s *projectService) GenerateSteps(ctx context.Context, userID, projectID uuid.UUID, customInstructions string) (*ProjectWithSteps, error) {
	project, err := s.ownedProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	generated, err := s.aiClient.GenerateSteps(ctx, &GenerateStepsRequest{
		ProjectType:        project.ProjectType,
		Difficulty:         project.Difficulty,
		Yarn:               project.Yarn,
		Needles:            project.Needles,
		Size:               project.Size,
		Notes:              project.Notes,
		CustomInstructions: customInstructions,
	})
	if err != nil {
		return nil, err
	}
	if len(generated.Steps) == 0 {
		return nil, fmt.Errorf("step generator returned no steps")
	}

	rows := make([]*types.ProjectStep, 0, len(generated.Steps))
	for i, g := range generated.Steps {
		stepType := g.StepType
		switch stepType {
		case types.StepTypeSingle, types.StepTypeGroup, types.StepTypeRepeat:
		default:
			stepType = types.StepTypeSingle
		}
		rows = append(rows, &types.ProjectStep{
			ID:           uuid.New(),
			ProjectID:    project.ID,
			Position:     i,
			StepType:     stepType,
			Title:        g.Title,
			Description:  g.Description,
			TechniqueIDs: transform.MustJSON(g.TechniqueIDs),
			RowCount:     g.RowCount,
			RowStart:     g.RowStart,
			RowEnd:       g.RowEnd,
			StitchCount:  g.StitchCount,
			RepeatCount:  g.RepeatCount,
			Milestone:    g.Milestone,
			ColorFrom:    g.ColorFrom,
			ColorTo:      g.ColorTo,
			ColorName:    g.ColorName,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.stepRepo.FullDeleteByProjectID(ctx, tx, project.ID); err != nil {
			return apperrors.QueryFailed("project_step.delete", err)
		}
		if _, err := s.stepRepo.Create(ctx, tx, rows); err != nil {
			return apperrors.QueryFailed("project_step.create", err)
		}
		fields := map[string]any{
			"total_row_count": generated.TotalRowCount,
			"time_estimate":   generated.TimeEstimate,
		}
		if err := s.projectRepo.UpdateFields(ctx, tx, project.ID, fields); err != nil {
			return apperrors.QueryFailed("project.update", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	project.TotalRowCount = generated.TotalRowCount
	project.TimeEstimate = generated.TimeEstimate
	return &ProjectWithSteps{
		Project:         project,
		Steps:           rows,
		PercentComplete: navigation.ProjectPercentComplete(rows),
	}, nil
}

func (s *projectService) ownedProject(ctx context.Context, userID, projectID uuid.UUID) (*types.Project, error) {
	if userID == uuid.Nil {
		return nil, apperrors.ErrUnauthenticated
	}
	project, err := s.projectRepo.GetByID(ctx, nil, projectID)
	if err != nil {
		return nil, apperrors.QueryFailed("project.get", err)
	}
	if project == nil || project.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return project, nil
}

func (s *projectService) ownedStep(ctx context.Context, userID, projectID, stepID uuid.UUID) (*types.ProjectStep, error) {
	if _, err := s.ownedProject(ctx, userID, projectID); err != nil {
		return nil, err
	}
	step, err := s.stepRepo.GetByID(ctx, nil, stepID)
	if err != nil {
		return nil, apperrors.QueryFailed("project_step.get", err)
	}
	if step == nil || step.ProjectID != projectID {
		return nil, apperrors.ErrNotFound
	}
	return step, nil
}
