package services

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yarnwise/yarnwise-backend/internal/apperrors"
	"github.com/yarnwise/yarnwise-backend/internal/graph"
	"github.com/yarnwise/yarnwise-backend/internal/logger"
	"github.com/yarnwise/yarnwise-backend/internal/repos"
	"github.com/yarnwise/yarnwise-backend/internal/transform"
	"github.com/yarnwise/yarnwise-backend/internal/types"
)

// Search results are capped; list views get no cap.
const searchResultLimit = 20

// Cap for graph-derived related lookups.
const relatedResultLimit = 10

type TechniqueService interface {
	// ListAll returns every technique fully joined, ordered by name. One
	// primary query plus three batched secondary queries; if any secondary
	// fails the whole call fails rather than returning techniques with
	// silently missing tutorial content.
	ListAll(ctx context.Context) ([]*types.TechniqueDetail, error)
	// GetByID returns (nil, nil) when the technique does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*types.TechniqueDetail, error)
	// ListByCategory is the light list-view projection: no tutorial, quiz
	// or video joins, ordered by difficulty then name.
	ListByCategory(ctx context.Context, category string) ([]*types.Technique, error)
	Search(ctx context.Context, query string) ([]*types.Technique, error)
	// CategoryCounts tallies techniques per known category. Rows with an
	// unknown or empty category are not counted toward any bucket.
	CategoryCounts(ctx context.Context) (map[string]int, error)
	Related(ctx context.Context, id uuid.UUID) ([]*types.Technique, error)
}

type techniqueService struct {
	db            *gorm.DB
	log           *logger.Logger
	techniqueRepo repos.TechniqueRepo
	stepRepo      repos.TutorialStepRepo
	quizRepo      repos.QuizQuestionRepo
	videoRepo     repos.TechniqueVideoRepo
	graphClient   *graph.Client
}

func NewTechniqueService(
	db *gorm.DB,
	log *logger.Logger,
	techniqueRepo repos.TechniqueRepo,
	stepRepo repos.TutorialStepRepo,
	quizRepo repos.QuizQuestionRepo,
	videoRepo repos.TechniqueVideoRepo,
	graphClient *graph.Client,
) TechniqueService {
	return &techniqueService{
		db:            db,
		log:           log.With("service", "TechniqueService"),
		techniqueRepo: techniqueRepo,
		stepRepo:      stepRepo,
		quizRepo:      quizRepo,
		videoRepo:     videoRepo,
		graphClient:   graphClient,
	}
}

func (s *techniqueService) ListAll(ctx context.Context) ([]*types.TechniqueDetail, error) {
	rows, err := s.techniqueRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, apperrors.QueryFailed("technique.list", err)
	}
	if len(rows) == 0 {
		return []*types.TechniqueDetail{}, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	stepsByID, quizByID, videoByID, err := s.fetchJoins(ctx, ids)
	if err != nil {
		return nil, err
	}

	details := make([]*types.TechniqueDetail, 0, len(rows))
	for _, row := range rows {
		detail, err := transform.TechniqueDetail(row, stepsByID[row.ID], quizByID[row.ID], videoByID[row.ID])
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

func (s *techniqueService) GetByID(ctx context.Context, id uuid.UUID) (*types.TechniqueDetail, error) {
	rows, err := s.techniqueRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, apperrors.QueryFailed("technique.get", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	row := rows[0]

	stepsByID, quizByID, videoByID, err := s.fetchJoins(ctx, []uuid.UUID{row.ID})
	if err != nil {
		return nil, err
	}
	return transform.TechniqueDetail(row, stepsByID[row.ID], quizByID[row.ID], videoByID[row.ID])
}

// fetchJoins runs the three secondary queries in parallel and indexes the
// results by technique id. All-or-nothing: one failure fails the join.
func (s *techniqueService) fetchJoins(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]*types.TutorialStep, map[uuid.UUID][]*types.QuizQuestion, map[uuid.UUID]*types.TechniqueVideo, error) {
	var (
		steps  []*types.TutorialStep
		quiz   []*types.QuizQuestion
		videos []*types.TechniqueVideo
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.stepRepo.GetByTechniqueIDs(gctx, nil, ids)
		if err != nil {
			return apperrors.QueryFailed("technique.tutorial_steps", err)
		}
		steps = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.quizRepo.GetByTechniqueIDs(gctx, nil, ids)
		if err != nil {
			return apperrors.QueryFailed("technique.quiz_questions", err)
		}
		quiz = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.videoRepo.GetByTechniqueIDs(gctx, nil, ids)
		if err != nil {
			return apperrors.QueryFailed("technique.videos", err)
		}
		videos = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}

	stepsByID := make(map[uuid.UUID][]*types.TutorialStep, len(ids))
	for _, row := range steps {
		stepsByID[row.TechniqueID] = append(stepsByID[row.TechniqueID], row)
	}
	quizByID := make(map[uuid.UUID][]*types.QuizQuestion, len(ids))
	for _, row := range quiz {
		quizByID[row.TechniqueID] = append(quizByID[row.TechniqueID], row)
	}
	videoByID := make(map[uuid.UUID]*types.TechniqueVideo, len(videos))
	for _, row := range videos {
		videoByID[row.TechniqueID] = row
	}
	return stepsByID, quizByID, videoByID, nil
}

func (s *techniqueService) ListByCategory(ctx context.Context, category string) ([]*types.Technique, error) {
	rows, err := s.techniqueRepo.GetByCategory(ctx, nil, category)
	if err != nil {
		return nil, apperrors.QueryFailed("technique.list_by_category", err)
	}
	return rows, nil
}

func (s *techniqueService) Search(ctx context.Context, query string) ([]*types.Technique, error) {
	rows, err := s.techniqueRepo.Search(ctx, nil, query, searchResultLimit)
	if err != nil {
		return nil, apperrors.QueryFailed("technique.search", err)
	}
	return rows, nil
}

func (s *techniqueService) CategoryCounts(ctx context.Context) (map[string]int, error) {
	categories, err := s.techniqueRepo.Categories(ctx, nil)
	if err != nil {
		return nil, apperrors.QueryFailed("technique.category_counts", err)
	}
	known := make(map[string]bool, len(types.KnownCategories()))
	for _, c := range types.KnownCategories() {
		known[c] = true
	}
	counts := map[string]int{}
	for _, c := range categories {
		if !known[c] {
			continue
		}
		counts[c]++
	}
	return counts, nil
}

// Related answers from the neo4j mirror when one is configured, which also
// surfaces second-hop neighbors. Without a graph client, or when the graph
// lookup fails or comes back empty, it falls back to the row's stored
// related id list.
func (s *techniqueService) Related(ctx context.Context, id uuid.UUID) ([]*types.Technique, error) {
	rows, err := s.techniqueRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, apperrors.QueryFailed("technique.related", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	relatedIDs, err := graph.RelatedTechniques(ctx, s.graphClient, id, relatedResultLimit)
	if err != nil {
		s.log.Warn("Graph related lookup failed, using stored related ids", "technique_id", id, "error", err)
		relatedIDs = nil
	}
	if len(relatedIDs) == 0 {
		relatedIDs = transform.UUIDList(rows[0].RelatedIDs)
	}
	if len(relatedIDs) == 0 {
		return []*types.Technique{}, nil
	}
	related, err := s.techniqueRepo.GetByIDs(ctx, nil, relatedIDs)
	if err != nil {
		return nil, apperrors.QueryFailed("technique.related", err)
	}
	return related, nil
}
