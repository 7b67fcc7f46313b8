package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yarnwise/yarnwise-backend/internal/repos"
	"github.com/yarnwise/yarnwise-backend/internal/repos/testutil"
	"github.com/yarnwise/yarnwise-backend/internal/transform"
	"github.com/yarnwise/yarnwise-backend/internal/types"
)

func newTechniqueService(t *testing.T) (TechniqueService, repos.TechniqueRepo, *gorm.DB) {
	t.Helper()
	tx := testutil.Tx(t, testutil.DB(t))
	log := testutil.Logger(t)
	techniqueRepo := repos.NewTechniqueRepo(tx, log)
	svc := NewTechniqueService(
		tx, log,
		techniqueRepo,
		repos.NewTutorialStepRepo(tx, log),
		repos.NewQuizQuestionRepo(tx, log),
		repos.NewTechniqueVideoRepo(tx, log),
		nil,
	)
	return svc, techniqueRepo, tx
}

func seedTechnique(t *testing.T, repo repos.TechniqueRepo, name, category string) *types.Technique {
	t.Helper()
	row := &types.Technique{
		ID:         uuid.New(),
		Name:       name,
		Category:   category,
		Difficulty: 1,
	}
	if _, err := repo.Create(context.Background(), nil, []*types.Technique{row}); err != nil {
		t.Fatalf("failed to seed technique %q: %v", name, err)
	}
	return row
}

func TestCategoryCounts(t *testing.T) {
	svc, repo, _ := newTechniqueService(t)
	ctx := context.Background()

	seedTechnique(t, repo, "cable cross", types.CategoryCables)
	seedTechnique(t, repo, "cable braid", types.CategoryCables)
	seedTechnique(t, repo, "yarn over", types.CategoryLace)
	// Unknown categories are skipped, not counted and not an error.
	seedTechnique(t, repo, "mystery stitch", "experimental")

	counts, err := svc.CategoryCounts(ctx)
	if err != nil {
		t.Fatalf("CategoryCounts: %v", err)
	}
	if counts[types.CategoryCables] != 2 {
		t.Fatalf("expected 2 cables, got %d", counts[types.CategoryCables])
	}
	if counts[types.CategoryLace] != 1 {
		t.Fatalf("expected 1 lace, got %d", counts[types.CategoryLace])
	}
	if _, ok := counts["experimental"]; ok {
		t.Fatalf("unknown category must be absent from the tally")
	}
}

func TestSearch_ResultsAreCapped(t *testing.T) {
	svc, repo, _ := newTechniqueService(t)
	ctx := context.Background()

	for i := 0; i < searchResultLimit+5; i++ {
		seedTechnique(t, repo, fmt.Sprintf("brioche stitch %02d", i), types.CategoryBasics)
	}

	rows, err := svc.Search(ctx, "BRIOCHE")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(rows) != searchResultLimit {
		t.Fatalf("expected %d results, got %d", searchResultLimit, len(rows))
	}
}

func TestRelated_WithoutGraphUsesStoredIDs(t *testing.T) {
	svc, repo, _ := newTechniqueService(t)
	ctx := context.Background()

	neighbor := seedTechnique(t, repo, "cable cross", types.CategoryCables)
	row := &types.Technique{
		ID:         uuid.New(),
		Name:       "cable braid",
		Category:   types.CategoryCables,
		Difficulty: 2,
		RelatedIDs: transform.MustJSON([]string{neighbor.ID.String()}),
	}
	if _, err := repo.Create(ctx, nil, []*types.Technique{row}); err != nil {
		t.Fatalf("failed to seed technique: %v", err)
	}

	related, err := svc.Related(ctx, row.ID)
	if err != nil {
		t.Fatalf("Related: %v", err)
	}
	if len(related) != 1 || related[0].ID != neighbor.ID {
		t.Fatalf("expected the stored related technique, got %+v", related)
	}
}

func TestGetByID_MissIsNilNil(t *testing.T) {
	svc, _, _ := newTechniqueService(t)

	row, err := svc.GetByID(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if row != nil {
		t.Fatalf("expected nil for a missing technique, got %+v", row)
	}
}

func TestGetByID_NoVideoGetsPlaceholder(t *testing.T) {
	svc, repo, _ := newTechniqueService(t)
	ctx := context.Background()

	seeded := seedTechnique(t, repo, "knit stitch", types.CategoryBasics)

	detail, err := svc.GetByID(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if detail == nil {
		t.Fatalf("expected the seeded technique")
	}
	if detail.Video == nil {
		t.Fatalf("expected a placeholder video, got nil")
	}
	if detail.Video.VideoID != "" || detail.Video.AIScore != 0 {
		t.Fatalf("placeholder video must have empty id and zero score, got %+v", detail.Video)
	}
}
