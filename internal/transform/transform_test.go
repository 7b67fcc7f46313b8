package transform

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yarnwise/yarnwise-backend/internal/apperrors"
	"github.com/yarnwise/yarnwise-backend/internal/types"
)

func validTechnique() *types.Technique {
	return &types.Technique{
		ID:         uuid.New(),
		Name:       "Cable Cast On",
		Category:   types.CategoryCastOn,
		Difficulty: 2,
	}
}

func TestTechniqueDetail_NoVideoYieldsPlaceholder(t *testing.T) {
	row := validTechnique()
	before := time.Now().UTC()

	detail, err := TechniqueDetail(row, nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Video == nil {
		t.Fatalf("expected placeholder video, got nil")
	}
	if detail.Video.VideoID != "" {
		t.Fatalf("placeholder VideoID must be empty, got %q", detail.Video.VideoID)
	}
	if detail.Video.AIScore != 0 {
		t.Fatalf("placeholder AIScore must be 0, got %v", detail.Video.AIScore)
	}
	if detail.Video.TechniqueID != row.ID {
		t.Fatalf("placeholder must carry the technique id")
	}
	if detail.Video.EvaluatedAt.Before(before) {
		t.Fatalf("placeholder EvaluatedAt must be fresh")
	}
}

func TestTechniqueDetail_SortsTutorialSteps(t *testing.T) {
	row := validTechnique()
	steps := []*types.TutorialStep{
		{ID: uuid.New(), TechniqueID: row.ID, StepNumber: 3, Title: "c", Instruction: "x"},
		{ID: uuid.New(), TechniqueID: row.ID, StepNumber: 1, Title: "a", Instruction: "x"},
		{ID: uuid.New(), TechniqueID: row.ID, StepNumber: 2, Title: "b", Instruction: "x"},
	}

	detail, err := TechniqueDetail(row, steps, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(detail.TutorialSteps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(detail.TutorialSteps))
	}
	for i, s := range detail.TutorialSteps {
		if s.StepNumber != i+1 {
			t.Fatalf("step %d out of order: step_number=%d", i, s.StepNumber)
		}
	}
}

func TestTechniqueDetail_MalformedRow(t *testing.T) {
	cases := []struct {
		name string
		row  *types.Technique
	}{
		{"nil row", nil},
		{"missing id", &types.Technique{Name: "x", Category: types.CategoryLace}},
		{"missing name", &types.Technique{ID: uuid.New(), Category: types.CategoryLace}},
		{"missing category", &types.Technique{ID: uuid.New(), Name: "x"}},
	}
	for _, tc := range cases {
		_, err := TechniqueDetail(tc.row, nil, nil, nil)
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !apperrors.IsMalformedRecord(err) {
			t.Fatalf("%s: expected MalformedRecordError, got %v", tc.name, err)
		}
	}
}

func TestTechniqueDetail_NilStepsSkipped(t *testing.T) {
	row := validTechnique()
	steps := []*types.TutorialStep{
		nil,
		{ID: uuid.New(), TechniqueID: row.ID, StepNumber: 1, Title: "a", Instruction: "x"},
	}
	detail, err := TechniqueDetail(row, steps, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(detail.TutorialSteps) != 1 {
		t.Fatalf("expected nil step skipped, got %d steps", len(detail.TutorialSteps))
	}
}

func TestUUIDList_SkipsUnparseable(t *testing.T) {
	a := uuid.New()
	raw := MustJSON([]string{a.String(), "not-a-uuid"})
	ids := UUIDList(raw)
	if len(ids) != 1 || ids[0] != a {
		t.Fatalf("expected [%s], got %v", a, ids)
	}
}

func TestStringList_EmptyColumn(t *testing.T) {
	if got := StringList(nil); len(got) != 0 {
		t.Fatalf("expected empty slice, got %v", got)
	}
}
