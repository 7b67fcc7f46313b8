package navigation

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yarnwise/yarnwise-backend/internal/transform"
	"github.com/yarnwise/yarnwise-backend/internal/types"
)

func makeSteps(n int) []*types.ProjectStep {
	steps := make([]*types.ProjectStep, 0, n)
	for i := 0; i < n; i++ {
		steps = append(steps, &types.ProjectStep{ID: uuid.New(), Position: i, Title: "step"})
	}
	return steps
}

func TestGoTo_OutOfRangeIsNoOp(t *testing.T) {
	nav := NewNavigator(makeSteps(3))
	nav.GoTo(1)

	nav.GoTo(-1)
	if nav.Index() != 1 {
		t.Fatalf("GoTo(-1) must not move, index=%d", nav.Index())
	}
	nav.GoTo(3)
	if nav.Index() != 1 {
		t.Fatalf("GoTo(stepCount) must not move, index=%d", nav.Index())
	}
}

func TestBoundarySignals(t *testing.T) {
	nav := NewNavigator(makeSteps(3))
	if !nav.AtStart() {
		t.Fatalf("expected AtStart at index 0")
	}
	if nav.AtEnd() {
		t.Fatalf("did not expect AtEnd at index 0")
	}
	nav.GoTo(2)
	if !nav.AtEnd() {
		t.Fatalf("expected AtEnd at last index")
	}
	if nav.AtStart() {
		t.Fatalf("did not expect AtStart at last index")
	}
}

func TestNextPrev(t *testing.T) {
	nav := NewNavigator(makeSteps(2))
	nav.Next()
	if nav.Index() != 1 {
		t.Fatalf("expected index 1 after Next, got %d", nav.Index())
	}
	nav.Next()
	if nav.Index() != 1 {
		t.Fatalf("Next at end must not move, got %d", nav.Index())
	}
	nav.Prev()
	nav.Prev()
	if nav.Index() != 0 {
		t.Fatalf("Prev at start must not move, got %d", nav.Index())
	}
}

func TestToggleStep(t *testing.T) {
	steps := makeSteps(2)
	nav := NewNavigator(steps)
	nav.ToggleStep(steps[1].ID)
	if !steps[1].Completed {
		t.Fatalf("expected step toggled on")
	}
	nav.ToggleStep(steps[1].ID)
	if steps[1].Completed {
		t.Fatalf("expected step toggled off")
	}
}

func TestPercentComplete_RowBased(t *testing.T) {
	rows := make([]int, 0, 10)
	for i := 0; i < 10; i++ {
		rows = append(rows, i)
	}
	step := &types.ProjectStep{
		ID:            uuid.New(),
		RowCount:      20,
		CompletedRows: transform.MustJSON(rows),
	}
	if got := PercentComplete(step); got != 50 {
		t.Fatalf("expected 50, got %d", got)
	}
}

func TestPercentComplete_RowBasedIgnoresCompletedFlag(t *testing.T) {
	step := &types.ProjectStep{
		ID:        uuid.New(),
		RowCount:  4,
		Completed: true,
	}
	if got := PercentComplete(step); got != 0 {
		t.Fatalf("completed flag must not count for multi-row steps, got %d", got)
	}
}

func TestPercentComplete_Boolean(t *testing.T) {
	step := &types.ProjectStep{ID: uuid.New()}
	if got := PercentComplete(step); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	step.Completed = true
	if got := PercentComplete(step); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
}

func TestPercentComplete_Rounding(t *testing.T) {
	step := &types.ProjectStep{
		ID:            uuid.New(),
		RowCount:      3,
		CompletedRows: transform.MustJSON([]int{0}),
	}
	// 1/3 = 33.33 rounds to 33
	if got := PercentComplete(step); got != 33 {
		t.Fatalf("expected 33, got %d", got)
	}
	step.CompletedRows = transform.MustJSON([]int{0, 1})
	// 2/3 = 66.67 rounds to 67
	if got := PercentComplete(step); got != 67 {
		t.Fatalf("expected 67, got %d", got)
	}
}

func TestPercentComplete_DuplicateAndOutOfRangeRows(t *testing.T) {
	step := &types.ProjectStep{
		ID:            uuid.New(),
		RowCount:      4,
		CompletedRows: transform.MustJSON([]int{0, 0, 1, 7, -2}),
	}
	if got := PercentComplete(step); got != 50 {
		t.Fatalf("expected 50 with dupes/out-of-range dropped, got %d", got)
	}
}

func TestToggleRow(t *testing.T) {
	step := &types.ProjectStep{ID: uuid.New(), RowCount: 5}
	nav := NewNavigator([]*types.ProjectStep{step})

	nav.ToggleRow(step.ID, 2)
	if got := transform.IntList(step.CompletedRows); len(got) != 1 || got[0] != 2 {
		t.Fatalf("expected [2], got %v", got)
	}
	nav.ToggleRow(step.ID, 2)
	if got := transform.IntList(step.CompletedRows); len(got) != 0 {
		t.Fatalf("expected empty after re-toggle, got %v", got)
	}
	nav.ToggleRow(step.ID, 9)
	if got := transform.IntList(step.CompletedRows); len(got) != 0 {
		t.Fatalf("out-of-range row must be ignored, got %v", got)
	}
}

func TestProjectPercentComplete(t *testing.T) {
	steps := []*types.ProjectStep{
		{ID: uuid.New(), Completed: true},
		{ID: uuid.New()},
	}
	if got := ProjectPercentComplete(steps); got != 50 {
		t.Fatalf("expected 50, got %d", got)
	}
	if got := ProjectPercentComplete(nil); got != 0 {
		t.Fatalf("expected 0 for no steps, got %d", got)
	}
}
