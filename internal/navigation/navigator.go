// Package navigation holds the in-memory step navigation model for an
// active project session. The state is owned by one session only; nothing
// here touches storage or synchronizes across devices.
package navigation

import (
	"math"

	"github.com/google/uuid"

	"github.com/yarnwise/yarnwise-backend/internal/transform"
	"github.com/yarnwise/yarnwise-backend/internal/types"
)

// Navigator tracks the current position within a project's ordered step
// list. Out-of-range navigation requests are silently ignored, mirroring
// disabled Previous/Next controls at the boundaries.
type Navigator struct {
	steps []*types.ProjectStep
	index int
}

func NewNavigator(steps []*types.ProjectStep) *Navigator {
	return &Navigator{steps: steps}
}

func (n *Navigator) Index() int { return n.index }

func (n *Navigator) StepCount() int { return len(n.steps) }

func (n *Navigator) Current() *types.ProjectStep {
	if len(n.steps) == 0 {
		return nil
	}
	return n.steps[n.index]
}

// GoTo moves to the given index. Requests outside [0, stepCount) are
// no-ops, not errors.
func (n *Navigator) GoTo(index int) {
	if index < 0 || index >= len(n.steps) {
		return
	}
	n.index = index
}

func (n *Navigator) Next() { n.GoTo(n.index + 1) }

func (n *Navigator) Prev() { n.GoTo(n.index - 1) }

// AtStart and AtEnd are the derived signals that disable the Previous and
// Next affordances; they are not separate state.
func (n *Navigator) AtStart() bool { return n.index == 0 }

func (n *Navigator) AtEnd() bool {
	return len(n.steps) == 0 || n.index == len(n.steps)-1
}

// ToggleStep flips the boolean completion flag of the identified step. For
// row-bearing steps this is not the authoritative mutation path; use
// ToggleRow for those.
func (n *Navigator) ToggleStep(stepID uuid.UUID) {
	for _, s := range n.steps {
		if s.ID == stepID {
			s.Completed = !s.Completed
			return
		}
	}
}

// ToggleRow flips one row's done state on a multi-row step. Rows outside
// [0, RowCount) are ignored.
func (n *Navigator) ToggleRow(stepID uuid.UUID, row int) {
	for _, s := range n.steps {
		if s.ID != stepID {
			continue
		}
		if row < 0 || row >= s.RowCount {
			return
		}
		rows := transform.IntList(s.CompletedRows)
		found := -1
		for i, r := range rows {
			if r == row {
				found = i
				break
			}
		}
		if found >= 0 {
			rows = append(rows[:found], rows[found+1:]...)
		} else {
			rows = append(rows, row)
		}
		s.CompletedRows = transform.MustJSON(rows)
		return
	}
}

// PercentComplete derives a step's completion percentage. Multi-row steps
// (RowCount > 1) compute it from the completed-row set, rounded to the
// nearest integer; the Completed boolean is not consulted for them.
func PercentComplete(step *types.ProjectStep) int {
	if step == nil {
		return 0
	}
	if step.RowCount > 1 {
		done := dedupeRows(transform.IntList(step.CompletedRows), step.RowCount)
		return int(math.Round(float64(len(done)) / float64(step.RowCount) * 100))
	}
	if step.Completed {
		return 100
	}
	return 0
}

// ProjectPercentComplete averages the per-step percentages.
func ProjectPercentComplete(steps []*types.ProjectStep) int {
	if len(steps) == 0 {
		return 0
	}
	total := 0
	for _, s := range steps {
		total += PercentComplete(s)
	}
	return int(math.Round(float64(total) / float64(len(steps))))
}

// dedupeRows keeps one entry per valid row index; persisted lists are
// supposed to be sets but arrivals from clients are not trusted.
func dedupeRows(rows []int, rowCount int) []int {
	seen := make(map[int]bool, len(rows))
	out := rows[:0]
	for _, r := range rows {
		if r < 0 || r >= rowCount || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}
