// Package transform maps raw persisted rows into fully assembled read
// models. Everything here is pure: no storage, no network, no clocks beyond
// stamping placeholder evaluation times.
package transform

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yarnwise/yarnwise-backend/internal/apperrors"
	"github.com/yarnwise/yarnwise-backend/internal/types"
)

// TechniqueDetail assembles a technique row and its optional related rows
// into the joined read model. Missing optional inputs yield defaults rather
// than failures: no video becomes the placeholder from PlaceholderVideo,
// no steps or questions become empty slices. Tutorial steps are re-sorted
// ascending by step number regardless of input order.
func TechniqueDetail(row *types.Technique, steps []*types.TutorialStep, questions []*types.QuizQuestion, video *types.TechniqueVideo) (*types.TechniqueDetail, error) {
	if row == nil {
		return nil, apperrors.MalformedRecord("technique", "row")
	}
	if row.ID == uuid.Nil {
		return nil, apperrors.MalformedRecord("technique", "id")
	}
	if row.Name == "" {
		return nil, apperrors.MalformedRecord("technique", "name")
	}
	if row.Category == "" {
		return nil, apperrors.MalformedRecord("technique", "category")
	}

	sorted := make([]*types.TutorialStep, 0, len(steps))
	for _, s := range steps {
		if s == nil {
			continue
		}
		if s.ID == uuid.Nil {
			return nil, apperrors.MalformedRecord("tutorial_step", "id")
		}
		sorted = append(sorted, s)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StepNumber < sorted[j].StepNumber
	})

	quiz := make([]*types.QuizQuestion, 0, len(questions))
	for _, q := range questions {
		if q == nil {
			continue
		}
		if q.Prompt == "" {
			return nil, apperrors.MalformedRecord("quiz_question", "prompt")
		}
		quiz = append(quiz, q)
	}

	if video == nil {
		video = PlaceholderVideo(row.ID)
	}

	return &types.TechniqueDetail{
		Technique:     *row,
		TutorialSteps: sorted,
		QuizQuestions: quiz,
		Video:         video,
	}, nil
}

// PlaceholderVideo is the defined default for techniques with no curated
// video: empty identifiers, zero timings and score, fresh evaluation
// timestamp. VideoID == "" is the "no video available" signal.
func PlaceholderVideo(techniqueID uuid.UUID) *types.TechniqueVideo {
	return &types.TechniqueVideo{
		TechniqueID: techniqueID,
		Platform:    "",
		VideoID:     "",
		URL:         "",
		AIScore:     0,
		EvaluatedAt: time.Now().UTC(),
	}
}

// StringList decodes a jsonb column holding a string array. Null and empty
// columns decode to an empty slice.
func StringList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return []string{}
	}
	return out
}

// UUIDList decodes a jsonb column holding an array of uuid strings,
// skipping entries that do not parse.
func UUIDList(raw datatypes.JSON) []uuid.UUID {
	out := []uuid.UUID{}
	for _, s := range StringList(raw) {
		id, err := uuid.Parse(s)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}

// IntList decodes a jsonb column holding an int array.
func IntList(raw datatypes.JSON) []int {
	if len(raw) == 0 {
		return []int{}
	}
	var out []int
	if err := json.Unmarshal(raw, &out); err != nil {
		return []int{}
	}
	return out
}

// MustJSON encodes v for a jsonb column. Only used with list/map values
// that cannot fail to marshal.
func MustJSON(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("null"))
	}
	return datatypes.JSON(b)
}
