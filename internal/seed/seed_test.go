package seed

import (
	"context"
	"strings"
	"testing"

	"github.com/yarnwise/yarnwise-backend/internal/logger"
)

// The repos are nil on purpose: validation must reject bad files before
// the seeder touches the store at all.
func newSeederForValidation(t *testing.T) *Seeder {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	return NewSeeder(nil, log, nil, nil, nil, nil, nil)
}

func TestRun_RejectsOutOfRangeDifficulty(t *testing.T) {
	s := newSeederForValidation(t)

	for _, difficulty := range []int{0, 6, 9, -1} {
		f := &File{Techniques: []TechniqueSeed{{
			Name:       "judy's magic cast-on",
			Category:   "cast-on",
			Difficulty: difficulty,
		}}}
		err := s.Run(context.Background(), f)
		if err == nil {
			t.Fatalf("difficulty %d: expected an error", difficulty)
		}
		if !strings.Contains(err.Error(), "difficulty") {
			t.Fatalf("difficulty %d: unexpected error %v", difficulty, err)
		}
	}
}

func TestRun_RejectsMissingNameOrCategory(t *testing.T) {
	s := newSeederForValidation(t)

	cases := map[string]TechniqueSeed{
		"missing name":     {Category: "lace", Difficulty: 2},
		"missing category": {Name: "nupp", Difficulty: 2},
	}
	for name, seed := range cases {
		f := &File{Techniques: []TechniqueSeed{seed}}
		if err := s.Run(context.Background(), f); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
}

func TestRun_ValidatesWholeFileBeforeWriting(t *testing.T) {
	s := newSeederForValidation(t)

	// A bad entry after a good one must fail up front; reaching the store
	// with the nil repos above would panic instead.
	f := &File{Techniques: []TechniqueSeed{
		{Name: "long-tail cast-on", Category: "cast-on", Difficulty: 1},
		{Name: "estonian braid", Category: "colorwork", Difficulty: 9},
	}}
	if err := s.Run(context.Background(), f); err == nil {
		t.Fatalf("expected an error for the out-of-range entry")
	}
}

func TestRun_EmptyFileIsNoOp(t *testing.T) {
	s := newSeederForValidation(t)

	if err := s.Run(context.Background(), nil); err != nil {
		t.Fatalf("nil file: %v", err)
	}
	if err := s.Run(context.Background(), &File{}); err != nil {
		t.Fatalf("empty file: %v", err)
	}
}
