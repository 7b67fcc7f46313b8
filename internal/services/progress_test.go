package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yarnwise/yarnwise-backend/internal/repos"
	"github.com/yarnwise/yarnwise-backend/internal/repos/testutil"
	"github.com/yarnwise/yarnwise-backend/internal/types"
)

func newProgressService(t *testing.T) ProgressService {
	t.Helper()
	tx := testutil.Tx(t, testutil.DB(t))
	log := testutil.Logger(t)
	return NewProgressService(tx, log, repos.NewTechniqueProgressRepo(tx, log))
}

func TestRecordQuizAttempt_ScoreIsMonotonic(t *testing.T) {
	svc := newProgressService(t)
	ctx := context.Background()
	userID := uuid.New()
	techniqueID := uuid.New()

	scores := []int{40, 85, 60, 70}
	var last *types.TechniqueProgress
	for _, score := range scores {
		row, err := svc.RecordQuizAttempt(ctx, userID, techniqueID, score)
		if err != nil {
			t.Fatalf("RecordQuizAttempt(%d): %v", score, err)
		}
		last = row
	}

	if last.QuizScore != 85 {
		t.Fatalf("stored score must be the max of all attempts, got %d", last.QuizScore)
	}
	if last.QuizAttempts != len(scores) {
		t.Fatalf("expected %d attempts, got %d", len(scores), last.QuizAttempts)
	}
}

func TestRecordQuizAttempt_LowAttemptDemotesStatus(t *testing.T) {
	svc := newProgressService(t)
	ctx := context.Background()
	userID := uuid.New()
	techniqueID := uuid.New()

	row, err := svc.RecordQuizAttempt(ctx, userID, techniqueID, 85)
	if err != nil {
		t.Fatalf("RecordQuizAttempt(85): %v", err)
	}
	if row.Status != types.ProgressStatusConfident {
		t.Fatalf("expected confident after 85, got %q", row.Status)
	}

	// The status check runs on the attempt's raw score, so a low attempt
	// demotes even though the stored best stays at 85.
	row, err = svc.RecordQuizAttempt(ctx, userID, techniqueID, 40)
	if err != nil {
		t.Fatalf("RecordQuizAttempt(40): %v", err)
	}
	if row.Status != types.ProgressStatusPracticing {
		t.Fatalf("expected practicing after low attempt, got %q", row.Status)
	}
	if row.QuizScore != 85 {
		t.Fatalf("stored best must not regress, got %d", row.QuizScore)
	}
}

func TestGetAll_UntouchedTechniquesAbsent(t *testing.T) {
	svc := newProgressService(t)
	ctx := context.Background()
	userID := uuid.New()
	touched := uuid.New()
	untouched := uuid.New()

	if _, err := svc.RecordPractice(ctx, userID, touched); err != nil {
		t.Fatalf("RecordPractice: %v", err)
	}

	progress, err := svc.GetAll(ctx, userID)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if _, ok := progress[touched]; !ok {
		t.Fatalf("expected a record for the practiced technique")
	}
	if _, ok := progress[untouched]; ok {
		t.Fatalf("untouched technique must be absent, not zero-valued")
	}
}

func TestRecordPractice_BumpsCountAndStatus(t *testing.T) {
	svc := newProgressService(t)
	ctx := context.Background()
	userID := uuid.New()
	techniqueID := uuid.New()

	row, err := svc.RecordPractice(ctx, userID, techniqueID)
	if err != nil {
		t.Fatalf("RecordPractice: %v", err)
	}
	if row.PracticeCount != 1 {
		t.Fatalf("expected practice count 1, got %d", row.PracticeCount)
	}
	if row.Status != types.ProgressStatusPracticing {
		t.Fatalf("expected practicing, got %q", row.Status)
	}
	if row.LastPracticed == nil {
		t.Fatalf("expected last_practiced to be stamped")
	}

	row, err = svc.RecordPractice(ctx, userID, techniqueID)
	if err != nil {
		t.Fatalf("RecordPractice: %v", err)
	}
	if row.PracticeCount != 2 {
		t.Fatalf("expected practice count 2, got %d", row.PracticeCount)
	}
}
