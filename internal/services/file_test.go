package services

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yarnwise/yarnwise-backend/internal/apperrors"
	"github.com/yarnwise/yarnwise-backend/internal/logger"
	"github.com/yarnwise/yarnwise-backend/internal/types"
)

// countingBucket records every storage invocation so tests can assert that
// rejected uploads never reach the collaborator.
type countingBucket struct {
	uploads int
	deletes int
	lastKey string
}

func (b *countingBucket) UploadFile(ctx context.Context, key, contentType string, file io.Reader) error {
	b.uploads++
	b.lastKey = key
	return nil
}

func (b *countingBucket) DeleteFile(ctx context.Context, key string) error {
	b.deletes++
	return nil
}

func (b *countingBucket) GetPublicURL(key string) string { return "https://cdn.test/" + key }

func (b *countingBucket) GetSignedURL(key string, expiry time.Duration) (string, error) {
	return "https://signed.test/" + key, nil
}

func (b *countingBucket) ListByPrefix(ctx context.Context, prefix string) ([]string, error) {
	return nil, nil
}

type memPatternFileRepo struct {
	rows map[uuid.UUID]*types.PatternFile
}

func newMemPatternFileRepo() *memPatternFileRepo {
	return &memPatternFileRepo{rows: map[uuid.UUID]*types.PatternFile{}}
}

func (r *memPatternFileRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.PatternFile) ([]*types.PatternFile, error) {
	for _, row := range rows {
		r.rows[row.ID] = row
	}
	return rows, nil
}

func (r *memPatternFileRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.PatternFile, error) {
	return r.rows[id], nil
}

func (r *memPatternFileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.PatternFile, error) {
	var out []*types.PatternFile
	for _, row := range r.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *memPatternFileRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	for _, id := range ids {
		delete(r.rows, id)
	}
	return nil
}

func newFileServiceForTest(t *testing.T) (PatternFileService, *countingBucket) {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	bucket := &countingBucket{}
	return NewPatternFileService(nil, log, bucket, newMemPatternFileRepo()), bucket
}

func TestUpload_RejectsOversizeBeforeStorage(t *testing.T) {
	svc, bucket := newFileServiceForTest(t)

	_, err := svc.Upload(context.Background(), uuid.New(), nil,
		"big.pdf", "application/pdf", 60<<20, strings.NewReader("x"))
	if !apperrors.IsUploadRejected(err) {
		t.Fatalf("expected UploadRejected, got %v", err)
	}
	if bucket.uploads != 0 {
		t.Fatalf("storage must not be called for a rejected upload, got %d calls", bucket.uploads)
	}
}

func TestUpload_RejectsUnsupportedTypeBeforeStorage(t *testing.T) {
	svc, bucket := newFileServiceForTest(t)

	_, err := svc.Upload(context.Background(), uuid.New(), nil,
		"notes.txt", "text/plain", 1024, strings.NewReader("hello"))
	if !apperrors.IsUploadRejected(err) {
		t.Fatalf("expected UploadRejected, got %v", err)
	}
	if bucket.uploads != 0 {
		t.Fatalf("storage must not be called for a rejected upload, got %d calls", bucket.uploads)
	}
}

func TestUpload_KeyIsSanitized(t *testing.T) {
	svc, bucket := newFileServiceForTest(t)
	userID := uuid.New()

	row, err := svc.Upload(context.Background(), userID, nil,
		"my lace pattern (v2).pdf", "application/pdf", 1024, strings.NewReader("%PDF"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if bucket.uploads != 1 {
		t.Fatalf("expected one storage call, got %d", bucket.uploads)
	}
	if !strings.HasPrefix(row.StorageKey, userID.String()+"/") {
		t.Fatalf("key must be scoped to the user, got %q", row.StorageKey)
	}
	if !strings.HasSuffix(row.StorageKey, "-my_lace_pattern__v2_.pdf") {
		t.Fatalf("unexpected sanitized key %q", row.StorageKey)
	}
	// The original name survives on the record even though the key is
	// sanitized.
	if row.FileName != "my lace pattern (v2).pdf" {
		t.Fatalf("unexpected stored file name %q", row.FileName)
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"plain.pdf":        "plain.pdf",
		"has space.png":    "has_space.png",
		"weird/|:chars":    "weird___chars",
		"Ünïcode.jpg":      "_n_code.jpg",
		"dots.and-dash.ok": "dots.and-dash.ok",
	}
	for in, want := range cases {
		if got := SanitizeFileName(in); got != want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDelete_RemovesObjectAndRecord(t *testing.T) {
	svc, bucket := newFileServiceForTest(t)
	userID := uuid.New()

	row, err := svc.Upload(context.Background(), userID, nil,
		"chart.png", "image/png", 2048, strings.NewReader("png"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if err := svc.Delete(context.Background(), userID, row.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if bucket.deletes != 1 {
		t.Fatalf("expected one storage delete, got %d", bucket.deletes)
	}
	rows, err := svc.ListForUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no records after delete, got %d", len(rows))
	}
}
