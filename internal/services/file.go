package services

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yarnwise/yarnwise-backend/internal/apperrors"
	"github.com/yarnwise/yarnwise-backend/internal/logger"
	"github.com/yarnwise/yarnwise-backend/internal/repos"
	"github.com/yarnwise/yarnwise-backend/internal/types"
)

// Pattern uploads: both limits are enforced here before any storage call
// and re-validated server-side by bucket policy.
const MaxPatternFileBytes = 50 << 20

var acceptedPatternTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"image/gif":       true,
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9.-]`)

// SanitizeFileName replaces anything outside [A-Za-z0-9.-] with '_'.
func SanitizeFileName(name string) string {
	return unsafeKeyChars.ReplaceAllString(name, "_")
}

type PatternFileService interface {
	// Upload validates size and content type first; an UploadRejectedError
	// means the storage collaborator was never called.
	Upload(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID, fileName, contentType string, size int64, file io.Reader) (*types.PatternFile, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.PatternFile, error)
	SignedURL(ctx context.Context, userID, fileID uuid.UUID, expirySeconds int) (string, error)
	Delete(ctx context.Context, userID, fileID uuid.UUID) error
}

type patternFileService struct {
	db            *gorm.DB
	log           *logger.Logger
	bucketService BucketService
	fileRepo      repos.PatternFileRepo
}

func NewPatternFileService(db *gorm.DB, log *logger.Logger, bucketService BucketService, fileRepo repos.PatternFileRepo) PatternFileService {
	return &patternFileService{
		db:            db,
		log:           log.With("service", "PatternFileService"),
		bucketService: bucketService,
		fileRepo:      fileRepo,
	}
}

func (s *patternFileService) Upload(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID, fileName, contentType string, size int64, file io.Reader) (*types.PatternFile, error) {
	if userID == uuid.Nil {
		return nil, apperrors.ErrUnauthenticated
	}
	if size > MaxPatternFileBytes {
		return nil, apperrors.UploadRejected(fmt.Sprintf("file too large: %d bytes (max %d)", size, MaxPatternFileBytes))
	}
	if !acceptedPatternTypes[contentType] {
		return nil, apperrors.UploadRejected(fmt.Sprintf("unsupported content type %q", contentType))
	}

	key := fmt.Sprintf("%s/%d-%s", userID, time.Now().UnixMilli(), SanitizeFileName(fileName))
	if err := s.bucketService.UploadFile(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload pattern file: %w", err)
	}

	row := &types.PatternFile{
		ID:          uuid.New(),
		UserID:      userID,
		ProjectID:   projectID,
		FileName:    fileName,
		StorageKey:  key,
		ContentType: contentType,
		SizeBytes:   size,
	}
	if _, err := s.fileRepo.Create(ctx, nil, []*types.PatternFile{row}); err != nil {
		return nil, apperrors.QueryFailed("pattern_file.create", err)
	}
	return row, nil
}

func (s *patternFileService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.PatternFile, error) {
	rows, err := s.fileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, apperrors.QueryFailed("pattern_file.list", err)
	}
	return rows, nil
}

func (s *patternFileService) SignedURL(ctx context.Context, userID, fileID uuid.UUID, expirySeconds int) (string, error) {
	row, err := s.fileRepo.GetByID(ctx, nil, fileID)
	if err != nil {
		return "", apperrors.QueryFailed("pattern_file.get", err)
	}
	if row == nil || row.UserID != userID {
		return "", apperrors.ErrNotFound
	}
	if expirySeconds <= 0 {
		expirySeconds = 3600
	}
	return s.bucketService.GetSignedURL(row.StorageKey, time.Duration(expirySeconds)*time.Second)
}

func (s *patternFileService) Delete(ctx context.Context, userID, fileID uuid.UUID) error {
	row, err := s.fileRepo.GetByID(ctx, nil, fileID)
	if err != nil {
		return apperrors.QueryFailed("pattern_file.get", err)
	}
	if row == nil || row.UserID != userID {
		return apperrors.ErrNotFound
	}
	if err := s.bucketService.DeleteFile(ctx, row.StorageKey); err != nil {
		return err
	}
	return s.fileRepo.FullDeleteByIDs(ctx, nil, []uuid.UUID{row.ID})
}
