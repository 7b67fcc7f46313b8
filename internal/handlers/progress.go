package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yarnwise/yarnwise-backend/internal/apperrors"
	"github.com/yarnwise/yarnwise-backend/internal/logger"
	"github.com/yarnwise/yarnwise-backend/internal/requestdata"
	"github.com/yarnwise/yarnwise-backend/internal/services"
)

type ProgressHandler struct {
	log             *logger.Logger
	progressService services.ProgressService
}

func NewProgressHandler(log *logger.Logger, progressService services.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		log:             log.With("handler", "ProgressHandler"),
		progressService: progressService,
	}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondServiceError(c, apperrors.ErrUnauthenticated)
		return uuid.Nil, false
	}
	return rd.UserID, true
}

type progressUpsertRequest struct {
	Status         *string  `json:"status"`
	CompletedSteps []string `json:"completed_steps"`
	QuizScore      *int     `json:"quiz_score"`
	QuizAttempts   *int     `json:"quiz_attempts"`
	PracticeCount  *int     `json:"practice_count"`
}

type quizAttemptRequest struct {
	Score int `json:"score" binding:"min=0,max=100"`
}

// GET /api/progress
func (h *ProgressHandler) GetAll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	progress, err := h.progressService.GetAll(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"progress": progress})
}

// PUT /api/progress/:techniqueId
func (h *ProgressHandler) Upsert(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	techniqueID, err := uuid.Parse(c.Param("techniqueId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req progressUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	update := services.ProgressUpdate{
		Status:         req.Status,
		CompletedSteps: req.CompletedSteps,
		QuizScore:      req.QuizScore,
		QuizAttempts:   req.QuizAttempts,
		PracticeCount:  req.PracticeCount,
	}
	if err := h.progressService.Upsert(c.Request.Context(), userID, techniqueID, update); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"updated": true})
}

// POST /api/progress/:techniqueId/quiz-attempt
func (h *ProgressHandler) RecordQuizAttempt(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	techniqueID, err := uuid.Parse(c.Param("techniqueId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req quizAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	row, err := h.progressService.RecordQuizAttempt(c.Request.Context(), userID, techniqueID, req.Score)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"progress": row})
}

// POST /api/progress/:techniqueId/practice
func (h *ProgressHandler) RecordPractice(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	techniqueID, err := uuid.Parse(c.Param("techniqueId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	row, err := h.progressService.RecordPractice(c.Request.Context(), userID, techniqueID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"progress": row})
}
