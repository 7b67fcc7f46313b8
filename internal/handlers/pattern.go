package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yarnwise/yarnwise-backend/internal/logger"
	"github.com/yarnwise/yarnwise-backend/internal/services"
)

type PatternHandler struct {
	log         *logger.Logger
	fileService services.PatternFileService
}

func NewPatternHandler(log *logger.Logger, fileService services.PatternFileService) *PatternHandler {
	return &PatternHandler{
		log:         log.With("handler", "PatternHandler"),
		fileService: fileService,
	}
}

// POST /api/patterns (multipart: file, optional project_id)
func (h *PatternHandler) Upload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var projectID *uuid.UUID
	if raw := c.PostForm("project_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "bad_request", err)
			return
		}
		projectID = &id
	}

	f, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	defer f.Close()

	row, err := h.fileService.Upload(
		c.Request.Context(),
		userID,
		projectID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		f,
	)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"pattern_file": row})
}

// GET /api/patterns
func (h *PatternHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	rows, err := h.fileService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"pattern_files": rows})
}

// GET /api/patterns/:id/url?expiry=3600
func (h *PatternHandler) SignedURL(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	expiry := 3600
	if raw := c.Query("expiry"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			expiry = parsed
		}
	}
	url, err := h.fileService.SignedURL(c.Request.Context(), userID, fileID, expiry)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}

// DELETE /api/patterns/:id
func (h *PatternHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.fileService.Delete(c.Request.Context(), userID, fileID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}
