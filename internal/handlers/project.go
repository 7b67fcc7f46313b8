package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yarnwise/yarnwise-backend/internal/logger"
	"github.com/yarnwise/yarnwise-backend/internal/services"
	"github.com/yarnwise/yarnwise-backend/internal/types"
)

type ProjectHandler struct {
	log            *logger.Logger
	projectService services.ProjectService
}

func NewProjectHandler(log *logger.Logger, projectService services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		log:            log.With("handler", "ProjectHandler"),
		projectService: projectService,
	}
}

type createProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	ProjectType string `json:"project_type"`
	Difficulty  int    `json:"difficulty" binding:"required,min=1,max=5"`
	Yarn        string `json:"yarn"`
	Needles     string `json:"needles"`
	Size        string `json:"size"`
	Notes       string `json:"notes"`
}

type setRowsRequest struct {
	Rows []int `json:"rows"`
}

type generateStepsRequest struct {
	CustomInstructions string `json:"custom_instructions"`
}

// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	project, err := h.projectService.Create(c.Request.Context(), userID, &types.Project{
		Name:        req.Name,
		ProjectType: req.ProjectType,
		Difficulty:  req.Difficulty,
		Yarn:        req.Yarn,
		Needles:     req.Needles,
		Size:        req.Size,
		Notes:       req.Notes,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"project": project})
}

// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	rows, err := h.projectService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"projects": rows})
}

// GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	detail, err := h.projectService.Get(c.Request.Context(), userID, projectID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, detail)
}

// PATCH /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	// Only descriptive attributes are patchable from the client.
	allowed := map[string]bool{
		"name": true, "project_type": true, "difficulty": true,
		"yarn": true, "needles": true, "size": true, "notes": true,
	}
	for k := range fields {
		if !allowed[k] {
			delete(fields, k)
		}
	}
	if err := h.projectService.Update(c.Request.Context(), userID, projectID, fields); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"updated": true})
}

// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.projectService.Delete(c.Request.Context(), userID, projectID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}

// POST /api/projects/:id/steps/:stepId/toggle
func (h *ProjectHandler) ToggleStep(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	stepID, err := uuid.Parse(c.Param("stepId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	step, err := h.projectService.ToggleStep(c.Request.Context(), userID, projectID, stepID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"step": step})
}

// PUT /api/projects/:id/steps/:stepId/rows
func (h *ProjectHandler) SetCompletedRows(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	stepID, err := uuid.Parse(c.Param("stepId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req setRowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	step, err := h.projectService.SetCompletedRows(c.Request.Context(), userID, projectID, stepID, req.Rows)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"step": step})
}

// POST /api/projects/:id/generate-steps
func (h *ProjectHandler) GenerateSteps(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req generateStepsRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	detail, err := h.projectService.GenerateSteps(c.Request.Context(), userID, projectID, req.CustomInstructions)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, detail)
}
