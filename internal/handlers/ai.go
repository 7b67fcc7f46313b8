package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yarnwise/yarnwise-backend/internal/logger"
	"github.com/yarnwise/yarnwise-backend/internal/services"
)

// AIHandler fronts the contextual-help function. Step generation lives on
// the project routes since it mutates project state.
type AIHandler struct {
	log      *logger.Logger
	aiClient services.AIClient
}

func NewAIHandler(log *logger.Logger, aiClient services.AIClient) *AIHandler {
	return &AIHandler{
		log:      log.With("handler", "AIHandler"),
		aiClient: aiClient,
	}
}

type contextualHelpRequest struct {
	TechniqueID string `json:"technique_id" binding:"required"`
	SkillLevel  string `json:"skill_level" binding:"required,oneof=beginner intermediate advanced"`
	Context     string `json:"context"`
}

// POST /api/ai/contextual-help
func (h *AIHandler) ContextualHelp(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}
	var req contextualHelpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	techniqueID, err := uuid.Parse(req.TechniqueID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	help, err := h.aiClient.ContextualHelp(c.Request.Context(), &services.ContextualHelpRequest{
		TechniqueID: techniqueID,
		SkillLevel:  req.SkillLevel,
		Context:     req.Context,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"help": help})
}
