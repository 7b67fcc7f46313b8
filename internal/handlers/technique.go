package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yarnwise/yarnwise-backend/internal/logger"
	"github.com/yarnwise/yarnwise-backend/internal/services"
)

type TechniqueHandler struct {
	log              *logger.Logger
	techniqueService services.TechniqueService
}

func NewTechniqueHandler(log *logger.Logger, techniqueService services.TechniqueService) *TechniqueHandler {
	return &TechniqueHandler{
		log:              log.With("handler", "TechniqueHandler"),
		techniqueService: techniqueService,
	}
}

// GET /api/techniques
func (h *TechniqueHandler) ListAll(c *gin.Context) {
	rows, err := h.techniqueService.ListAll(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"techniques": rows})
}

// GET /api/techniques/:id
func (h *TechniqueHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	row, err := h.techniqueService.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if row == nil {
		RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}
	RespondOK(c, gin.H{"technique": row})
}

// GET /api/techniques/category/:category
func (h *TechniqueHandler) ListByCategory(c *gin.Context) {
	rows, err := h.techniqueService.ListByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"techniques": rows})
}

// GET /api/techniques/search?q=
func (h *TechniqueHandler) Search(c *gin.Context) {
	rows, err := h.techniqueService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"techniques": rows})
}

// GET /api/techniques/categories
func (h *TechniqueHandler) CategoryCounts(c *gin.Context) {
	counts, err := h.techniqueService.CategoryCounts(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"counts": counts})
}

// GET /api/techniques/:id/related
func (h *TechniqueHandler) Related(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	rows, err := h.techniqueService.Related(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"techniques": rows})
}
