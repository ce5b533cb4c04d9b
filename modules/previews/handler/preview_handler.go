package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hilomatch/hilo-core/internal/coreerr"
	"github.com/hilomatch/hilo-core/internal/platform/httpapi"
	"github.com/hilomatch/hilo-core/modules/previews/ports"
	"github.com/hilomatch/hilo-core/modules/previews/service"
)

// PreviewHandler exposes the Get Preview read and an admin trigger for a
// Preview Generator round.
type PreviewHandler struct {
	repo      ports.PreviewRepository
	generator *service.PreviewService
}

// NewPreviewHandler wires the preview repository and generator.
func NewPreviewHandler(repo ports.PreviewRepository, generator *service.PreviewService) *PreviewHandler {
	return &PreviewHandler{repo: repo, generator: generator}
}

// Get returns the caller's current top-K candidate list.
func (h *PreviewHandler) Get(c *gin.Context) {
	userID := c.Param("userId")

	preview, err := h.repo.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		httpapi.RespondWithError(c, coreerr.HTTPStatusFor(err), "NOT_FOUND", err.Error())
		return
	}
	httpapi.RespondWithData(c, http.StatusOK, preview.ToDTO())
}

// Trigger runs a Preview Generator round on demand.
func (h *PreviewHandler) Trigger(c *gin.Context) {
	if err := h.generator.Generate(c.Request.Context()); err != nil {
		httpapi.RespondWithError(c, coreerr.HTTPStatusFor(err), "INTERNAL_ERROR", err.Error())
		return
	}
	httpapi.RespondWithData(c, http.StatusOK, gin.H{"status": "ok"})
}

// RegisterRoutes wires the preview routes.
func (h *PreviewHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/users/:userId/previews", h.Get)
	router.POST("/admin/previews/run", h.Trigger)
}
