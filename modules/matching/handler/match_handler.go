package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hilomatch/hilo-core/internal/coreerr"
	"github.com/hilomatch/hilo-core/internal/platform/httpapi"
	"github.com/hilomatch/hilo-core/modules/matching/model"
	"github.com/hilomatch/hilo-core/modules/matching/ports"
	"github.com/hilomatch/hilo-core/modules/matching/service"
)

// MatchHandler exposes the Final Assigner trigger and the Final Match
// read surface.
type MatchHandler struct {
	assigner *service.AssignerService
	matches  ports.MatchRepository
}

// NewMatchHandler wires the Final Assigner and Final Match repository.
func NewMatchHandler(assigner *service.AssignerService, matches ports.MatchRepository) *MatchHandler {
	return &MatchHandler{assigner: assigner, matches: matches}
}

// TriggerRound runs one Final Assigner round on demand (admin operation).
func (h *MatchHandler) TriggerRound(c *gin.Context) {
	count, err := h.assigner.RunRound(c.Request.Context())
	if err != nil {
		httpapi.RespondWithError(c, coreerr.HTTPStatusFor(err), "ASSIGNER_FAILED", "final assigner round failed")
		return
	}
	httpapi.RespondWithData(c, http.StatusOK, gin.H{"matches_created": count})
}

// GetByID returns a single Final Match.
func (h *MatchHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	m, err := h.matches.GetByID(c.Request.Context(), id)
	if err != nil {
		httpapi.RespondWithError(c, coreerr.HTTPStatusFor(err), "MATCH_NOT_FOUND", "final match not found")
		return
	}
	httpapi.RespondWithData(c, http.StatusOK, m.ToDTO())
}

// GetByUserID returns the caller's current Final Match, if any.
func (h *MatchHandler) GetByUserID(c *gin.Context) {
	userID := c.Param("userId")
	m, err := h.matches.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		httpapi.RespondWithError(c, coreerr.HTTPStatusFor(err), "MATCH_NOT_FOUND", "no active final match")
		return
	}
	httpapi.RespondWithData(c, http.StatusOK, m.ToDTO())
}

// List returns every Final Match (admin operation).
func (h *MatchHandler) List(c *gin.Context) {
	matches, err := h.matches.ListAll(c.Request.Context())
	if err != nil {
		httpapi.RespondWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list final matches")
		return
	}
	dtos := make([]*model.FinalMatchDTO, len(matches))
	for i, m := range matches {
		dtos[i] = m.ToDTO()
	}
	httpapi.RespondWithData(c, http.StatusOK, dtos)
}

// RegisterRoutes wires the admin and read routes for Final Matches.
func (h *MatchHandler) RegisterRoutes(router *gin.RouterGroup) {
	matches := router.Group("/matches")
	{
		matches.GET("/:id", h.GetByID)
	}
	router.GET("/users/:userId/match", h.GetByUserID)

	admin := router.Group("/admin/matches")
	{
		admin.POST("/run", h.TriggerRound)
		admin.GET("", h.List)
	}
}
