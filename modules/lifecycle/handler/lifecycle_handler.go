package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hilomatch/hilo-core/internal/coreerr"
	"github.com/hilomatch/hilo-core/internal/platform/httpapi"
	"github.com/hilomatch/hilo-core/modules/lifecycle/service"
)

// LifecycleHandler exposes the accept/reject surface.
type LifecycleHandler struct {
	service *service.LifecycleService
}

// NewLifecycleHandler wires the Match Lifecycle service.
func NewLifecycleHandler(service *service.LifecycleService) *LifecycleHandler {
	return &LifecycleHandler{service: service}
}

// Accept records the caller's acceptance of a Final Match.
func (h *LifecycleHandler) Accept(c *gin.Context) {
	matchID := c.Param("id")
	userID := c.Query("user_id")

	m, err := h.service.Accept(c.Request.Context(), matchID, userID)
	if err != nil {
		httpapi.RespondWithError(c, coreerr.HTTPStatusFor(err), "ACCEPT_FAILED", "could not accept final match")
		return
	}
	httpapi.RespondWithData(c, http.StatusOK, m.ToDTO())
}

// Reject rejects a Final Match, reverting both sides.
func (h *LifecycleHandler) Reject(c *gin.Context) {
	matchID := c.Param("id")
	userID := c.Query("user_id")

	if err := h.service.Reject(c.Request.Context(), matchID, userID); err != nil {
		httpapi.RespondWithError(c, coreerr.HTTPStatusFor(err), "REJECT_FAILED", "could not reject final match")
		return
	}
	httpapi.RespondWithData(c, http.StatusOK, gin.H{"message": "final match rejected"})
}

// AdminDelete force-reverts a Final Match on an admin's behalf, regardless
// of which user (if any) initiated the request.
func (h *LifecycleHandler) AdminDelete(c *gin.Context) {
	matchID := c.Param("id")

	if err := h.service.AdminDelete(c.Request.Context(), matchID); err != nil {
		httpapi.RespondWithError(c, coreerr.HTTPStatusFor(err), "DELETE_FAILED", "could not delete final match")
		return
	}
	httpapi.RespondWithData(c, http.StatusOK, gin.H{"message": "final match deleted"})
}

// RegisterRoutes wires the Match Lifecycle routes.
func (h *LifecycleHandler) RegisterRoutes(router *gin.RouterGroup) {
	matches := router.Group("/matches")
	{
		matches.POST("/:id/accept", h.Accept)
		matches.POST("/:id/reject", h.Reject)
	}

	admin := router.Group("/admin/matches")
	{
		admin.DELETE("/:id", h.AdminDelete)
	}
}
