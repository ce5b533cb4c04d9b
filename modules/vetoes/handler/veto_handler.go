package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hilomatch/hilo-core/internal/coreerr"
	"github.com/hilomatch/hilo-core/internal/platform/httpapi"
	"github.com/hilomatch/hilo-core/modules/vetoes/model"
	"github.com/hilomatch/hilo-core/modules/vetoes/service"
)

// VetoHandler exposes the Insert Veto / List Vetoes operations.
type VetoHandler struct {
	service *service.VetoService
}

// NewVetoHandler wires the veto service.
func NewVetoHandler(service *service.VetoService) *VetoHandler {
	return &VetoHandler{service: service}
}

// Insert casts a veto on behalf of the caller named by :userId.
func (h *VetoHandler) Insert(c *gin.Context) {
	vetoerID := c.Param("userId")

	var req model.InsertVetoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request payload")
		return
	}

	veto, err := h.service.Insert(c.Request.Context(), vetoerID, &req)
	if err != nil {
		httpapi.RespondWithError(c, coreerr.HTTPStatusFor(err), string(model.GetErrorCode(err)), model.GetErrorMessage(err))
		return
	}
	httpapi.RespondWithData(c, http.StatusCreated, veto)
}

// Delete removes a veto the caller previously cast on :vetoedId.
func (h *VetoHandler) Delete(c *gin.Context) {
	vetoerID := c.Param("userId")
	vetoedID := c.Param("vetoedId")

	if err := h.service.Delete(c.Request.Context(), vetoerID, vetoedID); err != nil {
		httpapi.RespondWithError(c, coreerr.HTTPStatusFor(err), string(model.GetErrorCode(err)), model.GetErrorMessage(err))
		return
	}
	httpapi.RespondWithData(c, http.StatusOK, gin.H{"message": "veto deleted"})
}

// List returns every veto cast by :userId.
func (h *VetoHandler) List(c *gin.Context) {
	vetoerID := c.Param("userId")

	vetoes, err := h.service.ListByVetoer(c.Request.Context(), vetoerID)
	if err != nil {
		httpapi.RespondWithError(c, coreerr.HTTPStatusFor(err), string(model.GetErrorCode(err)), model.GetErrorMessage(err))
		return
	}
	httpapi.RespondWithData(c, http.StatusOK, vetoes)
}

// RegisterRoutes wires the veto routes.
func (h *VetoHandler) RegisterRoutes(router *gin.RouterGroup) {
	vetoes := router.Group("/users/:userId/vetoes")
	{
		vetoes.POST("", h.Insert)
		vetoes.GET("", h.List)
		vetoes.DELETE("/:vetoedId", h.Delete)
	}
}
