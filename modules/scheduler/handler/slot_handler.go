package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hilomatch/hilo-core/internal/coreerr"
	"github.com/hilomatch/hilo-core/internal/platform/httpapi"
	"github.com/hilomatch/hilo-core/modules/scheduler/model"
	"github.com/hilomatch/hilo-core/modules/scheduler/service"
)

// SlotHandler exposes the operator slot API: insert (bulk), list, delete.
type SlotHandler struct {
	service *service.SlotService
}

// NewSlotHandler wires the Scheduled Slot operator service.
func NewSlotHandler(service *service.SlotService) *SlotHandler {
	return &SlotHandler{service: service}
}

// Insert bulk-inserts new scheduled slots.
func (h *SlotHandler) Insert(c *gin.Context) {
	var req model.InsertSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request payload")
		return
	}

	slots, err := h.service.InsertBulk(c.Request.Context(), req.ScheduledTimes)
	if err != nil {
		httpapi.RespondWithError(c, coreerr.HTTPStatusFor(err), string(model.GetErrorCode(err)), "failed to insert scheduled slots")
		return
	}

	dtos := make([]*model.ScheduledSlotDTO, len(slots))
	for i, s := range slots {
		dtos[i] = s.ToDTO()
	}
	httpapi.RespondWithData(c, http.StatusCreated, dtos)
}

// List returns every scheduled slot.
func (h *SlotHandler) List(c *gin.Context) {
	slots, err := h.service.List(c.Request.Context())
	if err != nil {
		httpapi.RespondWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list scheduled slots")
		return
	}

	dtos := make([]*model.ScheduledSlotDTO, len(slots))
	for i, s := range slots {
		dtos[i] = s.ToDTO()
	}
	httpapi.RespondWithData(c, http.StatusOK, dtos)
}

// Delete cancels a pending scheduled slot.
func (h *SlotHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		httpapi.RespondWithError(c, coreerr.HTTPStatusFor(err), "SLOT_DELETE_FAILED", "could not delete scheduled slot")
		return
	}
	httpapi.RespondWithData(c, http.StatusOK, gin.H{"message": "scheduled slot deleted"})
}

// RegisterRoutes wires the operator routes under /admin/schedule.
func (h *SlotHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin/schedule")
	{
		admin.POST("", h.Insert)
		admin.GET("", h.List)
		admin.DELETE("/:id", h.Delete)
	}
}
