package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hilomatch/hilo-core/internal/coreerr"
	"github.com/hilomatch/hilo-core/internal/platform/httpapi"
	"github.com/hilomatch/hilo-core/modules/users/model"
	"github.com/hilomatch/hilo-core/modules/users/service"
)

// FormHandler exposes the Submit Form / Get Form operations.
type FormHandler struct {
	service *service.FormService
}

// NewFormHandler wires the form service.
func NewFormHandler(service *service.FormService) *FormHandler {
	return &FormHandler{service: service}
}

// Submit validates and persists the caller's form.
func (h *FormHandler) Submit(c *gin.Context) {
	userID := c.Param("userId")

	var req model.SubmitFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request payload")
		return
	}

	form, err := h.service.Submit(c.Request.Context(), userID, &req)
	if err != nil {
		httpapi.RespondWithError(c, coreerr.HTTPStatusFor(err), string(model.GetErrorCode(err)), model.GetErrorMessage(err))
		return
	}
	httpapi.RespondWithData(c, http.StatusOK, form)
}

// Get returns the caller's form.
func (h *FormHandler) Get(c *gin.Context) {
	userID := c.Param("userId")

	form, err := h.service.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		httpapi.RespondWithError(c, coreerr.HTTPStatusFor(err), string(model.GetErrorCode(err)), model.GetErrorMessage(err))
		return
	}
	httpapi.RespondWithData(c, http.StatusOK, form)
}

// RegisterRoutes wires the form routes.
func (h *FormHandler) RegisterRoutes(router *gin.RouterGroup) {
	forms := router.Group("/users/:userId/form")
	{
		forms.PUT("", h.Submit)
		forms.GET("", h.Get)
	}
}
