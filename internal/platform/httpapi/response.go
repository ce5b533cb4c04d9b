// Package httpapi carries the shared response/error conventions for the
// thin handler layer over the engine's services.
package httpapi

import "github.com/gin-gonic/gin"

// ErrorResponse represents the standard error response format
type ErrorResponse struct {
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// RespondWithError sends a standardized error response
func RespondWithError(c *gin.Context, statusCode int, errorCode, errorMessage string) {
	c.JSON(statusCode, ErrorResponse{
		ErrorCode:    errorCode,
		ErrorMessage: errorMessage,
	})
}

// RespondWithData sends data directly without wrapping
func RespondWithData(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// HealthResponse reports per-dependency health.
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// RespondWithHealth sends a health check response. Status is "ok" unless
// any service reports "down".
func RespondWithHealth(c *gin.Context, services map[string]string) {
	status := "ok"
	for _, s := range services {
		if s != "up" {
			status = "degraded"
			break
		}
	}
	c.JSON(200, HealthResponse{Status: status, Services: services})
}
