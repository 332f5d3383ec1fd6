package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rumazq/fintrack-server/internal/apierrors"
	"github.com/rumazq/fintrack-server/internal/model"
)

// writeError maps service errors onto the JSON error envelope. APIError
// carries its own status and type; anything else collapses to 500.
func writeError(c *gin.Context, err error) {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		body := gin.H{
			"errorType": apiErr.Type,
			"message":   apiErr.Message,
		}
		if apiErr.SecurityQuestion != "" {
			body["securityQuestion"] = apiErr.SecurityQuestion
		}
		if apiErr.Status >= http.StatusInternalServerError && apiErr.Err != nil {
			body["error"] = apiErr.Err.Error()
		}
		c.JSON(apiErr.Status, body)
		return
	}

	if errors.Is(err, model.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"errorType": apierrors.TypeNotFound,
			"message":   "Not found",
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"errorType": apierrors.TypeInternal,
		"message":   "Internal server error",
		"error":     err.Error(),
	})
}
