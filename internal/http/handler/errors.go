package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"pandey.app/outreach/common/llm"
	"pandey.app/outreach/internal/service"
	"pandey.app/outreach/internal/store"
)

// respondError maps service and store errors to a status code. action names
// the failed operation in the generic 500 message.
func respondError(c *gin.Context, err error, action string) {
	ctx := c.Request.Context()

	switch {
	case errors.Is(err, store.ErrPrimaryUnavailable):
		slog.ErrorContext(ctx, "failed to "+action+", primary store unavailable", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage is temporarily unavailable, please try again"})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "prospect not found"})
	case errors.Is(err, service.ErrInvalidProspect),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, store.ErrInvalidUserID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "prospect already exists"})
	case errors.Is(err, llm.ErrTimeout):
		slog.WarnContext(ctx, "strategy generation timed out", "error", err)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "strategy generation timed out, please try again"})
	case errors.Is(err, service.ErrGeneration):
		slog.ErrorContext(ctx, "strategy generation failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to generate strategy"})
	default:
		slog.ErrorContext(ctx, "failed to "+action, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + action})
	}
}
