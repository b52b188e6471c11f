package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pandey.app/outreach/internal/http/dto"
	"pandey.app/outreach/internal/service"
)

type StrategyHandler struct {
	strategyService service.StrategyService
}

func NewStrategyHandler(strategyService service.StrategyService) *StrategyHandler {
	return &StrategyHandler{strategyService: strategyService}
}

// Generate returns a strategy for an unsaved prospect. A response the model
// got partly wrong is still a 200, flagged as degraded.
func (h *StrategyHandler) Generate(c *gin.Context) {
	var req dto.ProspectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	result, err := h.strategyService.Generate(c.Request.Context(), req.ToModel())
	if err != nil {
		respondError(c, err, "generate strategy")
		return
	}

	c.JSON(http.StatusOK, dto.ToStrategyResponse(result))
}
