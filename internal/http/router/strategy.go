package router

import (
	"github.com/gin-gonic/gin"

	"pandey.app/outreach/internal/http/handler"
)

func StrategyRouter(rg *gin.RouterGroup, h *handler.StrategyHandler) {
	rg.POST("", h.Generate)
}
