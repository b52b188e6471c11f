package router

import (
	"github.com/gin-gonic/gin"

	"pandey.app/outreach/internal/http/handler"
)

func ProspectRouter(rg *gin.RouterGroup, h *handler.ProspectHandler) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.PUT("", h.Sync)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/strategy", h.GenerateStrategy)
}
