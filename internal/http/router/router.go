package router

import (
	"github.com/gin-gonic/gin"

	"pandey.app/outreach/internal/http/handler"
	"pandey.app/outreach/internal/http/middleware"
	"pandey.app/outreach/internal/service"
)

type RouterConfig struct {
	APIKey       string
	UserIDHeader string
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RequireAPIKey(cfg.APIKey))
	{
		strategyHandler := handler.NewStrategyHandler(services.Strategies())
		StrategyRouter(v1.Group("/strategy"), strategyHandler)

		prospects := v1.Group("/prospects")
		prospects.Use(middleware.RequireUser(cfg.UserIDHeader))
		prospectHandler := handler.NewProspectHandler(services.Prospects())
		ProspectRouter(prospects, prospectHandler)
	}
}
