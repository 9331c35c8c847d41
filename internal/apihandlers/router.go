package apihandlers

import (
	"ticketclassifier/internal/app"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the API routes onto a new gin engine.
func NewRouter(a *app.App) *gin.Engine {
	router := gin.New()

	router.Use(RequestID())
	router.Use(Logger())
	router.Use(Recovery())

	h := &APIHandler{App: a}

	router.GET("/health", h.HealthHandler)
	router.GET("/metrics", gin.WrapH(a.Metrics.Handler()))

	api := router.Group("/api")
	{
		api.POST("/classify_single", h.ClassifySingleHandler)
		api.POST("/classify_tickets", h.ClassifyTicketsHandler)
		api.GET("/system_check", h.SystemCheckHandler)
	}

	return router
}
