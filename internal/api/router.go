package api

import (
	routes "navigator/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// SetupRouter initializes all application routes
func SetupRouter(r *gin.Engine, info map[string]string, services routes.Services) {
	r.Use(AccessLogMiddleware())

	// API group
	api := r.Group("/api")

	// Setup main handlers
	routes.SetupMainHandlers(r.Group(""), info, services)

	routes.SetupPolylineHandlers(api)
	routes.SetupSessionHandlers(api, services)
	routes.SetupPlaceHandlers(api, services)
}
