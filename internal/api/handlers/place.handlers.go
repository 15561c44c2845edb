package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupPlaceHandlers registers the place search endpoints
func SetupPlaceHandlers(router *gin.RouterGroup, services Services) {
	router.GET("/places/autocomplete", func(c *gin.Context) {
		predictions, err := services.Places.Autocomplete(c.Request.Context(), c.Query("input"))
		if err != nil {
			respondError(c, err, nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"predictions": predictions})
	})
}
