package routes

import (
	"net/http"

	"navigator/internal/model"
	"navigator/internal/util"

	"github.com/gin-gonic/gin"
)

type decodeRequest struct {
	Encoded   string `json:"encoded"`
	Precision int    `json:"precision" binding:"omitempty,oneof=5 6"`
}

// SetupPolylineHandlers registers the polyline endpoints
func SetupPolylineHandlers(router *gin.RouterGroup) {
	router.POST("/polyline/decode", DecodePolyline)
}

// DecodePolyline decodes an encoded polyline into coordinates.
// precision 6 selects the polyline6 scale, anything else the default.
func DecodePolyline(c *gin.Context) {
	var req decodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	factor := util.PolylineFactor
	if req.Precision == 6 {
		factor = util.Polyline6Factor
	}

	points, err := util.DecodePolylineWithFactor(req.Encoded, factor)
	if err != nil {
		respondError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"points": model.CoordinatesFromPoints(points)})
}
