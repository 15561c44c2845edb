package routes

import (
	"errors"
	"net/http"

	"navigator/internal/logger"
	"navigator/internal/model"
	"navigator/internal/service/directions"
	"navigator/internal/service/location"
	"navigator/internal/service/navigation"
	"navigator/internal/service/place"
	"navigator/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// User-facing error messages
const (
	MsgRouteFetchFailed   = "Failed to fetch route. Please try again."
	MsgNoRoute            = "No route found between these places."
	MsgLocationTimeout    = "Failed to get current location. Please make sure location services are enabled and try again."
	MsgLocationFailed     = "Failed to get current location. Please try again."
	MsgPlaceUnresolved    = "Could not resolve the selected place."
	MsgMalformedPolyline  = "Route geometry could not be decoded."
	MsgEndpointsMissing   = "Set both origin and destination first."
	MsgSessionNotFound    = "Session not found."
	MsgNoActiveRoute      = "No route has been planned yet."
	MsgInvalidCoordinate  = "Coordinates are out of range."
	MsgInvalidMode        = "Unsupported travel mode."
	MsgEmptySearch        = "Type a place to search."
	MsgPlacesUnavailable  = "Place search is unavailable. Please try again."
	MsgInvalidRequest     = "Invalid request body."
	MsgSomethingWentWrong = "Something went wrong."
)

type apiError struct {
	status  int
	code    string
	message string
}

// errorTable is checked in order; the first match wins
var errorTable = []struct {
	target error
	apiError
}{
	{navigation.ErrSessionNotFound, apiError{http.StatusNotFound, "session_not_found", MsgSessionNotFound}},
	{navigation.ErrInvalidCoordinate, apiError{http.StatusBadRequest, "invalid_coordinate", MsgInvalidCoordinate}},
	{navigation.ErrInvalidMode, apiError{http.StatusBadRequest, "invalid_mode", MsgInvalidMode}},
	{navigation.ErrEndpointsMissing, apiError{http.StatusBadRequest, "endpoints_missing", MsgEndpointsMissing}},
	{navigation.ErrNoActiveRoute, apiError{http.StatusNotFound, "no_active_route", MsgNoActiveRoute}},
	{directions.ErrNoRoute, apiError{http.StatusNotFound, "no_route", MsgNoRoute}},
	{util.ErrMalformedEncoding, apiError{http.StatusUnprocessableEntity, "malformed_polyline", MsgMalformedPolyline}},
	{directions.ErrDirectionsUnavailable, apiError{http.StatusBadGateway, "route_fetch_failed", MsgRouteFetchFailed}},
	{location.ErrLocationTimeout, apiError{http.StatusGatewayTimeout, "location_timeout", MsgLocationTimeout}},
	{location.ErrLocationUnavailable, apiError{http.StatusBadGateway, "location_unavailable", MsgLocationFailed}},
	{place.ErrPlaceDetailsMissing, apiError{http.StatusUnprocessableEntity, "place_unresolved", MsgPlaceUnresolved}},
	{place.ErrEmptyInput, apiError{http.StatusBadRequest, "empty_input", MsgEmptySearch}},
	{place.ErrPlacesUnavailable, apiError{http.StatusBadGateway, "places_unavailable", MsgPlacesUnavailable}},
}

func classify(err error) apiError {
	for _, e := range errorTable {
		if errors.Is(err, e.target) {
			return e.apiError
		}
	}
	return apiError{http.StatusInternalServerError, "internal", MsgSomethingWentWrong}
}

// respondError writes the error body. When session is not nil the failed
// session state is included so the client can still show its endpoints.
func respondError(c *gin.Context, err error, session *model.Session) {
	e := classify(err)
	if e.status >= http.StatusInternalServerError {
		logger.L().Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}

	body := gin.H{"error": e.message, "code": e.code}
	if session != nil {
		body["session"] = session
	}
	c.AbortWithStatusJSON(e.status, body)
}

func respondBadRequest(c *gin.Context, err error) {
	logger.L().Debug("Invalid request", zap.String("path", c.FullPath()), zap.Error(err))
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": MsgInvalidRequest, "code": "invalid_request"})
}
