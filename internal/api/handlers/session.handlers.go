package routes

import (
	"context"
	"errors"
	"io"
	"net/http"

	"navigator/internal/model"
	"navigator/internal/service/navigation"

	"github.com/gin-gonic/gin"
)

type createSessionRequest struct {
	Mode model.TravelMode `json:"mode"`
}

// endpointRequest is either a coordinate or an autocomplete place id
type endpointRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	PlaceID   string   `json:"place_id"`
}

type positionRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

type sessionHandlers struct {
	nav *navigation.NavigationService
}

// SetupSessionHandlers registers the navigation session endpoints
func SetupSessionHandlers(router *gin.RouterGroup, services Services) {
	h := &sessionHandlers{nav: services.Navigation}

	sessions := router.Group("/sessions")
	sessions.POST("", h.create)
	sessions.GET("/:id", h.get)
	sessions.DELETE("/:id", h.delete)
	sessions.PUT("/:id/origin", h.setOrigin)
	sessions.PUT("/:id/destination", h.setDestination)
	sessions.POST("/:id/origin/current", h.useCurrentLocation)
	sessions.POST("/:id/directions", h.planRoute)
	sessions.GET("/:id/map", h.mapView)
	sessions.POST("/:id/progress", h.progress)
}

func (h *sessionHandlers) create(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBadRequest(c, err)
		return
	}

	session, err := h.nav.CreateSession(req.Mode)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *sessionHandlers) get(c *gin.Context) {
	session, err := h.nav.GetSession(c.Param("id"))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *sessionHandlers) delete(c *gin.Context) {
	if err := h.nav.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, nil)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *sessionHandlers) setOrigin(c *gin.Context) {
	h.setEndpoint(c, h.nav.SetOrigin, h.nav.SetOriginFromPlace)
}

func (h *sessionHandlers) setDestination(c *gin.Context) {
	h.setEndpoint(c, h.nav.SetDestination, h.nav.SetDestinationFromPlace)
}

type setCoordinateFunc func(ctx context.Context, id string, c model.Coordinate) (*model.Session, error)
type setPlaceFunc func(ctx context.Context, id, placeID string) (*model.Session, error)

func (h *sessionHandlers) setEndpoint(c *gin.Context, byCoordinate setCoordinateFunc, byPlace setPlaceFunc) {
	var req endpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	id := c.Param("id")
	ctx := c.Request.Context()

	var (
		session *model.Session
		err     error
	)
	switch {
	case req.PlaceID != "":
		session, err = byPlace(ctx, id, req.PlaceID)
	case req.Latitude != nil && req.Longitude != nil:
		session, err = byCoordinate(ctx, id, model.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude})
	default:
		respondBadRequest(c, errors.New("either place_id or latitude and longitude are required"))
		return
	}

	h.respondSession(c, session, err)
}

func (h *sessionHandlers) useCurrentLocation(c *gin.Context) {
	session, err := h.nav.UseCurrentLocation(c.Request.Context(), c.Param("id"))
	h.respondSession(c, session, err)
}

func (h *sessionHandlers) planRoute(c *gin.Context) {
	session, err := h.nav.PlanRoute(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, session)
		return
	}

	route, err := h.nav.Route(session.ID)
	if err != nil {
		respondError(c, err, session)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session": session,
		"route":   route,
		"points":  model.CoordinatesFromPoints(route.Points),
	})
}

func (h *sessionHandlers) mapView(c *gin.Context) {
	view, err := h.nav.MapView(c.Param("id"))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *sessionHandlers) progress(c *gin.Context) {
	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	progress, err := h.nav.Progress(c.Param("id"), model.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude})
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// respondSession answers an endpoint update. A failed re-plan still
// returns the stored session alongside the error.
func (h *sessionHandlers) respondSession(c *gin.Context, session *model.Session, err error) {
	if err != nil {
		respondError(c, err, session)
		return
	}
	c.JSON(http.StatusOK, session)
}
