package rest

import (
	"context"
	"net/http"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/zachorg/SwipeCore-sub002/business/behavior"
	"github.com/zachorg/SwipeCore-sub002/domain"
)

type (
	// TrackerProvider hands out the per-user behavior tracker.
	TrackerProvider interface {
		ForUser(ctx context.Context, userID string) *behavior.Tracker
	}

	TrackerHandler struct {
		validate *validator.Validate
		trackers TrackerProvider
	}

	TrackViewRequest struct {
		Card        domain.CandidateCard `json:"card"`
		ViewSeconds float64              `json:"view_seconds" validate:"gte=0"`
	}

	TrackSwipeRequest struct {
		Action string `json:"action" validate:"required,oneof=like pass"`
	}

	TrackDetailRequest struct {
		Opened bool `json:"opened"`
	}

	TrackPhotoRequest struct {
		Interacted bool `json:"interacted"`
	}
)

func NewTrackerHandler(trackers TrackerProvider) *TrackerHandler {
	return &TrackerHandler{
		validate: validator.New(),
		trackers: trackers,
	}
}

func (h *TrackerHandler) TrackView(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req TrackViewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if req.Card.ID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "card.id is required"})
	}

	ctx := c.Request().Context()
	h.trackers.ForUser(ctx, userID).TrackCardView(ctx, req.Card, req.ViewSeconds)

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated("view recorded"))
}

func (h *TrackerHandler) TrackSwipe(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req TrackSwipeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx := c.Request().Context()
	h.trackers.ForUser(ctx, userID).TrackSwipeAction(ctx, req.Action)

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated("swipe recorded"))
}

func (h *TrackerHandler) TrackDetail(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req TrackDetailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx := c.Request().Context()
	h.trackers.ForUser(ctx, userID).TrackDetailView(ctx, req.Opened)

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated("detail view recorded"))
}

func (h *TrackerHandler) TrackPhoto(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req TrackPhotoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx := c.Request().Context()
	h.trackers.ForUser(ctx, userID).TrackPhotoInteraction(ctx, req.Interacted)

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated("photo interaction recorded"))
}

func (h *TrackerHandler) EndSession(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	ctx := c.Request().Context()
	h.trackers.ForUser(ctx, userID).EndSession(ctx)

	return c.JSON(http.StatusOK, fres.Response.StatusOK("session ended"))
}

// Signals exposes the derived predictive signals for adaptive UI behavior.
func (h *TrackerHandler) Signals(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	ctx := c.Request().Context()
	signals := h.trackers.ForUser(ctx, userID).PredictiveSignals()

	return c.JSON(http.StatusOK, fres.Response.StatusOK(signals))
}
