package rest

import (
	"context"
	"net/http"
	"strconv"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
	"github.com/zachorg/SwipeCore-sub002/business/analytics"
	"github.com/zachorg/SwipeCore-sub002/domain"
)

type (
	AnalyticsService interface {
		GetAnalytics(periodHours int) domain.PrefetchAnalytics
		RecentEvents(n int) []domain.PrefetchEvent
		EventsByType(eventType string) []domain.PrefetchEvent
		EventsByCard(cardID string) []domain.PrefetchEvent
		ExportAnalytics() analytics.Export
		ClearAnalytics(ctx context.Context)
	}

	AnalyticsHandler struct {
		service AnalyticsService
	}
)

func NewAnalyticsHandler(service AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// GET /api/v1/prefetch/analytics?period_hours=24
func (h *AnalyticsHandler) Get(c echo.Context) error {
	periodHours := 24
	if raw := c.QueryParam("period_hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid period_hours"})
		}
		periodHours = parsed
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.service.GetAnalytics(periodHours)))
}

// GET /api/v1/prefetch/analytics/events?n=50&type=used&card_id=abc
func (h *AnalyticsHandler) Events(c echo.Context) error {
	if cardID := c.QueryParam("card_id"); cardID != "" {
		return c.JSON(http.StatusOK, fres.Response.StatusOK(h.service.EventsByCard(cardID)))
	}
	if eventType := c.QueryParam("type"); eventType != "" {
		switch eventType {
		case domain.PrefetchStarted, domain.PrefetchCompleted, domain.PrefetchUsed, domain.PrefetchWasted:
		default:
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid event type"})
		}
		return c.JSON(http.StatusOK, fres.Response.StatusOK(h.service.EventsByType(eventType)))
	}

	n := 50
	if raw := c.QueryParam("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid n"})
		}
		n = parsed
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.service.RecentEvents(n)))
}

// GET /api/v1/prefetch/analytics/export
func (h *AnalyticsHandler) Export(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.service.ExportAnalytics()))
}

// DELETE /api/v1/prefetch/analytics
func (h *AnalyticsHandler) Clear(c echo.Context) error {
	h.service.ClearAnalytics(c.Request().Context())
	return c.JSON(http.StatusOK, fres.Response.StatusOK("analytics cleared"))
}
