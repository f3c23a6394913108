package rest

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/zachorg/SwipeCore-sub002/domain"
)

type (
	TuningAdminRepository interface {
		GetTuning(ctx context.Context, profile string) (domain.EngineTuning, bool, error)
		UpsertTuning(ctx context.Context, tuning domain.EngineTuning) error
	}

	EngineAdminHandler struct {
		tuningRepo TuningAdminRepository
	}
)

func NewEngineAdminHandler(tuningRepo TuningAdminRepository) *EngineAdminHandler {
	return &EngineAdminHandler{tuningRepo: tuningRepo}
}

// GET /api/v1/admin/prefetch/config?profile=default
func (h *EngineAdminHandler) GetConfig(c echo.Context) error {
	ctx := c.Request().Context()

	profile := c.QueryParam("profile")
	if profile == "" {
		profile = tuningProfile
	}

	tuning, ok, err := h.tuningRepo.GetTuning(ctx, profile)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "config not found",
		})
	}

	return c.JSON(http.StatusOK, tuning)
}

// PUT /api/v1/admin/prefetch/config
// body: EngineTuning JSON
func (h *EngineAdminHandler) UpsertConfig(c echo.Context) error {
	ctx := c.Request().Context()

	var body domain.EngineTuning
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid body: " + err.Error(),
		})
	}
	if body.Profile == "" {
		body.Profile = tuningProfile
	}

	if err := h.tuningRepo.UpsertTuning(ctx, body); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
	})
}
