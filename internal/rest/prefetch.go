package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/zachorg/SwipeCore-sub002/business/prefetch"
	"github.com/zachorg/SwipeCore-sub002/business/scoring"
	"github.com/zachorg/SwipeCore-sub002/domain"
	"github.com/zachorg/SwipeCore-sub002/pkg/metrics"
)

const tuningProfile = "default"

type (
	// EventRecorder is the analytics side the fetch executor reports into.
	EventRecorder interface {
		TrackEvent(ctx context.Context, event domain.PrefetchEvent)
		EngagementHistory(periodHours int) float64
	}

	// TuningRepository supplies persisted engine tuning overrides.
	// A missing row or a read error falls back to compiled-in defaults.
	TuningRepository interface {
		GetTuning(ctx context.Context, profile string) (domain.EngineTuning, bool, error)
	}

	PrefetchHandler struct {
		validate   *validator.Validate
		trackers   TrackerProvider
		analytics  EventRecorder
		tuningRepo TuningRepository
	}

	CandidateItem struct {
		Card     domain.CandidateCard `json:"card"`
		Position int                  `json:"position" validate:"gte=1"`
	}

	ScoreRequest struct {
		Candidates  []CandidateItem         `json:"candidates" validate:"required,min=1,dive"`
		Preferences *domain.UserPreferences `json:"preferences,omitempty"`
	}

	OptimizeRequest struct {
		Candidates  []CandidateItem         `json:"candidates" validate:"required,min=1,dive"`
		Preferences *domain.UserPreferences `json:"preferences,omitempty"`
		Budget      domain.BudgetStatus     `json:"budget"`
	}

	EventItem struct {
		Type      string     `json:"type" validate:"required,oneof=started completed used wasted"`
		CardID    string     `json:"card_id" validate:"required"`
		Cost      float64    `json:"cost" validate:"gte=0"`
		Timestamp *time.Time `json:"timestamp,omitempty"`
	}

	EventsRequest struct {
		Events []EventItem `json:"events" validate:"required,min=1,dive"`
	}
)

func NewPrefetchHandler(trackers TrackerProvider, analytics EventRecorder, tuningRepo TuningRepository) *PrefetchHandler {
	return &PrefetchHandler{
		validate:   validator.New(),
		trackers:   trackers,
		analytics:  analytics,
		tuningRepo: tuningRepo,
	}
}

// loadConfigs reads tuning overrides per request, falling back to the
// compiled-in defaults when none are stored.
func (h *PrefetchHandler) loadConfigs(ctx context.Context) (scoring.Config, prefetch.Config) {
	if h.tuningRepo == nil {
		return scoring.DefaultConfig(), prefetch.DefaultConfig()
	}

	tuning, ok, err := h.tuningRepo.GetTuning(ctx, tuningProfile)
	if err != nil || !ok {
		return scoring.DefaultConfig(), prefetch.DefaultConfig()
	}

	return scoring.ConfigFromTuning(tuning), prefetch.ConfigFromTuning(tuning)
}

// Score returns full CardScores with factor breakdowns, the
// explainability surface for UI debugging.
func (h *PrefetchHandler) Score(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req ScoreRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx := c.Request().Context()
	tracker := h.trackers.ForUser(ctx, userID)
	behaviorSnap := tracker.Behavior()
	sessionSnap := tracker.Session()

	scoringCfg, _ := h.loadConfigs(ctx)
	engine := scoring.NewEngine(scoringCfg)

	scores := make([]domain.CardScore, 0, len(req.Candidates))
	for _, cand := range req.Candidates {
		scores = append(scores, engine.CalculateCardScore(cand.Card, cand.Position, behaviorSnap, sessionSnap, req.Preferences))
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(scores))
}

// Optimize runs the full pipeline: score the batch, then select the
// subset worth prefetching within the supplied budget.
func (h *PrefetchHandler) Optimize(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.PrefetchOptimizeLatency.Observe(time.Since(start).Seconds())
	}()
	metrics.PrefetchOptimizeRequests.Inc()

	userID, ok := userIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req OptimizeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx := c.Request().Context()
	tracker := h.trackers.ForUser(ctx, userID)
	behaviorSnap := tracker.Behavior()
	sessionSnap := tracker.Session()

	scoringCfg, prefetchCfg := h.loadConfigs(ctx)
	engine := scoring.NewEngine(scoringCfg)
	optimizer := prefetch.NewOptimizer(prefetchCfg)

	scored := make([]prefetch.ScoredCandidate, 0, len(req.Candidates))
	for _, cand := range req.Candidates {
		scored = append(scored, prefetch.ScoredCandidate{
			Card:     cand.Card,
			Score:    engine.CalculateCardScore(cand.Card, cand.Position, behaviorSnap, sessionSnap, req.Preferences),
			Position: cand.Position,
		})
	}

	engagementHistory := h.analytics.EngagementHistory(24)
	selected := optimizer.OptimizePrefetchQueue(scored, req.Budget, engagementHistory)

	return c.JSON(http.StatusOK, fres.Response.StatusOK(selected))
}

// ReportEvents ingests outcome events from the fetch executor.
func (h *PrefetchHandler) ReportEvents(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req EventsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx := c.Request().Context()
	for _, item := range req.Events {
		event := domain.PrefetchEvent{
			UserID: userID,
			Type:   item.Type,
			CardID: item.CardID,
			Cost:   item.Cost,
		}
		if item.Timestamp != nil {
			event.Timestamp = *item.Timestamp
		}
		h.analytics.TrackEvent(ctx, event)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated("events recorded"))
}
