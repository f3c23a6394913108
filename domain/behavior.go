package domain

import "time"

// Swipe actions reported by the gesture layer.
const (
	SwipeLike = "like"
	SwipePass = "pass"
)

// Engagement levels derived from recent view durations.
const (
	EngagementLow    = "low"
	EngagementMedium = "medium"
	EngagementHigh   = "high"
)

// Engagement trend over the current session.
const (
	TrendIncreasing = "increasing"
	TrendStable     = "stable"
	TrendDecreasing = "decreasing"
)

// SwipeRatio is a weighted running average of like vs pass actions.
// Like + Pass stays within [0, 1] combined.
type SwipeRatio struct {
	Like float64 `json:"like"`
	Pass float64 `json:"pass"`
}

// UserBehaviorMetrics is the long-lived, cross-session behavior aggregate
// for one user. It is owned exclusively by the behavior tracker and
// persisted as opaque JSON in the key-value store.
type UserBehaviorMetrics struct {
	AverageSwipeSpeed    float64     `json:"average_swipe_speed"` // cards per minute
	AverageViewTime      float64     `json:"average_view_time"`   // seconds
	SwipeRatio           SwipeRatio  `json:"swipe_ratio"`
	SessionDuration      float64     `json:"session_duration"`  // minutes, EMA
	CardsPerSession      float64     `json:"cards_per_session"` // running average
	TimeOfDayPatterns    map[int]int `json:"time_of_day_patterns"`
	DetailViewRate       float64     `json:"detail_view_rate"`
	PhotoInteractionRate float64     `json:"photo_interaction_rate"`
	TotalSessions        int         `json:"total_sessions"`
	TotalCardsViewed     int         `json:"total_cards_viewed"`
	LastUpdated          time.Time   `json:"last_updated"`
}

// DefaultBehaviorMetrics is the fallback when no state is persisted or the
// persisted blob is unreadable.
func DefaultBehaviorMetrics() UserBehaviorMetrics {
	return UserBehaviorMetrics{
		TimeOfDayPatterns: make(map[int]int),
		LastUpdated:       time.Now(),
	}
}

// CurrentSessionMetrics is the ephemeral state of the active browsing
// session. It is reset on session end and never persisted.
type CurrentSessionMetrics struct {
	StartTime           time.Time `json:"start_time"`
	CardsViewed         int       `json:"cards_viewed"`
	CurrentSwipeSpeed   float64   `json:"current_swipe_speed"` // cards per minute
	RecentViewTimes     []float64 `json:"recent_view_times"`   // seconds, max 5
	EngagementLevel     string    `json:"engagement_level"`
	LastInteractionTime time.Time `json:"last_interaction_time"`
}

// PredictiveSignals are derived on demand from behavior and session state,
// never stored.
type PredictiveSignals struct {
	IsSlowingDown       bool    `json:"is_slowing_down"`
	LikelyToEndSoon     bool    `json:"likely_to_end_soon"`
	EngagementTrend     string  `json:"engagement_trend"`
	NextCardProbability float64 `json:"next_card_probability"` // [0, 1]
	ConfidenceLevel     float64 `json:"confidence_level"`      // [0, 1]
}
