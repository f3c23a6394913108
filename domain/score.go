package domain

import "time"

// CardScore is the scoring result for one candidate at one moment.
// Factors carries the per-factor breakdown for explainability surfaces.
type CardScore struct {
	CardID                string             `json:"card_id"`
	PositionScore         float64            `json:"position_score"`
	ContentRelevanceScore float64            `json:"content_relevance_score"`
	RatingScore           float64            `json:"rating_score"`
	PopularityScore       float64            `json:"popularity_score"`
	UserPatternScore      float64            `json:"user_pattern_score"`
	TimeContextScore      float64            `json:"time_context_score"`
	SessionContextScore   float64            `json:"session_context_score"`
	EngagementPrediction  float64            `json:"engagement_prediction"`
	BaseScore             float64            `json:"base_score"`
	FinalScore            float64            `json:"final_score"` // [0, 100]
	Confidence            float64            `json:"confidence"`  // [0.1, 1]
	CalculatedAt          time.Time          `json:"calculated_at"`
	Factors               map[string]float64 `json:"factors"`
}
