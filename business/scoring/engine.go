package scoring

import (
	"time"

	"github.com/zachorg/SwipeCore-sub002/domain"
)

// Engine is the stateless heuristic scorer. Every score is a deterministic
// closed-form function of its inputs; the engine holds only configuration.
type Engine struct {
	cfg Config
	now func() time.Time
}

func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg: cfg,
		now: time.Now,
	}
}

// CalculateCardScore scores one candidate at one moment. position is
// 1-based distance from the user's current card; prefs may be nil.
func (e *Engine) CalculateCardScore(
	card domain.CandidateCard,
	position int,
	behavior domain.UserBehaviorMetrics,
	session domain.CurrentSessionMetrics,
	prefs *domain.UserPreferences,
) domain.CardScore {
	now := e.now()

	pos := positionScore(position, e.cfg.PositionDecay)
	content := contentRelevanceScore(card, prefs)
	pattern := userPatternScore(card, behavior, now, e.cfg)
	sessionCtx := sessionContextScore(session)
	timeCtx := timeContextScore(card, now)
	rating := ratingScore(card)
	popularity := popularityScore(card)
	engagement := engagementPredictionScore(card, behavior, session)

	w := e.cfg.Weights
	base := w.Position*pos +
		w.Content*content +
		w.Behavior*pattern +
		w.Session*sessionCtx +
		w.Time*timeCtx

	final := e.adjustForContext(base, card, session, now)

	return domain.CardScore{
		CardID:                card.ID,
		PositionScore:         pos,
		ContentRelevanceScore: content,
		RatingScore:           rating,
		PopularityScore:       popularity,
		UserPatternScore:      pattern,
		TimeContextScore:      timeCtx,
		SessionContextScore:   sessionCtx,
		EngagementPrediction:  engagement,
		BaseScore:             base,
		FinalScore:            final,
		Confidence:            e.confidence(position, behavior, session),
		CalculatedAt:          now,
		Factors: map[string]float64{
			"position":          pos,
			"content_relevance": content,
			"user_pattern":      pattern,
			"session_context":   sessionCtx,
			"time_context":      timeCtx,
			"rating":            rating,
			"popularity":        popularity,
			"engagement":        engagement,
		},
	}
}

// adjustForContext multiplies the base score for exceptional quality,
// session fatigue and hot streaks, then re-clamps.
func (e *Engine) adjustForContext(base float64, card domain.CandidateCard, s domain.CurrentSessionMetrics, now time.Time) float64 {
	adjusted := base

	if card.Rating >= e.cfg.QualityBoostRating {
		adjusted *= e.cfg.QualityBoostFactor
	}

	elapsed := now.Sub(s.StartTime).Minutes()
	if elapsed > e.cfg.FatigueMinutes && s.EngagementLevel == domain.EngagementLow {
		adjusted *= e.cfg.FatigueFactor
	}

	if s.EngagementLevel == domain.EngagementHigh && base > e.cfg.HotStreakMinBase {
		adjusted *= e.cfg.HotStreakFactor
	}

	return clampScore(adjusted)
}

// confidence combines data-volume and position-proximity heuristics.
func (e *Engine) confidence(position int, b domain.UserBehaviorMetrics, s domain.CurrentSessionMetrics) float64 {
	c := 0.5

	if b.TotalSessions > 10 {
		c += 0.15
	}
	if b.TotalSessions > 50 {
		c += 0.15
	}
	if b.TotalCardsViewed > 500 {
		c += 0.1
	}
	if s.CardsViewed > 5 {
		c += 0.1
	}
	if len(s.RecentViewTimes) >= 5 {
		c += 0.1
	}

	if position <= 2 {
		c += 0.1
	} else if position > 5 {
		c -= 0.1
	}

	switch s.EngagementLevel {
	case domain.EngagementHigh:
		c += 0.1
	case domain.EngagementLow:
		c -= 0.1
	}

	return clampConfidence(c)
}
