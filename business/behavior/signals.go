package behavior

import (
	"time"

	"github.com/zachorg/SwipeCore-sub002/domain"
)

const (
	slowdownFactor       = 1.5
	trendChangeThreshold = 0.2
	sessionOverrunFactor = 1.5
	endSoonIdle          = 2 * time.Minute
	probabilityIdle      = 60 * time.Second

	baseNextCardProbability = 0.7
	baseSignalConfidence    = 0.5
)

// PredictiveSignals derives real-time inference about the current session.
// Nothing here is stored; every call recomputes from the tracker state.
func (t *Tracker) PredictiveSignals() domain.PredictiveSignals {
	now := t.now()

	t.mu.Lock()
	b := t.behavior
	s := t.session
	views := append([]float64(nil), s.RecentViewTimes...)
	t.mu.Unlock()

	elapsedMinutes := now.Sub(s.StartTime).Minutes()
	idle := now.Sub(s.LastInteractionTime)

	return domain.PredictiveSignals{
		IsSlowingDown:       isSlowingDown(views),
		LikelyToEndSoon:     likelyToEndSoon(idle, elapsedMinutes, b.SessionDuration),
		EngagementTrend:     engagementTrend(views),
		NextCardProbability: nextCardProbability(s.EngagementLevel, idle, elapsedMinutes, b.SessionDuration),
		ConfidenceLevel:     signalConfidence(b, s),
	}
}

// isSlowingDown compares the last three view durations against everything
// before them. Needs at least one earlier sample to compare with.
func isSlowingDown(views []float64) bool {
	if len(views) < 3 {
		return false
	}
	earlier := views[:len(views)-3]
	if len(earlier) == 0 {
		return false
	}
	recent := views[len(views)-3:]
	return mean(recent) > slowdownFactor*mean(earlier)
}

func likelyToEndSoon(idle time.Duration, elapsedMinutes, historicalDuration float64) bool {
	if idle > endSoonIdle {
		return true
	}
	return historicalDuration > 0 && elapsedMinutes > sessionOverrunFactor*historicalDuration
}

// engagementTrend compares the first two view durations in the window with
// the last two, using a 20% relative-change threshold.
func engagementTrend(views []float64) string {
	if len(views) < 4 {
		return domain.TrendStable
	}

	first := mean(views[:2])
	last := mean(views[len(views)-2:])
	if first == 0 {
		return domain.TrendStable
	}

	change := (last - first) / first
	switch {
	case change > trendChangeThreshold:
		return domain.TrendIncreasing
	case change < -trendChangeThreshold:
		return domain.TrendDecreasing
	default:
		return domain.TrendStable
	}
}

func nextCardProbability(engagement string, idle time.Duration, elapsedMinutes, historicalDuration float64) float64 {
	p := baseNextCardProbability

	switch engagement {
	case domain.EngagementHigh:
		p += 0.2
	case domain.EngagementLow:
		p -= 0.3
	}

	if historicalDuration > 0 && elapsedMinutes/historicalDuration > 0.8 {
		p -= 0.2
	}
	if idle > probabilityIdle {
		p -= 0.3
	}

	return clamp01(p)
}

// signalConfidence grows with accumulated data volume.
func signalConfidence(b domain.UserBehaviorMetrics, s domain.CurrentSessionMetrics) float64 {
	c := baseSignalConfidence

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

	return clamp01(c)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
