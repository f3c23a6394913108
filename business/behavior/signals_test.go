package behavior

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/zachorg/SwipeCore-sub002/domain"
)

func TestIsSlowingDown(t *testing.T) {
	cases := []struct {
		name  string
		views []float64
		want  bool
	}{
		{"too few samples", []float64{2, 3}, false},
		{"no earlier baseline", []float64{2, 3, 4}, false},
		{"steady pace", []float64{4, 4, 4, 4}, false},
		{"recent views much longer", []float64{2, 8, 8, 8}, true},
		{"speeding up", []float64{10, 2, 2, 2}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isSlowingDown(tc.views))
		})
	}
}

func TestEngagementTrend(t *testing.T) {
	cases := []struct {
		name  string
		views []float64
		want  string
	}{
		{"too few samples", []float64{1, 2, 3}, domain.TrendStable},
		{"zero baseline", []float64{0, 0, 5, 5}, domain.TrendStable},
		{"rising", []float64{2, 2, 4, 4}, domain.TrendIncreasing},
		{"falling", []float64{6, 6, 2, 2}, domain.TrendDecreasing},
		{"small change", []float64{5, 5, 5.5, 5.5}, domain.TrendStable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, engagementTrend(tc.views))
		})
	}
}

func TestNextCardProbabilityClamped(t *testing.T) {
	// every penalty at once still floors at 0
	p := nextCardProbability(domain.EngagementLow, 2*time.Minute, 10, 5)
	assert.GreaterOrEqual(t, p, 0.0)
	assert.LessOrEqual(t, p, 1.0)

	// high engagement, fresh interaction, plenty of session left
	p = nextCardProbability(domain.EngagementHigh, 0, 1, 30)
	assert.InDelta(t, 0.9, p, 1e-9)
}

func TestSignalConfidenceGrowsWithData(t *testing.T) {
	fresh := signalConfidence(domain.UserBehaviorMetrics{}, domain.CurrentSessionMetrics{})
	assert.InDelta(t, 0.5, fresh, 1e-9)

	seasoned := signalConfidence(
		domain.UserBehaviorMetrics{TotalSessions: 60, TotalCardsViewed: 600},
		domain.CurrentSessionMetrics{CardsViewed: 10, RecentViewTimes: []float64{5, 5, 5, 5, 5}},
	)
	assert.InDelta(t, 1.0, seasoned, 1e-9)
	assert.Greater(t, seasoned, fresh)
}

func TestPredictiveSignals_FreshSession(t *testing.T) {
	tr, _ := newTestTracker(t, nil)

	sig := tr.PredictiveSignals()
	assert.False(t, sig.IsSlowingDown)
	assert.False(t, sig.LikelyToEndSoon)
	assert.Equal(t, domain.TrendStable, sig.EngagementTrend)
	assert.InDelta(t, 0.4, sig.NextCardProbability, 1e-9)
	assert.InDelta(t, 0.5, sig.ConfidenceLevel, 1e-9)
}

func TestPredictiveSignals_IdleUserLikelyToEnd(t *testing.T) {
	tr, clock := newTestTracker(t, nil)
	ctx := context.Background()

	tr.TrackCardView(ctx, card("c1"), 5)
	*clock = clock.Add(3 * time.Minute)

	sig := tr.PredictiveSignals()
	assert.True(t, sig.LikelyToEndSoon)
	assert.Less(t, sig.NextCardProbability, 0.5)
}
