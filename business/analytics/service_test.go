package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zachorg/SwipeCore-sub002/domain"
	"github.com/zachorg/SwipeCore-sub002/internal/repository/memory"
)

func newTestService(store Store) *Service {
	return NewService(context.Background(), store, nil, DefaultConfig())
}

func event(eventType, cardID string, cost float64) domain.PrefetchEvent {
	return domain.PrefetchEvent{
		Type:   eventType,
		CardID: cardID,
		UserID: "user-1",
		Cost:   cost,
	}
}

func TestTrackEvent_FillsDefaults(t *testing.T) {
	s := newTestService(nil)
	ctx := context.Background()

	s.TrackEvent(ctx, event(domain.PrefetchStarted, "c1", 0))

	events := s.RecentEvents(1)
	require.Len(t, events, 1)
	assert.NotEmpty(t, events[0].ID)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestTrackEvent_RingEvictsOldest(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxEvents = 5
	s := NewService(context.Background(), nil, nil, cfg)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		s.TrackEvent(ctx, event(domain.PrefetchStarted, fmt.Sprintf("c%d", i), 0))
	}

	events := s.RecentEvents(0)
	require.Len(t, events, 5)
	assert.Equal(t, "c3", events[0].CardID)
	assert.Equal(t, "c7", events[4].CardID)
}

func TestGetAnalytics_ZeroDenominators(t *testing.T) {
	s := newTestService(nil)
	a := s.GetAnalytics(24)

	assert.Zero(t, a.HitRate)
	assert.Zero(t, a.WasteRate)
	assert.Zero(t, a.PredictionAccuracy)
	assert.Zero(t, a.FalsePositiveRate)
	assert.Zero(t, a.ReturnOnInvestment)
	assert.Zero(t, a.EventCount)
}

func TestGetAnalytics_Rates(t *testing.T) {
	s := newTestService(nil)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		s.TrackEvent(ctx, event(domain.PrefetchStarted, "c", 0))
		s.TrackEvent(ctx, event(domain.PrefetchCompleted, "c", 0.017))
	}
	s.TrackEvent(ctx, event(domain.PrefetchUsed, "c", 0))
	s.TrackEvent(ctx, event(domain.PrefetchUsed, "c", 0))
	s.TrackEvent(ctx, event(domain.PrefetchWasted, "c", 0))

	a := s.GetAnalytics(24)

	assert.InDelta(t, 50, a.HitRate, 1e-9)   // 2 used / 4 completed
	assert.InDelta(t, 25, a.WasteRate, 1e-9) // 1 wasted / 4 completed
	assert.InDelta(t, 100.0*2/3, a.PredictionAccuracy, 1e-9)
	assert.InDelta(t, 100.0/3, a.FalsePositiveRate, 1e-9)
	assert.InDelta(t, 4*0.017, a.TotalCost, 1e-9)

	// selective prefetch beats the always-prefetch baseline
	assert.InDelta(t, 4*0.024-4*0.017, a.CostSavings, 1e-9)
	assert.InDelta(t, 4*0.017, a.CostPerEngagedUser, 1e-9) // one distinct user
	assert.Equal(t, 11, a.EventCount)
}

func TestGetAnalytics_PeriodFiltersOldEvents(t *testing.T) {
	s := newTestService(nil)
	ctx := context.Background()

	old := event(domain.PrefetchCompleted, "old", 0.017)
	old.Timestamp = time.Now().Add(-48 * time.Hour)
	s.TrackEvent(ctx, old)
	s.TrackEvent(ctx, event(domain.PrefetchCompleted, "recent", 0.017))

	a := s.GetAnalytics(24)
	assert.Equal(t, 1, a.EventCount)
	assert.InDelta(t, 0.017, a.TotalCost, 1e-9)
}

func TestEngagementHistory(t *testing.T) {
	s := newTestService(nil)
	ctx := context.Background()

	// nothing resolved yet: no signal
	assert.Zero(t, s.EngagementHistory(24))

	s.TrackEvent(ctx, event(domain.PrefetchUsed, "c", 0))
	s.TrackEvent(ctx, event(domain.PrefetchUsed, "c", 0))
	s.TrackEvent(ctx, event(domain.PrefetchWasted, "c", 0))

	assert.InDelta(t, 2.0/3, s.EngagementHistory(24), 1e-9)
}

func TestEventFilters(t *testing.T) {
	s := newTestService(nil)
	ctx := context.Background()

	s.TrackEvent(ctx, event(domain.PrefetchStarted, "c1", 0))
	s.TrackEvent(ctx, event(domain.PrefetchCompleted, "c1", 0.017))
	s.TrackEvent(ctx, event(domain.PrefetchStarted, "c2", 0))

	assert.Len(t, s.EventsByType(domain.PrefetchStarted), 2)
	assert.Len(t, s.EventsByType(domain.PrefetchWasted), 0)
	assert.Len(t, s.EventsByCard("c1"), 2)
	assert.Len(t, s.EventsByCard("c3"), 0)
}

func TestPersistenceRoundTrip(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	s := newTestService(store)
	s.TrackEvent(ctx, event(domain.PrefetchStarted, "c1", 0))
	s.TrackEvent(ctx, event(domain.PrefetchCompleted, "c1", 0.017))

	reloaded := newTestService(store)
	assert.Len(t, reloaded.RecentEvents(0), 2)
}

func TestNewService_CorruptLogStartsEmpty(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, eventsStoreKey, "[{broken"))

	s := newTestService(store)
	assert.Empty(t, s.RecentEvents(0))
}

func TestClearAnalytics(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	s := newTestService(store)
	s.TrackEvent(ctx, event(domain.PrefetchStarted, "c1", 0))
	s.ClearAnalytics(ctx)

	assert.Empty(t, s.RecentEvents(0))

	_, ok, err := store.Get(ctx, eventsStoreKey)
	require.NoError(t, err)
	assert.False(t, ok)
}
