package behavior

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zachorg/SwipeCore-sub002/domain"
	"github.com/zachorg/SwipeCore-sub002/internal/repository/memory"
)

func newTestTracker(t *testing.T, store Store) (*Tracker, *time.Time) {
	t.Helper()

	clock := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(context.Background(), "user-1", store, DefaultConfig())
	tr.now = func() time.Time { return clock }
	// reopen the session on the fake clock
	tr.session = tr.freshSession(clock)
	return tr, &clock
}

func card(id string) domain.CandidateCard {
	return domain.CandidateCard{ID: id, Title: "Testaurant"}
}

func TestTrackCardView_WindowBounded(t *testing.T) {
	tr, _ := newTestTracker(t, nil)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		tr.TrackCardView(ctx, card("c1"), float64(i+1))
	}

	s := tr.Session()
	require.Len(t, s.RecentViewTimes, 5)
	// oldest sample evicted
	assert.Equal(t, []float64{2, 3, 4, 5, 6}, s.RecentViewTimes)
	assert.Equal(t, 6, s.CardsViewed)
}

func TestTrackCardView_EngagementLevels(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name  string
		views []float64
		want  string
	}{
		{"short views stay low", []float64{1, 2, 1}, domain.EngagementLow},
		{"medium views", []float64{6, 7, 6}, domain.EngagementMedium},
		{"long views", []float64{12, 15, 11}, domain.EngagementHigh},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr, _ := newTestTracker(t, nil)
			for _, v := range tc.views {
				tr.TrackCardView(ctx, card("c1"), v)
			}
			assert.Equal(t, tc.want, tr.Session().EngagementLevel)
		})
	}
}

func TestTrackSwipeAction_FirstLikeIsExact(t *testing.T) {
	tr, _ := newTestTracker(t, nil)
	ctx := context.Background()

	tr.TrackSwipeAction(ctx, domain.SwipeLike)

	b := tr.Behavior()
	assert.Equal(t, 1.0, b.SwipeRatio.Like)
	assert.Equal(t, 0.0, b.SwipeRatio.Pass)
	assert.Equal(t, 1, b.TotalCardsViewed)

	tr.TrackSwipeAction(ctx, domain.SwipePass)

	b = tr.Behavior()
	assert.InDelta(t, 0.5, b.SwipeRatio.Like, 1e-9)
	assert.InDelta(t, 0.5, b.SwipeRatio.Pass, 1e-9)
	assert.Equal(t, 2, b.TotalCardsViewed)
}

func TestTrackDetailAndPhotoRates(t *testing.T) {
	tr, _ := newTestTracker(t, nil)
	ctx := context.Background()

	tr.TrackSwipeAction(ctx, domain.SwipeLike)
	tr.TrackDetailView(ctx, true)
	tr.TrackPhotoInteraction(ctx, false)

	b := tr.Behavior()
	// n=1 at both updates: (0*1+1)/2 and (0*1+0)/2
	assert.InDelta(t, 0.5, b.DetailViewRate, 1e-9)
	assert.InDelta(t, 0.0, b.PhotoInteractionRate, 1e-9)
}

func TestTrackCardView_DoesNotAdvanceTotal(t *testing.T) {
	tr, _ := newTestTracker(t, nil)
	ctx := context.Background()

	tr.TrackCardView(ctx, card("c1"), 4)
	tr.TrackCardView(ctx, card("c2"), 8)

	b := tr.Behavior()
	assert.Equal(t, 0, b.TotalCardsViewed)
	assert.InDelta(t, 6, b.AverageViewTime, 1e-9)
}

func TestEndSession_FoldsAggregates(t *testing.T) {
	store := memory.NewStore()
	tr, clock := newTestTracker(t, store)
	ctx := context.Background()

	tr.TrackCardView(ctx, card("c1"), 5)
	*clock = clock.Add(10 * time.Minute)
	tr.EndSession(ctx)

	b := tr.Behavior()
	assert.Equal(t, 1, b.TotalSessions)
	// first session seeds the duration directly
	assert.InDelta(t, 10, b.SessionDuration, 1e-9)
	assert.InDelta(t, 1, b.CardsPerSession, 1e-9)
	assert.Equal(t, 1, b.TimeOfDayPatterns[clock.Hour()])

	// second session blends with the 0.9 EMA weight
	*clock = clock.Add(20 * time.Minute)
	tr.EndSession(ctx)

	b = tr.Behavior()
	assert.Equal(t, 2, b.TotalSessions)
	assert.InDelta(t, 10*0.9+20*0.1, b.SessionDuration, 1e-9)

	// session state reset
	s := tr.Session()
	assert.Equal(t, 0, s.CardsViewed)
	assert.Empty(t, s.RecentViewTimes)
	assert.Equal(t, domain.EngagementLow, s.EngagementLevel)
}

func TestEndSession_PersistsAndReloads(t *testing.T) {
	store := memory.NewStore()
	tr, clock := newTestTracker(t, store)
	ctx := context.Background()

	tr.TrackSwipeAction(ctx, domain.SwipeLike)
	*clock = clock.Add(5 * time.Minute)
	tr.EndSession(ctx)

	reloaded := NewTracker(ctx, "user-1", store, DefaultConfig())
	b := reloaded.Behavior()
	assert.Equal(t, 1, b.TotalSessions)
	assert.Equal(t, 1, b.TotalCardsViewed)
	assert.Equal(t, 1.0, b.SwipeRatio.Like)
}

func TestNewTracker_CorruptStateFallsBackToDefaults(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, behaviorKey("user-1"), "{not json"))

	tr := NewTracker(ctx, "user-1", store, DefaultConfig())
	b := tr.Behavior()
	assert.Equal(t, 0, b.TotalSessions)
	assert.Equal(t, 0, b.TotalCardsViewed)
	assert.NotNil(t, b.TimeOfDayPatterns)
}

func TestCheckIdleTimeout(t *testing.T) {
	tr, clock := newTestTracker(t, nil)
	ctx := context.Background()

	// a session with no interactions never times out
	*clock = clock.Add(31 * time.Minute)
	assert.False(t, tr.CheckIdleTimeout(ctx))

	tr.TrackCardView(ctx, card("c1"), 5)

	// under the threshold, nothing happens
	*clock = clock.Add(29 * time.Minute)
	assert.False(t, tr.CheckIdleTimeout(ctx))
	assert.Equal(t, 0, tr.Behavior().TotalSessions)

	// past 30 minutes idle the session ends
	*clock = clock.Add(2 * time.Minute)
	assert.True(t, tr.CheckIdleTimeout(ctx))
	assert.Equal(t, 1, tr.Behavior().TotalSessions)
	assert.Equal(t, 0, tr.Session().CardsViewed)
}

func TestListenersNotified(t *testing.T) {
	tr, _ := newTestTracker(t, nil)
	ctx := context.Background()

	var got []string
	tr.AddListener(func(event string) { got = append(got, event) })

	tr.TrackCardView(ctx, card("c1"), 5)
	tr.EndSession(ctx)

	assert.Equal(t, []string{EventCardViewed, EventSessionEnded}, got)
}
