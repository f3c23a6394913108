package behavior

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/zachorg/SwipeCore-sub002/domain"
	"github.com/zachorg/SwipeCore-sub002/pkg/logger"
	"github.com/zachorg/SwipeCore-sub002/pkg/metrics"
)

// Notifications emitted to registered listeners.
const (
	EventCardViewed   = "card_viewed"
	EventSessionEnded = "session_ended"
)

type Listener func(event string)

type Config struct {
	// sliding window of recent view durations
	ViewTimeWindowSize int

	// mean recent view time thresholds, seconds
	HighEngagementViewTime   float64
	MediumEngagementViewTime float64

	// weight of the old value in the session-duration EMA
	SessionEMAWeight float64

	IdleSessionTimeout time.Duration
	IdleCheckInterval  time.Duration
}

func DefaultConfig() Config {
	return Config{
		ViewTimeWindowSize:       5,
		HighEngagementViewTime:   10,
		MediumEngagementViewTime: 5,
		SessionEMAWeight:         0.9,
		IdleSessionTimeout:       30 * time.Minute,
		IdleCheckInterval:        60 * time.Second,
	}
}

// Tracker owns both the long-term behavior metrics and the current session
// for one user. All methods are safe for concurrent use; the idle-timeout
// sweep and UI-triggered calls serialize on the same mutex.
type Tracker struct {
	mu        sync.Mutex
	behavior  domain.UserBehaviorMetrics
	session   domain.CurrentSessionMetrics
	listeners []Listener

	userID string
	store  Store
	cfg    Config
	now    func() time.Time
}

// NewTracker loads persisted behavior metrics for the user (falling back
// to defaults when missing or unreadable) and opens a fresh session.
func NewTracker(ctx context.Context, userID string, store Store, cfg Config) *Tracker {
	t := &Tracker{
		userID: userID,
		store:  store,
		cfg:    cfg,
		now:    time.Now,
	}
	t.behavior = t.loadBehavior(ctx)
	t.session = t.freshSession(t.now())
	return t
}

func behaviorKey(userID string) string {
	return fmt.Sprintf("prefetch:behavior:%s", userID)
}

// loadBehavior never fails: corrupt or missing state yields defaults.
func (t *Tracker) loadBehavior(ctx context.Context) domain.UserBehaviorMetrics {
	if t.store == nil {
		return domain.DefaultBehaviorMetrics()
	}

	raw, ok, err := t.store.Get(ctx, behaviorKey(t.userID))
	if err != nil {
		logger.Warn("behavior load failed, using defaults", "user_id", t.userID, "error", err)
		metrics.PersistenceFailures.WithLabelValues("behavior", "get").Inc()
		return domain.DefaultBehaviorMetrics()
	}
	if !ok {
		return domain.DefaultBehaviorMetrics()
	}

	var m domain.UserBehaviorMetrics
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		logger.Warn("behavior state corrupt, discarding", "user_id", t.userID, "error", err)
		metrics.PersistenceFailures.WithLabelValues("behavior", "decode").Inc()
		return domain.DefaultBehaviorMetrics()
	}
	if m.TimeOfDayPatterns == nil {
		m.TimeOfDayPatterns = make(map[int]int)
	}
	return m
}

// persistBehavior is best-effort: failures are logged and counted, the
// in-memory state stays authoritative.
func (t *Tracker) persistBehavior(ctx context.Context, m domain.UserBehaviorMetrics) {
	if t.store == nil {
		return
	}

	raw, err := json.Marshal(m)
	if err != nil {
		logger.Error("behavior marshal failed", "user_id", t.userID, "error", err)
		metrics.PersistenceFailures.WithLabelValues("behavior", "encode").Inc()
		return
	}
	if err := t.store.Set(ctx, behaviorKey(t.userID), string(raw)); err != nil {
		logger.Warn("behavior persist failed", "user_id", t.userID, "error", err)
		metrics.PersistenceFailures.WithLabelValues("behavior", "set").Inc()
	}
}

func (t *Tracker) freshSession(now time.Time) domain.CurrentSessionMetrics {
	return domain.CurrentSessionMetrics{
		StartTime:           now,
		RecentViewTimes:     make([]float64, 0, t.cfg.ViewTimeWindowSize),
		EngagementLevel:     domain.EngagementLow,
		LastInteractionTime: now,
	}
}

// AddListener registers a notification callback. Listeners are invoked
// synchronously after the tracker mutation completes, outside the lock.
func (t *Tracker) AddListener(l Listener) {
	t.mu.Lock()
	t.listeners = append(t.listeners, l)
	t.mu.Unlock()
}

func (t *Tracker) notify(event string) {
	t.mu.Lock()
	ls := make([]Listener, len(t.listeners))
	copy(ls, t.listeners)
	t.mu.Unlock()

	for _, l := range ls {
		l(event)
	}
}

// TrackCardView records that the user viewed a card for the given number
// of seconds.
func (t *Tracker) TrackCardView(ctx context.Context, card domain.CandidateCard, viewDurationSeconds float64) {
	now := t.now()

	t.mu.Lock()
	s := &t.session
	s.CardsViewed++

	s.RecentViewTimes = append(s.RecentViewTimes, viewDurationSeconds)
	if len(s.RecentViewTimes) > t.cfg.ViewTimeWindowSize {
		s.RecentViewTimes = s.RecentViewTimes[1:]
	}

	if elapsed := now.Sub(s.StartTime).Minutes(); elapsed > 0 {
		s.CurrentSwipeSpeed = float64(s.CardsViewed) / elapsed
	}

	s.EngagementLevel = t.engagementLevel(mean(s.RecentViewTimes))
	s.LastInteractionTime = now

	// fold into the long-term view-time average; TotalCardsViewed itself
	// advances on the swipe, not the view
	n := float64(t.behavior.TotalCardsViewed)
	t.behavior.AverageViewTime = (t.behavior.AverageViewTime*n + viewDurationSeconds) / (n + 1)
	t.mu.Unlock()

	logger.Debug("card_viewed",
		"user_id", t.userID,
		"card_id", card.ID,
		"view_seconds", viewDurationSeconds,
	)

	t.notify(EventCardViewed)
}

func (t *Tracker) engagementLevel(meanViewTime float64) string {
	switch {
	case meanViewTime > t.cfg.HighEngagementViewTime:
		return domain.EngagementHigh
	case meanViewTime > t.cfg.MediumEngagementViewTime:
		return domain.EngagementMedium
	default:
		return domain.EngagementLow
	}
}

// TrackSwipeAction updates the running like/pass ratios with an
// incremental weighted average and advances the total card count.
func (t *Tracker) TrackSwipeAction(ctx context.Context, action string) {
	now := t.now()

	t.mu.Lock()
	b := &t.behavior
	n := float64(b.TotalCardsViewed)

	likeInd, passInd := 0.0, 0.0
	switch action {
	case domain.SwipeLike:
		likeInd = 1
	case domain.SwipePass:
		passInd = 1
	}

	b.SwipeRatio.Like = (b.SwipeRatio.Like*n + likeInd) / (n + 1)
	b.SwipeRatio.Pass = (b.SwipeRatio.Pass*n + passInd) / (n + 1)
	b.TotalCardsViewed++
	b.LastUpdated = now

	t.session.LastInteractionTime = now
	t.mu.Unlock()
}

// TrackDetailView updates the rate of cards whose detail page was opened.
func (t *Tracker) TrackDetailView(ctx context.Context, opened bool) {
	now := t.now()

	t.mu.Lock()
	b := &t.behavior
	n := float64(b.TotalCardsViewed)
	b.DetailViewRate = (b.DetailViewRate*n + indicator(opened)) / (n + 1)
	b.LastUpdated = now
	t.session.LastInteractionTime = now
	t.mu.Unlock()
}

// TrackPhotoInteraction updates the rate of cards whose photos were swiped.
func (t *Tracker) TrackPhotoInteraction(ctx context.Context, interacted bool) {
	now := t.now()

	t.mu.Lock()
	b := &t.behavior
	n := float64(b.TotalCardsViewed)
	b.PhotoInteractionRate = (b.PhotoInteractionRate*n + indicator(interacted)) / (n + 1)
	b.LastUpdated = now
	t.session.LastInteractionTime = now
	t.mu.Unlock()
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// EndSession folds the finished session into the historical aggregates,
// persists them and opens a fresh session.
func (t *Tracker) EndSession(ctx context.Context) {
	now := t.now()

	t.mu.Lock()
	b := &t.behavior
	s := t.session

	sessionMinutes := now.Sub(s.StartTime).Minutes()

	if b.SessionDuration == 0 {
		b.SessionDuration = sessionMinutes
	} else {
		w := t.cfg.SessionEMAWeight
		b.SessionDuration = b.SessionDuration*w + sessionMinutes*(1-w)
	}

	ns := float64(b.TotalSessions)
	b.CardsPerSession = (b.CardsPerSession*ns + float64(s.CardsViewed)) / (ns + 1)
	b.AverageSwipeSpeed = (b.AverageSwipeSpeed*ns + s.CurrentSwipeSpeed) / (ns + 1)

	b.TimeOfDayPatterns[now.Hour()]++
	b.TotalSessions++
	b.LastUpdated = now

	snapshot := *b
	t.session = t.freshSession(now)
	t.mu.Unlock()

	t.persistBehavior(ctx, snapshot)

	logger.Info("session_ended",
		"user_id", t.userID,
		"session_minutes", sessionMinutes,
		"cards_viewed", s.CardsViewed,
		"total_sessions", snapshot.TotalSessions,
	)

	t.notify(EventSessionEnded)
}

// CheckIdleTimeout ends the session when the user has been idle past the
// configured timeout. Called from the registry's recurring sweep.
func (t *Tracker) CheckIdleTimeout(ctx context.Context) bool {
	now := t.now()

	t.mu.Lock()
	s := t.session
	idle := now.Sub(s.LastInteractionTime)
	active := s.CardsViewed > 0 || s.LastInteractionTime.After(s.StartTime)
	t.mu.Unlock()

	if !active || idle <= t.cfg.IdleSessionTimeout {
		return false
	}

	logger.Debug("session idle timeout", "user_id", t.userID, "idle", idle.String())
	t.EndSession(ctx)
	return true
}

// Behavior returns a copy of the long-term metrics.
func (t *Tracker) Behavior() domain.UserBehaviorMetrics {
	t.mu.Lock()
	defer t.mu.Unlock()
	b := t.behavior
	patterns := make(map[int]int, len(b.TimeOfDayPatterns))
	for h, c := range b.TimeOfDayPatterns {
		patterns[h] = c
	}
	b.TimeOfDayPatterns = patterns
	return b
}

// Session returns a copy of the current session metrics.
func (t *Tracker) Session() domain.CurrentSessionMetrics {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.session
	s.RecentViewTimes = append([]float64(nil), s.RecentViewTimes...)
	return s
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
