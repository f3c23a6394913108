package analytics

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zachorg/SwipeCore-sub002/domain"
	"github.com/zachorg/SwipeCore-sub002/pkg/logger"
	"github.com/zachorg/SwipeCore-sub002/pkg/metrics"
)

const eventsStoreKey = "prefetch:events"

// Store is the opaque key/string persistence abstraction mirroring the
// in-memory event ring.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
}

// ArchiveRepository is the optional append-only durable archive for
// events beyond the bounded ring (backed by Postgres in production).
type ArchiveRepository interface {
	SaveEvent(ctx context.Context, event domain.PrefetchEvent) error
}

type Config struct {
	// ring buffer size; oldest events drop on overflow
	MaxEvents int

	// full details+photos cost assumed for the naive always-prefetch
	// baseline when computing cost savings
	BaselineCostPerCard float64

	// dollar value attributed to a prefetch the user actually reached
	ValuePerUsedPrefetch float64
}

func DefaultConfig() Config {
	return Config{
		MaxEvents:            1000,
		BaselineCostPerCard:  0.024,
		ValuePerUsedPrefetch: 0.10,
	}
}

// Service keeps the bounded prefetch outcome log and computes rolling
// aggregates from it. One instance serves all users of the process.
type Service struct {
	mu     sync.Mutex
	events []domain.PrefetchEvent

	store   Store
	archive ArchiveRepository
	cfg     Config
	now     func() time.Time
}

// NewService loads the persisted event log (discarding it when
// unreadable) and is ready to record outcomes.
func NewService(ctx context.Context, store Store, archive ArchiveRepository, cfg Config) *Service {
	s := &Service{
		store:   store,
		archive: archive,
		cfg:     cfg,
		now:     time.Now,
	}
	s.events = s.loadEvents(ctx)
	return s
}

func (s *Service) loadEvents(ctx context.Context) []domain.PrefetchEvent {
	if s.store == nil {
		return nil
	}

	raw, ok, err := s.store.Get(ctx, eventsStoreKey)
	if err != nil {
		logger.Warn("event log load failed, starting empty", "error", err)
		metrics.PersistenceFailures.WithLabelValues("analytics", "get").Inc()
		return nil
	}
	if !ok {
		return nil
	}

	var events []domain.PrefetchEvent
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		logger.Warn("event log corrupt, discarding", "error", err)
		metrics.PersistenceFailures.WithLabelValues("analytics", "decode").Inc()
		return nil
	}
	if len(events) > s.cfg.MaxEvents {
		events = events[len(events)-s.cfg.MaxEvents:]
	}
	return events
}

// persistEvents is best-effort; failures never reach the caller.
func (s *Service) persistEvents(ctx context.Context, events []domain.PrefetchEvent) {
	if s.store == nil {
		return
	}

	raw, err := json.Marshal(events)
	if err != nil {
		logger.Error("event log marshal failed", "error", err)
		metrics.PersistenceFailures.WithLabelValues("analytics", "encode").Inc()
		return
	}
	if err := s.store.Set(ctx, eventsStoreKey, string(raw)); err != nil {
		logger.Warn("event log persist failed", "error", err)
		metrics.PersistenceFailures.WithLabelValues("analytics", "set").Inc()
	}
}

// TrackEvent appends an outcome event, evicting the oldest entry once the
// ring is full. Persistence and archival are best-effort.
func (s *Service) TrackEvent(ctx context.Context, event domain.PrefetchEvent) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}

	s.mu.Lock()
	s.events = append(s.events, event)
	if len(s.events) > s.cfg.MaxEvents {
		s.events = s.events[len(s.events)-s.cfg.MaxEvents:]
	}
	snapshot := make([]domain.PrefetchEvent, len(s.events))
	copy(snapshot, s.events)
	s.mu.Unlock()

	PrefetchEventsTotal.WithLabelValues(event.Type).Inc()

	s.persistEvents(ctx, snapshot)

	if s.archive != nil {
		if err := s.archive.SaveEvent(ctx, event); err != nil {
			logger.Warn("event archive failed", "event_id", event.ID, "error", err)
			metrics.PersistenceFailures.WithLabelValues("analytics", "archive").Inc()
		}
	}
}

// GetAnalytics aggregates events inside [now - periodHours, now]. Every
// rate is 0 when its denominator is 0.
func (s *Service) GetAnalytics(periodHours int) domain.PrefetchAnalytics {
	now := s.now()
	start := now.Add(-time.Duration(periodHours) * time.Hour)

	s.mu.Lock()
	events := make([]domain.PrefetchEvent, 0, len(s.events))
	for _, e := range s.events {
		if !e.Timestamp.Before(start) && !e.Timestamp.After(now) {
			events = append(events, e)
		}
	}
	s.mu.Unlock()

	var started, completed, used, wasted int
	var totalCost float64
	engagedUsers := make(map[string]struct{})

	for _, e := range events {
		switch e.Type {
		case domain.PrefetchStarted:
			started++
		case domain.PrefetchCompleted:
			completed++
			totalCost += e.Cost
		case domain.PrefetchUsed:
			used++
			if e.UserID != "" {
				engagedUsers[e.UserID] = struct{}{}
			}
		case domain.PrefetchWasted:
			wasted++
		}
	}

	a := domain.PrefetchAnalytics{
		TotalCost:   totalCost,
		EventCount:  len(events),
		PeriodStart: start,
		PeriodEnd:   now,
	}

	if completed > 0 {
		a.HitRate = float64(used) / float64(completed) * 100
		a.WasteRate = float64(wasted) / float64(completed) * 100
	}
	if resolved := used + wasted; resolved > 0 {
		a.PredictionAccuracy = float64(used) / float64(resolved) * 100
		a.FalsePositiveRate = float64(wasted) / float64(resolved) * 100
	}
	if started > 0 {
		naive := float64(started) * s.cfg.BaselineCostPerCard
		a.CostSavings = naive - totalCost
	}
	if len(engagedUsers) > 0 {
		a.CostPerEngagedUser = totalCost / float64(len(engagedUsers))
	}
	if totalCost > 0 {
		estimatedValue := float64(used) * s.cfg.ValuePerUsedPrefetch
		a.ReturnOnInvestment = (estimatedValue - totalCost) / totalCost * 100
	}

	return a
}

// EngagementHistory converts rolling prediction accuracy into the [0, 1]
// feedback signal the cost optimizer consumes. Returns 0 before any
// prefetch has resolved, letting the optimizer fall back to its default.
func (s *Service) EngagementHistory(periodHours int) float64 {
	a := s.GetAnalytics(periodHours)
	if a.PredictionAccuracy == 0 && a.FalsePositiveRate == 0 {
		return 0
	}
	return a.PredictionAccuracy / 100
}

// RecentEvents returns the newest n events, newest last.
func (s *Service) RecentEvents(n int) []domain.PrefetchEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n <= 0 || n > len(s.events) {
		n = len(s.events)
	}
	out := make([]domain.PrefetchEvent, n)
	copy(out, s.events[len(s.events)-n:])
	return out
}

func (s *Service) EventsByType(eventType string) []domain.PrefetchEvent {
	return s.filter(func(e domain.PrefetchEvent) bool { return e.Type == eventType })
}

func (s *Service) EventsByCard(cardID string) []domain.PrefetchEvent {
	return s.filter(func(e domain.PrefetchEvent) bool { return e.CardID == cardID })
}

func (s *Service) filter(keep func(domain.PrefetchEvent) bool) []domain.PrefetchEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.PrefetchEvent, 0)
	for _, e := range s.events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Export bundles the full ring plus a daily aggregate for dashboards.
type Export struct {
	Events    []domain.PrefetchEvent   `json:"events"`
	Analytics domain.PrefetchAnalytics `json:"analytics"`
}

func (s *Service) ExportAnalytics() Export {
	return Export{
		Events:    s.RecentEvents(0),
		Analytics: s.GetAnalytics(24),
	}
}

// ClearAnalytics wipes both the in-memory ring and the persisted mirror.
func (s *Service) ClearAnalytics(ctx context.Context) {
	s.mu.Lock()
	s.events = nil
	s.mu.Unlock()

	if s.store == nil {
		return
	}
	if err := s.store.Remove(ctx, eventsStoreKey); err != nil {
		logger.Warn("event log clear failed", "error", err)
		metrics.PersistenceFailures.WithLabelValues("analytics", "remove").Inc()
	}
}
