package postgres

import (
	"context"
	"fmt"

	"github.com/zachorg/SwipeCore-sub002/domain"
	"gorm.io/gorm"
)

// EventRepository is the append-only durable archive of prefetch outcome
// events, kept beyond the in-memory ring for offline analysis.
type EventRepository struct {
	DB *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{DB: db}
}

func (r *EventRepository) SaveEvent(ctx context.Context, event domain.PrefetchEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("failed to save prefetch event: %w", err)
	}

	return nil
}

// EventsByCard returns the archived causal chain for one card, oldest
// first.
func (r *EventRepository) EventsByCard(ctx context.Context, cardID string, limit int) ([]domain.PrefetchEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var events []domain.PrefetchEvent
	err := r.DB.WithContext(ctx).
		Where("card_id = ?", cardID).
		Order("timestamp asc").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query prefetch_events: %w", err)
	}

	return events, nil
}
