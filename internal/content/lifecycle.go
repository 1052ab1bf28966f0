package content

import (
	"context"

	"github.com/mnuddindev/pulsefeed/internal/counter"
	"github.com/mnuddindev/pulsefeed/internal/events"
	"github.com/mnuddindev/pulsefeed/internal/models"
)

// Invalidator drops derived caches built over content, such as the
// discovery aggregates.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Lifecycle propagates content changes to the counter cache, derived
// caches, and the recommender. Content modules call these hooks after
// a successful create, material edit, or delete.
type Lifecycle struct {
	counters    counter.Store
	bus         *events.Bus
	invalidator Invalidator
}

func NewLifecycle(counters counter.Store, bus *events.Bus, invalidator Invalidator) *Lifecycle {
	return &Lifecycle{counters: counters, bus: bus, invalidator: invalidator}
}

// Created announces new content to the recommender and refreshes the
// discovery caches.
func (l *Lifecycle) Created(ctx context.Context, target models.Ref) error {
	if l.bus != nil {
		l.bus.Publish(events.KindItemUpsert, events.ItemChange{Target: target})
	}
	return l.invalidate(ctx)
}

// Updated forgets the target's counters so the next read recomputes
// from source, and re-announces the item.
func (l *Lifecycle) Updated(ctx context.Context, target models.Ref) error {
	if err := l.counters.Forget(ctx, counter.TargetKeys(target)...); err != nil {
		return err
	}
	if l.bus != nil {
		l.bus.Publish(events.KindItemUpsert, events.ItemChange{Target: target})
	}
	return l.invalidate(ctx)
}

// Deleted drops every counter and per-user flag scoped to the target
// and tells the recommender to drop the item from its index.
func (l *Lifecycle) Deleted(ctx context.Context, target models.Ref) error {
	if err := l.counters.ForgetScope(ctx, target); err != nil {
		return err
	}
	if l.bus != nil {
		l.bus.Publish(events.KindItemDeleted, events.ItemChange{Target: target})
	}
	return l.invalidate(ctx)
}

func (l *Lifecycle) invalidate(ctx context.Context) error {
	if l.invalidator == nil {
		return nil
	}
	return l.invalidator.Invalidate(ctx)
}
