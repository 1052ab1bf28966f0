package recommender

import (
	"context"

	"github.com/mnuddindev/pulsefeed/internal/events"
	"github.com/mnuddindev/pulsefeed/pkg/logger"
)

// AttachForwarder subscribes the recommender to feedback and item
// change events. Failures are logged and swallowed: the recommender's
// ingestion feed is best-effort and must never affect the engines.
func AttachForwarder(bus *events.Bus, client Client, log *logger.Logger) {
	bus.Subscribe(events.KindFeedback, func(ctx context.Context, e events.Event) {
		fb, ok := e.Payload.(events.Feedback)
		if !ok {
			return
		}
		err := client.SendFeedback(ctx, Feedback{
			Reaction:  fb.Reaction,
			UserID:    fb.UserID,
			Target:    fb.Target,
			Timestamp: e.At.Unix(),
		})
		if err != nil && log != nil {
			log.Warn(ctx).WithMeta(map[string]string{
				"target":   fb.Target.Key(),
				"reaction": fb.Reaction,
				"error":    err.Error(),
			}).Logs("Recommender feedback delivery failed")
		}
	})

	bus.Subscribe(events.KindItemUpsert, func(ctx context.Context, e events.Event) {
		change, ok := e.Payload.(events.ItemChange)
		if !ok {
			return
		}
		if err := client.UpsertItem(ctx, change.Target); err != nil && log != nil {
			log.Warn(ctx).WithMeta(map[string]string{
				"target": change.Target.Key(),
				"error":  err.Error(),
			}).Logs("Recommender item upsert failed")
		}
	})

	bus.Subscribe(events.KindItemDeleted, func(ctx context.Context, e events.Event) {
		change, ok := e.Payload.(events.ItemChange)
		if !ok {
			return
		}
		if err := client.DeleteItem(ctx, change.Target); err != nil && log != nil {
			log.Warn(ctx).WithMeta(map[string]string{
				"target": change.Target.Key(),
				"error":  err.Error(),
			}).Logs("Recommender item delete failed")
		}
	})
}
