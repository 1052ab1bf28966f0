// Package notification delivers "new follower" notifications for the
// follow engine's Followed events. Delivery transport lives behind the
// Deliverer interface; the engine never learns whether the target was
// notifiable or whether delivery worked.
package notification

import (
	"context"

	"github.com/mnuddindev/pulsefeed/internal/events"
	"github.com/mnuddindev/pulsefeed/internal/registry"
	"github.com/mnuddindev/pulsefeed/pkg/logger"
)

// Notifiable is implemented by payloads that can receive
// notifications. The second return reports whether the recipient
// currently accepts them.
type Notifiable interface {
	NotificationRecipient() (uint, bool)
}

// Deliverer hands a notification to the out-of-scope transport.
type Deliverer interface {
	Deliver(ctx context.Context, recipientID uint, payload map[string]interface{}) error
}

type Listener struct {
	reg       *registry.Registry
	deliverer Deliverer
	log       *logger.Logger
}

func NewListener(reg *registry.Registry, deliverer Deliverer, log *logger.Logger) *Listener {
	return &Listener{reg: reg, deliverer: deliverer, log: log}
}

// Attach subscribes the listener to Followed events.
func (l *Listener) Attach(bus *events.Bus) {
	bus.Subscribe(events.KindFollowed, l.handleFollowed)
}

func (l *Listener) handleFollowed(ctx context.Context, e events.Event) {
	followed, ok := e.Payload.(events.Followed)
	if !ok {
		return
	}

	data, err := l.reg.LoadData(ctx, followed.Target.Kind, followed.Target.ID)
	if err != nil {
		if l.log != nil {
			l.log.Warn(ctx).WithMeta(map[string]string{
				"target": followed.Target.Key(),
				"error":  err.Error(),
			}).Logs("Follow notification target failed to load")
		}
		return
	}

	// The capability check lives here, not in the follow engine.
	notifiable, ok := data.(Notifiable)
	if !ok {
		return
	}
	recipient, accepts := notifiable.NotificationRecipient()
	if !accepts {
		return
	}

	if l.deliverer == nil {
		return
	}

	err = l.deliverer.Deliver(ctx, recipient, map[string]interface{}{
		"type":        "new_follower",
		"follower_id": followed.FollowerID,
		"target":      followed.Target,
	})
	if err != nil && l.log != nil {
		l.log.Warn(ctx).WithMeta(map[string]string{
			"recipient": followed.Target.Key(),
			"error":     err.Error(),
		}).Logs("Follower notification delivery failed")
	}
}
