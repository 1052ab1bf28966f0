// Package events carries fire-and-forget domain events to downstream
// listeners (recommender feedback, follow notifications). Delivery is
// best-effort: a full queue drops the event with a warning and never
// blocks or fails the originating operation.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mnuddindev/pulsefeed/internal/models"
	"github.com/mnuddindev/pulsefeed/pkg/logger"
)

type Kind string

const (
	KindFeedback    Kind = "feedback"
	KindFollowed    Kind = "followed"
	KindItemUpsert  Kind = "item_upsert"
	KindItemDeleted Kind = "item_deleted"
)

// Feedback reports a reaction create/delete for recommender ingestion.
type Feedback struct {
	Reaction string     `json:"reaction"` // like, unlike, dislike, undislike, save, unsave
	UserID   uint       `json:"user_id"`
	Target   models.Ref `json:"target"`
}

// Followed reports a new follow relationship.
type Followed struct {
	FollowerID uint       `json:"follower_id"`
	Target     models.Ref `json:"target"`
}

// ItemChange reports a content upsert or deletion to the recommender.
type ItemChange struct {
	Target models.Ref `json:"target"`
}

type Event struct {
	ID      uuid.UUID   `json:"id"`
	Kind    Kind        `json:"kind"`
	At      time.Time   `json:"at"`
	Payload interface{} `json:"payload"`
}

type Handler func(ctx context.Context, e Event)

// Bus is a bounded in-process outbound queue with a single dispatch
// worker. Handlers run with a per-delivery timeout and recover, so a
// failing listener cannot take the worker down.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Kind][]Handler

	queue chan Event
	quit  chan struct{}
	done  sync.WaitGroup
	log   *logger.Logger

	// HandlerTimeout bounds each handler invocation.
	HandlerTimeout time.Duration
}

func NewBus(log *logger.Logger, size int) *Bus {
	if size <= 0 {
		size = 1024
	}
	b := &Bus{
		handlers:       make(map[Kind][]Handler),
		queue:          make(chan Event, size),
		quit:           make(chan struct{}),
		log:            log,
		HandlerTimeout: 5 * time.Second,
	}
	b.done.Add(1)
	go b.worker()
	return b
}

// Subscribe attaches a handler for one event kind.
func (b *Bus) Subscribe(kind Kind, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[kind] = append(b.handlers[kind], h)
}

// Publish enqueues an event without blocking. Events are dropped when
// the queue is full.
func (b *Bus) Publish(kind Kind, payload interface{}) {
	e := Event{
		ID:      uuid.New(),
		Kind:    kind,
		At:      time.Now().UTC(),
		Payload: payload,
	}
	select {
	case b.queue <- e:
	default:
		if b.log != nil {
			b.log.Warn(context.Background()).
				WithMeta(map[string]string{"kind": string(kind)}).
				Logs("Event queue full, dropping event")
		}
	}
}

func (b *Bus) worker() {
	defer b.done.Done()
	for {
		select {
		case e := <-b.queue:
			b.dispatch(e)
		case <-b.quit:
			for len(b.queue) > 0 {
				b.dispatch(<-b.queue)
			}
			return
		}
	}
}

func (b *Bus) dispatch(e Event) {
	b.mu.RLock()
	handlers := b.handlers[e.Kind]
	b.mu.RUnlock()

	for _, h := range handlers {
		b.deliver(h, e)
	}
}

func (b *Bus) deliver(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil && b.log != nil {
			b.log.Error(context.Background()).
				WithMeta(map[string]string{"kind": string(e.Kind)}).
				Logs("Event handler panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), b.HandlerTimeout)
	defer cancel()
	h(ctx, e)
}

// Close drains the queue and stops the worker.
func (b *Bus) Close() {
	close(b.quit)
	b.done.Wait()
}
