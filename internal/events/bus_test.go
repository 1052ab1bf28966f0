package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mnuddindev/pulsefeed/internal/models"
)

func TestBusDeliversToSubscriber(t *testing.T) {
	bus := NewBus(nil, 16)
	defer bus.Close()

	got := make(chan Event, 1)
	bus.Subscribe(KindFeedback, func(ctx context.Context, e Event) {
		got <- e
	})

	payload := Feedback{
		Reaction: "like",
		UserID:   7,
		Target:   models.Ref{Kind: "article", ID: 42},
	}
	bus.Publish(KindFeedback, payload)

	select {
	case e := <-got:
		fb, ok := e.Payload.(Feedback)
		if !ok {
			t.Fatalf("payload type = %T, want Feedback", e.Payload)
		}
		if fb != payload {
			t.Fatalf("payload = %+v, want %+v", fb, payload)
		}
		if e.Kind != KindFeedback {
			t.Fatalf("kind = %s, want %s", e.Kind, KindFeedback)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event never delivered")
	}
}

func TestBusKindsAreIsolated(t *testing.T) {
	bus := NewBus(nil, 16)
	defer bus.Close()

	followed := make(chan Event, 1)
	bus.Subscribe(KindFollowed, func(ctx context.Context, e Event) {
		followed <- e
	})

	bus.Publish(KindFeedback, Feedback{Reaction: "like", UserID: 1})
	bus.Publish(KindFollowed, Followed{FollowerID: 1, Target: models.Ref{Kind: "user", ID: 2}})

	select {
	case e := <-followed:
		if _, ok := e.Payload.(Followed); !ok {
			t.Fatalf("payload type = %T, want Followed", e.Payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("followed event never delivered")
	}

	select {
	case e := <-followed:
		t.Fatalf("unexpected second delivery: %+v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBusPublishNeverBlocks(t *testing.T) {
	bus := NewBus(nil, 1)
	defer bus.Close()

	// Stall the worker so the queue fills.
	block := make(chan struct{})
	bus.Subscribe(KindFeedback, func(ctx context.Context, e Event) {
		<-block
	})

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			bus.Publish(KindFeedback, Feedback{UserID: uint(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
	close(block)
}

func TestBusSurvivesPanickingHandler(t *testing.T) {
	bus := NewBus(nil, 16)
	defer bus.Close()

	var mu sync.Mutex
	delivered := 0
	bus.Subscribe(KindFeedback, func(ctx context.Context, e Event) {
		panic("listener bug")
	})
	bus.Subscribe(KindFeedback, func(ctx context.Context, e Event) {
		mu.Lock()
		delivered++
		mu.Unlock()
	})

	bus.Publish(KindFeedback, Feedback{UserID: 1})
	bus.Publish(KindFeedback, Feedback{UserID: 2})

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		n := delivered
		mu.Unlock()
		if n == 2 {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("delivered %d events after panic, want 2", n)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestBusCloseDrainsQueue(t *testing.T) {
	bus := NewBus(nil, 64)

	var mu sync.Mutex
	delivered := 0
	bus.Subscribe(KindItemUpsert, func(ctx context.Context, e Event) {
		mu.Lock()
		delivered++
		mu.Unlock()
	})

	for i := 0; i < 20; i++ {
		bus.Publish(KindItemUpsert, ItemChange{Target: models.Ref{Kind: "article", ID: uint(i)}})
	}
	bus.Close()

	mu.Lock()
	defer mu.Unlock()
	if delivered != 20 {
		t.Fatalf("Close() drained %d events, want 20", delivered)
	}
}
