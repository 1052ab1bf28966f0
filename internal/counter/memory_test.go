package counter

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mnuddindev/pulsefeed/internal/models"
)

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore()

	val, ok, err := s.Get(context.Background(), "likes:article:1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Fatal("Get() ok = true for missing key")
	}
	if val != 0 {
		t.Fatalf("Get() val = %d, want 0", val)
	}
}

func TestMemoryStoreIncrementDecrement(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	key := "likes:article:1"

	if err := s.Increment(ctx, key); err != nil {
		t.Fatalf("Increment() error = %v", err)
	}
	if err := s.Increment(ctx, key); err != nil {
		t.Fatalf("Increment() error = %v", err)
	}
	if err := s.Decrement(ctx, key); err != nil {
		t.Fatalf("Decrement() error = %v", err)
	}

	val, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Get() = %d, %t, %v", val, ok, err)
	}
	if val != 1 {
		t.Fatalf("Get() val = %d, want 1", val)
	}
}

func TestMemoryStoreRememberForever(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	key := "comments:article:7"

	calls := 0
	compute := func(ctx context.Context) (int64, error) {
		calls++
		return 42, nil
	}

	val, err := s.RememberForever(ctx, key, compute)
	if err != nil {
		t.Fatalf("RememberForever() error = %v", err)
	}
	if val != 42 {
		t.Fatalf("RememberForever() = %d, want 42", val)
	}

	// Second read hits the cache.
	val, err = s.RememberForever(ctx, key, compute)
	if err != nil {
		t.Fatalf("RememberForever() error = %v", err)
	}
	if val != 42 {
		t.Fatalf("RememberForever() = %d, want 42", val)
	}
	if calls != 1 {
		t.Fatalf("compute called %d times, want 1", calls)
	}
}

func TestMemoryStoreRememberForeverComputeError(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	boom := errors.New("source down")

	_, err := s.RememberForever(ctx, "likes:article:1", func(ctx context.Context) (int64, error) {
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("RememberForever() error = %v, want %v", err, boom)
	}

	// A failed compute must not poison the key.
	if _, ok, _ := s.Get(ctx, "likes:article:1"); ok {
		t.Fatal("failed compute left a cached value behind")
	}
}

func TestMemoryStoreForget(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Set(ctx, "a", 1)
	s.Set(ctx, "b", 2)
	s.Set(ctx, "c", 3)

	if err := s.Forget(ctx, "a", "c"); err != nil {
		t.Fatalf("Forget() error = %v", err)
	}

	if _, ok, _ := s.Get(ctx, "a"); ok {
		t.Fatal("key a survived Forget")
	}
	if _, ok, _ := s.Get(ctx, "c"); ok {
		t.Fatal("key c survived Forget")
	}
	if val, ok, _ := s.Get(ctx, "b"); !ok || val != 2 {
		t.Fatalf("key b = %d, %t, want 2, true", val, ok)
	}
}

func TestMemoryStoreForgetScope(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	target := models.Ref{Kind: "article", ID: 42}

	s.Set(ctx, LikesKey(target), 5)
	s.Set(ctx, CommentsKey(target), 3)
	s.Set(ctx, LikedKey(7, target), 1)
	s.Set(ctx, CommentedKey(7, target), 1)
	s.Set(ctx, LikesKey(models.Ref{Kind: "article", ID: 421}), 9)
	s.Set(ctx, FollowingsKey(7), 2)

	if err := s.ForgetScope(ctx, target); err != nil {
		t.Fatalf("ForgetScope() error = %v", err)
	}

	for _, key := range []string{
		LikesKey(target),
		CommentsKey(target),
		LikedKey(7, target),
		CommentedKey(7, target),
	} {
		if _, ok, _ := s.Get(ctx, key); ok {
			t.Fatalf("key %q survived ForgetScope", key)
		}
	}

	// Other targets and user-scoped keys are untouched.
	if val, ok, _ := s.Get(ctx, LikesKey(models.Ref{Kind: "article", ID: 421})); !ok || val != 9 {
		t.Fatalf("neighbor target likes = %d, %t, want 9, true", val, ok)
	}
	if val, ok, _ := s.Get(ctx, FollowingsKey(7)); !ok || val != 2 {
		t.Fatalf("followings = %d, %t, want 2, true", val, ok)
	}
}

func TestMemoryStoreConcurrentIncrements(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	key := "likes:article:1"

	const workers = 16
	const perWorker = 200

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				s.Increment(ctx, key)
			}
		}()
	}
	wg.Wait()

	val, _, _ := s.Get(ctx, key)
	if val != workers*perWorker {
		t.Fatalf("concurrent increments lost updates: got %d, want %d", val, workers*perWorker)
	}
}
