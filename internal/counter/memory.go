package counter

import (
	"context"
	"strings"
	"sync"

	"github.com/mnuddindev/pulsefeed/internal/models"
)

// MemoryStore is a process-local counter cache with the same contract
// as RedisStore. Used in tests and single-node deployments.
type MemoryStore struct {
	mu   sync.Mutex
	vals map[string]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{vals: make(map[string]int64)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	val, ok := s.vals[key]
	return val, ok, nil
}

func (s *MemoryStore) RememberForever(ctx context.Context, key string, compute Compute) (int64, error) {
	s.mu.Lock()
	if val, ok := s.vals[key]; ok {
		s.mu.Unlock()
		return val, nil
	}
	s.mu.Unlock()

	val, err := compute(ctx)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.vals[key]; ok {
		return cached, nil
	}
	s.vals[key] = val
	return val, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vals[key] = value
	return nil
}

func (s *MemoryStore) Increment(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vals[key]++
	return nil
}

func (s *MemoryStore) Decrement(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vals[key]--
	return nil
}

func (s *MemoryStore) Forget(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.vals, k)
	}
	return nil
}

func (s *MemoryStore) ForgetScope(ctx context.Context, target models.Ref) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	suffix := ":" + target.Key()
	for k := range s.vals {
		if strings.HasSuffix(k, suffix) {
			delete(s.vals, k)
		}
	}
	return nil
}
