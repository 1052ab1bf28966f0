package reaction

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/mnuddindev/pulsefeed/internal/counter"
	"github.com/mnuddindev/pulsefeed/internal/models"
	"github.com/mnuddindev/pulsefeed/internal/registry"
	"github.com/mnuddindev/pulsefeed/pkg/utils"
)

// fakeStore keeps relation rows in a map, mirroring the unique-pair
// constraint of the real table. The order slice tracks insertion order
// for ListForUser.
type fakeStore struct {
	mu    sync.Mutex
	rows  map[string]bool
	order []fakeRow
}

type fakeRow struct {
	rel    Relation
	userID uint
	target models.Ref
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]bool)}
}

func (s *fakeStore) key(rel Relation, userID uint, target models.Ref) string {
	return fmt.Sprintf("%s|%d|%s", rel, userID, target.Key())
}

func (s *fakeStore) Exists(ctx context.Context, rel Relation, userID uint, target models.Ref) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[s.key(rel, userID, target)], nil
}

func (s *fakeStore) CreateIfAbsent(ctx context.Context, rel Relation, userID uint, target models.Ref) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := s.key(rel, userID, target)
	if s.rows[k] {
		return false, nil
	}
	s.rows[k] = true
	s.order = append(s.order, fakeRow{rel: rel, userID: userID, target: target})
	return true, nil
}

func (s *fakeStore) DeleteIfPresent(ctx context.Context, rel Relation, userID uint, target models.Ref) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := s.key(rel, userID, target)
	if !s.rows[k] {
		return false, nil
	}
	delete(s.rows, k)
	return true, nil
}

func (s *fakeStore) CountForTarget(ctx context.Context, rel Relation, target models.Ref) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	suffix := "|" + target.Key()
	prefix := string(rel) + "|"
	for k := range s.rows {
		if len(k) > len(suffix) && k[len(k)-len(suffix):] == suffix && k[:len(prefix)] == prefix {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) ListForUser(ctx context.Context, rel Relation, userID uint, page, limit int) ([]models.Ref, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var refs []models.Ref
	seen := map[string]bool{}
	for i := len(s.order) - 1; i >= 0; i-- {
		row := s.order[i]
		k := s.key(rel, userID, row.target)
		if row.rel != rel || row.userID != userID || !s.rows[k] || seen[k] {
			continue
		}
		seen[k] = true
		refs = append(refs, row.target)
	}
	offset := (page - 1) * limit
	if offset >= len(refs) {
		return nil, nil
	}
	end := offset + limit
	if end > len(refs) {
		end = len(refs)
	}
	return refs[offset:end], nil
}

func (s *fakeStore) DeleteForTarget(ctx context.Context, rel Relation, target models.Ref) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	suffix := "|" + target.Key()
	prefix := string(rel) + "|"
	for k := range s.rows {
		if len(k) > len(suffix) && k[len(k)-len(suffix):] == suffix && k[:len(prefix)] == prefix {
			delete(s.rows, k)
		}
	}
	return nil
}

// testRegistry registers "article" with ids below 1000 existing.
func testRegistry() *registry.Registry {
	b := registry.NewBuilder()
	b.Register(models.KindArticle, registry.ContentType{
		ResolveID: func(ctx context.Context, slug string) (uint, error) {
			return 42, nil
		},
		LoadData: func(ctx context.Context, id uint) (interface{}, error) {
			if id >= 1000 {
				return nil, utils.NotFound(models.Ref{Kind: models.KindArticle, ID: id}.Key())
			}
			return map[string]uint{"id": id}, nil
		},
	})
	return b.Freeze()
}

func newTestEngine() (*Engine, *fakeStore, counter.Store) {
	store := newFakeStore()
	counters := counter.NewMemoryStore()
	return NewEngine(store, counters, testRegistry(), nil), store, counters
}

func TestToggleLikeFlipsState(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()
	target := models.Ref{Kind: models.KindArticle, ID: 42}

	for i := 1; i <= 5; i++ {
		st, err := engine.ToggleLike(ctx, target, 7)
		if err != nil {
			t.Fatalf("ToggleLike() #%d error = %v", i, err)
		}

		wantLiked := i%2 == 1
		if st.Liked != wantLiked {
			t.Fatalf("toggle #%d: Liked = %t, want %t", i, st.Liked, wantLiked)
		}
		wantLikes := int64(0)
		if wantLiked {
			wantLikes = 1
		}
		if st.Likes != wantLikes {
			t.Fatalf("toggle #%d: Likes = %d, want %d", i, st.Likes, wantLikes)
		}
	}
}

func TestLikeClearsDislike(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()
	target := models.Ref{Kind: models.KindArticle, ID: 42}

	st, err := engine.ToggleDislike(ctx, target, 7)
	if err != nil {
		t.Fatalf("ToggleDislike() error = %v", err)
	}
	if !st.Disliked || st.Dislikes != 1 {
		t.Fatalf("after dislike: %+v", st)
	}

	st, err = engine.ToggleLike(ctx, target, 7)
	if err != nil {
		t.Fatalf("ToggleLike() error = %v", err)
	}
	if !st.Liked || st.Disliked {
		t.Fatalf("like must clear dislike: %+v", st)
	}
	if st.Likes != 1 || st.Dislikes != 0 {
		t.Fatalf("counters after switch: likes=%d dislikes=%d, want 1/0", st.Likes, st.Dislikes)
	}
}

func TestDislikeClearsLike(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()
	target := models.Ref{Kind: models.KindArticle, ID: 42}

	if _, err := engine.ToggleLike(ctx, target, 7); err != nil {
		t.Fatalf("ToggleLike() error = %v", err)
	}
	st, err := engine.ToggleDislike(ctx, target, 7)
	if err != nil {
		t.Fatalf("ToggleDislike() error = %v", err)
	}
	if st.Liked || !st.Disliked {
		t.Fatalf("dislike must clear like: %+v", st)
	}
	if st.Likes != 0 || st.Dislikes != 1 {
		t.Fatalf("counters after switch: likes=%d dislikes=%d, want 0/1", st.Likes, st.Dislikes)
	}
}

func TestToggleSaveIsIndependent(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()
	target := models.Ref{Kind: models.KindArticle, ID: 42}

	if _, err := engine.ToggleLike(ctx, target, 7); err != nil {
		t.Fatalf("ToggleLike() error = %v", err)
	}

	st, err := engine.ToggleSave(ctx, target, 7)
	if err != nil {
		t.Fatalf("ToggleSave() error = %v", err)
	}
	if !st.Saved || !st.Liked {
		t.Fatalf("save must not touch like: %+v", st)
	}

	st, err = engine.ToggleSave(ctx, target, 7)
	if err != nil {
		t.Fatalf("ToggleSave() error = %v", err)
	}
	if st.Saved {
		t.Fatalf("second save toggle must clear the flag: %+v", st)
	}
	if !st.Liked || st.Likes != 1 {
		t.Fatalf("unsave must not touch like: %+v", st)
	}
}

func TestCountersAggregateAcrossUsers(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()
	target := models.Ref{Kind: models.KindArticle, ID: 42}

	for user := uint(1); user <= 5; user++ {
		if _, err := engine.ToggleLike(ctx, target, user); err != nil {
			t.Fatalf("ToggleLike(user=%d) error = %v", user, err)
		}
	}
	for user := uint(6); user <= 7; user++ {
		if _, err := engine.ToggleDislike(ctx, target, user); err != nil {
			t.Fatalf("ToggleDislike(user=%d) error = %v", user, err)
		}
	}

	st, err := engine.StateFor(ctx, target, nil)
	if err != nil {
		t.Fatalf("StateFor() error = %v", err)
	}
	if st.Likes != 5 || st.Dislikes != 2 {
		t.Fatalf("likes=%d dislikes=%d, want 5/2", st.Likes, st.Dislikes)
	}
	if st.Liked || st.Disliked || st.Saved {
		t.Fatalf("anonymous viewer must see no flags: %+v", st)
	}
}

func TestColdCacheWarmsFromStore(t *testing.T) {
	engine, store, _ := newTestEngine()
	ctx := context.Background()
	target := models.Ref{Kind: models.KindArticle, ID: 42}

	// Rows exist but the counter cache is empty, as after a cache flush.
	store.CreateIfAbsent(ctx, RelLike, 1, target)
	store.CreateIfAbsent(ctx, RelLike, 2, target)
	store.CreateIfAbsent(ctx, RelLike, 3, target)

	st, err := engine.ToggleLike(ctx, target, 4)
	if err != nil {
		t.Fatalf("ToggleLike() error = %v", err)
	}
	if st.Likes != 4 {
		t.Fatalf("Likes = %d after warm+toggle, want 4", st.Likes)
	}
}

func TestToggleUnknownKind(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()
	target := models.Ref{Kind: "widget", ID: 1}

	if _, err := engine.ToggleLike(ctx, target, 7); !utils.IsUnknownType(err) {
		t.Fatalf("ToggleLike() error = %v, want unknown-type", err)
	}
	if _, err := engine.ToggleSave(ctx, target, 7); !utils.IsUnknownType(err) {
		t.Fatalf("ToggleSave() error = %v, want unknown-type", err)
	}
}

func TestToggleMissingTarget(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()
	target := models.Ref{Kind: models.KindArticle, ID: 5000}

	if _, err := engine.ToggleLike(ctx, target, 7); !utils.IsNotFound(err) {
		t.Fatalf("ToggleLike() error = %v, want not-found", err)
	}
}

func TestSavedItemsNewestFirst(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()

	engine.ToggleSave(ctx, models.Ref{Kind: models.KindArticle, ID: 1}, 7)
	engine.ToggleSave(ctx, models.Ref{Kind: models.KindArticle, ID: 2}, 7)
	engine.ToggleSave(ctx, models.Ref{Kind: models.KindArticle, ID: 3}, 7)
	// Another user's bookmark must not leak in.
	engine.ToggleSave(ctx, models.Ref{Kind: models.KindArticle, ID: 9}, 8)

	items, err := engine.SavedItems(ctx, 7, 1, 10)
	if err != nil {
		t.Fatalf("SavedItems() error = %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("SavedItems() = %d items, want 3", len(items))
	}
	wantIDs := []uint{3, 2, 1}
	for i, want := range wantIDs {
		data, ok := items[i].Data.(map[string]uint)
		if !ok || data["id"] != want {
			t.Fatalf("item[%d] = %+v, want id %d", i, items[i].Data, want)
		}
	}
}

func TestSavedItemsSkipsStale(t *testing.T) {
	engine, store, _ := newTestEngine()
	ctx := context.Background()

	engine.ToggleSave(ctx, models.Ref{Kind: models.KindArticle, ID: 1}, 7)
	// A bookmark whose content is gone resolves to NotFound.
	store.CreateIfAbsent(ctx, RelSave, 7, models.Ref{Kind: models.KindArticle, ID: 5000})

	items, err := engine.SavedItems(ctx, 7, 1, 10)
	if err != nil {
		t.Fatalf("SavedItems() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("SavedItems() = %d items, want 1 after stale skip", len(items))
	}
}

func TestForgetDropsRowsAndCounters(t *testing.T) {
	engine, store, counters := newTestEngine()
	ctx := context.Background()
	target := models.Ref{Kind: models.KindArticle, ID: 42}
	other := models.Ref{Kind: models.KindArticle, ID: 43}

	engine.ToggleLike(ctx, target, 1)
	engine.ToggleDislike(ctx, target, 2)
	engine.ToggleSave(ctx, target, 3)
	engine.ToggleLike(ctx, other, 1)

	if err := engine.Forget(ctx, target); err != nil {
		t.Fatalf("Forget() error = %v", err)
	}

	n, _ := store.CountForTarget(ctx, RelLike, target)
	if n != 0 {
		t.Fatalf("like rows after Forget = %d, want 0", n)
	}

	st, err := engine.StateFor(ctx, target, nil)
	if err != nil {
		t.Fatalf("StateFor() error = %v", err)
	}
	if st.Likes != 0 || st.Dislikes != 0 {
		t.Fatalf("counters after Forget: %+v", st)
	}

	// Per-user flags scoped to the target go with it.
	for _, key := range []string{
		counter.LikedKey(1, target),
		counter.DislikedKey(2, target),
		counter.SavedKey(3, target),
	} {
		if _, ok, _ := counters.Get(ctx, key); ok {
			t.Fatalf("flag %q survived Forget", key)
		}
	}

	// A neighboring target is untouched.
	if val, ok, _ := counters.Get(ctx, counter.LikedKey(1, other)); !ok || val != 1 {
		t.Fatalf("neighbor liked flag = %d, %t, want 1, true", val, ok)
	}
}
