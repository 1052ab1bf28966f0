// Package reaction implements the generic like/dislike/save engine
// operating on any registered reactable target.
package reaction

import (
	"context"

	"github.com/mnuddindev/pulsefeed/internal/counter"
	"github.com/mnuddindev/pulsefeed/internal/events"
	"github.com/mnuddindev/pulsefeed/internal/models"
	"github.com/mnuddindev/pulsefeed/internal/registry"
	"github.com/mnuddindev/pulsefeed/pkg/utils"
)

// State is the post-toggle view returned to the UI.
type State struct {
	Liked    bool  `json:"liked"`
	Disliked bool  `json:"disliked"`
	Saved    bool  `json:"saved"`
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
}

// Engine applies toggle semantics per (user, target, relation) pair.
// Like and dislike are mutually exclusive; save is independent. Every
// row change pairs with exactly one counter adjustment and one
// feedback event.
type Engine struct {
	store    RelationStore
	counters counter.Store
	reg      *registry.Registry
	bus      *events.Bus
}

func NewEngine(store RelationStore, counters counter.Store, reg *registry.Registry, bus *events.Bus) *Engine {
	return &Engine{store: store, counters: counters, reg: reg, bus: bus}
}

// ToggleLike flips the user's like on target. An existing dislike is
// removed first, so liking always wins over a previous dislike.
func (e *Engine) ToggleLike(ctx context.Context, target models.Ref, userID uint) (State, error) {
	if err := e.checkTarget(ctx, target); err != nil {
		return State{}, err
	}
	if err := e.primeCounters(ctx, target); err != nil {
		return State{}, err
	}

	if err := e.clearOpposite(ctx, RelDislike, target, userID); err != nil {
		return State{}, err
	}

	if err := e.toggle(ctx, RelLike, target, userID); err != nil {
		return State{}, err
	}

	return e.StateFor(ctx, target, &userID)
}

// ToggleDislike flips the user's dislike on target, clearing an
// existing like first.
func (e *Engine) ToggleDislike(ctx context.Context, target models.Ref, userID uint) (State, error) {
	if err := e.checkTarget(ctx, target); err != nil {
		return State{}, err
	}
	if err := e.primeCounters(ctx, target); err != nil {
		return State{}, err
	}

	if err := e.clearOpposite(ctx, RelLike, target, userID); err != nil {
		return State{}, err
	}

	if err := e.toggle(ctx, RelDislike, target, userID); err != nil {
		return State{}, err
	}

	return e.StateFor(ctx, target, &userID)
}

// ToggleSave flips the user's save on target. No mutual exclusion and
// no public counter, only the per-user flag.
func (e *Engine) ToggleSave(ctx context.Context, target models.Ref, userID uint) (State, error) {
	if err := e.checkTarget(ctx, target); err != nil {
		return State{}, err
	}

	saved, err := e.store.Exists(ctx, RelSave, userID, target)
	if err != nil {
		return State{}, err
	}

	if saved {
		deleted, err := e.store.DeleteIfPresent(ctx, RelSave, userID, target)
		if err != nil {
			return State{}, err
		}
		if deleted {
			if err := e.counters.Set(ctx, counter.SavedKey(userID, target), 0); err != nil {
				return State{}, err
			}
			e.emit("unsave", userID, target)
		}
	} else {
		created, err := e.store.CreateIfAbsent(ctx, RelSave, userID, target)
		if err != nil {
			return State{}, err
		}
		if created {
			if err := e.counters.Set(ctx, counter.SavedKey(userID, target), 1); err != nil {
				return State{}, err
			}
			e.emit("save", userID, target)
		}
	}

	return e.StateFor(ctx, target, &userID)
}

// StateFor reads the current counters and flags for a viewer. A nil
// viewer is anonymous: all flags are false.
func (e *Engine) StateFor(ctx context.Context, target models.Ref, viewer *uint) (State, error) {
	likes, err := e.count(ctx, RelLike, target)
	if err != nil {
		return State{}, err
	}
	dislikes, err := e.count(ctx, RelDislike, target)
	if err != nil {
		return State{}, err
	}

	st := State{Likes: likes, Dislikes: dislikes}
	if viewer == nil {
		return st, nil
	}

	if st.Liked, err = e.flag(ctx, counter.LikedKey(*viewer, target), RelLike, *viewer, target); err != nil {
		return State{}, err
	}
	if st.Disliked, err = e.flag(ctx, counter.DislikedKey(*viewer, target), RelDislike, *viewer, target); err != nil {
		return State{}, err
	}
	if st.Saved, err = e.flag(ctx, counter.SavedKey(*viewer, target), RelSave, *viewer, target); err != nil {
		return State{}, err
	}
	return st, nil
}

// SavedItems returns a page of the user's bookmarked targets, newest
// first, resolved to rendering payloads. Stale references are skipped.
func (e *Engine) SavedItems(ctx context.Context, userID uint, page, limit int) ([]registry.Payload, error) {
	refs, err := e.store.ListForUser(ctx, RelSave, userID, page, limit)
	if err != nil {
		return nil, err
	}

	items := make([]registry.Payload, 0, len(refs))
	for _, ref := range refs {
		if !e.reg.Has(ref.Kind) {
			continue
		}
		data, err := e.reg.LoadData(ctx, ref.Kind, ref.ID)
		if err != nil {
			if utils.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		items = append(items, registry.Payload{Kind: ref.Kind, Data: data})
	}
	return items, nil
}

// Forget drops every reaction row for a deleted target along with all
// counters and per-user flags scoped to it.
func (e *Engine) Forget(ctx context.Context, target models.Ref) error {
	for _, rel := range []Relation{RelLike, RelDislike, RelSave} {
		if err := e.store.DeleteForTarget(ctx, rel, target); err != nil {
			return err
		}
	}
	return e.counters.ForgetScope(ctx, target)
}

// toggle flips one relation, pairing counter updates with the actual
// row change.
func (e *Engine) toggle(ctx context.Context, rel Relation, target models.Ref, userID uint) error {
	present, err := e.store.Exists(ctx, rel, userID, target)
	if err != nil {
		return err
	}

	if present {
		deleted, err := e.store.DeleteIfPresent(ctx, rel, userID, target)
		if err != nil {
			return err
		}
		if deleted {
			if err := e.counters.Decrement(ctx, e.countKey(rel, target)); err != nil {
				return err
			}
			if err := e.counters.Set(ctx, e.flagKey(rel, userID, target), 0); err != nil {
				return err
			}
			e.emit("un"+string(rel), userID, target)
		}
		return nil
	}

	created, err := e.store.CreateIfAbsent(ctx, rel, userID, target)
	if err != nil {
		return err
	}
	if created {
		if err := e.counters.Increment(ctx, e.countKey(rel, target)); err != nil {
			return err
		}
		if err := e.counters.Set(ctx, e.flagKey(rel, userID, target), 1); err != nil {
			return err
		}
		e.emit(string(rel), userID, target)
	}
	return nil
}

// clearOpposite removes the mutually exclusive relation, if present.
func (e *Engine) clearOpposite(ctx context.Context, rel Relation, target models.Ref, userID uint) error {
	deleted, err := e.store.DeleteIfPresent(ctx, rel, userID, target)
	if err != nil {
		return err
	}
	if deleted {
		if err := e.counters.Decrement(ctx, e.countKey(rel, target)); err != nil {
			return err
		}
		if err := e.counters.Set(ctx, e.flagKey(rel, userID, target), 0); err != nil {
			return err
		}
		e.emit("un"+string(rel), userID, target)
	}
	return nil
}

// checkTarget rejects unregistered kinds and missing entities. The
// entity row may be gone while counters are still warm, so a missing
// row surfaces NotFound instead of crashing later.
func (e *Engine) checkTarget(ctx context.Context, target models.Ref) error {
	if _, err := e.reg.LoadData(ctx, target.Kind, target.ID); err != nil {
		return err
	}
	return nil
}

// primeCounters warms the like/dislike counters from the relation
// store before adjusting them, so increments never start from a bare 0
// on a cold cache.
func (e *Engine) primeCounters(ctx context.Context, target models.Ref) error {
	if _, err := e.count(ctx, RelLike, target); err != nil {
		return err
	}
	_, err := e.count(ctx, RelDislike, target)
	return err
}

func (e *Engine) count(ctx context.Context, rel Relation, target models.Ref) (int64, error) {
	return e.counters.RememberForever(ctx, e.countKey(rel, target), func(ctx context.Context) (int64, error) {
		return e.store.CountForTarget(ctx, rel, target)
	})
}

func (e *Engine) flag(ctx context.Context, key string, rel Relation, userID uint, target models.Ref) (bool, error) {
	val, err := e.counters.RememberForever(ctx, key, func(ctx context.Context) (int64, error) {
		present, err := e.store.Exists(ctx, rel, userID, target)
		if err != nil {
			return 0, err
		}
		if present {
			return 1, nil
		}
		return 0, nil
	})
	return val != 0, err
}

func (e *Engine) countKey(rel Relation, target models.Ref) string {
	if rel == RelDislike {
		return counter.DislikesKey(target)
	}
	return counter.LikesKey(target)
}

func (e *Engine) flagKey(rel Relation, userID uint, target models.Ref) string {
	switch rel {
	case RelDislike:
		return counter.DislikedKey(userID, target)
	case RelSave:
		return counter.SavedKey(userID, target)
	default:
		return counter.LikedKey(userID, target)
	}
}

func (e *Engine) emit(reaction string, userID uint, target models.Ref) {
	if e.bus == nil {
		return
	}
	e.bus.Publish(events.KindFeedback, events.Feedback{
		Reaction: reaction,
		UserID:   userID,
		Target:   target,
	})
}
