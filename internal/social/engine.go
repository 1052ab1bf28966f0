// Package social implements the follow engine: a symmetric relation
// between a follower (always a user) and any registered followable
// target.
package social

import (
	"context"

	"github.com/mnuddindev/pulsefeed/internal/counter"
	"github.com/mnuddindev/pulsefeed/internal/events"
	"github.com/mnuddindev/pulsefeed/internal/models"
	"github.com/mnuddindev/pulsefeed/internal/registry"
)

// FollowStore is the durable store for follow rows.
type FollowStore interface {
	Exists(ctx context.Context, followerID uint, target models.Ref) (bool, error)
	CreateIfAbsent(ctx context.Context, followerID uint, target models.Ref) (bool, error)
	DeleteIfPresent(ctx context.Context, followerID uint, target models.Ref) (bool, error)
	CountFollowers(ctx context.Context, target models.Ref) (int64, error)
	CountFollowings(ctx context.Context, followerID uint) (int64, error)
}

// State is the post-toggle view for the UI.
type State struct {
	Following  bool  `json:"following"`
	Followers  int64 `json:"followers"`
	Followings int64 `json:"followings"`
}

// Engine toggles follow relationships. The followers(target) and
// followings(follower) counters always move together by the same
// delta.
type Engine struct {
	store    FollowStore
	counters counter.Store
	reg      *registry.Registry
	bus      *events.Bus
}

func NewEngine(store FollowStore, counters counter.Store, reg *registry.Registry, bus *events.Bus) *Engine {
	return &Engine{store: store, counters: counters, reg: reg, bus: bus}
}

// ToggleFollow flips the follow relation and adjusts both counters. On
// creation a Followed event goes out for the notification listener;
// the engine does not know whether the target is notifiable.
func (e *Engine) ToggleFollow(ctx context.Context, followerID uint, target models.Ref) (State, error) {
	if _, err := e.reg.LoadData(ctx, target.Kind, target.ID); err != nil {
		return State{}, err
	}

	// Warm both counters before adjusting so the deltas land on true
	// values.
	if _, err := e.followers(ctx, target); err != nil {
		return State{}, err
	}
	if _, err := e.followings(ctx, followerID); err != nil {
		return State{}, err
	}

	present, err := e.store.Exists(ctx, followerID, target)
	if err != nil {
		return State{}, err
	}

	if present {
		deleted, err := e.store.DeleteIfPresent(ctx, followerID, target)
		if err != nil {
			return State{}, err
		}
		if deleted {
			if err := e.adjust(ctx, followerID, target, false); err != nil {
				return State{}, err
			}
		}
	} else {
		created, err := e.store.CreateIfAbsent(ctx, followerID, target)
		if err != nil {
			return State{}, err
		}
		if created {
			if err := e.adjust(ctx, followerID, target, true); err != nil {
				return State{}, err
			}
			if e.bus != nil {
				e.bus.Publish(events.KindFollowed, events.Followed{
					FollowerID: followerID,
					Target:     target,
				})
			}
		}
	}

	return e.StateFor(ctx, followerID, target)
}

// StateFor reads the current follow state for a follower and target.
func (e *Engine) StateFor(ctx context.Context, followerID uint, target models.Ref) (State, error) {
	followers, err := e.followers(ctx, target)
	if err != nil {
		return State{}, err
	}
	followings, err := e.followings(ctx, followerID)
	if err != nil {
		return State{}, err
	}

	val, err := e.counters.RememberForever(ctx, counter.FollowedKey(followerID, target), func(ctx context.Context) (int64, error) {
		present, err := e.store.Exists(ctx, followerID, target)
		if err != nil {
			return 0, err
		}
		if present {
			return 1, nil
		}
		return 0, nil
	})
	if err != nil {
		return State{}, err
	}

	return State{Following: val != 0, Followers: followers, Followings: followings}, nil
}

// adjust moves both counters by the same delta and records the flag.
func (e *Engine) adjust(ctx context.Context, followerID uint, target models.Ref, created bool) error {
	if created {
		if err := e.counters.Increment(ctx, counter.FollowersKey(target)); err != nil {
			return err
		}
		if err := e.counters.Increment(ctx, counter.FollowingsKey(followerID)); err != nil {
			return err
		}
		return e.counters.Set(ctx, counter.FollowedKey(followerID, target), 1)
	}

	if err := e.counters.Decrement(ctx, counter.FollowersKey(target)); err != nil {
		return err
	}
	if err := e.counters.Decrement(ctx, counter.FollowingsKey(followerID)); err != nil {
		return err
	}
	return e.counters.Set(ctx, counter.FollowedKey(followerID, target), 0)
}

func (e *Engine) followers(ctx context.Context, target models.Ref) (int64, error) {
	return e.counters.RememberForever(ctx, counter.FollowersKey(target), func(ctx context.Context) (int64, error) {
		return e.store.CountFollowers(ctx, target)
	})
}

func (e *Engine) followings(ctx context.Context, followerID uint) (int64, error) {
	return e.counters.RememberForever(ctx, counter.FollowingsKey(followerID), func(ctx context.Context) (int64, error) {
		return e.store.CountFollowings(ctx, followerID)
	})
}
