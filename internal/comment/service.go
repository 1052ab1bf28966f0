// Package comment implements threaded comments on any reactable
// target. Nesting is capped at one level of replies; comment likes
// reuse the reaction engine with the "comment" kind.
package comment

import (
	"context"
	"strings"

	"github.com/mnuddindev/pulsefeed/internal/counter"
	"github.com/mnuddindev/pulsefeed/internal/models"
	"github.com/mnuddindev/pulsefeed/internal/reaction"
	"github.com/mnuddindev/pulsefeed/internal/registry"
	"github.com/mnuddindev/pulsefeed/pkg/utils"
)

// Policy holds the caller-supplied content length bounds.
type Policy struct {
	MinLen int
	MaxLen int
}

// Enriched is a comment with its counters and the viewer's like flag.
type Enriched struct {
	models.Comment
	Replies int64 `json:"replies"`
	Likes   int64 `json:"likes"`
	Liked   bool  `json:"liked"`
}

type Service struct {
	store     Store
	counters  counter.Store
	reg       *registry.Registry
	reactions *reaction.Engine
	policy    Policy
}

func NewService(store Store, counters counter.Store, reg *registry.Registry, reactions *reaction.Engine, policy Policy) *Service {
	return &Service{store: store, counters: counters, reg: reg, reactions: reactions, policy: policy}
}

// Add creates a comment or reply on target. A reply's parent must be a
// top-level comment attached to the same target; the caller's target
// is validated against the parent's rather than trusted.
func (s *Service) Add(ctx context.Context, target models.Ref, authorID uint, content string, parentID *uint) (*models.Comment, error) {
	if _, err := s.reg.LoadData(ctx, target.Kind, target.ID); err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if len(content) < s.policy.MinLen {
		return nil, utils.Validation("content", "too short")
	}
	if s.policy.MaxLen > 0 && len(content) > s.policy.MaxLen {
		return nil, utils.Validation("content", "too long")
	}

	if parentID != nil {
		parent, err := s.store.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.ParentID != nil {
			return nil, utils.Validation("parent_id", "replies cannot be nested")
		}
		if parent.Target() != target {
			return nil, utils.Validation("parent_id", "parent belongs to a different target")
		}
	}

	// Warm the destination counter before the row lands, so the
	// increment applies on top of the true prior count.
	if parentID == nil {
		if _, err := s.topLevelCount(ctx, target); err != nil {
			return nil, err
		}
	} else {
		if _, err := s.replyCount(ctx, *parentID); err != nil {
			return nil, err
		}
	}

	c := &models.Comment{
		Content:    content,
		AuthorID:   authorID,
		TargetKind: target.Kind,
		TargetID:   target.ID,
		ParentID:   parentID,
	}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}

	if parentID == nil {
		if err := s.counters.Increment(ctx, counter.CommentsKey(target)); err != nil {
			return nil, err
		}
	} else {
		if err := s.counters.Increment(ctx, counter.RepliesKey(*parentID)); err != nil {
			return nil, err
		}
	}

	if err := s.counters.Set(ctx, counter.CommentedKey(authorID, target), 1); err != nil {
		return nil, err
	}

	return c, nil
}

// List returns a page of top-level comments, newest first, enriched
// with reply counts, like counts, and the viewer's liked flag. A nil
// viewer is anonymous: liked is always false.
func (s *Service) List(ctx context.Context, target models.Ref, viewer *uint, page, limit int) ([]Enriched, error) {
	if _, err := s.reg.LoadData(ctx, target.Kind, target.ID); err != nil {
		return nil, err
	}

	comments, err := s.store.ListByTarget(ctx, target, page, limit)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, comments, viewer)
}

// ListReplies returns a page of replies to one comment.
func (s *Service) ListReplies(ctx context.Context, commentID uint, viewer *uint, page, limit int) ([]Enriched, error) {
	parent, err := s.store.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	replies, err := s.store.ListReplies(ctx, parent.ID, page, limit)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, replies, viewer)
}

// Delete removes the actor's comment. Deleting a top-level comment
// takes its replies with it, so every cascaded reply's reaction state
// is dropped too, and the commented flag is recomputed for each author
// who lost a comment.
func (s *Service) Delete(ctx context.Context, id, actorID uint) error {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.AuthorID != actorID {
		return utils.ErrForbidden
	}

	target := c.Target()

	// Warm the affected counter and capture the replies the store is
	// about to cascade away, both before the rows disappear.
	var replies []models.Comment
	if c.ParentID == nil {
		replies, err = s.store.ListAllReplies(ctx, c.ID)
		if err != nil {
			return err
		}
		if _, err := s.topLevelCount(ctx, target); err != nil {
			return err
		}
	} else {
		if _, err := s.replyCount(ctx, *c.ParentID); err != nil {
			return err
		}
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	if c.ParentID == nil {
		if err := s.counters.Decrement(ctx, counter.CommentsKey(target)); err != nil {
			return err
		}
	} else {
		if err := s.counters.Decrement(ctx, counter.RepliesKey(*c.ParentID)); err != nil {
			return err
		}
	}

	// Drop reaction rows, counters, and flags for the comment and for
	// every reply that went down with it.
	if err := s.reactions.Forget(ctx, c.Ref()); err != nil {
		return err
	}
	for i := range replies {
		if err := s.reactions.Forget(ctx, replies[i].Ref()); err != nil {
			return err
		}
	}

	// Recompute the commented flag for each author who lost a comment.
	authors := map[uint]struct{}{c.AuthorID: {}}
	for i := range replies {
		authors[replies[i].AuthorID] = struct{}{}
	}
	for author := range authors {
		remaining, err := s.store.CountByAuthor(ctx, author, target)
		if err != nil {
			return err
		}
		if remaining == 0 {
			if err := s.counters.Forget(ctx, counter.CommentedKey(author, target)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Service) enrich(ctx context.Context, comments []models.Comment, viewer *uint) ([]Enriched, error) {
	out := make([]Enriched, 0, len(comments))
	for _, c := range comments {
		replies := int64(0)
		if c.ParentID == nil {
			var err error
			replies, err = s.replyCount(ctx, c.ID)
			if err != nil {
				return nil, err
			}
		}

		st, err := s.reactions.StateFor(ctx, c.Ref(), viewer)
		if err != nil {
			return nil, err
		}

		out = append(out, Enriched{
			Comment: c,
			Replies: replies,
			Likes:   st.Likes,
			Liked:   st.Liked,
		})
	}
	return out, nil
}

func (s *Service) topLevelCount(ctx context.Context, target models.Ref) (int64, error) {
	return s.counters.RememberForever(ctx, counter.CommentsKey(target), func(ctx context.Context) (int64, error) {
		return s.store.CountTopLevel(ctx, target)
	})
}

func (s *Service) replyCount(ctx context.Context, parentID uint) (int64, error) {
	return s.counters.RememberForever(ctx, counter.RepliesKey(parentID), func(ctx context.Context) (int64, error) {
		return s.store.CountReplies(ctx, parentID)
	})
}
