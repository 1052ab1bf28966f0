// Package recommender talks to the external ranking service. The
// service is a black box: it returns ordered opaque item references
// for personalized or trending feeds, and ingests feedback and item
// change notifications best-effort.
package recommender

import (
	"context"

	"github.com/mnuddindev/pulsefeed/internal/models"
)

type Mode string

const (
	ModePersonalized Mode = "personalized"
	ModeTrending     Mode = "trending"
)

// ItemRef is one ranked reference returned by the recommender. The ID
// is opaque to the pipeline until resolved through the registry.
type ItemRef struct {
	Kind string `json:"kind"`
	ID   uint   `json:"id"`
}

// Query describes one ranked-list request.
type Query struct {
	// UserID is nil for anonymous (trending) requests.
	UserID *uint `json:"user_id,omitempty"`

	// Scope restricts results to items related to one entity
	// (category, tag, user, article, or entry). Nil means unscoped.
	Scope *models.Ref `json:"scope,omitempty"`

	Limit  int  `json:"limit"`
	Offset int  `json:"offset"`
	Mode   Mode `json:"mode"`
}

// Feedback is a fire-and-forget user action notification.
type Feedback struct {
	Reaction  string     `json:"reaction"`
	UserID    uint       `json:"user_id"`
	Target    models.Ref `json:"target"`
	Timestamp int64      `json:"timestamp"`
}

// Client is the recommender contract consumed by the feed pipeline and
// the event forwarder.
type Client interface {
	// Rank returns an ordered list of opaque item references. An empty
	// list is the normal "no more content" terminal state.
	Rank(ctx context.Context, q Query) ([]ItemRef, error)

	SendFeedback(ctx context.Context, fb Feedback) error
	UpsertItem(ctx context.Context, target models.Ref) error
	DeleteItem(ctx context.Context, target models.Ref) error
}
