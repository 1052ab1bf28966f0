package reaction

import (
	"context"

	"github.com/mnuddindev/pulsefeed/internal/models"
)

// Relation names the three structurally identical reaction rows.
type Relation string

const (
	RelLike    Relation = "like"
	RelDislike Relation = "dislike"
	RelSave    Relation = "save"
)

// RelationStore is the durable store for reaction rows. CreateIfAbsent
// and DeleteIfPresent report whether they changed anything, so counter
// updates pair 1:1 with actual row changes and a racing duplicate
// toggle cannot drift the counters.
type RelationStore interface {
	Exists(ctx context.Context, rel Relation, userID uint, target models.Ref) (bool, error)
	CreateIfAbsent(ctx context.Context, rel Relation, userID uint, target models.Ref) (bool, error)
	DeleteIfPresent(ctx context.Context, rel Relation, userID uint, target models.Ref) (bool, error)
	CountForTarget(ctx context.Context, rel Relation, target models.Ref) (int64, error)

	// ListForUser returns the user's relation targets, newest first.
	// Backs the bookmark listing.
	ListForUser(ctx context.Context, rel Relation, userID uint, page, limit int) ([]models.Ref, error)

	// DeleteForTarget removes every row pointing at a target. Used when
	// the target entity itself is deleted.
	DeleteForTarget(ctx context.Context, rel Relation, target models.Ref) error
}
