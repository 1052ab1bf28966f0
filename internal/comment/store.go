package comment

import (
	"context"

	"github.com/mnuddindev/pulsefeed/internal/models"
)

// Store is the durable store for comment rows.
type Store interface {
	Create(ctx context.Context, c *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)

	// ListByTarget returns top-level comments, newest first.
	ListByTarget(ctx context.Context, target models.Ref, page, limit int) ([]models.Comment, error)

	// ListReplies returns replies to one comment, oldest first.
	ListReplies(ctx context.Context, parentID uint, page, limit int) ([]models.Comment, error)

	// ListAllReplies returns every reply to one comment, unpaginated.
	// Delete uses it to clean up state for rows the cascade removes.
	ListAllReplies(ctx context.Context, parentID uint) ([]models.Comment, error)

	// Delete removes a comment and, for a top-level comment, its
	// replies.
	Delete(ctx context.Context, id uint) error

	CountTopLevel(ctx context.Context, target models.Ref) (int64, error)
	CountReplies(ctx context.Context, parentID uint) (int64, error)
	CountByAuthor(ctx context.Context, authorID uint, target models.Ref) (int64, error)
}
