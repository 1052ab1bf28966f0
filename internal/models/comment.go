package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment attaches to any reactable target. Nesting is capped at one
// level: a reply's ParentID must reference a top-level comment.
type Comment struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Content    string `gorm:"type:text;not null" json:"content"`
	AuthorID   uint   `gorm:"not null;index:idx_comment_author" json:"author_id"`
	TargetKind string `gorm:"size:50;not null;index:idx_comment_target" json:"target_kind"`
	TargetID   uint   `gorm:"not null;index:idx_comment_target" json:"target_id"`
	ParentID   *uint  `gorm:"index:idx_comment_parent" json:"parent_id"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (c *Comment) Target() Ref { return Ref{Kind: c.TargetKind, ID: c.TargetID} }

// Ref returns the comment itself as a reactable target, so comment
// likes flow through the same reaction engine as content likes.
func (c *Comment) Ref() Ref { return Ref{Kind: KindComment, ID: c.ID} }
