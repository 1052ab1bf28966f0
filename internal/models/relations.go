package models

import "time"

// Like, Dislike and Bookmark are structurally identical reaction rows.
// The unique pair index makes create-if-absent race-safe: a duplicate
// toggle hits the constraint instead of inserting a second row.

type Like struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     uint   `gorm:"not null;uniqueIndex:idx_like_pair;index:idx_like_user" json:"user_id"`
	TargetKind string `gorm:"size:50;not null;uniqueIndex:idx_like_pair;index:idx_like_target" json:"target_kind"`
	TargetID   uint   `gorm:"not null;uniqueIndex:idx_like_pair;index:idx_like_target" json:"target_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (l *Like) Target() Ref { return Ref{Kind: l.TargetKind, ID: l.TargetID} }

type Dislike struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     uint   `gorm:"not null;uniqueIndex:idx_dislike_pair;index:idx_dislike_user" json:"user_id"`
	TargetKind string `gorm:"size:50;not null;uniqueIndex:idx_dislike_pair;index:idx_dislike_target" json:"target_kind"`
	TargetID   uint   `gorm:"not null;uniqueIndex:idx_dislike_pair;index:idx_dislike_target" json:"target_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (d *Dislike) Target() Ref { return Ref{Kind: d.TargetKind, ID: d.TargetID} }

type Bookmark struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     uint   `gorm:"not null;uniqueIndex:idx_bookmark_pair;index:idx_bookmark_user" json:"user_id"`
	TargetKind string `gorm:"size:50;not null;uniqueIndex:idx_bookmark_pair;index:idx_bookmark_target" json:"target_kind"`
	TargetID   uint   `gorm:"not null;uniqueIndex:idx_bookmark_pair;index:idx_bookmark_target" json:"target_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (b *Bookmark) Target() Ref { return Ref{Kind: b.TargetKind, ID: b.TargetID} }

// Follow links a follower (always a user) to any followable target.
type Follow struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	FollowerID uint   `gorm:"not null;uniqueIndex:idx_follow_pair;index:idx_follow_follower" json:"follower_id"`
	TargetKind string `gorm:"size:50;not null;uniqueIndex:idx_follow_pair;index:idx_follow_target" json:"target_kind"`
	TargetID   uint   `gorm:"not null;uniqueIndex:idx_follow_pair;index:idx_follow_target" json:"target_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (f *Follow) Target() Ref { return Ref{Kind: f.TargetKind, ID: f.TargetID} }
