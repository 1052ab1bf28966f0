// Package models defines the persistent entities and the polymorphic
// reactable reference shared by the engines.
package models

import "fmt"

// Registered content kind names. Each kind is bound to its resolver and
// loader in the content-type registry at boot.
const (
	KindArticle  = "article"
	KindEntry    = "entry"
	KindNews     = "news"
	KindPage     = "page"
	KindCourse   = "course"
	KindCategory = "category"
	KindTag      = "tag"
	KindUser     = "user"
	KindComment  = "comment"
)

// Ref is a polymorphic pointer to any entity that participates in
// reactions, follows, or comments.
type Ref struct {
	Kind string `json:"kind"`
	ID   uint   `json:"id"`
}

// Key renders the reference as a cache key fragment, e.g. "article:42".
func (r Ref) Key() string {
	return fmt.Sprintf("%s:%d", r.Kind, r.ID)
}

func (r Ref) String() string { return r.Key() }

// AllModels lists every table for AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Article{},
		&Entry{},
		&NewsItem{},
		&Page{},
		&Course{},
		&Category{},
		&Tag{},
		&Like{},
		&Dislike{},
		&Bookmark{},
		&Follow{},
		&Comment{},
	}
}
