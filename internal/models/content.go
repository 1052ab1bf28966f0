package models

import (
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Article is long-form editorial content.
type Article struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Title      string `gorm:"size:200;not null" json:"title" validate:"required,min=5,max=200"`
	Slug       string `gorm:"size:220;uniqueIndex;not null" json:"slug"`
	Body       string `gorm:"type:text;not null" json:"body" validate:"required"`
	AuthorID   uint   `gorm:"not null;index:idx_article_author" json:"author_id" validate:"required"`
	CategoryID *uint  `gorm:"index:idx_article_category" json:"category_id"`
	Published  bool   `gorm:"default:false;index" json:"published"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Author   User      `gorm:"foreignKey:AuthorID" json:"author,omitempty" validate:"-"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty" validate:"-"`
	Tags     []Tag     `gorm:"many2many:article_tags;" json:"tags,omitempty" validate:"-"`
}

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.Slug == "" {
		a.Slug = slug.Make(a.Title)
	}
	return nil
}

// Entry is a short free-form post.
type Entry struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Body     string `gorm:"type:text;not null" json:"body" validate:"required,max=2000"`
	AuthorID uint   `gorm:"not null;index:idx_entry_author" json:"author_id" validate:"required"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty" validate:"-"`
}

// NewsItem is a curated external or staff-written news post.
type NewsItem struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Title     string `gorm:"size:200;not null" json:"title" validate:"required,max=200"`
	Slug      string `gorm:"size:220;uniqueIndex;not null" json:"slug"`
	Summary   string `gorm:"type:text" json:"summary"`
	SourceURL string `gorm:"size:255" json:"source_url" validate:"omitempty,url"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (n *NewsItem) BeforeCreate(tx *gorm.DB) error {
	if n.Slug == "" {
		n.Slug = slug.Make(n.Title)
	}
	return nil
}

// Page is static editorial content (about, help, ...).
type Page struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Title string `gorm:"size:200;not null" json:"title" validate:"required,max=200"`
	Slug  string `gorm:"size:220;uniqueIndex;not null" json:"slug"`
	Body  string `gorm:"type:text;not null" json:"body" validate:"required"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Page) BeforeCreate(tx *gorm.DB) error {
	if p.Slug == "" {
		p.Slug = slug.Make(p.Title)
	}
	return nil
}

// Course is structured learning content.
type Course struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title" validate:"required,max=200"`
	Slug        string `gorm:"size:220;uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	AuthorID    uint   `gorm:"not null;index:idx_course_author" json:"author_id" validate:"required"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty" validate:"-"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = slug.Make(c.Title)
	}
	return nil
}

type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name" validate:"required,max=100"`
	Slug        string `gorm:"size:120;uniqueIndex;not null" json:"slug"`
	Highlighted bool   `gorm:"default:false;index" json:"highlighted"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = slug.Make(c.Name)
	}
	return nil
}

type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name" validate:"required,max=100"`
	Slug string `gorm:"size:120;uniqueIndex;not null" json:"slug"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.Slug == "" {
		t.Slug = slug.Make(t.Name)
	}
	return nil
}
