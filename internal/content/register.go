// Package content binds the concrete content kinds to the content-type
// registry at boot. Each kind contributes a slug resolver, a data
// loader, and (for feed-visible kinds) a tab lister.
package content

import (
	"context"
	"errors"
	"strconv"

	"github.com/mnuddindev/pulsefeed/internal/models"
	"github.com/mnuddindev/pulsefeed/internal/registry"
	"github.com/mnuddindev/pulsefeed/pkg/utils"
	"gorm.io/gorm"
)

// RegisterAll registers every content kind against the builder. Called
// once during boot, before Freeze.
func RegisterAll(b *registry.Builder, db *gorm.DB) {
	b.Register(models.KindArticle, registry.ContentType{
		ResolveID: resolveBySlug[models.Article](db, models.KindArticle),
		LoadData:  loadByID[models.Article](db, models.KindArticle),
		ListTab:   listLatest[models.Article](db, models.KindArticle),
	})
	b.Register(models.KindEntry, registry.ContentType{
		// Entries have no slug; the path segment carries the numeric id.
		ResolveID: resolveNumeric(models.KindEntry),
		LoadData:  loadByID[models.Entry](db, models.KindEntry),
		ListTab:   listLatest[models.Entry](db, models.KindEntry),
	})
	b.Register(models.KindNews, registry.ContentType{
		ResolveID: resolveBySlug[models.NewsItem](db, models.KindNews),
		LoadData:  loadByID[models.NewsItem](db, models.KindNews),
		ListTab:   listLatest[models.NewsItem](db, models.KindNews),
	})
	b.Register(models.KindPage, registry.ContentType{
		ResolveID: resolveBySlug[models.Page](db, models.KindPage),
		LoadData:  loadByID[models.Page](db, models.KindPage),
	})
	b.Register(models.KindCourse, registry.ContentType{
		ResolveID: resolveBySlug[models.Course](db, models.KindCourse),
		LoadData:  loadByID[models.Course](db, models.KindCourse),
		ListTab:   listLatest[models.Course](db, models.KindCourse),
	})
	b.Register(models.KindCategory, registry.ContentType{
		ResolveID: resolveBySlug[models.Category](db, models.KindCategory),
		LoadData:  loadByID[models.Category](db, models.KindCategory),
	})
	b.Register(models.KindTag, registry.ContentType{
		ResolveID: resolveBySlug[models.Tag](db, models.KindTag),
		LoadData:  loadByID[models.Tag](db, models.KindTag),
	})
	b.Register(models.KindUser, registry.ContentType{
		ResolveID: resolveUser(db),
		LoadData:  loadByID[models.User](db, models.KindUser),
	})
	b.Register(models.KindComment, registry.ContentType{
		ResolveID: resolveNumeric(models.KindComment),
		LoadData:  loadByID[models.Comment](db, models.KindComment),
	})
}

// resolveBySlug builds a slug -> id resolver for slug-bearing kinds.
func resolveBySlug[T any](db *gorm.DB, kind string) func(ctx context.Context, slug string) (uint, error) {
	return func(ctx context.Context, slug string) (uint, error) {
		var row struct{ ID uint }
		var model T
		err := db.WithContext(ctx).Model(&model).Select("id").Where("slug = ?", slug).First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, utils.NotFound(kind + " " + slug)
			}
			return 0, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to resolve "+kind)
		}
		return row.ID, nil
	}
}

// resolveNumeric parses the identifier straight from the path segment.
func resolveNumeric(kind string) func(ctx context.Context, slug string) (uint, error) {
	return func(ctx context.Context, slug string) (uint, error) {
		id, err := strconv.ParseUint(slug, 10, 64)
		if err != nil || id == 0 {
			return 0, utils.NotFound(kind + " " + slug)
		}
		return uint(id), nil
	}
}

func resolveUser(db *gorm.DB) func(ctx context.Context, slug string) (uint, error) {
	return func(ctx context.Context, username string) (uint, error) {
		var row struct{ ID uint }
		err := db.WithContext(ctx).Model(&models.User{}).Select("id").Where("username = ?", username).First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, utils.NotFound("user " + username)
			}
			return 0, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to resolve user")
		}
		return row.ID, nil
	}
}

// loadByID builds the id -> payload loader for a kind.
func loadByID[T any](db *gorm.DB, kind string) func(ctx context.Context, id uint) (interface{}, error) {
	return func(ctx context.Context, id uint) (interface{}, error) {
		var row T
		err := db.WithContext(ctx).First(&row, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, utils.NotFound(models.Ref{Kind: kind, ID: id}.Key())
			}
			return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to load "+kind)
		}
		return &row, nil
	}
}

// listLatest serves the "latest" tab for feed-visible kinds.
func listLatest[T any](db *gorm.DB, kind string) func(ctx context.Context, tab string, page, limit int) ([]registry.Payload, error) {
	return func(ctx context.Context, tab string, page, limit int) ([]registry.Payload, error) {
		var rows []T
		var model T
		offset := (page - 1) * limit
		err := db.WithContext(ctx).
			Model(&model).
			Order("created_at DESC").
			Offset(offset).
			Limit(limit).
			Find(&rows).Error
		if err != nil {
			return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to list "+kind)
		}

		payloads := make([]registry.Payload, 0, len(rows))
		for i := range rows {
			payloads = append(payloads, registry.Payload{Kind: kind, Data: &rows[i]})
		}
		return payloads, nil
	}
}
