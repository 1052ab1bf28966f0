package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/mnuddindev/pulsefeed/internal/models"
	"github.com/mnuddindev/pulsefeed/internal/registry"
	storage "github.com/mnuddindev/pulsefeed/pkg/redis"
	"github.com/mnuddindev/pulsefeed/pkg/utils"
	"gorm.io/gorm"
)

const discoveryTTL = time.Hour

// GormAggregates serves discovery data from PostgreSQL with a Redis
// JSON cache in front, invalidated explicitly on content changes.
type GormAggregates struct {
	db      *gorm.DB
	rclient *storage.RedisClient
}

func NewGormAggregates(db *gorm.DB, rclient *storage.RedisClient) *GormAggregates {
	return &GormAggregates{db: db, rclient: rclient}
}

// TopCategories ranks categories by follower count.
func (a *GormAggregates) TopCategories(ctx context.Context, limit int) ([]registry.Payload, error) {
	return a.cached(ctx, fmt.Sprintf("discover:categories:%d", limit), func() ([]registry.Payload, error) {
		var categories []models.Category
		err := a.db.WithContext(ctx).
			Joins("LEFT JOIN follows ON follows.target_kind = ? AND follows.target_id = categories.id", models.KindCategory).
			Group("categories.id").
			Order("COUNT(follows.id) DESC").
			Limit(limit).
			Find(&categories).Error
		if err != nil {
			return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to fetch top categories")
		}
		return wrap(models.KindCategory, categories), nil
	})
}

// TopTags ranks tags by follower count.
func (a *GormAggregates) TopTags(ctx context.Context, limit int) ([]registry.Payload, error) {
	return a.cached(ctx, fmt.Sprintf("discover:tags:%d", limit), func() ([]registry.Payload, error) {
		var tags []models.Tag
		err := a.db.WithContext(ctx).
			Joins("LEFT JOIN follows ON follows.target_kind = ? AND follows.target_id = tags.id", models.KindTag).
			Group("tags.id").
			Order("COUNT(follows.id) DESC").
			Limit(limit).
			Find(&tags).Error
		if err != nil {
			return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to fetch top tags")
		}
		return wrap(models.KindTag, tags), nil
	})
}

// Highlights returns staff-highlighted categories' newest articles.
func (a *GormAggregates) Highlights(ctx context.Context, limit int) ([]registry.Payload, error) {
	return a.cached(ctx, fmt.Sprintf("discover:highlights:%d", limit), func() ([]registry.Payload, error) {
		var articles []models.Article
		err := a.db.WithContext(ctx).
			Joins("JOIN categories ON categories.id = articles.category_id AND categories.highlighted = true").
			Where("articles.published = true").
			Order("articles.created_at DESC").
			Limit(limit).
			Find(&articles).Error
		if err != nil {
			return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to fetch highlights")
		}
		return wrap(models.KindArticle, articles), nil
	})
}

// Invalidate drops the discovery cache after content changes.
func (a *GormAggregates) Invalidate(ctx context.Context) error {
	iter := a.rclient.Scan(ctx, 0, "discover:*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to scan discovery keys")
	}
	if len(keys) == 0 {
		return nil
	}
	return a.rclient.Del(ctx, keys...).Err()
}

func (a *GormAggregates) cached(ctx context.Context, key string, compute func() ([]registry.Payload, error)) ([]registry.Payload, error) {
	if cached, err := a.rclient.Get(ctx, key).Result(); err == nil {
		var payloads []registry.Payload
		if json.Unmarshal([]byte(cached), &payloads) == nil {
			return payloads, nil
		}
	}

	payloads, err := compute()
	if err != nil {
		return nil, err
	}

	data, _ := json.Marshal(payloads)
	a.rclient.Set(ctx, key, data, discoveryTTL)

	return payloads, nil
}

func wrap[T any](kind string, items []T) []registry.Payload {
	payloads := make([]registry.Payload, 0, len(items))
	for i := range items {
		payloads = append(payloads, registry.Payload{Kind: kind, Data: items[i]})
	}
	return payloads
}
