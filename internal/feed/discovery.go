package feed

import (
	"context"

	"github.com/mnuddindev/pulsefeed/internal/registry"
)

// Discovery is the aggregate "page chrome" data: top categories, top
// tags, and highlighted content. It has no ranking concerns and is
// independent of the recommender.
type Discovery struct {
	TopCategories []registry.Payload `json:"top_categories"`
	TopTags       []registry.Payload `json:"top_tags"`
	Highlights    []registry.Payload `json:"highlights"`
}

// Aggregates serves the cached discovery queries per content kind.
type Aggregates interface {
	TopCategories(ctx context.Context, limit int) ([]registry.Payload, error)
	TopTags(ctx context.Context, limit int) ([]registry.Payload, error)
	Highlights(ctx context.Context, limit int) ([]registry.Payload, error)
}

// Discover assembles the discovery block from the aggregate source.
func (p *Pipeline) Discover(ctx context.Context, agg Aggregates, limit int) (*Discovery, error) {
	if limit < 1 {
		limit = 5
	}

	categories, err := agg.TopCategories(ctx, limit)
	if err != nil {
		return nil, err
	}
	tags, err := agg.TopTags(ctx, limit)
	if err != nil {
		return nil, err
	}
	highlights, err := agg.Highlights(ctx, limit)
	if err != nil {
		return nil, err
	}

	return &Discovery{
		TopCategories: categories,
		TopTags:       tags,
		Highlights:    highlights,
	}, nil
}
