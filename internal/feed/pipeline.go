// Package feed assembles the personalized content feed: ranked opaque
// references from the external recommender, resolved through the
// content-type registry into a single ordered heterogeneous page.
package feed

import (
	"context"

	"github.com/mnuddindev/pulsefeed/internal/models"
	"github.com/mnuddindev/pulsefeed/internal/recommender"
	"github.com/mnuddindev/pulsefeed/internal/registry"
	"github.com/mnuddindev/pulsefeed/pkg/logger"
	"github.com/mnuddindev/pulsefeed/pkg/utils"
)

// TabAll is the recommender-backed default tab; every other tab is
// served by a per-kind content lister.
const TabAll = "all"

// tabKinds maps feed tabs to the content kind serving them.
var tabKinds = map[string]string{
	"articles": models.KindArticle,
	"entries":  models.KindEntry,
	"news":     models.KindNews,
	"courses":  models.KindCourse,
}

// Request describes one feed page request.
type Request struct {
	// Viewer is nil for anonymous visitors.
	Viewer *uint

	Tab   string
	Page  int
	Limit int

	// Scope restricts the feed to items related to one entity. At most
	// one scoping dimension per request.
	Scope *models.Ref
}

// Page is the assembled result, in recommender order.
type Page struct {
	Items []registry.Payload `json:"items"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

type Pipeline struct {
	rec recommender.Client
	reg *registry.Registry
	log *logger.Logger

	DefaultLimit int
}

func NewPipeline(rec recommender.Client, reg *registry.Registry, log *logger.Logger) *Pipeline {
	return &Pipeline{rec: rec, reg: reg, log: log, DefaultLimit: 10}
}

// Build assembles one feed page. The recommender's ranking order is
// preserved; references that no longer resolve are skipped, and an
// unreachable recommender degrades to an empty page instead of an
// error.
func (p *Pipeline) Build(ctx context.Context, req Request) (*Page, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = p.DefaultLimit
	}

	if req.Tab != "" && req.Tab != TabAll {
		return p.buildTab(ctx, req)
	}

	if req.Scope != nil && !p.reg.Has(req.Scope.Kind) {
		return nil, utils.UnknownType(req.Scope.Kind)
	}

	mode := recommender.ModeTrending
	if req.Viewer != nil {
		mode = recommender.ModePersonalized
	}

	refs, err := p.rec.Rank(ctx, recommender.Query{
		UserID: req.Viewer,
		Scope:  req.Scope,
		Limit:  req.Limit,
		Offset: (req.Page - 1) * req.Limit,
		Mode:   mode,
	})
	if err != nil {
		// Recommender trouble is expected operational noise, never a
		// user-facing failure on the read path.
		if p.log != nil {
			p.log.Warn(ctx).WithMeta(map[string]string{"error": err.Error()}).
				Logs("Recommender unavailable, serving empty feed page")
		}
		return &Page{Items: []registry.Payload{}, Page: req.Page, Limit: req.Limit}, nil
	}

	return &Page{
		Items: p.resolve(ctx, refs),
		Page:  req.Page,
		Limit: req.Limit,
	}, nil
}

// buildTab serves a non-recommender tab through the kind's lister.
func (p *Pipeline) buildTab(ctx context.Context, req Request) (*Page, error) {
	kind, ok := tabKinds[req.Tab]
	if !ok {
		return nil, utils.Validation("tab", "unknown tab "+req.Tab)
	}

	items, err := p.reg.ListTab(ctx, kind, req.Tab, req.Page, req.Limit)
	if err != nil {
		return nil, err
	}
	return &Page{Items: items, Page: req.Page, Limit: req.Limit}, nil
}

// resolve loads each reference in ranking order. Stale references
// (content deleted after being recommended) resolve to NotFound and
// are dropped without failing the page.
func (p *Pipeline) resolve(ctx context.Context, refs []recommender.ItemRef) []registry.Payload {
	items := make([]registry.Payload, 0, len(refs))
	for _, ref := range refs {
		if !p.reg.Has(ref.Kind) {
			if p.log != nil {
				p.log.Warn(ctx).WithMeta(map[string]string{"kind": ref.Kind}).
					Logs("Recommender returned unregistered kind, skipping")
			}
			continue
		}

		data, err := p.reg.LoadData(ctx, ref.Kind, ref.ID)
		if err != nil {
			if !utils.IsNotFound(err) && p.log != nil {
				p.log.Warn(ctx).WithMeta(map[string]string{
					"target": models.Ref{Kind: ref.Kind, ID: ref.ID}.Key(),
					"error":  err.Error(),
				}).Logs("Feed item failed to resolve, skipping")
			}
			continue
		}

		items = append(items, registry.Payload{Kind: ref.Kind, Data: data})
	}
	return items
}
