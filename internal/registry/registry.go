// Package registry maps content kind names to their identifier
// resolution and data loading functions. It is the single indirection
// point that keeps the reaction engine and the feed pipeline ignorant
// of concrete content types.
//
// Registration happens once during an explicit boot phase: content
// modules register against a Builder, then Freeze produces the
// immutable Registry handed to the engines. Reads after Freeze need no
// locking.
package registry

import (
	"context"

	"github.com/mnuddindev/pulsefeed/pkg/utils"
)

// Payload is one resolved content element, tagged with its kind so the
// caller can render type-appropriate cards.
type Payload struct {
	Kind string      `json:"kind"`
	Data interface{} `json:"data"`
}

// ContentType binds a kind name to its callbacks.
type ContentType struct {
	// ResolveID turns a slug into the entity identifier.
	ResolveID func(ctx context.Context, slug string) (uint, error)

	// LoadData fetches the rendering payload by identifier.
	LoadData func(ctx context.Context, id uint) (interface{}, error)

	// ListTab serves non-recommender feed tabs for this kind. Optional.
	ListTab func(ctx context.Context, tab string, page, limit int) ([]Payload, error)
}

// Builder collects registrations during boot.
type Builder struct {
	types map[string]ContentType
}

func NewBuilder() *Builder {
	return &Builder{types: make(map[string]ContentType)}
}

// Register binds a content type. Registration is idempotent per name;
// the last registration wins.
func (b *Builder) Register(name string, ct ContentType) {
	b.types[name] = ct
}

// Freeze produces the immutable registry.
func (b *Builder) Freeze() *Registry {
	frozen := make(map[string]ContentType, len(b.types))
	for name, ct := range b.types {
		frozen[name] = ct
	}
	return &Registry{types: frozen}
}

// Registry is read-only after Freeze and safe for concurrent reads.
type Registry struct {
	types map[string]ContentType
}

// Has reports whether the kind is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.types[name]
	return ok
}

// Kinds lists the registered kind names.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.types))
	for name := range r.types {
		kinds = append(kinds, name)
	}
	return kinds
}

// ResolveID resolves a slug to an identifier for the named kind.
func (r *Registry) ResolveID(ctx context.Context, name, slug string) (uint, error) {
	ct, ok := r.types[name]
	if !ok {
		return 0, utils.UnknownType(name)
	}
	return ct.ResolveID(ctx, slug)
}

// LoadData loads the rendering payload for the named kind.
func (r *Registry) LoadData(ctx context.Context, name string, id uint) (interface{}, error) {
	ct, ok := r.types[name]
	if !ok {
		return nil, utils.UnknownType(name)
	}
	return ct.LoadData(ctx, id)
}

// ListTab delegates a non-recommender feed tab to the kind's lister.
func (r *Registry) ListTab(ctx context.Context, name, tab string, page, limit int) ([]Payload, error) {
	ct, ok := r.types[name]
	if !ok {
		return nil, utils.UnknownType(name)
	}
	if ct.ListTab == nil {
		return nil, utils.Validation("tab", "kind "+name+" has no tab listing")
	}
	return ct.ListTab(ctx, tab, page, limit)
}
