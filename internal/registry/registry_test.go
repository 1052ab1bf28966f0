package registry

import (
	"context"
	"testing"

	"github.com/mnuddindev/pulsefeed/pkg/utils"
)

func stubType(id uint, data interface{}) ContentType {
	return ContentType{
		ResolveID: func(ctx context.Context, slug string) (uint, error) {
			return id, nil
		},
		LoadData: func(ctx context.Context, got uint) (interface{}, error) {
			return data, nil
		},
	}
}

func TestRegistryResolveAndLoad(t *testing.T) {
	b := NewBuilder()
	b.Register("article", stubType(42, "article-data"))
	reg := b.Freeze()

	ctx := context.Background()

	id, err := reg.ResolveID(ctx, "article", "go-generics")
	if err != nil {
		t.Fatalf("ResolveID() error = %v", err)
	}
	if id != 42 {
		t.Fatalf("ResolveID() = %d, want 42", id)
	}

	data, err := reg.LoadData(ctx, "article", id)
	if err != nil {
		t.Fatalf("LoadData() error = %v", err)
	}
	if data != "article-data" {
		t.Fatalf("LoadData() = %v, want article-data", data)
	}
}

func TestRegistryUnknownKind(t *testing.T) {
	reg := NewBuilder().Freeze()
	ctx := context.Background()

	if _, err := reg.ResolveID(ctx, "widget", "x"); !utils.IsUnknownType(err) {
		t.Fatalf("ResolveID() error = %v, want unknown-type", err)
	}
	if _, err := reg.LoadData(ctx, "widget", 1); !utils.IsUnknownType(err) {
		t.Fatalf("LoadData() error = %v, want unknown-type", err)
	}
	if _, err := reg.ListTab(ctx, "widget", "latest", 1, 10); !utils.IsUnknownType(err) {
		t.Fatalf("ListTab() error = %v, want unknown-type", err)
	}
	if reg.Has("widget") {
		t.Fatal("Has() = true for unregistered kind")
	}
}

func TestRegistryLastRegistrationWins(t *testing.T) {
	b := NewBuilder()
	b.Register("article", stubType(1, "first"))
	b.Register("article", stubType(2, "second"))
	reg := b.Freeze()

	id, err := reg.ResolveID(context.Background(), "article", "x")
	if err != nil {
		t.Fatalf("ResolveID() error = %v", err)
	}
	if id != 2 {
		t.Fatalf("ResolveID() = %d, want last registration to win", id)
	}
}

func TestRegistryListTabMissingLister(t *testing.T) {
	b := NewBuilder()
	b.Register("page", stubType(1, nil))
	reg := b.Freeze()

	_, err := reg.ListTab(context.Background(), "page", "latest", 1, 10)
	if !utils.IsValidation(err) {
		t.Fatalf("ListTab() error = %v, want validation", err)
	}
}

func TestRegistryKinds(t *testing.T) {
	b := NewBuilder()
	b.Register("article", stubType(1, nil))
	b.Register("tag", stubType(2, nil))
	reg := b.Freeze()

	kinds := reg.Kinds()
	if len(kinds) != 2 {
		t.Fatalf("Kinds() = %v, want 2 entries", kinds)
	}
	seen := map[string]bool{}
	for _, k := range kinds {
		seen[k] = true
	}
	if !seen["article"] || !seen["tag"] {
		t.Fatalf("Kinds() = %v, want article and tag", kinds)
	}
}

func TestFreezeSnapshotsBuilder(t *testing.T) {
	b := NewBuilder()
	b.Register("article", stubType(1, nil))
	reg := b.Freeze()

	// Registration after Freeze must not leak into the frozen registry.
	b.Register("tag", stubType(2, nil))

	if reg.Has("tag") {
		t.Fatal("registration after Freeze leaked into the registry")
	}
}
