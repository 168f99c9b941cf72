// Package itemtype holds the registry of leaf item types. The layout core
// manages structure only; everything an item shows comes from the type it
// was registered under.
package itemtype

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/alexanderramin/gridlayout/internal/domain"
)

var (
	// ErrTypeAlreadyExists is returned when registering a duplicate type id.
	ErrTypeAlreadyExists = errors.New("item type already registered")
	// ErrUnknownType is returned by strict lookups and by the null type.
	ErrUnknownType = errors.New("unknown item type")
)

// Type constructs and renders items of one kind.
type Type interface {
	ID() string
	// Create hydrates an item node from its payload id and options.
	Create(payloadID int64, opts domain.Options) *domain.Node
	// Render returns the item's inner markup.
	Render(ctx context.Context, item *domain.Node) (string, error)
}

// Preloader is implemented by types that can batch-load the payloads of
// every item about to be rendered.
type Preloader interface {
	Preload(ctx context.Context, items []*domain.Node) error
}

// Registry maps type identifiers to types. It is safe for concurrent use;
// types are usually registered once at startup.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Type
}

func NewRegistry() *Registry {
	return &Registry{types: make(map[string]Type)}
}

// Register adds t under t.ID().
func (r *Registry) Register(t Type) error {
	if t == nil || t.ID() == "" {
		return fmt.Errorf("registering item type: %w", domain.ErrValidation)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[t.ID()]; exists {
		return fmt.Errorf("item type %q: %w", t.ID(), ErrTypeAlreadyExists)
	}
	r.types[t.ID()] = t
	return nil
}

// Lookup returns the type registered under id.
func (r *Registry) Lookup(id string) (Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[id]
	if !ok {
		return nil, fmt.Errorf("item type %q: %w", id, ErrUnknownType)
	}
	return t, nil
}

// Get returns the type registered under id, or a null type that still
// hydrates items but fails to render them. Layouts referencing uninstalled
// types keep loading.
func (r *Registry) Get(id string) Type {
	if t, err := r.Lookup(id); err == nil {
		return t
	}
	return nullType{id: id}
}

// IDs returns the registered type identifiers in lexical order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.types))
	for id := range r.types {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Create hydrates an item through the type registered under typeID.
func (r *Registry) Create(typeID string, payloadID int64, opts domain.Options) *domain.Node {
	return r.Get(typeID).Create(payloadID, opts)
}

type nullType struct {
	id string
}

func (t nullType) ID() string { return t.id }

func (t nullType) Create(payloadID int64, opts domain.Options) *domain.Node {
	return domain.NewItem(t.id, payloadID, opts)
}

func (t nullType) Render(context.Context, *domain.Node) (string, error) {
	return "", fmt.Errorf("item type %q: %w", t.id, ErrUnknownType)
}

// RenderFunc renders one item.
type RenderFunc func(ctx context.Context, item *domain.Node) (string, error)

// FuncType adapts a render function into a Type.
type FuncType struct {
	TypeID string
	Fn     RenderFunc
}

func (t FuncType) ID() string { return t.TypeID }

func (t FuncType) Create(payloadID int64, opts domain.Options) *domain.Node {
	return domain.NewItem(t.TypeID, payloadID, opts)
}

func (t FuncType) Render(ctx context.Context, item *domain.Node) (string, error) {
	if t.Fn == nil {
		return "", nil
	}
	return t.Fn(ctx, item)
}
