package itemtype

import (
	"context"
	"sync"
)

type passKey struct{}

// Pass carries state an item type shares between Preload and Render during
// one render pass. It is dropped with the pass.
type Pass struct {
	mu     sync.Mutex
	values map[string]any
}

// WithPass returns ctx carrying a fresh Pass.
func WithPass(ctx context.Context) context.Context {
	return context.WithValue(ctx, passKey{}, &Pass{values: make(map[string]any)})
}

// PassFrom returns the pass of ctx, or nil outside a render pass. A nil Pass
// stores nothing.
func PassFrom(ctx context.Context) *Pass {
	p, _ := ctx.Value(passKey{}).(*Pass)
	return p
}

func (p *Pass) Load(key string) (any, bool) {
	if p == nil {
		return nil, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.values[key]
	return v, ok
}

func (p *Pass) Store(key string, v any) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[key] = v
}
