// Package editctx holds the per-request view of the layouts being shown and
// the edit session, if any, that may change them.
package editctx

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/alexanderramin/gridlayout/internal/domain"
	"github.com/alexanderramin/gridlayout/internal/repository"
)

// ErrInvalidToken is returned when an edit token does not resolve to a known
// session.
var ErrInvalidToken = errors.New("invalid edit token")

// Context collects the layouts of one request. It is not safe for
// concurrent use.
type Context struct {
	tokens   repository.TokenRepo
	layouts  map[int64]*domain.Layout
	editable map[int64]bool
	token    *domain.EditToken
}

func New(tokens repository.TokenRepo) *Context {
	return &Context{
		tokens:   tokens,
		layouts:  make(map[int64]*domain.Layout),
		editable: make(map[int64]bool),
	}
}

// Add registers layouts for this request. Adding a layout twice keeps the
// first instance; editable is sticky once set.
func (c *Context) Add(layouts []*domain.Layout, editable bool) {
	for _, l := range layouts {
		if l == nil {
			continue
		}
		if _, ok := c.layouts[l.ID]; !ok {
			c.layouts[l.ID] = l
		}
		if editable {
			c.editable[l.ID] = true
		}
	}
}

// Get returns the registered layout with the given id, or nil.
func (c *Context) Get(id int64) *domain.Layout {
	return c.layouts[id]
}

// GetAll returns the registered layouts ordered by id.
func (c *Context) GetAll() []*domain.Layout {
	out := make([]*domain.Layout, 0, len(c.layouts))
	for _, l := range c.layouts {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IsEditable reports whether the layout was added as editable.
func (c *Context) IsEditable(id int64) bool {
	return c.editable[id]
}

// ContainsEditableLayouts reports whether any registered layout is editable.
func (c *Context) ContainsEditableLayouts() bool {
	for id := range c.layouts {
		if c.editable[id] {
			return true
		}
	}
	return false
}

// SetCurrentToken resolves tokenString and makes it the session of this
// request. An unknown token leaves the context without a session and
// returns ErrInvalidToken.
func (c *Context) SetCurrentToken(ctx context.Context, tokenString string) error {
	c.token = nil
	if tokenString == "" {
		return fmt.Errorf("empty token: %w", ErrInvalidToken)
	}
	t, err := c.tokens.Get(ctx, tokenString)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("token %q: %w", tokenString, ErrInvalidToken)
		}
		return fmt.Errorf("loading edit token: %w", err)
	}
	c.token = t
	return nil
}

// HasToken reports whether an edit session is active.
func (c *Context) HasToken() bool { return c.token != nil }

// Token returns the active edit session, or nil.
func (c *Context) Token() *domain.EditToken { return c.token }

// CurrentToken returns the active token string, or "" without a session.
func (c *Context) CurrentToken() string {
	if c.token == nil {
		return ""
	}
	return c.token.Token
}

// CanEdit reports whether the active session covers layoutID.
func (c *Context) CanEdit(layoutID int64) bool {
	return c.token.Covers(layoutID)
}
