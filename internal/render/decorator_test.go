package render

import (
	"context"
	"strings"
	"testing"

	"github.com/alexanderramin/gridlayout/internal/domain"
	"github.com/alexanderramin/gridlayout/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	token    string
	editable map[int64]bool
}

func (s fakeSession) CanEdit(layoutID int64) bool { return s.editable[layoutID] }
func (s fakeSession) CurrentToken() string        { return s.token }

func TestEditDecorator_DecoratesEditableLayout(t *testing.T) {
	types := testutil.NewTestRegistry(t)
	l := complexLayout(t, types)
	session := fakeSession{token: "tok", editable: map[int64]bool{1: true}}

	out := NewRenderer(types).Render(context.Background(), l.TopLevel(), NewEditDecorator(session, "/base/"))

	assert.True(t, strings.HasPrefix(out, `<div class="container-fluid" data-contains="0" data-id="1">`))
	assert.Contains(t, out, `<span class="title">Top level container</span>`)
	assert.Equal(t, 3, strings.Count(out, `<span class="title">Columns container</span>`))
	assert.Equal(t, 7, strings.Count(out, `<span class="title">Column</span>`))
	assert.Equal(t, 14, strings.Count(out, `<span class="title">Item</span>`))
	assert.Equal(t, 14, strings.Count(out, ` data-item>`))
	assert.Equal(t, 7, strings.Count(out, `data-contains="1"`))
	assert.Contains(t, out, `<div class="row" data-id="C1">`)
	assert.Contains(t, out, `<div class="col-md-6" data-contains="1" data-id="C11">`)
	assert.Contains(t, out, `<li class="divider"></li>`)
}

func TestEditDecorator_ItemLinks(t *testing.T) {
	types := testutil.NewTestRegistry(t)
	l := domain.NewLayout(3, domain.Attributes{})
	item := types.Create("a", 1, nil)
	item.ID = "I"
	require.NoError(t, l.TopLevel().Append(item))
	session := fakeSession{token: "tok", editable: map[int64]bool{3: true}}

	out := NewRenderer(types).Render(context.Background(), l.TopLevel(), NewEditDecorator(session, "/base"))

	assert.Contains(t, out, `<div data-id="I" data-item>`)
	assert.Contains(t, out, `href="/base/layout/ajax/move?containerId=3&amp;itemId=I&amp;layoutId=3&amp;newPosition=0&amp;tokenString=tok"`)
	assert.Contains(t, out, `href="/base/layout/ajax/move?containerId=3&amp;itemId=I&amp;layoutId=3&amp;newPosition=1&amp;tokenString=tok"`)
	assert.Contains(t, out, `href="/base/layout/callback/edit-item?itemId=I&amp;layoutId=3&amp;tokenString=tok"`)
	assert.Contains(t, out, `href="/base/layout/ajax/remove?itemId=I&amp;layoutId=3&amp;tokenString=tok"`)
	assert.Contains(t, out, `href="/base/layout/ajax/add-column-container?columnCount=2&amp;containerId=3&amp;layoutId=3&amp;position=1&amp;tokenString=tok"`)
	assert.Contains(t, out, `<span class="glyphicon glyphicon-chevron-up" aria-hidden="true"></span> Move to top`)
}

func TestEditDecorator_ColumnLinksTargetParent(t *testing.T) {
	types := testutil.NewTestRegistry(t)
	l := domain.NewLayout(1, domain.Attributes{})
	h := domain.NewHorizontal("H")
	require.NoError(t, l.TopLevel().Append(h))
	_, err := h.AppendColumn("L")
	require.NoError(t, err)
	_, err = h.AppendColumn("R")
	require.NoError(t, err)
	session := fakeSession{token: "t", editable: map[int64]bool{1: true}}

	out := NewRenderer(types).Render(context.Background(), l.TopLevel(), NewEditDecorator(session, ""))

	assert.Contains(t, out, `/layout/ajax/add-column?containerId=H&amp;layoutId=1&amp;position=2&amp;tokenString=t">`+
		`<span class="glyphicon glyphicon-chevron-right" aria-hidden="true"></span> Add column after`)
	assert.Contains(t, out, `/layout/ajax/remove-column?containerId=H&amp;layoutId=1&amp;position=1&amp;tokenString=t">`)
	assert.Contains(t, out, `/layout/ajax/remove?itemId=H&amp;layoutId=1&amp;tokenString=t">`)
}

func TestEditDecorator_UncoveredLayoutRendersPlain(t *testing.T) {
	types := testutil.NewTestRegistry(t)
	l := complexLayout(t, types)
	r := NewRenderer(types)

	plain := r.Render(context.Background(), l.TopLevel(), BootstrapGrid{})
	other := fakeSession{token: "tok", editable: map[int64]bool{2: true}}
	decorated := r.Render(context.Background(), l.TopLevel(), NewEditDecorator(other, "/"))

	assert.Equal(t, plain, decorated)
	assert.NotContains(t, decorated, "layout-menu")
	assert.NotContains(t, decorated, "data-id")
}

func TestGridFor(t *testing.T) {
	assert.IsType(t, BootstrapGrid{}, GridFor(nil, "/"))
	assert.IsType(t, BootstrapGrid{}, GridFor(fakeSession{}, "/"))
	assert.IsType(t, &EditDecorator{}, GridFor(fakeSession{token: "x"}, "/"))
}
