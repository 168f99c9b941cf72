package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/alexanderramin/gridlayout/internal/domain"
	"github.com/alexanderramin/gridlayout/internal/repository"
	"github.com/alexanderramin/gridlayout/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutService_CreateListDelete(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	l1, err := s.layout.Create(ctx, domain.Attributes{SiteID: testutil.Int64(5)})
	require.NoError(t, err)
	_, err = s.layout.Create(ctx, domain.Attributes{SiteID: testutil.Int64(6)})
	require.NoError(t, err)
	l3, err := s.layout.Create(ctx, domain.Attributes{SiteID: testutil.Int64(5)})
	require.NoError(t, err)
	assert.Equal(t, "create-layout", s.observer.last().Name)
	assert.Equal(t, l3.ID, s.observer.last().Fields["layout_id"])

	got, err := s.layout.List(ctx, map[string]any{"site_id": 5})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, l1.ID, got[0].ID)
	assert.Equal(t, l3.ID, got[1].ID)

	_, err = s.layout.List(ctx, map[string]any{"colour": "red"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, s.layout.Delete(ctx, l1.ID))
	_, err = s.layout.Get(ctx, l1.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLayoutService_RenderReadOnlyAndEditable(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	l := s.complexLayout(t, domain.Attributes{})
	other := s.complexLayout(t, domain.Attributes{})

	plain, err := s.layout.Render(ctx, l.ID, "")
	require.NoError(t, err)
	assert.NotContains(t, plain, "layout-menu")
	assert.Contains(t, plain, `<span class="a">a/12</span>`)

	tok, err := s.token.Create(ctx, []int64{l.ID})
	require.NoError(t, err)

	edit, err := s.layout.Render(ctx, l.ID, tok.Token)
	require.NoError(t, err)
	assert.Contains(t, edit, "layout-menu")
	assert.Contains(t, edit, "tokenString="+tok.Token)
	assert.Equal(t, true, s.observer.last().Fields["editable"])
	assert.Equal(t, []int64{l.ID}, s.observer.last().Fields["token_layouts"])

	uncovered, err := s.layout.Render(ctx, other.ID, tok.Token)
	require.NoError(t, err)
	assert.NotContains(t, uncovered, "layout-menu")
	assert.Equal(t, false, s.observer.last().Fields["editable"])
	assert.Equal(t, []int64{l.ID}, s.observer.last().Fields["token_layouts"])
}

func TestLayoutService_StaleTokenDegradesToReadOnly(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	l := s.complexLayout(t, domain.Attributes{})

	plain, err := s.layout.Render(ctx, l.ID, "")
	require.NoError(t, err)
	stale, err := s.layout.Render(ctx, l.ID, "no-such-token")
	require.NoError(t, err)

	assert.Equal(t, plain, stale)
	ev := s.observer.last()
	assert.True(t, ev.Success)
	assert.Equal(t, true, ev.Fields["token_invalid"])
	assert.NotContains(t, ev.Fields, "token_layouts")
}

func TestLayoutService_RenderMissingLayout(t *testing.T) {
	s := newTestServices(t)
	_, err := s.layout.Render(context.Background(), 404, "")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.False(t, s.observer.last().Success)
}

func TestLayoutService_Outline(t *testing.T) {
	s := newTestServices(t)
	l := s.complexLayout(t, domain.Attributes{})
	assert.Equal(t, testutil.NormalizeOutline(testutil.ComplexLayoutOutline(l.ID)), s.outline(t, l.ID))
}

func TestLogUseCaseObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf)
	uc := startUseCase(obs, "move", map[string]any{"layout_id": int64(3)})
	var err error
	uc.done(context.Background(), &err)

	line := buf.String()
	assert.Contains(t, line, "msg=service_use_case")
	assert.Contains(t, line, "use_case=move")
	assert.Contains(t, line, "success=true")
	assert.Contains(t, line, "layout_id=3")
	assert.Equal(t, 1, strings.Count(line, "\n"))

	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
	assert.IsType(t, NoopUseCaseObserver{}, NewSlogUseCaseObserver(nil))
}
