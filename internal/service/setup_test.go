package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/alexanderramin/gridlayout/internal/domain"
	"github.com/alexanderramin/gridlayout/internal/itemtype"
	"github.com/alexanderramin/gridlayout/internal/render"
	"github.com/alexanderramin/gridlayout/internal/repository"
	"github.com/alexanderramin/gridlayout/internal/testutil"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingObserver) last() UseCaseEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

type testServices struct {
	database *sql.DB
	types    *itemtype.Registry
	layouts  *repository.SQLiteLayoutRepo
	tokens   *repository.SQLiteTokenRepo
	observer *recordingObserver

	layout LayoutService
	edit   EditService
	token  TokenService
	page   PageService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	database := testutil.NewTestDB(t)
	types := testutil.NewTestRegistry(t)
	layouts := repository.NewSQLiteLayoutRepo(database, types)
	tokens := repository.NewSQLiteTokenRepo(database)
	obs := &recordingObserver{}
	renderer := render.NewRenderer(types)
	return &testServices{
		database: database,
		types:    types,
		layouts:  layouts,
		tokens:   tokens,
		observer: obs,
		layout:   NewLayoutService(layouts, tokens, renderer, "/", obs),
		edit:     NewEditService(layouts, types, obs),
		token:    NewTokenService(tokens, layouts, obs),
		page:     NewPageService(layouts, tokens, renderer, "/", "content", obs),
	}
}

// complexLayout creates and stores a layout holding the complex fixture.
func (s *testServices) complexLayout(t *testing.T, attrs domain.Attributes) *domain.Layout {
	t.Helper()
	ctx := context.Background()
	l, err := s.layouts.Create(ctx, attrs)
	require.NoError(t, err)
	testutil.BuildComplexLayout(t, s.types, l)
	require.NoError(t, s.layouts.Update(ctx, l))
	return l
}

func (s *testServices) outline(t *testing.T, id int64) string {
	t.Helper()
	out, err := s.layout.Outline(context.Background(), id)
	require.NoError(t, err)
	return out
}
