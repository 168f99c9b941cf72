package repository

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/alexanderramin/gridlayout/internal/domain"
	"github.com/alexanderramin/gridlayout/internal/itemtype"
	"github.com/alexanderramin/gridlayout/internal/render"
	"github.com/alexanderramin/gridlayout/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLayoutRepo(t *testing.T) (*SQLiteLayoutRepo, *sql.DB, *itemtype.Registry) {
	t.Helper()
	database := testutil.NewTestDB(t)
	types := testutil.NewTestRegistry(t)
	return NewSQLiteLayoutRepo(database, types), database, types
}

func outline(t *testing.T, types *itemtype.Registry, l *domain.Layout) string {
	t.Helper()
	return render.NewRenderer(types).Render(context.Background(), l.TopLevel(), render.OutlineGrid{})
}

func countRows(t *testing.T, database *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(query, args...).Scan(&n))
	return n
}

func TestLayoutRepo_CreateAndLoad(t *testing.T) {
	repo, _, _ := newLayoutRepo(t)
	ctx := context.Background()

	l, err := repo.Create(ctx, domain.Attributes{})
	require.NoError(t, err)
	assert.NotZero(t, l.ID)
	assert.Nil(t, l.NodeID)
	assert.Nil(t, l.SiteID)
	assert.Nil(t, l.Region)
	assert.Equal(t, domain.KindTopLevel, l.TopLevel().Kind)
	assert.Equal(t, domain.NewTopLevel(l.ID).ID, l.TopLevel().ID)
	assert.False(t, l.CreatedAt.IsZero())

	other, err := repo.Load(ctx, l.ID)
	require.NoError(t, err)
	assert.NotSame(t, l, other)
	assert.Equal(t, l.ID, other.ID)
	assert.Equal(t, l.TopLevel().ID, other.TopLevel().ID)
	assert.True(t, other.TopLevel().IsEmpty())
	assert.True(t, l.CreatedAt.Equal(other.CreatedAt))
}

func TestLayoutRepo_CreateWithAttributes(t *testing.T) {
	repo, _, _ := newLayoutRepo(t)
	ctx := context.Background()

	l, err := repo.Create(ctx, domain.Attributes{
		NodeID: testutil.Int64(12),
		SiteID: testutil.Int64(3),
		Region: testutil.String("sidebar"),
	})
	require.NoError(t, err)

	loaded, err := repo.Load(ctx, l.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.NodeID)
	assert.Equal(t, int64(12), *loaded.NodeID)
	assert.Equal(t, int64(3), *loaded.SiteID)
	assert.Equal(t, "sidebar", *loaded.Region)
}

func TestLayoutRepo_LoadNotFound(t *testing.T) {
	repo, _, _ := newLayoutRepo(t)
	_, err := repo.Load(context.Background(), -1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLayoutRepo_LoadMultipleAllOK(t *testing.T) {
	repo, _, types := newLayoutRepo(t)
	ctx := context.Background()

	l1, err := repo.Create(ctx, domain.Attributes{})
	require.NoError(t, err)
	l2, err := repo.Create(ctx, domain.Attributes{})
	require.NoError(t, err)
	l3, err := repo.Create(ctx, domain.Attributes{})
	require.NoError(t, err)

	got, err := repo.LoadMultiple(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = repo.LoadMultiple(ctx, []int64{l1.ID, l3.ID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, l1.ID, got[l1.ID].ID)
	assert.Equal(t, l3.ID, got[l3.ID].ID)

	testutil.BuildComplexLayout(t, types, l2)
	testutil.BuildComplexLayout(t, types, l3)
	require.NoError(t, repo.Update(ctx, l2))
	require.NoError(t, repo.Update(ctx, l3))

	got, err = repo.LoadMultiple(ctx, []int64{l2.ID, l3.ID})
	require.NoError(t, err)
	assert.False(t, got[l2.ID].TopLevel().IsEmpty())
	assert.False(t, got[l3.ID].TopLevel().IsEmpty())
}

func TestLayoutRepo_LoadMultipleSomeMissing(t *testing.T) {
	repo, _, _ := newLayoutRepo(t)
	ctx := context.Background()

	l1, err := repo.Create(ctx, domain.Attributes{})
	require.NoError(t, err)

	got, err := repo.LoadMultiple(ctx, []int64{l1.ID, l1.ID + 1, l1.ID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, l1.ID, got[l1.ID].ID)
}

func TestLayoutRepo_ListWithConditions(t *testing.T) {
	repo, _, _ := newLayoutRepo(t)
	ctx := context.Background()

	_, err := repo.ListWithConditions(ctx, map[string]any{})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = repo.ListWithConditions(ctx, map[string]any{"foo": 1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	const node1, node2 = int64(101), int64(102)
	create := func(attrs domain.Attributes) int64 {
		t.Helper()
		l, err := repo.Create(ctx, attrs)
		require.NoError(t, err)
		return l.ID
	}
	l1 := create(domain.Attributes{NodeID: testutil.Int64(node1)})
	l2 := create(domain.Attributes{NodeID: testutil.Int64(node2), SiteID: testutil.Int64(999)})
	l3 := create(domain.Attributes{SiteID: testutil.Int64(666)})
	l4 := create(domain.Attributes{})
	l5 := create(domain.Attributes{})
	l6 := create(domain.Attributes{SiteID: testutil.Int64(666), Region: testutil.String("foo")})
	l7 := create(domain.Attributes{NodeID: testutil.Int64(node1), SiteID: testutil.Int64(999)})

	cases := []struct {
		name       string
		conditions map[string]any
		want       []int64
	}{
		{"no match", map[string]any{"node_id": 137}, nil},
		{"by site", map[string]any{"site_id": 666}, []int64{l3, l6}},
		{"by node", map[string]any{"node_id": node1}, []int64{l1, l7}},
		{"node with null site", map[string]any{"node_id": node1, "site_id": nil}, []int64{l1}},
		{"both null", map[string]any{"node_id": nil, "site_id": nil}, []int64{l4, l5}},
		{"typed nil pointer is null", map[string]any{"node_id": (*int64)(nil), "site_id": (*int64)(nil)}, []int64{l4, l5}},
		{"node and site", map[string]any{"node_id": testutil.Int64(node2), "site_id": 999}, []int64{l2}},
		{"by region", map[string]any{"region": "foo"}, []int64{l6}},
		{"region pointer", map[string]any{"region": testutil.String("foo")}, []int64{l6}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ids, err := repo.ListWithConditions(ctx, tc.conditions)
			require.NoError(t, err)
			assert.ElementsMatch(t, tc.want, ids)
		})
	}
}

func TestLayoutRepo_Exists(t *testing.T) {
	repo, _, _ := newLayoutRepo(t)
	ctx := context.Background()

	ok, err := repo.Exists(ctx, -1)
	require.NoError(t, err)
	assert.False(t, ok)

	l, err := repo.Create(ctx, domain.Attributes{})
	require.NoError(t, err)
	ok, err = repo.Exists(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLayoutRepo_DeleteWipesRows(t *testing.T) {
	repo, database, types := newLayoutRepo(t)
	ctx := context.Background()

	l, err := repo.Create(ctx, domain.Attributes{})
	require.NoError(t, err)
	testutil.BuildComplexLayout(t, types, l)
	require.NoError(t, repo.Update(ctx, l))
	assert.Equal(t, l.NodeCount(), countRows(t, database, `SELECT COUNT(*) FROM layout_data WHERE layout_id = ?`, l.ID))

	require.NoError(t, repo.Delete(ctx, l.ID))

	assert.Zero(t, countRows(t, database, `SELECT COUNT(*) FROM layout WHERE id = ?`, l.ID))
	assert.Zero(t, countRows(t, database, `SELECT COUNT(*) FROM layout_data WHERE layout_id = ?`, l.ID))
	ok, err := repo.Exists(ctx, l.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, repo.Delete(ctx, l.ID), ErrNotFound)
}

func TestLayoutRepo_UpdateMissingLayout(t *testing.T) {
	repo, _, _ := newLayoutRepo(t)
	err := repo.Update(context.Background(), domain.NewLayout(404, domain.Attributes{}))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLayoutRepo_CreateUpdateRoundTrip(t *testing.T) {
	repo, _, types := newLayoutRepo(t)
	ctx := context.Background()

	l, err := repo.Create(ctx, domain.Attributes{})
	require.NoError(t, err)
	testutil.BuildComplexLayout(t, types, l)

	want := testutil.NormalizeOutline(testutil.ComplexLayoutOutline(l.ID))
	require.Equal(t, want, outline(t, types, l))

	require.NoError(t, repo.Update(ctx, l))
	other, err := repo.Load(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, want, outline(t, types, other))

	b8 := other.TopLevel().At(1).ColumnAt(2).At(0)
	assert.True(t, b8.Options.Has("foo"))
	assert.False(t, b8.Options.Has("a"))
	assert.Equal(t, "bar", b8.Options.Get("foo", "nope"))
	c31 := other.TopLevel().At(1).ColumnAt(0)
	assert.Equal(t, 12, c31.Options.Get("a", "nope"))
	assert.Equal(t, "test", c31.Options.Get("b", "nope"))

	a1, copyA1 := other.Find(l.TopLevel().At(0).ColumnAt(0).At(0).ID), other.TopLevel().At(1).ColumnAt(2).At(2)
	require.NotNil(t, a1)
	assert.NotEqual(t, a1.ID, copyA1.ID)
	assert.Equal(t, a1.PayloadID, copyA1.PayloadID)

	_, err = other.TopLevel().RemoveAt(1)
	require.NoError(t, err)
	_, err = other.TopLevel().At(0).ColumnAt(0).RemoveAt(0)
	require.NoError(t, err)
	require.NoError(t, other.TopLevel().At(0).ColumnAt(1).At(0).RemoveColumnAt(1))
	_, err = other.TopLevel().RemoveAt(1)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, other))

	third, err := repo.Load(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, testutil.NormalizeOutline(testutil.TrimmedLayoutOutline(l.ID)), outline(t, types, third))
}

func TestLayoutRepo_StorageIDsStableAcrossSaves(t *testing.T) {
	repo, _, types := newLayoutRepo(t)
	ctx := context.Background()

	l, err := repo.Create(ctx, domain.Attributes{})
	require.NoError(t, err)
	item := types.Create("a", 5, domain.Options{"md": 4, "flag": true, "ratio": 0.5})
	require.NoError(t, l.TopLevel().Append(item))
	require.NoError(t, repo.Update(ctx, l))

	first, err := repo.Load(ctx, l.ID)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, first))
	second, err := repo.Load(ctx, l.ID)
	require.NoError(t, err)

	got := second.Find(item.ID)
	require.NotNil(t, got)
	assert.Equal(t, 0, got.Position())
	assert.Equal(t, "a", got.ItemType)
	assert.Equal(t, int64(5), got.PayloadID)
	assert.Equal(t, 4, got.Options.Get("md", nil))
	assert.Equal(t, true, got.Options.Get("flag", nil))
	assert.Equal(t, 0.5, got.Options.Get("ratio", nil))
}

func TestOptionsBlob_KeepsScalarTypes(t *testing.T) {
	in := domain.Options{
		"whole":    float64(1),
		"negative": float64(-3),
		"big":      float64(1e21),
		"frac":     0.25,
		"single":   float32(2),
		"int":      7,
		"digits":   "12",
		"word":     "true",
		"null":     "null",
		"flag":     false,
		"none":     nil,
	}
	blob, err := encodeOptions(in)
	require.NoError(t, err)
	out, err := decodeOptions(blob)
	require.NoError(t, err)

	assert.Equal(t, float64(1), out["whole"])
	assert.Equal(t, float64(-3), out["negative"])
	assert.Equal(t, float64(1e21), out["big"])
	assert.Equal(t, 0.25, out["frac"])
	assert.Equal(t, float64(2), out["single"])
	assert.Equal(t, 7, out["int"])
	assert.Equal(t, "12", out["digits"])
	assert.Equal(t, "true", out["word"])
	assert.Equal(t, "null", out["null"])
	assert.Equal(t, false, out["flag"])
	assert.Contains(t, out, "none")
	assert.Nil(t, out["none"])
}

func TestLayoutRepo_UnknownTypesStillLoad(t *testing.T) {
	repo, database, types := newLayoutRepo(t)
	ctx := context.Background()

	l, err := repo.Create(ctx, domain.Attributes{})
	require.NoError(t, err)
	require.NoError(t, l.TopLevel().Append(types.Create("uninstalled", 9, nil)))
	require.NoError(t, repo.Update(ctx, l))

	reloaded, err := NewSQLiteLayoutRepo(database, itemtype.NewRegistry()).Load(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "uninstalled", reloaded.TopLevel().At(0).ItemType)
}

func TestLayoutRepo_FailedUpdateRollsBack(t *testing.T) {
	database := testutil.NewTestDB(t)
	types := testutil.NewTestRegistry(t)
	ctx := context.Background()
	repo := NewSQLiteLayoutRepo(database, types)

	l, err := repo.Create(ctx, domain.Attributes{})
	require.NoError(t, err)
	testutil.BuildComplexLayout(t, types, l)
	require.NoError(t, repo.Update(ctx, l))
	before := outline(t, types, l)

	boom := errors.New("disk on fire")
	uow := &testutil.FailingStatementUoW{DB: database, Statement: "INSERT INTO layout_data", Occurrence: 3, Err: boom}
	failing := NewSQLiteLayoutRepoWithUoW(database, uow, types)
	_, err = l.Remove("C3")
	require.NoError(t, err)
	err = failing.Update(ctx, l)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 3, uow.Hits(), "old rows were already deleted when the third node insert failed")

	reloaded, err := repo.Load(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, before, outline(t, types, reloaded))
}

// Two editors working from the same snapshot: the later update replaces the
// earlier one's rows entirely. There is no conflict detection.
func TestLayoutRepo_LastWriteWins(t *testing.T) {
	repo, _, types := newLayoutRepo(t)
	ctx := context.Background()

	l, err := repo.Create(ctx, domain.Attributes{})
	require.NoError(t, err)
	testutil.BuildComplexLayout(t, types, l)
	require.NoError(t, repo.Update(ctx, l))

	alice, err := repo.Load(ctx, l.ID)
	require.NoError(t, err)
	bob, err := repo.Load(ctx, l.ID)
	require.NoError(t, err)

	require.NoError(t, alice.TopLevel().Append(types.Create("a", 77, nil)))
	require.NoError(t, repo.Update(ctx, alice))

	_, err = bob.Remove("C3")
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, bob))

	final, err := repo.Load(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, outline(t, types, bob), outline(t, types, final))
	assert.NotContains(t, outline(t, types, final), "leaf:a/77", "the earlier edit is lost")
}

func TestLayoutRepo_ConcurrentUpdatesNeverMix(t *testing.T) {
	database := testutil.NewTestFileDB(t)
	types := testutil.NewTestRegistry(t)
	repo := NewSQLiteLayoutRepo(database, types)
	ctx := context.Background()

	l, err := repo.Create(ctx, domain.Attributes{})
	require.NoError(t, err)

	const editors = 4
	candidates := make([]*domain.Layout, editors)
	outlines := make(map[string]bool, editors)
	for i := range candidates {
		c := domain.NewLayout(l.ID, domain.Attributes{})
		for j := 0; j <= i; j++ {
			require.NoError(t, c.TopLevel().Append(types.Create("a", int64(i*10+j), nil)))
		}
		candidates[i] = c
		outlines[outline(t, types, c)] = true
	}

	var wg sync.WaitGroup
	errs := make(chan error, editors*5)
	for _, c := range candidates {
		wg.Add(1)
		go func(c *domain.Layout) {
			defer wg.Done()
			for range 5 {
				if err := repo.Update(ctx, c); err != nil {
					errs <- err
				}
			}
		}(c)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	final, err := repo.Load(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, outlines[outline(t, types, final)], "final tree must be exactly one editor's tree")
}
