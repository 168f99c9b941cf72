package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/gridlayout/internal/domain"
	"github.com/alexanderramin/gridlayout/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRepo_CreateGetDelete(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	layouts := NewSQLiteLayoutRepo(database, testutil.NewTestRegistry(t))
	tokens := NewSQLiteTokenRepo(database)

	l1, err := layouts.Create(ctx, domain.Attributes{})
	require.NoError(t, err)
	l2, err := layouts.Create(ctx, domain.Attributes{})
	require.NoError(t, err)

	created := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, tokens.Create(ctx, &domain.EditToken{
		Token:     "abc",
		LayoutIDs: []int64{l2.ID, l1.ID, l2.ID},
		CreatedAt: created,
	}))

	got, err := tokens.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, []int64{l1.ID, l2.ID}, got.LayoutIDs)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.True(t, got.Covers(l1.ID))

	require.NoError(t, tokens.Delete(ctx, "abc"))
	_, err = tokens.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, tokens.Delete(ctx, "abc"), ErrNotFound)
}

func TestTokenRepo_UnknownLayoutRollsBack(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	tokens := NewSQLiteTokenRepo(database)

	err := tokens.Create(ctx, &domain.EditToken{Token: "bad", LayoutIDs: []int64{999}, CreatedAt: time.Now()})
	require.Error(t, err)

	_, err = tokens.Get(ctx, "bad")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokenRepo_DeletingLayoutDetachesToken(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	layouts := NewSQLiteLayoutRepo(database, testutil.NewTestRegistry(t))
	tokens := NewSQLiteTokenRepo(database)

	l, err := layouts.Create(ctx, domain.Attributes{})
	require.NoError(t, err)
	require.NoError(t, tokens.Create(ctx, &domain.EditToken{Token: "t", LayoutIDs: []int64{l.ID}, CreatedAt: time.Now()}))
	require.NoError(t, layouts.Delete(ctx, l.ID))

	got, err := tokens.Get(ctx, "t")
	require.NoError(t, err)
	assert.Empty(t, got.LayoutIDs)
}
