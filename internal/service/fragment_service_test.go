package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/gridlayout/internal/domain"
	"github.com/alexanderramin/gridlayout/internal/repository"
	"github.com/alexanderramin/gridlayout/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFragmentService_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	obs := &recordingObserver{}
	svc := NewFragmentService(repository.NewSQLiteFragmentRepo(testutil.NewTestDB(t)), obs)

	f, err := svc.Create(ctx, "  ", "<p>hello</p>")
	require.NoError(t, err)
	assert.NotZero(t, f.ID)
	assert.Equal(t, "Untitled", f.Title)
	assert.Equal(t, f.ID, obs.last().Fields["fragment_id"])

	got, err := svc.Get(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "<p>hello</p>", got.Body)

	_, err = svc.Create(ctx, "empty", " \n")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.False(t, obs.last().Success)

	_, err = svc.Get(ctx, 404)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
