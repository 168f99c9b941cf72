package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/gridlayout/internal/domain"
	"github.com/alexanderramin/gridlayout/internal/editctx"
	"github.com/alexanderramin/gridlayout/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	l1, err := s.layout.Create(ctx, domain.Attributes{})
	require.NoError(t, err)
	l2, err := s.layout.Create(ctx, domain.Attributes{})
	require.NoError(t, err)

	_, err = s.token.Create(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = s.token.Create(ctx, []int64{l1.ID, 999})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	tok, err := s.token.Create(ctx, []int64{l1.ID})
	require.NoError(t, err)
	assert.Len(t, tok.Token, 36)

	got, err := s.token.Get(ctx, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, []int64{l1.ID}, got.LayoutIDs)

	assert.NoError(t, s.token.Authorize(ctx, tok.Token, l1.ID))
	assert.ErrorIs(t, s.token.Authorize(ctx, tok.Token, l2.ID), editctx.ErrInvalidToken)
	assert.ErrorIs(t, s.token.Authorize(ctx, "", l1.ID), editctx.ErrInvalidToken)
	assert.ErrorIs(t, s.token.Authorize(ctx, "bogus", l1.ID), editctx.ErrInvalidToken)

	both, err := s.token.Create(ctx, []int64{l2.ID, l1.ID, l2.ID})
	require.NoError(t, err)
	assert.Equal(t, []int64{l1.ID, l2.ID}, both.LayoutIDs, "sorted and deduplicated")

	require.NoError(t, s.token.Delete(ctx, tok.Token))
	assert.ErrorIs(t, s.token.Authorize(ctx, tok.Token, l1.ID), editctx.ErrInvalidToken)
}
