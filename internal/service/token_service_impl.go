package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/alexanderramin/gridlayout/internal/domain"
	"github.com/alexanderramin/gridlayout/internal/editctx"
	"github.com/alexanderramin/gridlayout/internal/repository"
	"github.com/google/uuid"
)

type tokenService struct {
	tokens   repository.TokenRepo
	layouts  repository.LayoutRepo
	observer UseCaseObserver
}

func NewTokenService(tokens repository.TokenRepo, layouts repository.LayoutRepo, observers ...UseCaseObserver) TokenService {
	return &tokenService{
		tokens:   tokens,
		layouts:  layouts,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *tokenService) Create(ctx context.Context, layoutIDs []int64) (t *domain.EditToken, err error) {
	uc := startUseCase(s.observer, "create-token", map[string]any{"layout_count": len(layoutIDs)})
	defer uc.done(ctx, &err)

	if len(layoutIDs) == 0 {
		return nil, fmt.Errorf("%w: an edit token needs at least one layout", domain.ErrValidation)
	}
	for _, id := range layoutIDs {
		ok, err := s.layouts.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("layout %d: %w", id, repository.ErrNotFound)
		}
	}

	t = &domain.EditToken{
		Token:     uuid.New().String(),
		LayoutIDs: slices.Compact(slices.Sorted(slices.Values(layoutIDs))),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.tokens.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *tokenService) Get(ctx context.Context, token string) (*domain.EditToken, error) {
	return s.tokens.Get(ctx, token)
}

func (s *tokenService) Delete(ctx context.Context, token string) (err error) {
	uc := startUseCase(s.observer, "delete-token", nil)
	defer uc.done(ctx, &err)
	return s.tokens.Delete(ctx, token)
}

func (s *tokenService) Authorize(ctx context.Context, token string, layoutID int64) error {
	if token == "" {
		return fmt.Errorf("missing token: %w", editctx.ErrInvalidToken)
	}
	t, err := s.tokens.Get(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("unknown token: %w", editctx.ErrInvalidToken)
		}
		return err
	}
	if !t.Covers(layoutID) {
		return fmt.Errorf("token does not cover layout %d: %w", layoutID, editctx.ErrInvalidToken)
	}
	return nil
}
