package repository

import (
	"context"

	"github.com/alexanderramin/gridlayout/internal/domain"
)

// LayoutRepo persists layouts as one summary row plus one row per node.
type LayoutRepo interface {
	Create(ctx context.Context, attrs domain.Attributes) (*domain.Layout, error)
	Load(ctx context.Context, id int64) (*domain.Layout, error)
	LoadMultiple(ctx context.Context, ids []int64) (map[int64]*domain.Layout, error)
	Update(ctx context.Context, l *domain.Layout) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
	ListWithConditions(ctx context.Context, conditions map[string]any) ([]int64, error)
}

type TokenRepo interface {
	Create(ctx context.Context, t *domain.EditToken) error
	Get(ctx context.Context, token string) (*domain.EditToken, error)
	Delete(ctx context.Context, token string) error
}

type FragmentRepo interface {
	Create(ctx context.Context, f *domain.Fragment) error
	GetByID(ctx context.Context, id int64) (*domain.Fragment, error)
	GetMany(ctx context.Context, ids []int64) (map[int64]*domain.Fragment, error)
}
