package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/gridlayout/internal/domain"
	"github.com/alexanderramin/gridlayout/internal/editctx"
	"github.com/alexanderramin/gridlayout/internal/render"
	"github.com/alexanderramin/gridlayout/internal/repository"
)

type layoutService struct {
	layouts  repository.LayoutRepo
	tokens   repository.TokenRepo
	renderer *render.Renderer
	baseURL  string
	observer UseCaseObserver
}

func NewLayoutService(
	layouts repository.LayoutRepo,
	tokens repository.TokenRepo,
	renderer *render.Renderer,
	baseURL string,
	observers ...UseCaseObserver,
) LayoutService {
	return &layoutService{
		layouts:  layouts,
		tokens:   tokens,
		renderer: renderer,
		baseURL:  baseURL,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *layoutService) Create(ctx context.Context, attrs domain.Attributes) (l *domain.Layout, err error) {
	uc := startUseCase(s.observer, "create-layout", nil)
	defer uc.done(ctx, &err)

	l, err = s.layouts.Create(ctx, attrs)
	if err != nil {
		return nil, err
	}
	uc.fields["layout_id"] = l.ID
	return l, nil
}

func (s *layoutService) Get(ctx context.Context, id int64) (*domain.Layout, error) {
	return s.layouts.Load(ctx, id)
}

func (s *layoutService) List(ctx context.Context, conditions map[string]any) ([]*domain.Layout, error) {
	return listLayouts(ctx, s.layouts, conditions)
}

func (s *layoutService) Delete(ctx context.Context, id int64) (err error) {
	uc := startUseCase(s.observer, "delete-layout", map[string]any{"layout_id": id})
	defer uc.done(ctx, &err)
	return s.layouts.Delete(ctx, id)
}

func (s *layoutService) Render(ctx context.Context, id int64, tokenString string) (out string, err error) {
	uc := startUseCase(s.observer, "render-layout", map[string]any{"layout_id": id})
	defer uc.done(ctx, &err)

	l, err := s.layouts.Load(ctx, id)
	if err != nil {
		return "", err
	}
	ectx, err := requestContext(ctx, s.tokens, tokenString, uc.fields)
	if err != nil {
		return "", err
	}
	ectx.Add([]*domain.Layout{l}, ectx.CanEdit(l.ID))
	uc.fields["editable"] = ectx.IsEditable(l.ID)
	return s.renderer.Render(ctx, l.TopLevel(), render.GridFor(ectx, s.baseURL)), nil
}

func (s *layoutService) Outline(ctx context.Context, id int64) (string, error) {
	l, err := s.layouts.Load(ctx, id)
	if err != nil {
		return "", err
	}
	return s.renderer.Render(ctx, l.TopLevel(), render.OutlineGrid{}), nil
}

// listLayouts resolves conditions to ids and loads them in id order.
func listLayouts(ctx context.Context, repo repository.LayoutRepo, conditions map[string]any) ([]*domain.Layout, error) {
	ids, err := repo.ListWithConditions(ctx, conditions)
	if err != nil {
		return nil, err
	}
	loaded, err := repo.LoadMultiple(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Layout, 0, len(loaded))
	for _, id := range ids {
		if l, ok := loaded[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

// requestContext builds the per-request context and applies tokenString.
// An unknown token degrades to read-only rendering and is only recorded in
// fields.
func requestContext(ctx context.Context, tokens repository.TokenRepo, tokenString string, fields map[string]any) (*editctx.Context, error) {
	ectx := editctx.New(tokens)
	if tokenString == "" {
		return ectx, nil
	}
	if err := ectx.SetCurrentToken(ctx, tokenString); err != nil {
		if errors.Is(err, editctx.ErrInvalidToken) {
			fields["token_invalid"] = true
			return ectx, nil
		}
		return nil, err
	}
	fields["token_layouts"] = ectx.Token().LayoutIDs
	return ectx, nil
}
