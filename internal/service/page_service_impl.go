package service

import (
	"context"

	"github.com/alexanderramin/gridlayout/internal/domain"
	"github.com/alexanderramin/gridlayout/internal/render"
	"github.com/alexanderramin/gridlayout/internal/repository"
)

type pageService struct {
	layouts       repository.LayoutRepo
	tokens        repository.TokenRepo
	renderer      *render.Renderer
	baseURL       string
	defaultRegion string
	observer      UseCaseObserver
}

// NewPageService creates a PageService. Layouts without a region are placed
// in defaultRegion.
func NewPageService(
	layouts repository.LayoutRepo,
	tokens repository.TokenRepo,
	renderer *render.Renderer,
	baseURL, defaultRegion string,
	observers ...UseCaseObserver,
) PageService {
	return &pageService{
		layouts:       layouts,
		tokens:        tokens,
		renderer:      renderer,
		baseURL:       baseURL,
		defaultRegion: defaultRegion,
		observer:      useCaseObserverOrNoop(observers),
	}
}

func (s *pageService) Assemble(ctx context.Context, conditions map[string]any, tokenString string) (regions map[string][]string, err error) {
	uc := startUseCase(s.observer, "assemble-page", nil)
	defer uc.done(ctx, &err)

	layouts, err := listLayouts(ctx, s.layouts, conditions)
	if err != nil {
		return nil, err
	}
	ectx, err := requestContext(ctx, s.tokens, tokenString, uc.fields)
	if err != nil {
		return nil, err
	}
	for _, l := range layouts {
		ectx.Add([]*domain.Layout{l}, ectx.CanEdit(l.ID))
	}
	uc.fields["layout_count"] = len(layouts)
	uc.fields["editable"] = ectx.ContainsEditableLayouts()

	grid := render.GridFor(ectx, s.baseURL)
	regions = make(map[string][]string)
	for _, l := range ectx.GetAll() {
		region := s.defaultRegion
		if l.Region != nil {
			region = *l.Region
		}
		regions[region] = append(regions[region], s.renderer.Render(ctx, l.TopLevel(), grid))
	}
	return regions, nil
}
