package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/gridlayout/internal/domain"
	"github.com/alexanderramin/gridlayout/internal/repository"
)

type fragmentService struct {
	fragments repository.FragmentRepo
	observer  UseCaseObserver
}

func NewFragmentService(fragments repository.FragmentRepo, observers ...UseCaseObserver) FragmentService {
	return &fragmentService{fragments: fragments, observer: useCaseObserverOrNoop(observers)}
}

func (s *fragmentService) Create(ctx context.Context, title, body string) (f *domain.Fragment, err error) {
	uc := startUseCase(s.observer, "create-fragment", nil)
	defer uc.done(ctx, &err)

	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: fragment body is required", domain.ErrValidation)
	}
	f = &domain.Fragment{Title: domain.CoalesceStr(strings.TrimSpace(title), "Untitled"), Body: body}
	if err := s.fragments.Create(ctx, f); err != nil {
		return nil, err
	}
	uc.fields["fragment_id"] = f.ID
	return f, nil
}

func (s *fragmentService) Get(ctx context.Context, id int64) (*domain.Fragment, error) {
	return s.fragments.GetByID(ctx, id)
}
