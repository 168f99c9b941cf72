package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/gridlayout/internal/db"
	"github.com/alexanderramin/gridlayout/internal/domain"
	"github.com/alexanderramin/gridlayout/internal/importer"
	"github.com/alexanderramin/gridlayout/internal/itemtype"
	"github.com/alexanderramin/gridlayout/internal/repository"
)

type blueprintService struct {
	uow      db.UnitOfWork
	layouts  repository.LayoutRepo
	types    *itemtype.Registry
	observer UseCaseObserver
}

func NewBlueprintService(uow db.UnitOfWork, layouts repository.LayoutRepo, types *itemtype.Registry, observers ...UseCaseObserver) BlueprintService {
	return &blueprintService{
		uow:      uow,
		layouts:  layouts,
		types:    types,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *blueprintService) ImportFile(ctx context.Context, path string) (*domain.Layout, error) {
	bp, err := importer.LoadBlueprint(path)
	if err != nil {
		return nil, fmt.Errorf("loading blueprint: %w", err)
	}
	return s.Import(ctx, bp)
}

func (s *blueprintService) Import(ctx context.Context, bp *importer.Blueprint) (l *domain.Layout, err error) {
	uc := startUseCase(s.observer, "import-layout", map[string]any{"node_count": len(bp.Nodes)})
	defer uc.done(ctx, &err)

	known := func(id string) bool {
		_, err := s.types.Lookup(id)
		return err == nil
	}
	if errs := importer.ValidateBlueprint(bp, known); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txLayouts := repository.NewTxLayoutRepo(tx, s.types)

		created, err := txLayouts.Create(ctx, bp.Attributes())
		if err != nil {
			return fmt.Errorf("creating layout: %w", err)
		}
		if err := importer.Convert(bp, created, s.types); err != nil {
			return fmt.Errorf("building layout: %w", err)
		}
		if err := txLayouts.Update(ctx, created); err != nil {
			return fmt.Errorf("saving layout: %w", err)
		}
		l = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.fields["layout_id"] = l.ID
	return l, nil
}

func (s *blueprintService) Export(ctx context.Context, layoutID int64) (bp *importer.Blueprint, err error) {
	uc := startUseCase(s.observer, "export-layout", map[string]any{"layout_id": layoutID})
	defer uc.done(ctx, &err)

	l, err := s.layouts.Load(ctx, layoutID)
	if err != nil {
		return nil, err
	}
	return importer.Export(l), nil
}

func formatValidationErrors(errs []error) error {
	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		lines = append(lines, "\n  - "+e.Error())
	}
	return fmt.Errorf("%w: blueprint has %d errors:%s", domain.ErrValidation, len(errs), strings.Join(lines, ""))
}
