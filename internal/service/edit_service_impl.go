package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/gridlayout/internal/domain"
	"github.com/alexanderramin/gridlayout/internal/itemtype"
	"github.com/alexanderramin/gridlayout/internal/repository"
)

type editService struct {
	layouts  repository.LayoutRepo
	types    *itemtype.Registry
	observer UseCaseObserver
}

func NewEditService(layouts repository.LayoutRepo, types *itemtype.Registry, observers ...UseCaseObserver) EditService {
	return &editService{
		layouts:  layouts,
		types:    types,
		observer: useCaseObserverOrNoop(observers),
	}
}

// apply loads the layout, runs mutate and persists the result. Nothing is
// written when mutate fails. Concurrent edits of one layout are not
// coordinated: the last update replaces the whole tree.
func (s *editService) apply(ctx context.Context, name string, layoutID int64, fields map[string]any, mutate func(l *domain.Layout) error) (err error) {
	if fields == nil {
		fields = map[string]any{}
	}
	fields["layout_id"] = layoutID
	uc := startUseCase(s.observer, name, fields)
	defer uc.done(ctx, &err)

	l, err := s.layouts.Load(ctx, layoutID)
	if err != nil {
		return err
	}
	if err = mutate(l); err != nil {
		return err
	}
	fields["node_count"] = l.NodeCount()
	return s.layouts.Update(ctx, l)
}

func (s *editService) Move(ctx context.Context, layoutID int64, req domain.MoveRequest) error {
	fields := map[string]any{"node_id": req.NodeID, "container_id": req.ContainerID, "position": req.Position}
	return s.apply(ctx, "move", layoutID, fields, func(l *domain.Layout) error {
		return l.Move(req)
	})
}

func (s *editService) AddItem(ctx context.Context, layoutID int64, containerID string, position int, typeID string, payloadID int64, opts domain.Options) (*domain.Node, error) {
	if _, err := s.types.Lookup(typeID); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	item := s.types.Create(typeID, payloadID, opts.Clone())
	fields := map[string]any{"container_id": containerID, "type": typeID, "payload_id": payloadID}
	err := s.apply(ctx, "add-item", layoutID, fields, func(l *domain.Layout) error {
		return l.InsertInto(containerID, item, position)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *editService) AddColumnContainer(ctx context.Context, layoutID int64, containerID string, position, columnCount int) (*domain.Node, error) {
	var added *domain.Node
	fields := map[string]any{"container_id": containerID, "column_count": columnCount}
	err := s.apply(ctx, "add-column-container", layoutID, fields, func(l *domain.Layout) error {
		var err error
		added, err = l.InsertColumnContainer(containerID, position, columnCount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

func (s *editService) AddColumn(ctx context.Context, layoutID int64, horizontalID string, position int) (*domain.Node, error) {
	var added *domain.Node
	err := s.apply(ctx, "add-column", layoutID, map[string]any{"container_id": horizontalID}, func(l *domain.Layout) error {
		var err error
		added, err = l.InsertColumn(horizontalID, position)
		return err
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

func (s *editService) RemoveColumn(ctx context.Context, layoutID int64, horizontalID string, position int) error {
	fields := map[string]any{"container_id": horizontalID, "position": position}
	return s.apply(ctx, "remove-column", layoutID, fields, func(l *domain.Layout) error {
		return l.RemoveColumn(horizontalID, position)
	})
}

func (s *editService) Remove(ctx context.Context, layoutID int64, nodeID string) error {
	return s.apply(ctx, "remove", layoutID, map[string]any{"node_id": nodeID}, func(l *domain.Layout) error {
		_, err := l.Remove(nodeID)
		return err
	})
}

func (s *editService) SetOptions(ctx context.Context, layoutID int64, nodeID string, opts domain.Options) error {
	return s.apply(ctx, "set-options", layoutID, map[string]any{"node_id": nodeID}, func(l *domain.Layout) error {
		return l.SetOptions(nodeID, opts)
	})
}

func (s *editService) Duplicate(ctx context.Context, layoutID int64, nodeID string) (*domain.Node, error) {
	var dup *domain.Node
	err := s.apply(ctx, "duplicate", layoutID, map[string]any{"node_id": nodeID}, func(l *domain.Layout) error {
		var err error
		dup, err = l.Duplicate(nodeID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dup, nil
}
