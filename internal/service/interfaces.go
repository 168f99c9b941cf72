package service

import (
	"context"

	"github.com/alexanderramin/gridlayout/internal/domain"
	"github.com/alexanderramin/gridlayout/internal/importer"
)

type LayoutService interface {
	Create(ctx context.Context, attrs domain.Attributes) (*domain.Layout, error)
	Get(ctx context.Context, id int64) (*domain.Layout, error)
	// List returns the layouts matching conditions, ordered by id.
	List(ctx context.Context, conditions map[string]any) ([]*domain.Layout, error)
	Delete(ctx context.Context, id int64) error
	// Render renders one layout, decorated for editing when tokenString
	// names a session covering it.
	Render(ctx context.Context, id int64, tokenString string) (string, error)
	// Outline renders the bare structure of a layout as XML.
	Outline(ctx context.Context, id int64) (string, error)
}

// EditService applies structural edits. Each call loads the layout,
// validates and applies the change in memory, then persists the whole tree.
type EditService interface {
	Move(ctx context.Context, layoutID int64, req domain.MoveRequest) error
	AddItem(ctx context.Context, layoutID int64, containerID string, position int, typeID string, payloadID int64, opts domain.Options) (*domain.Node, error)
	AddColumnContainer(ctx context.Context, layoutID int64, containerID string, position, columnCount int) (*domain.Node, error)
	AddColumn(ctx context.Context, layoutID int64, horizontalID string, position int) (*domain.Node, error)
	RemoveColumn(ctx context.Context, layoutID int64, horizontalID string, position int) error
	Remove(ctx context.Context, layoutID int64, nodeID string) error
	SetOptions(ctx context.Context, layoutID int64, nodeID string, opts domain.Options) error
	Duplicate(ctx context.Context, layoutID int64, nodeID string) (*domain.Node, error)
}

type TokenService interface {
	Create(ctx context.Context, layoutIDs []int64) (*domain.EditToken, error)
	Get(ctx context.Context, token string) (*domain.EditToken, error)
	Delete(ctx context.Context, token string) error
	// Authorize fails with editctx.ErrInvalidToken unless token names a
	// session covering layoutID.
	Authorize(ctx context.Context, token string, layoutID int64) error
}

type PageService interface {
	// Assemble renders every layout matching conditions and groups the
	// markup by region, in layout id order.
	Assemble(ctx context.Context, conditions map[string]any, tokenString string) (map[string][]string, error)
}

// FragmentService stores the markup rendered by "fragment" items.
type FragmentService interface {
	Create(ctx context.Context, title, body string) (*domain.Fragment, error)
	Get(ctx context.Context, id int64) (*domain.Fragment, error)
}

// BlueprintService moves whole layouts in and out of blueprint files.
type BlueprintService interface {
	// Import validates bp and creates a new layout from it atomically.
	Import(ctx context.Context, bp *importer.Blueprint) (*domain.Layout, error)
	ImportFile(ctx context.Context, path string) (*domain.Layout, error)
	Export(ctx context.Context, layoutID int64) (*importer.Blueprint, error)
}
