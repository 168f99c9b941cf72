package itemtype

import (
	"context"
	"fmt"

	"github.com/alexanderramin/gridlayout/internal/domain"
	"github.com/microcosm-cc/bluemonday"
)

// FragmentTypeID is the type id of stored markup fragments.
const FragmentTypeID = "fragment"

// FragmentStore loads fragments by id. Missing ids are left out of the
// result.
type FragmentStore interface {
	GetMany(ctx context.Context, ids []int64) (map[int64]*domain.Fragment, error)
}

// FragmentType renders items whose payload is a stored fragment. Bodies are
// sanitized with the user generated content policy before they reach the
// page. Preloaded fragments live in the render pass only.
type FragmentType struct {
	store  FragmentStore
	policy *bluemonday.Policy
}

func NewFragmentType(store FragmentStore) *FragmentType {
	return &FragmentType{
		store:  store,
		policy: bluemonday.UGCPolicy(),
	}
}

func (t *FragmentType) ID() string { return FragmentTypeID }

func (t *FragmentType) Create(payloadID int64, opts domain.Options) *domain.Node {
	return domain.NewItem(FragmentTypeID, payloadID, opts)
}

// Preload fetches the fragments of items in one query and keeps them in the
// pass of ctx. Ids without a row are remembered as missing. Outside a pass
// it does nothing.
func (t *FragmentType) Preload(ctx context.Context, items []*domain.Node) error {
	pass := PassFrom(ctx)
	if pass == nil {
		return nil
	}
	ids := make([]int64, 0, len(items))
	seen := make(map[int64]bool, len(items))
	for _, it := range items {
		if !seen[it.PayloadID] {
			seen[it.PayloadID] = true
			ids = append(ids, it.PayloadID)
		}
	}
	found, err := t.store.GetMany(ctx, ids)
	if err != nil {
		return fmt.Errorf("preloading fragments: %w", err)
	}
	loaded := make(map[int64]*domain.Fragment, len(ids))
	for _, id := range ids {
		loaded[id] = found[id]
	}
	pass.Store(FragmentTypeID, loaded)
	return nil
}

func (t *FragmentType) Render(ctx context.Context, item *domain.Node) (string, error) {
	f, err := t.fragment(ctx, item.PayloadID)
	if err != nil {
		return "", err
	}
	return t.policy.Sanitize(f.Body), nil
}

func (t *FragmentType) fragment(ctx context.Context, id int64) (*domain.Fragment, error) {
	if v, ok := PassFrom(ctx).Load(FragmentTypeID); ok {
		if f, checked := v.(map[int64]*domain.Fragment)[id]; checked {
			if f == nil {
				return nil, fmt.Errorf("fragment %d does not exist", id)
			}
			return f, nil
		}
	}
	found, err := t.store.GetMany(ctx, []int64{id})
	if err != nil {
		return nil, fmt.Errorf("loading fragment %d: %w", id, err)
	}
	f, ok := found[id]
	if !ok {
		return nil, fmt.Errorf("fragment %d does not exist", id)
	}
	return f, nil
}
