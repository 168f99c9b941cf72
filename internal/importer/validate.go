package importer

import (
	"fmt"

	"github.com/alexanderramin/gridlayout/internal/domain"
)

var validNodeKinds = map[string]domain.NodeKind{
	"hbox":   domain.KindHorizontal,
	"column": domain.KindColumn,
	"item":   domain.KindItem,
}

// ValidateBlueprint checks the blueprint for errors before conversion and
// returns all of them. knownType reports whether an item type is
// registered; nil accepts any type.
func ValidateBlueprint(bp *Blueprint, knownType func(string) bool) []error {
	var errs []error
	errs = append(errs, validateLayout(&bp.Layout)...)

	kinds := make(map[string]domain.NodeKind, len(bp.Nodes))
	for i, n := range bp.Nodes {
		prefix := fmt.Sprintf("nodes[%d]", i)

		kind, kindOK := validNodeKinds[n.Kind]
		switch {
		case n.Kind == "":
			errs = append(errs, fmt.Errorf("%s.kind is required", prefix))
		case !kindOK:
			errs = append(errs, fmt.Errorf("%s.kind: invalid value %q", prefix, n.Kind))
		}

		parentKind := domain.KindTopLevel
		if n.ParentRef != "" {
			pk, ok := kinds[n.ParentRef]
			if !ok {
				errs = append(errs, fmt.Errorf("%s.parent_ref: ref %q not found (must appear earlier in nodes list)", prefix, n.ParentRef))
			}
			parentKind = pk
		}
		if kindOK && parentKind != "" && !parentKind.CanContain(kind) {
			errs = append(errs, fmt.Errorf("%s: a %s cannot be placed in a %s", prefix, kind, parentKind))
		}

		if n.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if _, dup := kinds[n.Ref]; dup {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, n.Ref))
		} else if kindOK {
			kinds[n.Ref] = kind
		}

		if kind == domain.KindItem {
			errs = append(errs, validateItem(prefix, n, knownType)...)
		} else if kindOK && (n.Type != "" || n.Payload != 0) {
			errs = append(errs, fmt.Errorf("%s: only items carry a type and payload", prefix))
		}
		if err := domain.Options(n.Options).Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s.options: %w", prefix, err))
		}
	}
	return errs
}

func validateLayout(l *LayoutImport) []error {
	var errs []error
	if l.NodeID != nil && *l.NodeID < 0 {
		errs = append(errs, fmt.Errorf("layout.node_id must not be negative"))
	}
	if l.SiteID != nil && *l.SiteID < 0 {
		errs = append(errs, fmt.Errorf("layout.site_id must not be negative"))
	}
	if err := domain.Options(l.RootOptions).Validate(); err != nil {
		errs = append(errs, fmt.Errorf("layout.root_options: %w", err))
	}
	return errs
}

func validateItem(prefix string, n NodeImport, knownType func(string) bool) []error {
	var errs []error
	if n.Type == "" {
		errs = append(errs, fmt.Errorf("%s.type is required for items", prefix))
	} else if knownType != nil && !knownType(n.Type) {
		errs = append(errs, fmt.Errorf("%s.type: unknown item type %q", prefix, n.Type))
	}
	if n.Payload < 0 {
		errs = append(errs, fmt.Errorf("%s.payload must not be negative", prefix))
	}
	return errs
}
