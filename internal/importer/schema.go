// Package importer reads and writes layout blueprints: YAML documents that
// describe a layout's attributes and node tree as a flat list of refs.
package importer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Blueprint is the top-level structure of a layout file.
type Blueprint struct {
	Layout LayoutImport `yaml:"layout"`
	Nodes  []NodeImport `yaml:"nodes"`
}

// LayoutImport holds the summary attributes and the options of the
// top-level container. Absent keys stay unset.
type LayoutImport struct {
	NodeID      *int64         `yaml:"node_id,omitempty"`
	SiteID      *int64         `yaml:"site_id,omitempty"`
	Region      *string        `yaml:"region,omitempty"`
	RootOptions map[string]any `yaml:"root_options,omitempty"`
}

// NodeImport is one node. ParentRef names an earlier node; empty means the
// top-level container. Siblings are ordered by Order, then by file order.
type NodeImport struct {
	Ref       string         `yaml:"ref"`
	ParentRef string         `yaml:"parent_ref,omitempty"`
	Kind      string         `yaml:"kind"`
	Order     int            `yaml:"order,omitempty"`
	Type      string         `yaml:"type,omitempty"`
	Payload   int64          `yaml:"payload,omitempty"`
	Options   map[string]any `yaml:"options,omitempty"`
}

// LoadBlueprint reads and parses a blueprint file. JSON files parse too.
func LoadBlueprint(path string) (*Blueprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseBlueprint(data)
}

func ParseBlueprint(data []byte) (*Blueprint, error) {
	var bp Blueprint
	if err := yaml.Unmarshal(data, &bp); err != nil {
		return nil, fmt.Errorf("parsing blueprint: %w", err)
	}
	return &bp, nil
}

// Marshal encodes bp as YAML.
func Marshal(bp *Blueprint) ([]byte, error) {
	out, err := yaml.Marshal(bp)
	if err != nil {
		return nil, fmt.Errorf("encoding blueprint: %w", err)
	}
	return out, nil
}
