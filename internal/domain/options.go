package domain

import (
	"fmt"
	"sort"
)

// Options is the free-form settings bag carried by every node. Values are
// scalars; the core never interprets keys except the column width overrides
// read by the grid renderers.
type Options map[string]any

func (o Options) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// Get returns the value stored under key, or fallback when absent.
func (o Options) Get(key string, fallback any) any {
	if v, ok := o[key]; ok {
		return v
	}
	return fallback
}

// Int returns the value under key as an int when it holds an integer, or
// fallback otherwise.
func (o Options) Int(key string, fallback int) int {
	switch v := o[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case uint:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		if v == float64(int(v)) {
			return int(v)
		}
	}
	return fallback
}

// Clone returns an independent copy. A nil receiver yields an empty bag.
func (o Options) Clone() Options {
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Keys returns the option keys in lexical order.
func (o Options) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate rejects empty keys and non-scalar values.
func (o Options) Validate() error {
	for k, v := range o {
		if k == "" {
			return fmt.Errorf("%w: option key must not be empty", ErrValidation)
		}
		switch v.(type) {
		case nil, string, bool,
			int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64,
			float32, float64:
		default:
			return fmt.Errorf("%w: option %q has non-scalar value of type %T", ErrValidation, k, v)
		}
	}
	return nil
}
