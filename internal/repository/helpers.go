package repository

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/gridlayout/internal/domain"
	"gopkg.in/yaml.v3"
)

// nullableInt64ToValue converts a *int64 to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil.
func nullableInt64ToValue(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// nullableStringToValue converts a *string to a value suitable for SQLite storage.
func nullableStringToValue(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func parseNullableInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func parseNullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

// parseTimestamp parses an RFC3339 column, tolerating empty values.
func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

// encodeOptions serializes an options bag as YAML. YAML keeps integers,
// floats, booleans and strings apart, so scalars come back with the Go type
// they were stored with. An empty bag is stored as the empty string.
func encodeOptions(o domain.Options) (string, error) {
	if len(o) == 0 {
		return "", nil
	}
	doc := make(map[string]any, len(o))
	for k, v := range o {
		doc[k] = floatScalar(v)
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encoding options: %w", err)
	}
	return string(out), nil
}

// floatScalar keeps integral floats tagged as floats; yaml.v3 writes
// float64(1) as "1", which decodes as an int.
func floatScalar(v any) any {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	default:
		return v
	}
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return f
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(f, 'f', 1, 64)}
}

func decodeOptions(s string) (domain.Options, error) {
	opts := domain.Options{}
	if strings.TrimSpace(s) == "" {
		return opts, nil
	}
	raw := map[string]any{}
	if err := yaml.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("decoding options: %w", err)
	}
	for k, v := range raw {
		opts[k] = v
	}
	return opts, nil
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
