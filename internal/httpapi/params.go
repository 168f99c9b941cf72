package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/alexanderramin/gridlayout/internal/domain"
)

// optionPrefix marks form fields that carry item options.
const optionPrefix = "option."

func requiredString(r *http.Request, name string) (string, error) {
	v := r.Form.Get(name)
	if v == "" {
		return "", fmt.Errorf("%w: missing parameter %q", domain.ErrValidation, name)
	}
	return v, nil
}

func requiredInt64(r *http.Request, name string) (int64, error) {
	v, err := requiredString(r, name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parameter %q must be an integer", domain.ErrValidation, name)
	}
	return n, nil
}

func requiredInt(r *http.Request, name string) (int, error) {
	n, err := requiredInt64(r, name)
	return int(n), err
}

// optionalInt returns fallback when the parameter is absent.
func optionalInt(r *http.Request, name string, fallback int) (int, error) {
	if r.Form.Get(name) == "" {
		return fallback, nil
	}
	return requiredInt(r, name)
}

// formOptions collects option.<key> fields. Integers and booleans keep
// their type; everything else stays a string.
func formOptions(r *http.Request) domain.Options {
	opts := domain.Options{}
	for key, values := range r.Form {
		name, ok := strings.CutPrefix(key, optionPrefix)
		if !ok || name == "" || len(values) == 0 {
			continue
		}
		opts[name] = scalar(values[len(values)-1])
	}
	return opts
}

func scalar(v string) any {
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if v == "true" || v == "false" {
		return v == "true"
	}
	return v
}

// nullableCondition parses a listing condition. The literal "null" matches
// unset columns.
func nullableCondition(column, v string) (any, error) {
	if v == "null" {
		return nil, nil
	}
	if column == "region" {
		return v, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: condition %q must be an integer or null", domain.ErrValidation, column)
	}
	return n, nil
}
