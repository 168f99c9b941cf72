package repository

import "errors"

// ErrNotFound is wrapped by every lookup of a row that does not exist.
var ErrNotFound = errors.New("not found")
