package domain

import "errors"

// ErrValidation marks a rejected structural operation. Wrapping errors name
// the precondition that failed; callers match with errors.Is.
var ErrValidation = errors.New("validation failed")
