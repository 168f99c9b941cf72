package domain

import "time"

// Fragment is a stored chunk of markup, the payload of the built-in
// "fragment" item type.
type Fragment struct {
	ID        int64
	Title     string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
