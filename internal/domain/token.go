package domain

import "time"

// EditToken is an edit session credential. It unlocks edit affordances for
// the layouts it names and for nothing else.
type EditToken struct {
	Token     string
	LayoutIDs []int64
	CreatedAt time.Time
}

// Covers reports whether the token grants editing of layoutID.
func (t *EditToken) Covers(layoutID int64) bool {
	if t == nil {
		return false
	}
	for _, id := range t.LayoutIDs {
		if id == layoutID {
			return true
		}
	}
	return false
}
