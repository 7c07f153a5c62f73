package season

import "time"

// Season is one ranking period. A game is season-eligible when it is
// season-scoped and its game date falls inside an open season.
type Season struct {
	ID        string
	Name      string
	StartsAt  time.Time
	EndsAt    time.Time
	CreatedAt time.Time
	DeletedAt *time.Time
}

// Contains reports whether the given moment falls inside the season.
func (s Season) Contains(at time.Time) bool {
	if at.Before(s.StartsAt) {
		return false
	}
	return s.EndsAt.IsZero() || at.Before(s.EndsAt)
}
