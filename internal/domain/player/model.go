package player

import "time"

// Player is a registered league member. Rows are soft-deleted and
// version-guarded; rating state lives in the standing domain.
type Player struct {
	ID          string
	DisplayName string
	Country     string
	IsActive    bool
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}
