package season

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, item Season) (Season, error)
	List(ctx context.Context) ([]Season, error)
	// FindAt returns the season whose window contains the given moment.
	FindAt(ctx context.Context, at time.Time) (Season, bool, error)
}
