package standing

import (
	"context"
	"errors"

	"github.com/tonpuu/riichi-league/internal/domain/rating"
)

var ErrVersionConflict = errors.New("standing row version has advanced")

type Repository interface {
	GetByPlayer(ctx context.Context, playerID string, mode rating.Mode) (PlayerStanding, bool, error)
	ListByMode(ctx context.Context, mode rating.Mode, activeOnly bool) ([]PlayerStanding, error)
	// UpdateWithVersion writes the standing guarded by item.Version and
	// bumps the stored version on success.
	UpdateWithVersion(ctx context.Context, item PlayerStanding) error
	// ReplaceByMode swaps every standing of a mode in one transaction;
	// the full recalculation job writes its replayed result through it.
	ReplaceByMode(ctx context.Context, mode rating.Mode, items []PlayerStanding) error
}
