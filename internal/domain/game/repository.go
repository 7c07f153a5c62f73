package game

import (
	"context"

	"github.com/tonpuu/riichi-league/internal/domain/rating"
)

type Repository interface {
	GetByID(ctx context.Context, gameID string) (ValidatedGame, bool, error)
	ListByMode(ctx context.Context, mode rating.Mode, limit int) ([]ValidatedGame, error)
	// ListByModeInQueueOrder returns every validated game of a mode in
	// the order the review queue approved them; the recalculation job
	// replays games in exactly this order.
	ListByModeInQueueOrder(ctx context.Context, mode rating.Mode) ([]ValidatedGame, error)
}
