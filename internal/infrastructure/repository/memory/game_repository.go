package memory

import (
	"context"
	"sync"

	"github.com/tonpuu/riichi-league/internal/domain/game"
	"github.com/tonpuu/riichi-league/internal/domain/rating"
)

type GameRepository struct {
	mu    sync.RWMutex
	items []game.ValidatedGame
}

func NewGameRepository() *GameRepository {
	return &GameRepository{}
}

// append is called from the submission repository's approve path so a
// validated game lands in approval order.
func (r *GameRepository) append(item game.ValidatedGame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, item)
}

func (r *GameRepository) GetByID(_ context.Context, gameID string) (game.ValidatedGame, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.ID == gameID && item.DeletedAt == nil {
			return item, true, nil
		}
	}
	return game.ValidatedGame{}, false, nil
}

func (r *GameRepository) ListByMode(_ context.Context, mode rating.Mode, limit int) ([]game.ValidatedGame, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.ValidatedGame, 0, limit)
	for i := len(r.items) - 1; i >= 0; i-- {
		item := r.items[i]
		if item.Mode != mode || item.DeletedAt != nil {
			continue
		}
		out = append(out, item)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *GameRepository) ListByModeInQueueOrder(_ context.Context, mode rating.Mode) ([]game.ValidatedGame, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.ValidatedGame, 0, len(r.items))
	for _, item := range r.items {
		if item.Mode != mode || item.DeletedAt != nil {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}
