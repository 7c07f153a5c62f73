package memory

import (
	"context"
	"sync"

	"github.com/tonpuu/riichi-league/internal/domain/rating"
	"github.com/tonpuu/riichi-league/internal/domain/standing"
)

type standingKey struct {
	playerID string
	mode     rating.Mode
}

type StandingRepository struct {
	mu     sync.RWMutex
	items  map[standingKey]standing.PlayerStanding
	active map[string]bool
}

// NewStandingRepository builds an empty store. The active map marks
// which players count as active for ListByMode filtering; untracked
// players default to active.
func NewStandingRepository(active map[string]bool) *StandingRepository {
	if active == nil {
		active = map[string]bool{}
	}
	return &StandingRepository{
		items:  make(map[standingKey]standing.PlayerStanding),
		active: active,
	}
}

func (r *StandingRepository) GetByPlayer(_ context.Context, playerID string, mode rating.Mode) (standing.PlayerStanding, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.items[standingKey{playerID: playerID, mode: mode}]
	return st, ok, nil
}

func (r *StandingRepository) ListByMode(_ context.Context, mode rating.Mode, activeOnly bool) ([]standing.PlayerStanding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]standing.PlayerStanding, 0, len(r.items))
	for key, st := range r.items {
		if key.mode != mode {
			continue
		}
		if activeOnly {
			if isActive, tracked := r.active[key.playerID]; tracked && !isActive {
				continue
			}
		}
		out = append(out, st)
	}
	return out, nil
}

func (r *StandingRepository) UpdateWithVersion(_ context.Context, item standing.PlayerStanding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.updateLocked(item)
}

func (r *StandingRepository) ReplaceByMode(_ context.Context, mode rating.Mode, items []standing.PlayerStanding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.items {
		if key.mode == mode {
			delete(r.items, key)
		}
	}
	for _, item := range items {
		item.Version = 1
		r.items[standingKey{playerID: item.PlayerID, mode: mode}] = item
	}
	return nil
}

// updateLocked applies one version-guarded write. New standings enter
// with the zero version.
func (r *StandingRepository) updateLocked(item standing.PlayerStanding) error {
	key := standingKey{playerID: item.PlayerID, mode: item.Mode}
	stored, exists := r.items[key]
	if exists && stored.Version != item.Version {
		return standing.ErrVersionConflict
	}
	if !exists && item.Version != 0 {
		return standing.ErrVersionConflict
	}

	item.Version++
	r.items[key] = item
	return nil
}
