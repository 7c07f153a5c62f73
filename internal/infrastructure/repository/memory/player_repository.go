package memory

import (
	"context"
	"sync"
	"time"

	"github.com/tonpuu/riichi-league/internal/domain/player"
	"github.com/tonpuu/riichi-league/internal/platform/visibility"
)

type PlayerRepository struct {
	mu     sync.RWMutex
	items  map[string]player.Player
	orders []string
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	items := make(map[string]player.Player, len(players))
	orders := make([]string, 0, len(players))

	for _, p := range players {
		items[p.ID] = p
		orders = append(orders, p.ID)
	}

	return &PlayerRepository{
		items:  items,
		orders: orders,
	}
}

func (r *PlayerRepository) Create(_ context.Context, item player.Player) (player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item.Version = 1
	item.UpdatedAt = item.CreatedAt
	r.items[item.ID] = item
	r.orders = append(r.orders, item.ID)

	return item, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[playerID]
	if !ok {
		return player.Player{}, false, nil
	}
	if p.DeletedAt != nil && !visibility.IncludeDeleted(ctx) {
		return player.Player{}, false, nil
	}

	return p, true, nil
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	includeDeleted := visibility.IncludeDeleted(ctx)
	out := make([]player.Player, 0, len(r.orders))
	for _, id := range r.orders {
		p := r.items[id]
		if p.DeletedAt != nil && !includeDeleted {
			continue
		}
		out = append(out, p)
	}

	return out, nil
}

func (r *PlayerRepository) SoftDelete(_ context.Context, playerID string, version int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[playerID]
	if !ok || p.DeletedAt != nil {
		return player.ErrNotFound
	}
	if p.Version != version {
		return player.ErrVersionConflict
	}

	now := time.Now().UTC()
	p.DeletedAt = &now
	p.UpdatedAt = now
	p.Version++
	r.items[playerID] = p

	return nil
}

func (r *PlayerRepository) Restore(_ context.Context, playerID string, version int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[playerID]
	if !ok || p.DeletedAt == nil {
		return player.ErrNotFound
	}
	if p.Version != version {
		return player.ErrVersionConflict
	}

	p.DeletedAt = nil
	p.Version++
	r.items[playerID] = p

	return nil
}
