package memory

import (
	"context"
	"sync"
	"time"

	"github.com/tonpuu/riichi-league/internal/domain/season"
)

type SeasonRepository struct {
	mu     sync.RWMutex
	items  map[string]season.Season
	orders []string
}

func NewSeasonRepository(seasons []season.Season) *SeasonRepository {
	items := make(map[string]season.Season, len(seasons))
	orders := make([]string, 0, len(seasons))

	for _, s := range seasons {
		items[s.ID] = s
		orders = append(orders, s.ID)
	}

	return &SeasonRepository{
		items:  items,
		orders: orders,
	}
}

func (r *SeasonRepository) Create(_ context.Context, item season.Season) (season.Season, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item
	r.orders = append(r.orders, item.ID)

	return item, nil
}

func (r *SeasonRepository) List(_ context.Context) ([]season.Season, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]season.Season, 0, len(r.orders))
	for _, id := range r.orders {
		s := r.items[id]
		if s.DeletedAt != nil {
			continue
		}
		out = append(out, s)
	}

	return out, nil
}

func (r *SeasonRepository) FindAt(_ context.Context, at time.Time) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.orders {
		s := r.items[id]
		if s.DeletedAt == nil && s.Contains(at) {
			return s, true, nil
		}
	}

	return season.Season{}, false, nil
}
