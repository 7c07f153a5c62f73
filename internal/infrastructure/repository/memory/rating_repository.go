package memory

import (
	"context"
	"sync"

	"github.com/tonpuu/riichi-league/internal/domain/rating"
)

type RatingRepository struct {
	mu     sync.RWMutex
	tables map[rating.Mode]rating.TableSet
}

// NewRatingRepository starts with the standard table set for every
// mode.
func NewRatingRepository() *RatingRepository {
	tables := make(map[rating.Mode]rating.TableSet, len(rating.AllModes))
	for _, mode := range rating.AllModes {
		tables[mode] = rating.DefaultTables(mode)
	}
	return &RatingRepository{tables: tables}
}

func (r *RatingRepository) GetTableSet(_ context.Context, mode rating.Mode) (rating.TableSet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.tables[mode], nil
}

func (r *RatingRepository) ReplaceTierTable(_ context.Context, table rating.TierTable) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.tables[table.Mode]
	set.Tier = table
	r.tables[table.Mode] = set
	return nil
}

func (r *RatingRepository) ReplaceRateTable(_ context.Context, table rating.RateTable) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.tables[table.Mode]
	set.Rate = table
	r.tables[table.Mode] = set
	return nil
}

func (r *RatingRepository) ReplaceScoringTable(_ context.Context, table rating.ScoringTable) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.tables[table.Mode]
	set.Scoring = table
	r.tables[table.Mode] = set
	return nil
}

func (r *RatingRepository) ReplaceSeasonTables(_ context.Context, mode rating.Mode, tables []rating.SeasonTable) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.tables[mode]
	set.Seasons = append([]rating.SeasonTable(nil), tables...)
	r.tables[mode] = set
	return nil
}
