package usecase

import (
	"context"

	"github.com/tonpuu/riichi-league/internal/domain/rankingview"
	"github.com/tonpuu/riichi-league/internal/domain/rating"
)

// CacheKind selects which half of the ranking cache an invalidation
// targets.
type CacheKind string

const (
	CacheKindConfig  CacheKind = "config"
	CacheKindRanking CacheKind = "ranking"
)

// RankingCache is the process-wide snapshot of config tables and
// precomputed ranking views. Lookups never block on storage; a miss
// means the caller decides how to degrade.
type RankingCache interface {
	Ready() bool
	WarmUp(ctx context.Context) error
	Invalidate(ctx context.Context, kind CacheKind) error
	TableSet(ctx context.Context, mode rating.Mode) (rating.TableSet, bool)
	View(ctx context.Context, key rankingview.Key) ([]rankingview.Row, bool)
}
