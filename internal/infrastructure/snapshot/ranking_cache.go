package snapshot

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"
	"github.com/tonpuu/riichi-league/internal/domain/player"
	"github.com/tonpuu/riichi-league/internal/domain/rankingview"
	"github.com/tonpuu/riichi-league/internal/domain/rating"
	"github.com/tonpuu/riichi-league/internal/domain/standing"
	"github.com/tonpuu/riichi-league/internal/platform/logging"
	"github.com/tonpuu/riichi-league/internal/platform/resilience"
	"github.com/tonpuu/riichi-league/internal/usecase"
)

// state is one immutable generation of the snapshot. Readers load the
// pointer and never see a half-built generation.
type state struct {
	tables map[rating.Mode]rating.TableSet
	views  map[rankingview.Key][]rankingview.Row
}

// RankingCache keeps the config tables and all ranking views for every
// mode in process memory. Rebuilds swap the whole generation in one
// atomic store; concurrent invalidations for the same half collapse
// into a single storage read.
type RankingCache struct {
	standings standing.Repository
	players   player.Repository
	ratings   rating.Repository
	logger    *logging.Logger

	current atomic.Pointer[state]
	flight  resilience.SingleFlight
}

func NewRankingCache(
	standings standing.Repository,
	players player.Repository,
	ratings rating.Repository,
	logger *logging.Logger,
) *RankingCache {
	return &RankingCache{
		standings: standings,
		players:   players,
		ratings:   ratings,
		logger:    logger,
	}
}

func (c *RankingCache) Ready() bool {
	return c.current.Load() != nil
}

func (c *RankingCache) WarmUp(ctx context.Context) error {
	_, err, _ := c.flight.Do("warmup", func() (any, error) {
		next, err := c.build(ctx, nil)
		if err != nil {
			return nil, err
		}
		c.current.Store(next)
		return nil, nil
	})
	return err
}

// Invalidate rebuilds the selected half of the snapshot. A config
// rebuild refreshes everything since tier bands feed the view rows; a
// ranking rebuild reuses the current tables. Before the first warm-up
// both kinds fall back to a full build.
func (c *RankingCache) Invalidate(ctx context.Context, kind usecase.CacheKind) error {
	_, err, _ := c.flight.Do("invalidate:"+string(kind), func() (any, error) {
		var keepTables map[rating.Mode]rating.TableSet
		if kind == usecase.CacheKindRanking {
			if prev := c.current.Load(); prev != nil {
				keepTables = prev.tables
			}
		}

		next, err := c.build(ctx, keepTables)
		if err != nil {
			return nil, err
		}
		c.current.Store(next)
		return nil, nil
	})
	return err
}

func (c *RankingCache) TableSet(_ context.Context, mode rating.Mode) (rating.TableSet, bool) {
	s := c.current.Load()
	if s == nil {
		return rating.TableSet{}, false
	}
	tables, ok := s.tables[mode]
	return tables, ok
}

func (c *RankingCache) View(_ context.Context, key rankingview.Key) ([]rankingview.Row, bool) {
	s := c.current.Load()
	if s == nil {
		return nil, false
	}
	rows, ok := s.views[key]
	return rows, ok
}

type modeResult struct {
	mode   rating.Mode
	tables rating.TableSet
	views  map[rankingview.Key][]rankingview.Row
}

// build assembles a full generation. When keepTables is non-nil those
// table sets are reused instead of re-read from storage.
func (c *RankingCache) build(ctx context.Context, keepTables map[rating.Mode]rating.TableSet) (*state, error) {
	listed, err := c.players.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players for snapshot: %w", err)
	}
	byID := make(map[string]player.Player, len(listed))
	for _, p := range listed {
		byID[p.ID] = p
	}

	results := make([]modeResult, len(rating.AllModes))
	workers := pool.New().WithContext(ctx).WithCancelOnError()
	for idx, mode := range rating.AllModes {
		workers.Go(func(ctx context.Context) error {
			result, err := c.buildMode(ctx, mode, byID, keepTables)
			if err != nil {
				return err
			}
			results[idx] = result
			return nil
		})
	}
	if err := workers.Wait(); err != nil {
		return nil, err
	}

	next := &state{
		tables: make(map[rating.Mode]rating.TableSet, len(results)),
		views:  make(map[rankingview.Key][]rankingview.Row, len(results)*4),
	}
	for _, result := range results {
		next.tables[result.mode] = result.tables
		for key, rows := range result.views {
			next.views[key] = rows
		}
	}
	return next, nil
}

func (c *RankingCache) buildMode(
	ctx context.Context,
	mode rating.Mode,
	players map[string]player.Player,
	keepTables map[rating.Mode]rating.TableSet,
) (modeResult, error) {
	tables, kept := keepTables[mode]
	if !kept {
		loaded, err := c.ratings.GetTableSet(ctx, mode)
		if err != nil {
			return modeResult{}, fmt.Errorf("load %s config tables: %w", mode, err)
		}
		tables = loaded
	}

	standings, err := c.standings.ListByMode(ctx, mode, false)
	if err != nil {
		return modeResult{}, fmt.Errorf("list %s standings: %w", mode, err)
	}

	views := make(map[rankingview.Key][]rankingview.Row, 4)
	for _, scope := range []rankingview.Scope{rankingview.ScopeOverall, rankingview.ScopeSeason} {
		for _, set := range []rankingview.PlayerSet{rankingview.PlayersActive, rankingview.PlayersAll} {
			key := rankingview.Key{Mode: mode, Scope: scope, PlayerSet: set}
			views[key] = rankingview.Build(key, standings, players, tables.Tier)
		}
	}

	c.logger.DebugContext(ctx, "ranking snapshot mode rebuilt",
		"mode", string(mode), "standings", len(standings))

	return modeResult{mode: mode, tables: tables, views: views}, nil
}
