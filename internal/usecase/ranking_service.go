package usecase

import (
	"context"
	"fmt"

	"github.com/tonpuu/riichi-league/internal/domain/player"
	"github.com/tonpuu/riichi-league/internal/domain/rankingview"
	"github.com/tonpuu/riichi-league/internal/domain/rating"
	"github.com/tonpuu/riichi-league/internal/domain/standing"
	"github.com/tonpuu/riichi-league/internal/platform/logging"
)

// RankingService serves the read side: precomputed ranking views and
// the active config tables. Reads go through the in-process snapshot;
// storage is only touched when the snapshot cannot answer.
type RankingService struct {
	cache        RankingCache
	standingRepo standing.Repository
	playerRepo   player.Repository
	ratingRepo   rating.Repository
	logger       *logging.Logger
}

func NewRankingService(
	cache RankingCache,
	standingRepo standing.Repository,
	playerRepo player.Repository,
	ratingRepo rating.Repository,
	logger *logging.Logger,
) *RankingService {
	return &RankingService{
		cache:        cache,
		standingRepo: standingRepo,
		playerRepo:   playerRepo,
		ratingRepo:   ratingRepo,
		logger:       logger,
	}
}

// GetRankingView returns the rows for one of the eight ranking views.
// On a cache miss the view is rebuilt straight from storage; if that
// read fails too the response degrades to an empty board rather than
// an error.
func (s *RankingService) GetRankingView(ctx context.Context, key rankingview.Key) ([]rankingview.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.GetRankingView")
	defer span.End()

	if !key.Valid() {
		return nil, fmt.Errorf("%w: unknown ranking view %s/%s/%s", ErrInvalidInput, key.Mode, key.Scope, key.PlayerSet)
	}

	if rows, ok := s.cache.View(ctx, key); ok {
		return rows, nil
	}

	rows, err := s.buildView(ctx, key)
	if err != nil {
		s.logger.ErrorContext(ctx, "ranking view fallback read failed, serving empty board",
			"mode", string(key.Mode), "scope", string(key.Scope), "player_set", string(key.PlayerSet), "error", err)
		return []rankingview.Row{}, nil
	}
	return rows, nil
}

// GetConfigTables returns the active table set for a mode, preferring
// the cached copy.
func (s *RankingService) GetConfigTables(ctx context.Context, mode rating.Mode) (rating.TableSet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.GetConfigTables")
	defer span.End()

	if !mode.Valid() {
		return rating.TableSet{}, fmt.Errorf("%w: unknown game mode %q", ErrInvalidInput, mode)
	}

	if tables, ok := s.cache.TableSet(ctx, mode); ok {
		return tables, nil
	}
	tables, err := s.ratingRepo.GetTableSet(ctx, mode)
	if err != nil {
		return rating.TableSet{}, fmt.Errorf("load config tables: %w", err)
	}
	return tables, nil
}

// WarmUp fills the snapshot from storage. The API server calls it once
// before accepting traffic and operators can re-run it on demand.
func (s *RankingService) WarmUp(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.WarmUp")
	defer span.End()

	if err := s.cache.WarmUp(ctx); err != nil {
		return fmt.Errorf("warm up ranking cache: %w", err)
	}
	return nil
}

// Invalidate rebuilds the selected snapshot half. Invalidating an
// already-fresh snapshot is a no-op for readers.
func (s *RankingService) Invalidate(ctx context.Context, kind CacheKind) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.Invalidate")
	defer span.End()

	if kind != CacheKindConfig && kind != CacheKindRanking {
		return fmt.Errorf("%w: unknown cache kind %q", ErrInvalidInput, kind)
	}
	if err := s.cache.Invalidate(ctx, kind); err != nil {
		return fmt.Errorf("invalidate %s cache: %w", kind, err)
	}
	return nil
}

// Ready reports whether the snapshot has been warmed at least once.
func (s *RankingService) Ready() bool {
	return s.cache.Ready()
}

func (s *RankingService) buildView(ctx context.Context, key rankingview.Key) ([]rankingview.Row, error) {
	standings, err := s.standingRepo.ListByMode(ctx, key.Mode, key.PlayerSet == rankingview.PlayersActive)
	if err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	tables, err := s.ratingRepo.GetTableSet(ctx, key.Mode)
	if err != nil {
		return nil, fmt.Errorf("load config tables: %w", err)
	}

	byID := make(map[string]player.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	return rankingview.Build(key, standings, byID, tables.Tier), nil
}
