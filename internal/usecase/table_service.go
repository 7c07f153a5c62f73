package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/tonpuu/riichi-league/internal/domain/rating"
	"github.com/tonpuu/riichi-league/internal/domain/season"
	"github.com/tonpuu/riichi-league/internal/domain/user"
	idgen "github.com/tonpuu/riichi-league/internal/platform/id"
	"github.com/tonpuu/riichi-league/internal/platform/logging"
)

// TableService is the admin surface for the config tables and seasons.
// Every table write validates the replacement and refreshes the config
// half of the cache so the next calculation reads the new values.
type TableService struct {
	ratingRepo rating.Repository
	seasonRepo season.Repository
	cache      RankingCache
	idGen      idgen.Generator
	logger     *logging.Logger
	now        func() time.Time
}

func NewTableService(
	ratingRepo rating.Repository,
	seasonRepo season.Repository,
	cache RankingCache,
	idGen idgen.Generator,
	logger *logging.Logger,
) *TableService {
	return &TableService{
		ratingRepo: ratingRepo,
		seasonRepo: seasonRepo,
		cache:      cache,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *TableService) ReplaceTierTable(ctx context.Context, principal user.Principal, table rating.TierTable) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TableService.ReplaceTierTable")
	defer span.End()

	if err := s.requireAdmin(principal); err != nil {
		return err
	}
	if err := table.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	if err := s.ratingRepo.ReplaceTierTable(ctx, table); err != nil {
		return fmt.Errorf("replace tier table: %w", err)
	}
	s.refreshConfig(ctx, "tier")
	return nil
}

func (s *TableService) ReplaceRateTable(ctx context.Context, principal user.Principal, table rating.RateTable) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TableService.ReplaceRateTable")
	defer span.End()

	if err := s.requireAdmin(principal); err != nil {
		return err
	}
	if err := table.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	if err := s.ratingRepo.ReplaceRateTable(ctx, table); err != nil {
		return fmt.Errorf("replace rate table: %w", err)
	}
	s.refreshConfig(ctx, "rate")
	return nil
}

func (s *TableService) ReplaceScoringTable(ctx context.Context, principal user.Principal, table rating.ScoringTable) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TableService.ReplaceScoringTable")
	defer span.End()

	if err := s.requireAdmin(principal); err != nil {
		return err
	}
	if err := table.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	if err := s.ratingRepo.ReplaceScoringTable(ctx, table); err != nil {
		return fmt.Errorf("replace scoring table: %w", err)
	}
	s.refreshConfig(ctx, "scoring")
	return nil
}

// ReplaceSeasonTables swaps the full season-award set for a mode. The
// set must carry exactly one default; overrides are keyed by season.
func (s *TableService) ReplaceSeasonTables(ctx context.Context, principal user.Principal, mode rating.Mode, tables []rating.SeasonTable) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TableService.ReplaceSeasonTables")
	defer span.End()

	if err := s.requireAdmin(principal); err != nil {
		return err
	}
	if !mode.Valid() {
		return fmt.Errorf("%w: unknown game mode %q", ErrInvalidInput, mode)
	}

	defaults := 0
	for _, table := range tables {
		if table.Mode != mode {
			return fmt.Errorf("%w: season table %q belongs to mode %q", ErrInvalidInput, table.Name, table.Mode)
		}
		if err := table.Validate(); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidInput, err)
		}
		if table.IsDefault {
			defaults++
		}
	}
	if defaults != 1 {
		return fmt.Errorf("%w: %s", ErrInvalidInput, rating.ErrMultipleDefaults)
	}

	if err := s.ratingRepo.ReplaceSeasonTables(ctx, mode, tables); err != nil {
		return fmt.Errorf("replace season tables: %w", err)
	}
	s.refreshConfig(ctx, "season")
	return nil
}

type CreateSeasonInput struct {
	Name     string
	StartsAt time.Time
	EndsAt   time.Time
}

// CreateSeason opens a new ranking period. Windows must not overlap an
// existing season; games dated inside the window become eligible for
// season awards.
func (s *TableService) CreateSeason(ctx context.Context, principal user.Principal, input CreateSeasonInput) (season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TableService.CreateSeason")
	defer span.End()

	if err := s.requireAdmin(principal); err != nil {
		return season.Season{}, err
	}
	if input.Name == "" {
		return season.Season{}, fmt.Errorf("%w: season name is required", ErrInvalidInput)
	}
	if input.StartsAt.IsZero() {
		return season.Season{}, fmt.Errorf("%w: season start is required", ErrInvalidInput)
	}
	if !input.EndsAt.IsZero() && !input.EndsAt.After(input.StartsAt) {
		return season.Season{}, fmt.Errorf("%w: season must end after it starts", ErrInvalidInput)
	}

	existing, err := s.seasonRepo.List(ctx)
	if err != nil {
		return season.Season{}, fmt.Errorf("list seasons: %w", err)
	}
	for _, other := range existing {
		if other.Contains(input.StartsAt) || (!input.EndsAt.IsZero() && other.Contains(input.EndsAt.Add(-time.Nanosecond))) {
			return season.Season{}, fmt.Errorf("%w: window overlaps season %s", ErrInvalidInput, other.ID)
		}
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return season.Season{}, fmt.Errorf("generate season id: %w", err)
	}
	created, err := s.seasonRepo.Create(ctx, season.Season{
		ID:        id,
		Name:      input.Name,
		StartsAt:  input.StartsAt,
		EndsAt:    input.EndsAt,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return season.Season{}, fmt.Errorf("create season: %w", err)
	}
	return created, nil
}

func (s *TableService) ListSeasons(ctx context.Context) ([]season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TableService.ListSeasons")
	defer span.End()

	items, err := s.seasonRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	return items, nil
}

func (s *TableService) requireAdmin(principal user.Principal) error {
	if !principal.HasRole(user.RoleAdmin) {
		return fmt.Errorf("%w: user %s cannot manage config tables", ErrUnauthorized, principal.UserID)
	}
	return nil
}

func (s *TableService) refreshConfig(ctx context.Context, table string) {
	if err := s.cache.Invalidate(ctx, CacheKindConfig); err != nil {
		s.logger.ErrorContext(ctx, "config cache rebuild failed after table replace",
			"table", table, "error", err)
	}
	// Tier labels and season awards feed the view rows as well.
	if err := s.cache.Invalidate(ctx, CacheKindRanking); err != nil {
		s.logger.ErrorContext(ctx, "ranking cache rebuild failed after table replace",
			"table", table, "error", err)
	}
}
