package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/tonpuu/riichi-league/internal/domain/rating"
	"github.com/tonpuu/riichi-league/internal/domain/season"
	"github.com/tonpuu/riichi-league/internal/domain/user"
	"github.com/tonpuu/riichi-league/internal/infrastructure/repository/memory"
	"github.com/tonpuu/riichi-league/internal/platform/logging"
)

func intPtr(v int) *int { return &v }

func admin() user.Principal {
	return user.Principal{UserID: "adm-1", DisplayName: "Admin", Roles: []string{user.RoleAdmin}}
}

type tableFixture struct {
	ratings *memory.RatingRepository
	seasons *memory.SeasonRepository
	cache   *stubCache
	service *TableService
}

func newTableFixture(seasons []season.Season) *tableFixture {
	ratings := memory.NewRatingRepository()
	seasonRepo := memory.NewSeasonRepository(seasons)
	cache := newStubCache()
	service := NewTableService(ratings, seasonRepo, cache, &sequenceIDGenerator{}, logging.NewNop())
	return &tableFixture{ratings: ratings, seasons: seasonRepo, cache: cache, service: service}
}

func TestTableService_ReplaceTierTable(t *testing.T) {
	t.Parallel()

	f := newTableFixture(nil)

	replacement := rating.DefaultTables(rating.ModeYonma).Tier
	replacement.Bands[0].Awards = []int{90, 30, 0, 0}

	if err := f.service.ReplaceTierTable(t.Context(), admin(), replacement); err != nil {
		t.Fatalf("replace tier table failed: %v", err)
	}

	stored, err := f.ratings.GetTableSet(t.Context(), rating.ModeYonma)
	if err != nil {
		t.Fatalf("reload table set: %v", err)
	}
	if stored.Tier.Bands[0].Awards[0] != 90 {
		t.Fatalf("expected the replacement to persist, got award %d", stored.Tier.Bands[0].Awards[0])
	}

	kinds := f.cache.invalidations()
	if len(kinds) != 2 || kinds[0] != CacheKindConfig || kinds[1] != CacheKindRanking {
		t.Fatalf("expected config then ranking invalidation, got %v", kinds)
	}
}

func TestTableService_ReplaceTierTable_Invalid(t *testing.T) {
	t.Parallel()

	f := newTableFixture(nil)

	gapped := rating.TierTable{Mode: rating.ModeYonma, Bands: []rating.TierBand{
		{Label: "a", MinScore: 0, MaxScore: intPtr(100), Awards: []int{1, 1, 0, 0}},
		{Label: "b", MinScore: 500, Awards: []int{1, 1, 0, 0}},
	}}

	err := f.service.ReplaceTierTable(t.Context(), admin(), gapped)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if kinds := f.cache.invalidations(); len(kinds) != 0 {
		t.Fatalf("a rejected table must not touch the cache, got %v", kinds)
	}
}

func TestTableService_RequiresAdmin(t *testing.T) {
	t.Parallel()

	f := newTableFixture(nil)
	table := rating.DefaultTables(rating.ModeYonma).Tier

	err := f.service.ReplaceTierTable(t.Context(), reviewer(), table)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for a reviewer, got %v", err)
	}
}

func TestTableService_ReplaceSeasonTables(t *testing.T) {
	t.Parallel()

	f := newTableFixture(nil)

	t.Run("exactly one default required", func(t *testing.T) {
		tables := []rating.SeasonTable{
			{Mode: rating.ModeYonma, Name: "a", IsDefault: true, PositionAwards: []int{4, 2, 1, 0}},
			{Mode: rating.ModeYonma, Name: "b", IsDefault: true, PositionAwards: []int{8, 4, 2, 0}},
		}
		if err := f.service.ReplaceSeasonTables(t.Context(), admin(), rating.ModeYonma, tables); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for two defaults, got %v", err)
		}
	})

	t.Run("mode mismatch rejected", func(t *testing.T) {
		tables := []rating.SeasonTable{
			{Mode: rating.ModeSanma, Name: "a", IsDefault: true, PositionAwards: []int{4, 2, 0}},
		}
		if err := f.service.ReplaceSeasonTables(t.Context(), admin(), rating.ModeYonma, tables); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for a foreign mode, got %v", err)
		}
	})

	t.Run("valid set persists", func(t *testing.T) {
		tables := []rating.SeasonTable{
			{Mode: rating.ModeYonma, Name: "default", IsDefault: true, PositionAwards: []int{4, 2, 1, 0}},
			{Mode: rating.ModeYonma, SeasonID: "season-2", Name: "boosted", PositionAwards: []int{8, 4, 2, 0}},
		}
		if err := f.service.ReplaceSeasonTables(t.Context(), admin(), rating.ModeYonma, tables); err != nil {
			t.Fatalf("replace season tables failed: %v", err)
		}

		stored, err := f.ratings.GetTableSet(t.Context(), rating.ModeYonma)
		if err != nil {
			t.Fatalf("reload table set: %v", err)
		}
		if len(stored.Seasons) != 2 {
			t.Fatalf("expected 2 season tables, got %d", len(stored.Seasons))
		}
	})
}

func TestTableService_CreateSeason(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, 0)
	f := newTableFixture([]season.Season{{
		ID: "season-1", Name: "Spring", StartsAt: start, EndsAt: end,
	}})

	t.Run("overlap rejected", func(t *testing.T) {
		_, err := f.service.CreateSeason(t.Context(), admin(), CreateSeasonInput{
			Name:     "Overlapping",
			StartsAt: start.AddDate(0, 1, 0),
			EndsAt:   end.AddDate(0, 1, 0),
		})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for overlap, got %v", err)
		}
	})

	t.Run("inverted window rejected", func(t *testing.T) {
		_, err := f.service.CreateSeason(t.Context(), admin(), CreateSeasonInput{
			Name:     "Backwards",
			StartsAt: end,
			EndsAt:   start,
		})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for inverted window, got %v", err)
		}
	})

	t.Run("adjacent season allowed", func(t *testing.T) {
		created, err := f.service.CreateSeason(t.Context(), admin(), CreateSeasonInput{
			Name:     "Summer",
			StartsAt: end,
			EndsAt:   end.AddDate(0, 3, 0),
		})
		if err != nil {
			t.Fatalf("create adjacent season failed: %v", err)
		}
		if created.ID == "" || created.Name != "Summer" {
			t.Fatalf("unexpected season: %+v", created)
		}

		found, ok, err := f.seasons.FindAt(t.Context(), end.AddDate(0, 1, 0))
		if err != nil || !ok || found.ID != created.ID {
			t.Fatalf("expected the new season at its midpoint, got %+v ok=%v err=%v", found, ok, err)
		}
	})
}
