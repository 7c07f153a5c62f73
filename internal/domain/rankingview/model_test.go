package rankingview

import (
	"testing"
	"time"

	"github.com/tonpuu/riichi-league/internal/domain/player"
	"github.com/tonpuu/riichi-league/internal/domain/rating"
	"github.com/tonpuu/riichi-league/internal/domain/standing"
)

func testPlayers() map[string]player.Player {
	deletedAt := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	return map[string]player.Player{
		"alice":   {ID: "alice", DisplayName: "Alice", IsActive: true},
		"bob":     {ID: "bob", DisplayName: "Bob", IsActive: true},
		"carol":   {ID: "carol", DisplayName: "Carol", IsActive: false},
		"deleted": {ID: "deleted", DisplayName: "Ghost", IsActive: true, DeletedAt: &deletedAt},
	}
}

func testStandings() []standing.PlayerStanding {
	return []standing.PlayerStanding{
		{PlayerID: "alice", Mode: rating.ModeYonma, TierScore: 900, RateScore: 1620, SeasonScore: 12, GameCount: 40, SeasonGameCount: 10},
		{PlayerID: "bob", Mode: rating.ModeYonma, TierScore: 900, RateScore: 1580, SeasonScore: 7, GameCount: 35, SeasonGameCount: 8},
		{PlayerID: "carol", Mode: rating.ModeYonma, TierScore: 400, RateScore: 1510, SeasonScore: 0, GameCount: 12},
		{PlayerID: "deleted", Mode: rating.ModeYonma, TierScore: 2000, RateScore: 1800, SeasonScore: 30, GameCount: 80, SeasonGameCount: 20},
		{PlayerID: "alice", Mode: rating.ModeSanma, TierScore: 100, RateScore: 1500, GameCount: 3},
	}
}

func TestAllKeysCoversEveryView(t *testing.T) {
	t.Parallel()

	keys := AllKeys()
	if len(keys) != 8 {
		t.Fatalf("expected 8 view keys, got %d", len(keys))
	}
	seen := make(map[Key]struct{}, len(keys))
	for _, key := range keys {
		if !key.Valid() {
			t.Fatalf("generated invalid key %+v", key)
		}
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate key %+v", key)
		}
		seen[key] = struct{}{}
	}
}

func TestBuildOverallView(t *testing.T) {
	t.Parallel()

	tier := rating.DefaultTables(rating.ModeYonma).Tier
	rows := Build(
		Key{Mode: rating.ModeYonma, Scope: ScopeOverall, PlayerSet: PlayersAll},
		testStandings(), testPlayers(), tier,
	)

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.PlayerID == "deleted" {
			t.Fatal("soft-deleted player listed in a view")
		}
	}

	// Alice and Bob tie on tier score and share a dense rank; the rate
	// score orders them within the tie.
	if rows[0].PlayerID != "alice" || rows[1].PlayerID != "bob" {
		t.Fatalf("unexpected ordering: %s, %s", rows[0].PlayerID, rows[1].PlayerID)
	}
	if rows[0].Rank != 1 || rows[1].Rank != 1 {
		t.Fatalf("expected shared rank 1 for the tie, got %d and %d", rows[0].Rank, rows[1].Rank)
	}
	if rows[2].PlayerID != "carol" || rows[2].Rank != 2 {
		t.Fatalf("expected carol at dense rank 2, got %s at %d", rows[2].PlayerID, rows[2].Rank)
	}

	if rows[0].TierLabel != "expert" {
		t.Fatalf("expected tier label expert for score 900, got %q", rows[0].TierLabel)
	}
}

func TestBuildActiveSetDropsInactive(t *testing.T) {
	t.Parallel()

	tier := rating.DefaultTables(rating.ModeYonma).Tier
	rows := Build(
		Key{Mode: rating.ModeYonma, Scope: ScopeOverall, PlayerSet: PlayersActive},
		testStandings(), testPlayers(), tier,
	)

	for _, row := range rows {
		if row.PlayerID == "carol" {
			t.Fatal("inactive player listed in the active view")
		}
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
}

func TestBuildSeasonView(t *testing.T) {
	t.Parallel()

	tier := rating.DefaultTables(rating.ModeYonma).Tier
	rows := Build(
		Key{Mode: rating.ModeYonma, Scope: ScopeSeason, PlayerSet: PlayersAll},
		testStandings(), testPlayers(), tier,
	)

	// Carol has no season games and drops out of the season scope.
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].PlayerID != "alice" || rows[0].SeasonScore != 12 {
		t.Fatalf("expected alice leading on season score, got %s with %d", rows[0].PlayerID, rows[0].SeasonScore)
	}
	if rows[1].Rank != 2 {
		t.Fatalf("expected distinct season scores to rank densely, got rank %d", rows[1].Rank)
	}
}
