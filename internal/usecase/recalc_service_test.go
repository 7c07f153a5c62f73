package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/tonpuu/riichi-league/internal/domain/rating"
	"github.com/tonpuu/riichi-league/internal/platform/logging"
)

func TestRecalcService_ReplaysHistoryUnderNewTables(t *testing.T) {
	t.Parallel()

	f := newReviewFixture(nil)
	day := time.Date(2026, time.March, 1, 18, 0, 0, 0, time.UTC)
	first := f.seedSubmission(t, "sub-1", day, nil, "")
	second := f.seedSubmission(t, "sub-2", day.Add(time.Hour), nil, "")

	if _, err := f.service.Approve(t.Context(), reviewer(), first.ID, first.Version); err != nil {
		t.Fatalf("approve first game: %v", err)
	}
	if _, err := f.service.Approve(t.Context(), reviewer(), second.ID, second.Version); err != nil {
		t.Fatalf("approve second game: %v", err)
	}

	before, _, err := f.standings.GetByPlayer(t.Context(), "alice", rating.ModeYonma)
	if err != nil {
		t.Fatalf("read standing before recalc: %v", err)
	}
	if before.TierScore != 120 {
		t.Fatalf("expected tier score 120 after two wins, got %d", before.TierScore)
	}

	// Double the first-place dan award, then replay history under it.
	tier := rating.DefaultTables(rating.ModeYonma).Tier
	for i := range tier.Bands {
		tier.Bands[i].Awards[0] = 120
	}
	if err := f.ratings.ReplaceTierTable(t.Context(), tier); err != nil {
		t.Fatalf("replace tier table: %v", err)
	}

	service := NewRecalcService(f.games, f.standings, f.ratings, f.cache, logging.NewNop())
	result, err := service.Recalculate(t.Context(), admin(), RecalcInput{Modes: []rating.Mode{rating.ModeYonma}})
	if err != nil {
		t.Fatalf("recalculate failed: %v", err)
	}

	if result.TaskCount != 1 || result.SuccessCount != 1 || result.FailedCount != 0 {
		t.Fatalf("unexpected result counts: %+v", result)
	}
	if result.Tasks[0].Games != 2 || result.Tasks[0].Players != 4 {
		t.Fatalf("unexpected task row: %+v", result.Tasks[0])
	}

	after, _, err := f.standings.GetByPlayer(t.Context(), "alice", rating.ModeYonma)
	if err != nil {
		t.Fatalf("read standing after recalc: %v", err)
	}
	if after.TierScore != 240 {
		t.Fatalf("expected tier score 240 under the new award, got %d", after.TierScore)
	}
	if after.GameCount != 2 {
		t.Fatalf("expected game count preserved, got %d", after.GameCount)
	}
}

func TestRecalcService_DryRunLeavesStandings(t *testing.T) {
	t.Parallel()

	f := newReviewFixture(nil)
	day := time.Date(2026, time.March, 1, 18, 0, 0, 0, time.UTC)
	head := f.seedSubmission(t, "sub-1", day, nil, "")
	if _, err := f.service.Approve(t.Context(), reviewer(), head.ID, head.Version); err != nil {
		t.Fatalf("approve game: %v", err)
	}

	service := NewRecalcService(f.games, f.standings, f.ratings, f.cache, logging.NewNop())
	result, err := service.Recalculate(t.Context(), admin(), RecalcInput{
		Modes:  []rating.Mode{rating.ModeYonma},
		DryRun: true,
	})
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if result.Tasks[0].Games != 1 {
		t.Fatalf("expected one replayed game, got %d", result.Tasks[0].Games)
	}

	st, _, err := f.standings.GetByPlayer(t.Context(), "alice", rating.ModeYonma)
	if err != nil {
		t.Fatalf("read standing: %v", err)
	}
	if st.Version != 1 {
		t.Fatalf("dry run must not rewrite standings, got version %d", st.Version)
	}
}

func TestRecalcService_Guards(t *testing.T) {
	t.Parallel()

	f := newReviewFixture(nil)
	service := NewRecalcService(f.games, f.standings, f.ratings, f.cache, logging.NewNop())

	if _, err := service.Recalculate(t.Context(), reviewer(), RecalcInput{}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for a reviewer, got %v", err)
	}
	if _, err := service.Recalculate(t.Context(), admin(), RecalcInput{Modes: []rating.Mode{"5p"}}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for an unknown mode, got %v", err)
	}
}
