package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tonpuu/riichi-league/internal/domain/rankingview"
	"github.com/tonpuu/riichi-league/internal/domain/rating"
	"github.com/tonpuu/riichi-league/internal/domain/season"
	"github.com/tonpuu/riichi-league/internal/domain/submission"
	"github.com/tonpuu/riichi-league/internal/domain/user"
	"github.com/tonpuu/riichi-league/internal/infrastructure/repository/memory"
	"github.com/tonpuu/riichi-league/internal/platform/logging"
)

type sequenceIDGenerator struct {
	mu   sync.Mutex
	next int
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.next++
	return fmt.Sprintf("id-%03d", g.next), nil
}

type stubCache struct {
	mu          sync.Mutex
	tables      map[rating.Mode]rating.TableSet
	views       map[rankingview.Key][]rankingview.Row
	ready       bool
	warmUps     int
	invalidated []CacheKind
	warmUpErr   error
}

func newStubCache() *stubCache {
	return &stubCache{
		tables: map[rating.Mode]rating.TableSet{},
		views:  map[rankingview.Key][]rankingview.Row{},
	}
}

func (c *stubCache) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

func (c *stubCache) WarmUp(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.warmUpErr != nil {
		return c.warmUpErr
	}
	c.warmUps++
	c.ready = true
	return nil
}

func (c *stubCache) Invalidate(_ context.Context, kind CacheKind) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, kind)
	return nil
}

func (c *stubCache) TableSet(_ context.Context, mode rating.Mode) (rating.TableSet, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tables, ok := c.tables[mode]
	return tables, ok
}

func (c *stubCache) View(_ context.Context, key rankingview.Key) ([]rankingview.Row, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rows, ok := c.views[key]
	return rows, ok
}

func (c *stubCache) invalidations() []CacheKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]CacheKind(nil), c.invalidated...)
}

type stubEvidenceStore struct {
	mu       sync.Mutex
	released []string
	err      error
}

func (s *stubEvidenceStore) Release(_ context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.released = append(s.released, ref)
	return nil
}

type reviewFixture struct {
	submissions *memory.SubmissionRepository
	standings   *memory.StandingRepository
	games       *memory.GameRepository
	ratings     *memory.RatingRepository
	seasons     *memory.SeasonRepository
	cache       *stubCache
	evidence    *stubEvidenceStore
	service     *ReviewService
}

func newReviewFixture(seasons []season.Season) *reviewFixture {
	games := memory.NewGameRepository()
	standings := memory.NewStandingRepository(nil)
	submissions := memory.NewSubmissionRepository(games, standings)
	ratings := memory.NewRatingRepository()
	seasonRepo := memory.NewSeasonRepository(seasons)
	cache := newStubCache()
	evidence := &stubEvidenceStore{}

	service := NewReviewService(
		submissions,
		standings,
		ratings,
		seasonRepo,
		cache,
		evidence,
		&sequenceIDGenerator{},
		logging.NewNop(),
	)

	return &reviewFixture{
		submissions: submissions,
		standings:   standings,
		games:       games,
		ratings:     ratings,
		seasons:     seasonRepo,
		cache:       cache,
		evidence:    evidence,
		service:     service,
	}
}

func (f *reviewFixture) seedSubmission(t *testing.T, id string, gameDate time.Time, seqNo *int, evidenceRef string) submission.RawGameSubmission {
	t.Helper()

	created, err := f.submissions.Create(t.Context(), submission.RawGameSubmission{
		ID:             id,
		GameDate:       gameDate,
		SequenceNumber: seqNo,
		Mode:           rating.ModeYonma,
		Length:         rating.LengthHanchan,
		Seats: []rating.SeatResult{
			{PlayerID: "alice", Seat: rating.WindEast, Score: 38000},
			{PlayerID: "bob", Seat: rating.WindSouth, Score: 29000},
			{PlayerID: "carol", Seat: rating.WindWest, Score: 18000},
			{PlayerID: "dave", Seat: rating.WindNorth, Score: 15000},
		},
		Status:      submission.StatusPending,
		EvidenceRef: evidenceRef,
		CreatedAt:   gameDate,
	})
	if err != nil {
		t.Fatalf("seed submission %s: %v", id, err)
	}
	return created
}

func reviewer() user.Principal {
	return user.Principal{UserID: "rev-1", DisplayName: "Reviewer", Roles: []string{user.RoleReviewer}}
}

func TestReviewService_ApproveHead(t *testing.T) {
	t.Parallel()

	f := newReviewFixture(nil)
	day := time.Date(2026, time.March, 1, 18, 0, 0, 0, time.UTC)
	head := f.seedSubmission(t, "sub-1", day, nil, "evidence/sub-1.png")
	f.seedSubmission(t, "sub-2", day.Add(time.Hour), nil, "")

	validated, err := f.service.Approve(t.Context(), reviewer(), head.ID, head.Version)
	if err != nil {
		t.Fatalf("approve head failed: %v", err)
	}

	if validated.SubmissionID != head.ID {
		t.Fatalf("validated game references %s, want %s", validated.SubmissionID, head.ID)
	}
	if len(validated.Results) != 4 {
		t.Fatalf("expected 4 seat outcomes, got %d", len(validated.Results))
	}

	stored, _, err := f.submissions.GetByID(t.Context(), head.ID)
	if err != nil {
		t.Fatalf("reload submission: %v", err)
	}
	if stored.Status != submission.StatusValidated {
		t.Fatalf("expected status VALIDATED, got %s", stored.Status)
	}

	winner, exists, err := f.standings.GetByPlayer(t.Context(), "alice", rating.ModeYonma)
	if err != nil || !exists {
		t.Fatalf("expected a standing for the winner, exists=%v err=%v", exists, err)
	}
	if winner.TierScore != 60 || winner.GameCount != 1 {
		t.Fatalf("unexpected winner standing: tier=%d games=%d", winner.TierScore, winner.GameCount)
	}

	games, err := f.games.ListByModeInQueueOrder(t.Context(), rating.ModeYonma)
	if err != nil || len(games) != 1 {
		t.Fatalf("expected one validated game, got %d err=%v", len(games), err)
	}

	if got := f.evidence.released; len(got) != 1 || got[0] != "evidence/sub-1.png" {
		t.Fatalf("expected evidence release, got %v", got)
	}
	if kinds := f.cache.invalidations(); len(kinds) != 1 || kinds[0] != CacheKindRanking {
		t.Fatalf("expected one ranking invalidation, got %v", kinds)
	}
}

func TestReviewService_ApproveOutOfOrder(t *testing.T) {
	t.Parallel()

	f := newReviewFixture(nil)
	day := time.Date(2026, time.March, 1, 18, 0, 0, 0, time.UTC)
	head := f.seedSubmission(t, "sub-1", day, nil, "")
	second := f.seedSubmission(t, "sub-2", day.Add(time.Hour), nil, "")

	_, err := f.service.Approve(t.Context(), reviewer(), second.ID, second.Version)
	if !errors.Is(err, submission.ErrOutOfOrder) {
		t.Fatalf("expected ErrOutOfOrder, got %v", err)
	}

	var blocked *submission.OutOfOrderError
	if !errors.As(err, &blocked) {
		t.Fatalf("expected *OutOfOrderError, got %T", err)
	}
	if blocked.BlockingID != head.ID {
		t.Fatalf("expected blocking id %s, got %s", head.ID, blocked.BlockingID)
	}
}

func TestReviewService_ApproveSameDaySequence(t *testing.T) {
	t.Parallel()

	f := newReviewFixture(nil)
	day := time.Date(2026, time.March, 1, 18, 0, 0, 0, time.UTC)
	one, two := 1, 2
	first := f.seedSubmission(t, "sub-seq-1", day, &one, "")
	second := f.seedSubmission(t, "sub-seq-2", day, &two, "")

	if _, err := f.service.Approve(t.Context(), reviewer(), second.ID, second.Version); !errors.Is(err, submission.ErrOutOfOrder) {
		t.Fatalf("expected sequence 2 to be blocked, got %v", err)
	}
	if _, err := f.service.Approve(t.Context(), reviewer(), first.ID, first.Version); err != nil {
		t.Fatalf("approve sequence 1 failed: %v", err)
	}
	if _, err := f.service.Approve(t.Context(), reviewer(), second.ID, second.Version); err != nil {
		t.Fatalf("approve sequence 2 after head failed: %v", err)
	}
}

func TestReviewService_ApproveAlreadyProcessed(t *testing.T) {
	t.Parallel()

	f := newReviewFixture(nil)
	day := time.Date(2026, time.March, 1, 18, 0, 0, 0, time.UTC)
	head := f.seedSubmission(t, "sub-1", day, nil, "")

	if _, err := f.service.Approve(t.Context(), reviewer(), head.ID, head.Version); err != nil {
		t.Fatalf("first approve failed: %v", err)
	}
	_, err := f.service.Approve(t.Context(), reviewer(), head.ID, head.Version+1)
	if !errors.Is(err, submission.ErrAlreadyProcessed) {
		t.Fatalf("expected ErrAlreadyProcessed, got %v", err)
	}
}

func TestReviewService_ApproveStaleVersion(t *testing.T) {
	t.Parallel()

	f := newReviewFixture(nil)
	day := time.Date(2026, time.March, 1, 18, 0, 0, 0, time.UTC)
	head := f.seedSubmission(t, "sub-1", day, nil, "")

	_, err := f.service.Approve(t.Context(), reviewer(), head.ID, head.Version+5)
	if !errors.Is(err, submission.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}

func TestReviewService_ApproveUnauthorized(t *testing.T) {
	t.Parallel()

	f := newReviewFixture(nil)
	day := time.Date(2026, time.March, 1, 18, 0, 0, 0, time.UTC)
	head := f.seedSubmission(t, "sub-1", day, nil, "")

	plain := user.Principal{UserID: "user-9", DisplayName: "Visitor"}
	if _, err := f.service.Approve(t.Context(), plain, head.ID, head.Version); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestReviewService_ApproveSeasonScoped(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, time.March, 1, 18, 0, 0, 0, time.UTC)
	f := newReviewFixture([]season.Season{{
		ID:       "season-1",
		Name:     "Spring 2026",
		StartsAt: day.Add(-24 * time.Hour),
		EndsAt:   day.Add(30 * 24 * time.Hour),
	}})

	created, err := f.submissions.Create(t.Context(), submission.RawGameSubmission{
		ID:       "sub-season",
		GameDate: day,
		Mode:     rating.ModeYonma,
		Length:   rating.LengthHanchan,
		Seats: []rating.SeatResult{
			{PlayerID: "alice", Seat: rating.WindEast, Score: 38000},
			{PlayerID: "bob", Seat: rating.WindSouth, Score: 29000},
			{PlayerID: "carol", Seat: rating.WindWest, Score: 18000},
			{PlayerID: "dave", Seat: rating.WindNorth, Score: 15000},
		},
		Status:       submission.StatusPending,
		SeasonScoped: true,
		CreatedAt:    day,
	})
	if err != nil {
		t.Fatalf("seed season submission: %v", err)
	}

	validated, err := f.service.Approve(t.Context(), reviewer(), created.ID, created.Version)
	if err != nil {
		t.Fatalf("approve season game failed: %v", err)
	}
	if validated.SeasonID != "season-1" {
		t.Fatalf("expected season-1 on the validated game, got %q", validated.SeasonID)
	}

	winner, _, err := f.standings.GetByPlayer(t.Context(), "alice", rating.ModeYonma)
	if err != nil {
		t.Fatalf("reload winner standing: %v", err)
	}
	if winner.SeasonScore != 4 || winner.SeasonGameCount != 1 {
		t.Fatalf("unexpected season standing: score=%d games=%d", winner.SeasonScore, winner.SeasonGameCount)
	}
}

func TestReviewService_Reject(t *testing.T) {
	t.Parallel()

	f := newReviewFixture(nil)
	day := time.Date(2026, time.March, 1, 18, 0, 0, 0, time.UTC)
	head := f.seedSubmission(t, "sub-1", day, nil, "evidence/sub-1.png")

	t.Run("missing reason", func(t *testing.T) {
		err := f.service.Reject(t.Context(), reviewer(), head.ID, head.Version, "")
		if !errors.Is(err, ErrMissingReason) {
			t.Fatalf("expected ErrMissingReason, got %v", err)
		}
	})

	t.Run("head rejects with reason", func(t *testing.T) {
		if err := f.service.Reject(t.Context(), reviewer(), head.ID, head.Version, "scores unreadable"); err != nil {
			t.Fatalf("reject failed: %v", err)
		}

		stored, _, err := f.submissions.GetByID(t.Context(), head.ID)
		if err != nil {
			t.Fatalf("reload submission: %v", err)
		}
		if stored.Status != submission.StatusRejected {
			t.Fatalf("expected status REJECTED, got %s", stored.Status)
		}
		if stored.RejectReason != "scores unreadable" || stored.RejectedBy != "rev-1" {
			t.Fatalf("unexpected rejection fields: %q by %q", stored.RejectReason, stored.RejectedBy)
		}

		if games, _ := f.games.ListByModeInQueueOrder(t.Context(), rating.ModeYonma); len(games) != 0 {
			t.Fatalf("rejected submission must not create a game, got %d", len(games))
		}
		if got := f.evidence.released; len(got) != 1 {
			t.Fatalf("expected evidence release on rejection, got %v", got)
		}
	})
}
