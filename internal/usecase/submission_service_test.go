package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/tonpuu/riichi-league/internal/domain/rating"
	"github.com/tonpuu/riichi-league/internal/domain/submission"
	"github.com/tonpuu/riichi-league/internal/infrastructure/repository/memory"
)

func newSubmissionService() (*SubmissionService, *memory.SubmissionRepository) {
	games := memory.NewGameRepository()
	standings := memory.NewStandingRepository(nil)
	submissions := memory.NewSubmissionRepository(games, standings)
	service := NewSubmissionService(submissions, memory.NewRatingRepository(), &sequenceIDGenerator{})
	return service, submissions
}

func validSubmitInput(gameDate time.Time) SubmitGameInput {
	return SubmitGameInput{
		GameDate: gameDate,
		Mode:     rating.ModeYonma,
		Length:   rating.LengthHanchan,
		Seats: []rating.SeatResult{
			{PlayerID: "alice", Seat: rating.WindEast, Score: 38000},
			{PlayerID: "bob", Seat: rating.WindSouth, Score: 29000},
			{PlayerID: "carol", Seat: rating.WindWest, Score: 18000},
			{PlayerID: "dave", Seat: rating.WindNorth, Score: 15000},
		},
	}
}

func TestSubmissionService_SubmitRawGame(t *testing.T) {
	t.Parallel()

	service, _ := newSubmissionService()
	day := time.Date(2026, time.March, 2, 20, 0, 0, 0, time.UTC)

	created, err := service.SubmitRawGame(t.Context(), validSubmitInput(day))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if created.ID == "" {
		t.Fatal("expected a generated submission id")
	}
	if created.Status != submission.StatusPending {
		t.Fatalf("expected status PENDING, got %s", created.Status)
	}
	if created.Version != 1 {
		t.Fatalf("expected version 1 on a fresh submission, got %d", created.Version)
	}
}

func TestSubmissionService_SubmitRawGame_ScoreSumMismatch(t *testing.T) {
	t.Parallel()

	service, _ := newSubmissionService()
	day := time.Date(2026, time.March, 2, 20, 0, 0, 0, time.UTC)

	input := validSubmitInput(day)
	input.Seats[3].Score = 14000

	_, err := service.SubmitRawGame(t.Context(), input)
	if !errors.Is(err, rating.ErrScoreSumMismatch) {
		t.Fatalf("expected ErrScoreSumMismatch, got %v", err)
	}

	var sumErr *rating.ScoreSumError
	if !errors.As(err, &sumErr) {
		t.Fatalf("expected *ScoreSumError, got %T", err)
	}
	if sumErr.Expected != 100000 || sumErr.Actual != 99000 {
		t.Fatalf("unexpected totals: expected=%d actual=%d", sumErr.Expected, sumErr.Actual)
	}
}

func TestSubmissionService_SubmitRawGame_InvalidInput(t *testing.T) {
	t.Parallel()

	service, _ := newSubmissionService()
	day := time.Date(2026, time.March, 2, 20, 0, 0, 0, time.UTC)

	t.Run("zero game date", func(t *testing.T) {
		input := validSubmitInput(time.Time{})
		if _, err := service.SubmitRawGame(t.Context(), input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("negative sequence number", func(t *testing.T) {
		input := validSubmitInput(day)
		minusOne := -1
		input.SequenceNumber = &minusOne
		if _, err := service.SubmitRawGame(t.Context(), input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("duplicate player", func(t *testing.T) {
		input := validSubmitInput(day)
		input.Seats[1].PlayerID = "alice"
		if _, err := service.SubmitRawGame(t.Context(), input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestSubmissionService_ListPendingQueue(t *testing.T) {
	t.Parallel()

	service, repo := newSubmissionService()
	day := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	one := 1

	seed := []submission.RawGameSubmission{
		{ID: "later-day", GameDate: day.Add(24 * time.Hour), Status: submission.StatusPending, CreatedAt: day},
		{ID: "unnumbered", GameDate: day, Status: submission.StatusPending, CreatedAt: day.Add(time.Minute)},
		{ID: "numbered", GameDate: day, SequenceNumber: &one, Status: submission.StatusPending, CreatedAt: day.Add(2 * time.Minute)},
	}
	for _, item := range seed {
		if _, err := repo.Create(t.Context(), item); err != nil {
			t.Fatalf("seed %s: %v", item.ID, err)
		}
	}

	queue, err := service.ListPendingQueue(t.Context())
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}

	wantOrder := []string{"numbered", "unnumbered", "later-day"}
	if len(queue) != len(wantOrder) {
		t.Fatalf("expected %d items, got %d", len(wantOrder), len(queue))
	}
	for i, want := range wantOrder {
		if queue[i].ID != want {
			t.Fatalf("position %d: got %s, want %s", i, queue[i].ID, want)
		}
	}
}

func TestSubmissionService_DeleteAndRestore(t *testing.T) {
	t.Parallel()

	service, repo := newSubmissionService()
	day := time.Date(2026, time.March, 2, 20, 0, 0, 0, time.UTC)
	created, err := repo.Create(t.Context(), submission.RawGameSubmission{
		ID:        "sub-1",
		GameDate:  day,
		Status:    submission.StatusPending,
		CreatedAt: day,
	})
	if err != nil {
		t.Fatalf("seed submission: %v", err)
	}

	if err := service.DeleteSubmission(t.Context(), created.ID, created.Version+7); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict on a stale delete, got %v", err)
	}
	if err := service.DeleteSubmission(t.Context(), created.ID, created.Version); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := service.GetSubmission(t.Context(), created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected deleted submission to be invisible, got %v", err)
	}

	if err := service.RestoreSubmission(t.Context(), created.ID, created.Version+1); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if _, err := service.GetSubmission(t.Context(), created.ID); err != nil {
		t.Fatalf("expected restored submission to be visible, got %v", err)
	}

	if err := service.RestoreSubmission(t.Context(), "missing", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
}
