package submission

import (
	"testing"
	"time"
)

func TestBeforeOrdering(t *testing.T) {
	t.Parallel()

	day1 := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)
	seq := func(n int) *int { return &n }

	t.Run("earlier game date first", func(t *testing.T) {
		a := RawGameSubmission{ID: "b", GameDate: day1}
		b := RawGameSubmission{ID: "a", GameDate: day2}
		if !Before(a, b) || Before(b, a) {
			t.Fatal("expected game date to dominate ordering")
		}
	})

	t.Run("sequence number orders within a day", func(t *testing.T) {
		a := RawGameSubmission{ID: "a", GameDate: day1, SequenceNumber: seq(1)}
		b := RawGameSubmission{ID: "b", GameDate: day1, SequenceNumber: seq(2)}
		if !Before(a, b) {
			t.Fatal("expected lower sequence number first")
		}
	})

	t.Run("numbered games precede unnumbered ones", func(t *testing.T) {
		numbered := RawGameSubmission{ID: "n", GameDate: day1, SequenceNumber: seq(9)}
		unnumbered := RawGameSubmission{ID: "u", GameDate: day1}
		if !Before(numbered, unnumbered) || Before(unnumbered, numbered) {
			t.Fatal("expected nil sequence numbers to sort last")
		}
	})

	t.Run("creation time breaks remaining ties", func(t *testing.T) {
		a := RawGameSubmission{ID: "a", GameDate: day1, CreatedAt: day1.Add(time.Minute)}
		b := RawGameSubmission{ID: "b", GameDate: day1, CreatedAt: day1.Add(2 * time.Minute)}
		if !Before(a, b) {
			t.Fatal("expected earlier submission first")
		}
	})
}

func TestHead(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	seq := func(n int) *int { return &n }

	items := []RawGameSubmission{
		{ID: "validated", GameDate: day.Add(-48 * time.Hour), Status: StatusValidated},
		{ID: "late", GameDate: day.Add(24 * time.Hour), Status: StatusPending},
		{ID: "head", GameDate: day, SequenceNumber: seq(1), Status: StatusPending},
		{ID: "second", GameDate: day, SequenceNumber: seq(2), Status: StatusPending},
	}

	head, found := Head(items)
	if !found {
		t.Fatal("expected a queue head")
	}
	if head.ID != "head" {
		t.Fatalf("expected submission %q at the head, got %q", "head", head.ID)
	}

	if _, found := Head(nil); found {
		t.Fatal("expected no head for an empty queue")
	}
}
