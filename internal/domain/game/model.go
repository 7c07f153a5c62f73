package game

import (
	"time"

	"github.com/tonpuu/riichi-league/internal/domain/rating"
)

// SeatOutcome is one player's slice of a validated game: the reported
// seat data plus the rating deltas that were actually applied.
type SeatOutcome struct {
	PlayerID       string
	Seat           rating.Wind
	Score          int
	ChonboCount    int
	FinalHandScore *int
	Position       int
	AdjustedPoints float64
	TierDelta      int
	RateDelta      float64
	SeasonDelta    int
	SeasonApplied  bool
}

// ValidatedGame is the durable record created when a submission is
// approved. Immutable once written except for soft delete.
type ValidatedGame struct {
	ID             string
	SubmissionID   string
	GameDate       time.Time
	SequenceNumber *int
	Mode           rating.Mode
	Length         rating.GameLength
	SeasonID       string
	Results        []SeatOutcome
	CreatedAt      time.Time
	DeletedAt      *time.Time
}

// Outcomes merges the engine result into the submitted seat data.
func Outcomes(seats []rating.SeatResult, result rating.Result) []SeatOutcome {
	bySeat := make(map[string]rating.SeatResult, len(seats))
	for _, seat := range seats {
		bySeat[seat.PlayerID] = seat
	}

	out := make([]SeatOutcome, 0, len(result.Deltas))
	for _, delta := range result.Deltas {
		seat := bySeat[delta.PlayerID]
		out = append(out, SeatOutcome{
			PlayerID:       delta.PlayerID,
			Seat:           seat.Seat,
			Score:          seat.Score,
			ChonboCount:    seat.ChonboCount,
			FinalHandScore: seat.FinalHandScore,
			Position:       delta.Position,
			AdjustedPoints: delta.AdjustedPoints,
			TierDelta:      delta.TierDelta,
			RateDelta:      delta.RateDelta,
			SeasonDelta:    delta.SeasonDelta,
			SeasonApplied:  delta.SeasonApplied,
		})
	}
	return out
}
