package rating

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrUnknownMode        = errors.New("unknown game mode")
	ErrUnknownGameLength  = errors.New("unknown game length")
	ErrSeatCount          = errors.New("seat count does not match game mode")
	ErrDuplicatePlayer    = errors.New("duplicate player at table")
	ErrDuplicateSeat      = errors.New("duplicate seat wind at table")
	ErrUnknownSeatWind    = errors.New("unknown seat wind for game mode")
	ErrScoreSumMismatch   = errors.New("raw scores do not sum to expected total")
	ErrNegativeChonbo     = errors.New("chonbo count cannot be negative")
	ErrMissingSeasonTable = errors.New("no season table configured for mode")
)

// ScoreSumError reports a raw-score checksum failure with the computed
// expected and actual totals so callers can render the difference.
type ScoreSumError struct {
	Expected int
	Actual   int
}

func (e *ScoreSumError) Error() string {
	return fmt.Sprintf("raw scores sum to %d, expected %d (difference %+d)", e.Actual, e.Expected, e.Actual-e.Expected)
}

func (e *ScoreSumError) Unwrap() error {
	return ErrScoreSumMismatch
}

// SeatResult is one player's reported outcome at the table.
type SeatResult struct {
	PlayerID       string
	Seat           Wind
	Score          int
	ChonboCount    int
	FinalHandScore *int
}

// PlayerState is the standing snapshot the engine reads for one
// participant. A missing state means the player enters at the table's
// defined starting values.
type PlayerState struct {
	TierScore int
	RateScore float64
	GameCount int
}

// Input is everything one calculation needs. The engine never touches
// storage; persistence of the resulting deltas is the caller's job.
type Input struct {
	Mode           Mode
	Length         GameLength
	Seats          []SeatResult
	States         map[string]PlayerState
	SeasonID       string
	SeasonEligible bool
}

// PlayerDelta is the computed outcome for one participant.
type PlayerDelta struct {
	PlayerID       string
	Position       int
	RawScore       int
	AdjustedPoints float64
	TierDelta      int
	RateDelta      float64
	SeasonDelta    int
	SeasonApplied  bool
}

// Result carries the per-player deltas ordered by finishing position.
type Result struct {
	TableAverageRate float64
	Deltas           []PlayerDelta
}

// Tonpuu games carry half the tier and rate weight of a hanchan.
const tonpuuWeight = 0.5

// Calculate runs the full rating pipeline for one finished game:
// checksum, placement, uma/oka/chonbo adjustment, tier delta with
// protected/terminal floors, capped rate delta, season award.
func Calculate(input Input, tables TableSet) (Result, error) {
	if err := ValidateTable(input.Mode, input.Length, input.Seats); err != nil {
		return Result{}, err
	}
	if err := VerifyScoreSum(input.Mode, input.Seats, tables.Scoring); err != nil {
		return Result{}, err
	}

	// Highest raw score wins; stable sort keeps submission order as the
	// deterministic tie-break, so all-tie games still rank 1..N.
	ranked := append([]SeatResult(nil), input.Seats...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	weight := 1.0
	if input.Length == LengthTonpuu {
		weight = tonpuuWeight
	}

	avgRate := tableAverageRate(input, tables.Rate.StartingRate)

	var seasonTable SeasonTable
	seasonFound := false
	if input.SeasonEligible {
		seasonTable, seasonFound = tables.SeasonTableFor(input.SeasonID)
		if !seasonFound {
			return Result{}, fmt.Errorf("%w: %s", ErrMissingSeasonTable, input.Mode)
		}
	}

	deltas := make([]PlayerDelta, 0, len(ranked))
	for idx, seat := range ranked {
		position := idx + 1
		state, known := input.States[seat.PlayerID]
		if !known {
			state = PlayerState{RateScore: tables.Rate.StartingRate}
		}

		adjusted := adjustedPoints(seat, position, tables.Scoring)

		delta := PlayerDelta{
			PlayerID:       seat.PlayerID,
			Position:       position,
			RawScore:       seat.Score,
			AdjustedPoints: adjusted,
			TierDelta:      tierDelta(state.TierScore, position, weight, tables.Tier),
			RateDelta:      rateDelta(state.RateScore, avgRate, position, weight, tables.Rate),
		}
		if input.SeasonEligible {
			delta.SeasonDelta = seasonTable.PositionAwards[position-1]
			delta.SeasonApplied = true
		}
		deltas = append(deltas, delta)
	}

	return Result{TableAverageRate: avgRate, Deltas: deltas}, nil
}

// ValidateTable checks the shape of one reported table: mode, length,
// seat count, distinct players and seat winds.
func ValidateTable(mode Mode, length GameLength, results []SeatResult) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	if !length.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownGameLength, length)
	}
	if len(results) != mode.Players() {
		return fmt.Errorf("%w: got %d seats for %s", ErrSeatCount, len(results), mode)
	}

	players := make(map[string]struct{}, len(results))
	seats := make(map[Wind]struct{}, len(results))
	for _, seat := range results {
		if seat.PlayerID == "" {
			return fmt.Errorf("player id is required")
		}
		if _, exists := players[seat.PlayerID]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicatePlayer, seat.PlayerID)
		}
		players[seat.PlayerID] = struct{}{}

		if !seat.Seat.Valid(mode) {
			return fmt.Errorf("%w: %q", ErrUnknownSeatWind, seat.Seat)
		}
		if _, exists := seats[seat.Seat]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateSeat, seat.Seat)
		}
		seats[seat.Seat] = struct{}{}

		if seat.ChonboCount < 0 {
			return fmt.Errorf("%w: player %s", ErrNegativeChonbo, seat.PlayerID)
		}
	}

	return nil
}

// VerifyScoreSum checks the raw scores against the expected table total
// and reports the computed difference on mismatch.
func VerifyScoreSum(mode Mode, results []SeatResult, scoring ScoringTable) error {
	totalChonbo := 0
	actualSum := 0
	for _, seat := range results {
		totalChonbo += seat.ChonboCount
		actualSum += seat.Score
	}
	expectedSum := scoring.ExpectedScoreTotal(mode, totalChonbo)
	if actualSum != expectedSum {
		return &ScoreSumError{Expected: expectedSum, Actual: actualSum}
	}
	return nil
}

func tableAverageRate(input Input, startingRate float64) float64 {
	total := 0.0
	for _, seat := range input.Seats {
		if state, ok := input.States[seat.PlayerID]; ok {
			total += state.RateScore
			continue
		}
		total += startingRate
	}
	return total / float64(len(input.Seats))
}

func adjustedPoints(seat SeatResult, position int, scoring ScoringTable) float64 {
	points := float64(seat.Score-scoring.ReturnPoints) / 1000.0
	points += scoring.Uma[position-1]
	if position == 1 {
		points += scoring.Oka
	}
	points -= float64(seat.ChonboCount) * scoring.ChonboPenalty
	return points
}

func tierDelta(preScore, position int, weight float64, tier TierTable) int {
	band, ok := tier.BandFor(preScore)
	if !ok {
		return 0
	}

	delta := scaleAward(band.Awards[position-1], weight)
	post := preScore + delta

	// A protected band never demotes below its own minimum; the terminal
	// band has no demotion path out of it. Neither floor applies to a
	// score that entered below the band's bound.
	if (band.IsProtected || band.IsTerminal) && preScore >= band.MinScore && post < band.MinScore {
		return band.MinScore - preScore
	}
	return delta
}

func rateDelta(preRate, avgRate float64, position int, weight float64, rate RateTable) float64 {
	raw := rate.PositionAwards[position-1]*weight + (avgRate-preRate)*rate.AdjustmentRate

	if cap := rate.AdjustmentCap; cap > 0 && math.Abs(raw) > cap {
		raw = math.Copysign(cap, raw)
	}
	if min := rate.MinAdjustment; min > 0 && raw != 0 && math.Abs(raw) < min {
		raw = math.Copysign(min, raw)
	}
	return raw
}

func scaleAward(award int, weight float64) int {
	if weight == 1.0 {
		return award
	}
	return int(math.Trunc(float64(award) * weight))
}
