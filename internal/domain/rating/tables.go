package rating

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyTierTable      = errors.New("tier table has no bands")
	ErrTierBandGap         = errors.New("tier bands must be contiguous")
	ErrTierBandOrder       = errors.New("tier bands must be strictly increasing")
	ErrTierBandOpenMiddle  = errors.New("only the highest tier band may have an open top")
	ErrAwardCount          = errors.New("position awards must cover every seat")
	ErrMultipleDefaults    = errors.New("only one default table is allowed per mode")
	ErrNoDefaultRateTable  = errors.New("a default rate table is required")
	ErrNonPositiveStarting = errors.New("starting points must be greater than zero")
)

// TierBand is one range of the tier score axis mapped to a labeled tier.
type TierBand struct {
	Label       string
	Color       string
	MinScore    int
	MaxScore    *int // nil means open top, legal only for the highest band
	Awards      []int
	IsProtected bool
	IsTerminal  bool
}

// TierTable is the ordered set of bands for one mode. Bands partition
// the score axis above the lowest bound with no gaps or overlaps.
type TierTable struct {
	Mode  Mode
	Bands []TierBand
}

func (t TierTable) Validate() error {
	if len(t.Bands) == 0 {
		return ErrEmptyTierTable
	}

	seats := t.Mode.Players()
	for i, band := range t.Bands {
		if len(band.Awards) < seats {
			return fmt.Errorf("%w: band %q has %d awards, need %d", ErrAwardCount, band.Label, len(band.Awards), seats)
		}
		if i == 0 {
			continue
		}

		prev := t.Bands[i-1]
		if prev.MaxScore == nil {
			return fmt.Errorf("%w: band %q follows an open band", ErrTierBandOpenMiddle, band.Label)
		}
		if band.MinScore != *prev.MaxScore {
			return fmt.Errorf("%w: band %q starts at %d, previous ends at %d", ErrTierBandGap, band.Label, band.MinScore, *prev.MaxScore)
		}
		if band.MaxScore != nil && *band.MaxScore <= band.MinScore {
			return fmt.Errorf("%w: band %q range [%d, %d)", ErrTierBandOrder, band.Label, band.MinScore, *band.MaxScore)
		}
	}

	return nil
}

// BandFor returns the band containing score. Scores below the lowest
// bound map to the lowest band, so new players always have a tier.
func (t TierTable) BandFor(score int) (TierBand, bool) {
	if len(t.Bands) == 0 {
		return TierBand{}, false
	}
	for _, band := range t.Bands {
		if score < band.MinScore {
			continue
		}
		if band.MaxScore == nil || score < *band.MaxScore {
			return band, true
		}
	}
	if score < t.Bands[0].MinScore {
		return t.Bands[0], true
	}
	return TierBand{}, false
}

// RateTable is one named parameter set for the continuous rate score.
type RateTable struct {
	Mode           Mode
	Name           string
	IsDefault      bool
	PositionAwards []float64
	AdjustmentRate float64
	AdjustmentCap  float64
	MinAdjustment  float64
	StartingRate   float64
}

func (t RateTable) Validate() error {
	if len(t.PositionAwards) < t.Mode.Players() {
		return fmt.Errorf("%w: rate table %q has %d awards, need %d", ErrAwardCount, t.Name, len(t.PositionAwards), t.Mode.Players())
	}
	return nil
}

// SeasonTable is the per-season point schedule. An empty SeasonID with
// IsDefault set is the fallback for games without a season override.
type SeasonTable struct {
	Mode           Mode
	SeasonID       string
	Name           string
	IsDefault      bool
	PositionAwards []int
}

func (t SeasonTable) Validate() error {
	if len(t.PositionAwards) < t.Mode.Players() {
		return fmt.Errorf("%w: season table %q has %d awards, need %d", ErrAwardCount, t.Name, len(t.PositionAwards), t.Mode.Players())
	}
	return nil
}

// ScoringTable holds the uma/oka/chonbo schedule applied to raw table
// scores before rating calculation.
type ScoringTable struct {
	Mode Mode
	Name string
	// Uma is the placement bonus in adjusted points, per position.
	Uma []float64
	// Oka is the first-place bonus in adjusted points.
	Oka float64
	// ChonboPenalty is deducted from adjusted points per foul.
	ChonboPenalty float64
	// ChonboScoreDeduction is the raw points removed from the reported
	// score per foul. Zero means fouls were settled at the table and the
	// raw sum is unaffected.
	ChonboScoreDeduction int
	StartingPoints       int
	ReturnPoints         int
}

func (t ScoringTable) Validate() error {
	if t.StartingPoints <= 0 {
		return fmt.Errorf("%w: scoring table %q", ErrNonPositiveStarting, t.Name)
	}
	if len(t.Uma) < t.Mode.Players() {
		return fmt.Errorf("%w: scoring table %q has %d uma entries, need %d", ErrAwardCount, t.Name, len(t.Uma), t.Mode.Players())
	}
	return nil
}

// ExpectedScoreTotal is the sum the reported raw scores must reach for
// a table with the given total foul count.
func (t ScoringTable) ExpectedScoreTotal(mode Mode, totalChonbo int) int {
	return t.StartingPoints*mode.Players() - totalChonbo*t.ChonboScoreDeduction
}

// TableSet bundles the active configuration tables for one mode.
type TableSet struct {
	Tier    TierTable
	Rate    RateTable
	Seasons []SeasonTable
	Scoring ScoringTable
}

// SeasonTableFor resolves the season point schedule: a season-specific
// override wins over the mode default.
func (s TableSet) SeasonTableFor(seasonID string) (SeasonTable, bool) {
	var fallback SeasonTable
	found := false
	for _, table := range s.Seasons {
		if seasonID != "" && table.SeasonID == seasonID {
			return table, true
		}
		if table.IsDefault && !found {
			fallback = table
			found = true
		}
	}
	return fallback, found
}

func (s TableSet) Validate() error {
	if err := s.Tier.Validate(); err != nil {
		return err
	}
	if err := s.Rate.Validate(); err != nil {
		return err
	}
	if err := s.Scoring.Validate(); err != nil {
		return err
	}
	defaults := 0
	for _, table := range s.Seasons {
		if err := table.Validate(); err != nil {
			return err
		}
		if table.IsDefault {
			defaults++
		}
	}
	if defaults > 1 {
		return fmt.Errorf("%w: %d default season tables", ErrMultipleDefaults, defaults)
	}
	return nil
}
