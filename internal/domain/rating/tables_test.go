package rating

import (
	"errors"
	"testing"
)

func TestTierTableValidate(t *testing.T) {
	t.Parallel()

	t.Run("default ladder is valid", func(t *testing.T) {
		if err := defaultTierTable(ModeYonma).Validate(); err != nil {
			t.Fatalf("expected valid ladder, got %v", err)
		}
	})

	t.Run("empty table", func(t *testing.T) {
		err := TierTable{Mode: ModeYonma}.Validate()
		if !errors.Is(err, ErrEmptyTierTable) {
			t.Fatalf("expected ErrEmptyTierTable, got %v", err)
		}
	})

	t.Run("gap between bands", func(t *testing.T) {
		table := TierTable{Mode: ModeYonma, Bands: []TierBand{
			{Label: "a", MinScore: 0, MaxScore: intPtr(100), Awards: []int{1, 1, 0, 0}},
			{Label: "b", MinScore: 200, MaxScore: nil, Awards: []int{1, 1, 0, 0}},
		}}
		if err := table.Validate(); !errors.Is(err, ErrTierBandGap) {
			t.Fatalf("expected ErrTierBandGap, got %v", err)
		}
	})

	t.Run("open top in the middle", func(t *testing.T) {
		table := TierTable{Mode: ModeYonma, Bands: []TierBand{
			{Label: "a", MinScore: 0, MaxScore: nil, Awards: []int{1, 1, 0, 0}},
			{Label: "b", MinScore: 100, MaxScore: nil, Awards: []int{1, 1, 0, 0}},
		}}
		if err := table.Validate(); !errors.Is(err, ErrTierBandOpenMiddle) {
			t.Fatalf("expected ErrTierBandOpenMiddle, got %v", err)
		}
	})

	t.Run("short award list", func(t *testing.T) {
		table := TierTable{Mode: ModeYonma, Bands: []TierBand{
			{Label: "a", MinScore: 0, MaxScore: nil, Awards: []int{1, 1}},
		}}
		if err := table.Validate(); !errors.Is(err, ErrAwardCount) {
			t.Fatalf("expected ErrAwardCount, got %v", err)
		}
	})
}

func TestTierTableBandFor(t *testing.T) {
	t.Parallel()

	tier := defaultTierTable(ModeYonma)

	cases := []struct {
		score int
		label string
	}{
		{-50, "novice"}, // below the lowest bound still maps to the lowest band
		{0, "novice"},
		{299, "novice"},
		{300, "adept"},
		{1600, "master"},
		{999999, "saint"},
	}
	for _, tc := range cases {
		band, ok := tier.BandFor(tc.score)
		if !ok {
			t.Fatalf("score %d: no band found", tc.score)
		}
		if band.Label != tc.label {
			t.Fatalf("score %d: got band %q, want %q", tc.score, band.Label, tc.label)
		}
	}
}

func TestSeasonTableFor(t *testing.T) {
	t.Parallel()

	set := DefaultTables(ModeYonma)
	set.Seasons = append(set.Seasons, SeasonTable{
		Mode:           ModeYonma,
		SeasonID:       "season-9",
		Name:           "special",
		PositionAwards: []int{8, 4, 2, 1},
	})

	t.Run("override wins", func(t *testing.T) {
		table, ok := set.SeasonTableFor("season-9")
		if !ok || table.Name != "special" {
			t.Fatalf("expected override table, got %+v ok=%v", table, ok)
		}
	})

	t.Run("unknown season falls back to default", func(t *testing.T) {
		table, ok := set.SeasonTableFor("season-404")
		if !ok || !table.IsDefault {
			t.Fatalf("expected default table, got %+v ok=%v", table, ok)
		}
	})

	t.Run("no default and no match", func(t *testing.T) {
		bare := TableSet{}
		if _, ok := bare.SeasonTableFor("season-1"); ok {
			t.Fatal("expected no season table")
		}
	})
}

func TestExpectedScoreTotal(t *testing.T) {
	t.Parallel()

	scoring := defaultScoringTable(ModeYonma)
	if got := scoring.ExpectedScoreTotal(ModeYonma, 3); got != 100000 {
		t.Fatalf("zero deduction should leave the base total, got %d", got)
	}

	scoring.ChonboScoreDeduction = 2000
	if got := scoring.ExpectedScoreTotal(ModeYonma, 2); got != 96000 {
		t.Fatalf("expected 96000 with two deducted fouls, got %d", got)
	}

	sanma := defaultScoringTable(ModeSanma)
	if got := sanma.ExpectedScoreTotal(ModeSanma, 0); got != 105000 {
		t.Fatalf("expected 105000 for a sanma table, got %d", got)
	}
}

func TestTableSetValidate(t *testing.T) {
	t.Parallel()

	set := DefaultTables(ModeYonma)
	if err := set.Validate(); err != nil {
		t.Fatalf("expected default set to validate, got %v", err)
	}

	set.Seasons = append(set.Seasons, defaultSeasonTable(ModeYonma))
	if err := set.Validate(); !errors.Is(err, ErrMultipleDefaults) {
		t.Fatalf("expected ErrMultipleDefaults, got %v", err)
	}
}
