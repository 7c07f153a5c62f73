package rating

func intPtr(v int) *int { return &v }

// DefaultTables returns the stock configuration for a mode: a common
// dan ladder, Tenhou-style rate parameters and a 10-20/30 uma schedule.
// Deployments replace these through the table administration endpoints.
func DefaultTables(mode Mode) TableSet {
	return TableSet{
		Tier:    defaultTierTable(mode),
		Rate:    defaultRateTable(mode),
		Seasons: []SeasonTable{defaultSeasonTable(mode)},
		Scoring: defaultScoringTable(mode),
	}
}

func defaultTierTable(mode Mode) TierTable {
	awards := func(first, second, third, fourth int) []int {
		if mode == ModeSanma {
			return []int{first, second, fourth}
		}
		return []int{first, second, third, fourth}
	}

	return TierTable{
		Mode: mode,
		Bands: []TierBand{
			{Label: "novice", Color: "#9e9e9e", MinScore: 0, MaxScore: intPtr(300), Awards: awards(60, 15, 0, 0), IsProtected: true},
			{Label: "adept", Color: "#8d6e63", MinScore: 300, MaxScore: intPtr(800), Awards: awards(60, 15, 0, -15)},
			{Label: "expert", Color: "#43a047", MinScore: 800, MaxScore: intPtr(1600), Awards: awards(60, 15, 0, -30)},
			{Label: "master", Color: "#1e88e5", MinScore: 1600, MaxScore: intPtr(3000), Awards: awards(60, 15, 0, -45), IsProtected: true},
			{Label: "saint", Color: "#fdd835", MinScore: 3000, MaxScore: nil, Awards: awards(60, 15, 0, -60), IsTerminal: true},
		},
	}
}

func defaultRateTable(mode Mode) RateTable {
	awards := []float64{30, 10, -10, -30}
	if mode == ModeSanma {
		awards = []float64{30, 0, -30}
	}
	return RateTable{
		Mode:           mode,
		Name:           "standard",
		IsDefault:      true,
		PositionAwards: awards,
		AdjustmentRate: 0.05,
		AdjustmentCap:  50,
		MinAdjustment:  1,
		StartingRate:   1500,
	}
}

func defaultSeasonTable(mode Mode) SeasonTable {
	awards := []int{4, 2, 1, 0}
	if mode == ModeSanma {
		awards = []int{4, 2, 0}
	}
	return SeasonTable{
		Mode:           mode,
		Name:           "season-default",
		IsDefault:      true,
		PositionAwards: awards,
	}
}

func defaultScoringTable(mode Mode) ScoringTable {
	if mode == ModeSanma {
		return ScoringTable{
			Mode:           mode,
			Name:           "standard",
			Uma:            []float64{15, 0, -15},
			Oka:            15,
			ChonboPenalty:  20,
			StartingPoints: 35000,
			ReturnPoints:   40000,
		}
	}
	return ScoringTable{
		Mode:           mode,
		Name:           "standard",
		Uma:            []float64{10, 5, -5, -10},
		Oka:            20,
		ChonboPenalty:  20,
		StartingPoints: 25000,
		ReturnPoints:   30000,
	}
}
