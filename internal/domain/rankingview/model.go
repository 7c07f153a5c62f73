package rankingview

import (
	"sort"

	"github.com/tonpuu/riichi-league/internal/domain/player"
	"github.com/tonpuu/riichi-league/internal/domain/rating"
	"github.com/tonpuu/riichi-league/internal/domain/standing"
)

type Scope string

const (
	ScopeOverall Scope = "overall"
	ScopeSeason  Scope = "season"
)

type PlayerSet string

const (
	PlayersActive PlayerSet = "active"
	PlayersAll    PlayerSet = "all"
)

// Key addresses one of the eight precomputed ranking views.
type Key struct {
	Mode      rating.Mode
	Scope     Scope
	PlayerSet PlayerSet
}

func (k Key) Valid() bool {
	if !k.Mode.Valid() {
		return false
	}
	if k.Scope != ScopeOverall && k.Scope != ScopeSeason {
		return false
	}
	return k.PlayerSet == PlayersActive || k.PlayerSet == PlayersAll
}

// AllKeys enumerates the full view cross product.
func AllKeys() []Key {
	keys := make([]Key, 0, 8)
	for _, mode := range rating.AllModes {
		for _, scope := range []Scope{ScopeOverall, ScopeSeason} {
			for _, set := range []PlayerSet{PlayersActive, PlayersAll} {
				keys = append(keys, Key{Mode: mode, Scope: scope, PlayerSet: set})
			}
		}
	}
	return keys
}

// Row is one ranked line of a view, derived from a PlayerStanding.
type Row struct {
	Rank            int
	PlayerID        string
	DisplayName     string
	TierLabel       string
	TierColor       string
	TierScore       int
	RateScore       float64
	SeasonScore     int
	GameCount       int
	SeasonGameCount int
	IsActive        bool
}

// Build materializes one view from raw standings. Soft-deleted players
// are never listed; the active set additionally drops inactive ones.
// Ranks are dense over the scope's primary metric.
func Build(key Key, standings []standing.PlayerStanding, players map[string]player.Player, tier rating.TierTable) []Row {
	rows := make([]Row, 0, len(standings))
	for _, item := range standings {
		if item.Mode != key.Mode {
			continue
		}
		p, known := players[item.PlayerID]
		if !known || p.DeletedAt != nil {
			continue
		}
		if key.PlayerSet == PlayersActive && !p.IsActive {
			continue
		}
		if key.Scope == ScopeSeason && item.SeasonGameCount == 0 {
			continue
		}

		row := Row{
			PlayerID:        item.PlayerID,
			DisplayName:     p.DisplayName,
			TierScore:       item.TierScore,
			RateScore:       item.RateScore,
			SeasonScore:     item.SeasonScore,
			GameCount:       item.GameCount,
			SeasonGameCount: item.SeasonGameCount,
			IsActive:        p.IsActive,
		}
		if band, ok := tier.BandFor(item.TierScore); ok {
			row.TierLabel = band.Label
			row.TierColor = band.Color
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if key.Scope == ScopeSeason {
			if rows[i].SeasonScore != rows[j].SeasonScore {
				return rows[i].SeasonScore > rows[j].SeasonScore
			}
		}
		if rows[i].TierScore != rows[j].TierScore {
			return rows[i].TierScore > rows[j].TierScore
		}
		if rows[i].RateScore != rows[j].RateScore {
			return rows[i].RateScore > rows[j].RateScore
		}
		return rows[i].PlayerID < rows[j].PlayerID
	})

	rank := 0
	lastPrimary := 0
	for idx := range rows {
		primary := rows[idx].TierScore
		if key.Scope == ScopeSeason {
			primary = rows[idx].SeasonScore
		}
		if idx == 0 || primary != lastPrimary {
			rank++
			lastPrimary = primary
		}
		rows[idx].Rank = rank
	}

	return rows
}
