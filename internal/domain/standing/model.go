package standing

import (
	"time"

	"github.com/tonpuu/riichi-league/internal/domain/rating"
)

// PlayerStanding is one player's current rating state for one game
// mode. It is mutated only inside a validated-game transaction and
// every write carries the version the writer last observed.
type PlayerStanding struct {
	PlayerID        string
	Mode            rating.Mode
	TierScore       int
	RateScore       float64
	SeasonScore     int
	GameCount       int
	SeasonGameCount int
	Version         int64
	UpdatedAt       time.Time
}

// Entering returns the standing a player starts from in a mode.
func Entering(playerID string, mode rating.Mode, startingRate float64) PlayerStanding {
	return PlayerStanding{
		PlayerID:  playerID,
		Mode:      mode,
		RateScore: startingRate,
	}
}

// State projects the standing into the engine's read-only input shape.
func (s PlayerStanding) State() rating.PlayerState {
	return rating.PlayerState{
		TierScore: s.TierScore,
		RateScore: s.RateScore,
		GameCount: s.GameCount,
	}
}

// Apply returns a copy with one game's deltas folded in. The version is
// left untouched; the persistence layer bumps it on a guarded write.
func (s PlayerStanding) Apply(delta rating.PlayerDelta) PlayerStanding {
	s.TierScore += delta.TierDelta
	s.RateScore += delta.RateDelta
	s.GameCount++
	if delta.SeasonApplied {
		s.SeasonScore += delta.SeasonDelta
		s.SeasonGameCount++
	}
	return s
}
