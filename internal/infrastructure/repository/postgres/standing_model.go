package postgres

import (
	"time"

	"github.com/tonpuu/riichi-league/internal/domain/rating"
	"github.com/tonpuu/riichi-league/internal/domain/standing"
)

type standingTableModel struct {
	ID              int64     `db:"id"`
	PlayerID        string    `db:"player_public_id"`
	Mode            string    `db:"mode"`
	TierScore       int       `db:"tier_score"`
	RateScore       float64   `db:"rate_score"`
	SeasonScore     int       `db:"season_score"`
	GameCount       int       `db:"game_count"`
	SeasonGameCount int       `db:"season_game_count"`
	Version         int64     `db:"version"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func standingFromRow(row standingTableModel) standing.PlayerStanding {
	return standing.PlayerStanding{
		PlayerID:        row.PlayerID,
		Mode:            rating.Mode(row.Mode),
		TierScore:       row.TierScore,
		RateScore:       row.RateScore,
		SeasonScore:     row.SeasonScore,
		GameCount:       row.GameCount,
		SeasonGameCount: row.SeasonGameCount,
		Version:         row.Version,
		UpdatedAt:       row.UpdatedAt,
	}
}
