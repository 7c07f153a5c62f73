package postgres

import (
	"database/sql"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/tonpuu/riichi-league/internal/domain/game"
	"github.com/tonpuu/riichi-league/internal/domain/rating"
)

type gameTableModel struct {
	ID             int64          `db:"id"`
	PublicID       string         `db:"public_id"`
	SubmissionID   string         `db:"submission_public_id"`
	GameDate       time.Time      `db:"game_date"`
	SequenceNumber sql.NullInt64  `db:"sequence_number"`
	Mode           string         `db:"mode"`
	Length         string         `db:"length"`
	SeasonID       sql.NullString `db:"season_public_id"`
	Results        []byte         `db:"results"`
	CreatedAt      time.Time      `db:"created_at"`
	DeletedAt      *time.Time     `db:"deleted_at"`
}

// gameInsertModel carries only the columns the approve transaction
// writes; id and created_at come from the database.
type gameInsertModel struct {
	PublicID       string         `db:"public_id"`
	SubmissionID   string         `db:"submission_public_id"`
	GameDate       time.Time      `db:"game_date"`
	SequenceNumber sql.NullInt64  `db:"sequence_number"`
	Mode           string         `db:"mode"`
	Length         string         `db:"length"`
	SeasonID       sql.NullString `db:"season_public_id"`
	Results        []byte         `db:"results"`
}

type outcomePayload struct {
	PlayerID       string  `json:"player_id"`
	Seat           string  `json:"seat"`
	Score          int     `json:"score"`
	ChonboCount    int     `json:"chonbo_count,omitempty"`
	FinalHandScore *int    `json:"final_hand_score,omitempty"`
	Position       int     `json:"position"`
	AdjustedPoints float64 `json:"adjusted_points"`
	TierDelta      int     `json:"tier_delta"`
	RateDelta      float64 `json:"rate_delta"`
	SeasonDelta    int     `json:"season_delta,omitempty"`
	SeasonApplied  bool    `json:"season_applied,omitempty"`
}

func encodeOutcomes(results []game.SeatOutcome) ([]byte, error) {
	payload := make([]outcomePayload, 0, len(results))
	for _, outcome := range results {
		payload = append(payload, outcomePayload{
			PlayerID:       outcome.PlayerID,
			Seat:           string(outcome.Seat),
			Score:          outcome.Score,
			ChonboCount:    outcome.ChonboCount,
			FinalHandScore: outcome.FinalHandScore,
			Position:       outcome.Position,
			AdjustedPoints: outcome.AdjustedPoints,
			TierDelta:      outcome.TierDelta,
			RateDelta:      outcome.RateDelta,
			SeasonDelta:    outcome.SeasonDelta,
			SeasonApplied:  outcome.SeasonApplied,
		})
	}
	raw, err := jsoniter.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode game results: %w", err)
	}
	return raw, nil
}

func decodeOutcomes(raw []byte) ([]game.SeatOutcome, error) {
	var payload []outcomePayload
	if err := jsoniter.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode game results: %w", err)
	}
	results := make([]game.SeatOutcome, 0, len(payload))
	for _, outcome := range payload {
		results = append(results, game.SeatOutcome{
			PlayerID:       outcome.PlayerID,
			Seat:           rating.Wind(outcome.Seat),
			Score:          outcome.Score,
			ChonboCount:    outcome.ChonboCount,
			FinalHandScore: outcome.FinalHandScore,
			Position:       outcome.Position,
			AdjustedPoints: outcome.AdjustedPoints,
			TierDelta:      outcome.TierDelta,
			RateDelta:      outcome.RateDelta,
			SeasonDelta:    outcome.SeasonDelta,
			SeasonApplied:  outcome.SeasonApplied,
		})
	}
	return results, nil
}

func gameFromRow(row gameTableModel) (game.ValidatedGame, error) {
	results, err := decodeOutcomes(row.Results)
	if err != nil {
		return game.ValidatedGame{}, err
	}

	item := game.ValidatedGame{
		ID:           row.PublicID,
		SubmissionID: row.SubmissionID,
		GameDate:     row.GameDate,
		Mode:         rating.Mode(row.Mode),
		Length:       rating.GameLength(row.Length),
		SeasonID:     row.SeasonID.String,
		Results:      results,
		CreatedAt:    row.CreatedAt,
		DeletedAt:    row.DeletedAt,
	}
	if row.SequenceNumber.Valid {
		seq := int(row.SequenceNumber.Int64)
		item.SequenceNumber = &seq
	}
	return item, nil
}
