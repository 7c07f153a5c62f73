package postgres

import (
	"database/sql"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/tonpuu/riichi-league/internal/domain/rating"
	"github.com/tonpuu/riichi-league/internal/domain/submission"
)

type submissionTableModel struct {
	ID             int64          `db:"id"`
	PublicID       string         `db:"public_id"`
	GameDate       time.Time      `db:"game_date"`
	SequenceNumber sql.NullInt64  `db:"sequence_number"`
	Mode           string         `db:"mode"`
	Length         string         `db:"length"`
	SeasonScoped   bool           `db:"season_scoped"`
	Seats          []byte         `db:"seats"`
	Status         string         `db:"status"`
	RejectReason   sql.NullString `db:"reject_reason"`
	RejectedBy     sql.NullString `db:"rejected_by"`
	EvidenceRef    sql.NullString `db:"evidence_ref"`
	Version        int64          `db:"version"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
	DeletedAt      *time.Time     `db:"deleted_at"`
}

type seatPayload struct {
	PlayerID       string `json:"player_id"`
	Seat           string `json:"seat"`
	Score          int    `json:"score"`
	ChonboCount    int    `json:"chonbo_count,omitempty"`
	FinalHandScore *int   `json:"final_hand_score,omitempty"`
}

func encodeSeats(seats []rating.SeatResult) ([]byte, error) {
	payload := make([]seatPayload, 0, len(seats))
	for _, seat := range seats {
		payload = append(payload, seatPayload{
			PlayerID:       seat.PlayerID,
			Seat:           string(seat.Seat),
			Score:          seat.Score,
			ChonboCount:    seat.ChonboCount,
			FinalHandScore: seat.FinalHandScore,
		})
	}
	raw, err := jsoniter.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode seats: %w", err)
	}
	return raw, nil
}

func decodeSeats(raw []byte) ([]rating.SeatResult, error) {
	var payload []seatPayload
	if err := jsoniter.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode seats: %w", err)
	}
	seats := make([]rating.SeatResult, 0, len(payload))
	for _, seat := range payload {
		seats = append(seats, rating.SeatResult{
			PlayerID:       seat.PlayerID,
			Seat:           rating.Wind(seat.Seat),
			Score:          seat.Score,
			ChonboCount:    seat.ChonboCount,
			FinalHandScore: seat.FinalHandScore,
		})
	}
	return seats, nil
}

func submissionFromRow(row submissionTableModel) (submission.RawGameSubmission, error) {
	seats, err := decodeSeats(row.Seats)
	if err != nil {
		return submission.RawGameSubmission{}, err
	}

	item := submission.RawGameSubmission{
		ID:           row.PublicID,
		GameDate:     row.GameDate,
		Mode:         rating.Mode(row.Mode),
		Length:       rating.GameLength(row.Length),
		SeasonScoped: row.SeasonScoped,
		Seats:        seats,
		Status:       submission.Status(row.Status),
		RejectReason: row.RejectReason.String,
		RejectedBy:   row.RejectedBy.String,
		EvidenceRef:  row.EvidenceRef.String,
		Version:      row.Version,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
		DeletedAt:    row.DeletedAt,
	}
	if row.SequenceNumber.Valid {
		seq := int(row.SequenceNumber.Int64)
		item.SequenceNumber = &seq
	}
	return item, nil
}

func nullableSeq(seq *int) any {
	if seq == nil {
		return nil
	}
	return *seq
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
