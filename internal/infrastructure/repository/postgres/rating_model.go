package postgres

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/tonpuu/riichi-league/internal/domain/rating"
)

type tierTableModel struct {
	Mode      string    `db:"mode"`
	Bands     []byte    `db:"bands"`
	UpdatedAt time.Time `db:"updated_at"`
}

type rateTableModel struct {
	Mode           string    `db:"mode"`
	Name           string    `db:"name"`
	PositionAwards []byte    `db:"position_awards"`
	AdjustmentRate float64   `db:"adjustment_rate"`
	AdjustmentCap  float64   `db:"adjustment_cap"`
	MinAdjustment  float64   `db:"min_adjustment"`
	StartingRate   float64   `db:"starting_rate"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type scoringTableModel struct {
	Mode                 string    `db:"mode"`
	Name                 string    `db:"name"`
	Uma                  []byte    `db:"uma"`
	Oka                  float64   `db:"oka"`
	ChonboPenalty        float64   `db:"chonbo_penalty"`
	ChonboScoreDeduction int       `db:"chonbo_score_deduction"`
	StartingPoints       int       `db:"starting_points"`
	ReturnPoints         int       `db:"return_points"`
	UpdatedAt            time.Time `db:"updated_at"`
}

type seasonAwardTableModel struct {
	ID             int64     `db:"id"`
	Mode           string    `db:"mode"`
	SeasonPublicID *string   `db:"season_public_id"`
	Name           string    `db:"name"`
	IsDefault      bool      `db:"is_default"`
	PositionAwards []byte    `db:"position_awards"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type tierBandPayload struct {
	Label       string `json:"label"`
	Color       string `json:"color,omitempty"`
	MinScore    int    `json:"min_score"`
	MaxScore    *int   `json:"max_score,omitempty"`
	Awards      []int  `json:"awards"`
	IsProtected bool   `json:"is_protected,omitempty"`
	IsTerminal  bool   `json:"is_terminal,omitempty"`
}

func encodeTierBands(bands []rating.TierBand) ([]byte, error) {
	payload := make([]tierBandPayload, 0, len(bands))
	for _, band := range bands {
		payload = append(payload, tierBandPayload{
			Label:       band.Label,
			Color:       band.Color,
			MinScore:    band.MinScore,
			MaxScore:    band.MaxScore,
			Awards:      band.Awards,
			IsProtected: band.IsProtected,
			IsTerminal:  band.IsTerminal,
		})
	}
	raw, err := jsoniter.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode tier bands: %w", err)
	}
	return raw, nil
}

func tierTableFromRow(row tierTableModel) (rating.TierTable, error) {
	var payload []tierBandPayload
	if err := jsoniter.Unmarshal(row.Bands, &payload); err != nil {
		return rating.TierTable{}, fmt.Errorf("decode tier bands: %w", err)
	}
	bands := make([]rating.TierBand, 0, len(payload))
	for _, band := range payload {
		bands = append(bands, rating.TierBand{
			Label:       band.Label,
			Color:       band.Color,
			MinScore:    band.MinScore,
			MaxScore:    band.MaxScore,
			Awards:      band.Awards,
			IsProtected: band.IsProtected,
			IsTerminal:  band.IsTerminal,
		})
	}
	return rating.TierTable{Mode: rating.Mode(row.Mode), Bands: bands}, nil
}

func encodeFloatAwards(awards []float64) ([]byte, error) {
	raw, err := jsoniter.Marshal(awards)
	if err != nil {
		return nil, fmt.Errorf("encode awards: %w", err)
	}
	return raw, nil
}

func encodeIntAwards(awards []int) ([]byte, error) {
	raw, err := jsoniter.Marshal(awards)
	if err != nil {
		return nil, fmt.Errorf("encode awards: %w", err)
	}
	return raw, nil
}

func rateTableFromRow(row rateTableModel) (rating.RateTable, error) {
	var awards []float64
	if err := jsoniter.Unmarshal(row.PositionAwards, &awards); err != nil {
		return rating.RateTable{}, fmt.Errorf("decode rate awards: %w", err)
	}
	return rating.RateTable{
		Mode:           rating.Mode(row.Mode),
		Name:           row.Name,
		IsDefault:      true,
		PositionAwards: awards,
		AdjustmentRate: row.AdjustmentRate,
		AdjustmentCap:  row.AdjustmentCap,
		MinAdjustment:  row.MinAdjustment,
		StartingRate:   row.StartingRate,
	}, nil
}

func scoringTableFromRow(row scoringTableModel) (rating.ScoringTable, error) {
	var uma []float64
	if err := jsoniter.Unmarshal(row.Uma, &uma); err != nil {
		return rating.ScoringTable{}, fmt.Errorf("decode uma: %w", err)
	}
	return rating.ScoringTable{
		Mode:                 rating.Mode(row.Mode),
		Name:                 row.Name,
		Uma:                  uma,
		Oka:                  row.Oka,
		ChonboPenalty:        row.ChonboPenalty,
		ChonboScoreDeduction: row.ChonboScoreDeduction,
		StartingPoints:       row.StartingPoints,
		ReturnPoints:         row.ReturnPoints,
	}, nil
}

func seasonTableFromRow(row seasonAwardTableModel) (rating.SeasonTable, error) {
	var awards []int
	if err := jsoniter.Unmarshal(row.PositionAwards, &awards); err != nil {
		return rating.SeasonTable{}, fmt.Errorf("decode season awards: %w", err)
	}
	item := rating.SeasonTable{
		Mode:           rating.Mode(row.Mode),
		Name:           row.Name,
		IsDefault:      row.IsDefault,
		PositionAwards: awards,
	}
	if row.SeasonPublicID != nil {
		item.SeasonID = *row.SeasonPublicID
	}
	return item, nil
}
