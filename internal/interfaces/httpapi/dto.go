package httpapi

import (
	"time"

	"github.com/tonpuu/riichi-league/internal/domain/game"
	"github.com/tonpuu/riichi-league/internal/domain/player"
	"github.com/tonpuu/riichi-league/internal/domain/rankingview"
	"github.com/tonpuu/riichi-league/internal/domain/rating"
	"github.com/tonpuu/riichi-league/internal/domain/season"
	"github.com/tonpuu/riichi-league/internal/domain/submission"
)

type seatResultDTO struct {
	PlayerID       string `json:"player_id"`
	Seat           string `json:"seat"`
	Score          int    `json:"score"`
	ChonboCount    int    `json:"chonbo_count"`
	FinalHandScore *int   `json:"final_hand_score,omitempty"`
}

type submissionDTO struct {
	ID             string          `json:"id"`
	GameDate       string          `json:"game_date"`
	SequenceNumber *int            `json:"sequence_number,omitempty"`
	Mode           string          `json:"mode"`
	Length         string          `json:"length"`
	SeasonScoped   bool            `json:"season_scoped"`
	Seats          []seatResultDTO `json:"seats"`
	Status         string          `json:"status"`
	RejectReason   string          `json:"reject_reason,omitempty"`
	RejectedBy     string          `json:"rejected_by,omitempty"`
	EvidenceRef    string          `json:"evidence_ref,omitempty"`
	Version        int64           `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      *time.Time      `json:"deleted_at,omitempty"`
}

func submissionToDTO(item submission.RawGameSubmission) submissionDTO {
	seats := make([]seatResultDTO, 0, len(item.Seats))
	for _, seat := range item.Seats {
		seats = append(seats, seatResultDTO{
			PlayerID:       seat.PlayerID,
			Seat:           string(seat.Seat),
			Score:          seat.Score,
			ChonboCount:    seat.ChonboCount,
			FinalHandScore: seat.FinalHandScore,
		})
	}

	return submissionDTO{
		ID:             item.ID,
		GameDate:       item.GameDate.Format(time.DateOnly),
		SequenceNumber: item.SequenceNumber,
		Mode:           string(item.Mode),
		Length:         string(item.Length),
		SeasonScoped:   item.SeasonScoped,
		Seats:          seats,
		Status:         string(item.Status),
		RejectReason:   item.RejectReason,
		RejectedBy:     item.RejectedBy,
		EvidenceRef:    item.EvidenceRef,
		Version:        item.Version,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
		DeletedAt:      item.DeletedAt,
	}
}

type seatOutcomeDTO struct {
	PlayerID       string  `json:"player_id"`
	Seat           string  `json:"seat"`
	Score          int     `json:"score"`
	ChonboCount    int     `json:"chonbo_count"`
	Position       int     `json:"position"`
	AdjustedPoints float64 `json:"adjusted_points"`
	TierDelta      int     `json:"tier_delta"`
	RateDelta      float64 `json:"rate_delta"`
	SeasonDelta    int     `json:"season_delta"`
	SeasonApplied  bool    `json:"season_applied"`
}

type validatedGameDTO struct {
	ID             string           `json:"id"`
	SubmissionID   string           `json:"submission_id"`
	GameDate       string           `json:"game_date"`
	SequenceNumber *int             `json:"sequence_number,omitempty"`
	Mode           string           `json:"mode"`
	Length         string           `json:"length"`
	SeasonID       string           `json:"season_id,omitempty"`
	Results        []seatOutcomeDTO `json:"results"`
	CreatedAt      time.Time        `json:"created_at"`
}

func validatedGameToDTO(item game.ValidatedGame) validatedGameDTO {
	results := make([]seatOutcomeDTO, 0, len(item.Results))
	for _, outcome := range item.Results {
		results = append(results, seatOutcomeDTO{
			PlayerID:       outcome.PlayerID,
			Seat:           string(outcome.Seat),
			Score:          outcome.Score,
			ChonboCount:    outcome.ChonboCount,
			Position:       outcome.Position,
			AdjustedPoints: outcome.AdjustedPoints,
			TierDelta:      outcome.TierDelta,
			RateDelta:      outcome.RateDelta,
			SeasonDelta:    outcome.SeasonDelta,
			SeasonApplied:  outcome.SeasonApplied,
		})
	}

	return validatedGameDTO{
		ID:             item.ID,
		SubmissionID:   item.SubmissionID,
		GameDate:       item.GameDate.Format(time.DateOnly),
		SequenceNumber: item.SequenceNumber,
		Mode:           string(item.Mode),
		Length:         string(item.Length),
		SeasonID:       item.SeasonID,
		Results:        results,
		CreatedAt:      item.CreatedAt,
	}
}

type rankingRowDTO struct {
	Rank            int     `json:"rank"`
	PlayerID        string  `json:"player_id"`
	DisplayName     string  `json:"display_name"`
	TierLabel       string  `json:"tier_label"`
	TierColor       string  `json:"tier_color"`
	TierScore       int     `json:"tier_score"`
	RateScore       float64 `json:"rate_score"`
	SeasonScore     int     `json:"season_score"`
	GameCount       int     `json:"game_count"`
	SeasonGameCount int     `json:"season_game_count"`
	IsActive        bool    `json:"is_active"`
}

func rankingRowToDTO(row rankingview.Row) rankingRowDTO {
	return rankingRowDTO{
		Rank:            row.Rank,
		PlayerID:        row.PlayerID,
		DisplayName:     row.DisplayName,
		TierLabel:       row.TierLabel,
		TierColor:       row.TierColor,
		TierScore:       row.TierScore,
		RateScore:       row.RateScore,
		SeasonScore:     row.SeasonScore,
		GameCount:       row.GameCount,
		SeasonGameCount: row.SeasonGameCount,
		IsActive:        row.IsActive,
	}
}

type tierBandDTO struct {
	Label       string `json:"label"`
	Color       string `json:"color"`
	MinScore    int    `json:"min_score"`
	MaxScore    *int   `json:"max_score,omitempty"`
	Awards      []int  `json:"awards"`
	IsProtected bool   `json:"is_protected"`
	IsTerminal  bool   `json:"is_terminal"`
}

type tierTableDTO struct {
	Mode  string        `json:"mode"`
	Bands []tierBandDTO `json:"bands"`
}

type rateTableDTO struct {
	Mode           string    `json:"mode"`
	Name           string    `json:"name"`
	PositionAwards []float64 `json:"position_awards"`
	AdjustmentRate float64   `json:"adjustment_rate"`
	AdjustmentCap  float64   `json:"adjustment_cap"`
	MinAdjustment  float64   `json:"min_adjustment"`
	StartingRate   float64   `json:"starting_rate"`
}

type scoringTableDTO struct {
	Mode                 string    `json:"mode"`
	Name                 string    `json:"name"`
	Uma                  []float64 `json:"uma"`
	Oka                  float64   `json:"oka"`
	ChonboPenalty        float64   `json:"chonbo_penalty"`
	ChonboScoreDeduction int       `json:"chonbo_score_deduction"`
	StartingPoints       int       `json:"starting_points"`
	ReturnPoints         int       `json:"return_points"`
}

type seasonTableDTO struct {
	Mode           string `json:"mode"`
	SeasonID       string `json:"season_id,omitempty"`
	Name           string `json:"name"`
	IsDefault      bool   `json:"is_default"`
	PositionAwards []int  `json:"position_awards"`
}

type tableSetDTO struct {
	Tier    tierTableDTO     `json:"tier"`
	Rate    rateTableDTO     `json:"rate"`
	Scoring scoringTableDTO  `json:"scoring"`
	Seasons []seasonTableDTO `json:"seasons"`
}

func tableSetToDTO(set rating.TableSet) tableSetDTO {
	bands := make([]tierBandDTO, 0, len(set.Tier.Bands))
	for _, band := range set.Tier.Bands {
		bands = append(bands, tierBandDTO{
			Label:       band.Label,
			Color:       band.Color,
			MinScore:    band.MinScore,
			MaxScore:    band.MaxScore,
			Awards:      band.Awards,
			IsProtected: band.IsProtected,
			IsTerminal:  band.IsTerminal,
		})
	}

	seasons := make([]seasonTableDTO, 0, len(set.Seasons))
	for _, table := range set.Seasons {
		seasons = append(seasons, seasonTableDTO{
			Mode:           string(table.Mode),
			SeasonID:       table.SeasonID,
			Name:           table.Name,
			IsDefault:      table.IsDefault,
			PositionAwards: table.PositionAwards,
		})
	}

	return tableSetDTO{
		Tier: tierTableDTO{
			Mode:  string(set.Tier.Mode),
			Bands: bands,
		},
		Rate: rateTableDTO{
			Mode:           string(set.Rate.Mode),
			Name:           set.Rate.Name,
			PositionAwards: set.Rate.PositionAwards,
			AdjustmentRate: set.Rate.AdjustmentRate,
			AdjustmentCap:  set.Rate.AdjustmentCap,
			MinAdjustment:  set.Rate.MinAdjustment,
			StartingRate:   set.Rate.StartingRate,
		},
		Scoring: scoringTableDTO{
			Mode:                 string(set.Scoring.Mode),
			Name:                 set.Scoring.Name,
			Uma:                  set.Scoring.Uma,
			Oka:                  set.Scoring.Oka,
			ChonboPenalty:        set.Scoring.ChonboPenalty,
			ChonboScoreDeduction: set.Scoring.ChonboScoreDeduction,
			StartingPoints:       set.Scoring.StartingPoints,
			ReturnPoints:         set.Scoring.ReturnPoints,
		},
		Seasons: seasons,
	}
}

type playerDTO struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"display_name"`
	Country     string     `json:"country,omitempty"`
	IsActive    bool       `json:"is_active"`
	Version     int64      `json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

func playerToDTO(item player.Player) playerDTO {
	return playerDTO{
		ID:          item.ID,
		DisplayName: item.DisplayName,
		Country:     item.Country,
		IsActive:    item.IsActive,
		Version:     item.Version,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
		DeletedAt:   item.DeletedAt,
	}
}

type seasonDTO struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	StartsAt  time.Time  `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func seasonToDTO(item season.Season) seasonDTO {
	dto := seasonDTO{
		ID:        item.ID,
		Name:      item.Name,
		StartsAt:  item.StartsAt,
		CreatedAt: item.CreatedAt,
	}
	if !item.EndsAt.IsZero() {
		endsAt := item.EndsAt
		dto.EndsAt = &endsAt
	}
	return dto
}
