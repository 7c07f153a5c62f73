package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tonpuu/riichi-league/internal/domain/rating"
	"github.com/tonpuu/riichi-league/internal/usecase"
)

type tierBandRequest struct {
	Label       string `json:"label" validate:"required"`
	Color       string `json:"color"`
	MinScore    int    `json:"min_score"`
	MaxScore    *int   `json:"max_score"`
	Awards      []int  `json:"awards" validate:"required,min=3"`
	IsProtected bool   `json:"is_protected"`
	IsTerminal  bool   `json:"is_terminal"`
}

type putTierTableRequest struct {
	Bands []tierBandRequest `json:"bands" validate:"required,min=1,dive"`
}

type putRateTableRequest struct {
	Name           string    `json:"name" validate:"required"`
	PositionAwards []float64 `json:"position_awards" validate:"required,min=3"`
	AdjustmentRate float64   `json:"adjustment_rate"`
	AdjustmentCap  float64   `json:"adjustment_cap"`
	MinAdjustment  float64   `json:"min_adjustment"`
	StartingRate   float64   `json:"starting_rate" validate:"required"`
}

type putScoringTableRequest struct {
	Name                 string    `json:"name" validate:"required"`
	Uma                  []float64 `json:"uma" validate:"required,min=3"`
	Oka                  float64   `json:"oka"`
	ChonboPenalty        float64   `json:"chonbo_penalty"`
	ChonboScoreDeduction int       `json:"chonbo_score_deduction" validate:"min=0"`
	StartingPoints       int       `json:"starting_points" validate:"required,min=1"`
	ReturnPoints         int       `json:"return_points"`
}

type seasonTableRequest struct {
	SeasonID       string `json:"season_id"`
	Name           string `json:"name" validate:"required"`
	IsDefault      bool   `json:"is_default"`
	PositionAwards []int  `json:"position_awards" validate:"required,min=3"`
}

type putSeasonTablesRequest struct {
	Tables []seasonTableRequest `json:"tables" validate:"required,min=1,dive"`
}

func (h *Handler) PutTierTable(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PutTierTable")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	mode := rating.Mode(strings.TrimSpace(r.PathValue("mode")))
	var req putTierTableRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	bands := make([]rating.TierBand, 0, len(req.Bands))
	for _, band := range req.Bands {
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

	if err := h.tableService.ReplaceTierTable(ctx, principal, rating.TierTable{Mode: mode, Bands: bands}); err != nil {
		h.logger.WarnContext(ctx, "replace tier table failed", "mode", string(mode), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"mode": string(mode), "table": "tier"})
}

func (h *Handler) PutRateTable(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PutRateTable")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	mode := rating.Mode(strings.TrimSpace(r.PathValue("mode")))
	var req putRateTableRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	table := rating.RateTable{
		Mode:           mode,
		Name:           req.Name,
		IsDefault:      true,
		PositionAwards: req.PositionAwards,
		AdjustmentRate: req.AdjustmentRate,
		AdjustmentCap:  req.AdjustmentCap,
		MinAdjustment:  req.MinAdjustment,
		StartingRate:   req.StartingRate,
	}
	if err := h.tableService.ReplaceRateTable(ctx, principal, table); err != nil {
		h.logger.WarnContext(ctx, "replace rate table failed", "mode", string(mode), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"mode": string(mode), "table": "rate"})
}

func (h *Handler) PutScoringTable(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PutScoringTable")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	mode := rating.Mode(strings.TrimSpace(r.PathValue("mode")))
	var req putScoringTableRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	table := rating.ScoringTable{
		Mode:                 mode,
		Name:                 req.Name,
		Uma:                  req.Uma,
		Oka:                  req.Oka,
		ChonboPenalty:        req.ChonboPenalty,
		ChonboScoreDeduction: req.ChonboScoreDeduction,
		StartingPoints:       req.StartingPoints,
		ReturnPoints:         req.ReturnPoints,
	}
	if err := h.tableService.ReplaceScoringTable(ctx, principal, table); err != nil {
		h.logger.WarnContext(ctx, "replace scoring table failed", "mode", string(mode), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"mode": string(mode), "table": "scoring"})
}

func (h *Handler) PutSeasonTables(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PutSeasonTables")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	mode := rating.Mode(strings.TrimSpace(r.PathValue("mode")))
	var req putSeasonTablesRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	tables := make([]rating.SeasonTable, 0, len(req.Tables))
	for _, table := range req.Tables {
		tables = append(tables, rating.SeasonTable{
			Mode:           mode,
			SeasonID:       strings.TrimSpace(table.SeasonID),
			Name:           table.Name,
			IsDefault:      table.IsDefault,
			PositionAwards: table.PositionAwards,
		})
	}

	if err := h.tableService.ReplaceSeasonTables(ctx, principal, mode, tables); err != nil {
		h.logger.WarnContext(ctx, "replace season tables failed", "mode", string(mode), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"mode": string(mode), "table": "season"})
}

type createSeasonRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	StartsAt string `json:"starts_at" validate:"required"`
	EndsAt   string `json:"ends_at"`
}

func (h *Handler) CreateSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateSeason")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	var req createSeasonRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: starts_at must be RFC 3339: %v", usecase.ErrInvalidInput, err))
		return
	}
	var endsAt time.Time
	if req.EndsAt != "" {
		endsAt, err = time.Parse(time.RFC3339, req.EndsAt)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: ends_at must be RFC 3339: %v", usecase.ErrInvalidInput, err))
			return
		}
	}

	created, err := h.tableService.CreateSeason(ctx, principal, usecase.CreateSeasonInput{
		Name:     req.Name,
		StartsAt: startsAt,
		EndsAt:   endsAt,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create season failed", "name", req.Name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, seasonToDTO(created))
}

func (h *Handler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasons")
	defer span.End()

	seasons, err := h.tableService.ListSeasons(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list seasons failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	dtos := make([]seasonDTO, 0, len(seasons))
	for _, item := range seasons {
		dtos = append(dtos, seasonToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, dtos)
}
