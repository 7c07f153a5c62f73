package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tonpuu/riichi-league/internal/domain/rating"
	"github.com/tonpuu/riichi-league/internal/usecase"
)

type submitSeatRequest struct {
	PlayerID       string `json:"player_id" validate:"required"`
	Seat           string `json:"seat" validate:"required,oneof=east south west north"`
	Score          int    `json:"score"`
	ChonboCount    int    `json:"chonbo_count" validate:"min=0"`
	FinalHandScore *int   `json:"final_hand_score"`
}

type submitGameRequest struct {
	GameDate       string              `json:"game_date" validate:"required"`
	SequenceNumber *int                `json:"sequence_number"`
	Mode           string              `json:"mode" validate:"required,oneof=4p 3p"`
	Length         string              `json:"length" validate:"required,oneof=tonpuu hanchan"`
	SeasonScoped   bool                `json:"season_scoped"`
	EvidenceRef    string              `json:"evidence_ref"`
	Seats          []submitSeatRequest `json:"seats" validate:"required,min=3,max=4,dive"`
}

func (h *Handler) SubmitGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitGame")
	defer span.End()

	var req submitGameRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	gameDate, err := time.Parse(time.DateOnly, req.GameDate)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: game_date must be YYYY-MM-DD: %v", usecase.ErrInvalidInput, err))
		return
	}

	seats := make([]rating.SeatResult, 0, len(req.Seats))
	for _, seat := range req.Seats {
		seats = append(seats, rating.SeatResult{
			PlayerID:       seat.PlayerID,
			Seat:           rating.Wind(seat.Seat),
			Score:          seat.Score,
			ChonboCount:    seat.ChonboCount,
			FinalHandScore: seat.FinalHandScore,
		})
	}

	created, err := h.submissionService.SubmitRawGame(ctx, usecase.SubmitGameInput{
		GameDate:       gameDate,
		SequenceNumber: req.SequenceNumber,
		Mode:           rating.Mode(req.Mode),
		Length:         rating.GameLength(req.Length),
		SeasonScoped:   req.SeasonScoped,
		EvidenceRef:    strings.TrimSpace(req.EvidenceRef),
		Seats:          seats,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit game failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, submissionToDTO(created))
}

func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSubmissions")
	defer span.End()

	status := strings.TrimSpace(r.URL.Query().Get("status"))
	if status != "" && !strings.EqualFold(status, "pending") {
		writeError(ctx, w, fmt.Errorf("%w: only the pending queue can be listed, got status %q", usecase.ErrInvalidInput, status))
		return
	}

	items, err := h.submissionService.ListPendingQueue(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list pending submissions failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	dtos := make([]submissionDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, submissionToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, dtos)
}

func (h *Handler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSubmission")
	defer span.End()

	submissionID := strings.TrimSpace(r.PathValue("submissionID"))
	item, err := h.submissionService.GetSubmission(ctx, submissionID)
	if err != nil {
		h.logger.WarnContext(ctx, "get submission failed", "submission_id", submissionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, submissionToDTO(item))
}

func (h *Handler) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteSubmission")
	defer span.End()

	submissionID := strings.TrimSpace(r.PathValue("submissionID"))
	version, err := versionFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.submissionService.DeleteSubmission(ctx, submissionID, version); err != nil {
		h.logger.WarnContext(ctx, "delete submission failed", "submission_id", submissionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"id": submissionID, "status": "deleted"})
}

type restoreRequest struct {
	Version int64 `json:"version" validate:"min=1"`
}

func (h *Handler) RestoreSubmission(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RestoreSubmission")
	defer span.End()

	submissionID := strings.TrimSpace(r.PathValue("submissionID"))
	var req restoreRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.submissionService.RestoreSubmission(ctx, submissionID, req.Version); err != nil {
		h.logger.WarnContext(ctx, "restore submission failed", "submission_id", submissionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"id": submissionID, "status": "restored"})
}

func versionFromQuery(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("version"))
	if raw == "" {
		return 0, fmt.Errorf("%w: version query parameter is required", usecase.ErrInvalidInput)
	}
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || version < 1 {
		return 0, fmt.Errorf("%w: version must be a positive integer", usecase.ErrInvalidInput)
	}
	return version, nil
}
