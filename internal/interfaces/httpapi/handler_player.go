package httpapi

import (
	"net/http"
	"strings"

	"github.com/tonpuu/riichi-league/internal/usecase"
)

type createPlayerRequest struct {
	DisplayName string `json:"display_name" validate:"required,max=100"`
	Country     string `json:"country" validate:"omitempty,len=2"`
}

func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePlayer")
	defer span.End()

	var req createPlayerRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.playerService.CreatePlayer(ctx, usecase.CreatePlayerInput{
		DisplayName: strings.TrimSpace(req.DisplayName),
		Country:     strings.ToUpper(strings.TrimSpace(req.Country)),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create player failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, playerToDTO(created))
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	item, err := h.playerService.GetPlayer(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(item))
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	players, err := h.playerService.ListPlayers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list players failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	dtos := make([]playerDTO, 0, len(players))
	for _, item := range players {
		dtos = append(dtos, playerToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, dtos)
}

func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeletePlayer")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	version, err := versionFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.playerService.DeletePlayer(ctx, playerID, version); err != nil {
		h.logger.WarnContext(ctx, "delete player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"id": playerID, "status": "deleted"})
}

func (h *Handler) RestorePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RestorePlayer")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	var req restoreRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.playerService.RestorePlayer(ctx, playerID, req.Version); err != nil {
		h.logger.WarnContext(ctx, "restore player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"id": playerID, "status": "restored"})
}
