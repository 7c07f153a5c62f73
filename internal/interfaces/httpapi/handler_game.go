package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/tonpuu/riichi-league/internal/domain/rating"
	"github.com/tonpuu/riichi-league/internal/usecase"
)

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGames")
	defer span.End()

	mode := rating.Mode(strings.TrimSpace(r.PathValue("mode")))
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a positive integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	games, err := h.gameService.ListGames(ctx, mode, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list games failed", "mode", string(mode), "error", err)
		writeError(ctx, w, err)
		return
	}

	dtos := make([]validatedGameDTO, 0, len(games))
	for _, item := range games {
		dtos = append(dtos, validatedGameToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, dtos)
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGame")
	defer span.End()

	mode := rating.Mode(strings.TrimSpace(r.PathValue("mode")))
	gameID := strings.TrimSpace(r.PathValue("gameID"))
	item, err := h.gameService.GetGame(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "get game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if item.Mode != mode {
		writeError(ctx, w, fmt.Errorf("%w: game %s", usecase.ErrNotFound, gameID))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, validatedGameToDTO(item))
}
