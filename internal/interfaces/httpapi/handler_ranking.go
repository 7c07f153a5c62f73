package httpapi

import (
	"net/http"
	"strings"

	"github.com/tonpuu/riichi-league/internal/domain/rankingview"
	"github.com/tonpuu/riichi-league/internal/domain/rating"
)

func (h *Handler) GetRankings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRankings")
	defer span.End()

	key := rankingview.Key{
		Mode:      rating.Mode(strings.TrimSpace(r.PathValue("mode"))),
		Scope:     rankingview.ScopeOverall,
		PlayerSet: rankingview.PlayersActive,
	}
	if scope := strings.TrimSpace(r.URL.Query().Get("scope")); scope != "" {
		key.Scope = rankingview.Scope(scope)
	}
	if players := strings.TrimSpace(r.URL.Query().Get("players")); players != "" {
		key.PlayerSet = rankingview.PlayerSet(players)
	}

	rows, err := h.rankingService.GetRankingView(ctx, key)
	if err != nil {
		h.logger.WarnContext(ctx, "get ranking view failed",
			"mode", string(key.Mode), "scope", string(key.Scope), "player_set", string(key.PlayerSet), "error", err)
		writeError(ctx, w, err)
		return
	}

	dtos := make([]rankingRowDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, rankingRowToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, dtos)
}

func (h *Handler) GetConfigTables(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetConfigTables")
	defer span.End()

	mode := rating.Mode(strings.TrimSpace(r.PathValue("mode")))
	tables, err := h.rankingService.GetConfigTables(ctx, mode)
	if err != nil {
		h.logger.WarnContext(ctx, "get config tables failed", "mode", string(mode), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tableSetToDTO(tables))
}
