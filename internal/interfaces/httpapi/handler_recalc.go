package httpapi

import (
	"fmt"
	"net/http"

	"github.com/tonpuu/riichi-league/internal/domain/rating"
	"github.com/tonpuu/riichi-league/internal/usecase"
)

type recalcRequest struct {
	Modes      []string `json:"modes" validate:"omitempty,dive,oneof=4p 3p"`
	MaxWorkers int      `json:"max_workers" validate:"min=0,max=16"`
	DryRun     bool     `json:"dry_run"`
}

// RunRecalc replays the whole validated-game history through the
// current config tables and swaps standings for the result.
func (h *Handler) RunRecalc(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRecalc")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	// An empty body means a full replay with defaults.
	var req recalcRequest
	if r.ContentLength != 0 {
		if err := decodeRequest(r, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	modes := make([]rating.Mode, 0, len(req.Modes))
	for _, mode := range req.Modes {
		modes = append(modes, rating.Mode(mode))
	}

	result, err := h.recalcService.Recalculate(ctx, principal, usecase.RecalcInput{
		Modes:      modes,
		MaxWorkers: req.MaxWorkers,
		DryRun:     req.DryRun,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "recalculation failed", "requested_by", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

type invalidateCacheRequest struct {
	Kind string `json:"kind" validate:"required,oneof=config ranking"`
}

func (h *Handler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.InvalidateCache")
	defer span.End()

	var req invalidateCacheRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.rankingService.Invalidate(ctx, usecase.CacheKind(req.Kind)); err != nil {
		h.logger.ErrorContext(ctx, "cache invalidation failed", "kind", req.Kind, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"kind": req.Kind, "status": "invalidated"})
}

func (h *Handler) WarmUpCache(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.WarmUpCache")
	defer span.End()

	if err := h.rankingService.WarmUp(ctx); err != nil {
		h.logger.ErrorContext(ctx, "cache warm-up failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "warmed"})
}
