package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tonpuu/riichi-league/internal/usecase"
)

type approveRequest struct {
	Version int64 `json:"version" validate:"min=1"`
}

type rejectRequest struct {
	Version int64  `json:"version" validate:"min=1"`
	Reason  string `json:"reason"`
}

func (h *Handler) ApproveSubmission(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApproveSubmission")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	submissionID := strings.TrimSpace(r.PathValue("submissionID"))
	var req approveRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	validated, err := h.reviewService.Approve(ctx, principal, submissionID, req.Version)
	if err != nil {
		h.logger.WarnContext(ctx, "approve submission failed",
			"submission_id", submissionID, "reviewer", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, validatedGameToDTO(validated))
}

func (h *Handler) RejectSubmission(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RejectSubmission")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: missing principal", usecase.ErrUnauthorized))
		return
	}

	submissionID := strings.TrimSpace(r.PathValue("submissionID"))
	var req rejectRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.reviewService.Reject(ctx, principal, submissionID, req.Version, strings.TrimSpace(req.Reason)); err != nil {
		h.logger.WarnContext(ctx, "reject submission failed",
			"submission_id", submissionID, "reviewer", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"id": submissionID, "status": "rejected"})
}
