package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/tonpuu/riichi-league/internal/platform/logging"
	"github.com/tonpuu/riichi-league/internal/usecase"
)

type Handler struct {
	submissionService *usecase.SubmissionService
	reviewService     *usecase.ReviewService
	rankingService    *usecase.RankingService
	tableService      *usecase.TableService
	playerService     *usecase.PlayerService
	gameService       *usecase.GameService
	recalcService     *usecase.RecalcService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	submissionService *usecase.SubmissionService,
	reviewService *usecase.ReviewService,
	rankingService *usecase.RankingService,
	tableService *usecase.TableService,
	playerService *usecase.PlayerService,
	gameService *usecase.GameService,
	recalcService *usecase.RecalcService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		submissionService: submissionService,
		reviewService:     reviewService,
		rankingService:    rankingService,
		tableService:      tableService,
		playerService:     playerService,
		gameService:       gameService,
		recalcService:     recalcService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz reports readiness only once the ranking snapshot has been
// warmed, so load balancers never route reads to a cold process.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Readyz")
	defer span.End()

	if !h.rankingService.Ready() {
		writeError(ctx, w, usecase.ErrCacheNotReady)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func decodeRequest(r *http.Request, target any) error {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
