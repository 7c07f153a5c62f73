package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/tonpuu/riichi-league/internal/domain/game"
	"github.com/tonpuu/riichi-league/internal/domain/rating"
	"github.com/tonpuu/riichi-league/internal/domain/standing"
	"github.com/tonpuu/riichi-league/internal/domain/user"
	"github.com/tonpuu/riichi-league/internal/platform/logging"
)

type RecalcInput struct {
	// Modes narrows the replay; empty means every mode.
	Modes      []rating.Mode
	MaxWorkers int
	// DryRun replays and counts without writing standings.
	DryRun bool
}

type RecalcResult struct {
	TaskCount    int                `json:"task_count"`
	SuccessCount int                `json:"success_count"`
	FailedCount  int                `json:"failed_count"`
	WorkerCount  int                `json:"worker_count"`
	Tasks        []RecalcTaskResult `json:"tasks"`
}

type RecalcTaskResult struct {
	Mode       string `json:"mode"`
	Status     string `json:"status"`
	Games      int    `json:"games"`
	Players    int    `json:"players"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

const (
	recalcStatusSuccess = "success"
	recalcStatusFailed  = "failed"
)

// RecalcService replays the full validated-game history through the
// rating engine under the current config tables and swaps the stored
// standings for the result. Admins run it after a retroactive table
// change.
type RecalcService struct {
	gameRepo     game.Repository
	standingRepo standing.Repository
	ratingRepo   rating.Repository
	cache        RankingCache
	logger       *logging.Logger
	now          func() time.Time
}

func NewRecalcService(
	gameRepo game.Repository,
	standingRepo standing.Repository,
	ratingRepo rating.Repository,
	cache RankingCache,
	logger *logging.Logger,
) *RecalcService {
	return &RecalcService{
		gameRepo:     gameRepo,
		standingRepo: standingRepo,
		ratingRepo:   ratingRepo,
		cache:        cache,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *RecalcService) Recalculate(ctx context.Context, principal user.Principal, input RecalcInput) (RecalcResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecalcService.Recalculate")
	defer span.End()

	if !principal.HasRole(user.RoleAdmin) {
		return RecalcResult{}, fmt.Errorf("%w: user %s cannot run a recalculation", ErrUnauthorized, principal.UserID)
	}

	modes := input.Modes
	if len(modes) == 0 {
		modes = rating.AllModes
	}
	for _, mode := range modes {
		if !mode.Valid() {
			return RecalcResult{}, fmt.Errorf("%w: unknown game mode %q", ErrInvalidInput, mode)
		}
	}

	workerCount := input.MaxWorkers
	if workerCount <= 0 || workerCount > len(modes) {
		workerCount = len(modes)
	}
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return RecalcResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		workers      sync.WaitGroup
		successCount atomic.Int64
		failedCount  atomic.Int64
	)
	results := make(chan RecalcTaskResult, len(modes))

	for _, mode := range modes {
		mode := mode
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := RecalcTaskResult{Mode: string(mode), Status: recalcStatusSuccess}

			games, players, err := s.replayMode(ctx, mode, input.DryRun)
			row.Games = games
			row.Players = players
			row.DurationMs = time.Since(start).Milliseconds()
			if err != nil {
				row.Status = recalcStatusFailed
				row.Message = err.Error()
				failedCount.Add(1)
			} else {
				successCount.Add(1)
			}

			results <- row
		}); err != nil {
			workers.Done()
			return RecalcResult{}, fmt.Errorf("submit recalc task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	out := RecalcResult{
		TaskCount:   len(modes),
		WorkerCount: workerCount,
	}
	for row := range results {
		out.Tasks = append(out.Tasks, row)
	}
	out.SuccessCount = int(successCount.Load())
	out.FailedCount = int(failedCount.Load())

	if !input.DryRun && out.SuccessCount > 0 {
		if err := s.cache.Invalidate(ctx, CacheKindRanking); err != nil {
			s.logger.ErrorContext(ctx, "ranking cache rebuild failed after recalculation", "error", err)
		}
	}
	return out, nil
}

// replayMode rebuilds every standing of one mode from an empty slate,
// feeding games through the engine in the order the review queue
// approved them.
func (s *RecalcService) replayMode(ctx context.Context, mode rating.Mode, dryRun bool) (int, int, error) {
	tables, err := s.ratingRepo.GetTableSet(ctx, mode)
	if err != nil {
		return 0, 0, fmt.Errorf("load config tables: %w", err)
	}
	games, err := s.gameRepo.ListByModeInQueueOrder(ctx, mode)
	if err != nil {
		return 0, 0, fmt.Errorf("list validated games: %w", err)
	}

	standings := make(map[string]standing.PlayerStanding)
	for _, item := range games {
		seats := make([]rating.SeatResult, 0, len(item.Results))
		states := make(map[string]rating.PlayerState, len(item.Results))
		for _, outcome := range item.Results {
			seats = append(seats, rating.SeatResult{
				PlayerID:       outcome.PlayerID,
				Seat:           outcome.Seat,
				Score:          outcome.Score,
				ChonboCount:    outcome.ChonboCount,
				FinalHandScore: outcome.FinalHandScore,
			})
			st, exists := standings[outcome.PlayerID]
			if !exists {
				st = standing.Entering(outcome.PlayerID, mode, tables.Rate.StartingRate)
			}
			states[outcome.PlayerID] = st.State()
		}

		result, err := rating.Calculate(rating.Input{
			Mode:           mode,
			Length:         item.Length,
			Seats:          seats,
			States:         states,
			SeasonID:       item.SeasonID,
			SeasonEligible: item.SeasonID != "",
		}, tables)
		if err != nil {
			return 0, 0, fmt.Errorf("replay game %s: %w", item.ID, err)
		}

		for _, delta := range result.Deltas {
			st, exists := standings[delta.PlayerID]
			if !exists {
				st = standing.Entering(delta.PlayerID, mode, tables.Rate.StartingRate)
			}
			next := st.Apply(delta)
			next.UpdatedAt = s.now().UTC()
			standings[delta.PlayerID] = next
		}
	}

	if dryRun {
		return len(games), len(standings), nil
	}

	items := make([]standing.PlayerStanding, 0, len(standings))
	for _, st := range standings {
		items = append(items, st)
	}
	if err := s.standingRepo.ReplaceByMode(ctx, mode, items); err != nil {
		return len(games), len(standings), fmt.Errorf("replace standings: %w", err)
	}
	return len(games), len(standings), nil
}
