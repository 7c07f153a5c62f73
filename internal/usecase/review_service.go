package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tonpuu/riichi-league/internal/domain/game"
	"github.com/tonpuu/riichi-league/internal/domain/rating"
	"github.com/tonpuu/riichi-league/internal/domain/season"
	"github.com/tonpuu/riichi-league/internal/domain/standing"
	"github.com/tonpuu/riichi-league/internal/domain/submission"
	"github.com/tonpuu/riichi-league/internal/domain/user"
	idgen "github.com/tonpuu/riichi-league/internal/platform/id"
	"github.com/tonpuu/riichi-league/internal/platform/logging"
)

// EvidenceStore holds the uploaded evidence objects referenced by
// submissions. Release removes the object once a submission reaches a
// terminal status.
type EvidenceStore interface {
	Release(ctx context.Context, ref string) error
}

// ReviewService drives the human validation queue. Every transition is
// checked against the queue head so games enter the ledger in strict
// chronological order.
type ReviewService struct {
	submissionRepo submission.Repository
	standingRepo   standing.Repository
	ratingRepo     rating.Repository
	seasonRepo     season.Repository
	cache          RankingCache
	evidence       EvidenceStore
	idGen          idgen.Generator
	logger         *logging.Logger
	now            func() time.Time
}

func NewReviewService(
	submissionRepo submission.Repository,
	standingRepo standing.Repository,
	ratingRepo rating.Repository,
	seasonRepo season.Repository,
	cache RankingCache,
	evidence EvidenceStore,
	idGen idgen.Generator,
	logger *logging.Logger,
) *ReviewService {
	return &ReviewService{
		submissionRepo: submissionRepo,
		standingRepo:   standingRepo,
		ratingRepo:     ratingRepo,
		seasonRepo:     seasonRepo,
		cache:          cache,
		evidence:       evidence,
		idGen:          idGen,
		logger:         logger,
		now:            time.Now,
	}
}

// Approve validates the head submission, runs the rating engine and
// commits the game, standings and status flip in one transaction.
// A write lost to a concurrent version bump is retried once against
// freshly read state before the conflict surfaces.
func (s *ReviewService) Approve(ctx context.Context, principal user.Principal, submissionID string, version int64) (game.ValidatedGame, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReviewService.Approve")
	defer span.End()

	if !principal.CanReview() {
		return game.ValidatedGame{}, fmt.Errorf("%w: user %s cannot review submissions", ErrUnauthorized, principal.UserID)
	}
	if submissionID == "" {
		return game.ValidatedGame{}, fmt.Errorf("%w: submission id is required", ErrInvalidInput)
	}

	validated, err := s.approveOnce(ctx, submissionID, version)
	if err != nil && retryableApproveErr(err) {
		s.logger.WarnContext(ctx, "approve hit a concurrent write, retrying once",
			"submission_id", submissionID, "error", err)
		validated, err = s.approveOnce(ctx, submissionID, version)
	}
	if err != nil {
		return game.ValidatedGame{}, err
	}

	if err := s.cache.Invalidate(ctx, CacheKindRanking); err != nil {
		s.logger.ErrorContext(ctx, "ranking cache rebuild failed after approve",
			"submission_id", submissionID, "error", err)
	}
	return validated, nil
}

// Reject flips the head submission to REJECTED with the reviewer's
// reason. Rejected reports stay in storage for audit.
func (s *ReviewService) Reject(ctx context.Context, principal user.Principal, submissionID string, version int64, reason string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReviewService.Reject")
	defer span.End()

	if !principal.CanReview() {
		return fmt.Errorf("%w: user %s cannot review submissions", ErrUnauthorized, principal.UserID)
	}
	if submissionID == "" {
		return fmt.Errorf("%w: submission id is required", ErrInvalidInput)
	}
	if reason == "" {
		return fmt.Errorf("%w: a rejection must name its reason", ErrMissingReason)
	}

	item, err := s.pendingByID(ctx, submissionID)
	if err != nil {
		return err
	}
	if err := s.requireHead(ctx, item); err != nil {
		return err
	}

	err = s.submissionRepo.Reject(ctx, submission.RejectParams{
		SubmissionID: submissionID,
		Version:      version,
		Reason:       reason,
		RejectedBy:   principal.UserID,
	})
	switch {
	case err == nil:
	case errors.Is(err, submission.ErrVersionConflict):
		return fmt.Errorf("%w: submission %s", ErrVersionConflict, submissionID)
	default:
		return fmt.Errorf("reject submission: %w", err)
	}

	if item.EvidenceRef != "" {
		s.releaseEvidence(ctx, submissionID, item.EvidenceRef)
	}
	return nil
}

func (s *ReviewService) approveOnce(ctx context.Context, submissionID string, version int64) (game.ValidatedGame, error) {
	item, err := s.pendingByID(ctx, submissionID)
	if err != nil {
		return game.ValidatedGame{}, err
	}
	if err := s.requireHead(ctx, item); err != nil {
		return game.ValidatedGame{}, err
	}

	tables, err := s.tableSet(ctx, item.Mode)
	if err != nil {
		return game.ValidatedGame{}, err
	}

	seasonID := ""
	seasonEligible := false
	if item.SeasonScoped {
		current, ok, err := s.seasonRepo.FindAt(ctx, item.GameDate)
		if err != nil {
			return game.ValidatedGame{}, fmt.Errorf("find season for game date: %w", err)
		}
		if ok {
			seasonID = current.ID
			seasonEligible = true
		}
	}

	states := make(map[string]rating.PlayerState, len(item.Seats))
	current := make(map[string]standing.PlayerStanding, len(item.Seats))
	for _, seat := range item.Seats {
		st, exists, err := s.standingRepo.GetByPlayer(ctx, seat.PlayerID, item.Mode)
		if err != nil {
			return game.ValidatedGame{}, fmt.Errorf("load standing for %s: %w", seat.PlayerID, err)
		}
		if !exists {
			st = standing.Entering(seat.PlayerID, item.Mode, tables.Rate.StartingRate)
		}
		current[seat.PlayerID] = st
		states[seat.PlayerID] = st.State()
	}

	result, err := rating.Calculate(rating.Input{
		Mode:           item.Mode,
		Length:         item.Length,
		Seats:          item.Seats,
		States:         states,
		SeasonID:       seasonID,
		SeasonEligible: seasonEligible,
	}, tables)
	if err != nil {
		return game.ValidatedGame{}, fmt.Errorf("calculate rating deltas: %w", err)
	}

	updated := make([]standing.PlayerStanding, 0, len(result.Deltas))
	for _, delta := range result.Deltas {
		next := current[delta.PlayerID].Apply(delta)
		next.UpdatedAt = s.now().UTC()
		updated = append(updated, next)
	}

	gameID, err := s.idGen.NewID()
	if err != nil {
		return game.ValidatedGame{}, fmt.Errorf("generate game id: %w", err)
	}
	validated := game.ValidatedGame{
		ID:             gameID,
		SubmissionID:   item.ID,
		GameDate:       item.GameDate,
		SequenceNumber: item.SequenceNumber,
		Mode:           item.Mode,
		Length:         item.Length,
		SeasonID:       seasonID,
		Results:        game.Outcomes(item.Seats, result),
		CreatedAt:      s.now().UTC(),
	}

	err = s.submissionRepo.Approve(ctx, submission.ApproveParams{
		SubmissionID: item.ID,
		Version:      version,
		Game:         validated,
		Standings:    updated,
	})
	if err != nil {
		return game.ValidatedGame{}, fmt.Errorf("approve submission: %w", err)
	}

	if item.EvidenceRef != "" {
		s.releaseEvidence(ctx, item.ID, item.EvidenceRef)
	}
	return validated, nil
}

func (s *ReviewService) pendingByID(ctx context.Context, submissionID string) (submission.RawGameSubmission, error) {
	item, exists, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return submission.RawGameSubmission{}, fmt.Errorf("get submission: %w", err)
	}
	if !exists {
		return submission.RawGameSubmission{}, fmt.Errorf("%w: submission %s", ErrNotFound, submissionID)
	}
	if item.Status != submission.StatusPending {
		return submission.RawGameSubmission{}, fmt.Errorf("submission %s is %s: %w", submissionID, item.Status, submission.ErrAlreadyProcessed)
	}
	return item, nil
}

// requireHead rejects transitions on any submission other than the
// current queue head. The storage transaction re-checks this under
// lock; this read keeps the common failure cheap and descriptive.
func (s *ReviewService) requireHead(ctx context.Context, item submission.RawGameSubmission) error {
	pending, err := s.submissionRepo.ListByStatus(ctx, submission.StatusPending)
	if err != nil {
		return fmt.Errorf("list pending submissions: %w", err)
	}
	head, found := submission.Head(pending)
	if !found {
		return fmt.Errorf("%w: submission %s", ErrNotFound, item.ID)
	}
	if head.ID != item.ID {
		return &submission.OutOfOrderError{SubmissionID: item.ID, BlockingID: head.ID}
	}
	return nil
}

func (s *ReviewService) tableSet(ctx context.Context, mode rating.Mode) (rating.TableSet, error) {
	if tables, ok := s.cache.TableSet(ctx, mode); ok {
		return tables, nil
	}
	tables, err := s.ratingRepo.GetTableSet(ctx, mode)
	if err != nil {
		return rating.TableSet{}, fmt.Errorf("load config tables: %w", err)
	}
	return tables, nil
}

func (s *ReviewService) releaseEvidence(ctx context.Context, submissionID, ref string) {
	if err := s.evidence.Release(ctx, ref); err != nil {
		s.logger.WarnContext(ctx, "evidence object could not be released",
			"submission_id", submissionID, "evidence_ref", ref, "error", err)
	}
}

// retryableApproveErr reports whether a failed approve attempt may
// succeed against re-read state. Workflow outcomes are final.
func retryableApproveErr(err error) bool {
	switch {
	case errors.Is(err, submission.ErrAlreadyProcessed),
		errors.Is(err, submission.ErrOutOfOrder),
		errors.Is(err, ErrNotFound),
		errors.Is(err, rating.ErrScoreSumMismatch):
		return false
	}
	return errors.Is(err, standing.ErrVersionConflict) || errors.Is(err, submission.ErrVersionConflict)
}
