package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tonpuu/riichi-league/internal/domain/rating"
	"github.com/tonpuu/riichi-league/internal/domain/submission"
	idgen "github.com/tonpuu/riichi-league/internal/platform/id"
)

// SubmissionService owns the intake side of the review queue: creating
// raw game reports and listing them in queue order.
type SubmissionService struct {
	submissionRepo submission.Repository
	ratingRepo     rating.Repository
	idGen          idgen.Generator
	now            func() time.Time
}

func NewSubmissionService(
	submissionRepo submission.Repository,
	ratingRepo rating.Repository,
	idGen idgen.Generator,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		ratingRepo:     ratingRepo,
		idGen:          idGen,
		now:            time.Now,
	}
}

type SubmitGameInput struct {
	GameDate       time.Time
	SequenceNumber *int
	Mode           rating.Mode
	Length         rating.GameLength
	SeasonScoped   bool
	EvidenceRef    string
	Seats          []rating.SeatResult
}

// SubmitRawGame validates the reported table against the active scoring
// table and appends it to the pending queue.
func (s *SubmissionService) SubmitRawGame(ctx context.Context, input SubmitGameInput) (submission.RawGameSubmission, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.SubmitRawGame")
	defer span.End()

	if input.GameDate.IsZero() {
		return submission.RawGameSubmission{}, fmt.Errorf("%w: game date is required", ErrInvalidInput)
	}
	if input.SequenceNumber != nil && *input.SequenceNumber < 0 {
		return submission.RawGameSubmission{}, fmt.Errorf("%w: sequence number cannot be negative", ErrInvalidInput)
	}
	if err := rating.ValidateTable(input.Mode, input.Length, input.Seats); err != nil {
		return submission.RawGameSubmission{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	tables, err := s.ratingRepo.GetTableSet(ctx, input.Mode)
	if err != nil {
		return submission.RawGameSubmission{}, fmt.Errorf("load config tables for submit: %w", err)
	}
	// Score-sum mismatches are returned untouched so callers see the
	// computed expected/actual difference.
	if err := rating.VerifyScoreSum(input.Mode, input.Seats, tables.Scoring); err != nil {
		return submission.RawGameSubmission{}, err
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return submission.RawGameSubmission{}, fmt.Errorf("generate submission id: %w", err)
	}

	item := submission.RawGameSubmission{
		ID:             id,
		GameDate:       input.GameDate,
		SequenceNumber: input.SequenceNumber,
		Mode:           input.Mode,
		Length:         input.Length,
		SeasonScoped:   input.SeasonScoped,
		Seats:          input.Seats,
		Status:         submission.StatusPending,
		EvidenceRef:    input.EvidenceRef,
		CreatedAt:      s.now().UTC(),
	}

	created, err := s.submissionRepo.Create(ctx, item)
	if err != nil {
		return submission.RawGameSubmission{}, fmt.Errorf("create submission: %w", err)
	}
	return created, nil
}

// ListPendingQueue returns the pending submissions in approval order;
// the first element is the current head of the queue.
func (s *SubmissionService) ListPendingQueue(ctx context.Context) ([]submission.RawGameSubmission, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.ListPendingQueue")
	defer span.End()

	items, err := s.submissionRepo.ListByStatus(ctx, submission.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending submissions: %w", err)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return submission.Before(items[i], items[j])
	})
	return items, nil
}

func (s *SubmissionService) GetSubmission(ctx context.Context, submissionID string) (submission.RawGameSubmission, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.GetSubmission")
	defer span.End()

	if submissionID == "" {
		return submission.RawGameSubmission{}, fmt.Errorf("%w: submission id is required", ErrInvalidInput)
	}

	item, exists, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return submission.RawGameSubmission{}, fmt.Errorf("get submission: %w", err)
	}
	if !exists {
		return submission.RawGameSubmission{}, fmt.Errorf("%w: submission %s", ErrNotFound, submissionID)
	}
	return item, nil
}

// DeleteSubmission soft-deletes a pending report, guarded by the
// version the caller last observed.
func (s *SubmissionService) DeleteSubmission(ctx context.Context, submissionID string, version int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.DeleteSubmission")
	defer span.End()

	if submissionID == "" {
		return fmt.Errorf("%w: submission id is required", ErrInvalidInput)
	}

	err := s.submissionRepo.SoftDelete(ctx, submissionID, version)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, submission.ErrNotFound):
		return fmt.Errorf("%w: submission %s", ErrNotFound, submissionID)
	case errors.Is(err, submission.ErrVersionConflict):
		return fmt.Errorf("%w: submission %s", ErrVersionConflict, submissionID)
	default:
		return fmt.Errorf("soft delete submission: %w", err)
	}
}

// RestoreSubmission undoes a soft delete, guarded by the observed
// version of the deleted row.
func (s *SubmissionService) RestoreSubmission(ctx context.Context, submissionID string, version int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SubmissionService.RestoreSubmission")
	defer span.End()

	if submissionID == "" {
		return fmt.Errorf("%w: submission id is required", ErrInvalidInput)
	}

	err := s.submissionRepo.Restore(ctx, submissionID, version)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, submission.ErrNotFound):
		return fmt.Errorf("%w: submission %s", ErrNotFound, submissionID)
	case errors.Is(err, submission.ErrVersionConflict):
		return fmt.Errorf("%w: submission %s", ErrVersionConflict, submissionID)
	default:
		return fmt.Errorf("restore submission: %w", err)
	}
}
