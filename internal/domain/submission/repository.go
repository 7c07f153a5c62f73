package submission

import (
	"context"
	"errors"
	"fmt"

	"github.com/tonpuu/riichi-league/internal/domain/game"
	"github.com/tonpuu/riichi-league/internal/domain/standing"
)

var (
	ErrNotFound         = errors.New("submission not found")
	ErrAlreadyProcessed = errors.New("submission already processed")
	ErrOutOfOrder       = errors.New("submission is not at the head of the review queue")
	ErrVersionConflict  = errors.New("submission row version has advanced")
)

// OutOfOrderError names the submission blocking the attempted
// transition so clients can surface it.
type OutOfOrderError struct {
	SubmissionID string
	BlockingID   string
}

func (e *OutOfOrderError) Error() string {
	return fmt.Sprintf("submission %s is blocked by %s", e.SubmissionID, e.BlockingID)
}

func (e *OutOfOrderError) Unwrap() error {
	return ErrOutOfOrder
}

// ApproveParams carries everything the approval transaction writes.
// Standings hold post-game values with the versions observed when the
// engine input was read.
type ApproveParams struct {
	SubmissionID string
	Version      int64
	Game         game.ValidatedGame
	Standings    []standing.PlayerStanding
}

// RejectParams carries the terminal rejection write.
type RejectParams struct {
	SubmissionID string
	Version      int64
	Reason       string
	RejectedBy   string
}

type Repository interface {
	Create(ctx context.Context, item RawGameSubmission) (RawGameSubmission, error)
	GetByID(ctx context.Context, submissionID string) (RawGameSubmission, bool, error)
	ListByStatus(ctx context.Context, status Status) ([]RawGameSubmission, error)
	SoftDelete(ctx context.Context, submissionID string, version int64) error
	Restore(ctx context.Context, submissionID string, version int64) error

	// Approve atomically re-checks the head-of-queue invariant, inserts
	// the validated game, applies the standing writes version-guarded and
	// flips the submission to VALIDATED. Either all writes land or none.
	Approve(ctx context.Context, params ApproveParams) error
	// Reject atomically re-checks the head-of-queue invariant and flips
	// the submission to REJECTED with the reason and acting reviewer.
	Reject(ctx context.Context, params RejectParams) error
}
