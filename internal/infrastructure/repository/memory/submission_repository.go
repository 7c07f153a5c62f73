package memory

import (
	"context"
	"sync"
	"time"

	"github.com/tonpuu/riichi-league/internal/domain/submission"
	"github.com/tonpuu/riichi-league/internal/platform/visibility"
)

// SubmissionRepository keeps the review queue in memory. Approve and
// Reject mimic the storage transaction: the head invariant and row
// version are re-checked under the same lock that applies the writes.
type SubmissionRepository struct {
	mu     sync.Mutex
	items  map[string]submission.RawGameSubmission
	orders []string

	games     *GameRepository
	standings *StandingRepository
}

func NewSubmissionRepository(games *GameRepository, standings *StandingRepository) *SubmissionRepository {
	return &SubmissionRepository{
		items:     make(map[string]submission.RawGameSubmission),
		games:     games,
		standings: standings,
	}
}

func (r *SubmissionRepository) Create(_ context.Context, item submission.RawGameSubmission) (submission.RawGameSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item.Version = 1
	item.UpdatedAt = item.CreatedAt
	r.items[item.ID] = item
	r.orders = append(r.orders, item.ID)

	return item, nil
}

func (r *SubmissionRepository) GetByID(ctx context.Context, submissionID string) (submission.RawGameSubmission, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[submissionID]
	if !ok {
		return submission.RawGameSubmission{}, false, nil
	}
	if item.DeletedAt != nil && !visibility.IncludeDeleted(ctx) {
		return submission.RawGameSubmission{}, false, nil
	}

	return item, true, nil
}

func (r *SubmissionRepository) ListByStatus(ctx context.Context, status submission.Status) ([]submission.RawGameSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	includeDeleted := visibility.IncludeDeleted(ctx)
	out := make([]submission.RawGameSubmission, 0, len(r.orders))
	for _, id := range r.orders {
		item := r.items[id]
		if item.Status != status {
			continue
		}
		if item.DeletedAt != nil && !includeDeleted {
			continue
		}
		out = append(out, item)
	}

	return out, nil
}

func (r *SubmissionRepository) SoftDelete(_ context.Context, submissionID string, version int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[submissionID]
	if !ok || item.DeletedAt != nil {
		return submission.ErrNotFound
	}
	if item.Version != version {
		return submission.ErrVersionConflict
	}

	now := time.Now().UTC()
	item.DeletedAt = &now
	item.UpdatedAt = now
	item.Version++
	r.items[submissionID] = item

	return nil
}

func (r *SubmissionRepository) Restore(_ context.Context, submissionID string, version int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[submissionID]
	if !ok || item.DeletedAt == nil {
		return submission.ErrNotFound
	}
	if item.Version != version {
		return submission.ErrVersionConflict
	}

	item.DeletedAt = nil
	item.UpdatedAt = time.Now().UTC()
	item.Version++
	r.items[submissionID] = item

	return nil
}

func (r *SubmissionRepository) Approve(_ context.Context, params submission.ApproveParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, err := r.pendingHeadLocked(params.SubmissionID, params.Version)
	if err != nil {
		return err
	}

	r.standings.mu.Lock()
	applied := make([]func(), 0, len(params.Standings))
	for _, st := range params.Standings {
		key := standingKey{playerID: st.PlayerID, mode: st.Mode}
		prev, existed := r.standings.items[key]
		if err := r.standings.updateLocked(st); err != nil {
			// Roll the partial writes back before surfacing.
			for _, undo := range applied {
				undo()
			}
			r.standings.mu.Unlock()
			return err
		}
		applied = append(applied, func() {
			if existed {
				r.standings.items[key] = prev
			} else {
				delete(r.standings.items, key)
			}
		})
	}
	r.standings.mu.Unlock()

	r.games.append(params.Game)

	item.Status = submission.StatusValidated
	item.UpdatedAt = time.Now().UTC()
	item.Version++
	r.items[item.ID] = item

	return nil
}

func (r *SubmissionRepository) Reject(_ context.Context, params submission.RejectParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, err := r.pendingHeadLocked(params.SubmissionID, params.Version)
	if err != nil {
		return err
	}

	item.Status = submission.StatusRejected
	item.RejectReason = params.Reason
	item.RejectedBy = params.RejectedBy
	item.UpdatedAt = time.Now().UTC()
	item.Version++
	r.items[item.ID] = item

	return nil
}

func (r *SubmissionRepository) pendingHeadLocked(submissionID string, version int64) (submission.RawGameSubmission, error) {
	item, ok := r.items[submissionID]
	if !ok || item.DeletedAt != nil {
		return submission.RawGameSubmission{}, submission.ErrNotFound
	}
	if item.Status != submission.StatusPending {
		return submission.RawGameSubmission{}, submission.ErrAlreadyProcessed
	}
	if item.Version != version {
		return submission.RawGameSubmission{}, submission.ErrVersionConflict
	}

	pending := make([]submission.RawGameSubmission, 0, len(r.orders))
	for _, id := range r.orders {
		other := r.items[id]
		if other.Status == submission.StatusPending && other.DeletedAt == nil {
			pending = append(pending, other)
		}
	}
	head, found := submission.Head(pending)
	if !found || head.ID != submissionID {
		return submission.RawGameSubmission{}, &submission.OutOfOrderError{SubmissionID: submissionID, BlockingID: head.ID}
	}

	return item, nil
}
