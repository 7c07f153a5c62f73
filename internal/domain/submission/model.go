package submission

import (
	"time"

	"github.com/tonpuu/riichi-league/internal/domain/rating"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusValidated Status = "VALIDATED"
	StatusRejected  Status = "REJECTED"
)

// RawGameSubmission is one unvalidated game report waiting in the
// review queue. It is mutated only by the approve/reject transition and
// never physically deleted.
type RawGameSubmission struct {
	ID             string
	GameDate       time.Time
	SequenceNumber *int
	Mode           rating.Mode
	Length         rating.GameLength
	SeasonScoped   bool
	Seats          []rating.SeatResult
	Status         Status
	RejectReason   string
	RejectedBy     string
	EvidenceRef    string
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// Before reports whether a sorts ahead of b in the review queue:
// game date ascending, same-day sequence number ascending with nulls
// last, then creation time, then id for a total order.
func Before(a, b RawGameSubmission) bool {
	if !a.GameDate.Equal(b.GameDate) {
		return a.GameDate.Before(b.GameDate)
	}
	switch {
	case a.SequenceNumber != nil && b.SequenceNumber == nil:
		return true
	case a.SequenceNumber == nil && b.SequenceNumber != nil:
		return false
	case a.SequenceNumber != nil && b.SequenceNumber != nil && *a.SequenceNumber != *b.SequenceNumber:
		return *a.SequenceNumber < *b.SequenceNumber
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// Head returns the queue head among the given pending submissions.
func Head(items []RawGameSubmission) (RawGameSubmission, bool) {
	var head RawGameSubmission
	found := false
	for _, item := range items {
		if item.Status != StatusPending {
			continue
		}
		if !found || Before(item, head) {
			head = item
			found = true
		}
	}
	return head, found
}
