package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/tonpuu/riichi-league/internal/domain/standing"
	"github.com/tonpuu/riichi-league/internal/domain/submission"
	qb "github.com/tonpuu/riichi-league/internal/platform/querybuilder"
)

type SubmissionRepository struct {
	db *sqlx.DB
}

func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Create(ctx context.Context, item submission.RawGameSubmission) (submission.RawGameSubmission, error) {
	seats, err := encodeSeats(item.Seats)
	if err != nil {
		return submission.RawGameSubmission{}, err
	}

	query, args, err := qb.InsertInto("game_submissions").
		Columns(
			"public_id", "game_date", "sequence_number", "mode", "length",
			"season_scoped", "seats", "status", "evidence_ref", "version",
		).
		Values(
			item.ID, item.GameDate, nullableSeq(item.SequenceNumber), string(item.Mode), string(item.Length),
			item.SeasonScoped, seats, string(item.Status), nullableString(item.EvidenceRef), 1,
		).
		Suffix("RETURNING version, created_at, updated_at").
		ToSQL()
	if err != nil {
		return submission.RawGameSubmission{}, fmt.Errorf("build insert submission query: %w", err)
	}

	row := r.db.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&item.Version, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return submission.RawGameSubmission{}, fmt.Errorf("insert submission: %w", err)
	}
	return item, nil
}

func (r *SubmissionRepository) GetByID(ctx context.Context, submissionID string) (submission.RawGameSubmission, bool, error) {
	query, args, err := qb.Select("*").From("game_submissions").
		Where(visibleWhere(ctx, qb.Eq("public_id", submissionID))...).
		ToSQL()
	if err != nil {
		return submission.RawGameSubmission{}, false, fmt.Errorf("build get submission query: %w", err)
	}

	var row submissionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return submission.RawGameSubmission{}, false, nil
		}
		return submission.RawGameSubmission{}, false, fmt.Errorf("get submission: %w", err)
	}

	item, err := submissionFromRow(row)
	if err != nil {
		return submission.RawGameSubmission{}, false, err
	}
	return item, true, nil
}

func (r *SubmissionRepository) ListByStatus(ctx context.Context, status submission.Status) ([]submission.RawGameSubmission, error) {
	query, args, err := qb.Select("*").From("game_submissions").
		Where(visibleWhere(ctx, qb.Eq("status", string(status)))...).
		OrderBy("game_date", "sequence_number NULLS LAST", "created_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list submissions query: %w", err)
	}

	var rows []submissionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list submissions by status: %w", err)
	}

	out := make([]submission.RawGameSubmission, 0, len(rows))
	for _, row := range rows {
		item, err := submissionFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *SubmissionRepository) SoftDelete(ctx context.Context, submissionID string, version int64) error {
	query, args, err := qb.Update("game_submissions").
		SetExpr("deleted_at", "NOW()").
		SetExpr("updated_at", "NOW()").
		SetExpr("version", "version + 1").
		Where(
			qb.Eq("public_id", submissionID),
			qb.Eq("version", version),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build soft delete submission query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("soft delete submission: %w", err)
	}
	return r.versionedOutcome(ctx, result, submissionID, false)
}

func (r *SubmissionRepository) Restore(ctx context.Context, submissionID string, version int64) error {
	query, args, err := qb.Update("game_submissions").
		SetExpr("deleted_at", "NULL").
		SetExpr("updated_at", "NOW()").
		SetExpr("version", "version + 1").
		Where(
			qb.Eq("public_id", submissionID),
			qb.Eq("version", version),
			qb.Expr("deleted_at IS NOT NULL"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build restore submission query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("restore submission: %w", err)
	}
	return r.versionedOutcome(ctx, result, submissionID, true)
}

// Approve commits the full validation in one transaction: head re-check
// under row locks, game insert, version-guarded standing writes and the
// status flip.
func (r *SubmissionRepository) Approve(ctx context.Context, params submission.ApproveParams) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for submission approve: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := lockQueueHead(ctx, tx, params.SubmissionID, params.Version); err != nil {
		return err
	}
	if err := insertValidatedGame(ctx, tx, params.Game); err != nil {
		return err
	}
	for _, item := range params.Standings {
		if err := writeStanding(ctx, tx, item); err != nil {
			return err
		}
	}
	if err := flipStatus(ctx, tx, params.SubmissionID, params.Version, map[string]any{
		"status": string(submission.StatusValidated),
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit submission approve: %w", err)
	}
	return nil
}

// Reject flips the head submission to REJECTED under the same locking
// discipline as Approve.
func (r *SubmissionRepository) Reject(ctx context.Context, params submission.RejectParams) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for submission reject: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := lockQueueHead(ctx, tx, params.SubmissionID, params.Version); err != nil {
		return err
	}
	if err := flipStatus(ctx, tx, params.SubmissionID, params.Version, map[string]any{
		"status":        string(submission.StatusRejected),
		"reject_reason": params.Reason,
		"rejected_by":   params.RejectedBy,
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit submission reject: %w", err)
	}
	return nil
}

// lockQueueHead locks every pending submission and verifies the target
// is still the queue head with the expected version.
func lockQueueHead(ctx context.Context, tx *sqlx.Tx, submissionID string, version int64) error {
	const pendingQuery = `
SELECT public_id, game_date, sequence_number, status, version, created_at
FROM game_submissions
WHERE status = $1
  AND deleted_at IS NULL
ORDER BY id
FOR UPDATE`

	var rows []struct {
		PublicID       string        `db:"public_id"`
		GameDate       time.Time     `db:"game_date"`
		SequenceNumber sql.NullInt64 `db:"sequence_number"`
		Status         string        `db:"status"`
		Version        int64         `db:"version"`
		CreatedAt      time.Time     `db:"created_at"`
	}
	if err := tx.SelectContext(ctx, &rows, pendingQuery, string(submission.StatusPending)); err != nil {
		return fmt.Errorf("lock pending submissions: %w", err)
	}

	pending := make([]submission.RawGameSubmission, 0, len(rows))
	var target *submission.RawGameSubmission
	for _, row := range rows {
		item := submission.RawGameSubmission{
			ID:        row.PublicID,
			GameDate:  row.GameDate,
			Status:    submission.Status(row.Status),
			Version:   row.Version,
			CreatedAt: row.CreatedAt,
		}
		if row.SequenceNumber.Valid {
			seq := int(row.SequenceNumber.Int64)
			item.SequenceNumber = &seq
		}
		pending = append(pending, item)
		if item.ID == submissionID {
			target = &pending[len(pending)-1]
		}
	}

	if target == nil {
		// Not in the pending set: either gone or already resolved.
		return pendingState(ctx, tx, submissionID)
	}
	if target.Version != version {
		return submission.ErrVersionConflict
	}

	head, found := submission.Head(pending)
	if !found || head.ID != submissionID {
		return &submission.OutOfOrderError{SubmissionID: submissionID, BlockingID: head.ID}
	}
	return nil
}

func pendingState(ctx context.Context, tx *sqlx.Tx, submissionID string) error {
	const stateQuery = `
SELECT status
FROM game_submissions
WHERE public_id = $1
  AND deleted_at IS NULL`

	var status string
	if err := tx.GetContext(ctx, &status, stateQuery, submissionID); err != nil {
		if isNotFound(err) {
			return submission.ErrNotFound
		}
		return fmt.Errorf("check submission state: %w", err)
	}
	return submission.ErrAlreadyProcessed
}

func flipStatus(ctx context.Context, tx *sqlx.Tx, submissionID string, version int64, sets map[string]any) error {
	builder := qb.Update("game_submissions").
		SetExpr("updated_at", "NOW()").
		SetExpr("version", "version + 1")
	for column, value := range sets {
		builder = builder.Set(column, value)
	}
	query, args, err := builder.
		Where(
			qb.Eq("public_id", submissionID),
			qb.Eq("version", version),
			qb.Eq("status", string(submission.StatusPending)),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build submission status update query: %w", err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update submission status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("submission status rows affected: %w", err)
	}
	if affected == 0 {
		return submission.ErrVersionConflict
	}
	return nil
}

// writeStanding applies one guarded standing write inside the approve
// transaction. A zero observed version means the player has no row yet.
func writeStanding(ctx context.Context, tx *sqlx.Tx, item standing.PlayerStanding) error {
	if item.Version == 0 {
		query, args, err := qb.InsertInto("player_standings").
			Columns(
				"player_public_id", "mode", "tier_score", "rate_score", "season_score",
				"game_count", "season_game_count", "version",
			).
			Values(
				item.PlayerID, string(item.Mode), item.TierScore, item.RateScore, item.SeasonScore,
				item.GameCount, item.SeasonGameCount, 1,
			).
			Suffix("ON CONFLICT (player_public_id, mode) DO NOTHING").
			ToSQL()
		if err != nil {
			return fmt.Errorf("build insert standing query: %w", err)
		}

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("insert standing: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("standing rows affected: %w", err)
		}
		if affected == 0 {
			// Someone created the row since the engine input was read.
			return standing.ErrVersionConflict
		}
		return nil
	}

	query, args, err := qb.Update("player_standings").
		Set("tier_score", item.TierScore).
		Set("rate_score", item.RateScore).
		Set("season_score", item.SeasonScore).
		Set("game_count", item.GameCount).
		Set("season_game_count", item.SeasonGameCount).
		SetExpr("updated_at", "NOW()").
		SetExpr("version", "version + 1").
		Where(
			qb.Eq("player_public_id", item.PlayerID),
			qb.Eq("mode", string(item.Mode)),
			qb.Eq("version", item.Version),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update standing query: %w", err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update standing: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("standing rows affected: %w", err)
	}
	if affected == 0 {
		return standing.ErrVersionConflict
	}
	return nil
}

func (r *SubmissionRepository) versionedOutcome(ctx context.Context, result sql.Result, submissionID string, wantDeleted bool) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("submission rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	query, args, err := qb.Select("1").From("game_submissions").
		Where(
			qb.Eq("public_id", submissionID),
			qb.Expr(deletedStateExpr(wantDeleted)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build submission existence query: %w", err)
	}

	var exists int
	if err := r.db.GetContext(ctx, &exists, query, args...); err != nil {
		if isNotFound(err) {
			return submission.ErrNotFound
		}
		return fmt.Errorf("check submission existence: %w", err)
	}
	return submission.ErrVersionConflict
}
