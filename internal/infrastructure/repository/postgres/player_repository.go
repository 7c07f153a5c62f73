package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/tonpuu/riichi-league/internal/domain/player"
	qb "github.com/tonpuu/riichi-league/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) Create(ctx context.Context, item player.Player) (player.Player, error) {
	query, args, err := qb.InsertInto("players").
		Columns("public_id", "display_name", "country_code", "is_active", "version").
		Values(item.ID, item.DisplayName, item.Country, item.IsActive, 1).
		Suffix("RETURNING version, created_at, updated_at").
		ToSQL()
	if err != nil {
		return player.Player{}, fmt.Errorf("build insert player query: %w", err)
	}

	row := r.db.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&item.Version, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return player.Player{}, fmt.Errorf("insert player: %w", err)
	}
	return item, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(visibleWhere(ctx, qb.Eq("public_id", playerID))...).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player by id query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player by id: %w", err)
	}

	return playerFromRow(row), true, nil
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(visibleWhere(ctx)...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}
	return out, nil
}

func (r *PlayerRepository) SoftDelete(ctx context.Context, playerID string, version int64) error {
	query, args, err := qb.Update("players").
		SetExpr("deleted_at", "NOW()").
		SetExpr("updated_at", "NOW()").
		SetExpr("version", "version + 1").
		Where(
			qb.Eq("public_id", playerID),
			qb.Eq("version", version),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build soft delete player query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("soft delete player: %w", err)
	}
	return r.versionedOutcome(ctx, result, playerID, false)
}

func (r *PlayerRepository) Restore(ctx context.Context, playerID string, version int64) error {
	query, args, err := qb.Update("players").
		SetExpr("deleted_at", "NULL").
		SetExpr("updated_at", "NOW()").
		SetExpr("version", "version + 1").
		Where(
			qb.Eq("public_id", playerID),
			qb.Eq("version", version),
			qb.Expr("deleted_at IS NOT NULL"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build restore player query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("restore player: %w", err)
	}
	return r.versionedOutcome(ctx, result, playerID, true)
}

// versionedOutcome disambiguates a zero-row guarded update: the row is
// either gone or the caller observed a stale version.
func (r *PlayerRepository) versionedOutcome(ctx context.Context, result sql.Result, playerID string, wantDeleted bool) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("player rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	query, args, err := qb.Select("1").From("players").
		Where(
			qb.Eq("public_id", playerID),
			qb.Expr(deletedStateExpr(wantDeleted)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build player existence query: %w", err)
	}

	var exists int
	if err := r.db.GetContext(ctx, &exists, query, args...); err != nil {
		if isNotFound(err) {
			return player.ErrNotFound
		}
		return fmt.Errorf("check player existence: %w", err)
	}
	return player.ErrVersionConflict
}

func deletedStateExpr(wantDeleted bool) string {
	if wantDeleted {
		return "deleted_at IS NOT NULL"
	}
	return "deleted_at IS NULL"
}
