package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/tonpuu/riichi-league/internal/domain/season"
	qb "github.com/tonpuu/riichi-league/internal/platform/querybuilder"
)

type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

type seasonTableRowModel struct {
	ID        int64        `db:"id"`
	PublicID  string       `db:"public_id"`
	Name      string       `db:"name"`
	StartsAt  time.Time    `db:"starts_at"`
	EndsAt    sql.NullTime `db:"ends_at"`
	CreatedAt time.Time    `db:"created_at"`
	DeletedAt *time.Time   `db:"deleted_at"`
}

func seasonFromRow(row seasonTableRowModel) season.Season {
	item := season.Season{
		ID:        row.PublicID,
		Name:      row.Name,
		StartsAt:  row.StartsAt,
		CreatedAt: row.CreatedAt,
		DeletedAt: row.DeletedAt,
	}
	if row.EndsAt.Valid {
		item.EndsAt = row.EndsAt.Time
	}
	return item
}

func (r *SeasonRepository) Create(ctx context.Context, item season.Season) (season.Season, error) {
	var endsAt any
	if !item.EndsAt.IsZero() {
		endsAt = item.EndsAt
	}

	query, args, err := qb.InsertInto("seasons").
		Columns("public_id", "name", "starts_at", "ends_at").
		Values(item.ID, item.Name, item.StartsAt, endsAt).
		Suffix("RETURNING created_at").
		ToSQL()
	if err != nil {
		return season.Season{}, fmt.Errorf("build insert season query: %w", err)
	}

	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&item.CreatedAt); err != nil {
		return season.Season{}, fmt.Errorf("insert season: %w", err)
	}
	return item, nil
}

func (r *SeasonRepository) List(ctx context.Context) ([]season.Season, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(qb.IsNull("deleted_at")).
		OrderBy("starts_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list seasons query: %w", err)
	}

	var rows []seasonTableRowModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}

	out := make([]season.Season, 0, len(rows))
	for _, row := range rows {
		out = append(out, seasonFromRow(row))
	}
	return out, nil
}

func (r *SeasonRepository) FindAt(ctx context.Context, at time.Time) (season.Season, bool, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(
			qb.IsNull("deleted_at"),
			qb.Expr("starts_at <= ?", at),
			qb.Expr("(ends_at IS NULL OR ends_at > ?)", at),
		).
		OrderBy("starts_at DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return season.Season{}, false, fmt.Errorf("build find season query: %w", err)
	}

	var row seasonTableRowModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return season.Season{}, false, nil
		}
		return season.Season{}, false, fmt.Errorf("find season: %w", err)
	}
	return seasonFromRow(row), true, nil
}
