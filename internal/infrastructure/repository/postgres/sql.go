package postgres

import (
	"context"
	"database/sql"
	"errors"

	qb "github.com/tonpuu/riichi-league/internal/platform/querybuilder"
	"github.com/tonpuu/riichi-league/internal/platform/visibility"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func nullInt(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}

func nullString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

// visibleWhere appends the soft-delete filter unless the request runs
// with deleted rows in scope.
func visibleWhere(ctx context.Context, conditions ...qb.Condition) []qb.Condition {
	if visibility.IncludeDeleted(ctx) {
		return conditions
	}
	return append(conditions, qb.IsNull("deleted_at"))
}
