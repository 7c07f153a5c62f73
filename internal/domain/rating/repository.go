package rating

import "context"

type Repository interface {
	GetTableSet(ctx context.Context, mode Mode) (TableSet, error)
	ReplaceTierTable(ctx context.Context, table TierTable) error
	ReplaceRateTable(ctx context.Context, table RateTable) error
	ReplaceScoringTable(ctx context.Context, table ScoringTable) error
	ReplaceSeasonTables(ctx context.Context, mode Mode, tables []SeasonTable) error
}
