package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/tonpuu/riichi-league/internal/domain/rating"
	qb "github.com/tonpuu/riichi-league/internal/platform/querybuilder"
)

// RatingRepository stores the per-mode configuration tables. Missing
// rows fall back to the built-in defaults so a fresh database serves
// rankings without any seeding step.
type RatingRepository struct {
	db *sqlx.DB
}

func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) GetTableSet(ctx context.Context, mode rating.Mode) (rating.TableSet, error) {
	set := rating.DefaultTables(mode)

	tier, found, err := r.tierTable(ctx, mode)
	if err != nil {
		return rating.TableSet{}, err
	}
	if found {
		set.Tier = tier
	}

	rate, found, err := r.rateTable(ctx, mode)
	if err != nil {
		return rating.TableSet{}, err
	}
	if found {
		set.Rate = rate
	}

	scoring, found, err := r.scoringTable(ctx, mode)
	if err != nil {
		return rating.TableSet{}, err
	}
	if found {
		set.Scoring = scoring
	}

	seasons, err := r.seasonTables(ctx, mode)
	if err != nil {
		return rating.TableSet{}, err
	}
	if len(seasons) > 0 {
		set.Seasons = seasons
	}

	return set, nil
}

func (r *RatingRepository) tierTable(ctx context.Context, mode rating.Mode) (rating.TierTable, bool, error) {
	query, args, err := qb.Select("*").From("tier_tables").
		Where(qb.Eq("mode", string(mode))).
		ToSQL()
	if err != nil {
		return rating.TierTable{}, false, fmt.Errorf("build tier table query: %w", err)
	}

	var row tierTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return rating.TierTable{}, false, nil
		}
		return rating.TierTable{}, false, fmt.Errorf("get tier table: %w", err)
	}

	table, err := tierTableFromRow(row)
	if err != nil {
		return rating.TierTable{}, false, err
	}
	return table, true, nil
}

func (r *RatingRepository) rateTable(ctx context.Context, mode rating.Mode) (rating.RateTable, bool, error) {
	query, args, err := qb.Select("*").From("rate_tables").
		Where(qb.Eq("mode", string(mode))).
		ToSQL()
	if err != nil {
		return rating.RateTable{}, false, fmt.Errorf("build rate table query: %w", err)
	}

	var row rateTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return rating.RateTable{}, false, nil
		}
		return rating.RateTable{}, false, fmt.Errorf("get rate table: %w", err)
	}

	table, err := rateTableFromRow(row)
	if err != nil {
		return rating.RateTable{}, false, err
	}
	return table, true, nil
}

func (r *RatingRepository) scoringTable(ctx context.Context, mode rating.Mode) (rating.ScoringTable, bool, error) {
	query, args, err := qb.Select("*").From("scoring_tables").
		Where(qb.Eq("mode", string(mode))).
		ToSQL()
	if err != nil {
		return rating.ScoringTable{}, false, fmt.Errorf("build scoring table query: %w", err)
	}

	var row scoringTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return rating.ScoringTable{}, false, nil
		}
		return rating.ScoringTable{}, false, fmt.Errorf("get scoring table: %w", err)
	}

	table, err := scoringTableFromRow(row)
	if err != nil {
		return rating.ScoringTable{}, false, err
	}
	return table, true, nil
}

func (r *RatingRepository) seasonTables(ctx context.Context, mode rating.Mode) ([]rating.SeasonTable, error) {
	query, args, err := qb.Select("*").From("season_award_tables").
		Where(qb.Eq("mode", string(mode))).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build season tables query: %w", err)
	}

	var rows []seasonAwardTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list season tables: %w", err)
	}

	tables := make([]rating.SeasonTable, 0, len(rows))
	for _, row := range rows {
		table, err := seasonTableFromRow(row)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

func (r *RatingRepository) ReplaceTierTable(ctx context.Context, table rating.TierTable) error {
	bands, err := encodeTierBands(table.Bands)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertInto("tier_tables").
		Columns("mode", "bands").
		Values(string(table.Mode), bands).
		Suffix("ON CONFLICT (mode) DO UPDATE SET bands = EXCLUDED.bands, updated_at = NOW()").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert tier table query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert tier table: %w", err)
	}
	return nil
}

func (r *RatingRepository) ReplaceRateTable(ctx context.Context, table rating.RateTable) error {
	awards, err := encodeFloatAwards(table.PositionAwards)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertInto("rate_tables").
		Columns(
			"mode", "name", "position_awards", "adjustment_rate",
			"adjustment_cap", "min_adjustment", "starting_rate",
		).
		Values(
			string(table.Mode), table.Name, awards, table.AdjustmentRate,
			table.AdjustmentCap, table.MinAdjustment, table.StartingRate,
		).
		Suffix(`ON CONFLICT (mode) DO UPDATE SET
			name = EXCLUDED.name,
			position_awards = EXCLUDED.position_awards,
			adjustment_rate = EXCLUDED.adjustment_rate,
			adjustment_cap = EXCLUDED.adjustment_cap,
			min_adjustment = EXCLUDED.min_adjustment,
			starting_rate = EXCLUDED.starting_rate,
			updated_at = NOW()`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert rate table query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert rate table: %w", err)
	}
	return nil
}

func (r *RatingRepository) ReplaceScoringTable(ctx context.Context, table rating.ScoringTable) error {
	uma, err := encodeFloatAwards(table.Uma)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertInto("scoring_tables").
		Columns(
			"mode", "name", "uma", "oka", "chonbo_penalty",
			"chonbo_score_deduction", "starting_points", "return_points",
		).
		Values(
			string(table.Mode), table.Name, uma, table.Oka, table.ChonboPenalty,
			table.ChonboScoreDeduction, table.StartingPoints, table.ReturnPoints,
		).
		Suffix(`ON CONFLICT (mode) DO UPDATE SET
			name = EXCLUDED.name,
			uma = EXCLUDED.uma,
			oka = EXCLUDED.oka,
			chonbo_penalty = EXCLUDED.chonbo_penalty,
			chonbo_score_deduction = EXCLUDED.chonbo_score_deduction,
			starting_points = EXCLUDED.starting_points,
			return_points = EXCLUDED.return_points,
			updated_at = NOW()`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert scoring table query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert scoring table: %w", err)
	}
	return nil
}

func (r *RatingRepository) ReplaceSeasonTables(ctx context.Context, mode rating.Mode, tables []rating.SeasonTable) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for season tables: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM season_award_tables WHERE mode = $1", string(mode)); err != nil {
		return fmt.Errorf("clear season tables: %w", err)
	}

	if len(tables) > 0 {
		builder := qb.InsertInto("season_award_tables").
			Columns("mode", "season_public_id", "name", "is_default", "position_awards")
		for _, table := range tables {
			awards, err := encodeIntAwards(table.PositionAwards)
			if err != nil {
				return err
			}
			builder = builder.Values(
				string(mode), nullableString(table.SeasonID), table.Name, table.IsDefault, awards,
			)
		}
		query, args, err := builder.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert season tables query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert season tables: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit season tables: %w", err)
	}
	return nil
}
