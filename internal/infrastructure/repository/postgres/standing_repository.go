package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/tonpuu/riichi-league/internal/domain/rating"
	"github.com/tonpuu/riichi-league/internal/domain/standing"
	qb "github.com/tonpuu/riichi-league/internal/platform/querybuilder"
)

type StandingRepository struct {
	db *sqlx.DB
}

func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

func (r *StandingRepository) GetByPlayer(ctx context.Context, playerID string, mode rating.Mode) (standing.PlayerStanding, bool, error) {
	query, args, err := qb.Select("*").From("player_standings").
		Where(
			qb.Eq("player_public_id", playerID),
			qb.Eq("mode", string(mode)),
		).
		ToSQL()
	if err != nil {
		return standing.PlayerStanding{}, false, fmt.Errorf("build get standing query: %w", err)
	}

	var row standingTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return standing.PlayerStanding{}, false, nil
		}
		return standing.PlayerStanding{}, false, fmt.Errorf("get standing: %w", err)
	}

	return standingFromRow(row), true, nil
}

func (r *StandingRepository) ListByMode(ctx context.Context, mode rating.Mode, activeOnly bool) ([]standing.PlayerStanding, error) {
	builder := qb.Select("s.*").From("player_standings s").
		Where(qb.Eq("s.mode", string(mode)))
	if activeOnly {
		builder = builder.Where(qb.Expr(
			"EXISTS (SELECT 1 FROM players p WHERE p.public_id = s.player_public_id AND p.is_active AND p.deleted_at IS NULL)",
		))
	}
	query, args, err := builder.OrderBy("s.id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list standings query: %w", err)
	}

	var rows []standingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list standings by mode: %w", err)
	}

	out := make([]standing.PlayerStanding, 0, len(rows))
	for _, row := range rows {
		out = append(out, standingFromRow(row))
	}
	return out, nil
}

func (r *StandingRepository) UpdateWithVersion(ctx context.Context, item standing.PlayerStanding) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for standing update: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := writeStanding(ctx, tx, item); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit standing update: %w", err)
	}
	return nil
}

func (r *StandingRepository) ReplaceByMode(ctx context.Context, mode rating.Mode, items []standing.PlayerStanding) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for standing replace: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM player_standings WHERE mode = $1", string(mode)); err != nil {
		return fmt.Errorf("clear standings for mode: %w", err)
	}

	if len(items) > 0 {
		builder := qb.InsertInto("player_standings").
			Columns(
				"player_public_id", "mode", "tier_score", "rate_score", "season_score",
				"game_count", "season_game_count", "version",
			)
		for _, item := range items {
			builder = builder.Values(
				item.PlayerID, string(mode), item.TierScore, item.RateScore, item.SeasonScore,
				item.GameCount, item.SeasonGameCount, 1,
			)
		}
		query, args, err := builder.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert standings query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert replacement standings: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit standing replace: %w", err)
	}
	return nil
}
