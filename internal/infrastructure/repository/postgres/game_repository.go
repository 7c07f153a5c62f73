package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/tonpuu/riichi-league/internal/domain/game"
	"github.com/tonpuu/riichi-league/internal/domain/rating"
	qb "github.com/tonpuu/riichi-league/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.ValidatedGame, bool, error) {
	query, args, err := qb.Select("*").From("validated_games").
		Where(visibleWhere(ctx, qb.Eq("public_id", gameID))...).
		ToSQL()
	if err != nil {
		return game.ValidatedGame{}, false, fmt.Errorf("build get game query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.ValidatedGame{}, false, nil
		}
		return game.ValidatedGame{}, false, fmt.Errorf("get game: %w", err)
	}

	item, err := gameFromRow(row)
	if err != nil {
		return game.ValidatedGame{}, false, err
	}
	return item, true, nil
}

func (r *GameRepository) ListByMode(ctx context.Context, mode rating.Mode, limit int) ([]game.ValidatedGame, error) {
	builder := qb.Select("*").From("validated_games").
		Where(visibleWhere(ctx, qb.Eq("mode", string(mode)))...).
		OrderBy("id DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list games query: %w", err)
	}

	return r.selectGames(ctx, query, args)
}

func (r *GameRepository) ListByModeInQueueOrder(ctx context.Context, mode rating.Mode) ([]game.ValidatedGame, error) {
	// Rows are inserted in approval order, so the serial id is the
	// replay order.
	query, args, err := qb.Select("*").From("validated_games").
		Where(visibleWhere(ctx, qb.Eq("mode", string(mode)))...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list games in queue order query: %w", err)
	}

	return r.selectGames(ctx, query, args)
}

func (r *GameRepository) selectGames(ctx context.Context, query string, args []any) ([]game.ValidatedGame, error) {
	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	out := make([]game.ValidatedGame, 0, len(rows))
	for _, row := range rows {
		item, err := gameFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// insertValidatedGame runs inside the approve transaction.
func insertValidatedGame(ctx context.Context, tx *sqlx.Tx, item game.ValidatedGame) error {
	results, err := encodeOutcomes(item.Results)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertModel("validated_games", gameInsertModel{
		PublicID:       item.ID,
		SubmissionID:   item.SubmissionID,
		GameDate:       item.GameDate,
		SequenceNumber: nullInt(item.SequenceNumber),
		Mode:           string(item.Mode),
		Length:         string(item.Length),
		SeasonID:       nullString(item.SeasonID),
		Results:        results,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert game query: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert validated game: %w", err)
	}
	return nil
}
