package usecase

import (
	"context"
	"fmt"

	"github.com/tonpuu/riichi-league/internal/domain/game"
	"github.com/tonpuu/riichi-league/internal/domain/rating"
)

const defaultGameListLimit = 50

// GameService exposes the validated-game archive. Games are written by
// the review flow only; this service is read side.
type GameService struct {
	gameRepo game.Repository
}

func NewGameService(gameRepo game.Repository) *GameService {
	return &GameService{gameRepo: gameRepo}
}

func (s *GameService) ListGames(ctx context.Context, mode rating.Mode, limit int) ([]game.ValidatedGame, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.ListGames")
	defer span.End()

	if !mode.Valid() {
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, string(mode))
	}
	if limit <= 0 {
		limit = defaultGameListLimit
	}

	games, err := s.gameRepo.ListByMode(ctx, mode, limit)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

func (s *GameService) GetGame(ctx context.Context, gameID string) (game.ValidatedGame, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.GetGame")
	defer span.End()

	if gameID == "" {
		return game.ValidatedGame{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	item, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return game.ValidatedGame{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return game.ValidatedGame{}, fmt.Errorf("%w: game %s", ErrNotFound, gameID)
	}
	return item, nil
}
