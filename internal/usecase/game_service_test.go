package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tonpuu/riichi-league/internal/domain/game"
	"github.com/tonpuu/riichi-league/internal/domain/rating"
)

type staticGameRepo struct {
	items []game.ValidatedGame
}

func (r *staticGameRepo) GetByID(_ context.Context, gameID string) (game.ValidatedGame, bool, error) {
	for _, item := range r.items {
		if item.ID == gameID {
			return item, true, nil
		}
	}
	return game.ValidatedGame{}, false, nil
}

func (r *staticGameRepo) ListByMode(_ context.Context, mode rating.Mode, limit int) ([]game.ValidatedGame, error) {
	out := make([]game.ValidatedGame, 0, len(r.items))
	for _, item := range r.items {
		if item.Mode != mode {
			continue
		}
		out = append(out, item)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *staticGameRepo) ListByModeInQueueOrder(_ context.Context, mode rating.Mode) ([]game.ValidatedGame, error) {
	return r.ListByMode(context.Background(), mode, 0)
}

func TestGameService_ListGames(t *testing.T) {
	t.Parallel()

	repo := &staticGameRepo{items: []game.ValidatedGame{
		{ID: "g1", Mode: rating.ModeYonma, GameDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "g2", Mode: rating.ModeSanma, GameDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{ID: "g3", Mode: rating.ModeYonma, GameDate: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)},
	}}
	service := NewGameService(repo)

	games, err := service.ListGames(t.Context(), rating.ModeYonma, 0)
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("unexpected game count: got=%d want=2", len(games))
	}

	games, err = service.ListGames(t.Context(), rating.ModeYonma, 1)
	if err != nil {
		t.Fatalf("list games with limit: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("unexpected limited game count: got=%d want=1", len(games))
	}
}

func TestGameService_ListGames_RejectsUnknownMode(t *testing.T) {
	t.Parallel()

	service := NewGameService(&staticGameRepo{})
	_, err := service.ListGames(t.Context(), rating.Mode("2p"), 0)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestGameService_GetGame(t *testing.T) {
	t.Parallel()

	repo := &staticGameRepo{items: []game.ValidatedGame{{ID: "g1", Mode: rating.ModeYonma}}}
	service := NewGameService(repo)

	item, err := service.GetGame(t.Context(), "g1")
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if item.ID != "g1" {
		t.Fatalf("unexpected game id: %s", item.ID)
	}

	_, err = service.GetGame(t.Context(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
