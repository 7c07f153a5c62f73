package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tonpuu/riichi-league/internal/domain/player"
	idgen "github.com/tonpuu/riichi-league/internal/platform/id"
)

// PlayerService manages the league member registry. Removal is always
// a soft delete so validated games keep resolving their participants.
type PlayerService struct {
	playerRepo player.Repository
	idGen      idgen.Generator
	now        func() time.Time
}

func NewPlayerService(playerRepo player.Repository, idGen idgen.Generator) *PlayerService {
	return &PlayerService{
		playerRepo: playerRepo,
		idGen:      idGen,
		now:        time.Now,
	}
}

type CreatePlayerInput struct {
	DisplayName string
	Country     string
}

func (s *PlayerService) CreatePlayer(ctx context.Context, input CreatePlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.CreatePlayer")
	defer span.End()

	if input.DisplayName == "" {
		return player.Player{}, fmt.Errorf("%w: display name is required", ErrInvalidInput)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return player.Player{}, fmt.Errorf("generate player id: %w", err)
	}
	created, err := s.playerRepo.Create(ctx, player.Player{
		ID:          id,
		DisplayName: input.DisplayName,
		Country:     input.Country,
		IsActive:    true,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return player.Player{}, fmt.Errorf("create player: %w", err)
	}
	return created, nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, playerID string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetPlayer")
	defer span.End()

	if playerID == "" {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	item, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}
	return item, nil
}

func (s *PlayerService) ListPlayers(ctx context.Context) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ListPlayers")
	defer span.End()

	items, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return items, nil
}

func (s *PlayerService) DeletePlayer(ctx context.Context, playerID string, version int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.DeletePlayer")
	defer span.End()

	if playerID == "" {
		return fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	err := s.playerRepo.SoftDelete(ctx, playerID, version)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, player.ErrNotFound):
		return fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	case errors.Is(err, player.ErrVersionConflict):
		return fmt.Errorf("%w: player %s", ErrVersionConflict, playerID)
	default:
		return fmt.Errorf("soft delete player: %w", err)
	}
}

func (s *PlayerService) RestorePlayer(ctx context.Context, playerID string, version int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.RestorePlayer")
	defer span.End()

	if playerID == "" {
		return fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	err := s.playerRepo.Restore(ctx, playerID, version)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, player.ErrNotFound):
		return fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	case errors.Is(err, player.ErrVersionConflict):
		return fmt.Errorf("%w: player %s", ErrVersionConflict, playerID)
	default:
		return fmt.Errorf("restore player: %w", err)
	}
}
