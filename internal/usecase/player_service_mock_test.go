package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/tonpuu/riichi-league/internal/domain/player"
)

type playerRepoMock struct {
	mock.Mock
}

func (m *playerRepoMock) Create(ctx context.Context, item player.Player) (player.Player, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(player.Player), args.Error(1)
}

func (m *playerRepoMock) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	args := m.Called(ctx, playerID)
	return args.Get(0).(player.Player), args.Bool(1), args.Error(2)
}

func (m *playerRepoMock) List(ctx context.Context) ([]player.Player, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]player.Player)
	return items, args.Error(1)
}

func (m *playerRepoMock) SoftDelete(ctx context.Context, playerID string, version int64) error {
	args := m.Called(ctx, playerID, version)
	return args.Error(0)
}

func (m *playerRepoMock) Restore(ctx context.Context, playerID string, version int64) error {
	args := m.Called(ctx, playerID, version)
	return args.Error(0)
}

type fixedIDGenerator struct {
	id string
}

func (g fixedIDGenerator) NewID() (string, error) {
	return g.id, nil
}

func TestPlayerService_CreatePlayer_PersistsActivePlayer(t *testing.T) {
	t.Parallel()

	repo := &playerRepoMock{}
	service := NewPlayerService(repo, fixedIDGenerator{id: "p-001"})
	service.now = func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}

	repo.
		On("Create", mock.Anything, mock.MatchedBy(func(item player.Player) bool {
			return item.ID == "p-001" && item.DisplayName == "Tsumogiri" && item.Country == "JP" && item.IsActive
		})).
		Return(player.Player{
			ID:          "p-001",
			DisplayName: "Tsumogiri",
			Country:     "JP",
			IsActive:    true,
			Version:     1,
		}, nil).
		Once()

	created, err := service.CreatePlayer(context.Background(), CreatePlayerInput{
		DisplayName: "Tsumogiri",
		Country:     "JP",
	})
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	if created.ID != "p-001" {
		t.Fatalf("unexpected player id: got=%s want=p-001", created.ID)
	}
	if created.Version != 1 {
		t.Fatalf("unexpected player version: got=%d want=1", created.Version)
	}
	repo.AssertExpectations(t)
}

func TestPlayerService_CreatePlayer_RejectsEmptyDisplayName(t *testing.T) {
	t.Parallel()

	repo := &playerRepoMock{}
	service := NewPlayerService(repo, fixedIDGenerator{id: "p-002"})

	_, err := service.CreatePlayer(context.Background(), CreatePlayerInput{DisplayName: ""})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPlayerService_GetPlayer_NotFound(t *testing.T) {
	t.Parallel()

	repo := &playerRepoMock{}
	service := NewPlayerService(repo, fixedIDGenerator{id: "p-003"})

	repo.
		On("GetByID", mock.Anything, "missing").
		Return(player.Player{}, false, nil).
		Once()

	_, err := service.GetPlayer(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	repo.AssertExpectations(t)
}

func TestPlayerService_DeletePlayer_VersionConflict(t *testing.T) {
	t.Parallel()

	repo := &playerRepoMock{}
	service := NewPlayerService(repo, fixedIDGenerator{id: "p-004"})

	repo.
		On("SoftDelete", mock.Anything, "p-004", int64(2)).
		Return(player.ErrVersionConflict).
		Once()

	err := service.DeletePlayer(context.Background(), "p-004", 2)
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
	repo.AssertExpectations(t)
}

func TestPlayerService_RestorePlayer_Restores(t *testing.T) {
	t.Parallel()

	repo := &playerRepoMock{}
	service := NewPlayerService(repo, fixedIDGenerator{id: "p-005"})

	repo.
		On("Restore", mock.Anything, "p-005", int64(3)).
		Return(nil).
		Once()

	if err := service.RestorePlayer(context.Background(), "p-005", 3); err != nil {
		t.Fatalf("restore player: %v", err)
	}
	repo.AssertExpectations(t)
}
