package player

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("player not found")
	ErrVersionConflict = errors.New("player row version has advanced")
)

type Repository interface {
	Create(ctx context.Context, item Player) (Player, error)
	GetByID(ctx context.Context, playerID string) (Player, bool, error)
	List(ctx context.Context) ([]Player, error)
	SoftDelete(ctx context.Context, playerID string, version int64) error
	Restore(ctx context.Context, playerID string, version int64) error
}
