package postgres

import (
	"time"

	"github.com/tonpuu/riichi-league/internal/domain/player"
)

type playerTableModel struct {
	ID          int64      `db:"id"`
	PublicID    string     `db:"public_id"`
	DisplayName string     `db:"display_name"`
	CountryCode string     `db:"country_code"`
	IsActive    bool       `db:"is_active"`
	Version     int64      `db:"version"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

func playerFromRow(row playerTableModel) player.Player {
	return player.Player{
		ID:          row.PublicID,
		DisplayName: row.DisplayName,
		Country:     row.CountryCode,
		IsActive:    row.IsActive,
		Version:     row.Version,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		DeletedAt:   row.DeletedAt,
	}
}
