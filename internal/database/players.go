package database

import (
	"context"
	"fmt"

	"github.com/cfbdemic/allies/internal/models"
)

// PlayerRepository handles player database operations
type PlayerRepository struct {
	db *DB
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// ResolveOrCreate returns the player with the given name, inserting a new row
// on first login. The no-op ON CONFLICT update makes RETURNING yield the
// existing id, so two concurrent first logins for the same name settle on a
// single row without any caller-side locking.
func (r *PlayerRepository) ResolveOrCreate(ctx context.Context, name string) (*models.Player, error) {
	query := `
		INSERT INTO player (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name
	`

	player := &models.Player{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(&player.ID, &player.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve player %q: %w", name, err)
	}

	return player, nil
}
