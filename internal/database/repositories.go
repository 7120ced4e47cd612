package database

import (
	"context"

	"github.com/cfbdemic/allies/internal/models"
)

// PlayerRepositoryInterface defines the interface for player repository
// operations. This interface enables mock implementations in handler tests.
type PlayerRepositoryInterface interface {
	ResolveOrCreate(ctx context.Context, name string) (*models.Player, error)
}

// Ensure the concrete type implements the interface
var _ PlayerRepositoryInterface = (*PlayerRepository)(nil)
