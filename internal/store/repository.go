package store

import (
	"context"
	"errors"

	"github.com/chachabrian/tvdefleet-backend/internal/models"
)

// ErrSnapshotNotFound is returned by Load when nothing was saved under the name yet.
var ErrSnapshotNotFound = errors.New("snapshot not found")

//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mock_store

// SnapshotRepository persists the whole application state as one named document.
type SnapshotRepository interface {
	Load(ctx context.Context, name string) (*models.State, error)
	Save(ctx context.Context, name string, state *models.State) error
}
