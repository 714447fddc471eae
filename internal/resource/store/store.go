package store

import (
	"context"
	"errors"

	"github.com/openlearnco/campus/internal/resource/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the resource service's root data access interface.
type Store interface {
	Datasets() Datasets

	ApplyMigrations() error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Datasets interface {
	CreateDataset(ctx context.Context, d domain.Dataset) error

	// GetDataset fetches a dataset regardless of owner. Ownership checks
	// belong to the service layer.
	GetDataset(ctx context.Context, id string) (domain.Dataset, error)

	// ListDatasetsByOwner returns metadata only; Content is left nil.
	ListDatasetsByOwner(ctx context.Context, ownerID int64) ([]domain.Dataset, error)

	UpdateDataset(ctx context.Context, d domain.Dataset) error

	DeleteDataset(ctx context.Context, id string) error
}
