package service

import (
	"context"
	"errors"
	"strings"

	"github.com/openlearnco/campus/internal/resource/domain"
	"github.com/openlearnco/campus/internal/resource/store"
	"github.com/openlearnco/campus/pkg/idx"
)

const (
	maxDatasetNameLength = 128
	maxDatasetBytes      = 4 << 20 // 4 MiB per dataset keeps rows manageable
)

var (
	ErrDatasetNotFound = errors.New("dataset_not_found")
	ErrInvalidDataset  = errors.New("invalid_dataset")
	ErrDatasetTooLarge = errors.New("dataset_too_large")
)

// DatasetService owns dataset CRUD. Every user-facing operation takes the
// calling user's id and treats other users' datasets as nonexistent rather
// than forbidden, so ids cannot be probed.
type DatasetService struct {
	Store store.Store
}

func (s *DatasetService) Create(ctx context.Context, ownerID int64, name, description, contentType string, content []byte) (domain.Dataset, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxDatasetNameLength {
		return domain.Dataset{}, ErrInvalidDataset
	}
	if len(content) == 0 {
		return domain.Dataset{}, ErrInvalidDataset
	}
	if len(content) > maxDatasetBytes {
		return domain.Dataset{}, ErrDatasetTooLarge
	}
	if contentType == "" {
		contentType = "text/csv"
	}

	d := domain.Dataset{
		ID:          idx.New().String(),
		OwnerID:     ownerID,
		Name:        name,
		Description: strings.TrimSpace(description),
		ContentType: contentType,
		Content:     content,
	}

	if err := s.Store.Datasets().CreateDataset(ctx, d); err != nil {
		return domain.Dataset{}, err
	}
	return s.getOwned(ctx, ownerID, d.ID)
}

// Get returns a dataset with content, but only to its owner.
func (s *DatasetService) Get(ctx context.Context, ownerID int64, id string) (domain.Dataset, error) {
	return s.getOwned(ctx, ownerID, id)
}

func (s *DatasetService) List(ctx context.Context, ownerID int64) ([]domain.Dataset, error) {
	return s.Store.Datasets().ListDatasetsByOwner(ctx, ownerID)
}

func (s *DatasetService) Update(ctx context.Context, ownerID int64, id, name, description string, content []byte) (domain.Dataset, error) {
	existing, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return domain.Dataset{}, err
	}

	if name = strings.TrimSpace(name); name != "" {
		if len(name) > maxDatasetNameLength {
			return domain.Dataset{}, ErrInvalidDataset
		}
		existing.Name = name
	}
	if description != "" {
		existing.Description = strings.TrimSpace(description)
	}
	if len(content) > 0 {
		if len(content) > maxDatasetBytes {
			return domain.Dataset{}, ErrDatasetTooLarge
		}
		existing.Content = content
	}

	if err := s.Store.Datasets().UpdateDataset(ctx, existing); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Dataset{}, ErrDatasetNotFound
		}
		return domain.Dataset{}, err
	}
	return s.getOwned(ctx, ownerID, id)
}

func (s *DatasetService) Delete(ctx context.Context, ownerID int64, id string) error {
	if _, err := s.getOwned(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.Store.Datasets().DeleteDataset(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrDatasetNotFound
		}
		return err
	}
	return nil
}

// GetContent serves the internal content endpoint. The caller is another
// service that authenticated with the shared internal secret, so there is
// no owner check here.
func (s *DatasetService) GetContent(ctx context.Context, id string) (domain.Dataset, error) {
	d, err := s.Store.Datasets().GetDataset(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Dataset{}, ErrDatasetNotFound
		}
		return domain.Dataset{}, err
	}
	return d, nil
}

func (s *DatasetService) getOwned(ctx context.Context, ownerID int64, id string) (domain.Dataset, error) {
	d, err := s.Store.Datasets().GetDataset(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Dataset{}, ErrDatasetNotFound
		}
		return domain.Dataset{}, err
	}
	if d.OwnerID != ownerID {
		// Someone else's dataset looks exactly like a missing one.
		return domain.Dataset{}, ErrDatasetNotFound
	}
	return d, nil
}
