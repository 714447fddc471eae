package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openlearnco/campus/internal/resource/domain"
	"github.com/openlearnco/campus/internal/resource/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestCreateDatasetDuplicateID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	d := domain.Dataset{
		ID:          "01J0000000000000000000TEST",
		OwnerID:     1,
		Name:        "readings",
		ContentType: "text/csv",
		Content:     []byte("a,b\n1,2\n"),
	}

	require.NoError(t, s.Datasets().CreateDataset(ctx, d))

	// A primary-key collision must map to the store sentinel via the
	// driver's typed error codes.
	err := s.Datasets().CreateDataset(ctx, d)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}
