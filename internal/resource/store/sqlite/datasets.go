package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/openlearnco/campus/internal/resource/domain"
	"github.com/openlearnco/campus/internal/resource/store"
)

type datasetsRepo struct {
	db *sql.DB
}

func (r *datasetsRepo) CreateDataset(ctx context.Context, d domain.Dataset) error {
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO datasets (id, owner_id, name, description, content_type, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, d.ID, d.OwnerID, d.Name, d.Description, d.ContentType, d.Content, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *datasetsRepo) GetDataset(ctx context.Context, id string) (domain.Dataset, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, description, content_type, content, created_at, updated_at
		FROM datasets WHERE id = ?
	`, id)

	var d domain.Dataset
	err := row.Scan(
		&d.ID,
		&d.OwnerID,
		&d.Name,
		&d.Description,
		&d.ContentType,
		&d.Content,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return domain.Dataset{}, mapNotFound(err)
	}
	return d, nil
}

func (r *datasetsRepo) ListDatasetsByOwner(ctx context.Context, ownerID int64) ([]domain.Dataset, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, name, description, content_type, created_at, updated_at
		FROM datasets WHERE owner_id = ?
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Dataset
	for rows.Next() {
		var d domain.Dataset
		if err := rows.Scan(
			&d.ID,
			&d.OwnerID,
			&d.Name,
			&d.Description,
			&d.ContentType,
			&d.CreatedAt,
			&d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *datasetsRepo) UpdateDataset(ctx context.Context, d domain.Dataset) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE datasets
		SET name = ?, description = ?, content_type = ?, content = ?, updated_at = ?
		WHERE id = ?
	`, d.Name, d.Description, d.ContentType, d.Content, time.Now().UTC(), d.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *datasetsRepo) DeleteDataset(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
