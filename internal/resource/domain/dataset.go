package domain

import "time"

// Dataset is a file a user has uploaded for their experiments. Content is
// stored inline; datasets are small CSV or JSON files, not blobs.
type Dataset struct {
	ID          string // ULID
	OwnerID     int64  // user id from the access token, never a local FK
	Name        string
	Description string
	ContentType string
	Content     []byte
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
