// Package storage is the object-storage collaborator: handlers hand it a
// local temp file and get back a public URL plus a key they can later delete.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Object describes a stored asset.
type Object struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Store uploads local files and deletes stored objects by key.
type Store interface {
	Upload(ctx context.Context, localPath, contentType string) (*Object, error)
	Delete(ctx context.Context, key string) error
}

// randomKey builds a date-partitioned object key, e.g.
// media/2026/8/31/8b0c...d1.mp4.
func randomKey(ext string) string {
	d := time.Now()
	return fmt.Sprintf("media/%d/%d/%d/%v%s", d.Year(), int(d.Month()), d.Day(), uuid.New(), ext)
}
