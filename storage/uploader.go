package storage

import (
	"context"
	"io"
)

type UploadResult struct {
	Key      string
	Location string
}

// Uploader publishes objects for external consumers. The engine uses it to
// push JSON draw snapshots that rendering frontends fetch directly.
type Uploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}
