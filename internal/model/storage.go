package model

import (
	"context"
	"io"
)

// Storage is the object store the rendered authorized_keys files are
// published to for the SFTP frontends.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
