package storage

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNotFound reports a key with no stored object behind it.
	ErrNotFound = errors.New("storage: object not found")

	// ErrWrite reports a persist that could not be completed. For the
	// remote backend this is terminal, after the single transient retry.
	ErrWrite = errors.New("storage: write failed")

	// ErrExists reports a put against a key that already holds an object.
	// The existing object is left untouched; callers pick a new key.
	ErrExists = errors.New("storage: key already exists")

	// ErrBadKey reports a key that is not a plain file name.
	ErrBadKey = errors.New("storage: invalid key")
)

// Storage is the capability set shared by the local and remote backends.
// Keys are opaque to callers; nothing above this interface may branch on
// which variant is active.
type Storage interface {
	// Put persists the object under key with the given content type.
	Put(ctx context.Context, key string, r io.Reader, contentType string) error

	// Get streams the object back, or ErrNotFound.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// URL returns how the object behind key should be exposed to clients.
	URL(key string) string
}
