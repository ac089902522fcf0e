package storage

import (
	"context"
	"errors"
	"io"

	"stuf-api/internal/domain/file"
)

// ErrObjectNotFound reports a missing storage key. Implementations
// wrap it so callers can test with errors.Is; use cases translate it
// into the domain not-found error.
var ErrObjectNotFound = errors.New("object not found")

// Repository is the storage abstraction every use case delegates to.
type Repository interface {
	// Store uploads content under the file's storage key with its
	// metadata and content type.
	Store(ctx context.Context, content io.Reader, f *file.File) error
	// Retrieve fetches an object's content and reconstructed File
	// record; a missing key wraps ErrObjectNotFound.
	Retrieve(ctx context.Context, objectName string) ([]byte, *file.File, error)
	// ListCollection lists every object under the collection prefix.
	ListCollection(ctx context.Context, collection string) ([]*file.File, error)
	// Delete removes an object; a missing key wraps ErrObjectNotFound.
	Delete(ctx context.Context, objectName string) error
	// Exists reports whether the storage key is present.
	Exists(ctx context.Context, objectName string) (bool, error)
}
