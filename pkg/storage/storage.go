package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a requested object does not exist
	ErrNotFound = errors.New("storage: object not found")
	// ErrExists is returned by Save when the name is already taken
	ErrExists = errors.New("storage: object already exists")
	// ErrInvalidName is returned for names that are empty or contain path separators
	ErrInvalidName = errors.New("storage: invalid object name")
)

// Store persists generated files under flat names
type Store interface {
	// Save writes data under name atomically. It never overwrites an
	// existing object and returns ErrExists instead.
	Save(ctx context.Context, name string, data []byte, contentType string) error
	// Open returns the object body; the caller must close it.
	Open(ctx context.Context, name string) (*Object, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]ObjectInfo, error)
}

// ObjectInfo describes a stored object
type ObjectInfo struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// Object is an opened stored object
type Object struct {
	ObjectInfo
	ContentType string
	Body        io.ReadCloser
}

// Close closes the object body
func (o *Object) Close() error {
	return o.Body.Close()
}

// ValidateName rejects names that could escape the store's namespace
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
