package storage

import (
	"errors"
	"io"
)

// ErrNotExist is returned by Retrieve when no sprite is stored.
var ErrNotExist = errors.New("sprite not stored")

// Storage defines the interface for rendered sprite storage.
type Storage interface {
	// Store writes sprite data and returns the number of bytes written.
	Store(kind string, id int, data io.Reader) (int64, error)

	// Retrieve returns a ReadCloser for the stored sprite.
	Retrieve(kind string, id int) (io.ReadCloser, error)

	// Exists checks whether a sprite is stored.
	Exists(kind string, id int) (bool, error)
}
