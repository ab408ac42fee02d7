package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// Compile-time check that FileSystem implements Storage.
var _ Storage = (*FileSystem)(nil)

// FileSystem implements Storage using the local filesystem.
// Sprites are stored at <basePath>/<kind>/<id>.png.
type FileSystem struct {
	basePath string
}

// NewFileSystem creates a new FileSystem storage rooted at basePath.
func NewFileSystem(basePath string) *FileSystem {
	return &FileSystem{basePath: basePath}
}

// spritePath returns the full path to the sprite of a given kind and id.
func (fs *FileSystem) spritePath(kind string, id int) string {
	return filepath.Join(fs.basePath, kind, strconv.Itoa(id)+".png")
}

// Store writes data to disk using atomic write (temp file + rename).
func (fs *FileSystem) Store(kind string, id int, data io.Reader) (int64, error) {
	dir := filepath.Join(fs.basePath, kind)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	// Write to a temp file in the same directory for atomic rename.
	tmp, err := os.CreateTemp(dir, "sprite-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	// Clean up the temp file on any error path.
	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	n, err := io.Copy(tmp, data)
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("writing data: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("closing temp file: %w", err)
	}

	dst := fs.spritePath(kind, id)
	if err := os.Rename(tmpPath, dst); err != nil {
		return 0, fmt.Errorf("renaming temp file to %s: %w", dst, err)
	}
	// Rename succeeded; prevent deferred cleanup from removing the final file.
	tmpPath = ""

	return n, nil
}

// Retrieve opens the stored sprite. A missing sprite yields ErrNotExist.
func (fs *FileSystem) Retrieve(kind string, id int) (io.ReadCloser, error) {
	path := fs.spritePath(kind, id)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s/%d: %w", kind, id, ErrNotExist)
		}
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	return f, nil
}

// Exists checks whether the sprite file exists on disk.
func (fs *FileSystem) Exists(kind string, id int) (bool, error) {
	path := fs.spritePath(kind, id)
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("checking file %s: %w", path, err)
}
