// Package storage is the object store for uploaded files. Objects live on an
// afero filesystem: a directory on disk in production, memory in tests.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/spf13/afero"
)

var (
	ErrTooLarge    = errors.New("object exceeds size limit")
	ErrInvalidPath = errors.New("invalid object path")
)

type Store struct {
	fs afero.Fs
}

func New(fs afero.Fs) *Store { return &Store{fs: fs} }

// NewDir roots a store at dir, creating it if needed.
func NewDir(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return New(afero.NewBasePathFs(afero.NewOsFs(), dir)), nil
}

// ObjectPath lays objects out as <user>/<unix millis>_<base name>.
func ObjectPath(userID int64, name string, now time.Time) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := path.Base(name)
	if base == "." || base == "/" || base == ".." {
		base = "file"
	}
	return fmt.Sprintf("%d/%d_%s", userID, now.UnixMilli(), base)
}

func clean(p string) (string, error) {
	c := path.Clean(p)
	if p == "" || path.IsAbs(c) || c == ".." || strings.HasPrefix(c, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	return c, nil
}

// Put writes r to p. When limit > 0 and r is longer, nothing is kept and
// ErrTooLarge is returned.
func (s *Store) Put(p string, r io.Reader, limit int64) (int64, error) {
	p, err := clean(p)
	if err != nil {
		return 0, err
	}
	if err := s.fs.MkdirAll(path.Dir(p), 0o755); err != nil {
		return 0, fmt.Errorf("mkdir: %w", err)
	}
	f, err := s.fs.Create(p)
	if err != nil {
		return 0, fmt.Errorf("create object: %w", err)
	}

	src := r
	if limit > 0 {
		src = io.LimitReader(r, limit+1)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && limit > 0 && n > limit {
		err = ErrTooLarge
	}
	if err != nil {
		s.fs.Remove(p)
		return 0, err
	}
	return n, nil
}

func (s *Store) Open(p string) (afero.File, error) {
	p, err := clean(p)
	if err != nil {
		return nil, err
	}
	return s.fs.Open(p)
}

func (s *Store) ReadAll(p string) ([]byte, error) {
	p, err := clean(p)
	if err != nil {
		return nil, err
	}
	return afero.ReadFile(s.fs, p)
}

// Delete removes p; a missing object is not an error.
func (s *Store) Delete(p string) error {
	p, err := clean(p)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
