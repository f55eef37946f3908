package session

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const defaultFilePrefix = "session_"

// FileStore keeps one file per session inside a directory.
// The file name is the prefix followed by the session id and the content
// is the gob-encoded bag.
type FileStore struct {
	dir    string
	prefix string
	mode   fs.FileMode
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithFilePrefix sets the file name prefix. Defaults to "session_".
func WithFilePrefix(prefix string) FileOption {
	return func(s *FileStore) {
		s.prefix = prefix
	}
}

// WithFileMode sets the permission bits of session files. Defaults to 0600.
func WithFileMode(mode fs.FileMode) FileOption {
	return func(s *FileStore) {
		if mode != 0 {
			s.mode = mode
		}
	}
}

// NewFileStore creates a store rooted at dir, creating the directory if needed.
// There is no default location; an empty dir returns ErrNoDirectory.
func NewFileStore(dir string, opts ...FileOption) (*FileStore, error) {
	if dir == "" {
		return nil, ErrNoDirectory
	}

	s := &FileStore{
		dir:    dir,
		prefix: defaultFilePrefix,
		mode:   0o600,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir returns the storage directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Create touches the session file without altering existing content.
func (s *FileStore) Create(_ context.Context, id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, s.mode)
	if err != nil {
		return err
	}
	return f.Close()
}

// Load reads and decodes the session file.
func (s *FileStore) Load(_ context.Context, id string) (Values, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decode(data)
}

// Save rewrites the whole session file.
// The bag is written to a temporary file first and renamed into place,
// so readers never see a partial record.
func (s *FileStore) Save(_ context.Context, id string, v Values) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	data, err := encode(v)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-"+s.prefix+"*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, s.mode); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

// Sweep removes session files whose modification time is before the cutoff.
func (s *FileStore) Sweep(ctx context.Context, before time.Time) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if e.IsDir() || !strings.HasPrefix(e.Name(), s.prefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(before) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (s *FileStore) path(id string) (string, error) {
	if !ValidID(id) {
		return "", ErrInvalidID
	}
	return filepath.Join(s.dir, s.prefix+id), nil
}

var (
	_ Store     = (*FileStore)(nil)
	_ Sweepable = (*FileStore)(nil)
)
