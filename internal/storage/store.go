package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	defaultExtension = ".bin"
	maxExtensionLen  = 16
)

var (
	ErrMissing     = errors.New("stored file missing")
	ErrInvalidName = errors.New("invalid stored name")
)

// Store keeps one opaque-named file per record in a flat directory.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return &Store{dir: abs}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// StoredName returns a random file name that keeps only the extension of originalName.
func StoredName(originalName string) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	return token + safeExtension(originalName)
}

func safeExtension(name string) string {
	idx := strings.LastIndexAny(name, `./\`)
	if idx < 0 || name[idx] != '.' {
		return defaultExtension
	}
	ext := name[idx+1:]
	if len(ext) == 0 || len(ext) > maxExtensionLen {
		return defaultExtension
	}
	for _, r := range ext {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !isAlnum {
			return defaultExtension
		}
	}
	return "." + ext
}

// Path resolves a stored name inside the storage directory.
func (s *Store) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return "", ErrInvalidName
	}
	return filepath.Join(s.dir, name), nil
}

// Write creates name and writes all of data to it. Existing files are never overwritten.
func (s *Store) Write(name string, data []byte) (int64, error) {
	path, err := s.Path(name)
	if err != nil {
		return 0, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open file: %w", err)
	}

	n, err := f.Write(data)
	if err != nil {
		f.Close()
		return int64(n), fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return int64(n), fmt.Errorf("close file: %w", err)
	}
	return int64(n), nil
}

// Open returns the stored file, or ErrMissing when it is gone from disk.
func (s *Store) Open(name string) (*os.File, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrMissing
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Store) Remove(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
