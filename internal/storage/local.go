package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot is returned for keys or URLs that escape the web root.
var ErrOutsideRoot = errors.New("path escapes web root")

// LocalImageStore writes images below a web root served as static files.
type LocalImageStore struct {
	root string
}

// NewLocalImageStore builds a store rooted at dir.
func NewLocalImageStore(dir string) *LocalImageStore {
	return &LocalImageStore{root: filepath.Clean(dir)}
}

// Root returns the directory files are written under.
func (s *LocalImageStore) Root() string {
	return s.root
}

func (s *LocalImageStore) resolve(rel string) (string, error) {
	rel = strings.TrimLeft(filepath.FromSlash(rel), `/\`)
	full := filepath.Join(s.root, rel)
	if full == s.root || !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		return "", ErrOutsideRoot
	}
	return full, nil
}

// Save writes r to key and returns the URL path "/<key>".
func (s *LocalImageStore) Save(_ context.Context, key, _ string, r io.Reader) (string, error) {
	path, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create image: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close image: %w", err)
	}
	return "/" + filepath.ToSlash(strings.TrimLeft(key, `/\`)), nil
}

// Delete removes the file behind url. A missing file is not an error.
func (s *LocalImageStore) Delete(_ context.Context, url string) error {
	if url == "" {
		return nil
	}
	path, err := s.resolve(url)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}
