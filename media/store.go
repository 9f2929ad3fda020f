// Package media stores uploaded files on local disk.
package media

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"solara/constants"
	"strings"
	"time"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// Store writes files into one flat directory which is served under
// constants.UPLOADS_URL_PREFIX. Content is not inspected or size limited.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore creates dir when it does not exist.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory %s: %w", dir, err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Filename builds "{field}-{unixMillis}-{random}{ext}" for an upload.
func (s *Store) Filename(field, originalName string) string {
	ext := unsafeChars.ReplaceAllString(filepath.Ext(originalName), "")
	field = unsafeChars.ReplaceAllString(field, "")
	if field == "" {
		field = "file"
	}
	return fmt.Sprintf("%s-%d-%d%s", field, s.now().UnixMilli(), rand.Int63n(1_000_000_000), ext)
}

// Save copies src to a freshly named file and returns its public path
// and the number of bytes written.
func (s *Store) Save(field, originalName string, src io.Reader) (string, int64, error) {
	name := s.Filename(field, originalName)

	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("creating %s: %w", name, err)
	}

	written, err := io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(filepath.Join(s.dir, name))
		return "", 0, fmt.Errorf("writing %s: %w", name, err)
	}

	return constants.UPLOADS_URL_PREFIX + name, written, nil
}

// Remove deletes a file previously returned by Save. Paths outside the
// store are refused.
func (s *Store) Remove(publicPath string) error {
	name, ok := strings.CutPrefix(publicPath, constants.UPLOADS_URL_PREFIX)
	if !ok || name == "" || name != filepath.Base(name) || name == ".." {
		return fmt.Errorf("not a stored upload: %q", publicPath)
	}
	return os.Remove(filepath.Join(s.dir, name))
}
