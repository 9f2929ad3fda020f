package media

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilenameFormat(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	store.now = func() time.Time { return time.UnixMilli(1700000000123) }

	name := store.Filename("image", "Beach House.JPG")
	assert.Regexp(t, regexp.MustCompile(`^image-1700000000123-\d{1,9}\.JPG$`), name)

	assert.Regexp(t, `^file-\d+-\d+$`, store.Filename("", "noext"))
	assert.Regexp(t, `^image-\d+-\d+\.png$`, store.Filename("image", "../../etc/x.png"))
}

func TestSaveRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	store, err := NewStore(dir)
	require.NoError(t, err)

	payload := []byte("\x89PNG\r\n\x1a\n fake image bytes")
	path, n, err := store.Save("file", "photo.png", bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), n)
	require.True(t, strings.HasPrefix(path, "/uploads/file-"))
	assert.True(t, strings.HasSuffix(path, ".png"))

	stored, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(path, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, payload, stored)
}

func TestSaveProducesDistinctNames(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		path, _, err := store.Save("image", "a.jpg", strings.NewReader("x"))
		require.NoError(t, err)
		assert.False(t, seen[path], path)
		seen[path] = true
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	path, _, err := store.Save("image", "a.png", strings.NewReader("png"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(path))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.Error(t, store.Remove(path), "already removed")
	for _, bad := range []string{"", "/uploads/", "/uploads/../secret", "/uploads/a/b.png", "/etc/passwd"} {
		assert.Error(t, store.Remove(bad), bad)
	}
}
