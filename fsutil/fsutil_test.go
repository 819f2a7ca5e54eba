package fsutil

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.page")
	content := strings.Repeat("0123456789", readChunk/5)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	data, err := ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestReadFile_NotFoundIsUnwrapped(t *testing.T) {
	_, err := ReadFile(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	var pathErr *fs.PathError
	assert.True(t, errors.As(err, &pathErr))
}

func TestReadFile_Cancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.page")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ReadFile(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWalkFilesAndCopyTree(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "css", "site.css"), []byte("body{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "logo.svg"), []byte("<svg/>"), 0o644))

	var seen []string
	require.NoError(t, WalkFiles(context.Background(), src, func(rel, _ string) error {
		seen = append(seen, rel)
		return nil
	}))
	sort.Strings(seen)
	assert.Equal(t, []string{"css/site.css", "logo.svg"}, seen)

	dst := filepath.Join(t.TempDir(), "out")
	require.NoError(t, CopyTree(context.Background(), src, dst))
	data, err := os.ReadFile(filepath.Join(dst, "css", "site.css"))
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(data))
	assert.True(t, IsDir(dst))
	assert.False(t, IsDir(filepath.Join(dst, "logo.svg")))
}
