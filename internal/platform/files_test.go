package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "downloads")

	require.NoError(t, CreateDirectoryIfNotExists(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Second call on an existing directory is a no-op.
	assert.NoError(t, CreateDirectoryIfNotExists(dir))
}

func TestFindOutputFile(t *testing.T) {
	dir := t.TempDir()
	touch := func(name string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
		return path
	}

	t.Run("exact path wins", func(t *testing.T) {
		path := touch("video.mp4")
		found, err := FindOutputFile(path)
		require.NoError(t, err)
		assert.Equal(t, path, found)
	})

	t.Run("falls back to sibling with different container", func(t *testing.T) {
		merged := touch("clip.mkv")
		found, err := FindOutputFile(filepath.Join(dir, "clip.mp4"))
		require.NoError(t, err)
		assert.Equal(t, merged, found)
	})

	t.Run("partial files are skipped", func(t *testing.T) {
		touch("pending.mp4.part")
		touch("pending.ytdl")
		_, err := FindOutputFile(filepath.Join(dir, "pending.mp4"))
		assert.Error(t, err)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := FindOutputFile("")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := FindOutputFile(filepath.Join(dir, "nope.mp4"))
		assert.Error(t, err)
	})
}
