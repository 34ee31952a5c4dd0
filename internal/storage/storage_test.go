package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveWritesAssetAndReturnsURL(t *testing.T) {
	root := t.TempDir()
	disk := NewPublicDisk(root, "/storage", "")

	url, err := disk.Save(CoversNamespace, "abc.webp", []byte("image-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/storage/covers/abc.webp", url)

	data, err := os.ReadFile(filepath.Join(root, "covers", "abc.webp"))
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), data)
}

func TestSaveMirrorsIntoRealDirectory(t *testing.T) {
	root := t.TempDir()
	mirror := t.TempDir()
	disk := NewPublicDisk(root, "/storage", mirror)

	_, err := disk.Save(AudioNamespace, "abc.mp3", []byte("audio-bytes"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(mirror, "audio", "abc.mp3"))
	require.NoError(t, err)
	assert.Equal(t, []byte("audio-bytes"), data)
}

func TestSaveSkipsSymlinkedMirror(t *testing.T) {
	root := t.TempDir()
	realDir := t.TempDir()
	link := filepath.Join(t.TempDir(), "mirror-link")
	require.NoError(t, os.Symlink(realDir, link))

	disk := NewPublicDisk(root, "/storage", link)

	_, err := disk.Save(CoversNamespace, "abc.webp", []byte("image-bytes"))
	require.NoError(t, err)

	// The symlinked mirror must be left untouched
	_, err = os.Stat(filepath.Join(realDir, "covers", "abc.webp"))
	assert.True(t, os.IsNotExist(err))
}

func TestSaveSkipsAbsentMirror(t *testing.T) {
	root := t.TempDir()
	disk := NewPublicDisk(root, "/storage", filepath.Join(t.TempDir(), "does-not-exist"))

	_, err := disk.Save(CoversNamespace, "abc.webp", []byte("image-bytes"))
	assert.NoError(t, err)
}

func TestSaveFailsWhenMirrorWriteFails(t *testing.T) {
	root := t.TempDir()
	mirror := t.TempDir()
	// Occupy the namespace path with a file so MkdirAll fails
	require.NoError(t, os.WriteFile(filepath.Join(mirror, "covers"), []byte("x"), 0o644))

	disk := NewPublicDisk(root, "/storage", mirror)

	_, err := disk.Save(CoversNamespace, "abc.webp", []byte("image-bytes"))
	assert.Error(t, err)
}
