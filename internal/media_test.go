package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name string
		want MediaKind
	}{
		{"photo.jpg", KindImage},
		{"PHOTO.JPG", KindImage},
		{"scan.jpeg", KindImage},
		{"shot.png", KindImage},
		{"iphone.HEIC", KindImage},
		{"clip.mov", KindVideo},
		{"clip.MP4", KindVideo},
		{"notes.txt", KindUnsupported},
		{"desktop.ini", KindUnsupported},
		{"archive.zip", KindUnsupported},
		{"README", KindUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.KindOf(tt.name))
		})
	}
}

func TestMediaKindString(t *testing.T) {
	assert.Equal(t, "image", KindImage.String())
	assert.Equal(t, "video", KindVideo.String())
	assert.Equal(t, "unsupported", KindUnsupported.String())
}

func TestScanMediaFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.jpg", "a.mov", "notes.txt", "C.PNG"} {
		writeFile(t, join(dir, name), name, time.Time{})
	}
	require.NoError(t, os.Mkdir(join(dir, "nested.jpg"), 0755))
	writeFile(t, filepath.Join(dir, "nested.jpg", "inner.jpg"), "inner", time.Time{})

	files, err := ScanMediaFiles(dir, testConfig())
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
		assert.Equal(t, dir, filepath.Dir(f))
	}
	assert.Equal(t, []string{"C.PNG", "a.mov", "b.jpg"}, names)
}

func TestScanMediaFiles_SkipsSymlinks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, join(dir, "real.jpg"), "content", time.Time{})
	require.NoError(t, os.Symlink(join(dir, "real.jpg"), join(dir, "link.jpg")))

	files, err := ScanMediaFiles(dir, testConfig())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "real.jpg", filepath.Base(files[0]))
}

func TestScanMediaFiles_MissingDir(t *testing.T) {
	_, err := ScanMediaFiles(join(t.TempDir(), "missing"), testConfig())
	assert.Error(t, err)
}

func TestNormalizeExts(t *testing.T) {
	assert.Equal(t, []string{".jpg", ".heic"}, normalizeExts([]string{" JPG ", "", ".HEIC"}))
}
