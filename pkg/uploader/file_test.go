package uploader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elseibo-mission/gallery-server/pkg/uploader"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func TestFileFromPathSniffsContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.bin")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o600))

	file, err := uploader.FileFromPath(path)

	require.NoError(t, err)
	assert.Equal(t, "image.bin", file.Name)
	assert.Equal(t, "image/png", file.ContentType)
	assert.Equal(t, int64(len(pngHeader)), file.Size())
}

func TestNewFileFallsBackToExtension(t *testing.T) {
	assert.Equal(t, "image/heic", uploader.NewFile("IMG_0001.HEIC", []byte("truncated")).ContentType)
	assert.Equal(t, "video/mp4", uploader.NewFile("clip.mp4", []byte{0, 1, 2}).ContentType)
}

func TestIsHEIC(t *testing.T) {
	assert.True(t, uploader.IsHEIC(uploader.File{Name: "a.heic"}))
	assert.True(t, uploader.IsHEIC(uploader.File{Name: "a.bin", ContentType: "image/heif"}))
	assert.False(t, uploader.IsHEIC(uploader.File{Name: "a.jpg", ContentType: "image/jpeg"}))
}
