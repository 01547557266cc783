package image_list

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mosaic/internal/mosaic"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func TestScanListsAcceptedImages(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"))
	writePNG(t, filepath.Join(dir, "a.dat"))
	writePNG(t, filepath.Join(dir, ".hidden.png"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	cfg, err := mosaic.NewConfig(mosaic.Options{})
	require.NoError(t, err)

	s := New(dir, cfg, zap.NewNop())
	require.NoError(t, s.Scan())

	images := s.GetImages()
	require.Len(t, images, 2)
	assert.Equal(t, "a.dat", images[0].Name)
	assert.Equal(t, "b.png", images[1].Name)
	assert.Equal(t, "image/png", images[1].MimeType)
}

func TestScanHonorsAcceptedTypes(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"))

	cfg, err := mosaic.NewConfig(mosaic.Options{AcceptedMimeTypes: []string{"image/jpeg"}})
	require.NoError(t, err)

	s := New(dir, cfg, zap.NewNop())
	require.NoError(t, s.Scan())
	assert.Empty(t, s.GetImages())
}

func TestScanMissingDirectory(t *testing.T) {
	cfg, err := mosaic.NewConfig(mosaic.Options{})
	require.NoError(t, err)

	s := New(filepath.Join(t.TempDir(), "missing"), cfg, zap.NewNop())
	assert.Error(t, s.Scan())
}
