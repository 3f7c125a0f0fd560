//nolint:testpackage // pins the clock
package media

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int, c color.Color) *bytes.Buffer {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestFileName(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 3, 9, 14, 5, 7, 0, time.UTC)
	assert.Equal(t, "complaint_42_20260309_140507.jpg", FileName(42, "jpg", ts))
}

func TestOptimize_FitsBounds(t *testing.T) {
	t.Parallel()

	o := NewOptimizer(Config{})

	wide := o.Optimize(image.NewNRGBA(image.Rect(0, 0, 2560, 1000)))
	assert.Equal(t, 1280, wide.Bounds().Dx())
	assert.Equal(t, 500, wide.Bounds().Dy())

	tall := o.Optimize(image.NewNRGBA(image.Rect(0, 0, 1000, 1440)))
	assert.Equal(t, 500, tall.Bounds().Dx())
	assert.Equal(t, 720, tall.Bounds().Dy())

	small := o.Optimize(image.NewNRGBA(image.Rect(0, 0, 640, 480)))
	assert.Equal(t, 640, small.Bounds().Dx())
	assert.Equal(t, 480, small.Bounds().Dy())
}

func TestOptimize_FlattensTransparency(t *testing.T) {
	t.Parallel()

	o := NewOptimizer(Config{})
	got := o.Optimize(image.NewNRGBA(image.Rect(0, 0, 4, 4)))

	r, g, b, a := got.At(1, 1).RGBA()
	assert.Equal(t, uint32(0xffff), a)
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), b)
}

func TestSave(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	o := NewOptimizer(Config{UploadDir: dir})
	o.now = func() time.Time { return time.Date(2026, 3, 9, 14, 5, 7, 0, time.UTC) }

	stored, err := o.Save(7, "after.JPG", encodePNG(t, 2000, 1000, color.NRGBA{R: 200, A: 255}))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "complaint_7_20260309_140507.jpg"), stored.Path)
	assert.Equal(t, 2000, stored.OriginalWidth)
	assert.Equal(t, 1280, stored.Width)
	assert.Equal(t, 640, stored.Height)

	saved, err := imaging.Open(stored.Path)
	require.NoError(t, err)
	assert.Equal(t, 1280, saved.Bounds().Dx())

	second, err := o.Save(7, "after.jpg", encodePNG(t, 10, 10, color.White))
	require.NoError(t, err)
	assert.NotEqual(t, stored.Path, second.Path)
	_, statErr := os.Stat(second.Path)
	require.NoError(t, statErr)
}

func TestSave_Rejects(t *testing.T) {
	t.Parallel()

	o := NewOptimizer(Config{UploadDir: t.TempDir()})

	_, err := o.Save(1, "photo.gif", encodePNG(t, 2, 2, color.White))
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = o.Save(1, "photo.png", bytes.NewBufferString("not an image"))
	require.ErrorIs(t, err, ErrInvalidImage)
}
