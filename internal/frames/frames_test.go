package frames

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/webp"

	"cg-scene-renderer/internal/postprocess"
)

func frameImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestWriterEncodesInOrder(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(Config{OutputDir: dir, Format: FormatWebP, Width: 8, Height: 6, Workers: 3})
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		require.NoError(t, w.Submit(ctx, Frame{Index: i, Time: float64(i) / 60, Image: frameImage(16, 12, color.NRGBA{uint8(i * 20), 0, 0, 255})}))
	}
	results := w.Close()
	require.Len(t, results, 10)
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.True(t, r.Success, r.Error)
		assert.Equal(t, w.FileName(i), r.Path)
	}

	f, err := os.Open(filepath.Join(dir, "frame_00003.webp"))
	require.NoError(t, err)
	defer f.Close()
	img, err := webp.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 6), img.Bounds())

	assert.ErrorIs(t, w.Submit(ctx, Frame{Index: 11}), ErrClosed)
	assert.Len(t, w.Close(), 10, "close is idempotent")
}

func TestWriterTGAWithEffect(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(Config{OutputDir: dir, Format: FormatTGA, Effect: postprocess.EffectInvert})
	require.NoError(t, err)
	require.NoError(t, w.Submit(context.Background(), Frame{Index: 0, Image: frameImage(4, 4, color.NRGBA{10, 20, 30, 255})}))
	results := w.Close()
	require.Len(t, results, 1)
	require.True(t, results[0].Success, results[0].Error)

	f, err := os.Open(filepath.Join(dir, "frame_00000.tga"))
	require.NoError(t, err)
	defer f.Close()
	img, err := tga.Decode(f)
	require.NoError(t, err)
	r, g, b, _ := img.At(1, 1).RGBA()
	assert.Equal(t, []uint32{245, 235, 225}, []uint32{r >> 8, g >> 8, b >> 8})
}

func TestWriterReportsFailures(t *testing.T) {
	w, err := NewWriter(Config{OutputDir: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, w.Submit(context.Background(), Frame{Index: 4}))
	results := w.Close()
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.NotEmpty(t, results[0].Error)
}

func TestSubmitCanceled(t *testing.T) {
	w, err := NewWriter(Config{OutputDir: t.TempDir(), Workers: 1})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = w.Submit(ctx, Frame{Index: 0, Image: frameImage(2, 2, color.NRGBA{A: 255})})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, w.Close())
}

func TestUnknownFormat(t *testing.T) {
	_, err := NewWriter(Config{OutputDir: t.TempDir(), Format: "gif"})
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.ErrorIs(t, Encode(&bytes.Buffer{}, image.NewNRGBA(image.Rect(0, 0, 1, 1)), "gif"), ErrUnknownFormat)
}

func TestManifest(t *testing.T) {
	m := Manifest{Scene: "garage.yaml", Width: 8, Height: 6, FPS: 60, Format: FormatWebP}
	m.Add([]Result{
		{Index: 0, Time: 0, Path: "frame_00000.webp", Success: true},
		{Index: 1, Time: 1.0 / 60, Error: "boom"},
		{Index: 2, Time: 2.0 / 60, Path: "frame_00002.webp", Success: true},
	})
	require.Len(t, m.Frames, 2)
	assert.Equal(t, []int{1}, m.Failed)

	p := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, WriteManifest(p, m))
	got, err := ReadManifest(p)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}
