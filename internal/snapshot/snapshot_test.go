package snapshot

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/webp"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 30), uint8(y * 60), 128, 255})
		}
	}
	return img
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		err  bool
	}{
		{"png", FormatPNG, false},
		{".PNG", FormatPNG, false},
		{"webp", FormatWebP, false},
		{".tga", FormatTGA, false},
		{"bmp", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.err {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeDecodes(t *testing.T) {
	src := testImage()
	decoders := map[Format]func(*bytes.Reader) (image.Image, error){
		FormatPNG:  func(r *bytes.Reader) (image.Image, error) { return png.Decode(r) },
		FormatWebP: func(r *bytes.Reader) (image.Image, error) { return webp.Decode(r) },
		FormatTGA:  func(r *bytes.Reader) (image.Image, error) { return tga.Decode(r) },
	}
	for f, decode := range decoders {
		t.Run(f.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, src, f))

			img, err := decode(bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)
			assert.Equal(t, src.Bounds(), img.Bounds())

			r, g, b, _ := img.At(5, 2).RGBA()
			assert.Equal(t, uint32(150), r>>8)
			assert.Equal(t, uint32(120), g>>8)
			assert.Equal(t, uint32(128), b>>8)
		})
	}
}

func TestEncodeUnknown(t *testing.T) {
	err := Encode(&bytes.Buffer{}, testImage(), Format(9))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestCaptureSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	c := NewCapture(dir, "scene", FormatPNG)
	c.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC) }

	first, err := c.Save(testImage())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "scene_2024-03-09_14-05-06.png"), first)

	second, err := c.Save(testImage())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "scene_2024-03-09_14-05-06_2.png"), second)

	c.SetFormat(FormatTGA)
	third, err := c.Save(testImage())
	require.NoError(t, err)
	assert.Equal(t, ".tga", filepath.Ext(third))

	for _, p := range []string{first, second, third} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestSaveAs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "frame.webp")
	require.NoError(t, SaveAs(path, testImage()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(data[:4]))
	assert.Equal(t, "WEBP", string(data[8:12]))

	err = SaveAs(filepath.Join(dir, "frame.gif"), testImage())
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
