package imageprocessor

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func encodeJPEG(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return &buf
}

func decodeDims(t *testing.T, r *bytes.Buffer) (int, int) {
	t.Helper()
	img, _, err := image.Decode(r)
	require.NoError(t, err)
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestNormalizeKeepsSmallImages(t *testing.T) {
	p := NewProcessor(85)

	out, contentType, err := p.Normalize(encodePNG(t, 100, 50))
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)

	var buf bytes.Buffer
	buf.ReadFrom(out)
	w, h := decodeDims(t, &buf)
	assert.Equal(t, 100, w)
	assert.Equal(t, 50, h)
}

func TestNormalizeShrinksLargeImages(t *testing.T) {
	p := NewProcessor(85)

	out, contentType, err := p.Normalize(encodeJPEG(t, 3200, 1600))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)

	var buf bytes.Buffer
	buf.ReadFrom(out)
	w, h := decodeDims(t, &buf)
	// Длинная сторона ужата до лимита с сохранением пропорций
	assert.Equal(t, MaxPhotoDimension, w)
	assert.Equal(t, MaxPhotoDimension/2, h)
}

func TestNormalizeShrinksPortrait(t *testing.T) {
	p := NewProcessor(85)

	out, _, err := p.Normalize(encodeJPEG(t, 1600, 3200))
	require.NoError(t, err)

	var buf bytes.Buffer
	buf.ReadFrom(out)
	w, h := decodeDims(t, &buf)
	assert.Equal(t, MaxPhotoDimension/2, w)
	assert.Equal(t, MaxPhotoDimension, h)
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	p := NewProcessor(85)

	_, _, err := p.Normalize(strings.NewReader("definitely not an image"))
	assert.Error(t, err)
}
