package lsbsteg_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	lsbsteg "github.com/axbits/lsbsteg"
	"github.com/axbits/lsbsteg/codec"
	"github.com/axbits/lsbsteg/digest"
)

// solidPNG returns a w x h solid-color PNG container.
func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// A small payload round-trips through a solid-white 64x64 PNG.
func TestEmbedExtractRoundTrip(t *testing.T) {
	container := solidPNG(t, 64, 64, color.White)

	out, err := lsbsteg.Embed([]byte("hi"), "txt", container, 1, digest.Blake3, 42, codec.PNG)
	require.NoError(t, err)

	data, ext, err := lsbsteg.Extract(out, 1, 42)
	require.NoError(t, err)
	require.Equal(t, []byte("hi"), data)
	require.Equal(t, "txt", ext)
}

// A 16x16 PNG is too small for a 300-byte payload at lsbs=1.
func TestEmbedInsufficientCapacity(t *testing.T) {
	container := solidPNG(t, 16, 16, color.White)
	input := make([]byte, 300)

	_, err := lsbsteg.Embed(input, "bin", container, 1, digest.Blake3, 1, codec.PNG)
	require.Error(t, err)
	require.ErrorIs(t, err, lsbsteg.ErrInsufficientCapacity)
}

// Flipping a bit inside the framed prefix after embed must be detected
// on extract, never silently accepted.
func TestEmbedExtractTamperDetection(t *testing.T) {
	container := solidPNG(t, 64, 64, color.White)
	out, err := lsbsteg.Embed([]byte("hi"), "txt", container, 1, digest.Blake3, 42, codec.PNG)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	rgba := img.(*image.RGBA)
	// Slot 0 is pixel (0,0)'s red channel, bit 0 (lsbs=1): flip it.
	o := rgba.PixOffset(0, 0)
	rgba.Pix[o] ^= 0x01

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, rgba))

	_, _, err = lsbsteg.Extract(buf.Bytes(), 1, 42)
	require.Error(t, err)
	isExtractErr := errors.Is(err, lsbsteg.ErrChecksumMismatch) ||
		errors.Is(err, lsbsteg.ErrPayloadParse) ||
		errors.Is(err, lsbsteg.ErrHashFlagParse) ||
		errors.Is(err, lsbsteg.ErrInsufficientCapacity)
	require.True(t, isExtractErr, "expected an extract-detectable error, got %v", err)
}

// lsbs outside [1, 8] is rejected before any other work.
func TestEmbedInvalidLsbs(t *testing.T) {
	container := solidPNG(t, 64, 64, color.White)

	_, err := lsbsteg.Embed([]byte("hi"), "txt", container, 0, digest.Blake3, 42, codec.PNG)
	require.ErrorIs(t, err, lsbsteg.ErrInvalidLsbValue)

	_, err = lsbsteg.Embed([]byte("hi"), "txt", container, 9, digest.Blake3, 42, codec.PNG)
	require.ErrorIs(t, err, lsbsteg.ErrInvalidLsbValue)
}

// A format outside the lossless allow-list is rejected before any
// surface is decoded.
func TestEmbedUnsupportedFormat(t *testing.T) {
	container := solidPNG(t, 64, 64, color.White)

	lossyLike := codec.Format(9999)
	_, err := lsbsteg.Embed([]byte("hi"), "txt", container, 1, digest.Blake3, 42, lossyLike)
	require.ErrorIs(t, err, lsbsteg.ErrUnsupportedFormat)
}

// An extension longer than 255 bytes is rejected.
func TestEmbedExtensionTooLong(t *testing.T) {
	container := solidPNG(t, 64, 64, color.White)
	ext := strings.Repeat("x", 256)

	_, err := lsbsteg.Embed([]byte("hi"), ext, container, 1, digest.Blake3, 42, codec.PNG)
	require.ErrorIs(t, err, lsbsteg.ErrExtensionTooLong)
}

// Determinism: two embeds of identical inputs produce byte-identical images.
func TestEmbedDeterministic(t *testing.T) {
	container := solidPNG(t, 64, 64, color.White)

	out1, err := lsbsteg.Embed([]byte("hello"), "txt", container, 2, digest.SHA256, 7, codec.PNG)
	require.NoError(t, err)
	out2, err := lsbsteg.Embed([]byte("hello"), "txt", container, 2, digest.SHA256, 7, codec.PNG)
	require.NoError(t, err)

	require.True(t, bytes.Equal(out1, out2))
}

// Wrong seed on extract must never return the original data as success.
func TestExtractWrongSeed(t *testing.T) {
	container := solidPNG(t, 64, 64, color.White)
	out, err := lsbsteg.Embed([]byte("hello world"), "txt", container, 1, digest.SHA256, 42, codec.PNG)
	require.NoError(t, err)

	data, _, err := lsbsteg.Extract(out, 1, 43)
	if err == nil {
		require.NotEqual(t, []byte("hello world"), data)
		return
	}
	isExtractErr := errors.Is(err, lsbsteg.ErrChecksumMismatch) ||
		errors.Is(err, lsbsteg.ErrPayloadParse) ||
		errors.Is(err, lsbsteg.ErrHashFlagParse) ||
		errors.Is(err, lsbsteg.ErrInsufficientCapacity)
	require.True(t, isExtractErr, "expected an extract-detectable error, got %v", err)
}

// Wrong lsbs on extract must be similarly rejected, not silently corrupt.
func TestExtractWrongLsbs(t *testing.T) {
	container := solidPNG(t, 64, 64, color.White)
	out, err := lsbsteg.Embed([]byte("hello world"), "txt", container, 1, digest.SHA256, 42, codec.PNG)
	require.NoError(t, err)

	data, _, err := lsbsteg.Extract(out, 2, 42)
	if err == nil {
		require.NotEqual(t, []byte("hello world"), data)
		return
	}
	isExtractErr := errors.Is(err, lsbsteg.ErrChecksumMismatch) ||
		errors.Is(err, lsbsteg.ErrPayloadParse) ||
		errors.Is(err, lsbsteg.ErrHashFlagParse) ||
		errors.Is(err, lsbsteg.ErrInsufficientCapacity)
	require.True(t, isExtractErr, "expected an extract-detectable error, got %v", err)
}

// Capacity boundary: total_bits == capacity_bits embeds; one more payload
// byte (8 bits over capacity) is rejected.
func TestCapacityBoundary(t *testing.T) {
	// 8x8 image, lsbs=1: capacity_bits = 8*8*3*1 = 192, capacity_bytes = 24.
	// Framed overhead is 4 (len) + 1 (ext_len) + 0 (ext) + 1 (tag) + 32 (blake3) = 38 bytes,
	// already over 24 bytes, so instead size the container to exactly fit a
	// 1-byte payload with an empty extension and BLAKE3 checksum:
	// framed = 4 + 1 + 0 + 1 + 32 + 1 = 39 bytes -> 312 bits.
	// width*height*3*1 == 312 => width*height == 104. Use 13x8.
	container := solidPNG(t, 13, 8, color.White)
	data := []byte{0x42}

	out, err := lsbsteg.Embed(data, "", container, 1, digest.Blake3, 1, codec.PNG)
	require.NoError(t, err)

	got, ext, err := lsbsteg.Extract(out, 1, 1)
	require.NoError(t, err)
	require.Equal(t, data, got)
	require.Equal(t, "", ext)

	// One extra payload byte (8 bits over capacity) must be rejected.
	tooBig := solidPNG(t, 13, 8, color.White)
	_, err = lsbsteg.Embed([]byte{0x42, 0x43}, "", tooBig, 1, digest.Blake3, 1, codec.PNG)
	require.ErrorIs(t, err, lsbsteg.ErrInsufficientCapacity)
}
