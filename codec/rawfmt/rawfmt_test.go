package rawfmt_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axbits/lsbsteg/bitplane"
	"github.com/axbits/lsbsteg/codec/rawfmt"
)

func sampleSurface() *bitplane.Surface {
	s := &bitplane.Surface{Width: 3, Height: 2, Pix: make([]byte, 3*2*3)}
	for i := range s.Pix {
		s.Pix[i] = byte(i * 7 % 251)
	}
	return s
}

func TestPNMRoundTrip(t *testing.T) {
	s := sampleSurface()
	var buf bytes.Buffer
	require.NoError(t, rawfmt.EncodePNM(&buf, s))

	got, err := rawfmt.Decode(buf.Bytes(), "")
	require.NoError(t, err)
	assert.Equal(t, s.Width, got.Width)
	assert.Equal(t, s.Height, got.Height)
	assert.Equal(t, s.Pix, got.Pix)
}

func TestFarbfeldRoundTrip(t *testing.T) {
	s := sampleSurface()
	var buf bytes.Buffer
	require.NoError(t, rawfmt.EncodeFarbfeld(&buf, s))

	got, err := rawfmt.Decode(buf.Bytes(), "")
	require.NoError(t, err)
	assert.Equal(t, s.Width, got.Width)
	assert.Equal(t, s.Height, got.Height)
	assert.Equal(t, s.Pix, got.Pix)
}

func TestQOIRoundTrip(t *testing.T) {
	s := sampleSurface()
	var buf bytes.Buffer
	require.NoError(t, rawfmt.EncodeQOI(&buf, s))

	got, err := rawfmt.Decode(buf.Bytes(), "")
	require.NoError(t, err)
	assert.Equal(t, s.Width, got.Width)
	assert.Equal(t, s.Height, got.Height)
	assert.Equal(t, s.Pix, got.Pix)
}

func TestICORoundTrip(t *testing.T) {
	s := sampleSurface()
	var buf bytes.Buffer
	require.NoError(t, rawfmt.EncodeICO(&buf, s))

	got, err := rawfmt.Decode(buf.Bytes(), "")
	require.NoError(t, err)
	assert.Equal(t, s.Width, got.Width)
	assert.Equal(t, s.Height, got.Height)
	assert.Equal(t, s.Pix, got.Pix)
}

func TestDecodeUnrecognized(t *testing.T) {
	_, err := rawfmt.Decode([]byte("not an image"), "")
	require.Error(t, err)
}
