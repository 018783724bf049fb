// Package codec is the image decode/encode layer: it turns arbitrary
// container bytes into an RGB8 Surface with known width and height, and
// turns a Surface back into bytes for a named lossless format.
// Compression, color space handling and format parsing details live here,
// not in the engine.
package codec

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // decode-only: JPEG containers are valid embed inputs
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // decode-only: no pure-Go lossless encoder

	"github.com/axbits/lsbsteg/bitplane"
	"github.com/axbits/lsbsteg/codec/rawfmt"
)

// Format names an image container format the encoder can be asked to
// produce.
type Format int

const (
	PNG Format = iota
	WebP
	PNM
	TIFF
	TGA
	BMP
	ICO
	HDR
	Farbfeld
	QOI
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "PNG"
	case WebP:
		return "WebP"
	case PNM:
		return "PNM"
	case TIFF:
		return "TIFF"
	case TGA:
		return "TGA"
	case BMP:
		return "BMP"
	case ICO:
		return "ICO"
	case HDR:
		return "HDR"
	case Farbfeld:
		return "Farbfeld"
	case QOI:
		return "QOI"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// LosslessFormats is the set of formats the encoder accepts without
// re-quantising channel LSBs.
var LosslessFormats = map[Format]bool{
	PNG:      true,
	WebP:     true,
	PNM:      true,
	TIFF:     true,
	TGA:      true,
	BMP:      true,
	ICO:      true,
	HDR:      true,
	Farbfeld: true,
	QOI:      true,
}

// IsLossless reports whether f is in the lossless allow-list.
func IsLossless(f Format) bool {
	return LosslessFormats[f]
}

// Decode auto-detects the container format and decodes it into a Surface.
// Formats registered with image.RegisterFormat (PNG, JPEG, BMP, TIFF,
// WebP) go through the stdlib sniffing path; the remaining lossless
// formats this module supports (PNM, TGA, Farbfeld, HDR, QOI, ICO) have no
// such registration hook available to a pure-Go decoder and fall back to
// rawfmt's own signature sniffing. Any container bytes that fail both
// paths surface as an error the caller should treat as an
// image-processing failure.
func Decode(container []byte) (*bitplane.Surface, error) {
	img, _, err := image.Decode(bytes.NewReader(container))
	if err == nil {
		return toSurface(img), nil
	}

	surf, rfErr := rawfmt.Decode(container, "")
	if rfErr != nil {
		return nil, fmt.Errorf("image decode: %w", err)
	}
	return surf, nil
}

func toSurface(img image.Image) *bitplane.Surface {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pix := make([]byte, width*height*3)

	// Fast path for the common case already in RGBA form: copy channel
	// bytes straight out of Pix instead of going through the color
	// interface per pixel.
	if rgba, ok := img.(*image.RGBA); ok {
		i := 0
		for y := 0; y < height; y++ {
			row := rgba.Pix[rgba.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			for x := 0; x < width; x++ {
				pix[i] = row[x*4]
				pix[i+1] = row[x*4+1]
				pix[i+2] = row[x*4+2]
				i += 3
			}
		}
		return &bitplane.Surface{Width: width, Height: height, Pix: pix}
	}

	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			pix[i] = byte(r >> 8)
			pix[i+1] = byte(g >> 8)
			pix[i+2] = byte(b >> 8)
			i += 3
		}
	}
	return &bitplane.Surface{Width: width, Height: height, Pix: pix}
}

func toImageRGBA(s *bitplane.Surface) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	i := 0
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			o := out.PixOffset(x, y)
			out.Pix[o] = s.Pix[i]
			out.Pix[o+1] = s.Pix[i+1]
			out.Pix[o+2] = s.Pix[i+2]
			out.Pix[o+3] = 0xFF
			i += 3
		}
	}
	return out
}

// Encode renders a Surface to bytes in the named format. format must be in
// LosslessFormats; callers (the embed driver) are expected to have already
// validated that via IsLossless before doing any work.
func Encode(s *bitplane.Surface, format Format) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case PNG:
		if err := png.Encode(&buf, toImageRGBA(s)); err != nil {
			return nil, fmt.Errorf("png encode: %w", err)
		}
	case BMP:
		if err := bmp.Encode(&buf, toImageRGBA(s)); err != nil {
			return nil, fmt.Errorf("bmp encode: %w", err)
		}
	case TIFF:
		if err := tiff.Encode(&buf, toImageRGBA(s), nil); err != nil {
			return nil, fmt.Errorf("tiff encode: %w", err)
		}
	case PNM:
		if err := rawfmt.EncodePNM(&buf, s); err != nil {
			return nil, fmt.Errorf("pnm encode: %w", err)
		}
	case TGA:
		if err := rawfmt.EncodeTGA(&buf, s); err != nil {
			return nil, fmt.Errorf("tga encode: %w", err)
		}
	case Farbfeld:
		if err := rawfmt.EncodeFarbfeld(&buf, s); err != nil {
			return nil, fmt.Errorf("farbfeld encode: %w", err)
		}
	case HDR:
		if err := rawfmt.EncodeHDR(&buf, s); err != nil {
			return nil, fmt.Errorf("hdr encode: %w", err)
		}
	case QOI:
		if err := rawfmt.EncodeQOI(&buf, s); err != nil {
			return nil, fmt.Errorf("qoi encode: %w", err)
		}
	case ICO:
		if err := rawfmt.EncodeICO(&buf, s); err != nil {
			return nil, fmt.Errorf("ico encode: %w", err)
		}
	case WebP:
		// No pure-Go lossless WebP (VP8L) encoder is wired into this
		// build. WebP stays in the lossless allow-list (see
		// LosslessFormats) so format validation behaves correctly; the
		// actual bytes are unavailable until a real encoder is plugged
		// in here.
		return nil, fmt.Errorf("webp encode: no lossless WebP encoder available in this build")
	default:
		return nil, fmt.Errorf("unsupported format %v", format)
	}

	return buf.Bytes(), nil
}
