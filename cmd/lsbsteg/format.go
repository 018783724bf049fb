package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/axbits/lsbsteg/codec"
	"github.com/axbits/lsbsteg/digest"
)

var formatNames = map[string]codec.Format{
	"png":      codec.PNG,
	"webp":     codec.WebP,
	"pnm":      codec.PNM,
	"tiff":     codec.TIFF,
	"tga":      codec.TGA,
	"bmp":      codec.BMP,
	"ico":      codec.ICO,
	"hdr":      codec.HDR,
	"farbfeld": codec.Farbfeld,
	"qoi":      codec.QOI,
}

func parseFormat(name string) (codec.Format, error) {
	f, ok := formatNames[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown format %q", name)
	}
	return f, nil
}

// formatFromExt guesses an output format from a file's extension when
// --format is not given explicitly, falling back to PNG.
func formatFromExt(path string) codec.Format {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if f, ok := formatNames[ext]; ok {
		return f
	}
	return codec.PNG
}

var hashNames = map[string]digest.Tag{
	"blake3": digest.Blake3,
	"sha256": digest.SHA256,
	"sha512": digest.SHA512,
	"sha1":   digest.SHA1,
}

func parseHashTag(name string) (digest.Tag, error) {
	t, ok := hashNames[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown hash algorithm %q", name)
	}
	return t, nil
}
