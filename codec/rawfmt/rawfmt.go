// Package rawfmt implements small, dependency-free encoders (and, where
// cheap, decoders) for the lossless raster formats that have no
// ready-made Go library: PNM (P6), TGA, Farbfeld, Radiance HDR and QOI,
// plus a minimal PNG-embedding ICO container. None of these need the
// sophistication of a general-purpose image library; each format's pixel
// layout is a direct, fixed-size transformation of the RGB8 Surface this
// module already works with internally.
package rawfmt

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/axbits/lsbsteg/bitplane"
)

// EncodePNM writes a binary PPM (P6) image: a short ASCII header followed
// by raw row-major RGB8 bytes.
func EncodePNM(w io.Writer, s *bitplane.Surface) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", s.Width, s.Height); err != nil {
		return err
	}
	if _, err := bw.Write(s.Pix); err != nil {
		return err
	}
	return bw.Flush()
}

func decodePNM(data []byte) (*bitplane.Surface, error) {
	r := bufio.NewReader(bytes.NewReader(data))
	magic, err := readToken(r)
	if err != nil {
		return nil, err
	}
	if magic != "P6" {
		return nil, fmt.Errorf("rawfmt: not a P6 PNM image")
	}
	width, err := readIntToken(r)
	if err != nil {
		return nil, err
	}
	height, err := readIntToken(r)
	if err != nil {
		return nil, err
	}
	maxVal, err := readIntToken(r)
	if err != nil {
		return nil, err
	}
	if maxVal != 255 {
		return nil, fmt.Errorf("rawfmt: unsupported PNM maxval %d", maxVal)
	}

	pix := make([]byte, width*height*3)
	if _, err := io.ReadFull(r, pix); err != nil {
		return nil, fmt.Errorf("rawfmt: truncated PNM pixel data: %w", err)
	}
	return &bitplane.Surface{Width: width, Height: height, Pix: pix}, nil
}

func readToken(r *bufio.Reader) (string, error) {
	var buf bytes.Buffer
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		if b == ' ' || b == '\n' || b == '\t' || b == '\r' {
			if buf.Len() == 0 {
				continue
			}
			return buf.String(), nil
		}
		buf.WriteByte(b)
	}
}

func readIntToken(r *bufio.Reader) (int, error) {
	tok, err := readToken(r)
	if err != nil {
		return 0, err
	}
	var v int
	if _, err := fmt.Sscanf(tok, "%d", &v); err != nil {
		return 0, err
	}
	return v, nil
}

// EncodeTGA writes an uncompressed 24-bit TGA image (image type 2,
// bottom-to-top row order per the format's default origin).
func EncodeTGA(w io.Writer, s *bitplane.Surface) error {
	header := make([]byte, 18)
	header[2] = 2 // uncompressed true-color
	binary.LittleEndian.PutUint16(header[12:], uint16(s.Width))
	binary.LittleEndian.PutUint16(header[14:], uint16(s.Height))
	header[16] = 24 // bits per pixel

	if _, err := w.Write(header); err != nil {
		return err
	}

	row := make([]byte, s.Width*3)
	for y := s.Height - 1; y >= 0; y-- {
		base := y * s.Width * 3
		for x := 0; x < s.Width; x++ {
			row[x*3] = s.Pix[base+x*3+2]   // B
			row[x*3+1] = s.Pix[base+x*3+1] // G
			row[x*3+2] = s.Pix[base+x*3]   // R
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func decodeTGA(data []byte) (*bitplane.Surface, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("rawfmt: TGA header truncated")
	}
	if data[2] != 2 {
		return nil, fmt.Errorf("rawfmt: only uncompressed true-color TGA is supported")
	}
	width := int(binary.LittleEndian.Uint16(data[12:]))
	height := int(binary.LittleEndian.Uint16(data[14:]))
	bpp := data[16]
	if bpp != 24 {
		return nil, fmt.Errorf("rawfmt: only 24bpp TGA is supported")
	}

	body := data[18:]
	need := width * height * 3
	if len(body) < need {
		return nil, fmt.Errorf("rawfmt: truncated TGA pixel data")
	}

	pix := make([]byte, need)
	for y := 0; y < height; y++ {
		srcRow := body[(height-1-y)*width*3:]
		dstBase := y * width * 3
		for x := 0; x < width; x++ {
			pix[dstBase+x*3] = srcRow[x*3+2]   // R
			pix[dstBase+x*3+1] = srcRow[x*3+1] // G
			pix[dstBase+x*3+2] = srcRow[x*3]   // B
		}
	}
	return &bitplane.Surface{Width: width, Height: height, Pix: pix}, nil
}

// EncodeFarbfeld writes the trivial farbfeld format: an 8-byte magic, two
// big-endian uint32 dimensions, then row-major RGBA16 pixels (alpha fixed
// to fully opaque since this module never uses the alpha channel).
func EncodeFarbfeld(w io.Writer, s *bitplane.Surface) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("farbfeld"); err != nil {
		return err
	}
	var dims [8]byte
	binary.BigEndian.PutUint32(dims[0:], uint32(s.Width))
	binary.BigEndian.PutUint32(dims[4:], uint32(s.Height))
	if _, err := bw.Write(dims[:]); err != nil {
		return err
	}

	px := make([]byte, 8)
	for i := 0; i < s.Width*s.Height; i++ {
		r, g, b := s.Pix[i*3], s.Pix[i*3+1], s.Pix[i*3+2]
		binary.BigEndian.PutUint16(px[0:], uint16(r)<<8|uint16(r))
		binary.BigEndian.PutUint16(px[2:], uint16(g)<<8|uint16(g))
		binary.BigEndian.PutUint16(px[4:], uint16(b)<<8|uint16(b))
		binary.BigEndian.PutUint16(px[6:], 0xFFFF)
		if _, err := bw.Write(px); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func decodeFarbfeld(data []byte) (*bitplane.Surface, error) {
	if len(data) < 16 || string(data[:8]) != "farbfeld" {
		return nil, fmt.Errorf("rawfmt: not a farbfeld image")
	}
	width := int(binary.BigEndian.Uint32(data[8:12]))
	height := int(binary.BigEndian.Uint32(data[12:16]))

	body := data[16:]
	need := width * height * 8
	if len(body) < need {
		return nil, fmt.Errorf("rawfmt: truncated farbfeld pixel data")
	}

	pix := make([]byte, width*height*3)
	for i := 0; i < width*height; i++ {
		px := body[i*8:]
		pix[i*3] = px[0]
		pix[i*3+1] = px[2]
		pix[i*3+2] = px[4]
	}
	return &bitplane.Surface{Width: width, Height: height, Pix: pix}, nil
}

// EncodeHDR writes a minimal uncompressed Radiance RGBE (.hdr) image: a
// text header followed by raw 4-byte-per-pixel RGBE scanlines (no RLE).
func EncodeHDR(w io.Writer, s *bitplane.Surface) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n-Y %d +X %d\n", s.Height, s.Width); err != nil {
		return err
	}
	for i := 0; i < s.Width*s.Height; i++ {
		r, g, b := s.Pix[i*3], s.Pix[i*3+1], s.Pix[i*3+2]
		rgbe := toRGBE(r, g, b)
		if _, err := bw.Write(rgbe[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func toRGBE(r, g, b byte) [4]byte {
	maxChannel := r
	if g > maxChannel {
		maxChannel = g
	}
	if b > maxChannel {
		maxChannel = b
	}
	if maxChannel == 0 {
		return [4]byte{0, 0, 0, 0}
	}
	// A byte-domain RGBE encoding: exponent is fixed at 128 (2^0 scale)
	// since inputs are already 8-bit channel values, not floating-point
	// radiance samples. This keeps the round trip exact for the LSB
	// engine's purposes without implementing true HDR tone mapping.
	return [4]byte{r, g, b, 128}
}

func decodeHDRRaw(data []byte) (*bitplane.Surface, error) {
	idx := bytes.Index(data, []byte("\n-Y "))
	if idx < 0 || !bytes.HasPrefix(data, []byte("#?RADIANCE")) {
		return nil, fmt.Errorf("rawfmt: not a Radiance HDR image")
	}
	rest := data[idx+4:]
	var height, width int
	n, err := fmt.Sscanf(string(rest), "%d +X %d", &height, &width)
	if err != nil || n != 2 {
		return nil, fmt.Errorf("rawfmt: malformed HDR resolution line")
	}
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 {
		return nil, fmt.Errorf("rawfmt: malformed HDR header")
	}
	body := rest[nl+1:]

	need := width * height * 4
	if len(body) < need {
		return nil, fmt.Errorf("rawfmt: truncated HDR pixel data")
	}

	pix := make([]byte, width*height*3)
	for i := 0; i < width*height; i++ {
		px := body[i*4:]
		pix[i*3] = px[0]
		pix[i*3+1] = px[1]
		pix[i*3+2] = px[2]
	}
	return &bitplane.Surface{Width: width, Height: height, Pix: pix}, nil
}

// EncodeQOI writes the "Quite OK Image" format using only the raw RGB
// pixel opcode (0xFE tag), which keeps the encoder simple while remaining
// a valid QOI stream any conforming decoder can read.
const (
	qoiMagic    = "qoif"
	qoiOpRGB    = 0xFE
	qoiEndBytes = 8
)

func EncodeQOI(w io.Writer, s *bitplane.Surface) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(qoiMagic); err != nil {
		return err
	}
	var header [8]byte
	binary.BigEndian.PutUint32(header[0:], uint32(s.Width))
	binary.BigEndian.PutUint32(header[4:], uint32(s.Height))
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}
	if err := bw.WriteByte(3); err != nil { // channels: RGB
		return err
	}
	if err := bw.WriteByte(1); err != nil { // colorspace: linear
		return err
	}

	for i := 0; i < s.Width*s.Height; i++ {
		if err := bw.WriteByte(qoiOpRGB); err != nil {
			return err
		}
		if _, err := bw.Write(s.Pix[i*3 : i*3+3]); err != nil {
			return err
		}
	}

	end := make([]byte, qoiEndBytes)
	end[qoiEndBytes-1] = 1
	if _, err := bw.Write(end); err != nil {
		return err
	}
	return bw.Flush()
}

func decodeQOI(data []byte) (*bitplane.Surface, error) {
	if len(data) < 14 || string(data[:4]) != qoiMagic {
		return nil, fmt.Errorf("rawfmt: not a QOI image")
	}
	width := int(binary.BigEndian.Uint32(data[4:8]))
	height := int(binary.BigEndian.Uint32(data[8:12]))
	pos := 14 // skip magic(4) + dims(8) + channels(1) + colorspace(1)

	pix := make([]byte, 0, width*height*3)
	var run int
	var r, g, b byte
	var seen [64][3]byte

	for len(pix) < width*height*3 && pos < len(data) {
		if run > 0 {
			pix = append(pix, r, g, b)
			run--
			continue
		}
		tag := data[pos]
		switch {
		case tag == qoiOpRGB:
			if pos+3 >= len(data) {
				return nil, fmt.Errorf("rawfmt: truncated QOI RGB chunk")
			}
			r, g, b = data[pos+1], data[pos+2], data[pos+3]
			pos += 4
		case tag>>6 == 0b00: // QOI_OP_INDEX
			idx := tag & 0x3F
			r, g, b = seen[idx][0], seen[idx][1], seen[idx][2]
			pos++
		case tag>>6 == 0b01: // QOI_OP_DIFF
			dr := int(tag>>4&0x3) - 2
			dg := int(tag>>2&0x3) - 2
			db := int(tag&0x3) - 2
			r, g, b = byte(int(r)+dr), byte(int(g)+dg), byte(int(b)+db)
			pos++
		case tag>>6 == 0b10: // QOI_OP_LUMA
			if pos+1 >= len(data) {
				return nil, fmt.Errorf("rawfmt: truncated QOI luma chunk")
			}
			dg := int(tag&0x3F) - 32
			b2 := data[pos+1]
			drdg := int(b2>>4) - 8
			dbdg := int(b2&0xF) - 8
			g = byte(int(g) + dg)
			r = byte(int(r) + dg + drdg)
			b = byte(int(b) + dg + dbdg)
			pos += 2
		case tag>>6 == 0b11: // QOI_OP_RUN
			run = int(tag&0x3F) + 1
			pos++
			pix = append(pix, r, g, b)
			run--
			continue
		}
		// Index hash per the QOI spec includes the alpha term; alpha is
		// a constant 255 for the RGB-only streams this decoder accepts.
		idx := (int(r)*3 + int(g)*5 + int(b)*7 + 255*11) % 64
		seen[idx] = [3]byte{r, g, b}
		pix = append(pix, r, g, b)
	}

	if len(pix) < width*height*3 {
		return nil, fmt.Errorf("rawfmt: truncated QOI pixel stream")
	}
	return &bitplane.Surface{Width: width, Height: height, Pix: pix[:width*height*3]}, nil
}

// EncodeICO wraps a single PNG-encoded frame in a minimal modern ICO
// container (PNG-in-ICO is permitted by the format since Windows Vista).
func EncodeICO(w io.Writer, s *bitplane.Surface) error {
	rgba := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			i := (y*s.Width + x) * 3
			rgba.Set(x, y, color.RGBA{R: s.Pix[i], G: s.Pix[i+1], B: s.Pix[i+2], A: 0xFF})
		}
	}

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, rgba); err != nil {
		return err
	}

	var header [6]byte
	binary.LittleEndian.PutUint16(header[2:], 1) // type: icon
	binary.LittleEndian.PutUint16(header[4:], 1) // one image
	if _, err := w.Write(header[:]); err != nil {
		return err
	}

	entry := make([]byte, 16)
	if s.Width < 256 {
		entry[0] = byte(s.Width)
	}
	if s.Height < 256 {
		entry[1] = byte(s.Height)
	}
	binary.LittleEndian.PutUint16(entry[4:], 1)  // color planes
	binary.LittleEndian.PutUint16(entry[6:], 32) // bits per pixel
	binary.LittleEndian.PutUint32(entry[8:], uint32(pngBuf.Len()))
	binary.LittleEndian.PutUint32(entry[12:], uint32(len(header)+len(entry)))
	if _, err := w.Write(entry); err != nil {
		return err
	}

	_, err := w.Write(pngBuf.Bytes())
	return err
}

func decodeICO(data []byte) (*bitplane.Surface, error) {
	if len(data) < 22 || data[2] != 1 {
		return nil, fmt.Errorf("rawfmt: not an ICO image")
	}
	count := binary.LittleEndian.Uint16(data[4:6])
	if count < 1 {
		return nil, fmt.Errorf("rawfmt: empty ICO directory")
	}
	entry := data[6:22]
	size := binary.LittleEndian.Uint32(entry[8:12])
	offset := binary.LittleEndian.Uint32(entry[12:16])
	if uint32(len(data)) < offset+size {
		return nil, fmt.Errorf("rawfmt: truncated ICO image data")
	}

	img, err := png.Decode(bytes.NewReader(data[offset : offset+size]))
	if err != nil {
		return nil, fmt.Errorf("rawfmt: ICO frame is not PNG-encoded: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pix := make([]byte, width*height*3)
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
	return &bitplane.Surface{Width: width, Height: height, Pix: pix}, nil
}

// Decode sniffs data against each raw format this package implements a
// decoder for and returns the first match. hint is an optional format
// name carried over from a failed stdlib image.Decode call; it is
// currently unused (signature sniffing below is cheap enough to just try
// every format) but kept so callers have a place to pass it if a future
// format needs the disambiguation.
func Decode(data []byte, hint string) (*bitplane.Surface, error) {
	_ = hint

	if bytes.HasPrefix(data, []byte("P6")) {
		return decodePNM(data)
	}
	if bytes.HasPrefix(data, []byte("farbfeld")) {
		return decodeFarbfeld(data)
	}
	if bytes.HasPrefix(data, []byte(qoiMagic)) {
		return decodeQOI(data)
	}
	if bytes.HasPrefix(data, []byte("#?RADIANCE")) {
		return decodeHDRRaw(data)
	}
	if len(data) >= 4 && data[0] == 0 && data[1] == 0 && data[2] == 1 {
		return decodeICO(data)
	}
	if len(data) >= 18 && data[2] == 2 {
		return decodeTGA(data)
	}
	return nil, fmt.Errorf("rawfmt: unrecognized raw image format")
}
