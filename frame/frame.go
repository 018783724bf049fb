// Package frame builds and parses the on-image byte layout: a little-endian
// length prefix, extension, hash tag, checksum and opaque data.
package frame

import (
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/axbits/lsbsteg/digest"
)

// Sentinel errors for the framing layer.
var (
	ErrExtensionTooLong     = errors.New("extension too long")
	ErrCalculationOverflow  = errors.New("calculation overflow")
	ErrInsufficientCapacity = errors.New("insufficient capacity")
	ErrPayloadParse         = errors.New("payload parse error")
	ErrHashFlagParse        = errors.New("hash flag parse error")
	ErrChecksumMismatch     = errors.New("checksum mismatch")
)

// lengthPrefixSize is the width, in bytes, of the little-endian payload_len
// field at offset 0.
const lengthPrefixSize = 4

// Payload is the parsed result of a framed region: the original data, its
// extension and the tag of the hash that checksummed it.
type Payload struct {
	Data      []byte
	Extension string
	Tag       digest.Tag
}

// Build assembles the framed byte layout for data, tagging it with ext and
// checksumming it with the digest named by tag:
//
//	offset 0..4     payload_len (u32 LE, byte count from offset 4 onward)
//	offset 4        ext_len (u8)
//	offset 5..5+E   extension bytes
//	offset 5+E      hash_tag (u8)
//	offset 6+E..    checksum (size fixed by hash_tag)
//	offset 6+E+C..  data
//
// The returned slice includes the 4-byte length prefix.
func Build(data []byte, ext string, tag digest.Tag) ([]byte, error) {
	if len(ext) > 255 {
		return nil, fmt.Errorf("%w: extension length %d exceeds 255", ErrExtensionTooLong, len(ext))
	}
	extLen := uint8(len(ext))

	checksum := digest.Sum(tag, data)

	framed := make([]byte, 0, 1+len(ext)+1+len(checksum)+len(data))
	framed = append(framed, extLen)
	framed = append(framed, ext...)
	framed = append(framed, uint8(tag))
	framed = append(framed, checksum...)
	framed = append(framed, data...)

	payloadLen := uint64(len(framed))
	if payloadLen > 1<<32-1 {
		return nil, fmt.Errorf("%w: payload length %d exceeds uint32 range", ErrCalculationOverflow, payloadLen)
	}

	out := make([]byte, lengthPrefixSize, lengthPrefixSize+len(framed))
	binary.LittleEndian.PutUint32(out, uint32(payloadLen))
	out = append(out, framed...)
	return out, nil
}

// Parse reads the 4-byte length prefix from framed, validates it fits
// within capacityBytes, and parses the rest of the region: extension,
// hash tag, checksum and data, verifying the checksum before returning.
//
// framed must contain at least the first 4+payload_len bytes; callers
// (the extract driver) are expected to have already read exactly that
// many bytes off the bit-plane before calling Parse.
func Parse(framed []byte, capacityBytes uint64) (*Payload, error) {
	if uint64(len(framed)) < lengthPrefixSize {
		return nil, fmt.Errorf("%w: need at least %d bytes for length prefix, got %d",
			ErrInsufficientCapacity, lengthPrefixSize, len(framed))
	}

	payloadLen := uint64(binary.LittleEndian.Uint32(framed[:lengthPrefixSize]))
	if lengthPrefixSize+payloadLen > capacityBytes {
		return nil, fmt.Errorf("%w: %d bytes required, %d available",
			ErrInsufficientCapacity, lengthPrefixSize+payloadLen, capacityBytes)
	}

	rest := framed[lengthPrefixSize:]
	if uint64(len(rest)) < payloadLen {
		return nil, fmt.Errorf("%w: expected %d framed bytes, got %d",
			ErrInsufficientCapacity, payloadLen, len(rest))
	}
	rest = rest[:payloadLen]

	if len(rest) < 1 {
		return nil, fmt.Errorf("%w: missing ext_len byte", ErrPayloadParse)
	}
	extLen := int(rest[0])
	rest = rest[1:]

	if len(rest) < extLen {
		return nil, fmt.Errorf("%w: truncated extension, want %d bytes", ErrPayloadParse, extLen)
	}
	extBytes := rest[:extLen]
	if !utf8.Valid(extBytes) {
		return nil, fmt.Errorf("%w: extension is not valid UTF-8", ErrPayloadParse)
	}
	ext := string(extBytes)
	rest = rest[extLen:]

	if len(rest) < 1 {
		return nil, fmt.Errorf("%w: missing hash_tag byte", ErrPayloadParse)
	}
	tag, ok := digest.ParseTag(rest[0])
	if !ok {
		return nil, fmt.Errorf("%w: unknown hash tag %d", ErrHashFlagParse, rest[0])
	}
	rest = rest[1:]

	hashLen, _ := tag.Size()
	if len(rest) < hashLen {
		return nil, fmt.Errorf("%w: truncated checksum, want %d bytes", ErrPayloadParse, hashLen)
	}
	checksum := rest[:hashLen]
	data := rest[hashLen:]

	computed := digest.Sum(tag, data)
	if subtle.ConstantTimeCompare(computed, checksum) != 1 {
		return nil, ErrChecksumMismatch
	}

	return &Payload{Data: data, Extension: ext, Tag: tag}, nil
}
