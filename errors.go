// Package lsbsteg hides arbitrary payloads in the least-significant
// channel bits of a raster image and recovers them. The two top-level
// operations, Embed and Extract, tie capacity arithmetic, the permutation
// oracle, the payload framer and the channel bit-plane accessor into a
// runnable LSB steganography engine.
package lsbsteg

import "errors"

// Sentinel errors for everything the engine can reject. All are
// errors.Is-comparable; the underlying component error (from capacity,
// frame, or a codec) is still reachable via errors.Unwrap/errors.As.
var (
	// ErrInvalidLsbValue means lsbs was outside [1, 8].
	ErrInvalidLsbValue = errors.New("invalid lsbs value")
	// ErrUnsupportedFormat means the requested encode format is not in
	// the lossless allow-list.
	ErrUnsupportedFormat = errors.New("unsupported output format")
	// ErrExtensionTooLong means the extension string exceeded 255 bytes.
	ErrExtensionTooLong = errors.New("extension too long")
	// ErrInsufficientCapacity means the container cannot hold the
	// required number of bits.
	ErrInsufficientCapacity = errors.New("insufficient capacity")
	// ErrCalculationOverflow means geometry or length arithmetic
	// overflowed an unsigned integer.
	ErrCalculationOverflow = errors.New("calculation overflow")
	// ErrHashFlagParse means the extracted hash tag byte named an
	// unknown algorithm.
	ErrHashFlagParse = errors.New("hash flag parse error")
	// ErrPayloadParse means the framed region was truncated or the
	// extension was not valid UTF-8.
	ErrPayloadParse = errors.New("payload parse error")
	// ErrChecksumMismatch means the recomputed checksum did not match
	// the one stored in the frame.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrImageProcessing wraps an underlying codec decode/encode error.
	ErrImageProcessing = errors.New("image processing error")
	// ErrIo wraps an underlying I/O error surfaced from a caller.
	ErrIo = errors.New("io error")
)
