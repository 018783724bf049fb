// Package capacity computes the overflow-checked geometry that turns a
// decoded raster's (width, height, lsbs) into the bit-addressable space the
// rest of the engine operates on.
package capacity

import "fmt"

// BitsPerByte is the number of bits in one byte, used to convert between
// byte counts and bit counts.
const BitsPerByte = 8

// EmbeddableChannels is the number of color channels per pixel the engine
// is willing to touch (R, G, B; alpha is never used).
const EmbeddableChannels = 3

// Geometry holds the derived quantities for a given container shape and lsbs
// setting. All fields are uint64 so overflow behavior does not depend on
// GOARCH's native int width.
type Geometry struct {
	Width         uint64
	Height        uint64
	Lsbs          uint64
	WidthBits     uint64
	CapacityBits  uint64
	CapacityBytes uint64
}

// OverflowError reports which multiplication overflowed and the operands
// that caused it, so callers can diagnose oversized inputs without
// re-deriving the arithmetic themselves.
type OverflowError struct {
	Op   string
	A, B uint64
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("calculation overflow: %s overflowed with operands %d and %d", e.Op, e.A, e.B)
}

func checkedMul(op string, a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	r := a * b
	if r/a != b {
		return 0, &OverflowError{Op: op, A: a, B: b}
	}
	return r, nil
}

// Compute derives Geometry from width, height and lsbs. lsbs is expected
// to already be validated to [1, 8] by the caller; capacity arithmetic
// only guards against multiplication overflow.
func Compute(width, height uint64, lsbs int) (Geometry, error) {
	l := uint64(lsbs)

	widthBits, err := checkedMul("width * EMBEDDABLE_CHANNELS", width, EmbeddableChannels)
	if err != nil {
		return Geometry{}, err
	}
	widthBits, err = checkedMul("width_bits * lsbs", widthBits, l)
	if err != nil {
		return Geometry{}, err
	}

	capacityBits, err := checkedMul("width_bits * height", widthBits, height)
	if err != nil {
		return Geometry{}, err
	}

	return Geometry{
		Width:         width,
		Height:        height,
		Lsbs:          l,
		WidthBits:     widthBits,
		CapacityBits:  capacityBits,
		CapacityBytes: capacityBits / BitsPerByte,
	}, nil
}

// CheckedMulBits multiplies a byte count by BitsPerByte with overflow
// checking, for callers (the embed driver) that need to convert a
// payload byte length into a bit length without duplicating the overflow
// dance.
func CheckedMulBits(nBytes uint64) (uint64, error) {
	return checkedMul("n * BITS_PER_BYTE", nBytes, BitsPerByte)
}

// CheckedAdd adds two uint64s with overflow checking, used by callers that
// build up sequential bit indices (byte_index * BITS_PER_BYTE + bit_offset).
func CheckedAdd(a, b uint64) (uint64, error) {
	r := a + b
	if r < a {
		return 0, &OverflowError{Op: "a + b", A: a, B: b}
	}
	return r, nil
}
