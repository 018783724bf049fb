package lsbsteg

import (
	"context"
	"encoding/binary"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/axbits/lsbsteg/bitplane"
	"github.com/axbits/lsbsteg/capacity"
	"github.com/axbits/lsbsteg/codec"
	"github.com/axbits/lsbsteg/digest"
	"github.com/axbits/lsbsteg/frame"
	"github.com/axbits/lsbsteg/internal/logging"
	"github.com/axbits/lsbsteg/permute"
)

// chunkSize is the partition width: the surface's byte array (on embed)
// and the output byte array (on extract) are split into fixed-size
// contiguous chunks so workers can mutate/read disjoint ranges without
// locks.
const chunkSize = 1024

// inverseEntry pairs a destination slot with the source-bit index it
// carries, used to binary-search a chunk's slot range back to the payload
// bits that land in it.
type inverseEntry struct {
	slot uint64
	bit  uint64
}

// Embed frames data with extension and a checksum computed by the digest
// named by tag, embeds the framed bytes into container using lsbs
// least-significant bits per channel and the permutation seeded by seed,
// and re-encodes the mutated surface in format. format must be a lossless
// format (codec.IsLossless); lsbs must be in [1, 8].
func Embed(input []byte, extension string, container []byte, lsbs int, tag digest.Tag, seed uint64, format codec.Format) ([]byte, error) {
	log := logging.Default()

	if lsbs < 1 || lsbs > 8 {
		return nil, fmt.Errorf("%w: lsbs=%d", ErrInvalidLsbValue, lsbs)
	}
	if !codec.IsLossless(format) {
		return nil, fmt.Errorf("%w: format=%s", ErrUnsupportedFormat, format)
	}

	framed, err := frame.Build(input, extension, tag)
	if err != nil {
		return nil, mapFrameErr(err)
	}

	surf, err := codec.Decode(container)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageProcessing, err)
	}

	geo, err := capacity.Compute(uint64(surf.Width), uint64(surf.Height), lsbs)
	if err != nil {
		return nil, mapCapacityErr(err)
	}

	totalBits, err := capacity.CheckedMulBits(uint64(len(framed)))
	if err != nil {
		return nil, mapCapacityErr(err)
	}
	if totalBits > geo.CapacityBits {
		return nil, fmt.Errorf("%w: need %d bits, have %d", ErrInsufficientCapacity, totalBits, geo.CapacityBits)
	}

	log.Debug().
		Int("width", surf.Width).Int("height", surf.Height).Int("lsbs", lsbs).
		Uint64("capacity_bits", geo.CapacityBits).Uint64("total_bits", totalBits).
		Str("tag", tag.String()).Str("format", format.String()).
		Msg("embed: geometry resolved")

	order := permute.Generate(seed, geo.CapacityBits)
	inverse := buildInverse(order, totalBits)

	if err := writeChunks(surf, inverse, geo.WidthBits, lsbs, framed); err != nil {
		return nil, err
	}

	out, err := codec.Encode(surf, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageProcessing, err)
	}

	log.Debug().Int("encoded_bytes", len(out)).Msg("embed: done")
	return out, nil
}

// Extract decodes container, draws the permutation seeded by seed, reads
// the 4-byte length prefix and then the framed payload region using lsbs
// least-significant bits per channel, parses the frame and verifies its
// checksum, returning the original data and extension.
func Extract(container []byte, lsbs int, seed uint64) ([]byte, string, error) {
	log := logging.Default()

	if lsbs < 1 || lsbs > 8 {
		return nil, "", fmt.Errorf("%w: lsbs=%d", ErrInvalidLsbValue, lsbs)
	}

	surf, err := codec.Decode(container)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrImageProcessing, err)
	}

	geo, err := capacity.Compute(uint64(surf.Width), uint64(surf.Height), lsbs)
	if err != nil {
		return nil, "", mapCapacityErr(err)
	}
	if geo.CapacityBytes < 4 {
		return nil, "", fmt.Errorf("%w: capacity %d bytes < 4", ErrInsufficientCapacity, geo.CapacityBytes)
	}

	// The permutation is drawn once here and reused for both reads
	// below (the length prefix, then the full framed region). It is
	// fully determined by (seed, capacity_bits), so redrawing it per
	// read would reproduce byte-for-byte the same sequence we already
	// have.
	order := permute.Generate(seed, geo.CapacityBits)

	prefix, err := readBytes(surf, order, geo.WidthBits, lsbs, 4)
	if err != nil {
		return nil, "", err
	}
	payloadLen := uint64(binary.LittleEndian.Uint32(prefix))
	if 4+payloadLen > geo.CapacityBytes {
		return nil, "", fmt.Errorf("%w: %d bytes required, %d available", ErrInsufficientCapacity, 4+payloadLen, geo.CapacityBytes)
	}

	framed, err := readBytes(surf, order, geo.WidthBits, lsbs, 4+payloadLen)
	if err != nil {
		return nil, "", err
	}

	payload, err := frame.Parse(framed, geo.CapacityBytes)
	if err != nil {
		return nil, "", mapFrameErr(err)
	}

	log.Debug().Str("extension", payload.Extension).Int("data_len", len(payload.Data)).Msg("extract: done")
	return payload.Data, payload.Extension, nil
}

// buildInverse draws the (slot, i) pairs for source bits [0, totalBits)
// and sorts them by slot, so a chunk's slot range can be located by binary
// search.
func buildInverse(order permute.Order, totalBits uint64) []inverseEntry {
	inverse := make([]inverseEntry, totalBits)
	for i := uint64(0); i < totalBits; i++ {
		inverse[i] = inverseEntry{slot: order.At(i), bit: i}
	}
	sort.Slice(inverse, func(a, b int) bool { return inverse[a].slot < inverse[b].slot })
	return inverse
}

// writeChunks partitions surf.Pix into chunkSize-byte ranges and, for each
// range, binary-searches inverse for the payload bits whose destination
// slot lies within it, writing each MSB-first source bit into its slot.
//
// Slot s maps to byte index b = s / lsbs (derivable from bitplane.Locate's
// formula: s = byteIndex*lsbs + bitInChannel), so a contiguous byte range
// [start, end) corresponds exactly to the slot range [start*lsbs, end*lsbs).
// No per-chunk scan of the whole inverse table is needed, only two binary
// searches against its boundaries.
func writeChunks(surf *bitplane.Surface, inverse []inverseEntry, widthBits uint64, lsbs int, framed []byte) error {
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.GOMAXPROCS(0))

	pixLen := len(surf.Pix)
	for start := 0; start < pixLen; start += chunkSize {
		start := start
		end := start + chunkSize
		if end > pixLen {
			end = pixLen
		}
		g.Go(func() error {
			loSlot := uint64(start) * uint64(lsbs)
			hiSlot := uint64(end) * uint64(lsbs)
			lo := sort.Search(len(inverse), func(k int) bool { return inverse[k].slot >= loSlot })
			hi := sort.Search(len(inverse), func(k int) bool { return inverse[k].slot >= hiSlot })
			for _, e := range inverse[lo:hi] {
				byteIdx := e.bit / 8
				bitOff := e.bit % 8
				bit := (framed[byteIdx] >> (7 - bitOff)) & 1
				sl := bitplane.Locate(e.slot, widthBits, lsbs)
				bitplane.WriteSlot(surf, sl, bit)
			}
			return nil
		})
	}
	return g.Wait()
}

// readBytes draws n bytes from surf via order, partitioning the n-byte
// output into chunkSize-byte ranges processed in parallel; reads do not
// alias so no synchronization beyond errgroup's join is needed.
func readBytes(surf *bitplane.Surface, order permute.Order, widthBits uint64, lsbs int, n uint64) ([]byte, error) {
	out := make([]byte, n)

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.GOMAXPROCS(0))

	for start := uint64(0); start < n; start += chunkSize {
		start := start
		end := start + chunkSize
		if end > n {
			end = n
		}
		g.Go(func() error {
			for k := start; k < end; k++ {
				var b byte
				for o := uint64(0); o < 8; o++ {
					slot := order.At(8*k + o)
					sl := bitplane.Locate(slot, widthBits, lsbs)
					bit := bitplane.ReadSlot(surf, sl)
					b = (b << 1) | bit
				}
				out[k] = b
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
