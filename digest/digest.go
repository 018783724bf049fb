// Package digest provides uniform hash dispatch: a one-byte tag selects a
// concrete checksum algorithm at runtime behind the stdlib hash.Hash
// interface. The cryptographic implementations themselves live elsewhere
// (stdlib crypto/* and a third-party BLAKE3 package); this package only
// owns the dispatch.
package digest

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"lukechampine.com/blake3"
)

// Tag is the one-byte selector embedded in the framed payload naming which
// digest produced its checksum.
type Tag uint8

const (
	// Blake3 selects a 32-byte BLAKE3 digest.
	Blake3 Tag = 0
	// SHA256 selects a 32-byte SHA-256 digest.
	SHA256 Tag = 1
	// SHA512 selects a 64-byte SHA-512 digest.
	SHA512 Tag = 2
	// SHA1 selects a 20-byte SHA-1 digest.
	SHA1 Tag = 3
)

func (t Tag) String() string {
	switch t {
	case Blake3:
		return "BLAKE3"
	case SHA256:
		return "SHA256"
	case SHA512:
		return "SHA512"
	case SHA1:
		return "SHA1"
	default:
		return fmt.Sprintf("Tag(%d)", uint8(t))
	}
}

// Size returns the digest output size in bytes for a known tag, and false
// for an unrecognized tag.
func (t Tag) Size() (int, bool) {
	switch t {
	case Blake3:
		return 32, true
	case SHA256:
		return 32, true
	case SHA512:
		return 64, true
	case SHA1:
		return 20, true
	default:
		return 0, false
	}
}

// ParseTag converts a raw byte read from a framed payload into a Tag,
// reporting whether it names a known algorithm.
func ParseTag(b uint8) (Tag, bool) {
	t := Tag(b)
	if _, ok := t.Size(); !ok {
		return 0, false
	}
	return t, true
}

// New constructs a fresh hash.Hash for the given tag. It panics on an
// unknown tag. The extract path validates the tag via ParseTag first,
// since the tag there comes from untrusted image bytes; the embed path
// (Embed, frame.Build) passes the caller's tag through without checking
// it, and the CLI only produces known tags.
func New(t Tag) hash.Hash {
	switch t {
	case Blake3:
		return blake3.New(32, nil)
	case SHA256:
		return sha256.New()
	case SHA512:
		return sha512.New()
	case SHA1:
		return sha1.New()
	default:
		panic(fmt.Sprintf("digest: unknown tag %v", t))
	}
}

// Sum hashes data in one shot using the digest named by tag.
func Sum(t Tag, data []byte) []byte {
	h := New(t)
	h.Write(data)
	return h.Sum(nil)
}
