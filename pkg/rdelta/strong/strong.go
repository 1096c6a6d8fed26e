// Package strong computes the cryptographic "strong" checksums used to
// confirm a weak-checksum match really is the same block of bytes.
package strong

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/md4"
)

// Kind selects the strong-hash algorithm a signature was built with.
type Kind int

const (
	// MD4 is the legacy strong sum, kept for signatures produced with the
	// legacy magic pairs.
	MD4 Kind = iota
	// BLAKE2B256 is the default strong sum for newly built signatures.
	BLAKE2B256
)

const (
	// MD4Size is the full digest length of MD4.
	MD4Size = 16
	// BLAKE2BSize is the full digest length of BLAKE2b-256.
	BLAKE2BSize = 32
)

// MaxLen returns the full, untruncated digest length for kind.
func MaxLen(kind Kind) int {
	if kind == MD4 {
		return MD4Size
	}
	return BLAKE2BSize
}

// Sum computes the strong checksum of block using the given algorithm,
// truncated to truncLen bytes. truncLen of 0 means the full digest length.
func Sum(kind Kind, block []byte, truncLen int) ([]byte, error) {
	max := MaxLen(kind)
	if truncLen == 0 {
		truncLen = max
	}
	if truncLen < 0 || truncLen > max {
		return nil, errors.Errorf("strong sum truncation length %d out of range [0, %d]", truncLen, max)
	}

	var full []byte
	switch kind {
	case MD4:
		h := md4.New()
		if _, err := h.Write(block); err != nil {
			return nil, errors.Wrap(err, "unable to compute MD4 sum")
		}
		full = h.Sum(nil)
	case BLAKE2B256:
		sum := blake2b.Sum256(block)
		full = sum[:]
	default:
		return nil, errors.Errorf("unknown strong sum kind %d", kind)
	}

	return full[:truncLen], nil
}
