package signature

import (
	"math"

	"github.com/deltasync/rdelta/pkg/rdelta/strong"
)

// DefaultBlockLen is used when the basis size is unknown.
const DefaultBlockLen = 2048

// Args picks sane signature parameters for a basis of oldFileSize bytes (use
// a negative value if the size is unknown). The recommended block length is
// sqrt(oldFileSize), floored to a minimum of 256 and rounded down to a
// multiple of 128 (BLAKE2b's internal block size), trading signature size
// against delta size and match granularity. The strong length returned is
// the full, untruncated digest length for the chosen magic's algorithm; a
// caller wanting a smaller signature can truncate it explicitly.
func Args(oldFileSize int64) (magic Magic, blockLen, strongLen uint32) {
	magic = MagicBlake2RabinKarp

	switch {
	case oldFileSize < 0:
		blockLen = DefaultBlockLen
	case oldFileSize <= 256*256:
		blockLen = 256
	default:
		blockLen = uint32(math.Sqrt(float64(oldFileSize))) &^ 127
	}

	strongLen = uint32(strong.MaxLen(magic.StrongKind()))
	return magic, blockLen, strongLen
}
