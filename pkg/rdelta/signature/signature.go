package signature

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"

	"github.com/deltasync/rdelta/pkg/rdelta/strong"
	"github.com/deltasync/rdelta/pkg/rdelta/weak"
)

// BlockHash is the weak/strong checksum pair recorded for a single basis
// block.
type BlockHash struct {
	Weak   uint32
	Strong []byte
}

// Signature is an ordered list of basis block hashes plus a lazily built
// hash table from weak checksum to candidate block indices, used by the
// delta scanner to find matches in a new file.
type Signature struct {
	magic     Magic
	blockLen  uint32
	strongLen uint32

	blocks []BlockHash

	built bool
	table map[uint32][]int
	seen  map[string]struct{}
}

// New constructs an empty Signature. A zero magic, blockLen, or strongLen is
// replaced with the recommended default for the given expectedFileSize (see
// Args); pass a negative expectedFileSize if the basis size is unknown.
func New(magic Magic, blockLen, strongLen uint32, expectedFileSize int64) (*Signature, error) {
	if magic == 0 || blockLen == 0 || strongLen == 0 {
		defMagic, defBlockLen, defStrongLen := Args(expectedFileSize)
		if magic == 0 {
			magic = defMagic
		}
		if blockLen == 0 {
			blockLen = defBlockLen
		}
		if strongLen == 0 {
			strongLen = defStrongLen
		}
	}

	if !magic.Valid() {
		return nil, errors.Errorf("signature: invalid magic number %#x", uint32(magic))
	}

	maxStrong := uint32(strong.MaxLen(magic.StrongKind()))
	if strongLen > maxStrong {
		return nil, errors.Errorf("signature: strong length %d exceeds maximum %d for magic %#x", strongLen, maxStrong, uint32(magic))
	}

	s := &Signature{
		magic:     magic,
		blockLen:  blockLen,
		strongLen: strongLen,
	}
	if expectedFileSize > 0 && blockLen > 0 {
		s.blocks = make([]BlockHash, 0, expectedFileSize/int64(blockLen)+1)
	}
	return s, nil
}

// Magic returns the hash algorithm pair this signature was built with.
func (s *Signature) Magic() Magic { return s.magic }

// BlockLen returns the basis block size used to build this signature.
func (s *Signature) BlockLen() uint32 { return s.blockLen }

// StrongLen returns the truncated strong-sum length stored per block.
func (s *Signature) StrongLen() uint32 { return s.strongLen }

// BlockCount returns the number of blocks currently recorded.
func (s *Signature) BlockCount() int { return len(s.blocks) }

// Block returns the i'th recorded block hash.
func (s *Signature) Block(i int) BlockHash { return s.blocks[i] }

// Built reports whether BuildHashTable has been called.
func (s *Signature) Built() bool { return s.built }

// AppendBlock records one more basis block's checksums. It is an error to
// call this after BuildHashTable.
func (s *Signature) AppendBlock(weakSum uint32, strongSum []byte) error {
	if s.built {
		return errors.New("signature: cannot append a block after the hash table has been built")
	}
	if len(strongSum) != int(s.strongLen) {
		return errors.Errorf("signature: strong sum has length %d, want %d", len(strongSum), s.strongLen)
	}
	s.blocks = append(s.blocks, BlockHash{Weak: weakSum, Strong: strongSum})
	return nil
}

// mixedKey returns the hash table key for a block's weak checksum. RollSum
// digests need an avalanche mix before use as a key (see weak.Mix32);
// RabinKarp digests are used directly.
func (s *Signature) mixedKey(w uint32) uint32 {
	if s.magic.WeakKind() == weak.RollSum {
		return weak.Mix32(w)
	}
	return w
}

// BuildHashTable indexes the recorded blocks by (mixed) weak checksum, so
// FindMatch can look up candidates in constant time. Blocks that duplicate
// an earlier (weak, strong) pair are folded together, keeping only the
// first-inserted block for that pair: basis files are commonly full of
// repeated blocks (runs of zeros, padding), and carrying duplicate
// candidates forward would only slow down FindMatch's strong-sum
// confirmation loop without changing which offset a match resolves to.
func (s *Signature) BuildHashTable() error {
	if s.built {
		return nil
	}
	s.table = make(map[uint32][]int, len(s.blocks))
	s.seen = make(map[string]struct{}, len(s.blocks))
	for i, b := range s.blocks {
		key := fmt.Sprintf("%d:%x", b.Weak, b.Strong)
		if _, dup := s.seen[key]; dup {
			continue
		}
		s.seen[key] = struct{}{}
		mk := s.mixedKey(b.Weak)
		s.table[mk] = append(s.table[mk], i)
	}
	s.built = true
	return nil
}

// HasCandidates reports whether any basis block shares weakSum's (mixed)
// hash table key, without confirming a strong-sum match. The delta scanner
// uses this to distinguish an outright miss from a weak-checksum collision
// that the strong sum then ruled out, for its false-match statistic.
func (s *Signature) HasCandidates(weakSum uint32) bool {
	if !s.built {
		return false
	}
	return len(s.table[s.mixedKey(weakSum)]) > 0
}

// FindMatch looks for a basis block whose checksums match weakSum and data.
// It returns the byte offset of the matching block in the basis and true,
// or (0, false) if no block matches. BuildHashTable must have been called
// first.
func (s *Signature) FindMatch(weakSum uint32, data []byte) (int64, bool) {
	if !s.built {
		return 0, false
	}
	candidates := s.table[s.mixedKey(weakSum)]
	if len(candidates) == 0 {
		return 0, false
	}

	var strongSum []byte
	for _, idx := range candidates {
		b := s.blocks[idx]
		if b.Weak != weakSum {
			continue
		}
		if strongSum == nil {
			var err error
			strongSum, err = strong.Sum(s.magic.StrongKind(), data, int(s.strongLen))
			if err != nil {
				return 0, false
			}
		}
		if bytes.Equal(strongSum, b.Strong) {
			return int64(idx) * int64(s.blockLen), true
		}
	}
	return 0, false
}
