// Package signature implements the block-signature index (weak/strong hash
// pairs per fixed-size block of a basis file) and the hash table used to
// find candidate matches for it while scanning a new file.
package signature

import (
	"github.com/deltasync/rdelta/pkg/rdelta/strong"
	"github.com/deltasync/rdelta/pkg/rdelta/weak"
)

// Magic identifies the weak/strong hash algorithm pair a signature stream
// was built with. It is the first four bytes of every signature stream.
type Magic uint32

const (
	MagicMD4RollSum      Magic = 0x72730136
	MagicBlake2RollSum   Magic = 0x72730137
	MagicMD4RabinKarp    Magic = 0x72730146
	MagicBlake2RabinKarp Magic = 0x72730147
)

// Valid reports whether m is one of the four recognized magic numbers.
func (m Magic) Valid() bool {
	switch m {
	case MagicMD4RollSum, MagicBlake2RollSum, MagicMD4RabinKarp, MagicBlake2RabinKarp:
		return true
	default:
		return false
	}
}

// WeakKind returns the rolling-checksum algorithm this magic pairs with.
func (m Magic) WeakKind() weak.Kind {
	switch m {
	case MagicMD4RollSum, MagicBlake2RollSum:
		return weak.RollSum
	default:
		return weak.RabinKarp
	}
}

// StrongKind returns the cryptographic checksum algorithm this magic pairs
// with.
func (m Magic) StrongKind() strong.Kind {
	switch m {
	case MagicMD4RollSum, MagicMD4RabinKarp:
		return strong.MD4
	default:
		return strong.BLAKE2B256
	}
}
