// Package wire encodes and decodes the on-the-wire primitives shared by the
// signature, delta, and patch streams: variable-width big-endian integers
// and the delta command opcodes built on top of them.
package wire

import "encoding/binary"

const (
	// MaxDeltaCmd bounds the scan lookahead the delta scanner keeps in its
	// window (block_len + MaxDeltaCmd bytes), and indirectly the largest
	// single command the scanner will emit.
	MaxDeltaCmd = 65536

	// MaxMissLen is the cap applied to both the run of pending literal bytes
	// and the run of a coalesced COPY match before a flush is forced. The
	// two caps were left as independent open questions; both are pinned to
	// MaxDeltaCmd-3 so that a LITERAL or COPY command (opcode byte plus up
	// to two 4-byte operands) never needs more than the tube's 36-byte
	// scratch buffer to encode.
	MaxMissLen = MaxDeltaCmd - 3

	// DeltaMagic opens every delta stream.
	DeltaMagic uint32 = 0x72730236
)

// IntLen returns the number of bytes (1, 2, 4, or 8) needed to encode v as a
// big-endian integer using the smallest of those widths that fits.
func IntLen(v uint64) int {
	switch {
	case v <= 0xff:
		return 1
	case v <= 0xffff:
		return 2
	case v <= 0xffffffff:
		return 4
	default:
		return 8
	}
}

// PutInt writes v into buf as a big-endian integer of the given width. buf
// must have length exactly width.
func PutInt(buf []byte, v uint64, width int) {
	switch width {
	case 1:
		buf[0] = byte(v)
	case 2:
		binary.BigEndian.PutUint16(buf, uint16(v))
	case 4:
		binary.BigEndian.PutUint32(buf, uint32(v))
	case 8:
		binary.BigEndian.PutUint64(buf, v)
	default:
		panic("wire: unsupported integer width")
	}
}

// GetInt reads a big-endian integer of the given width from buf.
func GetInt(buf []byte, width int) uint64 {
	switch width {
	case 1:
		return uint64(buf[0])
	case 2:
		return uint64(binary.BigEndian.Uint16(buf))
	case 4:
		return uint64(binary.BigEndian.Uint32(buf))
	case 8:
		return binary.BigEndian.Uint64(buf)
	default:
		panic("wire: unsupported integer width")
	}
}
