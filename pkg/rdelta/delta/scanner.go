// Package delta implements the scanner that compares a new-file stream
// against a basis signature and emits a stream of LITERAL and COPY commands
// describing how to reconstruct the new file from the basis plus whatever
// bytes didn't match.
package delta

import (
	"github.com/deltasync/rdelta/pkg/rdelta/buf"
	"github.com/deltasync/rdelta/pkg/rdelta/signature"
	"github.com/deltasync/rdelta/pkg/rdelta/status"
	"github.com/deltasync/rdelta/pkg/rdelta/weak"
	"github.com/deltasync/rdelta/pkg/rdelta/wire"
)

// Stats accumulates counters describing the commands a scanner emitted.
type Stats struct {
	LiteralCmds  uint64
	LiteralBytes uint64
	CopyCmds     uint64
	CopyBytes    uint64
	Matches      uint64
	FalseMatches uint64
}

type state int

const (
	stateHeader state = iota
	stateScan
	stateFlush
	stateSlack
	stateEnd
)

// Scanner drives the delta command stream for one new-file stream against
// one (already hash-table-built) basis signature. A nil signature puts the
// scanner into "slack" mode: every input byte is carried through as
// LITERAL commands with no attempt at matching, which lets the same
// wire format and patch interpreter handle the no-basis case.
type Scanner struct {
	sig       *signature.Signature
	weakState weak.State

	scanBuf []byte
	scanLen int
	scanPos int

	basisPos int64
	basisLen int64

	st         state
	endEmitted bool

	stats Stats
}

// NewScanner constructs a scanner for sig. Pass nil for sig to scan in slack
// (no-basis) mode.
func NewScanner(sig *signature.Signature) *Scanner {
	s := &Scanner{sig: sig}
	if sig != nil {
		s.weakState = weak.New(sig.Magic().WeakKind())
	}
	return s
}

// Stats returns the running command counters.
func (s *Scanner) Stats() Stats { return s.stats }

// Run drives the scanner forward as far as the supplied Buffers allow.
func (s *Scanner) Run(b *buf.Buffers, sc *buf.Scoop, tb *buf.Tube) status.Result {
	for {
		if r := tb.Catchup(b, sc); r != status.Done {
			return r
		}

		var r status.Result
		switch s.st {
		case stateHeader:
			r = s.stepHeader(tb)
		case stateScan:
			r = s.stepScan(b, sc, tb)
		case stateFlush:
			r = s.stepFlush(b, sc, tb)
		case stateSlack:
			r = s.stepSlack(b, sc, tb)
		case stateEnd:
			r = s.stepEnd(tb)
		}
		if r != status.Running {
			return r
		}
	}
}

func (s *Scanner) stepHeader(tb *buf.Tube) status.Result {
	var hdr [4]byte
	wire.PutInt(hdr[:], uint64(wire.DeltaMagic), 4)
	tb.Write(hdr[:])
	if s.sig != nil {
		if !s.sig.Built() {
			return status.ParamError
		}
		s.st = stateScan
	} else {
		s.st = stateSlack
	}
	return status.Running
}

// getInput ensures the scan window holds block_len+MAX_DELTA_CMD bytes
// whenever more input remains, so a match search never runs out of
// lookahead mid-block; at true EOF it settles for whatever is left, since
// demanding the full window there would report InputEnded forever on a
// basis shorter than one window.
func (s *Scanner) getInput(b *buf.Buffers, sc *buf.Scoop, blockLen int) status.Result {
	minLen := blockLen + wire.MaxDeltaCmd
	scanLen := sc.TotalAvail(b)
	if scanLen < minLen && !b.EOFIn {
		scanLen = minLen
	}
	res, data := sc.Readahead(b, scanLen)
	if res == status.Done {
		s.scanBuf = data
		s.scanLen = scanLen
	}
	return res
}

func (s *Scanner) stepScan(b *buf.Buffers, sc *buf.Scoop, tb *buf.Tube) status.Result {
	blockLen := int(s.sig.BlockLen())
	if r := s.getInput(b, sc, blockLen); r != status.Done {
		return r
	}

	// A strict "<" leaves one byte of margin so Rotate always has a valid
	// lookahead byte to roll in; the one remaining full-or-short window at
	// the tail is left for stepFlush's shrinking-window scan instead.
	for s.scanPos+blockLen < s.scanLen {
		if r := s.scanStep(b, sc, tb, blockLen, false); r != status.Done {
			return r
		}
	}

	// getInput only settles for less than a full block_len+MAX_DELTA_CMD
	// window when input has actually ended, so reaching here with EOFIn set
	// means scanBuf already holds the complete tail.
	if b.EOFIn {
		s.st = stateFlush
		return status.Running
	}
	return status.Blocked
}

func (s *Scanner) stepFlush(b *buf.Buffers, sc *buf.Scoop, tb *buf.Tube) status.Result {
	blockLen := int(s.sig.BlockLen())
	if r := s.getInput(b, sc, blockLen); r != status.Done {
		return r
	}

	for s.scanPos < s.scanLen {
		if r := s.scanStep(b, sc, tb, blockLen, true); r != status.Done {
			return r
		}
	}

	if r := s.appendFlush(b, sc, tb); r != status.Done {
		return r
	}
	s.st = stateEnd
	return status.Running
}

// scanStep examines one candidate window starting at scanPos: a full
// blockLen window while scanning normally, or a shrinking tail window
// (flushMode) once input has ended and fewer than blockLen bytes remain.
func (s *Scanner) scanStep(b *buf.Buffers, sc *buf.Scoop, tb *buf.Tube, blockLen int, flushMode bool) status.Result {
	length := s.scanLen - s.scanPos
	if length > blockLen {
		length = blockLen
	}
	if length == 0 {
		return status.Done
	}

	if s.weakState.Count() == 0 {
		s.weakState.Update(s.scanBuf[s.scanPos : s.scanPos+length])
	}

	digest := s.weakState.Digest()
	pos, ok := s.sig.FindMatch(digest, s.scanBuf[s.scanPos:s.scanPos+length])
	if ok {
		s.stats.Matches++
		r := s.appendMatch(b, sc, tb, pos, length)
		s.weakState.Init()
		return r
	}
	if s.sig.HasCandidates(digest) {
		s.stats.FalseMatches++
	}

	if flushMode {
		s.weakState.Rollout(s.scanBuf[s.scanPos])
	} else {
		s.weakState.Rotate(s.scanBuf[s.scanPos], s.scanBuf[s.scanPos+blockLen])
	}
	return s.appendMiss(b, sc, tb, 1)
}

func (s *Scanner) appendMatch(b *buf.Buffers, sc *buf.Scoop, tb *buf.Tube, pos int64, length int) status.Result {
	if s.basisLen > 0 && s.basisPos+s.basisLen == pos && s.basisLen+int64(length) <= wire.MaxMissLen {
		s.basisLen += int64(length)
	} else {
		if r := s.appendFlush(b, sc, tb); r != status.Done {
			return r
		}
		s.basisPos = pos
		s.basisLen = int64(length)
	}
	s.scanPos += length
	return s.processMatch(b, sc, tb)
}

func (s *Scanner) appendMiss(b *buf.Buffers, sc *buf.Scoop, tb *buf.Tube, n int) status.Result {
	r := status.Done
	if s.basisLen > 0 || s.scanPos >= wire.MaxMissLen {
		r = s.appendFlush(b, sc, tb)
	}
	s.scanPos += n
	return r
}

func (s *Scanner) appendFlush(b *buf.Buffers, sc *buf.Scoop, tb *buf.Tube) status.Result {
	if !tb.IsIdle() {
		panic("delta: appendFlush called with a non-idle tube")
	}
	if s.basisLen > 0 {
		s.emitCopy(tb, s.basisPos, s.basisLen)
		s.basisLen = 0
		return s.processMatch(b, sc, tb)
	}
	if s.scanPos > 0 {
		n := s.scanPos
		s.emitLiteral(tb, n)
		tb.QueueCopy(n)
		s.scanBuf = s.scanBuf[n:]
		s.scanLen -= n
		s.scanPos = 0
		return tb.Catchup(b, sc)
	}
	return status.Done
}

// processMatch drops the bytes already accounted for by scanPos from the
// scoop's head and rebases the scan window onto what remains, then drains
// whatever the most recent command queued.
func (s *Scanner) processMatch(b *buf.Buffers, sc *buf.Scoop, tb *buf.Tube) status.Result {
	sc.Advance(s.scanPos)
	s.scanBuf = sc.Peek()
	s.scanLen = len(s.scanBuf)
	s.scanPos = 0
	return tb.Catchup(b, sc)
}

func (s *Scanner) emitCopy(tb *buf.Tube, pos, length int64) {
	posBytes := wire.IntLen(uint64(pos))
	lenBytes := wire.IntLen(uint64(length))
	op := wire.CopyOpcode(posBytes, lenBytes)

	var cmd [1 + 8 + 8]byte
	cmd[0] = op
	wire.PutInt(cmd[1:1+posBytes], uint64(pos), posBytes)
	wire.PutInt(cmd[1+posBytes:1+posBytes+lenBytes], uint64(length), lenBytes)
	tb.Write(cmd[:1+posBytes+lenBytes])

	s.stats.CopyCmds++
	s.stats.CopyBytes += uint64(length)
}

func (s *Scanner) emitLiteral(tb *buf.Tube, length int) {
	op, lenBytes := wire.LiteralOpcode(uint64(length))
	if lenBytes == 0 {
		tb.Write([]byte{op})
	} else {
		var cmd [1 + 8]byte
		cmd[0] = op
		wire.PutInt(cmd[1:1+lenBytes], uint64(length), lenBytes)
		tb.Write(cmd[:1+lenBytes])
	}
	s.stats.LiteralCmds++
	s.stats.LiteralBytes += uint64(length)
}

func (s *Scanner) stepSlack(b *buf.Buffers, sc *buf.Scoop, tb *buf.Tube) status.Result {
	if n := b.AvailIn(); n > 0 {
		if n > wire.MaxMissLen {
			n = wire.MaxMissLen
		}
		s.emitLiteral(tb, n)
		tb.QueueCopy(n)
		if r := tb.Catchup(b, sc); r != status.Done {
			return r
		}
		return status.Running
	}
	if sc.EOF(b) {
		s.st = stateEnd
		return status.Running
	}
	return status.Blocked
}

func (s *Scanner) stepEnd(tb *buf.Tube) status.Result {
	if s.endEmitted {
		return status.Done
	}
	tb.Write([]byte{wire.OpEnd})
	s.endEmitted = true
	return status.Running
}
