// Package buf provides the back-pressure-aware I/O plumbing shared by every
// job state machine: a lookahead ring (Scoop) for peeking ahead in the input
// past whatever the caller's Buffers currently expose, and a small
// write-through queue (Tube) for commands that mix freshly generated bytes
// with verbatim copies of already-scanned input.
package buf

import "github.com/deltasync/rdelta/pkg/rdelta/status"

// Buffers is the caller-supplied I/O window for a single Job.Iter call. A
// job consumes from the front of NextIn and appends to the front of
// NextOut, shrinking both slices as it goes; EOFIn tells the job no more
// input will ever arrive beyond what NextIn currently holds.
type Buffers struct {
	NextIn  []byte
	NextOut []byte
	EOFIn   bool
}

// AvailIn returns the number of unconsumed input bytes.
func (b *Buffers) AvailIn() int { return len(b.NextIn) }

// AvailOut returns the number of free output bytes.
func (b *Buffers) AvailOut() int { return len(b.NextOut) }

// Scoop is a lookahead buffer: it lets a state function ask for more bytes
// than are currently available in Buffers.NextIn, accumulating them across
// calls until enough have arrived.
type Scoop struct {
	data []byte
	head int
}

// Avail returns the number of bytes already buffered in the scoop.
func (s *Scoop) Avail() int { return len(s.data) - s.head }

// TotalAvail returns the bytes buffered in the scoop plus whatever Buffers
// currently has on hand.
func (s *Scoop) TotalAvail(b *Buffers) int { return s.Avail() + b.AvailIn() }

// EOF reports whether the scoop is drained and no more input will arrive.
func (s *Scoop) EOF(b *Buffers) bool { return s.Avail() == 0 && b.EOFIn }

// Peek returns the scoop's currently buffered bytes without consuming them.
func (s *Scoop) Peek() []byte { return s.data[s.head:] }

func (s *Scoop) compact() {
	if s.head == 0 {
		return
	}
	n := copy(s.data, s.data[s.head:])
	s.data = s.data[:n]
	s.head = 0
}

// Readahead ensures at least n bytes are buffered, pulling from Buffers as
// needed, and returns a view of exactly n bytes without consuming them.
// It returns Blocked if Buffers runs out of input before n bytes are
// available, or InputEnded if EOF is reached first.
func (s *Scoop) Readahead(b *Buffers, n int) (status.Result, []byte) {
	for s.Avail() < n {
		if b.AvailIn() == 0 {
			if b.EOFIn {
				return status.InputEnded, nil
			}
			return status.Blocked, nil
		}
		need := n - s.Avail()
		if need > b.AvailIn() {
			need = b.AvailIn()
		}
		s.compact()
		s.data = append(s.data, b.NextIn[:need]...)
		b.NextIn = b.NextIn[need:]
	}
	return status.Done, s.data[s.head : s.head+n]
}

// Read is Readahead followed by Advance(n) on success.
func (s *Scoop) Read(b *Buffers, n int) (status.Result, []byte) {
	res, data := s.Readahead(b, n)
	if res == status.Done {
		s.Advance(n)
	}
	return res, data
}

// Advance consumes n bytes from the front of the scoop.
func (s *Scoop) Advance(n int) {
	s.head += n
	if s.head == len(s.data) {
		s.data = s.data[:0]
		s.head = 0
	}
}

// Take returns up to n bytes without blocking: bytes already buffered in the
// scoop first, then bytes straight from Buffers if the scoop is empty. It
// may return fewer than n bytes, including zero, if none are available.
func (s *Scoop) Take(b *Buffers, n int) []byte {
	if s.Avail() > 0 {
		m := s.Avail()
		if m > n {
			m = n
		}
		data := s.data[s.head : s.head+m]
		s.Advance(m)
		return data
	}
	m := b.AvailIn()
	if m > n {
		m = n
	}
	data := b.NextIn[:m]
	b.NextIn = b.NextIn[m:]
	return data
}

// ReadRest drains and returns everything currently available, from both the
// scoop and Buffers, without requiring a minimum length. Used at EOF when a
// final, possibly short, chunk needs to be consumed as-is.
func (s *Scoop) ReadRest(b *Buffers) []byte {
	s.compact()
	s.data = append(s.data, b.NextIn...)
	b.NextIn = b.NextIn[len(b.NextIn):]
	data := s.data[s.head:]
	s.head = len(s.data)
	return data
}

// tubeMaxWrite bounds the size of a single freshly generated command (an
// opcode byte plus up to two 8-byte operands never exceeds this).
const tubeMaxWrite = 36

// Tube is a small write-through queue: it holds a short run of freshly
// generated output bytes (a just-emitted command), optionally followed by a
// run of bytes to be copied verbatim from the scoop/input (a LITERAL
// command's payload). Catchup drains both, respecting back-pressure from
// Buffers.NextOut.
type Tube struct {
	writeBuf [tubeMaxWrite]byte
	writeLen int
	copyLen  int
}

// IsIdle reports whether the tube has nothing queued. State functions that
// are about to queue a new command assert this first: queuing while the
// tube already holds an undrained command would silently drop it.
func (t *Tube) IsIdle() bool { return t.writeLen == 0 && t.copyLen == 0 }

// Write queues up to tubeMaxWrite bytes of freshly generated output.
func (t *Tube) Write(p []byte) {
	if t.writeLen+len(p) > tubeMaxWrite {
		panic("buf: tube write exceeds internal scratch buffer")
	}
	copy(t.writeBuf[t.writeLen:], p)
	t.writeLen += len(p)
}

// QueueCopy queues n bytes to be copied verbatim from the scoop/input once
// the write buffer has drained.
func (t *Tube) QueueCopy(n int) { t.copyLen += n }

// Catchup drains whatever is queued into Buffers.NextOut, respecting
// available output room. It returns Done once the tube is empty, Blocked if
// output room ran out first, or InputEnded if the copy-through portion needs
// more input than remains.
func (t *Tube) Catchup(b *Buffers, sc *Scoop) status.Result {
	if t.writeLen > 0 {
		n := t.writeLen
		if avail := b.AvailOut(); n > avail {
			n = avail
		}
		copy(b.NextOut, t.writeBuf[:n])
		b.NextOut = b.NextOut[n:]
		if n < t.writeLen {
			copy(t.writeBuf[:t.writeLen-n], t.writeBuf[n:t.writeLen])
			t.writeLen -= n
			return status.Blocked
		}
		t.writeLen = 0
	}

	for t.copyLen > 0 {
		if b.AvailOut() == 0 {
			return status.Blocked
		}
		chunk := sc.Take(b, minInt(t.copyLen, b.AvailOut()))
		if len(chunk) == 0 {
			if sc.TotalAvail(b) == 0 && b.EOFIn {
				return status.InputEnded
			}
			return status.Blocked
		}
		n := copy(b.NextOut, chunk)
		b.NextOut = b.NextOut[n:]
		t.copyLen -= n
	}
	return status.Done
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
