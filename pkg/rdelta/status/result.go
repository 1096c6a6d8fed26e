// Package status defines the result vocabulary shared by every state machine
// in rdelta's streaming core: the delta scanner, the patch interpreter, and
// the signature builder/loader jobs that sit on top of them.
package status

// Result is the outcome of a single step through a job's state machine. It is
// a distinct, lower-level vocabulary from Go's error type: BLOCKED and
// RUNNING are not failures, they mean "call again." Only the higher layers
// (pkg/rdelta's convenience wrappers and the CLI) translate a terminal,
// non-DONE Result into an error.
type Result int

const (
	// Done means the operation has completed successfully. It is sticky:
	// once returned, a job is expected to keep returning it.
	Done Result = iota
	// Blocked means no further progress is possible with the current
	// Buffers; the caller must supply more input, more output room, or
	// both, and call again.
	Blocked
	// Running is an internal-only signal used between state transitions; it
	// should never escape to a caller.
	Running
	// InputEnded means the input stream ended before a well-formed stream
	// could be completed.
	InputEnded
	// BadMagic means a stream started with a magic number this library does
	// not recognize.
	BadMagic
	// Corrupt means the stream violated the wire format in a way that isn't
	// captured by BadMagic (e.g. an unknown opcode, a zero-length literal).
	Corrupt
	// ParamError means the caller supplied invalid parameters to a
	// constructor (e.g. a strong_len beyond the magic's maximum).
	ParamError
	// MemError means an internal allocation or bookkeeping step failed.
	MemError
	// IOError means a caller-supplied callback (e.g. a patch basis reader)
	// reported a failure of its own.
	IOError
)

// String renders the result the way the CLI and error-wrapping call sites
// report it.
func (r Result) String() string {
	switch r {
	case Done:
		return "done"
	case Blocked:
		return "blocked"
	case Running:
		return "running"
	case InputEnded:
		return "input ended unexpectedly"
	case BadMagic:
		return "bad magic number"
	case Corrupt:
		return "corrupt stream"
	case ParamError:
		return "invalid parameters"
	case MemError:
		return "internal allocation error"
	case IOError:
		return "I/O error"
	default:
		return "unknown result"
	}
}

// IsTerminalError reports whether r represents a terminal failure: anything
// other than DONE, BLOCKED, or the internal RUNNING signal.
func (r Result) IsTerminalError() bool {
	return r != Done && r != Blocked && r != Running
}
