package trace

// Level represents a trace verbosity level. Values are ordered and
// comparable directly.
type Level uint

const (
	// LevelDisabled indicates that tracing is completely disabled.
	LevelDisabled Level = iota
	// LevelError indicates that only terminal job failures are traced.
	LevelError
	// LevelWarn indicates that recoverable anomalies (false matches, a
	// shrinking final block, a retried read) are traced in addition to
	// errors.
	LevelWarn
	// LevelInfo indicates that job lifecycle events (begin, stats on
	// completion) are traced in addition to warnings and errors.
	LevelInfo
	// LevelDebug indicates that per-iteration state transitions are traced
	// in addition to everything above.
	LevelDebug
)

// NameToLevel converts a string name to a Level. It reports whether name was
// recognized; on failure it returns LevelDisabled.
func NameToLevel(name string) (Level, bool) {
	switch name {
	case "disabled":
		return LevelDisabled, true
	case "error":
		return LevelError, true
	case "warn":
		return LevelWarn, true
	case "info":
		return LevelInfo, true
	case "debug":
		return LevelDebug, true
	default:
		return LevelDisabled, false
	}
}

// String provides a human-readable representation of a Level.
func (l Level) String() string {
	switch l {
	case LevelDisabled:
		return "disabled"
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}
