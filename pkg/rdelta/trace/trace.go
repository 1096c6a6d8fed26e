// Package trace provides the lightweight, job-aware tracing used by
// pkg/rdelta/job and its callers. A Tracer is safe for concurrent use, still
// functions (as a no-op) when nil, and writes through a single process-wide
// sink so a caller can redirect or reformat every trace line in one place
// rather than threading a logger through every constructor.
package trace

import (
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
)

func init() {
	log.SetOutput(os.Stderr)
}

// Sink receives one already-formatted trace line at the given level. The
// default sink writes it through the standard log package, colorized for
// Warn/Error.
type Sink func(level Level, line string)

var currentSink Sink = defaultSink

func defaultSink(level Level, line string) {
	switch level {
	case LevelWarn:
		line = color.YellowString(line)
	case LevelError:
		line = color.RedString(line)
	}
	log.Output(4, line)
}

// SetSink installs sink as the process-wide trace destination, replacing
// whatever was installed before (the default sink included). Passing nil
// restores the default.
func SetSink(sink Sink) {
	if sink == nil {
		sink = defaultSink
	}
	currentSink = sink
}

// Tracer is the main tracing type. A nil *Tracer is valid and traces
// nothing, so components can hold a Tracer field without nil-checking it
// before every call.
type Tracer struct {
	prefix string
	level  Level
}

// Root is the default, process-wide tracer every job starts from unless a
// caller attaches one of its own. Its level starts at LevelDisabled; call
// SetLevel to activate it.
var Root = &Tracer{}

// SetLevel sets Root's verbosity level. This is the one process-wide
// mutable knob callers are expected to touch (see cmd/rdelta's --trace
// flag); per-job overrides should construct their own Tracer with New
// instead of mutating Root.
func SetLevel(level Level) {
	Root.level = level
}

// New constructs a tracer at the given level.
func New(level Level) *Tracer {
	return &Tracer{level: level}
}

// WithLevel returns a copy of t at a different level, preserving its
// sublogger prefix.
func (t *Tracer) WithLevel(level Level) *Tracer {
	if t == nil {
		return New(level)
	}
	return &Tracer{prefix: t.prefix, level: level}
}

// Sublogger returns a child tracer whose messages are prefixed with name,
// nested under any existing prefix.
func (t *Tracer) Sublogger(name string) *Tracer {
	if t == nil {
		return nil
	}
	prefix := name
	if t.prefix != "" {
		prefix = t.prefix + "." + name
	}
	return &Tracer{prefix: prefix, level: t.level}
}

func (t *Tracer) enabled(level Level) bool {
	return t != nil && t.level >= level
}

func (t *Tracer) output(level Level, line string) {
	if t.prefix != "" {
		line = fmt.Sprintf("[%s] %s", t.prefix, line)
	}
	currentSink(level, line)
}

// Debugf traces a per-iteration state transition or other high-volume
// detail. No-op unless the tracer's level is at least LevelDebug.
func (t *Tracer) Debugf(format string, v ...interface{}) {
	if t.enabled(LevelDebug) {
		t.output(LevelDebug, fmt.Sprintf(format, v...))
	}
}

// Infof traces a job lifecycle event. No-op unless the tracer's level is at
// least LevelInfo.
func (t *Tracer) Infof(format string, v ...interface{}) {
	if t.enabled(LevelInfo) {
		t.output(LevelInfo, fmt.Sprintf(format, v...))
	}
}

// Warnf traces a recoverable anomaly. No-op unless the tracer's level is at
// least LevelWarn.
func (t *Tracer) Warnf(format string, v ...interface{}) {
	if t.enabled(LevelWarn) {
		t.output(LevelWarn, fmt.Sprintf(format, v...))
	}
}

// Errorf traces a terminal job failure. No-op unless the tracer's level is
// at least LevelError.
func (t *Tracer) Errorf(format string, v ...interface{}) {
	if t.enabled(LevelError) {
		t.output(LevelError, fmt.Sprintf(format, v...))
	}
}
