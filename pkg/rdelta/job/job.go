// Package job composes the signature builder/loader, delta scanner, and
// patch interpreter into a single Job type presenting one uniform streaming
// API: repeatedly call Iter with a Buffers describing the input and output
// currently on hand, until it returns something other than BLOCKED.
package job

import (
	"github.com/google/uuid"

	"github.com/deltasync/rdelta/pkg/rdelta/buf"
	"github.com/deltasync/rdelta/pkg/rdelta/delta"
	"github.com/deltasync/rdelta/pkg/rdelta/patch"
	"github.com/deltasync/rdelta/pkg/rdelta/signature"
	"github.com/deltasync/rdelta/pkg/rdelta/status"
	"github.com/deltasync/rdelta/pkg/rdelta/trace"
)

// Result is the outcome of a single Iter call.
type Result = status.Result

// Result values, re-exported so callers don't need to import the status
// package directly.
const (
	Done       = status.Done
	Blocked    = status.Blocked
	InputEnded = status.InputEnded
	BadMagic   = status.BadMagic
	Corrupt    = status.Corrupt
	ParamError = status.ParamError
	MemError   = status.MemError
	IOError    = status.IOError
)

// Buffers is the mutable I/O window passed to Job.Iter on every step.
type Buffers = buf.Buffers

// CopyCallback supplies basis bytes to a patch job; see patch.CopyCallback.
type CopyCallback = patch.CopyCallback

// Stats accumulates counters describing the commands a job processed. Only
// the fields relevant to a job's kind are populated.
type Stats struct {
	LiteralCmds  uint64
	LiteralBytes uint64
	CopyCmds     uint64
	CopyBytes    uint64
	Matches      uint64
	FalseMatches uint64
}

type kind int

const (
	kindSigBuild kind = iota
	kindSigLoad
	kindDelta
	kindPatch
)

// Job drives one signature build, signature load, delta, or patch operation
// from start to finish. A Job is not safe for concurrent use by multiple
// goroutines, but distinct Jobs (even ones sharing a read-only Signature)
// are fully independent.
type Job struct {
	id   uuid.UUID
	kind kind

	sc buf.Scoop
	tb buf.Tube

	sb      *sigBuilder
	sl      *sigLoader
	scanner *delta.Scanner
	interp  *patch.Interpreter

	finished bool
	terminal Result

	tracer *trace.Tracer
}

// ID returns a correlation identifier unique to this job, suitable for
// attaching to trace output when a process drives many jobs at once.
func (j *Job) ID() uuid.UUID { return j.id }

// SetTracer attaches a tracer to the job, replacing the default disabled
// one. The job's completion (with stats) or failure is reported through it;
// false matches are counted in Stats and not traced.
func (j *Job) SetTracer(t *trace.Tracer) *Job {
	j.tracer = t.Sublogger(j.id.String()[:8])
	return j
}

// SigBegin starts a job that builds a signature from a basis stream,
// emitting it in wire format. A zero magic, blockLen, or strongLen picks the
// matching default (see signature.Args).
func SigBegin(blockLen, strongLen uint32, magic signature.Magic) *Job {
	j := &Job{id: uuid.New(), kind: kindSigBuild, sb: newSigBuilder(magic, blockLen, strongLen), tracer: trace.Root}
	j.tracer.Infof("signature build job %s started (blockLen=%d strongLen=%d magic=%#x)", j.id, blockLen, strongLen, uint32(magic))
	return j
}

// LoadSigBegin starts a job that parses a signature stream. Once Iter
// returns Done, call Signature to retrieve the loaded, hash-table-built
// Signature.
func LoadSigBegin() *Job {
	return &Job{id: uuid.New(), kind: kindSigLoad, sl: newSigLoader(), tracer: trace.Root}
}

// Signature returns the signature loaded by a LoadSigBegin job. It is valid
// only after Iter has returned Done.
func (j *Job) Signature() *signature.Signature {
	if j.sl == nil {
		return nil
	}
	return j.sl.sig
}

// DeltaBegin starts a job that scans a new-file stream against sig (which
// must have had BuildHashTable called already), emitting a delta stream.
// Pass nil to scan in slack (no-basis) mode.
func DeltaBegin(sig *signature.Signature) *Job {
	return &Job{id: uuid.New(), kind: kindDelta, scanner: delta.NewScanner(sig), tracer: trace.Root}
}

// PatchBegin starts a job that applies a delta stream read from Iter's input
// against a basis read through cb, producing the reconstructed file on
// Iter's output.
func PatchBegin(cb CopyCallback, arg interface{}) *Job {
	return &Job{id: uuid.New(), kind: kindPatch, interp: patch.NewInterpreter(cb, arg), tracer: trace.Root}
}

// Iter advances the job as far as b allows, consuming from b.NextIn and
// producing into b.NextOut. Once a terminal Result (Done or an error) has
// been returned, further calls return that same Result immediately without
// touching b.
func (j *Job) Iter(b *Buffers) Result {
	if j.finished {
		return j.terminal
	}

	var r Result
	switch j.kind {
	case kindSigBuild:
		r = j.sb.run(b, &j.sc, &j.tb)
	case kindSigLoad:
		r = j.sl.run(b, &j.sc)
	case kindDelta:
		r = j.scanner.Run(b, &j.sc, &j.tb)
	case kindPatch:
		r = j.interp.Run(b, &j.sc, &j.tb)
	}

	if r != Blocked {
		j.finished = true
		j.terminal = r
		if r == Done {
			j.tracer.Infof("job %s finished: %s", j.id, j.Stats())
		} else {
			j.tracer.Errorf("job %s failed: %s", j.id, r)
		}
	}
	return r
}

// Stats returns the running command counters. It is meaningful for delta
// and patch jobs; signature jobs return a zero Stats.
func (j *Job) Stats() Stats {
	switch j.kind {
	case kindDelta:
		s := j.scanner.Stats()
		return Stats{
			LiteralCmds: s.LiteralCmds, LiteralBytes: s.LiteralBytes,
			CopyCmds: s.CopyCmds, CopyBytes: s.CopyBytes,
			Matches: s.Matches, FalseMatches: s.FalseMatches,
		}
	case kindPatch:
		s := j.interp.Stats()
		return Stats{
			LiteralCmds: s.LiteralCmds, LiteralBytes: s.LiteralBytes,
			CopyCmds: s.CopyCmds, CopyBytes: s.CopyBytes,
		}
	default:
		return Stats{}
	}
}

// Free releases the job's internal state. The Go runtime doesn't need this
// for memory safety, but it drops held references (callbacks, signatures)
// promptly rather than waiting on the caller to drop the Job itself.
func (j *Job) Free() {
	j.sb = nil
	j.sl = nil
	j.scanner = nil
	j.interp = nil
}
