// Package rdelta provides whole-stream convenience wrappers around
// pkg/rdelta/job for callers who would rather hand it an io.Reader and
// io.Writer than manage Buffers by hand.
package rdelta

import (
	"io"

	"github.com/pkg/errors"

	"github.com/deltasync/rdelta/pkg/rdelta/job"
	"github.com/deltasync/rdelta/pkg/rdelta/signature"
)

// Default chunk sizes used by the whole-stream wrappers below.
const (
	DefaultInBufLen  = 64 * 1024
	DefaultOutBufLen = 64 * 1024
)

// Signature computes a signature for basis and writes it in wire format to
// w. A zero blockLen, strongLen, or magic picks the matching default.
func Signature(basis io.Reader, w io.Writer, blockLen, strongLen uint32, magic signature.Magic) (job.Stats, error) {
	return drive(job.SigBegin(blockLen, strongLen, magic), basis, w)
}

// LoadSignature parses a signature stream from r and returns the loaded,
// hash-table-built Signature, ready to be passed to Delta.
func LoadSignature(r io.Reader) (*signature.Signature, error) {
	j := job.LoadSigBegin()
	if _, err := drive(j, r, io.Discard); err != nil {
		return nil, err
	}
	return j.Signature(), nil
}

// Delta scans newStream against sig (already hash-table-built) and writes
// the resulting delta stream to w. Pass a nil sig to produce a delta with
// no basis matching at all (every byte carried as a literal).
func Delta(sig *signature.Signature, newStream io.Reader, w io.Writer) (job.Stats, error) {
	return drive(job.DeltaBegin(sig), newStream, w)
}

// ReaderAtCopyCallback adapts a random-access basis (an io.ReaderAt, such as
// an *os.File) into a job.CopyCallback for use with Patch.
func ReaderAtCopyCallback(basis io.ReaderAt) job.CopyCallback {
	return func(_ interface{}, pos int64, maxLen int) ([]byte, job.Result) {
		chunk := make([]byte, maxLen)
		n, err := basis.ReadAt(chunk, pos)
		switch {
		case n > 0 && err == nil:
			return chunk[:n], job.Done
		case n > 0 && err == io.EOF:
			return chunk[:n], job.InputEnded
		case err == io.EOF:
			return nil, job.InputEnded
		case err != nil:
			return nil, job.IOError
		default:
			return chunk[:n], job.Done
		}
	}
}

// Patch applies delta (read from deltaStream) against a basis reachable
// through cb, writing the reconstructed file to w.
func Patch(cb job.CopyCallback, arg interface{}, deltaStream io.Reader, w io.Writer) (job.Stats, error) {
	return drive(job.PatchBegin(cb, arg), deltaStream, w)
}

// drive pumps j to completion, reading chunks from r and writing produced
// output to w, translating a terminal non-Done Result into a wrapped error.
func drive(j *job.Job, r io.Reader, w io.Writer) (job.Stats, error) {
	defer j.Free()

	in := make([]byte, DefaultInBufLen)
	out := make([]byte, DefaultOutBufLen)

	var pending []byte
	eof := false

	for {
		if len(pending) == 0 && !eof {
			n, err := r.Read(in)
			if err != nil && err != io.EOF {
				return job.Stats{}, errors.Wrap(err, "unable to read input")
			}
			if err == io.EOF || n == 0 {
				eof = true
			}
			pending = in[:n]
		}

		b := &job.Buffers{NextIn: pending, NextOut: out, EOFIn: eof}
		result := j.Iter(b)

		consumed := len(pending) - len(b.NextIn)
		pending = pending[consumed:]

		if produced := len(out) - len(b.NextOut); produced > 0 {
			if _, err := w.Write(out[:produced]); err != nil {
				return job.Stats{}, errors.Wrap(err, "unable to write output")
			}
		}

		switch result {
		case job.Done:
			return j.Stats(), nil
		case job.Blocked:
			continue
		default:
			return job.Stats{}, errors.Errorf("rdelta: operation failed: %s", result)
		}
	}
}
