package job

import (
	"bytes"
	"testing"

	"github.com/deltasync/rdelta/pkg/rdelta/signature"
	"github.com/deltasync/rdelta/pkg/rdelta/status"
	"github.com/deltasync/rdelta/pkg/rdelta/trace"
)

// drive pumps a job to completion against an in-memory input, returning
// everything written to output.
func drive(t *testing.T, j *Job, input []byte, outChunk int) []byte {
	t.Helper()
	var out []byte
	pos := 0
	chunkIn := 11
	for {
		var nextIn []byte
		eof := pos >= len(input)
		if !eof {
			end := pos + chunkIn
			if end > len(input) {
				end = len(input)
			}
			nextIn = input[pos:end]
		}
		outBuf := make([]byte, outChunk)
		b := &Buffers{NextIn: nextIn, NextOut: outBuf, EOFIn: eof}
		res := j.Iter(b)
		pos += len(nextIn) - len(b.NextIn)
		out = append(out, outBuf[:len(outBuf)-len(b.NextOut)]...)
		switch res {
		case Done:
			return out
		case Blocked:
			continue
		default:
			t.Fatalf("job returned unexpected result %v", res)
		}
	}
}

func TestSignatureBuildAndLoadRoundTrip(t *testing.T) {
	basis := bytes.Repeat([]byte("the quick brown fox "), 200)

	sigJob := SigBegin(0, 0, 0)
	sigStream := drive(t, sigJob, basis, 37)

	loadJob := LoadSigBegin()
	if out := drive(t, loadJob, sigStream, 37); len(out) != 0 {
		t.Fatalf("signature loading should not produce output, got %d bytes", len(out))
	}

	sig := loadJob.Signature()
	if sig == nil {
		t.Fatal("expected a loaded signature")
	}
	if !sig.Built() {
		t.Fatal("expected loaded signature's hash table to be built")
	}
	if sig.BlockCount() == 0 {
		t.Fatal("expected at least one block")
	}
}

func TestDeltaAndPatchRoundTrip(t *testing.T) {
	basis := bytes.Repeat([]byte("ABCDEFGHIJKLMNOP"), 300)
	newData := append(append([]byte{}, basis[:1000]...), []byte("INSERTED-SECTION-OF-NEW-BYTES")...)
	newData = append(newData, basis[1000:]...)

	sigJob := SigBegin(256, 0, signature.MagicBlake2RabinKarp)
	sigStream := drive(t, sigJob, basis, 64)

	loadJob := LoadSigBegin()
	drive(t, loadJob, sigStream, 64)
	sig := loadJob.Signature()

	deltaJob := DeltaBegin(sig)
	deltaStream := drive(t, deltaJob, newData, 64)

	cb := func(arg interface{}, pos int64, maxLen int) ([]byte, status.Result) {
		if pos >= int64(len(basis)) {
			return nil, status.InputEnded
		}
		end := pos + int64(maxLen)
		if end > int64(len(basis)) {
			end = int64(len(basis))
		}
		return basis[pos:end], status.Done
	}
	patchJob := PatchBegin(cb, nil)
	reconstructed := drive(t, patchJob, deltaStream, 64)

	if !bytes.Equal(reconstructed, newData) {
		t.Fatalf("patch output does not match original new data (got %d bytes, want %d)", len(reconstructed), len(newData))
	}
}

func TestJobStickyTerminalResult(t *testing.T) {
	j := LoadSigBegin()
	b := &Buffers{NextIn: []byte{0xde, 0xad, 0xbe, 0xef}, NextOut: make([]byte, 16), EOFIn: true}
	res := j.Iter(b)
	if res != BadMagic {
		t.Fatalf("res = %v, want BadMagic", res)
	}
	res2 := j.Iter(&Buffers{EOFIn: true})
	if res2 != BadMagic {
		t.Fatalf("second Iter call = %v, want sticky BadMagic", res2)
	}
}

func TestSetTracerAttachesSubloggerWithoutPanicking(t *testing.T) {
	basis := bytes.Repeat([]byte("tracer smoke test "), 50)
	sigJob := SigBegin(64, 0, signature.MagicBlake2RabinKarp).SetTracer(trace.New(trace.LevelDebug))
	if out := drive(t, sigJob, basis, 32); len(out) == 0 {
		t.Fatal("expected signature output even with a tracer attached")
	}
}

func TestSigBeginRejectsInvalidStrongLen(t *testing.T) {
	j := SigBegin(1024, 999, signature.MagicMD4RollSum)
	res := j.Iter(&Buffers{EOFIn: true, NextOut: make([]byte, 16)})
	if res != ParamError {
		t.Fatalf("res = %v, want ParamError", res)
	}
}
