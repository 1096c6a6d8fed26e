package delta

import (
	"github.com/deltasync/rdelta/pkg/rdelta/buf"
	"github.com/deltasync/rdelta/pkg/rdelta/signature"
	"github.com/deltasync/rdelta/pkg/rdelta/status"
	"github.com/deltasync/rdelta/pkg/rdelta/strong"
	"github.com/deltasync/rdelta/pkg/rdelta/weak"
	"github.com/deltasync/rdelta/pkg/rdelta/wire"
	"testing"
)

func buildTestSignature(t *testing.T, blockLen int, data []byte) *signature.Signature {
	t.Helper()
	sig, err := signature.New(signature.MagicBlake2RabinKarp, uint32(blockLen), 32, int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	for off := 0; off < len(data); off += blockLen {
		end := off + blockLen
		if end > len(data) {
			end = len(data)
		}
		block := data[off:end]
		w := weak.New(weak.RabinKarp)
		w.Update(block)
		s, err := strong.Sum(strong.BLAKE2B256, block, 32)
		if err != nil {
			t.Fatal(err)
		}
		if err := sig.AppendBlock(w.Digest(), s); err != nil {
			t.Fatal(err)
		}
	}
	if err := sig.BuildHashTable(); err != nil {
		t.Fatal(err)
	}
	return sig
}

// runScanner drives a Scanner to completion over a single in-memory input,
// feeding it in small chunks and shrinking the output buffer to exercise
// BLOCKED transitions, returning the full emitted delta stream.
func runScanner(t *testing.T, sc *Scanner, input []byte, outChunk int) []byte {
	t.Helper()
	var scoop buf.Scoop
	var tube buf.Tube
	var out []byte

	pos := 0
	chunkIn := 7
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
		b := &buf.Buffers{NextIn: nextIn, NextOut: outBuf, EOFIn: eof}

		res := sc.Run(b, &scoop, &tube)

		consumed := len(nextIn) - len(b.NextIn)
		pos += consumed
		produced := len(outBuf) - len(b.NextOut)
		out = append(out, outBuf[:produced]...)

		switch res {
		case status.Done:
			return out
		case status.Blocked:
			continue
		default:
			t.Fatalf("scanner returned unexpected result %v", res)
		}
	}
}

func TestScannerIdenticalFileProducesCopyCommands(t *testing.T) {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i)
	}
	sig := buildTestSignature(t, 512, data)

	out := runScanner(t, NewScanner(sig), data, 32)

	if len(out) < 4 || wire.GetInt(out[:4], 4) != uint64(wire.DeltaMagic) {
		t.Fatalf("missing delta magic header")
	}
	if out[len(out)-1] != wire.OpEnd {
		t.Fatalf("missing END opcode at end of stream")
	}

	copyCmds := countOpcodeClass(out[4:], wire.OpCopy1, wire.OpCopy8)
	if copyCmds == 0 {
		t.Fatalf("expected at least one COPY command for an identical file")
	}
}

func TestScannerNoSignatureEmitsSlackLiterals(t *testing.T) {
	data := []byte("no basis available, everything must be literal")
	out := runScanner(t, NewScanner(nil), data, 16)

	if wire.GetInt(out[:4], 4) != uint64(wire.DeltaMagic) {
		t.Fatalf("missing delta magic header")
	}
	if out[len(out)-1] != wire.OpEnd {
		t.Fatalf("missing END opcode")
	}
}

func TestScannerShortFinalBlock(t *testing.T) {
	blockLen := 64
	data := make([]byte, blockLen*3+17)
	for i := range data {
		data[i] = byte(i * 3)
	}
	sig := buildTestSignature(t, blockLen, data)

	out := runScanner(t, NewScanner(sig), data, 8)
	if out[len(out)-1] != wire.OpEnd {
		t.Fatalf("missing END opcode")
	}
}

func TestScannerBlockedOutputStillCompletes(t *testing.T) {
	data := make([]byte, 2000)
	for i := range data {
		data[i] = byte(i % 251)
	}
	sig := buildTestSignature(t, 128, data)

	out := runScanner(t, NewScanner(sig), data, 1)
	if out[len(out)-1] != wire.OpEnd {
		t.Fatalf("missing END opcode with a 1-byte output buffer")
	}
}

func countOpcodeClass(stream []byte, low, high byte) int {
	count := 0
	i := 0
	for i < len(stream) {
		op := stream[i]
		proto := wire.Lookup(op)
		switch proto.Kind {
		case wire.KindEnd:
			return count
		case wire.KindCopy:
			count++
			i += 1 + proto.Len1 + proto.Len2
		case wire.KindLiteral:
			var litLen uint64
			if proto.Len1 == 0 {
				litLen = proto.Immediate
				i++
			} else {
				litLen = wire.GetInt(stream[i+1:i+1+proto.Len1], proto.Len1)
				i += 1 + proto.Len1
			}
			i += int(litLen)
		default:
			return count
		}
	}
	return count
}
