package job

import (
	"github.com/deltasync/rdelta/pkg/rdelta/buf"
	"github.com/deltasync/rdelta/pkg/rdelta/signature"
	"github.com/deltasync/rdelta/pkg/rdelta/status"
	"github.com/deltasync/rdelta/pkg/rdelta/strong"
	"github.com/deltasync/rdelta/pkg/rdelta/weak"
	"github.com/deltasync/rdelta/pkg/rdelta/wire"
)

type sigBuilderState int

const (
	sbHeader sigBuilderState = iota
	sbBlock
	sbDone
)

// sigBuilder scans a basis in fixed-size blocks, hashing each one and
// emitting a signature-stream record for it.
type sigBuilder struct {
	sig      *signature.Signature
	initErr  error
	blockLen int
	weakKind weak.Kind
	st       sigBuilderState
}

func newSigBuilder(magic signature.Magic, blockLen, strongLen uint32) *sigBuilder {
	sig, err := signature.New(magic, blockLen, strongLen, -1)
	sb := &sigBuilder{sig: sig, initErr: err}
	if sig != nil {
		sb.blockLen = int(sig.BlockLen())
		sb.weakKind = sig.Magic().WeakKind()
	}
	return sb
}

func (sb *sigBuilder) run(b *Buffers, sc *buf.Scoop, tb *buf.Tube) status.Result {
	if sb.initErr != nil {
		return status.ParamError
	}
	for {
		if r := tb.Catchup(b, sc); r != status.Done {
			return r
		}
		var r status.Result
		switch sb.st {
		case sbHeader:
			r = sb.stepHeader(tb)
		case sbBlock:
			r = sb.stepBlock(b, sc, tb)
		case sbDone:
			return status.Done
		}
		if r != status.Running {
			return r
		}
	}
}

func (sb *sigBuilder) stepHeader(tb *buf.Tube) status.Result {
	var hdr [12]byte
	wire.PutInt(hdr[0:4], uint64(sb.sig.Magic()), 4)
	wire.PutInt(hdr[4:8], uint64(sb.sig.BlockLen()), 4)
	wire.PutInt(hdr[8:12], uint64(sb.sig.StrongLen()), 4)
	tb.Write(hdr[:])
	sb.st = sbBlock
	return status.Running
}

func (sb *sigBuilder) stepBlock(b *Buffers, sc *buf.Scoop, tb *buf.Tube) status.Result {
	res, data := sc.Readahead(b, sb.blockLen)
	switch res {
	case status.Done:
		sc.Advance(sb.blockLen)
		return sb.hashAndEmit(tb, data)
	case status.InputEnded:
		rest := sc.ReadRest(b)
		if len(rest) == 0 {
			sb.st = sbDone
			return status.Running
		}
		return sb.hashAndEmit(tb, rest)
	default:
		return res
	}
}

func (sb *sigBuilder) hashAndEmit(tb *buf.Tube, data []byte) status.Result {
	ws := weak.New(sb.weakKind)
	ws.Update(data)
	weakSum := ws.Digest()

	strongSum, err := strong.Sum(sb.sig.Magic().StrongKind(), data, int(sb.sig.StrongLen()))
	if err != nil {
		return status.ParamError
	}
	if err := sb.sig.AppendBlock(weakSum, strongSum); err != nil {
		return status.MemError
	}

	var rec [4 + 32]byte
	wire.PutInt(rec[0:4], uint64(weakSum), 4)
	n := copy(rec[4:], strongSum)
	tb.Write(rec[:4+n])

	if len(data) < sb.blockLen {
		sb.st = sbDone
	}
	return status.Running
}
