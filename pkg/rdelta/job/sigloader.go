package job

import (
	"github.com/deltasync/rdelta/pkg/rdelta/buf"
	"github.com/deltasync/rdelta/pkg/rdelta/signature"
	"github.com/deltasync/rdelta/pkg/rdelta/status"
	"github.com/deltasync/rdelta/pkg/rdelta/wire"
)

type sigLoaderState int

const (
	slHeader sigLoaderState = iota
	slBlock
	slDone
)

// sigLoader parses a signature stream back into a Signature, then builds
// its hash table once every block record has been read.
type sigLoader struct {
	sig    *signature.Signature
	recLen int
	st     sigLoaderState
}

func newSigLoader() *sigLoader {
	return &sigLoader{}
}

func (sl *sigLoader) run(b *Buffers, sc *buf.Scoop) status.Result {
	for {
		var r status.Result
		switch sl.st {
		case slHeader:
			r = sl.stepHeader(b, sc)
		case slBlock:
			r = sl.stepBlock(b, sc)
		case slDone:
			return status.Done
		}
		if r != status.Running {
			return r
		}
	}
}

func (sl *sigLoader) stepHeader(b *Buffers, sc *buf.Scoop) status.Result {
	res, data := sc.Readahead(b, 4)
	if res != status.Done {
		return res
	}
	magic := signature.Magic(wire.GetInt(data[0:4], 4))
	if !magic.Valid() {
		return status.BadMagic
	}

	res, data = sc.Read(b, 12)
	if res != status.Done {
		return res
	}
	blockLen := uint32(wire.GetInt(data[4:8], 4))
	strongLen := uint32(wire.GetInt(data[8:12], 4))

	sig, err := signature.New(magic, blockLen, strongLen, -1)
	if err != nil {
		return status.ParamError
	}
	sl.sig = sig
	sl.recLen = 4 + int(strongLen)
	sl.st = slBlock
	return status.Running
}

func (sl *sigLoader) stepBlock(b *Buffers, sc *buf.Scoop) status.Result {
	res, data := sc.Readahead(b, sl.recLen)
	switch res {
	case status.Done:
		sc.Advance(sl.recLen)
		weakSum := uint32(wire.GetInt(data[0:4], 4))
		strongSum := append([]byte(nil), data[4:]...)
		if err := sl.sig.AppendBlock(weakSum, strongSum); err != nil {
			return status.Corrupt
		}
		return status.Running
	case status.InputEnded:
		if sc.TotalAvail(b) > 0 {
			return status.Corrupt
		}
		if err := sl.sig.BuildHashTable(); err != nil {
			return status.MemError
		}
		sl.st = slDone
		return status.Running
	default:
		return res
	}
}
