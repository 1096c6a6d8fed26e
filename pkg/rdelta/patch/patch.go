// Package patch implements the interpreter that replays a delta command
// stream against a basis, reconstructing the new file.
package patch

import (
	"github.com/deltasync/rdelta/pkg/rdelta/buf"
	"github.com/deltasync/rdelta/pkg/rdelta/status"
	"github.com/deltasync/rdelta/pkg/rdelta/wire"
)

// CopyCallback supplies basis bytes on demand while applying a COPY command.
// It should return up to maxLen bytes starting at pos; returning fewer is
// allowed. A result of status.Done or status.InputEnded with some data is
// accepted (the data is used either way); status.IOError aborts the patch.
type CopyCallback func(arg interface{}, pos int64, maxLen int) (data []byte, result status.Result)

// Stats accumulates counters describing the commands a patch run applied.
type Stats struct {
	LiteralCmds  uint64
	LiteralBytes uint64
	CopyCmds     uint64
	CopyBytes    uint64
}

type state int

const (
	stateHeader state = iota
	stateCmdByte
	stateParams
	stateRun
	stateCopying
	stateDone
)

// Interpreter applies one delta stream to one basis (via CopyCallback),
// producing the reconstructed new file.
type Interpreter struct {
	st    state
	proto wire.Proto

	param1 uint64
	param2 uint64

	basisPos int64
	basisLen int64

	copyCB  CopyCallback
	copyArg interface{}

	stats Stats
}

// NewInterpreter constructs a patch interpreter that reads basis bytes
// through cb, called with arg as its first parameter.
func NewInterpreter(cb CopyCallback, arg interface{}) *Interpreter {
	return &Interpreter{copyCB: cb, copyArg: arg}
}

// Stats returns the running command counters.
func (p *Interpreter) Stats() Stats { return p.stats }

// Run drives the interpreter forward as far as the supplied Buffers allow.
func (p *Interpreter) Run(b *buf.Buffers, sc *buf.Scoop, tb *buf.Tube) status.Result {
	for {
		if r := tb.Catchup(b, sc); r != status.Done {
			return r
		}

		var r status.Result
		switch p.st {
		case stateHeader:
			r = p.stepHeader(b, sc)
		case stateCmdByte:
			r = p.stepCmdByte(b, sc)
		case stateParams:
			r = p.stepParams(b, sc)
		case stateRun:
			r = p.stepRun(b, sc, tb)
		case stateCopying:
			r = p.stepCopying(b, tb)
		case stateDone:
			return status.Done
		}
		if r != status.Running {
			return r
		}
	}
}

func (p *Interpreter) stepHeader(b *buf.Buffers, sc *buf.Scoop) status.Result {
	res, data := sc.Read(b, 4)
	if res != status.Done {
		return res
	}
	if uint32(wire.GetInt(data, 4)) != wire.DeltaMagic {
		return status.BadMagic
	}
	p.st = stateCmdByte
	return status.Running
}

func (p *Interpreter) stepCmdByte(b *buf.Buffers, sc *buf.Scoop) status.Result {
	res, data := sc.Read(b, 1)
	if res != status.Done {
		return res
	}
	proto := wire.Lookup(data[0])
	if proto.Kind == wire.KindInvalid {
		return status.Corrupt
	}
	p.proto = proto
	if proto.Len1 == 0 && proto.Len2 == 0 {
		p.param1 = proto.Immediate
		p.param2 = 0
		p.st = stateRun
	} else {
		p.st = stateParams
	}
	return status.Running
}

func (p *Interpreter) stepParams(b *buf.Buffers, sc *buf.Scoop) status.Result {
	n := p.proto.Len1 + p.proto.Len2
	res, data := sc.Read(b, n)
	if res != status.Done {
		return res
	}
	p.param1 = wire.GetInt(data[:p.proto.Len1], p.proto.Len1)
	if p.proto.Len2 > 0 {
		p.param2 = wire.GetInt(data[p.proto.Len1:p.proto.Len1+p.proto.Len2], p.proto.Len2)
	} else {
		p.param2 = 0
	}
	p.st = stateRun
	return status.Running
}

func (p *Interpreter) stepRun(b *buf.Buffers, sc *buf.Scoop, tb *buf.Tube) status.Result {
	switch p.proto.Kind {
	case wire.KindEnd:
		p.st = stateDone
		return status.Done
	case wire.KindLiteral:
		if p.param1 == 0 {
			return status.Corrupt
		}
		tb.QueueCopy(int(p.param1))
		p.stats.LiteralCmds++
		p.stats.LiteralBytes += p.param1
		p.st = stateCmdByte
		return tb.Catchup(b, sc)
	case wire.KindCopy:
		if p.param2 == 0 {
			return status.Corrupt
		}
		p.basisPos = int64(p.param1)
		p.basisLen = int64(p.param2)
		p.stats.CopyCmds++
		p.stats.CopyBytes += p.param2
		p.st = stateCopying
		return status.Running
	default:
		return status.Corrupt
	}
}

func (p *Interpreter) stepCopying(b *buf.Buffers, tb *buf.Tube) status.Result {
	if b.AvailOut() == 0 {
		return status.Blocked
	}
	want := int(p.basisLen)
	if b.AvailOut() < want {
		want = b.AvailOut()
	}

	data, res := p.copyCB(p.copyArg, p.basisPos, want)
	if res == status.IOError {
		return status.IOError
	}
	if len(data) > 0 {
		n := copy(b.NextOut, data)
		b.NextOut = b.NextOut[n:]
		p.basisPos += int64(n)
		p.basisLen -= int64(n)
	}
	if p.basisLen == 0 {
		p.st = stateCmdByte
		return status.Running
	}
	if res == status.InputEnded {
		return status.InputEnded
	}
	return status.Blocked
}
