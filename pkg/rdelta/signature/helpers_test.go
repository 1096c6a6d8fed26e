package signature

import (
	"github.com/deltasync/rdelta/pkg/rdelta/strong"
	"github.com/deltasync/rdelta/pkg/rdelta/weak"
)

func weakDigest(block []byte) uint32 {
	s := weak.New(weak.RabinKarp)
	s.Update(block)
	return s.Digest()
}

func strongSumFor(sig *Signature, block []byte) ([]byte, error) {
	return strong.Sum(sig.magic.StrongKind(), block, int(sig.strongLen))
}
