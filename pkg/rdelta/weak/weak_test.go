package weak

import "testing"

func digestFromUpdate(kind Kind, window []byte) uint32 {
	s := New(kind)
	s.Update(window)
	return s.Digest()
}

func TestRollsumMatchesIncrementalUpdate(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog, 0123456789")
	windowLen := 8

	for kind, name := range map[Kind]string{RollSum: "rollsum", RabinKarp: "rabinkarp"} {
		t.Run(name, func(t *testing.T) {
			for start := 0; start+windowLen <= len(data); start++ {
				want := digestFromUpdate(kind, data[start:start+windowLen])

				s := New(kind)
				s.Update(data[0:windowLen])
				for i := 0; i < start; i++ {
					s.Rotate(data[i], data[i+windowLen])
				}
				got := s.Digest()

				if got != want {
					t.Fatalf("rotate digest mismatch at start=%d: got %#x want %#x", start, got, want)
				}
			}
		})
	}
}

func TestRollinRolloutRoundTrip(t *testing.T) {
	data := []byte("abcdefghijklmnopqrstuvwxyz")

	for kind, name := range map[Kind]string{RollSum: "rollsum", RabinKarp: "rabinkarp"} {
		t.Run(name, func(t *testing.T) {
			s := New(kind)
			for _, b := range data {
				s.Rollin(b)
			}
			if s.Count() != len(data) {
				t.Fatalf("count = %d, want %d", s.Count(), len(data))
			}
			for _, b := range data {
				s.Rollout(b)
			}
			if s.Count() != 0 {
				t.Fatalf("count after draining = %d, want 0", s.Count())
			}
			if s.Digest() != 0 {
				t.Fatalf("digest after draining = %#x, want 0", s.Digest())
			}
		})
	}
}

func TestMix32IsDeterministicAndSpreads(t *testing.T) {
	a := Mix32(0)
	b := Mix32(1)
	if a == b {
		t.Fatalf("Mix32(0) == Mix32(1), expected distinct outputs")
	}
	if Mix32(42) != Mix32(42) {
		t.Fatalf("Mix32 is not deterministic")
	}
}

func TestEmptyWindowDigestIsZero(t *testing.T) {
	for _, kind := range []Kind{RollSum, RabinKarp} {
		s := New(kind)
		if s.Digest() != 0 {
			t.Fatalf("empty window digest = %#x, want 0", s.Digest())
		}
	}
}
