package strong

import (
	"encoding/hex"
	"testing"
)

// MD4 test vectors from RFC 1320.
func TestSumMD4Vectors(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "31d6cfe0d16ae931b73c59d7e0c089c0"},
		{"a", "bde52cb31de33e46245e05fbdbd6fb24"},
		{"abc", "a448017aaf21d8525fc10ae87aa6729d"},
		{"message digest", "d9130a8164549fe818874806e1c7014b"},
	}
	for _, c := range cases {
		got, err := Sum(MD4, []byte(c.in), 0)
		if err != nil {
			t.Fatalf("Sum(%q): %v", c.in, err)
		}
		if hex.EncodeToString(got) != c.want {
			t.Fatalf("Sum(%q) = %x, want %s", c.in, got, c.want)
		}
	}
}

func TestSumBlake2bMatchesFullLength(t *testing.T) {
	got, err := Sum(BLAKE2B256, []byte("hello world"), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != BLAKE2BSize {
		t.Fatalf("len = %d, want %d", len(got), BLAKE2BSize)
	}
}

func TestSumTruncation(t *testing.T) {
	got, err := Sum(BLAKE2B256, []byte("hello world"), 8)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 8 {
		t.Fatalf("len = %d, want 8", len(got))
	}

	full, err := Sum(BLAKE2B256, []byte("hello world"), 0)
	if err != nil {
		t.Fatal(err)
	}
	if hex.EncodeToString(got) != hex.EncodeToString(full[:8]) {
		t.Fatalf("truncated sum is not a prefix of the full sum")
	}
}

func TestSumRejectsOutOfRangeTruncation(t *testing.T) {
	if _, err := Sum(MD4, []byte("x"), MD4Size+1); err == nil {
		t.Fatal("expected error for truncation length beyond digest size")
	}
	if _, err := Sum(MD4, []byte("x"), -1); err == nil {
		t.Fatal("expected error for negative truncation length")
	}
}

func TestMaxLen(t *testing.T) {
	if MaxLen(MD4) != MD4Size {
		t.Fatalf("MaxLen(MD4) = %d, want %d", MaxLen(MD4), MD4Size)
	}
	if MaxLen(BLAKE2B256) != BLAKE2BSize {
		t.Fatalf("MaxLen(BLAKE2B256) = %d, want %d", MaxLen(BLAKE2B256), BLAKE2BSize)
	}
}
