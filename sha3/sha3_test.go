package sha3

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/WanisC/arc-en-ciel/hash"
)

func TestVectors(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"", "a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a"},
		{"abc", "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532"},
		{"password", "c0067d4af4e87f00dbac63b6156828237059172d1bbeac67427345d6a9fda484"},
	}
	for _, c := range cases {
		got := Sum256([]byte(c.input))
		require.Equal(t, c.want, got.Hex(), "SHA3-256(%q)", c.input)
	}
}

func TestSum256Length(t *testing.T) {
	got := Sum256([]byte("arbitrary input"))
	require.Len(t, got, hash.Size)
}

func TestStreamingMatchesOneShot(t *testing.T) {
	msg := []byte("the quick brown fox jumps over the lazy dog")
	one := Sum256(msg)

	d := New()
	d.Write(msg[:10])
	d.Write(msg[10:])
	var streamed hash.Hash
	copy(streamed[:], d.Sum(nil))

	require.Equal(t, one, streamed)
}

// TestDigestLength checks universal invariant 4: for all p, SHA3(p) is
// exactly 32 bytes.
func TestDigestLength(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 512).Draw(t, "length")
		buf := make([]byte, n)
		for i := range buf {
			buf[i] = byte(rapid.IntRange(0, 255).Draw(t, "byte"))
		}
		require.Len(t, Sum256(buf), hash.Size)
	})
}
