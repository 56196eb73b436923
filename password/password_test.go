package password

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/WanisC/arc-en-ciel/alphabet"
)

func TestNewRejectsOutsideAlphabet(t *testing.T) {
	_, err := New("00 0")
	require.Error(t, err)
}

func TestNewAcceptsSentinel(t *testing.T) {
	p, err := New(alphabet.Sentinel)
	require.NoError(t, err)
	require.True(t, p.IsSentinel())
}

func TestSeedIsAllZeroDigits(t *testing.T) {
	require.Equal(t, Password("0000"), Seed(4))
}

func TestAddCarries(t *testing.T) {
	p, err := New("009")
	require.NoError(t, err)
	require.Equal(t, Password("00A"), p.Add(1))
}

func TestAddOverflowsToSentinel(t *testing.T) {
	p, err := New("**")
	require.NoError(t, err)
	require.True(t, p.Add(1).IsSentinel())
}

func TestAddZeroIsIdentity(t *testing.T) {
	p, err := New("0a9Z")
	require.NoError(t, err)
	require.Equal(t, p, p.Add(0))
}

func TestSubUndoesAdd(t *testing.T) {
	p, err := New("0a9Z!*")
	require.NoError(t, err)
	sum := p.Add(12345)
	require.False(t, sum.IsSentinel())
	require.Equal(t, p, sum.Sub(12345))
}

func TestLess(t *testing.T) {
	a, _ := New("000")
	b, _ := New("001")
	sentinel, _ := New(alphabet.Sentinel)
	require.True(t, a.Less(b))
	require.False(t, b.Less(a))
	require.True(t, b.Less(sentinel))
	require.False(t, sentinel.Less(a))
}

// TestAddThenSubIsIdentity checks universal invariant 1: for all
// passwords p of a fixed length and all k, if p+k is not the sentinel,
// then (p+k)-k == p.
func TestAddThenSubIsIdentity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		length := rapid.IntRange(1, 8).Draw(t, "length")
		digits := make([]byte, length)
		for i := range digits {
			digits[i] = alphabet.Char(rapid.Uint64Range(0, alphabet.Size-1).Draw(t, "digit"))
		}
		p := Password(digits)
		k := rapid.Uint64Range(0, 1<<40).Draw(t, "k")

		sum := p.Add(k)
		if sum.IsSentinel() {
			return
		}
		require.Equal(t, p, sum.Sub(k))
	})
}

// TestAddZeroInvariant checks universal invariant 2: p+0 == p.
func TestAddZeroInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		length := rapid.IntRange(1, 8).Draw(t, "length")
		digits := make([]byte, length)
		for i := range digits {
			digits[i] = alphabet.Char(rapid.Uint64Range(0, alphabet.Size-1).Draw(t, "digit"))
		}
		p := Password(digits)
		require.Equal(t, p, p.Add(0))
	})
}

func TestToBigIntOrdering(t *testing.T) {
	a, _ := New("0A*")
	b, _ := New("0Aa")
	require.True(t, a.ToBigInt().Cmp(b.ToBigInt()) < 0)
}
