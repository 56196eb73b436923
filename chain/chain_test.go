package chain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/WanisC/arc-en-ciel/password"
	"github.com/WanisC/arc-en-ciel/sha3"
)

func TestEndpointIsDeterministic(t *testing.T) {
	start, err := password.New("0000000")
	require.NoError(t, err)
	require.Equal(t, Endpoint(start, 10), Endpoint(start, 10))
}

func TestConfirmsAcceptsTrueChain(t *testing.T) {
	start, err := password.New("0000000")
	require.NoError(t, err)

	p := Step(start, 0, 3)
	h := sha3.Sum256([]byte(p))

	got, ok := Confirms(start, h, 3)
	require.True(t, ok)
	require.Equal(t, p, got)
}

func TestConfirmsRejectsWrongStep(t *testing.T) {
	start, err := password.New("0000000")
	require.NoError(t, err)

	p := Step(start, 0, 3)
	h := sha3.Sum256([]byte(p))

	_, ok := Confirms(start, h, 2)
	require.False(t, ok)
}

func TestStepZeroIsIdentity(t *testing.T) {
	start, err := password.New("abc1234")
	require.NoError(t, err)
	require.Equal(t, start, Step(start, 0, 0))
}
