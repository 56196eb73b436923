package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/WanisC/arc-en-ciel/generator"
	"github.com/WanisC/arc-en-ciel/hash"
	"github.com/WanisC/arc-en-ciel/password"
	"github.com/WanisC/arc-en-ciel/sha3"
)

// TestSearchFindsSeededStart mirrors spec vector V8: generating with a
// seeded start password and then searching for the SHA3 digest of that
// start must report back (digest, start).
func TestSearchFindsSeededStart(t *testing.T) {
	dir := t.TempDir()
	genCfg := generator.Config{
		Dir:            dir,
		ChainLength:    3,
		PasswordLength: 1,
		Workers:        1,
	}
	require.NoError(t, generator.Run(context.Background(), genCfg, new(generator.Cancel)))

	seed, err := password.New("0")
	require.NoError(t, err)
	target := sha3.Sum256([]byte(seed))

	result, err := runWithOneWorker(dir, genCfg.ChainLength, genCfg.PasswordLength, target)
	require.NoError(t, err)
	require.Empty(t, result.Missing)
	require.Equal(t, seed, result.Found[target])
}

// TestSearchReportsMissingForUnseenDigest checks the failure path: a
// digest with no preimage in the table is reported as missing, not as
// an error.
func TestSearchReportsMissingForUnseenDigest(t *testing.T) {
	dir := t.TempDir()
	genCfg := generator.Config{
		Dir:            dir,
		ChainLength:    3,
		PasswordLength: 1,
		Workers:        1,
	}
	require.NoError(t, generator.Run(context.Background(), genCfg, new(generator.Cancel)))

	var bogus hash.Hash
	for i := range bogus {
		bogus[i] = 0xff
	}

	result, err := runWithOneWorker(dir, genCfg.ChainLength, genCfg.PasswordLength, bogus)
	require.NoError(t, err)
	require.Equal(t, []hash.Hash{bogus}, result.Missing)
}

// TestTrailOrderingIsLargestStepsFirst checks that the precomputed
// trail already satisfies §4.5.2's reverse-iteration requirement.
func TestTrailOrderingIsLargestStepsFirst(t *testing.T) {
	var h hash.Hash
	for i := range h {
		h[i] = byte(i)
	}
	tr := trail(h, 5, 3)
	require.Len(t, tr, 5)
	for i := 1; i < len(tr); i++ {
		require.Greater(t, tr[i-1].steps, tr[i].steps)
	}
	require.Equal(t, 0, tr[len(tr)-1].steps)
}

func runWithOneWorker(dir string, chainLength, pwLength int, target hash.Hash) (*Result, error) {
	return Run(context.Background(), Config{
		Dir:            dir,
		ChainLength:    chainLength,
		PasswordLength: pwLength,
		Hashes:         []hash.Hash{target},
		Workers:        1,
	})
}
