package generator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/WanisC/arc-en-ciel/chain"
	"github.com/WanisC/arc-en-ciel/password"
	"github.com/WanisC/arc-en-ciel/shard"
)

func TestStrideIsNinetyPercentOfChainLength(t *testing.T) {
	require.Equal(t, uint64(9), stride(10))
	require.Equal(t, uint64(90), stride(100))
}

func TestStrideClampsToOneForShortChains(t *testing.T) {
	require.Equal(t, uint64(1), stride(1))
	require.Equal(t, uint64(1), stride(0))
}

func TestRunRejectsOutOfRangeChainLength(t *testing.T) {
	err := Run(context.Background(), Config{ChainLength: 0, PasswordLength: 4}, new(Cancel))
	require.Error(t, err)

	err = Run(context.Background(), Config{ChainLength: MaxChainLength + 1, PasswordLength: 4}, new(Cancel))
	require.Error(t, err)
}

// TestRunProducesFindableEndpoint mirrors spec vector V8: a single
// worker generating with a tiny password length must persist a record
// whose start is the seeded all-zero password and whose end is that
// chain's endpoint. Password length 1 keeps the worker's whole address
// space small enough to run to natural sentinel exhaustion, so the test
// needs no cancellation and carries no race with the worker loop.
func TestRunProducesFindableEndpoint(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		Dir:            dir,
		ChainLength:    3,
		PasswordLength: 1,
		UseMemory:      false,
		Workers:        1,
	}

	err := Run(context.Background(), cfg, new(Cancel))
	require.NoError(t, err)

	r, err := shard.OpenReader(dir, 0, 2*cfg.PasswordLength+1)
	require.NoError(t, err)
	defer r.Close()

	window, n, err := r.ReadWindow(0, cfg.PasswordLength)
	require.NoError(t, err)
	require.GreaterOrEqual(t, n, 1)

	seed := password.Seed(cfg.PasswordLength)
	want := chain.Endpoint(seed, cfg.ChainLength)
	require.Equal(t, seed, window[want])
}

func TestSeedsFromMemoryRequireOneLinePerWorker(t *testing.T) {
	dir := t.TempDir()
	mem, err := shard.CreateMemory(dir)
	require.NoError(t, err)
	require.NoError(t, mem.WriteLine(password.Seed(4)))
	require.NoError(t, mem.Close())

	_, err = seeds(Config{Dir: dir, PasswordLength: 4, UseMemory: true}, 2)
	require.Error(t, err)
}
