// Package generator implements the parallel chain-table generator: one
// worker per shard, each walking a strided sequence of start passwords
// (worker sequences are disjoint only while the worker count is at most
// the stride), appending (start, end) records until cancelled or until
// its start password saturates to the sentinel.
package generator

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/WanisC/arc-en-ciel/chain"
	"github.com/WanisC/arc-en-ciel/common"
	"github.com/WanisC/arc-en-ciel/log"
	"github.com/WanisC/arc-en-ciel/password"
	"github.com/WanisC/arc-en-ciel/shard"
)

const (
	// MinChainLength and MaxChainLength bound the chain length parameter,
	// per spec §4.4.
	MinChainLength = 1
	MaxChainLength = 2048
)

// Config holds the generator's inputs, per spec §4.4.
type Config struct {
	Dir            string
	ChainLength    int
	PasswordLength int
	UseMemory      bool
	Workers        int // 0 means runtime.NumCPU()
}

// Cancel is the shared, process-wide cooperative cancellation flag
// described in spec §5: a single atomic bool, stored with release
// ordering by a signal handler and loaded with relaxed ordering by
// workers at each chain boundary.
type Cancel struct {
	flag atomic.Bool
}

// Set requests cancellation. Safe to call from a signal handler.
func (c *Cancel) Set() { c.flag.Store(true) }

// Requested reports whether cancellation has been requested.
func (c *Cancel) Requested() bool { return c.flag.Load() }

// Run generates shards under cfg.Dir until every worker's address-space
// slice is exhausted or cancel is triggered. It returns the first
// fatal I/O error encountered by any worker, if any.
func Run(ctx context.Context, cfg Config, cancel *Cancel) error {
	if cfg.ChainLength < MinChainLength || cfg.ChainLength > MaxChainLength {
		return fmt.Errorf("generator: chain length %d out of range [%d,%d]", cfg.ChainLength, MinChainLength, MaxChainLength)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	starts, err := seeds(cfg, workers)
	if err != nil {
		return err
	}

	mem, err := shard.CreateMemory(cfg.Dir)
	if err != nil {
		return err
	}

	logger := log.New("component", "generator")
	logger.Info("starting generation", "workers", workers, "chain", cfg.ChainLength, "length", cfg.PasswordLength)
	started := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		i, start := i, starts[i]
		g.Go(func() error {
			return runWorker(ctx, cfg, i, start, cancel, mem)
		})
	}

	err = g.Wait()
	if closeErr := mem.Close(); err == nil {
		err = closeErr
	}
	logger.Info("generation finished", "elapsed", common.PrettyDuration(time.Since(started)).String())
	return err
}

// stride is the distance between successive chains' start passwords:
// floor(0.9 * chainLength), per spec §4.4 — starts are spaced closer
// than the chain length for ~10% intended overlap. Clamped to at least
// 1: chainLength 1 (admitted by MinChainLength) would otherwise floor
// to 0, which never advances the start password and loops forever.
func stride(chainLength int) uint64 {
	s := uint64(math.Floor(0.9 * float64(chainLength)))
	if s < 1 {
		return 1
	}
	return s
}

// seeds computes each worker's first start password, either from a
// sorted mem.txt (resume) or as the all-zero password plus the worker
// index (fresh run).
func seeds(cfg Config, workers int) ([]password.Password, error) {
	if cfg.UseMemory {
		loaded, ok, err := shard.LoadMemory(cfg.Dir)
		if err != nil {
			return nil, err
		}
		if ok {
			if len(loaded) != workers {
				return nil, fmt.Errorf("generator: mem.txt has %d entries, want %d (one per worker)", len(loaded), workers)
			}
			return loaded, nil
		}
	}

	seed := password.Seed(cfg.PasswordLength)
	out := make([]password.Password, workers)
	for i := range out {
		out[i] = seed.Add(uint64(i))
	}
	return out, nil
}

// runWorker owns shard_<i> exclusively: it walks chains starting at
// successive start passwords (advancing by stride each time), appending
// one (start, end) record per chain, until the cancel flag is observed
// at a chain boundary or the start password saturates to the sentinel.
func runWorker(ctx context.Context, cfg Config, i int, start password.Password, cancel *Cancel, mem *shard.Memory) error {
	w, err := shard.CreateWriter(cfg.Dir, i)
	if err != nil {
		return err
	}
	defer w.Close()

	log := log.New("component", "generator", "worker", i)
	off := stride(cfg.ChainLength)
	p := start
	var chains uint64

	for !cancel.Requested() && !p.IsSentinel() {
		select {
		case <-ctx.Done():
			return writeCheckpoint(mem, p, w)
		default:
		}

		end := chain.Endpoint(p, cfg.ChainLength)
		if err := w.Append(p, end); err != nil {
			return fmt.Errorf("generator: worker %d: writing record: %w", i, err)
		}
		chains++
		p = p.Add(off)
	}

	log.Debug("worker stopping", "chains", chains, "cancelled", cancel.Requested())
	return writeCheckpoint(mem, p, w)
}

// writeCheckpoint flushes the shard's pending writes, then records the
// worker's next-to-process start password to mem.txt. The shard must be
// durable before the checkpoint is written, so a resumed run never
// believes more was persisted than actually was (spec §9.5).
func writeCheckpoint(mem *shard.Memory, next password.Password, w *shard.Writer) error {
	if err := w.Flush(); err != nil {
		return fmt.Errorf("generator: flushing shard: %w", err)
	}
	if err := mem.WriteLine(next); err != nil {
		return fmt.Errorf("generator: writing checkpoint: %w", err)
	}
	return nil
}
