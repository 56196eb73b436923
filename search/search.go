// Package search implements the parallel searcher: per-digest reduction
// trail precomputation, windowed shard scanning for endpoint hits, and
// chain-replay confirmation of tentative matches.
package search

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/WanisC/arc-en-ciel/chain"
	"github.com/WanisC/arc-en-ciel/common"
	"github.com/WanisC/arc-en-ciel/hash"
	"github.com/WanisC/arc-en-ciel/log"
	"github.com/WanisC/arc-en-ciel/password"
	"github.com/WanisC/arc-en-ciel/reduction"
	"github.com/WanisC/arc-en-ciel/sha3"
	"github.com/WanisC/arc-en-ciel/shard"
)

// Config holds the searcher's inputs, per spec §4.5.
type Config struct {
	Dir            string
	ChainLength    int
	PasswordLength int
	Hashes         []hash.Hash
	Workers        int // 0 means runtime.NumCPU()
}

// Result reports the outcome of a search run: confirmed preimages, and
// the digests for which no preimage was found after a full scan.
type Result struct {
	Found   map[hash.Hash]password.Password
	Missing []hash.Hash
}

// candidate is one entry of a digest's reduction trail: the password
// that would sit at a chain's endpoint if the target digest lies k
// forward R∘SHA3 steps from that chain's start.
type candidate struct {
	endpoint password.Password
	steps    int
}

// Run searches cfg.Hashes against the shard table under cfg.Dir and
// returns every confirmed preimage, reporting the rest as missing. It
// returns the first fatal I/O error encountered by any worker, if any.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	logger := log.New("component", "searcher")
	logger.Info("starting search", "workers", workers, "chain", cfg.ChainLength, "length", cfg.PasswordLength, "digests", len(cfg.Hashes))
	started := time.Now()

	trails := make(map[hash.Hash][]candidate, len(cfg.Hashes))
	var trailMu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, h := range cfg.Hashes {
		h := h
		g.Go(func() error {
			t := trail(h, cfg.ChainLength, cfg.PasswordLength)
			trailMu.Lock()
			trails[h] = t
			trailMu.Unlock()
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("search: precomputing trails: %w", err)
	}

	tr := newTracker(cfg.Hashes)
	recordWidth := 2*cfg.PasswordLength + 1

	sg, sctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		i := i
		sg.Go(func() error {
			return scanShard(sctx, cfg.Dir, i, recordWidth, cfg.PasswordLength, trails, tr)
		})
	}
	if err := sg.Wait(); err != nil {
		return nil, fmt.Errorf("search: scanning shards: %w", err)
	}

	found, missing := tr.results()
	logger.Info("search complete", "found", len(found), "missing", len(missing), "elapsed", common.PrettyDuration(time.Since(started)).String())
	return &Result{Found: found, Missing: missing}, nil
}

// trail produces the digest's offset-indexed reduction trail per spec
// §4.5.1: one (endpoint, steps) pair per candidate chain length,
// emitted in decreasing step count — the order already matches the
// spec's reverse-iteration requirement in §4.5.2, since step count
// falls as the scanned candidate length rises.
func trail(h hash.Hash, chainLength, pwLen int) []candidate {
	out := make([]candidate, chainLength)
	for length := 1; length <= chainLength; length++ {
		d := h
		for offset := length; offset >= 2; offset-- {
			p := reduction.Reduce(d, uint64(chainLength-offset), pwLen)
			d = sha3.Sum256([]byte(p))
		}
		p := reduction.Reduce(d, uint64(chainLength-1), pwLen)
		out[length-1] = candidate{endpoint: p, steps: chainLength - length}
	}
	return out
}

// scanShard owns shard_<i> exclusively: it windows through the shard
// with positioned reads, builds a per-window endpoint→start map, and
// tests every still-unconfirmed digest's trail against it in the
// precomputed (longest-replay-first) order.
func scanShard(ctx context.Context, dir string, i, recordWidth, pwLen int, trails map[hash.Hash][]candidate, tr *tracker) error {
	r, err := shard.OpenReader(dir, i, recordWidth)
	if err != nil {
		return err
	}
	defer r.Close()

	windowSize := int64(recordWidth * shard.WindowRecords)
	var off int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if tr.allFound() {
			return nil
		}

		window, n, err := r.ReadWindow(off, pwLen)
		if err != nil {
			return fmt.Errorf("search: worker %d: %w", i, err)
		}
		if n == 0 {
			return nil
		}

		for h, candidates := range trails {
			if tr.isFound(h) {
				continue
			}
			for _, c := range candidates {
				start, ok := window[c.endpoint]
				if !ok {
					continue
				}
				preimage, confirmed := chain.Confirms(start, h, c.steps)
				if confirmed {
					tr.record(h, preimage)
					break
				}
			}
		}

		off += windowSize
	}
}

// tracker coordinates confirmed-preimage bookkeeping across concurrent
// shard-scanning workers: which digests remain unconfirmed, and what
// each confirmed digest's preimage is.
type tracker struct {
	mu        sync.Mutex
	found     map[hash.Hash]password.Password
	all       []hash.Hash
	remaining int
}

func newTracker(hashes []hash.Hash) *tracker {
	return &tracker{
		found:     make(map[hash.Hash]password.Password, len(hashes)),
		all:       hashes,
		remaining: len(hashes),
	}
}

func (t *tracker) isFound(h hash.Hash) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.found[h]
	return ok
}

func (t *tracker) allFound() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining == 0
}

// record stores the first confirmed preimage for h. Later confirmations
// for the same digest are ignored — spec §4.5.3 requires reporting a
// confirmed match once per digest even if multiple trails hit.
func (t *tracker) record(h hash.Hash, p password.Password) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.found[h]; ok {
		return
	}
	t.found[h] = p
	t.remaining--
}

func (t *tracker) results() (map[hash.Hash]password.Password, []hash.Hash) {
	t.mu.Lock()
	defer t.mu.Unlock()
	found := make(map[hash.Hash]password.Password, len(t.found))
	for k, v := range t.found {
		found[k] = v
	}
	var missing []hash.Hash
	for _, h := range t.all {
		if _, ok := t.found[h]; !ok {
			missing = append(missing, h)
		}
	}
	return found, missing
}
