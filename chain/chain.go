// Package chain implements the abstract hash chain c₀=start,
// cᵢ₊₁=R(SHA3(cᵢ), i) shared by the generator (which walks a whole chain
// to find its endpoint) and the searcher (which replays a candidate
// prefix to confirm a hit).
package chain

import (
	"github.com/WanisC/arc-en-ciel/hash"
	"github.com/WanisC/arc-en-ciel/password"
	"github.com/WanisC/arc-en-ciel/reduction"
	"github.com/WanisC/arc-en-ciel/sha3"
)

// Endpoint walks the chain starting at start for length steps and
// returns c_length, the password persisted alongside start in a shard
// record.
func Endpoint(start password.Password, length int) password.Password {
	return Step(start, 0, length)
}

// Step applies `count` rounds of R∘SHA3 to p, starting at reduction
// offset `from`. The generator's chain walk (from=0) and the searcher's
// candidate replay (from=0, count=k) are both instances of this
// primitive; the searcher's trail precomputation reduces before it
// hashes and does not use Step.
func Step(p password.Password, from int, count int) password.Password {
	length := p.Len()
	for i := 0; i < count; i++ {
		digest := sha3.Sum256([]byte(p))
		p = reduction.Reduce(digest, uint64(from+i), length)
	}
	return p
}

// Confirms reports whether replaying k forward R∘SHA3 steps from
// candidate start s reproduces target digest h — the final check that
// turns a tentative endpoint match into a confirmed preimage, per
// spec §4.5.3.
func Confirms(s password.Password, h hash.Hash, k int) (password.Password, bool) {
	p := Step(s, 0, k)
	return p, sha3.Sum256([]byte(p)) == h
}
