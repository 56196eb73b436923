// Package sha3 implements FIPS-202 SHA3-256: a sponge construction over
// the Keccak-f[1600] permutation, rate r=1088 bits (136 bytes), capacity
// c=512 bits, domain separator 0x06. This is the exact digest semantics
// the chain algebra is specified against — see spec §4.1 — so it is
// implemented directly rather than deferred to a third-party hash
// package, following the same from-scratch sponge shape as the
// retrieval pack's sha3 implementations (state as [25]uint64 lanes, a
// rate-sized byte buffer, absorb/pad/squeeze as distinct phases) but
// fixed to the single rate this system needs.
package sha3

import (
	"encoding/binary"

	"github.com/WanisC/arc-en-ciel/hash"
)

const (
	rate256 = 200 - 2*32 // 136 bytes: capacity is 2*outputSize per FIPS-202
	dsByte  = 0x06
)

// digest is a streaming SHA3-256 hash.Hash-shaped implementation. The
// zero value is an empty sponge ready for use; New returns one.
type digest struct {
	a        [25]uint64
	buf      [rate256]byte
	position int
}

// New returns a fresh SHA3-256 sponge ready to absorb input via Write.
func New() *digest {
	return &digest{}
}

// Size returns the digest size in bytes, satisfying hash.Hash.
func (d *digest) Size() int { return hash.Size }

// BlockSize returns the sponge's rate in bytes, satisfying hash.Hash.
// There is no standard interpretation of block size for a sponge
// construction; the rate is the number of bytes absorbed per call to
// the permutation, which is the closest analogue.
func (d *digest) BlockSize() int { return rate256 }

// Reset clears the sponge state so the digest can be reused.
func (d *digest) Reset() {
	for i := range d.a {
		d.a[i] = 0
	}
	for i := range d.buf {
		d.buf[i] = 0
	}
	d.position = 0
}

// Write absorbs p into the sponge, permuting whenever the input buffer
// fills to a full rate block. It never returns an error.
func (d *digest) Write(p []byte) (int, error) {
	written := len(p)
	for len(p) > 0 {
		n := copy(d.buf[d.position:rate256], p)
		d.position += n
		p = p[n:]
		if d.position == rate256 {
			d.absorbBlock()
			d.position = 0
		}
	}
	return written, nil
}

// absorbBlock xors the full-rate input buffer into the state's first
// rate256/8 lanes and applies the permutation.
func (d *digest) absorbBlock() {
	for i := 0; i < rate256/8; i++ {
		d.a[i] ^= binary.LittleEndian.Uint64(d.buf[i*8 : i*8+8])
	}
	keccakF1600(&d.a)
	for i := range d.buf {
		d.buf[i] = 0
	}
}

// pad applies the SHA3 multi-rate pad10*1 rule with the 01 domain
// separator (encoded as dsByte, per FIPS-202 byte-oriented convention):
// XOR the domain-separator bits at the next free position, XOR the
// closing 1-bit into the last byte of the rate block, then permute.
func (d *digest) pad() {
	d.buf[d.position] ^= dsByte
	d.buf[rate256-1] ^= 0x80
	for i := 0; i < rate256/8; i++ {
		d.a[i] ^= binary.LittleEndian.Uint64(d.buf[i*8 : i*8+8])
	}
	keccakF1600(&d.a)
}

// Sum finalizes a copy of the sponge (so the receiver can keep
// absorbing) and appends the 32-byte digest to in.
func (d *digest) Sum(in []byte) []byte {
	dup := *d
	dup.pad()
	out := make([]byte, hash.Size)
	for i := 0; i < hash.Size/8; i++ {
		binary.LittleEndian.PutUint64(out[i*8:i*8+8], dup.a[i])
	}
	return append(in, out...)
}

// Sum256 computes the SHA3-256 digest of data in one call, returning it
// as a hash.Hash value rather than a byte slice — every call site in
// the chain algebra (reduction, chain replay) wants a fixed-size,
// by-value digest, not an allocated []byte.
func Sum256(data []byte) hash.Hash {
	d := New()
	d.Write(data)
	var out hash.Hash
	sum := d.Sum(nil)
	copy(out[:], sum)
	return out
}
