// Package password implements the fixed-length, base-64 password ordering
// described by the rainbow-table chain algebra: a string over the
// alphabet package's 64 characters, with saturating addition, subtraction,
// and lexicographic (equivalently, base-64 integer) comparison.
package password

import (
	"fmt"
	"math/big"

	"github.com/WanisC/arc-en-ciel/alphabet"
)

// Password is a value type: a fixed-length string over the alphabet, or
// the sentinel "?" meaning the address space has been exhausted. Zero
// value is the empty string, which is not a well-formed password; callers
// construct one with New or Seed.
type Password string

// IsSentinel reports whether p is the exhausted-address-space sentinel.
func (p Password) IsSentinel() bool {
	return string(p) == alphabet.Sentinel
}

// String implements fmt.Stringer.
func (p Password) String() string {
	return string(p)
}

// New validates that s is either the sentinel or a string over the
// alphabet, and returns it as a Password.
func New(s string) (Password, error) {
	if s == alphabet.Sentinel {
		return Password(s), nil
	}
	if !alphabet.Valid(s) {
		return "", fmt.Errorf("password: %q contains a character outside the alphabet", s)
	}
	return Password(s), nil
}

// Seed returns the all-zero-digit password of the given length, i.e.
// "0000000" for length 7. This is the base starting point that worker
// stride offsets are added to.
func Seed(length int) Password {
	b := make([]byte, length)
	for i := range b {
		b[i] = alphabet.Char(0)
	}
	return Password(b)
}

// Len returns the number of characters in p. The sentinel has length 1.
func (p Password) Len() int {
	return len(p)
}

// digits returns the most-significant-first digit vector of p. p must not
// be the sentinel.
func (p Password) digits() []uint64 {
	s := string(p)
	out := make([]uint64, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = alphabet.MustDigit(s[i])
	}
	return out
}

func fromDigits(d []uint64) Password {
	b := make([]byte, len(d))
	for i, v := range d {
		b[i] = alphabet.Char(v)
	}
	return Password(b)
}

// Add returns p + k, saturating to the sentinel if the sum would need more
// digits than p's length accommodates. p must not already be the
// sentinel.
func (p Password) Add(k uint64) Password {
	if p.IsSentinel() {
		panic("password: Add called on the sentinel")
	}
	d := p.digits()
	carry := k
	for i := len(d) - 1; i >= 0 && carry > 0; i-- {
		sum := d[i] + carry%alphabet.Size
		carryUp := carry / alphabet.Size
		if sum >= alphabet.Size {
			sum -= alphabet.Size
			carryUp++
		}
		d[i] = sum
		carry = carryUp
	}
	if carry > 0 {
		return Password(alphabet.Sentinel)
	}
	return fromDigits(d)
}

// Sub returns p - k. The result is undefined (may wrap or panic) if k is
// greater than p's integer value; callers must ensure subtraction never
// underflows, per the chain algebra's contract. p must not be the
// sentinel.
func (p Password) Sub(k uint64) Password {
	if p.IsSentinel() {
		panic("password: Sub called on the sentinel")
	}
	d := p.digits()
	borrow := k
	for i := len(d) - 1; i >= 0 && borrow > 0; i-- {
		cur := int64(d[i]) - int64(borrow%alphabet.Size)
		nextBorrow := borrow / alphabet.Size
		if cur < 0 {
			cur += alphabet.Size
			nextBorrow++
		}
		d[i] = uint64(cur)
		borrow = nextBorrow
	}
	return fromDigits(d)
}

// Less reports whether p orders strictly before q under the alphabet's
// lexicographic (equivalently base-64 integer) ordering. The sentinel
// compares as strictly greater than any well-formed password.
func (p Password) Less(q Password) bool {
	if p.IsSentinel() {
		return false
	}
	if q.IsSentinel() {
		return true
	}
	return p.ToBigInt().Cmp(q.ToBigInt()) < 0
}

// ToBigInt converts p to its base-64 integer value. Less compares
// through it; Add and Sub work digit by digit and do not use it.
func (p Password) ToBigInt() *big.Int {
	n := new(big.Int)
	base := big.NewInt(alphabet.Size)
	for _, d := range p.digits() {
		n.Mul(n, base)
		n.Add(n, big.NewInt(int64(d)))
	}
	return n
}
