// Package reduction implements the offset-parameterized reduction family
// R(d, i) that maps a 32-byte digest back onto a password of fixed
// length, as used by both the chain generator and the searcher.
package reduction

import (
	"github.com/WanisC/arc-en-ciel/alphabet"
	"github.com/WanisC/arc-en-ciel/hash"
	"github.com/WanisC/arc-en-ciel/password"
)

// Reduce computes R(d, offset) for the given password length. It is a
// total function: any digest and any non-negative offset yield a
// well-formed password of length ℓ.
func Reduce(d hash.Hash, offset uint64, length int) password.Password {
	q := offset / alphabet.Size
	r := offset % alphabet.Size

	b := make([]byte, length)
	for k := 0; k < length; k++ {
		raw := (uint64(d[(uint64(k)+q)%uint64(len(d))]) + r) % alphabet.Size
		b[k] = alphabet.Char(raw)
	}
	return password.Password(b)
}
