// Package alphabet defines the fixed 64-character table that passwords and
// reductions are built on: '0'-'9', 'A'-'Z', 'a'-'z', '!', '*'.
package alphabet

import "fmt"

// Size is the number of characters in the alphabet, i.e. the arithmetic base
// that Password values are ordered under.
const Size = 64

// Sentinel is the one-rune password value that means "address space
// exhausted" — returned by Password.Add on saturating overflow.
const Sentinel = "?"

// table maps a base-64 digit to its alphabet character, in ordinal order.
var table = [Size]byte{
	'0', '1', '2', '3', '4', '5', '6', '7', '8', '9',
	'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M',
	'N', 'O', 'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z',
	'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k', 'l', 'm',
	'n', 'o', 'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z',
	'!', '*',
}

// digits is the inverse of table: digits[c] is the base-64 digit for
// alphabet character c, or -1 if c is not in the alphabet.
var digits [256]int8

func init() {
	for i := range digits {
		digits[i] = -1
	}
	for d, c := range table {
		digits[c] = int8(d)
	}
}

// Char returns the alphabet character for digit d. d must be in [0, Size).
func Char(d uint64) byte {
	return table[d]
}

// Digit returns the base-64 digit for alphabet character c, and reports
// whether c belongs to the alphabet.
func Digit(c byte) (uint64, bool) {
	d := digits[c]
	if d < 0 {
		return 0, false
	}
	return uint64(d), true
}

// Valid reports whether every byte of s is an alphabet character.
func Valid(s string) bool {
	for i := 0; i < len(s); i++ {
		if _, ok := Digit(s[i]); !ok {
			return false
		}
	}
	return true
}

// MustDigit is Digit without the ok result, for call sites that have
// already validated the input. It panics on an out-of-alphabet character,
// which indicates a programming error rather than bad user input.
func MustDigit(c byte) uint64 {
	d, ok := Digit(c)
	if !ok {
		panic(fmt.Sprintf("alphabet: character %q is not in the alphabet", c))
	}
	return d
}
