package intfunc

import (
	"math/bits"

	"github.com/matzehuels/homcount/pkg/errors"
)

// Mapping is a function from a sorted bag to target vertices, encoded in base n.
type Mapping = uint64

// pow returns n^e. It wraps on overflow; use [CheckedCount] when the result
// may not fit.
func pow(n uint64, e uint64) uint64 {
	r := uint64(1)
	for ; e > 0; e-- {
		r *= n
	}
	return r
}

// Digit returns the image stored at significance s of f.
func Digit(n, f, s uint64) uint64 {
	if n == 0 {
		return 0
	}
	return (f / pow(n, s)) % n
}

// Insert returns f with v inserted at significance s. Every digit of
// significance >= s moves up one position.
func Insert(n, f, s, v uint64) uint64 {
	if n == 0 {
		return 0
	}
	ps := pow(n, s)
	r := f % ps
	l := f - r
	return n*l + ps*v + r
}

// Remove returns f with the digit at significance s deleted. Every digit of
// significance > s moves down one position.
func Remove(n, f, s uint64) uint64 {
	if n == 0 {
		return 0
	}
	ps := pow(n, s)
	r := f % ps
	h := f - f%(ps*n)
	return h/n + r
}

// Count returns n^d, the number of mappings from a d-element bag into n
// target vertices. Count(0, n) is 1 for every n.
func Count(d, n uint64) uint64 {
	return pow(n, d)
}

// CheckedCount is [Count] with overflow detection.
func CheckedCount(d, n uint64) (uint64, error) {
	r := uint64(1)
	for i := uint64(0); i < d; i++ {
		hi, lo := bits.Mul64(r, n)
		if hi != 0 {
			return 0, errors.New(errors.ErrCodeArithmeticRange,
				"%d^%d mappings overflow uint64", n, d)
		}
		r = lo
	}
	return r, nil
}

// Codec applies the mapping operations for a fixed base.
type Codec struct {
	base uint64
}

// New returns a Codec for n target vertices.
func New(n int) Codec {
	return Codec{base: uint64(n)}
}

// Base returns the number of target vertices.
func (c Codec) Base() uint64 { return c.base }

// Digit returns the image stored at significance s of f.
func (c Codec) Digit(f Mapping, s int) uint64 { return Digit(c.base, f, uint64(s)) }

// Insert returns f with image v placed at significance s.
func (c Codec) Insert(f Mapping, s int, v uint64) Mapping {
	return Insert(c.base, f, uint64(s), v)
}

// Remove returns f with the digit at significance s deleted.
func (c Codec) Remove(f Mapping, s int) Mapping { return Remove(c.base, f, uint64(s)) }

// Count returns the number of mappings from a bag of the given size.
func (c Codec) Count(bagSize int) uint64 { return Count(uint64(bagSize), c.base) }

// Validate checks the arguments of an Insert into a mapping over a bag of
// bagSize vertices: s must lie in [0, bagSize] and v in [0, n).
func (c Codec) Validate(s, bagSize int, v uint64) error {
	if s < 0 || s > bagSize {
		return errors.New(errors.ErrCodeArithmeticRange,
			"significance %d outside [0, %d]", s, bagSize)
	}
	if v >= c.base {
		return errors.New(errors.ErrCodeArithmeticRange,
			"image %d outside [0, %d)", v, c.base)
	}
	if _, err := CheckedCount(uint64(bagSize)+1, c.base); err != nil {
		return err
	}
	return nil
}
