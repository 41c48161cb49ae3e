// Package intfunc encodes partial vertex mappings as mixed-radix integers.
//
// # Overview
//
// The dynamic program over a tree decomposition stores one table entry per
// function from a bag of pattern vertices into the target vertices. A bag is
// kept sorted by vertex id, so such a function is simply a tuple of target
// vertices, which this package packs into a single [Mapping] in base n, where
// n is the number of target vertices. Digit s (least significant first) is the
// image of the s-th smallest bag vertex. The position s is called the
// significance of that vertex.
//
// # Operations
//
//   - [Digit] reads the image at significance s
//   - [Insert] places a new image at significance s, shifting higher digits up
//   - [Remove] deletes the image at significance s, shifting higher digits down
//   - [Count] returns n^d, the number of mappings from a d-element bag
//
// [Codec] binds a base so callers do not have to pass n around:
//
//	c := intfunc.New(4)
//	f := c.Insert(15, 1, 2) // 59
//	c.Digit(f, 1)           // 2
//	c.Remove(f, 1)          // 15
//
// Mappings are uint64 values. [CheckedCount] and [Codec.Validate] report
// inputs outside that range as ARITHMETIC_RANGE errors instead of silently
// wrapping.
package intfunc
