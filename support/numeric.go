// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package support holds the pieces shared by every ledger module: checked
// arithmetic over fixed-width unsigned integers, the block/extrinsic data
// model and the dispatch seam.
package support

// Unsigned is satisfied by every fixed-width unsigned integer type. Balances,
// block numbers and nonces are all expressed over it so overflow stays part of
// the contract.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// MaxValue returns the largest value representable by T.
func MaxValue[T Unsigned]() T {
	return ^T(0)
}

// CheckedAdd returns a+b, or false if the sum overflows T.
func CheckedAdd[T Unsigned](a, b T) (T, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}

// CheckedSub returns a-b, or false if the difference underflows T.
func CheckedSub[T Unsigned](a, b T) (T, bool) {
	if b > a {
		return 0, false
	}
	return a - b, true
}

// CheckedInc returns a+1, or false if a is already MaxValue.
func CheckedInc[T Unsigned](a T) (T, bool) {
	return CheckedAdd(a, 1)
}
