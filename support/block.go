// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package support

// Header carries the number of the block it belongs to.
type Header[N Unsigned] struct {
	BlockNumber N `serialize:"true" json:"blockNumber"`
}

// Block is a header plus the extrinsics to execute, in order.
type Block[H any, X any] struct {
	Header     H   `serialize:"true" json:"header"`
	Extrinsics []X `serialize:"true" json:"extrinsics"`
}

// Extrinsic is a call submitted from outside the runtime together with the
// account that authored it.
type Extrinsic[C any, Call any] struct {
	Caller C    `serialize:"true" json:"caller"`
	Call   Call `serialize:"true" json:"call"`
}
