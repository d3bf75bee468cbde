// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"github.com/ava-labs/ledgervm/balances"
	"github.com/ava-labs/ledgervm/support"
)

// Concrete types the modules are instantiated with.
type (
	AccountID   = string
	Balance     = uint64
	BlockNumber = uint32
	Nonce       = uint32
)

type (
	Header    = support.Header[BlockNumber]
	Extrinsic = support.Extrinsic[AccountID, Call]
	Block     = support.Block[Header, Extrinsic]

	Account  = balances.Account[AccountID, Balance]
	Transfer = balances.Transfer[AccountID, Balance]
)

// NewBlock returns a block numbered [number] holding [extrinsics].
func NewBlock(number BlockNumber, extrinsics ...Extrinsic) Block {
	return Block{
		Header:     Header{BlockNumber: number},
		Extrinsics: extrinsics,
	}
}
