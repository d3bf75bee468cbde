// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import (
	"github.com/ava-labs/avalanchego/utils/timer/mockable"
)

type builder struct {
	clock   *mockable.Clock
	mempool *mempool

	maxExtrinsics int
}

func newBuilder(clock *mockable.Clock, mempool *mempool, maxExtrinsics int) *builder {
	return &builder{
		clock:         clock,
		mempool:       mempool,
		maxExtrinsics: maxExtrinsics,
	}
}

// buildBlock packs pending extrinsics into a child of [parent].
func (b *builder) buildBlock(parent *Block) (*Block, error) {
	extrinsics := b.mempool.Take(b.maxExtrinsics)
	if len(extrinsics) == 0 {
		return nil, errNoPendingExtrinsics
	}

	timestamp := b.clock.Time().Unix()
	if timestamp < parent.Tmstmp {
		timestamp = parent.Tmstmp
	}
	return NewBlock(parent.ID(), timestamp, parent.Header.BlockNumber+1, extrinsics)
}
