// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import (
	"fmt"

	"github.com/ava-labs/ledgervm/runtime"
)

// mempool is a bounded FIFO of extrinsics waiting for a block.
// It is safe for concurrent use.
type mempool struct {
	extrinsics chan runtime.Extrinsic
}

func newMempool(size int) *mempool {
	return &mempool{
		extrinsics: make(chan runtime.Extrinsic, size),
	}
}

func (m *mempool) Add(extrinsic runtime.Extrinsic) error {
	select {
	case m.extrinsics <- extrinsic:
		return nil
	default:
		return fmt.Errorf("%w at size (%d)", errMempoolFull, cap(m.extrinsics))
	}
}

// Take removes up to [limit] extrinsics, oldest first.
func (m *mempool) Take(limit int) []runtime.Extrinsic {
	var extrinsics []runtime.Extrinsic
	for len(extrinsics) < limit {
		select {
		case extrinsic := <-m.extrinsics:
			extrinsics = append(extrinsics, extrinsic)
		default:
			return extrinsics
		}
	}
	return extrinsics
}

func (m *mempool) Len() int {
	return len(m.extrinsics)
}
