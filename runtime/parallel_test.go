// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// Independent runtimes share nothing and can execute side by side.
func TestIndependentRuntimesInParallel(t *testing.T) {
	const (
		numRuntimes = 8
		numBlocks   = 50
	)

	runtimes := make([]*Runtime, numRuntimes)
	for i := range runtimes {
		runtimes[i] = New()
		runtimes[i].SetBalance("alice", 10_000)
	}

	var eg errgroup.Group
	for i, r := range runtimes {
		i, r := i, r
		eg.Go(func() error {
			amount := Balance(i + 1)
			for n := BlockNumber(1); n <= numBlocks; n++ {
				receipt, err := r.Execute(NewBlock(n, NewTransferExtrinsic("alice", "bob", amount)))
				if err != nil {
					return err
				}
				if len(receipt.Failures) != 0 {
					return fmt.Errorf("runtime %d: %w", i, receipt.Failures[0])
				}
			}
			return nil
		})
	}
	require.NoError(t, eg.Wait())

	for i, r := range runtimes {
		amount := Balance(i + 1)
		require.Equal(t, BlockNumber(numBlocks), r.BlockNumber())
		require.Equal(t, Nonce(numBlocks), r.Nonce("alice"))
		require.Equal(t, numBlocks*amount, r.Balance("bob"))
		require.Equal(t, 10_000-numBlocks*amount, r.Balance("alice"))
	}
}
