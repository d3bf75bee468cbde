// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"

	"github.com/ava-labs/ledgervm/ledgervm"
	"github.com/ava-labs/ledgervm/runtime"
)

var demoGenesis = []byte(`
balances:
  alice: 100
`)

// runDemo executes one block in which alice pays bob twice. The second
// transfer exceeds alice's balance and is rejected without aborting the
// block.
func runDemo(ctx context.Context, vm *ledgervm.VM) error {
	for _, extrinsic := range []runtime.Extrinsic{
		runtime.NewTransferExtrinsic("alice", "bob", 30),
		runtime.NewTransferExtrinsic("alice", "bob", 80),
	} {
		if err := vm.SubmitExtrinsic(extrinsic); err != nil {
			return err
		}
	}

	blk, receipt, err := vm.BuildBlock(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("executed block %s (number %d)\n", blk.ID(), blk.Header.BlockNumber)
	for _, failure := range receipt.Failures {
		fmt.Printf("  extrinsic %d from %s failed at %s: %s\n", failure.Index, failure.Caller, failure.Stage, failure.Error)
	}
	fmt.Print(vm.Dump())
	return nil
}
