// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import "github.com/ava-labs/ledgervm/runtime"

// Receipt is the stored form of a runtime.Receipt.
type Receipt struct {
	BlockNumber runtime.BlockNumber `serialize:"true" json:"blockNumber"`
	Extrinsics  uint32              `serialize:"true" json:"extrinsics"`
	Failures    []Failure           `serialize:"true" json:"failures"`
}

// Failure describes a rejected extrinsic.
type Failure struct {
	Index  uint32 `serialize:"true" json:"index"`
	Caller string `serialize:"true" json:"caller"`
	Stage  string `serialize:"true" json:"stage"`
	Error  string `serialize:"true" json:"error"`
}

func newReceipt(r *runtime.Receipt) *Receipt {
	receipt := &Receipt{
		BlockNumber: r.BlockNumber,
		Extrinsics:  uint32(r.Extrinsics),
		Failures:    make([]Failure, 0, len(r.Failures)),
	}
	for _, failure := range r.Failures {
		receipt.Failures = append(receipt.Failures, Failure{
			Index:  uint32(failure.Index),
			Caller: failure.Caller,
			Stage:  string(failure.Stage),
			Error:  failure.Err.Error(),
		})
	}
	return receipt
}
