// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import "fmt"

// Stage is the step of extrinsic execution that failed.
type Stage string

const (
	StageNonce    Stage = "nonce"
	StageDispatch Stage = "dispatch"
)

// ExtrinsicError reports why a single extrinsic of a block was rejected.
type ExtrinsicError struct {
	BlockNumber BlockNumber
	Index       int
	Caller      AccountID
	Stage       Stage
	Err         error
}

func (e *ExtrinsicError) Error() string {
	return fmt.Sprintf("block %d extrinsic %d from %q failed at %s: %s",
		e.BlockNumber, e.Index, e.Caller, e.Stage, e.Err)
}

func (e *ExtrinsicError) Unwrap() error { return e.Err }

// Receipt summarizes the execution of one block.
type Receipt struct {
	BlockNumber BlockNumber
	// Extrinsics is the number of extrinsics attempted.
	Extrinsics int
	// Failures lists the rejected extrinsics in execution order.
	Failures []*ExtrinsicError
}

// Err returns the failure of extrinsic [index], or nil if it succeeded.
func (r *Receipt) Err(index int) error {
	for _, failure := range r.Failures {
		if failure.Index == index {
			return failure
		}
	}
	return nil
}
