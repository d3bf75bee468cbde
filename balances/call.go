// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package balances

import (
	"cmp"

	"github.com/ava-labs/ledgervm/support"
)

var _ Call = (*Transfer[string, uint64])(nil)

// Call is a call handled by the balances module.
// The set of calls is closed: only types in this package implement it.
type Call interface {
	balancesCall()
}

// Transfer moves Amount from the caller to To.
type Transfer[A cmp.Ordered, B support.Unsigned] struct {
	To     A `serialize:"true" json:"to"`
	Amount B `serialize:"true" json:"amount"`
}

func (*Transfer[A, B]) balancesCall() {}

// Dispatch executes [call] on behalf of [caller].
func (m *Module[A, B]) Dispatch(caller A, call Call) error {
	switch c := call.(type) {
	case *Transfer[A, B]:
		if c == nil {
			return support.ErrUnknownCall
		}
		return m.Transfer(caller, c.To, c.Amount)
	default:
		return support.ErrUnknownCall
	}
}
