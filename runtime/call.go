// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"fmt"

	"github.com/ava-labs/ledgervm/balances"
)

var _ Call = (*BalancesCall)(nil)

// Call is any call the runtime knows how to route. Each variant wraps the
// call type of one module.
type Call interface {
	runtimeCall()
}

// BalancesCall routes its inner call to the balances module.
type BalancesCall struct {
	Call balances.Call `serialize:"true" json:"call"`
}

func (*BalancesCall) runtimeCall() {}

// NewTransfer returns a call moving [amount] from the caller to [to].
func NewTransfer(to AccountID, amount Balance) Call {
	return &BalancesCall{Call: &Transfer{To: to, Amount: amount}}
}

// NewTransferExtrinsic returns an extrinsic in which [from] transfers [amount]
// to [to].
func NewTransferExtrinsic(from, to AccountID, amount Balance) Extrinsic {
	return Extrinsic{Caller: from, Call: NewTransfer(to, amount)}
}

// CallName returns the "module.call" name of [call].
func CallName(call Call) string {
	switch c := call.(type) {
	case *BalancesCall:
		if c == nil {
			break
		}
		switch c.Call.(type) {
		case *Transfer:
			return "balances.transfer"
		}
		return "balances.unknown"
	}
	return fmt.Sprintf("unknown(%T)", call)
}
