// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package balances keeps the account -> balance ledger.
package balances

import (
	"cmp"
	"errors"
	"slices"

	"github.com/ava-labs/ledgervm/support"
)

var (
	ErrCannotTransferToSelf = errors.New("cannot transfer to self")
	ErrZeroTransfer         = errors.New("transfer amount must be non-zero")
	ErrNotEnoughBalance     = errors.New("not enough balance")
	ErrBalanceOverflow      = errors.New("balance overflow")

	_ support.Dispatcher[string, Call] = (*Module[string, uint64])(nil)
)

// Account is a single ledger entry.
type Account[A cmp.Ordered, B support.Unsigned] struct {
	ID      A `json:"id"`
	Balance B `json:"balance"`
}

// Module owns the balance of every account. Accounts that were never set hold
// a zero balance.
//
// Module is not safe for concurrent use.
type Module[A cmp.Ordered, B support.Unsigned] struct {
	balances map[A]B
}

func New[A cmp.Ordered, B support.Unsigned]() *Module[A, B] {
	return &Module[A, B]{
		balances: make(map[A]B),
	}
}

// SetBalance overwrites the balance of [who].
func (m *Module[A, B]) SetBalance(who A, amount B) {
	m.balances[who] = amount
}

// Balance returns the balance of [who], 0 if it was never set.
func (m *Module[A, B]) Balance(who A) B {
	return m.balances[who]
}

// Transfer moves [amount] from [from] to [to].
// Both successor balances are computed before either is written, so a failed
// transfer leaves the ledger untouched. The debit is checked before the
// credit.
func (m *Module[A, B]) Transfer(from, to A, amount B) error {
	if from == to {
		return ErrCannotTransferToSelf
	}
	if amount == 0 {
		return ErrZeroTransfer
	}

	newFrom, ok := support.CheckedSub(m.Balance(from), amount)
	if !ok {
		return ErrNotEnoughBalance
	}
	newTo, ok := support.CheckedAdd(m.Balance(to), amount)
	if !ok {
		return ErrBalanceOverflow
	}

	m.SetBalance(from, newFrom)
	m.SetBalance(to, newTo)
	return nil
}

// Accounts returns every entry of the ledger in ascending account order.
func (m *Module[A, B]) Accounts() []Account[A, B] {
	accounts := make([]Account[A, B], 0, len(m.balances))
	for id, balance := range m.balances {
		accounts = append(accounts, Account[A, B]{ID: id, Balance: balance})
	}
	slices.SortFunc(accounts, func(a, b Account[A, B]) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return accounts
}
