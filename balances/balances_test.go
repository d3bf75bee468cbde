// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package balances

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/ledgervm/support"
)

type transferTest struct {
	name        string
	from        string
	to          string
	amount      uint64
	expectedErr error
}

// requireAtomicFailure runs a transfer that must fail and checks that neither
// side of it was touched.
func requireAtomicFailure(t *testing.T, m *Module[string, uint64], test transferTest) {
	require := require.New(t)

	fromBefore := m.Balance(test.from)
	toBefore := m.Balance(test.to)

	err := m.Transfer(test.from, test.to, test.amount)
	require.ErrorIs(err, test.expectedErr)

	require.Equal(fromBefore, m.Balance(test.from))
	require.Equal(toBefore, m.Balance(test.to))
}

func TestUnknownAccountIsZero(t *testing.T) {
	m := New[string, uint64]()
	m.SetBalance("alice", 10)
	require.Zero(t, m.Balance("bob"))
}

func TestSetBalanceOverwrites(t *testing.T) {
	require := require.New(t)

	m := New[string, uint64]()
	m.SetBalance("alice", 100)
	m.SetBalance("alice", 50)
	require.Equal(uint64(50), m.Balance("alice"))
}

func TestTransfer(t *testing.T) {
	require := require.New(t)

	m := New[string, uint64]()
	m.SetBalance("alice", 100)

	require.NoError(m.Transfer("alice", "bob", 50))
	require.Equal(uint64(50), m.Balance("alice"))
	require.Equal(uint64(50), m.Balance("bob"))
}

func TestTransferScenario(t *testing.T) {
	require := require.New(t)

	m := New[string, uint64]()
	m.SetBalance("alice", 100)
	m.SetBalance("bob", 0)

	require.NoError(m.Transfer("alice", "bob", 30))
	require.Equal(uint64(70), m.Balance("alice"))
	require.Equal(uint64(30), m.Balance("bob"))

	requireAtomicFailure(t, m, transferTest{
		from:        "alice",
		to:          "bob",
		amount:      80,
		expectedErr: ErrNotEnoughBalance,
	})
	require.Equal(uint64(70), m.Balance("alice"))
	require.Equal(uint64(30), m.Balance("bob"))
}

func TestTransferFailures(t *testing.T) {
	tests := []transferTest{
		{
			name:        "self transfer",
			from:        "alice",
			to:          "alice",
			amount:      10,
			expectedErr: ErrCannotTransferToSelf,
		},
		{
			name:        "self transfer of zero",
			from:        "alice",
			to:          "alice",
			amount:      0,
			expectedErr: ErrCannotTransferToSelf,
		},
		{
			name:        "self transfer beyond balance",
			from:        "carol",
			to:          "carol",
			amount:      1_000,
			expectedErr: ErrCannotTransferToSelf,
		},
		{
			name:        "zero amount",
			from:        "alice",
			to:          "bob",
			amount:      0,
			expectedErr: ErrZeroTransfer,
		},
		{
			name:        "insufficient balance",
			from:        "alice",
			to:          "bob",
			amount:      101,
			expectedErr: ErrNotEnoughBalance,
		},
		{
			name:        "unknown sender",
			from:        "dave",
			to:          "bob",
			amount:      1,
			expectedErr: ErrNotEnoughBalance,
		},
		{
			name:        "receiver overflow",
			from:        "alice",
			to:          "carol",
			amount:      1,
			expectedErr: ErrBalanceOverflow,
		},
		{
			// The debit is checked first, so an insufficient sender wins even
			// when the credit would also overflow.
			name:        "insufficient balance and receiver overflow",
			from:        "bob",
			to:          "carol",
			amount:      1,
			expectedErr: ErrNotEnoughBalance,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m := New[string, uint64]()
			m.SetBalance("alice", 100)
			m.SetBalance("carol", support.MaxValue[uint64]())

			requireAtomicFailure(t, m, test)
		})
	}
}

func TestTransferConservesTotal(t *testing.T) {
	require := require.New(t)

	m := New[string, uint8]()
	m.SetBalance("alice", 200)
	m.SetBalance("bob", 50)

	for amount := uint8(1); amount <= 5; amount++ {
		before := uint(m.Balance("alice")) + uint(m.Balance("bob"))
		require.NoError(m.Transfer("alice", "bob", amount))
		after := uint(m.Balance("alice")) + uint(m.Balance("bob"))
		require.Equal(before, after)
	}
	require.Equal(uint8(185), m.Balance("alice"))
	require.Equal(uint8(65), m.Balance("bob"))
}

func TestTransferNarrowBalanceOverflow(t *testing.T) {
	require := require.New(t)

	m := New[string, uint8]()
	m.SetBalance("alice", 10)
	m.SetBalance("bob", 250)

	require.ErrorIs(m.Transfer("alice", "bob", 6), ErrBalanceOverflow)
	require.Equal(uint8(10), m.Balance("alice"))
	require.Equal(uint8(250), m.Balance("bob"))

	require.NoError(m.Transfer("alice", "bob", 5))
	require.Equal(uint8(5), m.Balance("alice"))
	require.Equal(uint8(255), m.Balance("bob"))
}

func TestAccountsAreOrdered(t *testing.T) {
	m := New[string, uint64]()
	m.SetBalance("charlie", 3)
	m.SetBalance("alice", 1)
	m.SetBalance("bob", 2)

	require.Equal(t, []Account[string, uint64]{
		{ID: "alice", Balance: 1},
		{ID: "bob", Balance: 2},
		{ID: "charlie", Balance: 3},
	}, m.Accounts())
}

type unknownCall struct{ Call }

func TestDispatch(t *testing.T) {
	require := require.New(t)

	m := New[string, uint64]()
	m.SetBalance("alice", 100)

	require.NoError(m.Dispatch("alice", &Transfer[string, uint64]{To: "bob", Amount: 40}))
	require.Equal(uint64(60), m.Balance("alice"))
	require.Equal(uint64(40), m.Balance("bob"))

	err := m.Dispatch("alice", &Transfer[string, uint64]{To: "alice", Amount: 1})
	require.ErrorIs(err, ErrCannotTransferToSelf)

	require.ErrorIs(m.Dispatch("alice", nil), support.ErrUnknownCall)
	require.ErrorIs(m.Dispatch("alice", (*Transfer[string, uint64])(nil)), support.ErrUnknownCall)
	require.ErrorIs(m.Dispatch("alice", unknownCall{}), support.ErrUnknownCall)
	require.Equal(uint64(60), m.Balance("alice"))
}
