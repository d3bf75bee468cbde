// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package system

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewModuleStartsAtGenesis(t *testing.T) {
	require := require.New(t)

	m := New[string, uint32, uint32]()
	require.Zero(m.BlockNumber())
	require.Zero(m.Nonce("alice"))
}

func TestIncBlockNumber(t *testing.T) {
	require := require.New(t)

	m := New[string, uint32, uint32]()
	for i := uint32(1); i <= 10; i++ {
		require.NoError(m.IncBlockNumber())
		require.Equal(i, m.BlockNumber())
	}

	next, err := m.NextBlockNumber()
	require.NoError(err)
	require.Equal(uint32(11), next)
	require.Equal(uint32(10), m.BlockNumber())
}

func TestIncBlockNumberOverflow(t *testing.T) {
	require := require.New(t)

	m := New[string, uint8, uint32]()
	for i := 0; i < 255; i++ {
		require.NoError(m.IncBlockNumber())
	}
	require.Equal(uint8(255), m.BlockNumber())

	require.ErrorIs(m.IncBlockNumber(), ErrBlockNumberOverflow)
	require.Equal(uint8(255), m.BlockNumber())

	_, err := m.NextBlockNumber()
	require.ErrorIs(err, ErrBlockNumberOverflow)
}

func TestIncNonce(t *testing.T) {
	require := require.New(t)

	m := New[string, uint32, uint32]()
	require.NoError(m.IncNonce("alice"))
	require.Equal(uint32(1), m.Nonce("alice"))

	for i := 0; i < 4; i++ {
		require.NoError(m.IncNonce("alice"))
	}
	require.Equal(uint32(5), m.Nonce("alice"))
	require.Zero(m.Nonce("bob"))
	require.Zero(m.BlockNumber())
}

func TestIncNonceOverflow(t *testing.T) {
	require := require.New(t)

	m := New[string, uint32, uint8]()
	for i := 0; i < 255; i++ {
		require.NoError(m.IncNonce("alice"))
	}
	require.NoError(m.IncNonce("bob"))
	require.NoError(m.IncBlockNumber())

	require.ErrorIs(m.IncNonce("alice"), ErrNonceOverflow)
	require.Equal(uint8(255), m.Nonce("alice"))
	require.Equal(uint8(1), m.Nonce("bob"))
	require.Equal(uint32(1), m.BlockNumber())
}

func TestNoncesAreOrdered(t *testing.T) {
	require := require.New(t)

	m := New[string, uint32, uint32]()
	require.NoError(m.IncNonce("bob"))
	require.NoError(m.IncNonce("alice"))
	require.NoError(m.IncNonce("bob"))

	require.Equal([]AccountNonce[string, uint32]{
		{ID: "alice", Nonce: 1},
		{ID: "bob", Nonce: 2},
	}, m.Nonces())
}

func TestSeeding(t *testing.T) {
	require := require.New(t)

	m := New[string, uint32, uint32]()
	m.SetBlockNumber(41)
	m.SetNonce("alice", 9)

	require.NoError(m.IncBlockNumber())
	require.NoError(m.IncNonce("alice"))
	require.Equal(uint32(42), m.BlockNumber())
	require.Equal(uint32(10), m.Nonce("alice"))
}
