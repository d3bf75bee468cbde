// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodecCarriesCalls(t *testing.T) {
	require := require.New(t)

	block := NewBlock(3,
		NewTransferExtrinsic("alice", "bob", 30),
		NewTransferExtrinsic("bob", "charlie", 1<<40),
	)
	bytes, err := Codec.Marshal(CodecVersion, &block)
	require.NoError(err)

	var parsed Block
	version, err := Codec.Unmarshal(bytes, &parsed)
	require.NoError(err)
	require.Equal(uint16(CodecVersion), version)
	require.Equal(block, parsed)

	// The decoded block executes like the original.
	r := New()
	r.SetBalance("alice", 100)
	r.SetBalance("bob", 1<<40)
	r.system.SetBlockNumber(2)
	receipt, err := r.Execute(parsed)
	require.NoError(err)
	require.Empty(receipt.Failures)
	require.Equal(Balance(30), r.Balance("bob"))
	require.Equal(Balance(1<<40), r.Balance("charlie"))
}

func TestCodecRejectsUnregisteredCall(t *testing.T) {
	block := NewBlock(1, Extrinsic{Caller: "alice", Call: unknownCall{}})
	_, err := Codec.Marshal(CodecVersion, &block)
	require.Error(t, err)
}
