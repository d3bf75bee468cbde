// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/formatting"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/ledgervm/runtime"
)

func TestServiceTransferFlow(t *testing.T) {
	require := require.New(t)

	vm := newTestVM(t, memdb.New(), testGenesis, "")
	service := &Service{vm: vm}

	submitted := &SubmitTransferReply{}
	require.NoError(service.SubmitTransfer(nil, &SubmitTransferArgs{From: "alice", To: "bob", Amount: 30}, submitted))
	require.EqualValues(1, submitted.Pending)
	require.NoError(service.SubmitTransfer(nil, &SubmitTransferArgs{From: "alice", To: "bob", Amount: 80}, submitted))
	require.EqualValues(2, submitted.Pending)

	built := &BlockReply{}
	require.NoError(service.BuildBlock(nil, &struct{}{}, built))
	require.EqualValues(1, built.BlockNumber)
	require.Len(built.Extrinsics, 2)
	require.Equal(ExtrinsicReply{Caller: "alice", Call: "balances.transfer", To: "bob", Amount: 30}, built.Extrinsics[0])
	require.Len(built.Failures, 1)
	require.EqualValues(1, built.Failures[0].Index)

	balance := &BalanceReply{}
	require.NoError(service.GetBalance(nil, &AccountArgs{Account: "alice"}, balance))
	require.EqualValues(70, balance.Balance)
	require.NoError(service.GetBalance(nil, &AccountArgs{Account: "nobody"}, balance))
	require.Zero(balance.Balance)

	nonce := &NonceReply{}
	require.NoError(service.GetNonce(nil, &AccountArgs{Account: "alice"}, nonce))
	require.EqualValues(2, nonce.Nonce)

	number := &BlockNumberReply{}
	require.NoError(service.GetBlockNumber(nil, &struct{}{}, number))
	require.EqualValues(1, number.BlockNumber)

	accounts := &AccountsReply{}
	require.NoError(service.GetAccounts(nil, &struct{}{}, accounts))
	require.Equal([]AccountReply{
		{ID: "alice", Balance: 70, Nonce: 2},
		{ID: "bob", Balance: 30, Nonce: 0},
	}, accounts.Accounts)

	latest := &BlockReply{}
	require.NoError(service.GetBlock(nil, &GetBlockArgs{}, latest))
	require.Equal(built.ID, latest.ID)
	require.Equal(built.Failures, latest.Failures)

	byID := &BlockReply{}
	require.NoError(service.GetBlock(nil, &GetBlockArgs{ID: &built.ParentID}, byID))
	require.Zero(byID.BlockNumber)
	require.Empty(byID.Extrinsics)
	require.Empty(byID.Failures)

	unknownID := ids.GenerateTestID()
	require.ErrorIs(service.GetBlock(nil, &GetBlockArgs{ID: &unknownID}, &BlockReply{}), errNoSuchBlock)

	health := &HealthReply{}
	require.NoError(service.Health(nil, &struct{}{}, health))
	require.True(health.Healthy)
}

func TestServiceRejectsEmptyAccounts(t *testing.T) {
	vm := newTestVM(t, memdb.New(), testGenesis, "")
	service := &Service{vm: vm}

	err := service.SubmitTransfer(nil, &SubmitTransferArgs{From: "alice", Amount: 1}, &SubmitTransferReply{})
	require.ErrorIs(t, err, errEmptyAccount)
	require.Zero(t, vm.Pending())
}

func TestServiceIssueBlock(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	vm := newTestVM(t, memdb.New(), testGenesis, "")
	service := &Service{vm: vm}

	genesisID, err := vm.LastAccepted(ctx)
	require.NoError(err)
	blk, err := NewBlock(genesisID, 1500, 1, []runtime.Extrinsic{
		runtime.NewTransferExtrinsic("alice", "bob", 100),
	})
	require.NoError(err)
	bytes, err := formatting.Encode(formatting.Hex, blk.Bytes())
	require.NoError(err)

	reply := &BlockReply{}
	require.NoError(service.IssueBlock(nil, &IssueBlockArgs{Bytes: bytes, Encoding: formatting.Hex}, reply))
	require.Equal(blk.ID(), reply.ID)
	require.Empty(reply.Failures)
	require.Equal(runtime.Balance(100), vm.Balance("bob"))

	// The same block cannot be accepted twice.
	require.Error(service.IssueBlock(nil, &IssueBlockArgs{Bytes: bytes, Encoding: formatting.Hex}, &BlockReply{}))
	require.Error(service.IssueBlock(nil, &IssueBlockArgs{Bytes: "0xnothex", Encoding: formatting.Hex}, &BlockReply{}))
}

func TestStaticServiceDecodeBlock(t *testing.T) {
	require := require.New(t)

	blk, err := NewBlock(ids.Empty, 42, 7, []runtime.Extrinsic{
		runtime.NewTransferExtrinsic("alice", "bob", 3),
	})
	require.NoError(err)
	bytes, err := formatting.Encode(formatting.Hex, blk.Bytes())
	require.NoError(err)

	reply := &BlockReply{}
	require.NoError(CreateStaticService().DecodeBlock(nil, &DecodeBlockArgs{Bytes: bytes, Encoding: formatting.Hex}, reply))
	require.Equal(blk.ID(), reply.ID)
	require.EqualValues(7, reply.BlockNumber)
	require.EqualValues(42, reply.Timestamp)
	require.Equal(bytes, reply.Bytes)
	require.Equal([]ExtrinsicReply{{Caller: "alice", Call: "balances.transfer", To: "bob", Amount: 3}}, reply.Extrinsics)
}

func TestCreateHandlers(t *testing.T) {
	require := require.New(t)

	vm := newTestVM(t, memdb.New(), testGenesis, "")
	handlers, err := vm.CreateHandlers()
	require.NoError(err)
	require.Contains(handlers, "")

	staticHandlers, err := CreateStaticHandlers()
	require.NoError(err)
	require.Contains(staticHandlers, "")
}
