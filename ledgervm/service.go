// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/formatting"
	"github.com/ava-labs/avalanchego/utils/json"

	"github.com/ava-labs/ledgervm/runtime"
)

var (
	errCannotGetLastAccepted = errors.New("cannot get last accepted block")
	errNoSuchBlock           = errors.New("couldn't get block from database. Does it exist?")
)

// Service is the API service for this VM
type Service struct{ vm *VM }

// SubmitTransferArgs are the arguments to SubmitTransfer
type SubmitTransferArgs struct {
	From   string      `json:"from"`
	To     string      `json:"to"`
	Amount json.Uint64 `json:"amount"`
}

// SubmitTransferReply is the reply from SubmitTransfer
type SubmitTransferReply struct {
	// Number of extrinsics waiting for a block, this one included
	Pending json.Uint32 `json:"pending"`
}

// SubmitTransfer queues a transfer of [args.Amount] from [args.From] to
// [args.To]. The transfer is only validated when its block executes.
func (s *Service) SubmitTransfer(_ *http.Request, args *SubmitTransferArgs, reply *SubmitTransferReply) error {
	if args.From == "" || args.To == "" {
		return errEmptyAccount
	}
	extrinsic := runtime.NewTransferExtrinsic(args.From, args.To, runtime.Balance(args.Amount))
	if err := s.vm.SubmitExtrinsic(extrinsic); err != nil {
		return err
	}
	reply.Pending = json.Uint32(s.vm.Pending())
	return nil
}

// BlockReply describes a block and the outcome of its extrinsics
type BlockReply struct {
	ID          ids.ID              `json:"id"`
	ParentID    ids.ID              `json:"parentID"`
	Timestamp   json.Uint64         `json:"timestamp"`
	BlockNumber json.Uint32         `json:"blockNumber"`
	Extrinsics  []ExtrinsicReply    `json:"extrinsics"`
	Failures    []Failure           `json:"failures"`
	Bytes       string              `json:"bytes"`
	Encoding    formatting.Encoding `json:"encoding"`
}

// ExtrinsicReply is the JSON form of an extrinsic
type ExtrinsicReply struct {
	Caller string      `json:"caller"`
	Call   string      `json:"call"`
	To     string      `json:"to,omitempty"`
	Amount json.Uint64 `json:"amount,omitempty"`
}

// BuildBlock packs the pending extrinsics into a block and executes it.
func (s *Service) BuildBlock(_ *http.Request, _ *struct{}, reply *BlockReply) error {
	blk, receipt, err := s.vm.BuildBlock(context.TODO())
	if err != nil {
		return err
	}
	return fillBlockReply(reply, blk, receipt)
}

// IssueBlockArgs are the arguments to IssueBlock
type IssueBlockArgs struct {
	Bytes    string              `json:"bytes"`
	Encoding formatting.Encoding `json:"encoding"`
}

// IssueBlock executes a block built by the caller. The block must sit on
// top of the last accepted block and carry the next block number.
func (s *Service) IssueBlock(_ *http.Request, args *IssueBlockArgs, reply *BlockReply) error {
	bytes, err := formatting.Decode(args.Encoding, args.Bytes)
	if err != nil {
		return fmt.Errorf("couldn't decode block bytes: %w", err)
	}
	blk, err := ParseBlock(bytes)
	if err != nil {
		return fmt.Errorf("couldn't parse block: %w", err)
	}
	receipt, err := s.vm.IssueBlock(context.TODO(), blk)
	if err != nil {
		return err
	}
	return fillBlockReply(reply, blk, receipt)
}

// GetBlockArgs are the arguments to GetBlock
type GetBlockArgs struct {
	// ID of the block we're getting.
	// If left blank, gets the latest block
	ID *ids.ID `json:"id"`
}

// GetBlock gets the block whose ID is [args.ID]
// If [args.ID] is empty, get the latest block
func (s *Service) GetBlock(_ *http.Request, args *GetBlockArgs, reply *BlockReply) error {
	ctx := context.TODO()

	var (
		id  ids.ID
		err error
	)
	if args.ID == nil || *args.ID == ids.Empty {
		id, err = s.vm.LastAccepted(ctx)
		if err != nil {
			return errCannotGetLastAccepted
		}
	} else {
		id = *args.ID
	}

	blk, err := s.vm.GetBlock(ctx, id)
	if err != nil {
		return errNoSuchBlock
	}
	receipt, err := s.vm.GetReceipt(ctx, id)
	switch {
	case errors.Is(err, database.ErrNotFound):
		receipt = nil
	case err != nil:
		return err
	}
	return fillBlockReply(reply, blk, receipt)
}

// AccountArgs are the arguments to calls about a single account
type AccountArgs struct {
	Account string `json:"account"`
}

// BalanceReply is the reply from GetBalance
type BalanceReply struct {
	Balance json.Uint64 `json:"balance"`
}

// GetBalance returns the balance of [args.Account]
func (s *Service) GetBalance(_ *http.Request, args *AccountArgs, reply *BalanceReply) error {
	reply.Balance = json.Uint64(s.vm.Balance(args.Account))
	return nil
}

// NonceReply is the reply from GetNonce
type NonceReply struct {
	Nonce json.Uint32 `json:"nonce"`
}

// GetNonce returns the nonce of [args.Account]
func (s *Service) GetNonce(_ *http.Request, args *AccountArgs, reply *NonceReply) error {
	reply.Nonce = json.Uint32(s.vm.Nonce(args.Account))
	return nil
}

// BlockNumberReply is the reply from GetBlockNumber
type BlockNumberReply struct {
	BlockNumber json.Uint32 `json:"blockNumber"`
}

// GetBlockNumber returns the number of the last executed block
func (s *Service) GetBlockNumber(_ *http.Request, _ *struct{}, reply *BlockNumberReply) error {
	reply.BlockNumber = json.Uint32(s.vm.BlockNumber())
	return nil
}

// AccountReply is a single ledger entry
type AccountReply struct {
	ID      string      `json:"id"`
	Balance json.Uint64 `json:"balance"`
	Nonce   json.Uint32 `json:"nonce"`
}

// AccountsReply is the reply from GetAccounts
type AccountsReply struct {
	Accounts []AccountReply `json:"accounts"`
}

// GetAccounts returns every account holding a balance, in ascending order
func (s *Service) GetAccounts(_ *http.Request, _ *struct{}, reply *AccountsReply) error {
	accounts := s.vm.Accounts()
	reply.Accounts = make([]AccountReply, 0, len(accounts))
	for _, account := range accounts {
		reply.Accounts = append(reply.Accounts, AccountReply{
			ID:      account.ID,
			Balance: json.Uint64(account.Balance),
			Nonce:   json.Uint32(s.vm.Nonce(account.ID)),
		})
	}
	return nil
}

// HealthReply is the reply from Health
type HealthReply struct {
	Healthy bool `json:"healthy"`
}

// Health reports whether the VM is initialized
func (s *Service) Health(_ *http.Request, _ *struct{}, reply *HealthReply) error {
	_, err := s.vm.HealthCheck(context.TODO())
	reply.Healthy = err == nil
	return nil
}

// fillBlockReply fills [reply] with [blk]. [receipt] is nil for the genesis
// block.
func fillBlockReply(reply *BlockReply, blk *Block, receipt *Receipt) error {
	bytes, err := formatting.Encode(formatting.Hex, blk.Bytes())
	if err != nil {
		return fmt.Errorf("couldn't encode block bytes: %w", err)
	}

	reply.ID = blk.ID()
	reply.ParentID = blk.Parent()
	reply.Timestamp = json.Uint64(blk.Tmstmp)
	reply.BlockNumber = json.Uint32(blk.Header.BlockNumber)
	reply.Bytes = bytes
	reply.Encoding = formatting.Hex

	reply.Extrinsics = make([]ExtrinsicReply, 0, len(blk.Extrinsics))
	for _, extrinsic := range blk.Extrinsics {
		reply.Extrinsics = append(reply.Extrinsics, newExtrinsicReply(extrinsic))
	}
	reply.Failures = []Failure{}
	if receipt != nil {
		reply.Failures = receipt.Failures
	}
	return nil
}

func newExtrinsicReply(extrinsic runtime.Extrinsic) ExtrinsicReply {
	reply := ExtrinsicReply{
		Caller: extrinsic.Caller,
		Call:   runtime.CallName(extrinsic.Call),
	}
	if call, ok := extrinsic.Call.(*runtime.BalancesCall); ok && call != nil {
		if transfer, ok := call.Call.(*runtime.Transfer); ok && transfer != nil {
			reply.To = transfer.To
			reply.Amount = json.Uint64(transfer.Amount)
		}
	}
	return reply
}
