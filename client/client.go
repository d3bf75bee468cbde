// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/formatting"
	"github.com/ava-labs/avalanchego/utils/json"
	"github.com/ava-labs/avalanchego/utils/rpc"

	"github.com/ava-labs/ledgervm/ledgervm"
)

// Client defines ledgervm client operations.
type Client interface {
	// SubmitTransfer queues a transfer and returns the number of pending extrinsics
	SubmitTransfer(ctx context.Context, from, to string, amount uint64) (uint32, error)

	// BuildBlock packs the pending extrinsics into a block and executes it
	BuildBlock(ctx context.Context) (*ledgervm.BlockReply, error)

	// IssueBlock executes a block built by the caller
	IssueBlock(ctx context.Context, blockBytes []byte) (*ledgervm.BlockReply, error)

	// GetBlock fetches a block and its failures. A nil [blockID] fetches the
	// last accepted block.
	GetBlock(ctx context.Context, blockID *ids.ID) (*ledgervm.BlockReply, error)

	GetBalance(ctx context.Context, account string) (uint64, error)
	GetNonce(ctx context.Context, account string) (uint32, error)
	GetBlockNumber(ctx context.Context) (uint32, error)
	GetAccounts(ctx context.Context) ([]ledgervm.AccountReply, error)
	Health(ctx context.Context) (bool, error)
}

// New creates a new client object for the service served at [uri].
func New(uri string) Client {
	req := rpc.NewEndpointRequester(uri)
	return &client{req: req}
}

type client struct {
	req rpc.EndpointRequester
}

func (cli *client) SubmitTransfer(ctx context.Context, from, to string, amount uint64) (uint32, error) {
	resp := new(ledgervm.SubmitTransferReply)
	err := cli.req.SendRequest(ctx,
		ledgervm.Name+".submitTransfer",
		&ledgervm.SubmitTransferArgs{From: from, To: to, Amount: json.Uint64(amount)},
		resp,
	)
	return uint32(resp.Pending), err
}

func (cli *client) BuildBlock(ctx context.Context) (*ledgervm.BlockReply, error) {
	resp := new(ledgervm.BlockReply)
	if err := cli.req.SendRequest(ctx, ledgervm.Name+".buildBlock", &struct{}{}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *client) IssueBlock(ctx context.Context, blockBytes []byte) (*ledgervm.BlockReply, error) {
	encoded, err := formatting.Encode(formatting.Hex, blockBytes)
	if err != nil {
		return nil, err
	}

	resp := new(ledgervm.BlockReply)
	err = cli.req.SendRequest(ctx,
		ledgervm.Name+".issueBlock",
		&ledgervm.IssueBlockArgs{Bytes: encoded, Encoding: formatting.Hex},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *client) GetBlock(ctx context.Context, blockID *ids.ID) (*ledgervm.BlockReply, error) {
	resp := new(ledgervm.BlockReply)
	if err := cli.req.SendRequest(ctx, ledgervm.Name+".getBlock", &ledgervm.GetBlockArgs{ID: blockID}, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *client) GetBalance(ctx context.Context, account string) (uint64, error) {
	resp := new(ledgervm.BalanceReply)
	err := cli.req.SendRequest(ctx, ledgervm.Name+".getBalance", &ledgervm.AccountArgs{Account: account}, resp)
	return uint64(resp.Balance), err
}

func (cli *client) GetNonce(ctx context.Context, account string) (uint32, error) {
	resp := new(ledgervm.NonceReply)
	err := cli.req.SendRequest(ctx, ledgervm.Name+".getNonce", &ledgervm.AccountArgs{Account: account}, resp)
	return uint32(resp.Nonce), err
}

func (cli *client) GetBlockNumber(ctx context.Context) (uint32, error) {
	resp := new(ledgervm.BlockNumberReply)
	err := cli.req.SendRequest(ctx, ledgervm.Name+".getBlockNumber", &struct{}{}, resp)
	return uint32(resp.BlockNumber), err
}

func (cli *client) GetAccounts(ctx context.Context) ([]ledgervm.AccountReply, error) {
	resp := new(ledgervm.AccountsReply)
	if err := cli.req.SendRequest(ctx, ledgervm.Name+".getAccounts", &struct{}{}, resp); err != nil {
		return nil, err
	}
	return resp.Accounts, nil
}

func (cli *client) Health(ctx context.Context) (bool, error) {
	resp := new(ledgervm.HealthReply)
	err := cli.req.SendRequest(ctx, ledgervm.Name+".health", &struct{}{}, resp)
	return resp.Healthy, err
}
