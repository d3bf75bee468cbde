// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package runtime composes the system and balances modules and executes
// blocks of extrinsics against them.
package runtime

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/ledgervm/balances"
	"github.com/ava-labs/ledgervm/support"
	"github.com/ava-labs/ledgervm/system"
)

var (
	ErrUnexpectedBlockNumber = errors.New("unexpected block number")

	_ support.Dispatcher[AccountID, Call] = (*Runtime)(nil)
)

type Config struct {
	// Log defaults to a child of the root logger.
	Log log.Logger
	// Metrics may be nil.
	Metrics *Metrics
}

// Runtime is the state transition function of the ledger. Its state only
// changes through ExecuteBlock, apart from SetBalance used to seed genesis.
//
// Runtime is not safe for concurrent use.
type Runtime struct {
	system   *system.Module[AccountID, BlockNumber, Nonce]
	balances *balances.Module[AccountID, Balance]

	log     log.Logger
	metrics *Metrics
}

// New returns an empty runtime at block 0.
func New() *Runtime {
	return NewWithConfig(Config{})
}

func NewWithConfig(config Config) *Runtime {
	logger := config.Log
	if logger == nil {
		logger = log.New("module", "runtime")
	}
	return &Runtime{
		system:   system.New[AccountID, BlockNumber, Nonce](),
		balances: balances.New[AccountID, Balance](),
		log:      logger,
		metrics:  config.Metrics,
	}
}

func (r *Runtime) SetBalance(who AccountID, amount Balance) {
	r.balances.SetBalance(who, amount)
}

func (r *Runtime) Balance(who AccountID) Balance { return r.balances.Balance(who) }

func (r *Runtime) Nonce(who AccountID) Nonce { return r.system.Nonce(who) }

func (r *Runtime) BlockNumber() BlockNumber { return r.system.BlockNumber() }

// Accounts returns every ledger entry in ascending account order.
func (r *Runtime) Accounts() []Account { return r.balances.Accounts() }

// Dispatch routes [call] to the module that owns it.
func (r *Runtime) Dispatch(caller AccountID, call Call) error {
	switch c := call.(type) {
	case *BalancesCall:
		if c == nil {
			return support.ErrUnknownCall
		}
		return r.balances.Dispatch(caller, c.Call)
	default:
		return support.ErrUnknownCall
	}
}

// ExecuteBlock executes [block]. See Execute.
func (r *Runtime) ExecuteBlock(block Block) error {
	_, err := r.Execute(block)
	return err
}

// Execute advances the block number and then applies every extrinsic of
// [block] in order.
//
// The header must carry the block number that follows the current one. If it
// does not, or if the block number cannot be advanced, the error is returned
// and nothing changes.
//
// Once the block number has advanced, every extrinsic is attempted: the
// caller's nonce is bumped and the call dispatched. A rejected extrinsic is
// recorded in the returned receipt and execution moves on to the next one.
func (r *Runtime) Execute(block Block) (*Receipt, error) {
	expected, err := r.system.NextBlockNumber()
	if err != nil {
		r.log.Error("cannot advance block number",
			"current", r.system.BlockNumber(),
			"err", err,
		)
		r.metrics.blockRejected()
		return nil, err
	}
	if found := block.Header.BlockNumber; found != expected {
		r.metrics.blockRejected()
		return nil, fmt.Errorf("%w: expected %d, found %d", ErrUnexpectedBlockNumber, expected, found)
	}
	if err := r.system.IncBlockNumber(); err != nil {
		r.metrics.blockRejected()
		return nil, err
	}

	receipt := &Receipt{
		BlockNumber: expected,
		Extrinsics:  len(block.Extrinsics),
	}
	for i, extrinsic := range block.Extrinsics {
		if failure := r.apply(expected, i, extrinsic); failure != nil {
			r.log.Warn("extrinsic failed",
				"block", failure.BlockNumber,
				"index", failure.Index,
				"caller", failure.Caller,
				"stage", failure.Stage,
				"err", failure.Err,
			)
			receipt.Failures = append(receipt.Failures, failure)
		}
	}

	r.metrics.blockExecuted(receipt)
	r.log.Debug("executed block",
		"number", expected,
		"extrinsics", receipt.Extrinsics,
		"failed", len(receipt.Failures),
	)
	return receipt, nil
}

func (r *Runtime) apply(number BlockNumber, index int, extrinsic Extrinsic) *ExtrinsicError {
	if err := r.system.IncNonce(extrinsic.Caller); err != nil {
		return &ExtrinsicError{
			BlockNumber: number,
			Index:       index,
			Caller:      extrinsic.Caller,
			Stage:       StageNonce,
			Err:         err,
		}
	}
	if err := r.Dispatch(extrinsic.Caller, extrinsic.Call); err != nil {
		return &ExtrinsicError{
			BlockNumber: number,
			Index:       index,
			Caller:      extrinsic.Caller,
			Stage:       StageDispatch,
			Err:         err,
		}
	}
	return nil
}

// String dumps the whole state, accounts in ascending order.
func (r *Runtime) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "block number: %d\n", r.system.BlockNumber())

	accounts := r.balances.Accounts()
	seen := make(map[AccountID]struct{}, len(accounts))
	for _, account := range accounts {
		seen[account.ID] = struct{}{}
	}
	for _, entry := range r.system.Nonces() {
		if _, ok := seen[entry.ID]; !ok {
			accounts = append(accounts, Account{ID: entry.ID})
		}
	}
	sortAccounts(accounts)

	sb.WriteString("accounts:\n")
	for _, account := range accounts {
		fmt.Fprintf(&sb, "  %s: balance=%d nonce=%d\n", account.ID, account.Balance, r.system.Nonce(account.ID))
	}
	return sb.String()
}

func sortAccounts(accounts []Account) {
	slices.SortFunc(accounts, func(a, b Account) int {
		return cmp.Compare(a.ID, b.ID)
	})
}
