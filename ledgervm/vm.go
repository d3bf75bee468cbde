// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/timer/mockable"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"

	log "github.com/inconshreveable/log15"

	"github.com/ava-labs/ledgervm/runtime"
)

const (
	Name    = "ledger"
	Version = "v0.1.0"

	futureBlockLimit = time.Minute // Maximum amount of time that a block can be in the future
)

var (
	errBlockWrongVersion   = errors.New("wrong codec version")
	errEmptyAccount        = errors.New("account must be non-empty")
	errInvalidConfig       = errors.New("invalid config")
	errMempoolFull         = errors.New("mempool is full")
	errNoPendingExtrinsics = errors.New("there is no extrinsic to build a block with")
	errNotInitialized      = errors.New("vm is not initialized")
	errGenesisMismatch     = errors.New("stored genesis block does not match the genesis")
	errUnknownParent       = errors.New("block's parent is not the last accepted block")
	errTimestampTooEarly   = errors.New("block's timestamp is earlier than its parent's timestamp")
	errTimestampTooLate    = errors.New("block's timestamp is too far in the future")
)

// VM drives a runtime: it keeps the chain of executed blocks, collects
// extrinsics in a mempool and packs them into blocks.
//
// All exported methods are safe for concurrent use.
type VM struct {
	// Clock used for block building and verification
	clock mockable.Clock

	lock    sync.RWMutex
	runtime *runtime.Runtime
	state   State
	genesis *Block

	mempool *mempool
	*builder

	log log.Logger
}

// Initialize this vm.
// [db] backs the block index; blocks found in it are replayed so the runtime
// ends up where it was.
// The initial balances are read from [genesisBytes].
// [configBytes] may be empty to use the defaults.
func (vm *VM) Initialize(
	ctx context.Context,
	db database.Database,
	genesisBytes []byte,
	configBytes []byte,
	registerer prometheus.Registerer,
) error {
	vm.log = log.New("vm", Name)
	vm.log.Info("Initializing ledger VM", "Version", Version)

	config, err := ParseConfig(configBytes)
	if err != nil {
		return err
	}
	genesis, err := ParseGenesis(genesisBytes)
	if err != nil {
		return err
	}

	metrics, err := runtime.NewMetrics(Name, registerer)
	if err != nil {
		return fmt.Errorf("failed to register runtime metrics: %w", err)
	}

	vm.runtime = runtime.NewWithConfig(runtime.Config{
		Log:     vm.log.New("module", "runtime"),
		Metrics: metrics,
	})
	vm.state = NewState(db)
	vm.mempool = newMempool(config.MempoolSize)
	vm.builder = newBuilder(&vm.clock, vm.mempool, config.MaxBlockExtrinsics)

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: Name,
			Name:      "mempool_pending",
			Help:      "Number of extrinsics waiting in the mempool",
		}, func() float64 { return float64(vm.mempool.Len()) })),
		registerer.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: Name,
			Name:      "block_number",
			Help:      "Number of the last executed block",
		}, func() float64 { return float64(vm.BlockNumber()) })),
	)
	if errs.Errored() {
		return fmt.Errorf("failed to register vm metrics: %w", errs.Err)
	}

	vm.lock.Lock()
	defer vm.lock.Unlock()

	genesis.apply(vm.runtime)
	return vm.initGenesis(ctx, genesis)
}

func (vm *VM) initGenesis(ctx context.Context, genesis *Genesis) error {
	genesisBlock, err := NewBlock(ids.Empty, genesis.Timestamp, 0, nil)
	if err != nil {
		return fmt.Errorf("failed to create genesis block: %w", err)
	}
	vm.genesis = genesisBlock

	genesisID, err := genesis.ID()
	if err != nil {
		return err
	}

	initialized, err := vm.state.IsInitialized()
	if err != nil {
		return err
	}
	if initialized {
		return vm.replay(ctx, genesisID)
	}

	defer vm.state.Abort()
	if err := vm.state.PutBlock(genesisBlock); err != nil {
		return fmt.Errorf("failed to put genesis block: %w", err)
	}
	if err := vm.state.SetGenesisID(genesisID); err != nil {
		return fmt.Errorf("failed to put genesis ID: %w", err)
	}
	if err := vm.state.SetLastAccepted(genesisBlock.ID()); err != nil {
		return err
	}
	if err := vm.state.SetInitialized(); err != nil {
		return fmt.Errorf("error while setting db to initialized: %w", err)
	}
	if err := vm.state.Commit(); err != nil {
		return fmt.Errorf("failed to commit genesis: %w", err)
	}
	vm.log.Info("Created genesis block", "blkID", genesisBlock.ID(), "genesisID", genesisID)
	return nil
}

// replay re-executes every stored block on top of the genesis state. The
// database must have been created from the genesis hashing to [genesisID].
func (vm *VM) replay(ctx context.Context, genesisID ids.ID) error {
	storedGenesisID, err := vm.state.GetGenesisID()
	if err != nil {
		return fmt.Errorf("failed to get genesis ID: %w", err)
	}
	if storedGenesisID != genesisID {
		return fmt.Errorf("%w: found genesis %s, expected %s", errGenesisMismatch, storedGenesisID, genesisID)
	}
	genesisBlkID, err := vm.state.GetBlockIDAtHeight(0)
	if err != nil {
		return fmt.Errorf("failed to get genesis block ID: %w", err)
	}
	if genesisBlkID != vm.genesis.ID() {
		return fmt.Errorf("%w: found block %s, expected %s", errGenesisMismatch, genesisBlkID, vm.genesis.ID())
	}

	for height := uint64(1); ; height++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		blkID, err := vm.state.GetBlockIDAtHeight(height)
		if errors.Is(err, database.ErrNotFound) {
			vm.log.Info("Replayed stored blocks", "blocks", height-1)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get block ID at height %d: %w", height, err)
		}
		blk, err := vm.state.GetBlock(blkID)
		if err != nil {
			return fmt.Errorf("failed to get block %s: %w", blkID, err)
		}
		if err := vm.runtime.ExecuteBlock(blk.Body()); err != nil {
			return fmt.Errorf("failed to replay block %s at height %d: %w", blkID, height, err)
		}
	}
}

// SubmitExtrinsic queues [extrinsic] for a future block.
func (vm *VM) SubmitExtrinsic(extrinsic runtime.Extrinsic) error {
	if vm.mempool == nil {
		return errNotInitialized
	}
	return vm.mempool.Add(extrinsic)
}

// Pending returns the number of extrinsics in the mempool.
func (vm *VM) Pending() int {
	if vm.mempool == nil {
		return 0
	}
	return vm.mempool.Len()
}

// BuildBlock packs pending extrinsics into a block on top of the last
// accepted block and accepts it.
func (vm *VM) BuildBlock(ctx context.Context) (*Block, *Receipt, error) {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	parent, err := vm.lastAcceptedBlock()
	if err != nil {
		return nil, nil, err
	}
	blk, err := vm.builder.buildBlock(parent)
	if err != nil {
		return nil, nil, err
	}
	receipt, err := vm.accept(parent, blk)
	if err != nil {
		return nil, nil, err
	}
	return blk, receipt, nil
}

// IssueBlock verifies and accepts a block built elsewhere.
func (vm *VM) IssueBlock(ctx context.Context, blk *Block) (*Receipt, error) {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	parent, err := vm.lastAcceptedBlock()
	if err != nil {
		return nil, err
	}
	return vm.accept(parent, blk)
}

// Run builds a block every [interval] while extrinsics are pending, until
// [ctx] is done.
func (vm *VM) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		for vm.mempool.Len() > 0 {
			blk, receipt, err := vm.BuildBlock(ctx)
			if err != nil {
				vm.log.Warn("Failed to build block", "err", err)
				break
			}
			vm.log.Info("Built block",
				"blkID", blk.ID(),
				"number", blk.Header.BlockNumber,
				"extrinsics", receipt.Extrinsics,
				"failed", len(receipt.Failures),
			)
		}
	}
}

// verify checks [blk] against [parent]. The block number is checked by the
// runtime when the block executes.
func (vm *VM) verify(parent *Block, blk *Block) error {
	if blk.Parent() != parent.ID() {
		return fmt.Errorf("%w: parent %s, last accepted %s", errUnknownParent, blk.Parent(), parent.ID())
	}

	// Ensure [blk]'s timestamp is >= its parent's timestamp.
	if blk.Timestamp().Before(parent.Timestamp()) {
		return fmt.Errorf("%w: %s < %s", errTimestampTooEarly, blk.Timestamp(), parent.Timestamp())
	}

	// Ensure [blk]'s timestamp is not too far ahead of this node's time
	if now := vm.clock.Time(); blk.Timestamp().After(now.Add(futureBlockLimit)) {
		return fmt.Errorf("%w: %s is more than %s past %s", errTimestampTooLate, blk.Timestamp(), futureBlockLimit, now)
	}
	return nil
}

// accept executes [blk] and indexes it. Must hold [vm.lock].
func (vm *VM) accept(parent *Block, blk *Block) (*Receipt, error) {
	if err := vm.verify(parent, blk); err != nil {
		return nil, err
	}

	defer vm.state.Abort()

	result, err := vm.runtime.Execute(blk.Body())
	if err != nil {
		return nil, fmt.Errorf("failed to execute block %s: %w", blk.ID(), err)
	}
	receipt := newReceipt(result)

	if err := vm.state.PutBlock(blk); err != nil {
		return nil, err
	}
	if err := vm.state.PutReceipt(blk.ID(), receipt); err != nil {
		return nil, fmt.Errorf("failed to put receipt of block %s: %w", blk.ID(), err)
	}
	if err := vm.state.SetLastAccepted(blk.ID()); err != nil {
		return nil, fmt.Errorf("failed to update last accepted block to %s: %w", blk.ID(), err)
	}
	if err := vm.state.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit database accepting block %s: %w", blk.ID(), err)
	}
	return receipt, nil
}

// Must hold [vm.lock].
func (vm *VM) lastAcceptedBlock() (*Block, error) {
	if vm.state == nil {
		return nil, errNotInitialized
	}
	blkID, err := vm.state.GetLastAccepted()
	if err != nil {
		return nil, fmt.Errorf("failed to get last accepted block ID: %w", err)
	}
	return vm.state.GetBlock(blkID)
}

// LastAccepted returns the ID of the last accepted block.
func (vm *VM) LastAccepted(ctx context.Context) (ids.ID, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	return vm.state.GetLastAccepted()
}

// GetBlock returns the accepted block [blkID].
func (vm *VM) GetBlock(ctx context.Context, blkID ids.ID) (*Block, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	return vm.state.GetBlock(blkID)
}

// GetReceipt returns the execution receipt of the accepted block [blkID].
// The genesis block has no receipt.
func (vm *VM) GetReceipt(ctx context.Context, blkID ids.ID) (*Receipt, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	return vm.state.GetReceipt(blkID)
}

func (vm *VM) GetBlockIDAtHeight(ctx context.Context, height uint64) (ids.ID, error) {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	return vm.state.GetBlockIDAtHeight(height)
}

func (vm *VM) Balance(who runtime.AccountID) runtime.Balance {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	return vm.runtime.Balance(who)
}

func (vm *VM) Nonce(who runtime.AccountID) runtime.Nonce {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	return vm.runtime.Nonce(who)
}

func (vm *VM) BlockNumber() runtime.BlockNumber {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	return vm.runtime.BlockNumber()
}

func (vm *VM) Accounts() []runtime.Account {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	return vm.runtime.Accounts()
}

// Dump returns a human readable dump of the runtime state.
func (vm *VM) Dump() string {
	vm.lock.RLock()
	defer vm.lock.RUnlock()

	return vm.runtime.String()
}

// HealthCheck reports the block number and the mempool size.
func (vm *VM) HealthCheck(ctx context.Context) (interface{}, error) {
	if vm.state == nil {
		return nil, errNotInitialized
	}
	return map[string]interface{}{
		"blockNumber": vm.BlockNumber(),
		"pending":     vm.mempool.Len(),
	}, nil
}

// Version returns the version of the VM.
func (vm *VM) Version(ctx context.Context) (string, error) {
	return Version, nil
}

// Shutdown closes the block index.
func (vm *VM) Shutdown(ctx context.Context) error {
	if vm.state == nil {
		return nil
	}

	vm.lock.Lock()
	defer vm.lock.Unlock()

	return vm.state.Close()
}
