// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import (
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/prefixdb"
	"github.com/ava-labs/avalanchego/database/versiondb"
)

var (
	// These are prefixes for db keys.
	// It's important to set different prefixes for each separate database objects.
	singletonStatePrefix = []byte("singleton")
	blockStatePrefix     = []byte("block")
	heightStatePrefix    = []byte("height")
	receiptStatePrefix   = []byte("receipt")

	_ State = (*state)(nil)
)

// State is a wrapper around SingletonState and BlockState.
// Writes are buffered until Commit; Abort drops them.
type State interface {
	SingletonState
	BlockState

	Commit() error
	Abort()
	Close() error
}

type state struct {
	SingletonState
	BlockState

	baseDB *versiondb.Database
}

func NewState(db database.Database) State {
	baseDB := versiondb.New(db)
	return &state{
		SingletonState: NewSingletonState(prefixdb.New(singletonStatePrefix, baseDB)),
		BlockState: NewBlockState(
			prefixdb.New(blockStatePrefix, baseDB),
			prefixdb.New(heightStatePrefix, baseDB),
			prefixdb.New(receiptStatePrefix, baseDB),
		),
		baseDB: baseDB,
	}
}

// Commit commits pending operations to baseDB
func (s *state) Commit() error {
	return s.baseDB.Commit()
}

// Abort drops the operations that were not committed
func (s *state) Abort() {
	s.baseDB.Abort()
}

// Close closes the underlying base database
func (s *state) Close() error {
	return s.baseDB.Close()
}
