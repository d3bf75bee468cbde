// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import (
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
)

var (
	isInitializedKey = []byte{0}
	lastAcceptedKey  = []byte{1}
	genesisKey       = []byte{2}

	_ SingletonState = (*singletonState)(nil)
)

// SingletonState stores the values the chain holds exactly one of: whether
// genesis was written, the genesis it was written from, and the last accepted
// block.
type SingletonState interface {
	IsInitialized() (bool, error)
	SetInitialized() error

	GetGenesisID() (ids.ID, error)
	SetGenesisID(ids.ID) error

	GetLastAccepted() (ids.ID, error)
	SetLastAccepted(ids.ID) error
}

type singletonState struct {
	singletonDB database.Database
}

func NewSingletonState(db database.Database) SingletonState {
	return &singletonState{
		singletonDB: db,
	}
}

func (s *singletonState) IsInitialized() (bool, error) {
	return s.singletonDB.Has(isInitializedKey)
}

func (s *singletonState) SetInitialized() error {
	return s.singletonDB.Put(isInitializedKey, nil)
}

func (s *singletonState) GetGenesisID() (ids.ID, error) {
	genesisIDBytes, err := s.singletonDB.Get(genesisKey)
	if err != nil {
		return ids.Empty, err
	}
	return ids.ToID(genesisIDBytes)
}

func (s *singletonState) SetGenesisID(genesisID ids.ID) error {
	return s.singletonDB.Put(genesisKey, genesisID[:])
}

func (s *singletonState) GetLastAccepted() (ids.ID, error) {
	blkIDBytes, err := s.singletonDB.Get(lastAcceptedKey)
	if err != nil {
		return ids.Empty, err
	}
	return ids.ToID(blkIDBytes)
}

func (s *singletonState) SetLastAccepted(blkID ids.ID) error {
	return s.singletonDB.Put(lastAcceptedKey, blkID[:])
}
