// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import (
	"encoding/binary"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/ava-labs/ledgervm/runtime"
)

var _ BlockState = (*blockState)(nil)

// BlockState indexes accepted blocks by ID and by height, and keeps the
// receipt of every executed block.
type BlockState interface {
	GetBlock(blkID ids.ID) (*Block, error)
	PutBlock(blk *Block) error
	GetBlockIDAtHeight(height uint64) (ids.ID, error)

	GetReceipt(blkID ids.ID) (*Receipt, error)
	PutReceipt(blkID ids.ID, receipt *Receipt) error
}

type blockState struct {
	blockDB   database.Database
	heightDB  database.Database
	receiptDB database.Database
}

func NewBlockState(blockDB, heightDB, receiptDB database.Database) BlockState {
	return &blockState{
		blockDB:   blockDB,
		heightDB:  heightDB,
		receiptDB: receiptDB,
	}
}

func (s *blockState) GetBlock(blkID ids.ID) (*Block, error) {
	blkBytes, err := s.blockDB.Get(blkID[:])
	if err != nil {
		return nil, err
	}
	blk, err := ParseBlock(blkBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse block %s: %w", blkID, err)
	}
	return blk, nil
}

func (s *blockState) PutBlock(blk *Block) error {
	blkID := blk.ID()
	if err := s.heightDB.Put(heightKey(blk.Height()), blkID[:]); err != nil {
		return fmt.Errorf("failed to put block %s into height index: %w", blkID, err)
	}
	if err := s.blockDB.Put(blkID[:], blk.Bytes()); err != nil {
		return fmt.Errorf("failed to put block %s into block index: %w", blkID, err)
	}
	return nil
}

func (s *blockState) GetBlockIDAtHeight(height uint64) (ids.ID, error) {
	blkIDBytes, err := s.heightDB.Get(heightKey(height))
	if err != nil {
		return ids.Empty, err
	}
	return ids.ToID(blkIDBytes)
}

func (s *blockState) GetReceipt(blkID ids.ID) (*Receipt, error) {
	receiptBytes, err := s.receiptDB.Get(blkID[:])
	if err != nil {
		return nil, err
	}
	receipt := &Receipt{}
	if _, err := runtime.Codec.Unmarshal(receiptBytes, receipt); err != nil {
		return nil, fmt.Errorf("failed to parse receipt of block %s: %w", blkID, err)
	}
	return receipt, nil
}

func (s *blockState) PutReceipt(blkID ids.ID, receipt *Receipt) error {
	receiptBytes, err := runtime.Codec.Marshal(runtime.CodecVersion, receipt)
	if err != nil {
		return err
	}
	return s.receiptDB.Put(blkID[:], receiptBytes)
}

func heightKey(height uint64) []byte {
	key := make([]byte, wrappers.LongLen)
	binary.BigEndian.PutUint64(key, height)
	return key
}
