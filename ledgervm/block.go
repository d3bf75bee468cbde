// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import (
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"

	"github.com/ava-labs/ledgervm/runtime"
)

// Block is a runtime block as stored and served by the VM.
// Each block contains:
// 1) its parent's ID and a timestamp
// 2) the header and extrinsics executed by the runtime
type Block struct {
	PrntID     ids.ID              `serialize:"true" json:"parentID"`
	Tmstmp     int64               `serialize:"true" json:"timestamp"`
	Header     runtime.Header      `serialize:"true" json:"header"`
	Extrinsics []runtime.Extrinsic `serialize:"true" json:"extrinsics"`

	id    ids.ID
	bytes []byte
}

// NewBlock returns a block on top of [parentID] and computes its ID.
func NewBlock(parentID ids.ID, timestamp int64, number runtime.BlockNumber, extrinsics []runtime.Extrinsic) (*Block, error) {
	blk := &Block{
		PrntID:     parentID,
		Tmstmp:     timestamp,
		Header:     runtime.Header{BlockNumber: number},
		Extrinsics: extrinsics,
	}
	bytes, err := runtime.Codec.Marshal(runtime.CodecVersion, blk)
	if err != nil {
		return nil, err
	}
	blk.bytes = bytes
	blk.id = hashing.ComputeHash256Array(bytes)
	return blk, nil
}

// ParseBlock parses [bytes] into a block.
func ParseBlock(bytes []byte) (*Block, error) {
	blk := &Block{}
	version, err := runtime.Codec.Unmarshal(bytes, blk)
	if err != nil {
		return nil, err
	}
	if version != runtime.CodecVersion {
		return nil, errBlockWrongVersion
	}
	blk.bytes = bytes
	blk.id = hashing.ComputeHash256Array(bytes)
	return blk, nil
}

// ID returns the ID of this block
func (b *Block) ID() ids.ID { return b.id }

// Parent returns [b]'s parent's ID
func (b *Block) Parent() ids.ID { return b.PrntID }

// Height returns the block number. The genesis block has height 0.
func (b *Block) Height() uint64 { return uint64(b.Header.BlockNumber) }

// Timestamp returns this block's time. The genesis block has the time set in
// the genesis file.
func (b *Block) Timestamp() time.Time { return time.Unix(b.Tmstmp, 0) }

// Bytes returns the byte repr. of this block
func (b *Block) Bytes() []byte { return b.bytes }

// Body returns the part of the block the runtime executes.
func (b *Block) Body() runtime.Block {
	return runtime.NewBlock(b.Header.BlockNumber, b.Extrinsics...)
}
