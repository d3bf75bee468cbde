// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import (
	"fmt"
	"net/http"

	"github.com/ava-labs/avalanchego/utils/formatting"
)

// StaticService works on blocks without needing a running chain
type StaticService struct{}

// CreateStaticService returns the service decoding blocks for the static API
func CreateStaticService() *StaticService {
	return &StaticService{}
}

// DecodeBlockArgs are arguments for DecodeBlock
type DecodeBlockArgs struct {
	Bytes    string              `json:"bytes"`
	Encoding formatting.Encoding `json:"encoding"`
}

// DecodeBlock parses encoded block bytes. The reply carries no failures
// since the block was not executed.
func (ss *StaticService) DecodeBlock(_ *http.Request, args *DecodeBlockArgs, reply *BlockReply) error {
	bytes, err := formatting.Decode(args.Encoding, args.Bytes)
	if err != nil {
		return fmt.Errorf("couldn't decode block bytes: %w", err)
	}
	blk, err := ParseBlock(bytes)
	if err != nil {
		return fmt.Errorf("couldn't parse block: %w", err)
	}
	return fillBlockReply(reply, blk, nil)
}
