// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package system tracks the current block number and the nonce of every
// account.
package system

import (
	"cmp"
	"errors"
	"slices"

	"github.com/ava-labs/ledgervm/support"
)

var (
	ErrBlockNumberOverflow = errors.New("block number overflow")
	ErrNonceOverflow       = errors.New("nonce overflow")
)

// AccountNonce is the nonce of a single account.
type AccountNonce[A cmp.Ordered, Nonce support.Unsigned] struct {
	ID    A     `json:"id"`
	Nonce Nonce `json:"nonce"`
}

// Module owns the block counter and the account -> nonce mapping.
// Both start at zero.
//
// Module is not safe for concurrent use.
type Module[A cmp.Ordered, N support.Unsigned, Nonce support.Unsigned] struct {
	blockNumber N
	nonces      map[A]Nonce
}

func New[A cmp.Ordered, N support.Unsigned, Nonce support.Unsigned]() *Module[A, N, Nonce] {
	return &Module[A, N, Nonce]{
		nonces: make(map[A]Nonce),
	}
}

// BlockNumber returns the number of the last executed block, 0 at genesis.
func (m *Module[A, N, Nonce]) BlockNumber() N {
	return m.blockNumber
}

// NextBlockNumber returns the number the next block will carry.
func (m *Module[A, N, Nonce]) NextBlockNumber() (N, error) {
	next, ok := support.CheckedInc(m.blockNumber)
	if !ok {
		return 0, ErrBlockNumberOverflow
	}
	return next, nil
}

// IncBlockNumber advances the block counter by one.
func (m *Module[A, N, Nonce]) IncBlockNumber() error {
	next, err := m.NextBlockNumber()
	if err != nil {
		return err
	}
	m.blockNumber = next
	return nil
}

// SetBlockNumber overwrites the block counter. It exists to seed state and
// bypasses the one-per-block rule.
func (m *Module[A, N, Nonce]) SetBlockNumber(number N) {
	m.blockNumber = number
}

// SetNonce overwrites the nonce of [who]. Like SetBlockNumber it is only
// meant for seeding state.
func (m *Module[A, N, Nonce]) SetNonce(who A, nonce Nonce) {
	m.nonces[who] = nonce
}

// Nonce returns the nonce of [who], 0 if it never authored an extrinsic.
func (m *Module[A, N, Nonce]) Nonce(who A) Nonce {
	return m.nonces[who]
}

// IncNonce advances the nonce of [who] by one.
func (m *Module[A, N, Nonce]) IncNonce(who A) error {
	next, ok := support.CheckedInc(m.nonces[who])
	if !ok {
		return ErrNonceOverflow
	}
	m.nonces[who] = next
	return nil
}

// Nonces returns the nonce of every account that authored an extrinsic, in
// ascending account order.
func (m *Module[A, N, Nonce]) Nonces() []AccountNonce[A, Nonce] {
	nonces := make([]AccountNonce[A, Nonce], 0, len(m.nonces))
	for id, nonce := range m.nonces {
		nonces = append(nonces, AccountNonce[A, Nonce]{ID: id, Nonce: nonce})
	}
	slices.SortFunc(nonces, func(a, b AccountNonce[A, Nonce]) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return nonces
}
