// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"sigs.k8s.io/yaml"

	"github.com/ava-labs/ledgervm/runtime"
)

// Genesis is the initial state of the ledger. It may be written as YAML or
// JSON:
//
//	timestamp: 0
//	balances:
//	  alice: 100
//	  bob: 0
type Genesis struct {
	Timestamp int64                                 `json:"timestamp"`
	Balances  map[runtime.AccountID]runtime.Balance `json:"balances"`
}

func ParseGenesis(bytes []byte) (*Genesis, error) {
	genesis := &Genesis{}
	if len(bytes) == 0 {
		return genesis, nil
	}
	if err := yaml.Unmarshal(bytes, genesis); err != nil {
		return nil, fmt.Errorf("failed to parse genesis: %w", err)
	}
	for account := range genesis.Balances {
		if account == "" {
			return nil, errEmptyAccount
		}
	}
	return genesis, nil
}

// apply seeds [r] with the genesis balances.
func (g *Genesis) apply(r *runtime.Runtime) {
	for account, balance := range g.Balances {
		r.SetBalance(account, balance)
	}
}

// genesisState is the canonical encoding of a genesis: accounts are sorted so
// equal genesis files always hash to the same ID.
type genesisState struct {
	Timestamp int64            `serialize:"true"`
	Accounts  []genesisAccount `serialize:"true"`
}

type genesisAccount struct {
	ID      runtime.AccountID `serialize:"true"`
	Balance runtime.Balance   `serialize:"true"`
}

// ID returns the hash of the canonical encoding of [g]. It changes with the
// timestamp and with every balance.
func (g *Genesis) ID() (ids.ID, error) {
	state := genesisState{
		Timestamp: g.Timestamp,
		Accounts:  make([]genesisAccount, 0, len(g.Balances)),
	}
	for account, balance := range g.Balances {
		state.Accounts = append(state.Accounts, genesisAccount{ID: account, Balance: balance})
	}
	slices.SortFunc(state.Accounts, func(a, b genesisAccount) int {
		return cmp.Compare(a.ID, b.ID)
	})

	bytes, err := runtime.Codec.Marshal(runtime.CodecVersion, &state)
	if err != nil {
		return ids.Empty, fmt.Errorf("failed to encode genesis: %w", err)
	}
	return hashing.ComputeHash256Array(bytes), nil
}
