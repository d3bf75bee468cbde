// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import (
	"fmt"

	"sigs.k8s.io/yaml"
)

const (
	defaultMempoolSize        = 1024
	defaultMaxBlockExtrinsics = 256
)

// Config tunes block production.
type Config struct {
	MempoolSize        int `json:"mempoolSize"`
	MaxBlockExtrinsics int `json:"maxBlockExtrinsics"`
}

func defaultConfig() Config {
	return Config{
		MempoolSize:        defaultMempoolSize,
		MaxBlockExtrinsics: defaultMaxBlockExtrinsics,
	}
}

// ParseConfig parses [bytes] on top of the defaults. Empty bytes yield the
// defaults.
func ParseConfig(bytes []byte) (Config, error) {
	config := defaultConfig()
	if len(bytes) == 0 {
		return config, nil
	}
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if config.MempoolSize <= 0 {
		return Config{}, fmt.Errorf("%w: mempool size %d", errInvalidConfig, config.MempoolSize)
	}
	if config.MaxBlockExtrinsics <= 0 {
		return Config{}, fmt.Errorf("%w: max block extrinsics %d", errInvalidConfig, config.MaxBlockExtrinsics)
	}
	return config, nil
}
