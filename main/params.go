// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"flag"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	versionKey            = "version"
	httpHostKey           = "http-host"
	httpPortKey           = "http-port"
	genesisKey            = "genesis"
	logLevelKey           = "log-level"
	blockIntervalKey      = "block-interval"
	maxBlockExtrinsicsKey = "max-block-extrinsics"
	mempoolSizeKey        = "mempool-size"
	demoKey               = "demo"

	envPrefix = "LEDGERVM"
)

func buildFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("ledgervm", flag.ContinueOnError)

	fs.Bool(versionKey, false, "If true, prints version and quit")
	fs.String(httpHostKey, "127.0.0.1", "Address the HTTP server listens on")
	fs.Uint(httpPortKey, 9650, "Port the HTTP server listens on")
	fs.String(genesisKey, "", "Path to the genesis file (YAML or JSON). Empty starts with no balances")
	fs.String(logLevelKey, "info", "Log level (trace, debug, info, warn, error, crit)")
	fs.Duration(blockIntervalKey, 2*time.Second, "How often pending extrinsics are packed into a block. 0 disables the producer")
	fs.Int(maxBlockExtrinsicsKey, 256, "Maximum number of extrinsics in a block")
	fs.Int(mempoolSizeKey, 1024, "Maximum number of extrinsics waiting for a block")
	fs.Bool(demoKey, false, "If true, runs the transfer demo, prints the ledger and quit")

	return fs
}

// getViper returns the viper environment for the binary. Flags may also be
// set through LEDGERVM_ prefixed environment variables.
func getViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs := buildFlagSet()
	pflag.CommandLine.AddGoFlagSet(fs)
	pflag.Parse()
	if err := v.BindPFlags(pflag.CommandLine); err != nil {
		return nil, err
	}

	return v, nil
}

// params are the resolved settings of the binary.
type params struct {
	version            bool
	demo               bool
	httpHost           string
	httpPort           uint
	genesisPath        string
	logLevel           string
	blockInterval      time.Duration
	maxBlockExtrinsics int
	mempoolSize        int
}

func getParams() (params, error) {
	v, err := getViper()
	if err != nil {
		return params{}, err
	}
	return params{
		version:            v.GetBool(versionKey),
		demo:               v.GetBool(demoKey),
		httpHost:           v.GetString(httpHostKey),
		httpPort:           v.GetUint(httpPortKey),
		genesisPath:        v.GetString(genesisKey),
		logLevel:           v.GetString(logLevelKey),
		blockInterval:      v.GetDuration(blockIntervalKey),
		maxBlockExtrinsics: v.GetInt(maxBlockExtrinsicsKey),
		mempoolSize:        v.GetInt(mempoolSizeKey),
	}, nil
}
