// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ava-labs/avalanchego/database/memdb"
	log "github.com/inconshreveable/log15"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"sigs.k8s.io/yaml"

	"github.com/ava-labs/ledgervm/ledgervm"
)

const shutdownTimeout = 5 * time.Second

func main() {
	p, err := getParams()
	if err != nil {
		fmt.Printf("couldn't get config: %s\n", err)
		os.Exit(1)
	}
	// Print version and exit
	if p.version {
		fmt.Printf("%s@%s\n", ledgervm.Name, ledgervm.Version)
		os.Exit(0)
	}

	lvl, err := log.LvlFromString(p.logLevel)
	if err != nil {
		fmt.Printf("invalid log level %q: %s\n", p.logLevel, err)
		os.Exit(1)
	}
	log.Root().SetHandler(log.LvlFilterHandler(lvl, log.StreamHandler(os.Stderr, log.TerminalFormat())))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// register signals to kill the application
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT)
	signal.Notify(signals, syscall.SIGTERM)

	// Cancel the context after receiving a signal for a graceful shutdown.
	go func() {
		<-signals
		cancel()
	}()

	if err := run(ctx, p); err != nil {
		log.Error("ledgervm failed", "err", err)
		os.Exit(1)
	}
	log.Info("Terminated successfully.")
}

func run(ctx context.Context, p params) error {
	var genesisBytes []byte
	if p.genesisPath != "" {
		var err error
		genesisBytes, err = os.ReadFile(p.genesisPath)
		if err != nil {
			return fmt.Errorf("failed to read genesis: %w", err)
		}
	} else if p.demo {
		genesisBytes = demoGenesis
	}

	configBytes, err := yaml.Marshal(ledgervm.Config{
		MempoolSize:        p.mempoolSize,
		MaxBlockExtrinsics: p.maxBlockExtrinsics,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal vm config: %w", err)
	}

	registry := prometheus.NewRegistry()
	vm := &ledgervm.VM{}
	if err := vm.Initialize(ctx, memdb.New(), genesisBytes, configBytes, registry); err != nil {
		return fmt.Errorf("failed to initialize vm: %w", err)
	}
	defer func() {
		if err := vm.Shutdown(context.Background()); err != nil {
			log.Warn("failed to shut down vm", "err", err)
		}
	}()

	if p.demo {
		return runDemo(ctx, vm)
	}

	mux, err := newMux(vm, registry)
	if err != nil {
		return err
	}
	server := &http.Server{
		Addr:              net.JoinHostPort(p.httpHost, strconv.FormatUint(uint64(p.httpPort), 10)),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("serving ledger API", "addr", server.Addr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if p.blockInterval > 0 {
		g.Go(func() error {
			if err := vm.Run(gctx, p.blockInterval); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

// newMux mounts the ledger APIs the way a node exposes a chain's handlers.
func newMux(vm *ledgervm.VM, registry *prometheus.Registry) (*http.ServeMux, error) {
	handlers, err := vm.CreateHandlers()
	if err != nil {
		return nil, fmt.Errorf("failed to create handlers: %w", err)
	}
	staticHandlers, err := ledgervm.CreateStaticHandlers()
	if err != nil {
		return nil, fmt.Errorf("failed to create static handlers: %w", err)
	}

	base := "/ext/bc/" + ledgervm.Name
	mux := http.NewServeMux()
	for extension, handler := range handlers {
		mux.Handle(base+extension, handler.Handler)
	}
	for extension, handler := range staticHandlers {
		mux.Handle(base+"/static"+extension, handler.Handler)
	}
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return mux, nil
}
