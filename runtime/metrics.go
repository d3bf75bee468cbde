// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	statusSucceeded = "succeeded"
	statusFailed    = "failed"
)

// Metrics counts what the runtime executes. A nil *Metrics records nothing.
type Metrics struct {
	blocks         prometheus.Counter
	rejectedBlocks prometheus.Counter
	extrinsics     *prometheus.CounterVec
}

func NewMetrics(namespace string, registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		blocks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_executed",
			Help:      "Number of blocks executed",
		}),
		rejectedBlocks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_rejected",
			Help:      "Number of blocks rejected before any extrinsic ran",
		}),
		extrinsics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extrinsics_executed",
			Help:      "Number of extrinsics executed, by outcome",
		}, []string{"status"}),
	}

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(m.blocks),
		registerer.Register(m.rejectedBlocks),
		registerer.Register(m.extrinsics),
	)
	return m, errs.Err
}

func (m *Metrics) blockExecuted(receipt *Receipt) {
	if m == nil {
		return
	}
	failed := len(receipt.Failures)
	m.blocks.Inc()
	m.extrinsics.WithLabelValues(statusSucceeded).Add(float64(receipt.Extrinsics - failed))
	m.extrinsics.WithLabelValues(statusFailed).Add(float64(failed))
}

func (m *Metrics) blockRejected() {
	if m == nil {
		return
	}
	m.rejectedBlocks.Inc()
}
