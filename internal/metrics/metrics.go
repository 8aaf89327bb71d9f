// Package metrics collects the Prometheus series this module exposes:
// STC commit latency and registration counts, DFR replay lag behind L2
// head, and BP discovery round counts. The teacher's own
// internal/metrics package (referenced from proposer.go and prover.go
// as metrics.TxMgrMetrics, metrics.ProposerProposeEpochCounter, and
// friends) was not present in the retrieved pack, so these are built
// directly from prometheus/client_golang's promauto conventions rather
// than a concrete teacher file; they register against the same default
// registry echoprometheus.NewMiddleware uses in
// internal/stc/rpcserver.AdminServer, so /metrics there serves both.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// STCRegisteredResponsesTotal counts successful RegisterIncomingCall calls.
	STCRegisteredResponsesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bridge",
		Subsystem: "stc",
		Name:      "registered_responses_total",
		Help:      "Total number of incoming-call responses registered with STC.",
	})

	// STCCommitLatencySeconds measures wall time from RegisterIncomingCall
	// to the matching HandleIncomingCall consuming it.
	STCCommitLatencySeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bridge",
		Subsystem: "stc",
		Name:      "commit_latency_seconds",
		Help:      "Latency between registering and consuming an incoming-call response.",
		Buckets:   prometheus.DefBuckets,
	})

	// STCL2BlockNumber mirrors the last L2 block number STC has applied.
	STCL2BlockNumber = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "bridge",
		Subsystem: "stc",
		Name:      "l2_block_number",
		Help:      "Last L2 block number applied to the STC state-transition core.",
	})

	// DFRReplayLagBlocks is L2 head minus the last block DFR has replayed.
	DFRReplayLagBlocks = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "bridge",
		Subsystem: "dfr",
		Name:      "replay_lag_blocks",
		Help:      "Number of L2 blocks DFR's replayer is behind the observed L2 head.",
	})

	// DFRReplayedBlocksTotal counts blocks successfully replayed.
	DFRReplayedBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bridge",
		Subsystem: "dfr",
		Name:      "replayed_blocks_total",
		Help:      "Total number of L2 blocks replayed by DFR.",
	})

	// BPDiscoveryRoundsTotal counts bounded-loop iterations BP's planner runs per request.
	BPDiscoveryRoundsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bridge",
		Subsystem: "bp",
		Name:      "discovery_rounds_total",
		Help:      "Total number of discovery-loop iterations run by the planner.",
	})

	// BPPlanDurationSeconds measures one Planner.Discover call, for /simulate
	// and /submit alike; Register is not timed.
	BPPlanDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bridge",
		Subsystem: "bp",
		Name:      "plan_duration_seconds",
		Help:      "Duration of one planner discovery round (registration not included).",
		Buckets:   prometheus.DefBuckets,
	})
)
