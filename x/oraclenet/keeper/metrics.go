package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OracleNetMetrics holds all Prometheus metrics for the oraclenet module
type OracleNetMetrics struct {
	// Submission metrics
	PriceSubmissions *prometheus.CounterVec
	PriceRejections  *prometheus.CounterVec

	// Round metrics
	RoundsOpened       *prometheus.CounterVec
	RoundResolutions   *prometheus.CounterVec
	ResolvedPrice      *prometheus.GaugeVec
	PriceSpread        *prometheus.GaugeVec
	PriceConfidence    *prometheus.GaugeVec
	OutliersDetected   *prometheus.CounterVec
	AggregationLatency prometheus.Histogram

	// Provider metrics
	OracleReputation      *prometheus.GaugeVec
	OracleSlashes         *prometheus.CounterVec
	MissedRounds          *prometheus.CounterVec
	HeartbeatDeactivation prometheus.Counter
	ActiveOracles         prometheus.Gauge
}

var (
	oracleNetMetricsOnce sync.Once
	oracleNetMetrics     *OracleNetMetrics
)

// NewOracleNetMetrics creates and registers oraclenet metrics (singleton pattern)
func NewOracleNetMetrics() *OracleNetMetrics {
	oracleNetMetricsOnce.Do(func() {
		oracleNetMetrics = &OracleNetMetrics{
			PriceSubmissions: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "oraclenet",
					Subsystem: "engine",
					Name:      "price_submissions_total",
					Help:      "Total accepted price submissions by feed",
				},
				[]string{"feed"},
			),
			PriceRejections: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "oraclenet",
					Subsystem: "engine",
					Name:      "price_rejections_total",
					Help:      "Price submissions refused before entering the ledger, by reason",
				},
				[]string{"feed", "reason"},
			),
			RoundsOpened: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "oraclenet",
					Subsystem: "engine",
					Name:      "rounds_opened_total",
					Help:      "Total rounds opened by feed",
				},
				[]string{"feed"},
			),
			RoundResolutions: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "oraclenet",
					Subsystem: "engine",
					Name:      "round_resolutions_total",
					Help:      "Round resolution attempts by feed and status",
				},
				[]string{"feed", "status"},
			),
			ResolvedPrice: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "oraclenet",
					Subsystem: "engine",
					Name:      "resolved_price",
					Help:      "Latest resolved price by feed, scaled by feed decimals",
				},
				[]string{"feed"},
			),
			PriceSpread: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "oraclenet",
					Subsystem: "engine",
					Name:      "price_spread_bps",
					Help:      "Spread of included submissions in the latest round, in basis points",
				},
				[]string{"feed"},
			),
			PriceConfidence: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "oraclenet",
					Subsystem: "engine",
					Name:      "price_confidence_bps",
					Help:      "Reputation-weighted confidence of the latest round, in basis points",
				},
				[]string{"feed"},
			),
			OutliersDetected: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "oraclenet",
					Subsystem: "engine",
					Name:      "outliers_detected_total",
					Help:      "Submissions rejected as outliers by feed",
				},
				[]string{"feed"},
			),
			AggregationLatency: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: "oraclenet",
					Subsystem: "engine",
					Name:      "aggregation_duration_seconds",
					Help:      "Time spent aggregating a round",
					Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
				},
			),
			OracleReputation: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "oraclenet",
					Subsystem: "engine",
					Name:      "oracle_reputation",
					Help:      "Current reputation by provider",
				},
				[]string{"oracle"},
			),
			OracleSlashes: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "oraclenet",
					Subsystem: "engine",
					Name:      "oracle_slashes_total",
					Help:      "Admin slashes by provider",
				},
				[]string{"oracle"},
			),
			MissedRounds: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "oraclenet",
					Subsystem: "engine",
					Name:      "missed_rounds_total",
					Help:      "Resolved rounds an active provider did not submit to, by feed",
				},
				[]string{"feed"},
			),
			HeartbeatDeactivation: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "oraclenet",
					Subsystem: "engine",
					Name:      "heartbeat_deactivations_total",
					Help:      "Providers deactivated by heartbeat enforcement",
				},
			),
			ActiveOracles: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "oraclenet",
					Subsystem: "engine",
					Name:      "active_oracles",
					Help:      "Number of active providers on the roster",
				},
			),
		}
	})
	return oracleNetMetrics
}
