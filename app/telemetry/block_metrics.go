package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Block outcomes recorded by BlockMetrics
const (
	OutcomeCommitted = "committed"
	OutcomeRejected  = "rejected"
)

// BlockMetrics records per-block delivery outcomes on an OTel meter
type BlockMetrics struct {
	blocks   metric.Int64Counter
	duration metric.Float64Histogram
	height   metric.Int64Gauge
}

// NewBlockMetrics creates the block instruments on meter
func NewBlockMetrics(meter metric.Meter) (*BlockMetrics, error) {
	blocks, err := meter.Int64Counter(
		"oraclenet.blocks.total",
		metric.WithDescription("Delivered blocks by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create block counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		"oraclenet.block.duration",
		metric.WithDescription("Block delivery duration"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create block duration histogram: %w", err)
	}

	height, err := meter.Int64Gauge(
		"oraclenet.block.height",
		metric.WithDescription("Last committed block height"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create block height gauge: %w", err)
	}

	return &BlockMetrics{blocks: blocks, duration: duration, height: height}, nil
}

// Record registers the outcome of one delivered block
func (m *BlockMetrics) Record(ctx context.Context, operation, outcome string, height int64, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	)
	m.blocks.Add(ctx, 1, attrs)
	m.duration.Record(ctx, float64(elapsed.Microseconds())/1000.0, attrs)
	if outcome == OutcomeCommitted {
		m.height.Record(ctx, height)
	}
}
