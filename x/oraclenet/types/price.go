package types

import (
	sdkmath "cosmossdk.io/math"
)

// ResolvedPrice is the latest aggregated price of a feed
type ResolvedPrice struct {
	FeedID      string      `json:"feed_id"`
	RoundID     uint64      `json:"round_id"`
	Price       sdkmath.Int `json:"price"`
	Timestamp   int64       `json:"timestamp"`
	NumIncluded uint32      `json:"num_included"`
	NumRejected uint32      `json:"num_rejected"`
	SpreadBps   uint32      `json:"spread_bps"`
	Confidence  uint32      `json:"confidence"`
}

// IsStale reports whether the price is older than staleness seconds at now.
// A timestamp in the future is never stale.
func (p ResolvedPrice) IsStale(now int64, staleness uint64) bool {
	if now <= p.Timestamp {
		return false
	}
	return uint64(now-p.Timestamp) > staleness
}

// HistoryEntry returns the compact history record for the price
func (p ResolvedPrice) HistoryEntry() PriceHistoryEntry {
	return PriceHistoryEntry{
		RoundID:    p.RoundID,
		Price:      p.Price,
		Timestamp:  p.Timestamp,
		NumOracles: p.NumIncluded,
	}
}

// PriceHistoryEntry is a compact record of one resolution
type PriceHistoryEntry struct {
	RoundID    uint64      `json:"round_id"`
	Price      sdkmath.Int `json:"price"`
	Timestamp  int64       `json:"timestamp"`
	NumOracles uint32      `json:"num_oracles"`
}

// PriceHistory is the bounded FIFO window of resolutions of a feed
type PriceHistory struct {
	Entries []PriceHistoryEntry `json:"entries"`
}

// Append adds entry and evicts the oldest entries beyond MaxHistoryLen
func (h *PriceHistory) Append(entry PriceHistoryEntry) {
	h.Entries = append(h.Entries, entry)
	if n := len(h.Entries); n > MaxHistoryLen {
		h.Entries = append([]PriceHistoryEntry(nil), h.Entries[n-MaxHistoryLen:]...)
	}
}

// FeedHistory pairs a history with its feed for genesis export
type FeedHistory struct {
	FeedID  string              `json:"feed_id"`
	Entries []PriceHistoryEntry `json:"entries"`
}

// NetworkStats is the network-wide summary view
type NetworkStats struct {
	TotalOracles        uint32 `json:"total_oracles"`
	ActiveOracles       uint32 `json:"active_oracles"`
	TotalFeeds          uint32 `json:"total_feeds"`
	ActiveFeeds         uint32 `json:"active_feeds"`
	TotalRoundsResolved uint64 `json:"total_rounds_resolved"`
}
