package types

import (
	sdkmath "cosmossdk.io/math"
)

// OracleProvider is a staked data provider on the roster
type OracleProvider struct {
	Address             string      `json:"address"`
	Stake               sdkmath.Int `json:"stake"`
	Reputation          uint32      `json:"reputation"`
	IsActive            bool        `json:"is_active"`
	RegisteredAt        int64       `json:"registered_at"`
	LastHeartbeat       int64       `json:"last_heartbeat"`
	TotalSubmissions    uint64      `json:"total_submissions"`
	AcceptedSubmissions uint64      `json:"accepted_submissions"`
	RejectedSubmissions uint64      `json:"rejected_submissions"`
	MissedRounds        uint64      `json:"missed_rounds"`
}

// NewOracleProvider returns an active provider with the initial reputation
func NewOracleProvider(address string, stake sdkmath.Int, reputation uint32, now int64) OracleProvider {
	return OracleProvider{
		Address:       address,
		Stake:         stake,
		Reputation:    reputation,
		IsActive:      true,
		RegisteredAt:  now,
		LastHeartbeat: now,
	}
}

// Reward raises reputation by amount, capped at max
func (p *OracleProvider) Reward(amount, max uint32) {
	p.Reputation = SaturatingAddCapped(p.Reputation, amount, max)
}

// Penalize lowers reputation by amount, deactivating the provider once it reaches zero
func (p *OracleProvider) Penalize(amount uint32) {
	p.Reputation = SaturatingSubUint32(p.Reputation, amount)
	if p.Reputation == 0 {
		p.IsActive = false
	}
}

// HeartbeatDeadline is the last timestamp at which the provider still counts as live
func (p OracleProvider) HeartbeatDeadline(interval uint64) int64 {
	return SaturatingAddTimestamp(p.LastHeartbeat, interval)
}

// IsHealthy reports whether the provider is active, live at now and has reputation left
func (p OracleProvider) IsHealthy(now int64, interval uint64) bool {
	return p.IsActive && now <= p.HeartbeatDeadline(interval) && p.Reputation > 0
}

// OracleStats is the per-provider performance view
type OracleStats struct {
	Address             string      `json:"address"`
	Stake               sdkmath.Int `json:"stake"`
	Reputation          uint32      `json:"reputation"`
	IsActive            bool        `json:"is_active"`
	TotalSubmissions    uint64      `json:"total_submissions"`
	AcceptedSubmissions uint64      `json:"accepted_submissions"`
	RejectedSubmissions uint64      `json:"rejected_submissions"`
	MissedRounds        uint64      `json:"missed_rounds"`
	AccuracyBps         uint32      `json:"accuracy_bps"`
}

// Stats derives the performance view of the provider
func (p OracleProvider) Stats() OracleStats {
	var accuracy uint32
	if p.TotalSubmissions > 0 {
		accuracy = uint32(p.AcceptedSubmissions * BpsDenominator / p.TotalSubmissions)
	}
	return OracleStats{
		Address:             p.Address,
		Stake:               p.Stake,
		Reputation:          p.Reputation,
		IsActive:            p.IsActive,
		TotalSubmissions:    p.TotalSubmissions,
		AcceptedSubmissions: p.AcceptedSubmissions,
		RejectedSubmissions: p.RejectedSubmissions,
		MissedRounds:        p.MissedRounds,
		AccuracyBps:         accuracy,
	}
}

// OracleHealth is the liveness view of a provider
type OracleHealth struct {
	Address       string `json:"address"`
	Healthy       bool   `json:"healthy"`
	IsActive      bool   `json:"is_active"`
	Reputation    uint32 `json:"reputation"`
	LastHeartbeat int64  `json:"last_heartbeat"`
	Deadline      int64  `json:"deadline"`
}
