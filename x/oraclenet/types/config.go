package types

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Default network parameters
const (
	DefaultMinOracles          uint32 = 3
	DefaultMaxOracles          uint32 = 21
	DefaultSubmissionWindow    uint64 = 300
	DefaultStaleness           uint64 = 3600
	DefaultOutlierThresholdBps uint32 = 1500
	DefaultHeartbeatInterval   uint64 = 600

	DefaultRepInitial     uint32 = 500
	DefaultRepMax         uint32 = 1000
	DefaultRepReward      uint32 = 5
	DefaultRepPenalty     uint32 = 20
	DefaultRepMissPenalty uint32 = 10

	// MaxDurationSecs bounds every configured duration to ten years
	MaxDurationSecs uint64 = 10 * 365 * 24 * 60 * 60
)

// DefaultMinStake is the minimum stake required to join the roster
var DefaultMinStake = sdkmath.NewInt(10_000_000)

// NetworkConfig holds the network-wide oracle parameters
type NetworkConfig struct {
	Admin                string      `json:"admin"`
	MinOracles           uint32      `json:"min_oracles"`
	MaxOracles           uint32      `json:"max_oracles"`
	SubmissionWindowSecs uint64      `json:"submission_window_secs"`
	StalenessSecs        uint64      `json:"staleness_secs"`
	OutlierThresholdBps  uint32      `json:"outlier_threshold_bps"`
	MinStake             sdkmath.Int `json:"min_stake"`
	HeartbeatInterval    uint64      `json:"heartbeat_interval"`
	RepInitial           uint32      `json:"rep_initial"`
	RepMax               uint32      `json:"rep_max"`
	RepReward            uint32      `json:"rep_reward"`
	RepPenalty           uint32      `json:"rep_penalty"`
	RepMissPenalty       uint32      `json:"rep_miss_penalty"`
}

// DefaultNetworkConfig returns the default configuration governed by admin
func DefaultNetworkConfig(admin string) NetworkConfig {
	return NetworkConfig{
		Admin:                admin,
		MinOracles:           DefaultMinOracles,
		MaxOracles:           DefaultMaxOracles,
		SubmissionWindowSecs: DefaultSubmissionWindow,
		StalenessSecs:        DefaultStaleness,
		OutlierThresholdBps:  DefaultOutlierThresholdBps,
		MinStake:             DefaultMinStake,
		HeartbeatInterval:    DefaultHeartbeatInterval,
		RepInitial:           DefaultRepInitial,
		RepMax:               DefaultRepMax,
		RepReward:            DefaultRepReward,
		RepPenalty:           DefaultRepPenalty,
		RepMissPenalty:       DefaultRepMissPenalty,
	}
}

// Validate checks the configuration for consistency
func (c NetworkConfig) Validate() error {
	if _, err := sdk.AccAddressFromBech32(c.Admin); err != nil {
		return errorsmod.Wrapf(ErrInvalidInput, "invalid admin address: %s", err)
	}
	if err := c.ValidateOracleParams(); err != nil {
		return err
	}
	return c.ValidateReputationParams()
}

// ValidateOracleParams checks roster, timing and stake parameters
func (c NetworkConfig) ValidateOracleParams() error {
	if c.MinOracles == 0 {
		return errorsmod.Wrap(ErrInvalidInput, "min_oracles must be at least 1")
	}
	if c.MaxOracles < c.MinOracles {
		return errorsmod.Wrapf(ErrInvalidInput, "max_oracles (%d) must be >= min_oracles (%d)", c.MaxOracles, c.MinOracles)
	}
	if c.MaxOracles > MaxRosterSize {
		return errorsmod.Wrapf(ErrInvalidInput, "max_oracles (%d) exceeds roster cap %d", c.MaxOracles, MaxRosterSize)
	}
	if err := validateDuration("submission_window_secs", c.SubmissionWindowSecs); err != nil {
		return err
	}
	if err := validateDuration("staleness_secs", c.StalenessSecs); err != nil {
		return err
	}
	if err := validateDuration("heartbeat_interval", c.HeartbeatInterval); err != nil {
		return err
	}
	if c.OutlierThresholdBps == 0 || c.OutlierThresholdBps > BpsDenominator {
		return errorsmod.Wrapf(ErrInvalidInput, "outlier_threshold_bps must be in (0, %d], got %d", BpsDenominator, c.OutlierThresholdBps)
	}
	if c.MinStake.IsNil() || c.MinStake.IsNegative() {
		return errorsmod.Wrap(ErrInvalidInput, "min_stake must be non-negative")
	}
	if !IsInt128(c.MinStake) {
		return errorsmod.Wrap(ErrInvalidInput, "min_stake exceeds the 128-bit range")
	}
	return nil
}

// ValidateReputationParams checks the reputation parameters against rep_max
func (c NetworkConfig) ValidateReputationParams() error {
	if c.RepMax == 0 {
		return errorsmod.Wrap(ErrInvalidInput, "rep_max must be positive")
	}
	if c.RepInitial == 0 {
		return errorsmod.Wrap(ErrInvalidInput, "rep_initial must be positive")
	}
	bounded := []struct {
		name  string
		value uint32
	}{
		{"rep_initial", c.RepInitial},
		{"rep_reward", c.RepReward},
		{"rep_penalty", c.RepPenalty},
		{"rep_miss_penalty", c.RepMissPenalty},
	}
	for _, b := range bounded {
		if b.value > c.RepMax {
			return errorsmod.Wrapf(ErrInvalidInput, "%s (%d) exceeds rep_max (%d)", b.name, b.value, c.RepMax)
		}
	}
	return nil
}

func validateDuration(name string, secs uint64) error {
	if secs == 0 {
		return errorsmod.Wrapf(ErrInvalidInput, "%s must be positive", name)
	}
	if secs > MaxDurationSecs {
		return errorsmod.Wrapf(ErrInvalidInput, "%s exceeds %d seconds", name, MaxDurationSecs)
	}
	return nil
}

// String implements fmt.Stringer
func (c NetworkConfig) String() string {
	return fmt.Sprintf(
		"NetworkConfig{admin=%s oracles=[%d,%d] window=%ds staleness=%ds outlier=%dbps min_stake=%s heartbeat=%ds rep=%d/%d +%d -%d -%d}",
		c.Admin, c.MinOracles, c.MaxOracles, c.SubmissionWindowSecs, c.StalenessSecs,
		c.OutlierThresholdBps, c.MinStake, c.HeartbeatInterval,
		c.RepInitial, c.RepMax, c.RepReward, c.RepPenalty, c.RepMissPenalty,
	)
}
