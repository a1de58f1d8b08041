package cli

// Flag constants for oraclenet CLI commands
const (
	// Common flags
	FlagFrom = "from"
	FlagTime = "time"

	// Network config flags
	FlagMinOracles          = "min-oracles"
	FlagMaxOracles          = "max-oracles"
	FlagSubmissionWindow    = "submission-window"
	FlagStaleness           = "staleness"
	FlagOutlierThresholdBps = "outlier-threshold-bps"
	FlagMinStake            = "min-stake"
	FlagHeartbeatInterval   = "heartbeat-interval"

	// Reputation config flags
	FlagRepInitial     = "rep-initial"
	FlagRepMax         = "rep-max"
	FlagRepReward      = "rep-reward"
	FlagRepPenalty     = "rep-penalty"
	FlagRepMissPenalty = "rep-miss-penalty"

	// Feed flags
	FlagActive             = "active"
	FlagStalenessOverride  = "staleness-override"
	FlagMinOraclesOverride = "min-oracles-override"
)
