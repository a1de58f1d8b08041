package types

// Event types for the oraclenet module
// All event types use the module_action format
const (
	// Network events
	EventTypeInitialized             = "oraclenet_initialized"
	EventTypePauseChanged            = "oraclenet_pause_changed"
	EventTypeConfigUpdated           = "oraclenet_config_updated"
	EventTypeReputationConfigUpdated = "oraclenet_reputation_config_updated"

	// Provider events
	EventTypeOracleRegistered   = "oraclenet_oracle_registered"
	EventTypeOracleDeactivated  = "oraclenet_oracle_deactivated"
	EventTypeOracleReactivated  = "oraclenet_oracle_reactivated"
	EventTypeStakeAdded         = "oraclenet_stake_added"
	EventTypeOracleSlashed      = "oraclenet_oracle_slashed"
	EventTypeHeartbeatsEnforced = "oraclenet_heartbeats_enforced"

	// Feed events
	EventTypeFeedCreated = "oraclenet_feed_created"
	EventTypeFeedUpdated = "oraclenet_feed_updated"

	// Round events
	EventTypeRoundOpened     = "oraclenet_round_opened"
	EventTypePriceSubmitted  = "oraclenet_price_submitted"
	EventTypeRoundResolved   = "oraclenet_round_resolved"
	EventTypeOutlierRejected = "oraclenet_outlier_rejected"
	EventTypeRoundMissed     = "oraclenet_round_missed"
)

// Event attribute keys for the oraclenet module
const (
	AttributeKeyAdmin    = "admin"
	AttributeKeyActor    = "actor"
	AttributeKeyPaused   = "paused"
	AttributeKeyProvider = "provider"
	AttributeKeyStake    = "stake"
	AttributeKeyAmount   = "amount"

	AttributeKeyReputation        = "reputation"
	AttributeKeyReputationPenalty = "reputation_penalty"
	AttributeKeyStakePenalty      = "stake_penalty"
	AttributeKeyCount             = "count"

	AttributeKeyFeedID   = "feed_id"
	AttributeKeyPair     = "pair"
	AttributeKeyDecimals = "decimals"
	AttributeKeyActive   = "active"

	AttributeKeyRoundID    = "round_id"
	AttributeKeyClosesAt   = "closes_at"
	AttributeKeyPrice      = "price"
	AttributeKeyConfidence = "confidence"
	AttributeKeyMedian     = "median"

	AttributeKeyNumIncluded = "num_included"
	AttributeKeyNumRejected = "num_rejected"
	AttributeKeySpreadBps   = "spread_bps"
	AttributeKeyTimestamp   = "timestamp"
)
