package types

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message type names, used for telemetry labels and events
const (
	TypeMsgInitialize             = "initialize"
	TypeMsgSetPaused              = "set_paused"
	TypeMsgUpdateConfig           = "update_config"
	TypeMsgUpdateReputationConfig = "update_reputation_config"
	TypeMsgRegisterOracle         = "register_oracle"
	TypeMsgDeactivateOracle       = "deactivate_oracle"
	TypeMsgReactivateOracle       = "reactivate_oracle"
	TypeMsgAddStake               = "add_stake"
	TypeMsgHeartbeat              = "heartbeat"
	TypeMsgSlashOracle            = "slash_oracle"
	TypeMsgCreateFeed             = "create_feed"
	TypeMsgUpdateFeed             = "update_feed"
	TypeMsgOpenRound              = "open_round"
	TypeMsgSubmitPrice            = "submit_price"
	TypeMsgResolveRound           = "resolve_round"
	TypeMsgEnforceHeartbeats      = "enforce_heartbeats"
)

// Msg is implemented by every oraclenet message
type Msg interface {
	Type() string
	ValidateBasic() error
}

var (
	_ Msg = &MsgInitialize{}
	_ Msg = &MsgSetPaused{}
	_ Msg = &MsgUpdateConfig{}
	_ Msg = &MsgUpdateReputationConfig{}
	_ Msg = &MsgRegisterOracle{}
	_ Msg = &MsgDeactivateOracle{}
	_ Msg = &MsgReactivateOracle{}
	_ Msg = &MsgAddStake{}
	_ Msg = &MsgHeartbeat{}
	_ Msg = &MsgSlashOracle{}
	_ Msg = &MsgCreateFeed{}
	_ Msg = &MsgUpdateFeed{}
	_ Msg = &MsgOpenRound{}
	_ Msg = &MsgSubmitPrice{}
	_ Msg = &MsgResolveRound{}
	_ Msg = &MsgEnforceHeartbeats{}
)

// ConfigUpdate is an admin change applied on top of the stored NetworkConfig
type ConfigUpdate interface {
	Apply(NetworkConfig) NetworkConfig
}

var (
	_ ConfigUpdate = &MsgUpdateConfig{}
	_ ConfigUpdate = &MsgUpdateReputationConfig{}
)

// MsgServer is the state-changing surface of the oracle network
type MsgServer interface {
	Initialize(context.Context, *MsgInitialize) (*MsgInitializeResponse, error)
	SetPaused(context.Context, *MsgSetPaused) (*MsgSetPausedResponse, error)
	UpdateConfig(context.Context, *MsgUpdateConfig) (*MsgUpdateConfigResponse, error)
	UpdateReputationConfig(context.Context, *MsgUpdateReputationConfig) (*MsgUpdateReputationConfigResponse, error)
	RegisterOracle(context.Context, *MsgRegisterOracle) (*MsgRegisterOracleResponse, error)
	DeactivateOracle(context.Context, *MsgDeactivateOracle) (*MsgDeactivateOracleResponse, error)
	ReactivateOracle(context.Context, *MsgReactivateOracle) (*MsgReactivateOracleResponse, error)
	AddStake(context.Context, *MsgAddStake) (*MsgAddStakeResponse, error)
	Heartbeat(context.Context, *MsgHeartbeat) (*MsgHeartbeatResponse, error)
	SlashOracle(context.Context, *MsgSlashOracle) (*MsgSlashOracleResponse, error)
	CreateFeed(context.Context, *MsgCreateFeed) (*MsgCreateFeedResponse, error)
	UpdateFeed(context.Context, *MsgUpdateFeed) (*MsgUpdateFeedResponse, error)
	OpenRound(context.Context, *MsgOpenRound) (*MsgOpenRoundResponse, error)
	SubmitPrice(context.Context, *MsgSubmitPrice) (*MsgSubmitPriceResponse, error)
	ResolveRound(context.Context, *MsgResolveRound) (*MsgResolveRoundResponse, error)
	EnforceHeartbeats(context.Context, *MsgEnforceHeartbeats) (*MsgEnforceHeartbeatsResponse, error)
}

func validateAddress(field, addr string) error {
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		return errorsmod.Wrapf(ErrInvalidInput, "invalid %s address: %s", field, err)
	}
	return nil
}

func validateAmount(field string, amount sdkmath.Int, allowZero bool) error {
	if amount.IsNil() {
		return errorsmod.Wrapf(ErrInvalidInput, "%s cannot be empty", field)
	}
	if amount.IsNegative() || (!allowZero && amount.IsZero()) {
		return errorsmod.Wrapf(ErrInvalidInput, "%s must be positive", field)
	}
	if !IsInt128(amount) {
		return errorsmod.Wrapf(ErrInvalidInput, "%s exceeds the 128-bit range", field)
	}
	return nil
}

// MsgInitialize creates the network configuration
type MsgInitialize struct {
	Admin string `json:"admin"`
}

type MsgInitializeResponse struct{}

func (msg *MsgInitialize) Type() string { return TypeMsgInitialize }

// ValidateBasic implements Msg
func (msg *MsgInitialize) ValidateBasic() error {
	return validateAddress("admin", msg.Admin)
}

// MsgSetPaused toggles the network pause flag
type MsgSetPaused struct {
	Admin  string `json:"admin"`
	Paused bool   `json:"paused"`
}

type MsgSetPausedResponse struct{}

func (msg *MsgSetPaused) Type() string { return TypeMsgSetPaused }

// ValidateBasic implements Msg
func (msg *MsgSetPaused) ValidateBasic() error {
	return validateAddress("admin", msg.Admin)
}

// MsgUpdateConfig replaces the roster, timing and stake parameters
type MsgUpdateConfig struct {
	Admin                string      `json:"admin"`
	MinOracles           uint32      `json:"min_oracles"`
	MaxOracles           uint32      `json:"max_oracles"`
	SubmissionWindowSecs uint64      `json:"submission_window_secs"`
	StalenessSecs        uint64      `json:"staleness_secs"`
	OutlierThresholdBps  uint32      `json:"outlier_threshold_bps"`
	MinStake             sdkmath.Int `json:"min_stake"`
	HeartbeatInterval    uint64      `json:"heartbeat_interval"`
}

type MsgUpdateConfigResponse struct{}

func (msg *MsgUpdateConfig) Type() string { return TypeMsgUpdateConfig }

// Apply returns cfg with the message parameters applied
func (msg *MsgUpdateConfig) Apply(cfg NetworkConfig) NetworkConfig {
	cfg.MinOracles = msg.MinOracles
	cfg.MaxOracles = msg.MaxOracles
	cfg.SubmissionWindowSecs = msg.SubmissionWindowSecs
	cfg.StalenessSecs = msg.StalenessSecs
	cfg.OutlierThresholdBps = msg.OutlierThresholdBps
	cfg.MinStake = msg.MinStake
	cfg.HeartbeatInterval = msg.HeartbeatInterval
	return cfg
}

// ValidateBasic implements Msg
func (msg *MsgUpdateConfig) ValidateBasic() error {
	if err := validateAddress("admin", msg.Admin); err != nil {
		return err
	}
	if msg.MinStake.IsNil() {
		return errorsmod.Wrap(ErrInvalidInput, "min_stake cannot be empty")
	}
	return msg.Apply(NetworkConfig{}).ValidateOracleParams()
}

// MsgUpdateReputationConfig replaces the reputation parameters
type MsgUpdateReputationConfig struct {
	Admin          string `json:"admin"`
	RepInitial     uint32 `json:"rep_initial"`
	RepMax         uint32 `json:"rep_max"`
	RepReward      uint32 `json:"rep_reward"`
	RepPenalty     uint32 `json:"rep_penalty"`
	RepMissPenalty uint32 `json:"rep_miss_penalty"`
}

type MsgUpdateReputationConfigResponse struct{}

func (msg *MsgUpdateReputationConfig) Type() string { return TypeMsgUpdateReputationConfig }

// Apply returns cfg with the message parameters applied
func (msg *MsgUpdateReputationConfig) Apply(cfg NetworkConfig) NetworkConfig {
	cfg.RepInitial = msg.RepInitial
	cfg.RepMax = msg.RepMax
	cfg.RepReward = msg.RepReward
	cfg.RepPenalty = msg.RepPenalty
	cfg.RepMissPenalty = msg.RepMissPenalty
	return cfg
}

// ValidateBasic implements Msg
func (msg *MsgUpdateReputationConfig) ValidateBasic() error {
	if err := validateAddress("admin", msg.Admin); err != nil {
		return err
	}
	return msg.Apply(NetworkConfig{}).ValidateReputationParams()
}

// MsgRegisterOracle joins the roster with an initial stake
type MsgRegisterOracle struct {
	Provider string      `json:"provider"`
	Stake    sdkmath.Int `json:"stake"`
}

type MsgRegisterOracleResponse struct{}

func (msg *MsgRegisterOracle) Type() string { return TypeMsgRegisterOracle }

// ValidateBasic implements Msg
func (msg *MsgRegisterOracle) ValidateBasic() error {
	if err := validateAddress("provider", msg.Provider); err != nil {
		return err
	}
	return validateAmount("stake", msg.Stake, true)
}

// MsgDeactivateOracle takes a provider off active duty
type MsgDeactivateOracle struct {
	Sender   string `json:"sender"`
	Provider string `json:"provider"`
}

type MsgDeactivateOracleResponse struct{}

func (msg *MsgDeactivateOracle) Type() string { return TypeMsgDeactivateOracle }

// ValidateBasic implements Msg
func (msg *MsgDeactivateOracle) ValidateBasic() error {
	if err := validateAddress("sender", msg.Sender); err != nil {
		return err
	}
	return validateAddress("provider", msg.Provider)
}

// MsgReactivateOracle returns a provider to active duty
type MsgReactivateOracle struct {
	Provider string `json:"provider"`
}

type MsgReactivateOracleResponse struct{}

func (msg *MsgReactivateOracle) Type() string { return TypeMsgReactivateOracle }

// ValidateBasic implements Msg
func (msg *MsgReactivateOracle) ValidateBasic() error {
	return validateAddress("provider", msg.Provider)
}

// MsgAddStake tops up a provider's stake
type MsgAddStake struct {
	Provider string      `json:"provider"`
	Amount   sdkmath.Int `json:"amount"`
}

type MsgAddStakeResponse struct {
	Stake sdkmath.Int `json:"stake"`
}

func (msg *MsgAddStake) Type() string { return TypeMsgAddStake }

// ValidateBasic implements Msg
func (msg *MsgAddStake) ValidateBasic() error {
	if err := validateAddress("provider", msg.Provider); err != nil {
		return err
	}
	return validateAmount("amount", msg.Amount, false)
}

// MsgHeartbeat is a liveness proof from a provider
type MsgHeartbeat struct {
	Provider string `json:"provider"`
}

type MsgHeartbeatResponse struct{}

func (msg *MsgHeartbeat) Type() string { return TypeMsgHeartbeat }

// ValidateBasic implements Msg
func (msg *MsgHeartbeat) ValidateBasic() error {
	return validateAddress("provider", msg.Provider)
}

// MsgSlashOracle penalizes a provider's stake and reputation
type MsgSlashOracle struct {
	Admin        string      `json:"admin"`
	Provider     string      `json:"provider"`
	StakePenalty sdkmath.Int `json:"stake_penalty"`
	RepPenalty   uint32      `json:"rep_penalty"`
}

type MsgSlashOracleResponse struct{}

func (msg *MsgSlashOracle) Type() string { return TypeMsgSlashOracle }

// ValidateBasic implements Msg
func (msg *MsgSlashOracle) ValidateBasic() error {
	if err := validateAddress("admin", msg.Admin); err != nil {
		return err
	}
	if err := validateAddress("provider", msg.Provider); err != nil {
		return err
	}
	return validateAmount("stake_penalty", msg.StakePenalty, true)
}

// MsgCreateFeed adds a feed to the catalog
type MsgCreateFeed struct {
	Admin      string `json:"admin"`
	FeedID     string `json:"feed_id"`
	BaseAsset  string `json:"base_asset"`
	QuoteAsset string `json:"quote_asset"`
	Decimals   uint32 `json:"decimals"`
}

type MsgCreateFeedResponse struct{}

func (msg *MsgCreateFeed) Type() string { return TypeMsgCreateFeed }

// ValidateBasic implements Msg
func (msg *MsgCreateFeed) ValidateBasic() error {
	if err := validateAddress("admin", msg.Admin); err != nil {
		return err
	}
	return NewPriceFeed(msg.FeedID, msg.BaseAsset, msg.QuoteAsset, msg.Decimals, 0).Validate()
}

// MsgUpdateFeed changes a feed's status and overrides
type MsgUpdateFeed struct {
	Admin                 string `json:"admin"`
	FeedID                string `json:"feed_id"`
	IsActive              bool   `json:"is_active"`
	StalenessOverrideSecs uint64 `json:"staleness_override_secs"`
	MinOraclesOverride    uint32 `json:"min_oracles_override"`
}

type MsgUpdateFeedResponse struct{}

func (msg *MsgUpdateFeed) Type() string { return TypeMsgUpdateFeed }

// ValidateBasic implements Msg
func (msg *MsgUpdateFeed) ValidateBasic() error {
	if err := validateAddress("admin", msg.Admin); err != nil {
		return err
	}
	if err := ValidateFeedID(msg.FeedID); err != nil {
		return err
	}
	if msg.StalenessOverrideSecs > MaxDurationSecs {
		return errorsmod.Wrapf(ErrInvalidInput, "staleness override exceeds %d seconds", MaxDurationSecs)
	}
	if msg.MinOraclesOverride > MaxRosterSize {
		return errorsmod.Wrapf(ErrInvalidInput, "min oracles override exceeds roster cap %d", MaxRosterSize)
	}
	return nil
}

// MsgOpenRound starts the next round of a feed
type MsgOpenRound struct {
	Sender string `json:"sender"`
	FeedID string `json:"feed_id"`
}

type MsgOpenRoundResponse struct {
	RoundID uint64 `json:"round_id"`
}

func (msg *MsgOpenRound) Type() string { return TypeMsgOpenRound }

// ValidateBasic implements Msg
func (msg *MsgOpenRound) ValidateBasic() error {
	if err := validateAddress("sender", msg.Sender); err != nil {
		return err
	}
	return ValidateFeedID(msg.FeedID)
}

// MsgSubmitPrice records a provider observation for the open round
type MsgSubmitPrice struct {
	Provider   string      `json:"provider"`
	FeedID     string      `json:"feed_id"`
	Price      sdkmath.Int `json:"price"`
	Confidence uint32      `json:"confidence"`
}

type MsgSubmitPriceResponse struct {
	RoundID uint64 `json:"round_id"`
}

func (msg *MsgSubmitPrice) Type() string { return TypeMsgSubmitPrice }

// ValidateBasic implements Msg
func (msg *MsgSubmitPrice) ValidateBasic() error {
	if err := validateAddress("provider", msg.Provider); err != nil {
		return err
	}
	if err := ValidateFeedID(msg.FeedID); err != nil {
		return err
	}
	if msg.Price.IsNil() || !msg.Price.IsPositive() || !IsInt128(msg.Price) {
		return ErrInvalidPrice.Wrap("price must be a positive 128-bit integer")
	}
	return nil
}

// MsgResolveRound aggregates the open round of a feed
type MsgResolveRound struct {
	Sender string `json:"sender"`
	FeedID string `json:"feed_id"`
}

type MsgResolveRoundResponse struct {
	Price ResolvedPrice `json:"price"`
}

func (msg *MsgResolveRound) Type() string { return TypeMsgResolveRound }

// ValidateBasic implements Msg
func (msg *MsgResolveRound) ValidateBasic() error {
	if err := validateAddress("sender", msg.Sender); err != nil {
		return err
	}
	return ValidateFeedID(msg.FeedID)
}

// MsgEnforceHeartbeats deactivates providers whose heartbeat lapsed
type MsgEnforceHeartbeats struct {
	Admin string `json:"admin"`
}

type MsgEnforceHeartbeatsResponse struct {
	Deactivated uint32 `json:"deactivated"`
}

func (msg *MsgEnforceHeartbeats) Type() string { return TypeMsgEnforceHeartbeats }

// ValidateBasic implements Msg
func (msg *MsgEnforceHeartbeats) ValidateBasic() error {
	return validateAddress("admin", msg.Admin)
}
