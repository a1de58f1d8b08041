package keeper

import (
	"context"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/hashicorp/go-metrics"

	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the MsgServer interface
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

// deliver runs op against a cache-wrapped context and writes it back only when op
// succeeds, so a failed message leaves no trace in the store or the event log.
func (ms msgServer) deliver(goCtx context.Context, msg types.Msg, op func(ctx sdk.Context) error) error {
	msgType := msg.Type()
	defer telemetry.ModuleMeasureSince(types.ModuleName, time.Now(), msgType)

	ctx := sdk.UnwrapSDKContext(goCtx)
	cacheCtx, write := ctx.CacheContext()

	if err := op(cacheCtx); err != nil {
		telemetry.IncrCounterWithLabels(
			[]string{types.ModuleName, "msg", "failed"}, 1,
			[]metrics.Label{telemetry.NewLabel("type", msgType)},
		)
		ms.Logger(ctx).Debug("oraclenet message rejected", "type", msgType, "error", err)
		return err
	}

	// write also forwards the cached events to ctx
	write()
	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, "msg", "delivered"}, 1,
		[]metrics.Label{telemetry.NewLabel("type", msgType)},
	)
	return nil
}

func nilMsg(name string) error {
	return errorsmod.Wrapf(types.ErrInvalidInput, "empty %s message", name)
}

func (ms msgServer) Initialize(goCtx context.Context, msg *types.MsgInitialize) (*types.MsgInitializeResponse, error) {
	if msg == nil {
		return nil, nilMsg(types.TypeMsgInitialize)
	}
	if err := ms.deliver(goCtx, msg, func(ctx sdk.Context) error {
		return ms.Keeper.Initialize(ctx, msg.Admin)
	}); err != nil {
		return nil, err
	}
	return &types.MsgInitializeResponse{}, nil
}

func (ms msgServer) SetPaused(goCtx context.Context, msg *types.MsgSetPaused) (*types.MsgSetPausedResponse, error) {
	if msg == nil {
		return nil, nilMsg(types.TypeMsgSetPaused)
	}
	if err := ms.deliver(goCtx, msg, func(ctx sdk.Context) error {
		return ms.Keeper.SetPaused(ctx, msg.Admin, msg.Paused)
	}); err != nil {
		return nil, err
	}
	return &types.MsgSetPausedResponse{}, nil
}

func (ms msgServer) UpdateConfig(goCtx context.Context, msg *types.MsgUpdateConfig) (*types.MsgUpdateConfigResponse, error) {
	if msg == nil {
		return nil, nilMsg(types.TypeMsgUpdateConfig)
	}
	if err := ms.deliver(goCtx, msg, func(ctx sdk.Context) error {
		return ms.Keeper.UpdateConfig(ctx, msg.Admin, msg)
	}); err != nil {
		return nil, err
	}
	return &types.MsgUpdateConfigResponse{}, nil
}

func (ms msgServer) UpdateReputationConfig(goCtx context.Context, msg *types.MsgUpdateReputationConfig) (*types.MsgUpdateReputationConfigResponse, error) {
	if msg == nil {
		return nil, nilMsg(types.TypeMsgUpdateReputationConfig)
	}
	if err := ms.deliver(goCtx, msg, func(ctx sdk.Context) error {
		return ms.Keeper.UpdateConfig(ctx, msg.Admin, msg)
	}); err != nil {
		return nil, err
	}
	return &types.MsgUpdateReputationConfigResponse{}, nil
}

// RegisterOracle adds the sender to the provider roster
func (ms msgServer) RegisterOracle(goCtx context.Context, msg *types.MsgRegisterOracle) (*types.MsgRegisterOracleResponse, error) {
	if msg == nil {
		return nil, nilMsg(types.TypeMsgRegisterOracle)
	}
	if err := ms.deliver(goCtx, msg, func(ctx sdk.Context) error {
		return ms.Keeper.RegisterOracle(ctx, msg.Provider, msg.Stake)
	}); err != nil {
		return nil, err
	}
	return &types.MsgRegisterOracleResponse{}, nil
}

func (ms msgServer) DeactivateOracle(goCtx context.Context, msg *types.MsgDeactivateOracle) (*types.MsgDeactivateOracleResponse, error) {
	if msg == nil {
		return nil, nilMsg(types.TypeMsgDeactivateOracle)
	}
	if err := ms.deliver(goCtx, msg, func(ctx sdk.Context) error {
		return ms.Keeper.DeactivateOracle(ctx, msg.Sender, msg.Provider)
	}); err != nil {
		return nil, err
	}
	return &types.MsgDeactivateOracleResponse{}, nil
}

func (ms msgServer) ReactivateOracle(goCtx context.Context, msg *types.MsgReactivateOracle) (*types.MsgReactivateOracleResponse, error) {
	if msg == nil {
		return nil, nilMsg(types.TypeMsgReactivateOracle)
	}
	if err := ms.deliver(goCtx, msg, func(ctx sdk.Context) error {
		return ms.Keeper.ReactivateOracle(ctx, msg.Provider)
	}); err != nil {
		return nil, err
	}
	return &types.MsgReactivateOracleResponse{}, nil
}

func (ms msgServer) AddStake(goCtx context.Context, msg *types.MsgAddStake) (*types.MsgAddStakeResponse, error) {
	if msg == nil {
		return nil, nilMsg(types.TypeMsgAddStake)
	}
	resp := &types.MsgAddStakeResponse{}
	if err := ms.deliver(goCtx, msg, func(ctx sdk.Context) error {
		stake, err := ms.Keeper.AddStake(ctx, msg.Provider, msg.Amount)
		resp.Stake = stake
		return err
	}); err != nil {
		return nil, err
	}
	return resp, nil
}

func (ms msgServer) Heartbeat(goCtx context.Context, msg *types.MsgHeartbeat) (*types.MsgHeartbeatResponse, error) {
	if msg == nil {
		return nil, nilMsg(types.TypeMsgHeartbeat)
	}
	if err := ms.deliver(goCtx, msg, func(ctx sdk.Context) error {
		return ms.Keeper.Heartbeat(ctx, msg.Provider)
	}); err != nil {
		return nil, err
	}
	return &types.MsgHeartbeatResponse{}, nil
}

// SlashOracle applies an admin-imposed stake and reputation penalty
func (ms msgServer) SlashOracle(goCtx context.Context, msg *types.MsgSlashOracle) (*types.MsgSlashOracleResponse, error) {
	if msg == nil {
		return nil, nilMsg(types.TypeMsgSlashOracle)
	}
	if err := ms.deliver(goCtx, msg, func(ctx sdk.Context) error {
		return ms.Keeper.SlashOracle(ctx, msg.Admin, msg.Provider, msg.StakePenalty, msg.RepPenalty)
	}); err != nil {
		return nil, err
	}
	return &types.MsgSlashOracleResponse{}, nil
}

func (ms msgServer) CreateFeed(goCtx context.Context, msg *types.MsgCreateFeed) (*types.MsgCreateFeedResponse, error) {
	if msg == nil {
		return nil, nilMsg(types.TypeMsgCreateFeed)
	}
	if err := ms.deliver(goCtx, msg, func(ctx sdk.Context) error {
		return ms.Keeper.CreateFeed(ctx, msg.Admin, msg.FeedID, msg.BaseAsset, msg.QuoteAsset, msg.Decimals)
	}); err != nil {
		return nil, err
	}
	return &types.MsgCreateFeedResponse{}, nil
}

func (ms msgServer) UpdateFeed(goCtx context.Context, msg *types.MsgUpdateFeed) (*types.MsgUpdateFeedResponse, error) {
	if msg == nil {
		return nil, nilMsg(types.TypeMsgUpdateFeed)
	}
	if err := ms.deliver(goCtx, msg, func(ctx sdk.Context) error {
		return ms.Keeper.UpdateFeed(ctx, msg.Admin, msg.FeedID, msg.IsActive, msg.StalenessOverrideSecs, msg.MinOraclesOverride)
	}); err != nil {
		return nil, err
	}
	return &types.MsgUpdateFeedResponse{}, nil
}

func (ms msgServer) OpenRound(goCtx context.Context, msg *types.MsgOpenRound) (*types.MsgOpenRoundResponse, error) {
	if msg == nil {
		return nil, nilMsg(types.TypeMsgOpenRound)
	}
	resp := &types.MsgOpenRoundResponse{}
	if err := ms.deliver(goCtx, msg, func(ctx sdk.Context) error {
		roundID, err := ms.Keeper.OpenRound(ctx, msg.Sender, msg.FeedID)
		resp.RoundID = roundID
		return err
	}); err != nil {
		return nil, err
	}
	return resp, nil
}

// SubmitPrice records a provider observation for the open round of a feed
func (ms msgServer) SubmitPrice(goCtx context.Context, msg *types.MsgSubmitPrice) (*types.MsgSubmitPriceResponse, error) {
	if msg == nil {
		return nil, nilMsg(types.TypeMsgSubmitPrice)
	}
	resp := &types.MsgSubmitPriceResponse{}
	if err := ms.deliver(goCtx, msg, func(ctx sdk.Context) error {
		roundID, err := ms.Keeper.SubmitPrice(ctx, msg.Provider, msg.FeedID, msg.Price, msg.Confidence)
		resp.RoundID = roundID
		return err
	}); err != nil {
		return nil, err
	}
	return resp, nil
}

// ResolveRound aggregates the open round and publishes the resolved price
func (ms msgServer) ResolveRound(goCtx context.Context, msg *types.MsgResolveRound) (*types.MsgResolveRoundResponse, error) {
	if msg == nil {
		return nil, nilMsg(types.TypeMsgResolveRound)
	}
	resp := &types.MsgResolveRoundResponse{}
	if err := ms.deliver(goCtx, msg, func(ctx sdk.Context) error {
		price, err := ms.Keeper.ResolveRound(ctx, msg.Sender, msg.FeedID)
		resp.Price = price
		return err
	}); err != nil {
		return nil, err
	}
	return resp, nil
}

func (ms msgServer) EnforceHeartbeats(goCtx context.Context, msg *types.MsgEnforceHeartbeats) (*types.MsgEnforceHeartbeatsResponse, error) {
	if msg == nil {
		return nil, nilMsg(types.TypeMsgEnforceHeartbeats)
	}
	resp := &types.MsgEnforceHeartbeatsResponse{}
	if err := ms.deliver(goCtx, msg, func(ctx sdk.Context) error {
		n, err := ms.Keeper.EnforceHeartbeats(ctx, msg.Admin)
		resp.Deactivated = n
		return err
	}); err != nil {
		return nil, err
	}
	return resp, nil
}
