package keeper_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/oraclenet/testutil/keeper"
	"github.com/paw-chain/oraclenet/x/oraclenet/keeper"
	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

func setupMsgServer(t testing.TB) (keeper.Keeper, types.MsgServer, sdk.Context) {
	k, ctx := keepertest.OracleNetKeeper(t)
	return k, keeper.NewMsgServerImpl(k), ctx
}

func TestMsgServerLifecycle(t *testing.T) {
	k, ms, ctx := setupMsgServer(t)

	_, err := ms.Initialize(ctx, &types.MsgInitialize{Admin: admin})
	require.NoError(t, err)
	_, err = ms.CreateFeed(ctx, &types.MsgCreateFeed{Admin: admin, FeedID: testFeed, BaseAsset: "BTC", QuoteAsset: "USD", Decimals: 8})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := ms.RegisterOracle(ctx, &types.MsgRegisterOracle{Provider: provider(i), Stake: testStake})
		require.NoError(t, err)
	}

	stakeResp, err := ms.AddStake(ctx, &types.MsgAddStake{Provider: provider(0), Amount: sdkmath.NewInt(1)})
	require.NoError(t, err)
	require.True(t, stakeResp.Stake.Equal(testStake.AddRaw(1)))

	openResp, err := ms.OpenRound(ctx, &types.MsgOpenRound{Sender: provider(0), FeedID: testFeed})
	require.NoError(t, err)
	require.Equal(t, uint64(1), openResp.RoundID)

	for i, price := range []int64{100_000_000, 100_500_000, 101_000_000} {
		resp, err := ms.SubmitPrice(ctx, &types.MsgSubmitPrice{
			Provider:   provider(i),
			FeedID:     testFeed,
			Price:      sdkmath.NewInt(price),
			Confidence: 8_000,
		})
		require.NoError(t, err)
		require.Equal(t, uint64(1), resp.RoundID)
	}

	resolveResp, err := ms.ResolveRound(ctx, &types.MsgResolveRound{Sender: provider(1), FeedID: testFeed})
	require.NoError(t, err)
	require.True(t, resolveResp.Price.Price.Equal(sdkmath.NewInt(100_500_000)))

	// cached events reach the outer context on success
	require.True(t, hasEvent(ctx.EventManager().Events(), types.EventTypeRoundResolved))

	price, err := k.GetPriceValue(ctx, testFeed)
	require.NoError(t, err)
	require.True(t, price.Equal(sdkmath.NewInt(100_500_000)))

	ctx = keepertest.AtTime(ctx, int64(types.DefaultHeartbeatInterval)+1)
	enforceResp, err := ms.EnforceHeartbeats(ctx, &types.MsgEnforceHeartbeats{Admin: admin})
	require.NoError(t, err)
	require.Equal(t, uint32(3), enforceResp.Deactivated)
}

func TestMsgServerFailureLeavesNoTrace(t *testing.T) {
	k, ms, ctx := setupMsgServer(t)

	_, err := ms.Initialize(ctx, &types.MsgInitialize{Admin: admin})
	require.NoError(t, err)
	_, err = ms.RegisterOracle(ctx, &types.MsgRegisterOracle{Provider: provider(0), Stake: testStake})
	require.NoError(t, err)

	before, err := k.ExportGenesis(ctx)
	require.NoError(t, err)
	eventsBefore := len(ctx.EventManager().Events())

	failures := []func() error{
		func() error {
			_, err := ms.RegisterOracle(ctx, &types.MsgRegisterOracle{Provider: provider(0), Stake: testStake})
			return err
		},
		func() error {
			_, err := ms.SlashOracle(ctx, &types.MsgSlashOracle{Admin: outsider, Provider: provider(0), StakePenalty: testStake, RepPenalty: 500})
			return err
		},
		func() error {
			_, err := ms.OpenRound(ctx, &types.MsgOpenRound{Sender: provider(0), FeedID: testFeed})
			return err
		},
		func() error {
			_, err := ms.UpdateConfig(ctx, &types.MsgUpdateConfig{Admin: admin, MinOracles: 5, MaxOracles: 1})
			return err
		},
		func() error {
			_, err := ms.ReactivateOracle(ctx, &types.MsgReactivateOracle{Provider: provider(9)})
			return err
		},
	}
	for _, fail := range failures {
		require.Error(t, fail())
	}

	after, err := k.ExportGenesis(ctx)
	require.NoError(t, err)
	require.Equal(t, before, after)
	require.Len(t, ctx.EventManager().Events(), eventsBefore)
}

func TestMsgServerPause(t *testing.T) {
	k, ms, ctx := setupMsgServer(t)

	_, err := ms.Initialize(ctx, &types.MsgInitialize{Admin: admin})
	require.NoError(t, err)
	_, err = ms.SetPaused(ctx, &types.MsgSetPaused{Admin: outsider, Paused: true})
	require.ErrorIs(t, err, types.ErrUnauthorized)
	_, err = ms.SetPaused(ctx, &types.MsgSetPaused{Admin: admin, Paused: true})
	require.NoError(t, err)
	require.True(t, k.IsPaused(ctx))

	_, err = ms.RegisterOracle(ctx, &types.MsgRegisterOracle{Provider: provider(0), Stake: testStake})
	require.ErrorIs(t, err, types.ErrPaused)

	_, err = ms.UpdateReputationConfig(ctx, &types.MsgUpdateReputationConfig{
		Admin: admin, RepInitial: 10, RepMax: 100, RepReward: 1, RepPenalty: 1, RepMissPenalty: 1,
	})
	require.NoError(t, err)
}

func TestMsgServerFeedAdmin(t *testing.T) {
	k, ms, ctx := setupMsgServer(t)

	_, err := ms.Initialize(ctx, &types.MsgInitialize{Admin: admin})
	require.NoError(t, err)
	_, err = ms.CreateFeed(ctx, &types.MsgCreateFeed{Admin: admin, FeedID: testFeed, BaseAsset: "BTC", QuoteAsset: "USD", Decimals: 8})
	require.NoError(t, err)
	_, err = ms.UpdateFeed(ctx, &types.MsgUpdateFeed{Admin: admin, FeedID: testFeed, IsActive: false, StalenessOverrideSecs: 30})
	require.NoError(t, err)

	feed, err := k.GetFeed(ctx, testFeed)
	require.NoError(t, err)
	require.False(t, feed.IsActive)
	require.Equal(t, uint64(30), feed.StalenessOverrideSecs)
}

func TestMsgServerProviderLifecycle(t *testing.T) {
	k, ms, ctx := setupMsgServer(t)

	_, err := ms.Initialize(ctx, &types.MsgInitialize{Admin: admin})
	require.NoError(t, err)
	_, err = ms.RegisterOracle(ctx, &types.MsgRegisterOracle{Provider: provider(0), Stake: testStake})
	require.NoError(t, err)
	_, err = ms.Heartbeat(ctx, &types.MsgHeartbeat{Provider: provider(0)})
	require.NoError(t, err)
	_, err = ms.DeactivateOracle(ctx, &types.MsgDeactivateOracle{Sender: provider(0), Provider: provider(0)})
	require.NoError(t, err)
	_, err = ms.ReactivateOracle(ctx, &types.MsgReactivateOracle{Provider: provider(0)})
	require.NoError(t, err)
	_, err = ms.SlashOracle(ctx, &types.MsgSlashOracle{Admin: admin, Provider: provider(0), StakePenalty: sdkmath.NewInt(1), RepPenalty: 1})
	require.NoError(t, err)

	p, err := k.GetOracle(ctx, provider(0))
	require.NoError(t, err)
	require.True(t, p.IsActive)
	require.Equal(t, types.DefaultRepInitial-1, p.Reputation)
	require.True(t, p.Stake.Equal(testStake.SubRaw(1)))
}

func TestMsgServerNilMessage(t *testing.T) {
	_, ms, ctx := setupMsgServer(t)

	_, err := ms.SubmitPrice(ctx, nil)
	require.ErrorIs(t, err, types.ErrInvalidInput)
	_, err = ms.ResolveRound(ctx, nil)
	require.ErrorIs(t, err, types.ErrInvalidInput)
}
