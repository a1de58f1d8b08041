package keeper

import (
	"bytes"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/oraclenet/x/oraclenet/keeper"
	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

// GenesisTime is the block time of contexts returned by OracleNetKeeper
var GenesisTime = time.Unix(1_700_000_000, 0).UTC()

// OracleNetKeeper creates a keeper over an in-memory IAVL store and a context at GenesisTime.
func OracleNetKeeper(t testing.TB) (keeper.Keeper, sdk.Context) {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	k := keeper.NewKeeper(types.ModuleCdc, storeKey)
	ctx := sdk.NewContext(stateStore, cmtproto.Header{Height: 1, Time: GenesisTime}, false, log.NewNopLogger())
	return k, ctx
}

// AtTime returns ctx moved to GenesisTime plus offset seconds
func AtTime(ctx sdk.Context, offset int64) sdk.Context {
	return ctx.WithBlockTime(GenesisTime.Add(time.Duration(offset) * time.Second))
}

// Address returns a deterministic bech32 account address derived from seed
func Address(seed byte) string {
	return sdk.AccAddress(bytes.Repeat([]byte{seed}, 20)).String()
}
