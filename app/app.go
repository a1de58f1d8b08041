// Package app hosts the oracle network engine on a persistent commit multistore.
// Every delivered operation is its own block: it runs against a cache-wrapped
// store and is committed only when it succeeds.
package app

import (
	"context"
	"sync"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/oraclenet/app/telemetry"
	"github.com/paw-chain/oraclenet/x/oraclenet/keeper"
	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

var lastBlockTimeKey = []byte("last_block_time")

// OracleApp is the single-writer host of the oracle network state
type OracleApp struct {
	mtx sync.RWMutex

	logger   log.Logger
	db       dbm.DB
	cms      storetypes.CommitMultiStore
	storeKey *storetypes.KVStoreKey
	metaKey  *storetypes.KVStoreKey

	Keeper      keeper.Keeper
	msgServer   types.MsgServer
	queryServer types.QueryServer

	checkInvariants bool
	blockMetrics    *telemetry.BlockMetrics
}

// Option configures an OracleApp
type Option func(*OracleApp)

// WithInvariantChecks runs every registered invariant before each commit
func WithInvariantChecks() Option {
	return func(app *OracleApp) {
		app.checkInvariants = true
	}
}

// WithBlockMetrics records block outcomes on the given instruments
func WithBlockMetrics(m *telemetry.BlockMetrics) Option {
	return func(app *OracleApp) {
		app.blockMetrics = m
	}
}

// NewOracleApp mounts the oracle network store on db and loads the latest committed version
func NewOracleApp(logger log.Logger, db dbm.DB, opts ...Option) (*OracleApp, error) {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	metaKey := storetypes.NewKVStoreKey(MetaStoreKey)

	cms := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	cms.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, nil)
	cms.MountStoreWithDB(metaKey, storetypes.StoreTypeIAVL, nil)
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, errorsmod.Wrap(err, "failed to load latest version")
	}

	k := keeper.NewKeeper(types.ModuleCdc, storeKey)
	app := &OracleApp{
		logger:      logger.With("module", "app"),
		db:          db,
		cms:         cms,
		storeKey:    storeKey,
		metaKey:     metaKey,
		Keeper:      k,
		msgServer:   keeper.NewMsgServerImpl(k),
		queryServer: keeper.NewQueryServerImpl(k),
	}
	for _, opt := range opts {
		opt(app)
	}

	app.logger.Info("loaded oracle network state", "height", app.LastBlockHeight())
	return app, nil
}

// LastBlockHeight returns the height of the last committed block
func (app *OracleApp) LastBlockHeight() int64 {
	return app.cms.LastCommitID().Version
}

// LastBlockTime returns the time of the last committed block, or the zero time before genesis
func (app *OracleApp) LastBlockTime() time.Time {
	bz := app.cms.GetKVStore(app.metaKey).Get(lastBlockTimeKey)
	if bz == nil {
		return time.Time{}
	}
	t, err := sdk.ParseTimeBytes(bz)
	if err != nil {
		app.logger.Error("failed to decode last block time", "error", err)
		return time.Time{}
	}
	return t
}

// InitChain loads genesis into an empty store as block 1
func (app *OracleApp) InitChain(genesisTime time.Time, gs *types.GenesisState) error {
	if gs == nil {
		return errorsmod.Wrap(ErrInvalidGenesis, "genesis state is nil")
	}
	if err := gs.Validate(); err != nil {
		return errorsmod.Wrap(ErrInvalidGenesis, err.Error())
	}

	app.mtx.Lock()
	defer app.mtx.Unlock()

	if app.LastBlockHeight() != 0 {
		return errorsmod.Wrapf(ErrChainInitialized, "state already at height %d", app.LastBlockHeight())
	}

	return app.commitBlock(context.Background(), genesisTime, "init_chain", func(ctx sdk.Context) error {
		return app.Keeper.InitGenesis(ctx, *gs)
	})
}

// Deliver runs fn as the next block at blockTime. The block is committed only when fn
// succeeds; a failed operation leaves the store untouched.
func (app *OracleApp) Deliver(blockTime time.Time, fn func(ctx context.Context, ms types.MsgServer) error) error {
	app.mtx.Lock()
	defer app.mtx.Unlock()

	if app.LastBlockHeight() == 0 {
		return ErrChainNotInitialized
	}

	return app.commitBlock(context.Background(), blockTime, "deliver", func(ctx sdk.Context) error {
		return fn(ctx, app.msgServer)
	})
}

// Query runs fn against the last committed state at blockTime. Nothing fn does is written back.
func (app *OracleApp) Query(blockTime time.Time, fn func(ctx context.Context, q types.QueryServer) error) error {
	app.mtx.RLock()
	defer app.mtx.RUnlock()

	height := app.LastBlockHeight()
	goCtx, span := telemetry.StartQuerySpan(context.Background(), height)

	ctx := app.newContext(app.cms.CacheMultiStore(), height, blockTime).WithContext(goCtx)
	err := fn(ctx, app.queryServer)
	telemetry.EndSpan(span, err)
	return err
}

// ExportGenesis returns the committed state as a genesis document
func (app *OracleApp) ExportGenesis() (*types.GenesisState, error) {
	var gs *types.GenesisState
	err := app.Query(app.LastBlockTime(), func(ctx context.Context, _ types.QueryServer) error {
		var err error
		gs, err = app.Keeper.ExportGenesis(sdk.UnwrapSDKContext(ctx))
		return err
	})
	return gs, err
}

// Close releases the underlying database
func (app *OracleApp) Close() error {
	app.mtx.Lock()
	defer app.mtx.Unlock()
	return app.db.Close()
}

// commitBlock runs op on a cache of the committed state and commits it as the next block.
// Callers must hold the write lock.
func (app *OracleApp) commitBlock(parent context.Context, blockTime time.Time, operation string, op func(sdk.Context) error) error {
	start := time.Now()
	height := app.LastBlockHeight() + 1

	goCtx, span := telemetry.StartBlockSpan(parent, height, operation)

	err := app.executeBlock(goCtx, height, blockTime, op)
	telemetry.EndSpan(span, err)
	if app.blockMetrics != nil {
		outcome := telemetry.OutcomeCommitted
		if err != nil {
			outcome = telemetry.OutcomeRejected
		}
		app.blockMetrics.Record(goCtx, operation, outcome, height, time.Since(start))
	}
	if err != nil {
		app.logger.Debug("block rejected", "height", height, "operation", operation, "error", err)
		return err
	}
	return nil
}

func (app *OracleApp) executeBlock(goCtx context.Context, height int64, blockTime time.Time, op func(sdk.Context) error) error {
	if err := ValidateBlockTime(blockTime, app.LastBlockTime()); err != nil {
		return err
	}

	cache := app.cms.CacheMultiStore()
	ctx := app.newContext(cache, height, blockTime).WithContext(goCtx)

	if err := op(ctx); err != nil {
		return err
	}

	if app.checkInvariants {
		if msg, broken := keeper.AllInvariants(app.Keeper)(ctx); broken {
			app.logger.Error("invariant broken, discarding block", "height", height, "details", msg)
			return errorsmod.Wrap(ErrInvariantBroken, msg)
		}
	}

	ctx.KVStore(app.metaKey).Set(lastBlockTimeKey, sdk.FormatTimeBytes(blockTime))
	cache.Write()
	commitID := app.cms.Commit()

	app.logger.Debug("committed block", "height", commitID.Version, "hash", commitID.Hash)
	return nil
}

func (app *OracleApp) newContext(ms storetypes.MultiStore, height int64, blockTime time.Time) sdk.Context {
	header := cmtproto.Header{
		ChainID: types.ModuleName,
		Height:  height,
		Time:    blockTime.UTC(),
	}
	return sdk.NewContext(ms, header, false, app.logger)
}
