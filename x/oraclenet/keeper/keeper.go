package keeper

import (
	"fmt"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

// Keeper maintains the state of the oracle network
type Keeper struct {
	cdc      *codec.LegacyAmino
	storeKey storetypes.StoreKey
	metrics  *OracleNetMetrics
}

// NewKeeper creates a new oraclenet Keeper instance
func NewKeeper(cdc *codec.LegacyAmino, storeKey storetypes.StoreKey) Keeper {
	return Keeper{
		cdc:      cdc,
		storeKey: storeKey,
		metrics:  NewOracleNetMetrics(),
	}
}

// Logger returns a module-specific logger
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

func (k Keeper) getStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

func (k Keeper) prefixStore(ctx sdk.Context, pfx []byte) prefix.Store {
	return prefix.NewStore(k.getStore(ctx), pfx)
}

// load decodes the record under key into ptr, reporting whether it exists
func (k Keeper) load(store storetypes.KVStore, key []byte, ptr interface{}) (bool, error) {
	bz := store.Get(key)
	if bz == nil {
		return false, nil
	}
	if err := k.cdc.Unmarshal(bz, ptr); err != nil {
		return false, errorsmod.Wrapf(types.ErrStateCorruption, "decode %T at %X: %s", ptr, key, err)
	}
	return true, nil
}

func (k Keeper) save(store storetypes.KVStore, key []byte, v interface{}) error {
	bz, err := k.cdc.Marshal(v)
	if err != nil {
		return errorsmod.Wrapf(types.ErrStateCorruption, "encode %T: %s", v, err)
	}
	store.Set(key, bz)
	return nil
}

func now(ctx sdk.Context) int64 {
	return ctx.BlockTime().Unix()
}

// GetConfig returns the network configuration
func (k Keeper) GetConfig(ctx sdk.Context) (types.NetworkConfig, error) {
	var cfg types.NetworkConfig
	found, err := k.load(k.getStore(ctx), types.ConfigKey, &cfg)
	if err != nil {
		return cfg, err
	}
	if !found {
		return cfg, types.ErrNotInitialized
	}
	return cfg, nil
}

// IsInitialized reports whether a configuration has been stored
func (k Keeper) IsInitialized(ctx sdk.Context) bool {
	return k.getStore(ctx).Has(types.ConfigKey)
}

func (k Keeper) setConfig(ctx sdk.Context, cfg types.NetworkConfig) error {
	return k.save(k.getStore(ctx), types.ConfigKey, cfg)
}

// IsPaused reports whether the network is paused
func (k Keeper) IsPaused(ctx sdk.Context) bool {
	bz := k.getStore(ctx).Get(types.PausedKey)
	return len(bz) == 1 && bz[0] == 1
}

func (k Keeper) setPaused(ctx sdk.Context, paused bool) {
	if paused {
		k.getStore(ctx).Set(types.PausedKey, []byte{1})
		return
	}
	k.getStore(ctx).Set(types.PausedKey, []byte{0})
}

func (k Keeper) requireNotPaused(ctx sdk.Context) error {
	if k.IsPaused(ctx) {
		return types.ErrPaused
	}
	return nil
}

// requireAdmin loads the config and checks caller against the admin
func (k Keeper) requireAdmin(ctx sdk.Context, caller string) (types.NetworkConfig, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return cfg, err
	}
	if caller != cfg.Admin {
		return cfg, errorsmod.Wrapf(types.ErrUnauthorized, "%s is not the network admin", caller)
	}
	return cfg, nil
}

// Initialize creates the default configuration governed by admin
func (k Keeper) Initialize(ctx sdk.Context, admin string) error {
	if k.IsInitialized(ctx) {
		return types.ErrAlreadyInitialized
	}

	cfg := types.DefaultNetworkConfig(admin)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := k.setConfig(ctx, cfg); err != nil {
		return err
	}
	k.setPaused(ctx, false)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeInitialized,
			sdk.NewAttribute(types.AttributeKeyAdmin, admin),
		),
	)
	k.Logger(ctx).Info("oracle network initialized", "admin", admin)
	return nil
}

// clampReputation lowers every provider above repMax to repMax
func (k Keeper) clampReputation(ctx sdk.Context, repMax uint32) error {
	var clamped []types.OracleProvider
	if err := k.IterateOracles(ctx, func(p types.OracleProvider) bool {
		if p.Reputation > repMax {
			p.Reputation = repMax
			clamped = append(clamped, p)
		}
		return false
	}); err != nil {
		return err
	}

	for _, p := range clamped {
		if err := k.setProvider(ctx, p); err != nil {
			return err
		}
	}
	if len(clamped) > 0 {
		k.Logger(ctx).Info("oracle reputation clamped to new maximum", "rep_max", repMax, "count", len(clamped))
	}
	return nil
}

// SetPaused toggles the network pause flag
func (k Keeper) SetPaused(ctx sdk.Context, caller string, paused bool) error {
	if _, err := k.requireAdmin(ctx, caller); err != nil {
		return err
	}
	k.setPaused(ctx, paused)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePauseChanged,
			sdk.NewAttribute(types.AttributeKeyPaused, strconv.FormatBool(paused)),
		),
	)
	k.Logger(ctx).Info("oracle network pause changed", "paused", paused)
	return nil
}

// UpdateConfig applies an admin update to the network configuration
func (k Keeper) UpdateConfig(ctx sdk.Context, caller string, update types.ConfigUpdate) error {
	cfg, err := k.requireAdmin(ctx, caller)
	if err != nil {
		return err
	}

	next := update.Apply(cfg)
	next.Admin = cfg.Admin
	if err := next.Validate(); err != nil {
		return err
	}
	if err := k.setConfig(ctx, next); err != nil {
		return err
	}

	eventType := types.EventTypeConfigUpdated
	if _, ok := update.(*types.MsgUpdateReputationConfig); ok {
		eventType = types.EventTypeReputationConfigUpdated
		if err := k.clampReputation(ctx, next.RepMax); err != nil {
			return err
		}
	}
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			eventType,
			sdk.NewAttribute(types.AttributeKeyAdmin, caller),
		),
	)
	k.Logger(ctx).Info("oracle network config updated", "config", next.String())
	return nil
}
