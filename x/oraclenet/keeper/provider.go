package keeper

import (
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

func (k Keeper) getProvider(ctx sdk.Context, address string) (types.OracleProvider, bool, error) {
	var p types.OracleProvider
	found, err := k.load(k.prefixStore(ctx, types.ProviderKeyPrefix), types.ProviderKey(address), &p)
	return p, found, err
}

func (k Keeper) setProvider(ctx sdk.Context, p types.OracleProvider) error {
	return k.save(k.prefixStore(ctx, types.ProviderKeyPrefix), types.ProviderKey(p.Address), p)
}

// GetOracle returns a registered provider
func (k Keeper) GetOracle(ctx sdk.Context, address string) (types.OracleProvider, error) {
	p, found, err := k.getProvider(ctx, address)
	if err != nil {
		return p, err
	}
	if !found {
		return p, errorsmod.Wrapf(types.ErrOracleNotRegistered, "%s", address)
	}
	return p, nil
}

// IterateOracles walks the roster in address order until cb returns true
func (k Keeper) IterateOracles(ctx sdk.Context, cb func(types.OracleProvider) (stop bool)) error {
	iterator := k.prefixStore(ctx, types.ProviderKeyPrefix).Iterator(nil, nil)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var p types.OracleProvider
		if err := k.cdc.Unmarshal(iterator.Value(), &p); err != nil {
			return errorsmod.Wrapf(types.ErrStateCorruption, "decode provider %s: %s", iterator.Key(), err)
		}
		if cb(p) {
			break
		}
	}
	return nil
}

// ListOracles returns the full roster in address order
func (k Keeper) ListOracles(ctx sdk.Context) ([]types.OracleProvider, error) {
	oracles := []types.OracleProvider{}
	err := k.IterateOracles(ctx, func(p types.OracleProvider) bool {
		oracles = append(oracles, p)
		return false
	})
	return oracles, err
}

func (k Keeper) rosterSize(ctx sdk.Context) uint32 {
	iterator := k.prefixStore(ctx, types.ProviderKeyPrefix).Iterator(nil, nil)
	defer iterator.Close()

	var n uint32
	for ; iterator.Valid(); iterator.Next() {
		n++
	}
	return n
}

// RegisterOracle adds a provider to the roster
func (k Keeper) RegisterOracle(ctx sdk.Context, provider string, stake sdkmath.Int) error {
	if err := k.requireNotPaused(ctx); err != nil {
		return err
	}
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return err
	}

	if stake.IsNil() || stake.LT(cfg.MinStake) {
		return errorsmod.Wrapf(types.ErrInsufficientStake, "stake %s below minimum %s", stake, cfg.MinStake)
	}
	if !types.IsInt128(stake) {
		return errorsmod.Wrap(types.ErrInvalidInput, "stake exceeds the 128-bit range")
	}
	if size := k.rosterSize(ctx); size >= cfg.MaxOracles {
		return errorsmod.Wrapf(types.ErrMaxOraclesReached, "roster holds %d of %d", size, cfg.MaxOracles)
	}
	_, found, err := k.getProvider(ctx, provider)
	if err != nil {
		return err
	}
	if found {
		return errorsmod.Wrapf(types.ErrOracleAlreadyRegistered, "%s", provider)
	}

	p := types.NewOracleProvider(provider, stake, cfg.RepInitial, now(ctx))
	if err := k.setProvider(ctx, p); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOracleRegistered,
			sdk.NewAttribute(types.AttributeKeyProvider, provider),
			sdk.NewAttribute(types.AttributeKeyStake, stake.String()),
		),
	)
	k.Logger(ctx).Info("oracle registered", "provider", provider, "stake", stake.String())
	k.metrics.OracleReputation.WithLabelValues(provider).Set(float64(p.Reputation))
	return nil
}

// DeactivateOracle takes a provider off active duty. The provider itself or the admin may call it.
func (k Keeper) DeactivateOracle(ctx sdk.Context, caller, provider string) error {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return err
	}
	if caller != provider && caller != cfg.Admin {
		return errorsmod.Wrapf(types.ErrUnauthorized, "%s may not deactivate %s", caller, provider)
	}

	p, err := k.GetOracle(ctx, provider)
	if err != nil {
		return err
	}
	p.IsActive = false
	if err := k.setProvider(ctx, p); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOracleDeactivated,
			sdk.NewAttribute(types.AttributeKeyProvider, provider),
			sdk.NewAttribute(types.AttributeKeyActor, caller),
		),
	)
	k.Logger(ctx).Info("oracle deactivated", "provider", provider, "by", caller)
	return nil
}

// ReactivateOracle returns a provider to active duty if its reputation allows
func (k Keeper) ReactivateOracle(ctx sdk.Context, provider string) error {
	if err := k.requireNotPaused(ctx); err != nil {
		return err
	}
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return err
	}
	p, err := k.GetOracle(ctx, provider)
	if err != nil {
		return err
	}

	threshold := max(cfg.RepInitial/2, 1)
	if p.Reputation < threshold {
		return errorsmod.Wrapf(types.ErrReputationTooLow, "reputation %d below %d", p.Reputation, threshold)
	}

	p.IsActive = true
	p.LastHeartbeat = now(ctx)
	if err := k.setProvider(ctx, p); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOracleReactivated,
			sdk.NewAttribute(types.AttributeKeyProvider, provider),
		),
	)
	k.Logger(ctx).Info("oracle reactivated", "provider", provider)
	return nil
}

// AddStake increases a provider's stake, saturating at the 128-bit bound
func (k Keeper) AddStake(ctx sdk.Context, provider string, amount sdkmath.Int) (sdkmath.Int, error) {
	if err := k.requireNotPaused(ctx); err != nil {
		return sdkmath.Int{}, err
	}
	if _, err := k.GetConfig(ctx); err != nil {
		return sdkmath.Int{}, err
	}
	if amount.IsNil() || !amount.IsPositive() {
		return sdkmath.Int{}, errorsmod.Wrap(types.ErrInvalidInput, "amount must be positive")
	}

	p, err := k.GetOracle(ctx, provider)
	if err != nil {
		return sdkmath.Int{}, err
	}
	p.Stake = types.SaturatingAddInt128(p.Stake, amount)
	if err := k.setProvider(ctx, p); err != nil {
		return sdkmath.Int{}, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeStakeAdded,
			sdk.NewAttribute(types.AttributeKeyProvider, provider),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(types.AttributeKeyStake, p.Stake.String()),
		),
	)
	return p.Stake, nil
}

// Heartbeat refreshes an active provider's liveness timestamp
func (k Keeper) Heartbeat(ctx sdk.Context, provider string) error {
	if err := k.requireNotPaused(ctx); err != nil {
		return err
	}
	if _, err := k.GetConfig(ctx); err != nil {
		return err
	}
	p, err := k.GetOracle(ctx, provider)
	if err != nil {
		return err
	}
	if !p.IsActive {
		return errorsmod.Wrapf(types.ErrOracleInactive, "%s", provider)
	}

	p.LastHeartbeat = now(ctx)
	return k.setProvider(ctx, p)
}

// SlashOracle applies an admin penalty to a provider's stake and reputation
func (k Keeper) SlashOracle(ctx sdk.Context, caller, provider string, stakePenalty sdkmath.Int, repPenalty uint32) error {
	if _, err := k.requireAdmin(ctx, caller); err != nil {
		return err
	}
	p, err := k.GetOracle(ctx, provider)
	if err != nil {
		return err
	}

	if !stakePenalty.IsNil() && stakePenalty.IsPositive() {
		p.Stake = types.SaturatingSubInt128(p.Stake, stakePenalty)
	}
	p.Penalize(repPenalty)
	if err := k.setProvider(ctx, p); err != nil {
		return err
	}

	penalty := "0"
	if !stakePenalty.IsNil() {
		penalty = stakePenalty.String()
	}
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeOracleSlashed,
			sdk.NewAttribute(types.AttributeKeyProvider, provider),
			sdk.NewAttribute(types.AttributeKeyStakePenalty, penalty),
			sdk.NewAttribute(types.AttributeKeyReputationPenalty, strconv.FormatUint(uint64(repPenalty), 10)),
			sdk.NewAttribute(types.AttributeKeyReputation, strconv.FormatUint(uint64(p.Reputation), 10)),
			sdk.NewAttribute(types.AttributeKeyActive, strconv.FormatBool(p.IsActive)),
		),
	)
	k.Logger(ctx).Info("oracle slashed",
		"provider", provider,
		"stake_penalty", penalty,
		"rep_penalty", repPenalty,
		"reputation", p.Reputation,
		"active", p.IsActive,
	)
	k.metrics.OracleSlashes.WithLabelValues(provider).Inc()
	k.metrics.OracleReputation.WithLabelValues(provider).Set(float64(p.Reputation))
	return nil
}

// GetOracleStats returns the performance view of a provider
func (k Keeper) GetOracleStats(ctx sdk.Context, provider string) (types.OracleStats, error) {
	p, err := k.GetOracle(ctx, provider)
	if err != nil {
		return types.OracleStats{}, err
	}
	return p.Stats(), nil
}

// IsOracleHealthy reports whether a provider is active, live and has reputation left
func (k Keeper) IsOracleHealthy(ctx sdk.Context, provider string) (bool, error) {
	health, err := k.GetOracleHealth(ctx, provider)
	return health.Healthy, err
}

// GetOracleHealth returns the liveness view of a provider
func (k Keeper) GetOracleHealth(ctx sdk.Context, provider string) (types.OracleHealth, error) {
	p, err := k.GetOracle(ctx, provider)
	if err != nil {
		return types.OracleHealth{}, err
	}
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return types.OracleHealth{}, err
	}
	return types.OracleHealth{
		Address:       p.Address,
		Healthy:       p.IsHealthy(now(ctx), cfg.HeartbeatInterval),
		IsActive:      p.IsActive,
		Reputation:    p.Reputation,
		LastHeartbeat: p.LastHeartbeat,
		Deadline:      p.HeartbeatDeadline(cfg.HeartbeatInterval),
	}, nil
}
