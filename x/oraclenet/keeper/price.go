package keeper

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

func (k Keeper) getResolvedPrice(ctx sdk.Context, feedID string) (types.ResolvedPrice, bool, error) {
	var p types.ResolvedPrice
	found, err := k.load(k.prefixStore(ctx, types.ResolvedPriceKeyPrefix), types.FeedKey(feedID), &p)
	return p, found, err
}

func (k Keeper) setResolvedPrice(ctx sdk.Context, p types.ResolvedPrice) error {
	return k.save(k.prefixStore(ctx, types.ResolvedPriceKeyPrefix), types.FeedKey(p.FeedID), p)
}

func (k Keeper) getHistory(ctx sdk.Context, feedID string) (types.PriceHistory, bool, error) {
	var h types.PriceHistory
	found, err := k.load(k.prefixStore(ctx, types.HistoryKeyPrefix), types.FeedKey(feedID), &h)
	return h, found, err
}

func (k Keeper) setHistory(ctx sdk.Context, feedID string, h types.PriceHistory) error {
	return k.save(k.prefixStore(ctx, types.HistoryKeyPrefix), types.FeedKey(feedID), h)
}

func (k Keeper) appendHistory(ctx sdk.Context, feedID string, entry types.PriceHistoryEntry) error {
	h, _, err := k.getHistory(ctx, feedID)
	if err != nil {
		return err
	}
	h.Append(entry)
	return k.setHistory(ctx, feedID, h)
}

// GetPrice returns the latest resolved price of a feed, failing with ErrStalePrice
// once it is older than the feed's effective staleness threshold.
func (k Keeper) GetPrice(ctx sdk.Context, feedID string) (types.ResolvedPrice, error) {
	resolved, err := k.GetLatestPriceUnchecked(ctx, feedID)
	if err != nil {
		return resolved, err
	}
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return types.ResolvedPrice{}, err
	}
	feed, err := k.GetFeed(ctx, feedID)
	if err != nil {
		return types.ResolvedPrice{}, err
	}

	staleness := feed.EffectiveStaleness(cfg)
	if ts := now(ctx); resolved.IsStale(ts, staleness) {
		return types.ResolvedPrice{}, errorsmod.Wrapf(
			types.ErrStalePrice, "%s resolved at %d is older than %ds at %d", feedID, resolved.Timestamp, staleness, ts,
		)
	}
	return resolved, nil
}

// GetPriceValue returns only the price of GetPrice
func (k Keeper) GetPriceValue(ctx sdk.Context, feedID string) (sdkmath.Int, error) {
	resolved, err := k.GetPrice(ctx, feedID)
	if err != nil {
		return sdkmath.Int{}, err
	}
	return resolved.Price, nil
}

// GetLatestPriceUnchecked returns the latest resolved price without the staleness gate
func (k Keeper) GetLatestPriceUnchecked(ctx sdk.Context, feedID string) (types.ResolvedPrice, error) {
	resolved, found, err := k.getResolvedPrice(ctx, feedID)
	if err != nil {
		return resolved, err
	}
	if !found {
		return resolved, errorsmod.Wrapf(types.ErrNoResolvedPrice, "%s", feedID)
	}
	return resolved, nil
}

// GetPriceHistory returns the bounded resolution history of a feed, oldest first
func (k Keeper) GetPriceHistory(ctx sdk.Context, feedID string) ([]types.PriceHistoryEntry, error) {
	if _, err := k.GetFeed(ctx, feedID); err != nil {
		return nil, err
	}
	h, _, err := k.getHistory(ctx, feedID)
	if err != nil {
		return nil, err
	}
	if h.Entries == nil {
		return []types.PriceHistoryEntry{}, nil
	}
	return h.Entries, nil
}

// IterateResolvedPrices walks the latest resolved price of every feed
func (k Keeper) IterateResolvedPrices(ctx sdk.Context, cb func(types.ResolvedPrice) (stop bool)) error {
	iterator := k.prefixStore(ctx, types.ResolvedPriceKeyPrefix).Iterator(nil, nil)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var p types.ResolvedPrice
		if err := k.cdc.Unmarshal(iterator.Value(), &p); err != nil {
			return errorsmod.Wrapf(types.ErrStateCorruption, "decode price %s: %s", iterator.Key(), err)
		}
		if cb(p) {
			break
		}
	}
	return nil
}

// IterateHistories walks the history window of every feed
func (k Keeper) IterateHistories(ctx sdk.Context, cb func(feedID string, h types.PriceHistory) (stop bool)) error {
	iterator := k.prefixStore(ctx, types.HistoryKeyPrefix).Iterator(nil, nil)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var h types.PriceHistory
		if err := k.cdc.Unmarshal(iterator.Value(), &h); err != nil {
			return errorsmod.Wrapf(types.ErrStateCorruption, "decode history %s: %s", iterator.Key(), err)
		}
		if cb(string(iterator.Key()), h) {
			break
		}
	}
	return nil
}

// ScaledPrice renders a fixed-point price as a decimal using the feed's decimals
func ScaledPrice(price sdkmath.Int, decimals uint32) sdkmath.LegacyDec {
	return sdkmath.LegacyNewDecFromIntWithPrec(price, int64(decimals))
}
