package keeper

import (
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

func (k Keeper) getFeed(ctx sdk.Context, feedID string) (types.PriceFeed, bool, error) {
	var f types.PriceFeed
	found, err := k.load(k.prefixStore(ctx, types.FeedKeyPrefix), types.FeedKey(feedID), &f)
	return f, found, err
}

func (k Keeper) setFeed(ctx sdk.Context, f types.PriceFeed) error {
	return k.save(k.prefixStore(ctx, types.FeedKeyPrefix), types.FeedKey(f.FeedID), f)
}

// GetFeed returns a feed from the catalog
func (k Keeper) GetFeed(ctx sdk.Context, feedID string) (types.PriceFeed, error) {
	f, found, err := k.getFeed(ctx, feedID)
	if err != nil {
		return f, err
	}
	if !found {
		return f, errorsmod.Wrapf(types.ErrFeedNotFound, "%s", feedID)
	}
	return f, nil
}

// IterateFeeds walks the catalog in feed id order until cb returns true
func (k Keeper) IterateFeeds(ctx sdk.Context, cb func(types.PriceFeed) (stop bool)) error {
	iterator := k.prefixStore(ctx, types.FeedKeyPrefix).Iterator(nil, nil)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var f types.PriceFeed
		if err := k.cdc.Unmarshal(iterator.Value(), &f); err != nil {
			return errorsmod.Wrapf(types.ErrStateCorruption, "decode feed %s: %s", iterator.Key(), err)
		}
		if cb(f) {
			break
		}
	}
	return nil
}

// ListFeeds returns the whole catalog in feed id order
func (k Keeper) ListFeeds(ctx sdk.Context) ([]types.PriceFeed, error) {
	feeds := []types.PriceFeed{}
	err := k.IterateFeeds(ctx, func(f types.PriceFeed) bool {
		feeds = append(feeds, f)
		return false
	})
	return feeds, err
}

func (k Keeper) catalogSize(ctx sdk.Context) int {
	iterator := k.prefixStore(ctx, types.FeedKeyPrefix).Iterator(nil, nil)
	defer iterator.Close()

	n := 0
	for ; iterator.Valid(); iterator.Next() {
		n++
	}
	return n
}

// CreateFeed adds an active feed without overrides to the catalog
func (k Keeper) CreateFeed(ctx sdk.Context, caller, feedID, base, quote string, decimals uint32) error {
	if _, err := k.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if size := k.catalogSize(ctx); size >= types.MaxFeeds {
		return errorsmod.Wrapf(types.ErrMaxFeedsReached, "catalog holds %d feeds", size)
	}
	_, found, err := k.getFeed(ctx, feedID)
	if err != nil {
		return err
	}
	if found {
		return errorsmod.Wrapf(types.ErrFeedAlreadyExists, "%s", feedID)
	}

	feed := types.NewPriceFeed(feedID, base, quote, decimals, now(ctx))
	if err := feed.Validate(); err != nil {
		return err
	}
	if err := k.setFeed(ctx, feed); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFeedCreated,
			sdk.NewAttribute(types.AttributeKeyFeedID, feedID),
			sdk.NewAttribute(types.AttributeKeyPair, feed.Pair()),
			sdk.NewAttribute(types.AttributeKeyDecimals, strconv.FormatUint(uint64(decimals), 10)),
		),
	)
	k.Logger(ctx).Info("price feed created", "feed", feedID, "pair", feed.Pair(), "decimals", decimals)
	return nil
}

// UpdateFeed overwrites a feed's status and overrides; zero overrides fall back to the network defaults
func (k Keeper) UpdateFeed(ctx sdk.Context, caller, feedID string, isActive bool, stalenessOverride uint64, minOraclesOverride uint32) error {
	if _, err := k.requireAdmin(ctx, caller); err != nil {
		return err
	}
	feed, err := k.GetFeed(ctx, feedID)
	if err != nil {
		return err
	}

	feed.IsActive = isActive
	feed.StalenessOverrideSecs = stalenessOverride
	feed.MinOraclesOverride = minOraclesOverride
	if err := feed.Validate(); err != nil {
		return err
	}
	if err := k.setFeed(ctx, feed); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFeedUpdated,
			sdk.NewAttribute(types.AttributeKeyFeedID, feedID),
			sdk.NewAttribute(types.AttributeKeyActive, strconv.FormatBool(isActive)),
		),
	)
	k.Logger(ctx).Info("price feed updated",
		"feed", feedID,
		"active", isActive,
		"staleness_override", stalenessOverride,
		"min_oracles_override", minOraclesOverride,
	)
	return nil
}
