package keeper

import (
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

func (k Keeper) getRound(ctx sdk.Context, feedID string) (types.PriceRound, bool, error) {
	var r types.PriceRound
	found, err := k.load(k.prefixStore(ctx, types.RoundKeyPrefix), types.FeedKey(feedID), &r)
	return r, found, err
}

func (k Keeper) setRound(ctx sdk.Context, r types.PriceRound) error {
	return k.save(k.prefixStore(ctx, types.RoundKeyPrefix), types.FeedKey(r.FeedID), r)
}

// GetCurrentRound returns the latest round of a feed, resolved or not
func (k Keeper) GetCurrentRound(ctx sdk.Context, feedID string) (types.PriceRound, error) {
	r, found, err := k.getRound(ctx, feedID)
	if err != nil {
		return r, err
	}
	if !found {
		return r, errorsmod.Wrapf(types.ErrRoundNotOpen, "feed %s has no round", feedID)
	}
	return r, nil
}

// IterateRounds walks the current round of every feed
func (k Keeper) IterateRounds(ctx sdk.Context, cb func(types.PriceRound) (stop bool)) error {
	iterator := k.prefixStore(ctx, types.RoundKeyPrefix).Iterator(nil, nil)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var r types.PriceRound
		if err := k.cdc.Unmarshal(iterator.Value(), &r); err != nil {
			return errorsmod.Wrapf(types.ErrStateCorruption, "decode round %s: %s", iterator.Key(), err)
		}
		if cb(r) {
			break
		}
	}
	return nil
}

// OpenRound starts the next round of an active feed. The previous round must be
// resolved or past its closing time.
func (k Keeper) OpenRound(ctx sdk.Context, caller, feedID string) (uint64, error) {
	if err := k.requireNotPaused(ctx); err != nil {
		return 0, err
	}
	feed, err := k.GetFeed(ctx, feedID)
	if err != nil {
		return 0, err
	}
	if !feed.IsActive {
		return 0, errorsmod.Wrapf(types.ErrFeedInactive, "%s", feedID)
	}
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return 0, err
	}

	ts := now(ctx)
	roundID := uint64(1)
	prev, found, err := k.getRound(ctx, feedID)
	if err != nil {
		return 0, err
	}
	if found {
		if !prev.CanBeReplaced(ts) {
			return 0, errorsmod.Wrapf(types.ErrRoundNotOpen, "round %d of %s is open until %d", prev.RoundID, feedID, prev.ClosesAt)
		}
		roundID = prev.RoundID + 1
	}

	round := types.PriceRound{
		FeedID:   feedID,
		RoundID:  roundID,
		OpenedAt: ts,
		ClosesAt: types.SaturatingAddTimestamp(ts, cfg.SubmissionWindowSecs),
	}
	if err := k.setRound(ctx, round); err != nil {
		return 0, err
	}
	if err := k.setSubmissions(ctx, feedID, roundID, types.SubmissionSet{}); err != nil {
		return 0, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRoundOpened,
			sdk.NewAttribute(types.AttributeKeyFeedID, feedID),
			sdk.NewAttribute(types.AttributeKeyRoundID, strconv.FormatUint(roundID, 10)),
			sdk.NewAttribute(types.AttributeKeyClosesAt, strconv.FormatInt(round.ClosesAt, 10)),
			sdk.NewAttribute(types.AttributeKeyActor, caller),
		),
	)
	k.Logger(ctx).Info("price round opened", "feed", feedID, "round", roundID, "closes_at", round.ClosesAt, "by", caller)
	k.metrics.RoundsOpened.WithLabelValues(feedID).Inc()
	return roundID, nil
}
