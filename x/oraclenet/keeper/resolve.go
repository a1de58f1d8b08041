package keeper

import (
	"strconv"
	"time"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

// ResolveRound aggregates the open round of a feed, applies reputation changes,
// publishes the resolved price and closes the round. A round is resolved at most once.
func (k Keeper) ResolveRound(ctx sdk.Context, caller, feedID string) (types.ResolvedPrice, error) {
	start := time.Now()

	if err := k.requireNotPaused(ctx); err != nil {
		return types.ResolvedPrice{}, err
	}
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return types.ResolvedPrice{}, err
	}
	feed, err := k.GetFeed(ctx, feedID)
	if err != nil {
		return types.ResolvedPrice{}, err
	}
	if !feed.IsActive {
		return types.ResolvedPrice{}, errorsmod.Wrapf(types.ErrFeedInactive, "%s", feedID)
	}

	round, found, err := k.getRound(ctx, feedID)
	if err != nil {
		return types.ResolvedPrice{}, err
	}
	if !found || round.Resolved {
		return types.ResolvedPrice{}, errorsmod.Wrapf(types.ErrRoundNotOpen, "feed %s has no unresolved round", feedID)
	}

	set, _, err := k.getSubmissions(ctx, feedID, round.RoundID)
	if err != nil {
		return types.ResolvedPrice{}, err
	}
	minOracles := feed.EffectiveMinOracles(cfg)
	if uint32(set.Len()) < minOracles {
		k.metrics.RoundResolutions.WithLabelValues(feedID, "insufficient_submissions").Inc()
		return types.ResolvedPrice{}, errorsmod.Wrapf(
			types.ErrInsufficientSubmissions, "round %d has %d submissions, need %d", round.RoundID, set.Len(), minOracles,
		)
	}

	roster, err := k.ListOracles(ctx)
	if err != nil {
		return types.ResolvedPrice{}, err
	}
	weights := make(map[string]uint32, len(roster))
	for _, p := range roster {
		weights[p.Address] = p.Reputation
	}

	result, err := Aggregate(set.Submissions, weights, cfg.OutlierThresholdBps, minOracles)
	if err != nil {
		k.metrics.RoundResolutions.WithLabelValues(feedID, "consensus_not_reached").Inc()
		return types.ResolvedPrice{}, err
	}

	if err := k.applyRoundReputation(ctx, cfg, feedID, roster, result.Outcomes); err != nil {
		return types.ResolvedPrice{}, err
	}

	ts := now(ctx)
	resolved := types.ResolvedPrice{
		FeedID:      feedID,
		RoundID:     round.RoundID,
		Price:       result.Price,
		Timestamp:   ts,
		NumIncluded: result.NumIncluded,
		NumRejected: result.NumRejected,
		SpreadBps:   result.SpreadBps,
		Confidence:  result.Confidence,
	}
	if err := k.setResolvedPrice(ctx, resolved); err != nil {
		return types.ResolvedPrice{}, err
	}
	if err := k.appendHistory(ctx, feedID, resolved.HistoryEntry()); err != nil {
		return types.ResolvedPrice{}, err
	}

	round.Resolved = true
	if err := k.setRound(ctx, round); err != nil {
		return types.ResolvedPrice{}, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRoundResolved,
			sdk.NewAttribute(types.AttributeKeyFeedID, feedID),
			sdk.NewAttribute(types.AttributeKeyRoundID, strconv.FormatUint(round.RoundID, 10)),
			sdk.NewAttribute(types.AttributeKeyPrice, resolved.Price.String()),
			sdk.NewAttribute(types.AttributeKeyMedian, result.ReferenceMedian.String()),
			sdk.NewAttribute(types.AttributeKeyNumIncluded, strconv.FormatUint(uint64(resolved.NumIncluded), 10)),
			sdk.NewAttribute(types.AttributeKeyNumRejected, strconv.FormatUint(uint64(resolved.NumRejected), 10)),
			sdk.NewAttribute(types.AttributeKeySpreadBps, strconv.FormatUint(uint64(resolved.SpreadBps), 10)),
			sdk.NewAttribute(types.AttributeKeyConfidence, strconv.FormatUint(uint64(resolved.Confidence), 10)),
			sdk.NewAttribute(types.AttributeKeyActor, caller),
		),
	)
	k.Logger(ctx).Info("price round resolved",
		"feed", feedID,
		"round", round.RoundID,
		"price", resolved.Price.String(),
		"included", resolved.NumIncluded,
		"rejected", resolved.NumRejected,
		"spread_bps", resolved.SpreadBps,
	)
	k.recordResolution(feed, resolved, start)
	return resolved, nil
}

func (k Keeper) recordResolution(feed types.PriceFeed, resolved types.ResolvedPrice, start time.Time) {
	k.metrics.AggregationLatency.Observe(time.Since(start).Seconds())
	k.metrics.RoundResolutions.WithLabelValues(feed.FeedID, "success").Inc()
	k.metrics.PriceSpread.WithLabelValues(feed.FeedID).Set(float64(resolved.SpreadBps))
	k.metrics.PriceConfidence.WithLabelValues(feed.FeedID).Set(float64(resolved.Confidence))
	k.metrics.OutliersDetected.WithLabelValues(feed.FeedID).Add(float64(resolved.NumRejected))
	if price, err := ScaledPrice(resolved.Price, feed.Decimals).Float64(); err == nil {
		k.metrics.ResolvedPrice.WithLabelValues(feed.FeedID).Set(price)
	}
}
