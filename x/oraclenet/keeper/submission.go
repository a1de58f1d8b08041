package keeper

import (
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

func (k Keeper) getSubmissions(ctx sdk.Context, feedID string, roundID uint64) (types.SubmissionSet, bool, error) {
	var set types.SubmissionSet
	found, err := k.load(k.prefixStore(ctx, types.SubmissionKeyPrefix), types.SubmissionKey(feedID, roundID), &set)
	return set, found, err
}

func (k Keeper) setSubmissions(ctx sdk.Context, feedID string, roundID uint64, set types.SubmissionSet) error {
	return k.save(k.prefixStore(ctx, types.SubmissionKeyPrefix), types.SubmissionKey(feedID, roundID), set)
}

// GetRoundSubmissions returns the submissions of a round. It is safe to call while
// the round is still open.
func (k Keeper) GetRoundSubmissions(ctx sdk.Context, feedID string, roundID uint64) ([]types.PriceSubmission, error) {
	set, found, err := k.getSubmissions(ctx, feedID, roundID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errorsmod.Wrapf(types.ErrRoundNotOpen, "no submissions recorded for %s round %d", feedID, roundID)
	}
	if set.Submissions == nil {
		return []types.PriceSubmission{}, nil
	}
	return set.Submissions, nil
}

// IterateSubmissionSets walks every stored submission set
func (k Keeper) IterateSubmissionSets(ctx sdk.Context, cb func(feedID string, roundID uint64, set types.SubmissionSet) (stop bool)) error {
	iterator := k.prefixStore(ctx, types.SubmissionKeyPrefix).Iterator(nil, nil)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		feedID, roundID, ok := types.ParseSubmissionKey(iterator.Key())
		if !ok {
			return errorsmod.Wrapf(types.ErrStateCorruption, "malformed submission key %X", iterator.Key())
		}
		var set types.SubmissionSet
		if err := k.cdc.Unmarshal(iterator.Value(), &set); err != nil {
			return errorsmod.Wrapf(types.ErrStateCorruption, "decode submissions %s/%d: %s", feedID, roundID, err)
		}
		if cb(feedID, roundID, set) {
			break
		}
	}
	return nil
}

// SubmitPrice records a provider's observation in the open round of a feed and
// refreshes its heartbeat.
func (k Keeper) SubmitPrice(ctx sdk.Context, provider, feedID string, price sdkmath.Int, confidence uint32) (uint64, error) {
	if err := k.requireNotPaused(ctx); err != nil {
		return 0, err
	}
	if _, err := k.GetConfig(ctx); err != nil {
		return 0, err
	}

	p, err := k.GetOracle(ctx, provider)
	if err != nil {
		return 0, err
	}
	if !p.IsActive {
		k.recordRejection(feedID, "inactive")
		return 0, errorsmod.Wrapf(types.ErrOracleInactive, "%s", provider)
	}
	if price.IsNil() || !price.IsPositive() || !types.IsInt128(price) {
		k.recordRejection(feedID, "invalid_price")
		return 0, errorsmod.Wrap(types.ErrInvalidPrice, "price must be a positive 128-bit integer")
	}
	confidence = types.ClampConfidence(confidence)

	round, found, err := k.getRound(ctx, feedID)
	if err != nil {
		return 0, err
	}
	if !found || round.Resolved {
		k.recordRejection(feedID, "round_not_open")
		return 0, errorsmod.Wrapf(types.ErrRoundNotOpen, "feed %s has no open round", feedID)
	}

	ts := now(ctx)
	if !round.AcceptsSubmissions(ts) {
		k.recordRejection(feedID, "window_closed")
		return 0, errorsmod.Wrapf(types.ErrSubmissionWindowClosed, "round %d closed at %d", round.RoundID, round.ClosesAt)
	}

	set, _, err := k.getSubmissions(ctx, feedID, round.RoundID)
	if err != nil {
		return 0, err
	}
	if set.Has(provider) {
		k.recordRejection(feedID, "duplicate")
		return 0, errorsmod.Wrapf(types.ErrDuplicateSubmission, "%s already submitted to round %d", provider, round.RoundID)
	}
	if set.Len() >= types.MaxRosterSize {
		return 0, errorsmod.Wrapf(types.ErrStateCorruption, "round %d of %s is over capacity", round.RoundID, feedID)
	}

	set.Submissions = append(set.Submissions, types.PriceSubmission{
		Oracle:     provider,
		Price:      price,
		Timestamp:  ts,
		Confidence: confidence,
	})
	if err := k.setSubmissions(ctx, feedID, round.RoundID, set); err != nil {
		return 0, err
	}

	p.TotalSubmissions++
	p.LastHeartbeat = ts
	if err := k.setProvider(ctx, p); err != nil {
		return 0, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePriceSubmitted,
			sdk.NewAttribute(types.AttributeKeyFeedID, feedID),
			sdk.NewAttribute(types.AttributeKeyRoundID, strconv.FormatUint(round.RoundID, 10)),
			sdk.NewAttribute(types.AttributeKeyProvider, provider),
			sdk.NewAttribute(types.AttributeKeyPrice, price.String()),
			sdk.NewAttribute(types.AttributeKeyConfidence, strconv.FormatUint(uint64(confidence), 10)),
		),
	)
	k.metrics.PriceSubmissions.WithLabelValues(feedID).Inc()
	return round.RoundID, nil
}

func (k Keeper) recordRejection(feedID, reason string) {
	k.metrics.PriceRejections.WithLabelValues(feedID, reason).Inc()
}
