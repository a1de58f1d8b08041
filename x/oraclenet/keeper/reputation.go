package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

// applyRoundReputation rewards included providers, penalizes outliers and charges the
// missed-round penalty to every active provider that did not submit.
func (k Keeper) applyRoundReputation(ctx sdk.Context, cfg types.NetworkConfig, feedID string, roster []types.OracleProvider, outcomes []SubmissionOutcome) error {
	submitted := make(map[string]bool, len(outcomes))
	included := make(map[string]bool, len(outcomes))
	for _, o := range outcomes {
		submitted[o.Oracle] = true
		included[o.Oracle] = o.Included
	}

	for _, p := range roster {
		switch {
		case submitted[p.Address] && included[p.Address]:
			p.AcceptedSubmissions++
			p.Reward(cfg.RepReward, cfg.RepMax)

		case submitted[p.Address]:
			p.RejectedSubmissions++
			p.Penalize(cfg.RepPenalty)
			ctx.EventManager().EmitEvent(
				sdk.NewEvent(
					types.EventTypeOutlierRejected,
					sdk.NewAttribute(types.AttributeKeyFeedID, feedID),
					sdk.NewAttribute(types.AttributeKeyProvider, p.Address),
				),
			)
			k.Logger(ctx).Debug("submission rejected as outlier", "feed", feedID, "provider", p.Address, "reputation", p.Reputation)

		case p.IsActive:
			p.MissedRounds++
			p.Penalize(cfg.RepMissPenalty)
			ctx.EventManager().EmitEvent(
				sdk.NewEvent(
					types.EventTypeRoundMissed,
					sdk.NewAttribute(types.AttributeKeyFeedID, feedID),
					sdk.NewAttribute(types.AttributeKeyProvider, p.Address),
				),
			)
			k.metrics.MissedRounds.WithLabelValues(feedID).Inc()

		default:
			continue
		}

		if err := k.setProvider(ctx, p); err != nil {
			return err
		}
		k.metrics.OracleReputation.WithLabelValues(p.Address).Set(float64(p.Reputation))
	}
	return nil
}
