package keeper

import (
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

// EnforceHeartbeats deactivates every active provider whose heartbeat deadline has passed,
// applying the missed-round penalty. It returns the number of providers deactivated.
func (k Keeper) EnforceHeartbeats(ctx sdk.Context, caller string) (uint32, error) {
	cfg, err := k.requireAdmin(ctx, caller)
	if err != nil {
		return 0, err
	}
	ts := now(ctx)

	var lapsed []types.OracleProvider
	if err := k.IterateOracles(ctx, func(p types.OracleProvider) bool {
		if p.IsActive && ts > p.HeartbeatDeadline(cfg.HeartbeatInterval) {
			lapsed = append(lapsed, p)
		}
		return false
	}); err != nil {
		return 0, err
	}

	for _, p := range lapsed {
		p.IsActive = false
		p.Reputation = types.SaturatingSubUint32(p.Reputation, cfg.RepMissPenalty)
		if err := k.setProvider(ctx, p); err != nil {
			return 0, err
		}
		k.Logger(ctx).Info("oracle missed heartbeat",
			"provider", p.Address,
			"last_heartbeat", p.LastHeartbeat,
			"reputation", p.Reputation,
		)
		k.metrics.OracleReputation.WithLabelValues(p.Address).Set(float64(p.Reputation))
	}

	count := uint32(len(lapsed))
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeHeartbeatsEnforced,
			sdk.NewAttribute(types.AttributeKeyCount, strconv.FormatUint(uint64(count), 10)),
		),
	)
	k.metrics.HeartbeatDeactivation.Add(float64(count))
	return count, nil
}
