package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

// GetNetworkStats summarizes the roster, the catalog and the rounds resolved so far
func (k Keeper) GetNetworkStats(ctx sdk.Context) (types.NetworkStats, error) {
	var stats types.NetworkStats

	if err := k.IterateOracles(ctx, func(p types.OracleProvider) bool {
		stats.TotalOracles++
		if p.IsActive {
			stats.ActiveOracles++
		}
		return false
	}); err != nil {
		return stats, err
	}

	if err := k.IterateFeeds(ctx, func(f types.PriceFeed) bool {
		stats.TotalFeeds++
		if f.IsActive {
			stats.ActiveFeeds++
		}
		return false
	}); err != nil {
		return stats, err
	}

	if err := k.IterateRounds(ctx, func(r types.PriceRound) bool {
		stats.TotalRoundsResolved += r.ResolvedRounds()
		return false
	}); err != nil {
		return stats, err
	}

	k.metrics.ActiveOracles.Set(float64(stats.ActiveOracles))
	return stats, nil
}
