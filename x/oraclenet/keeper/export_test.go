package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

// Exported for testing: raw state writers used to corrupt state in invariant tests

func (k Keeper) SetProviderUnchecked(ctx sdk.Context, p types.OracleProvider) error {
	return k.setProvider(ctx, p)
}

func (k Keeper) SetSubmissionsUnchecked(ctx sdk.Context, feedID string, roundID uint64, set types.SubmissionSet) error {
	return k.setSubmissions(ctx, feedID, roundID, set)
}

func (k Keeper) SetHistoryUnchecked(ctx sdk.Context, feedID string, h types.PriceHistory) error {
	return k.setHistory(ctx, feedID, h)
}

func (k Keeper) SetResolvedPriceUnchecked(ctx sdk.Context, p types.ResolvedPrice) error {
	return k.setResolvedPrice(ctx, p)
}

func (k Keeper) RosterSize(ctx sdk.Context) uint32 {
	return k.rosterSize(ctx)
}
