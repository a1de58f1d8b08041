package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

// InitGenesis initializes the module's state from a provided genesis state.
func (k Keeper) InitGenesis(ctx sdk.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("invalid genesis: %w", err)
	}
	if genState.Config == nil {
		k.Logger(ctx).Info("oraclenet genesis has no config; network awaits initialization")
		return nil
	}

	if err := k.setConfig(ctx, *genState.Config); err != nil {
		return err
	}
	k.setPaused(ctx, genState.Paused)

	for _, p := range genState.Providers {
		if err := k.setProvider(ctx, p); err != nil {
			return err
		}
	}
	for _, f := range genState.Feeds {
		if err := k.setFeed(ctx, f); err != nil {
			return err
		}
	}
	for _, r := range genState.Rounds {
		if err := k.setRound(ctx, r); err != nil {
			return err
		}
	}
	for _, rs := range genState.Submissions {
		if err := k.setSubmissions(ctx, rs.FeedID, rs.RoundID, types.SubmissionSet{Submissions: rs.Submissions}); err != nil {
			return err
		}
	}
	for _, p := range genState.Prices {
		if err := k.setResolvedPrice(ctx, p); err != nil {
			return err
		}
	}
	for _, h := range genState.Histories {
		if err := k.setHistory(ctx, h.FeedID, types.PriceHistory{Entries: h.Entries}); err != nil {
			return err
		}
	}

	k.Logger(ctx).Info("oraclenet genesis initialized",
		"providers", len(genState.Providers),
		"feeds", len(genState.Feeds),
		"rounds", len(genState.Rounds),
	)
	return nil
}

// ExportGenesis returns the module's exported genesis state.
func (k Keeper) ExportGenesis(ctx sdk.Context) (*types.GenesisState, error) {
	gs := types.DefaultGenesis()
	if !k.IsInitialized(ctx) {
		return gs, nil
	}

	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	gs.Config = &cfg
	gs.Paused = k.IsPaused(ctx)

	if gs.Providers, err = k.ListOracles(ctx); err != nil {
		return nil, err
	}
	if gs.Feeds, err = k.ListFeeds(ctx); err != nil {
		return nil, err
	}
	if err := k.IterateRounds(ctx, func(r types.PriceRound) bool {
		gs.Rounds = append(gs.Rounds, r)
		return false
	}); err != nil {
		return nil, err
	}
	if err := k.IterateSubmissionSets(ctx, func(feedID string, roundID uint64, set types.SubmissionSet) bool {
		gs.Submissions = append(gs.Submissions, types.RoundSubmissions{
			FeedID:      feedID,
			RoundID:     roundID,
			Submissions: set.Submissions,
		})
		return false
	}); err != nil {
		return nil, err
	}
	if err := k.IterateResolvedPrices(ctx, func(p types.ResolvedPrice) bool {
		gs.Prices = append(gs.Prices, p)
		return false
	}); err != nil {
		return nil, err
	}
	if err := k.IterateHistories(ctx, func(feedID string, h types.PriceHistory) bool {
		gs.Histories = append(gs.Histories, types.FeedHistory{FeedID: feedID, Entries: h.Entries})
		return false
	}); err != nil {
		return nil, err
	}

	return gs, nil
}
