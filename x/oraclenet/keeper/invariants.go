package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

// RegisterInvariants registers all oraclenet invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "reputation-bounds",
		ReputationBoundsInvariant(k))
	ir.RegisterRoute(types.ModuleName, "roster-bound",
		RosterBoundInvariant(k))
	ir.RegisterRoute(types.ModuleName, "round-consistency",
		RoundConsistencyInvariant(k))
	ir.RegisterRoute(types.ModuleName, "history-bound",
		HistoryBoundInvariant(k))
}

// AllInvariants runs all invariants of the oraclenet module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := ReputationBoundsInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		res, stop = RosterBoundInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		res, stop = RoundConsistencyInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		return HistoryBoundInvariant(k)(ctx)
	}
}

func formatIssues(noun string, issues []string) string {
	if len(issues) == 0 {
		return ""
	}
	msg := fmt.Sprintf("%d %s:\n", len(issues), noun)
	for _, issue := range issues {
		msg += fmt.Sprintf("  - %s\n", issue)
	}
	return msg
}

// ReputationBoundsInvariant checks 0 <= reputation <= rep_max and that zero reputation implies inactive
func ReputationBoundsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var issues []string

		cfg, err := k.GetConfig(ctx)
		if err != nil {
			if !k.IsInitialized(ctx) {
				return sdk.FormatInvariant(types.ModuleName, "reputation-bounds", ""), false
			}
			issues = append(issues, fmt.Sprintf("config unreadable: %v", err))
		} else if err := k.IterateOracles(ctx, func(p types.OracleProvider) bool {
			if p.Reputation > cfg.RepMax {
				issues = append(issues, fmt.Sprintf("provider %s has reputation %d above max %d", p.Address, p.Reputation, cfg.RepMax))
			}
			if p.Reputation == 0 && p.IsActive {
				issues = append(issues, fmt.Sprintf("provider %s is active with zero reputation", p.Address))
			}
			return false
		}); err != nil {
			issues = append(issues, err.Error())
		}

		return sdk.FormatInvariant(
			types.ModuleName, "reputation-bounds",
			formatIssues("reputation violations", issues),
		), len(issues) > 0
	}
}

// RosterBoundInvariant checks the roster never exceeds the hard cap
func RosterBoundInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		size := k.rosterSize(ctx)
		broken := size > types.MaxRosterSize

		msg := ""
		if broken {
			msg = fmt.Sprintf("roster holds %d providers, cap is %d\n", size, types.MaxRosterSize)
		}
		return sdk.FormatInvariant(types.ModuleName, "roster-bound", msg), broken
	}
}

// RoundConsistencyInvariant checks every current-round submission set is bounded by the
// roster and duplicate free, and that no published price is ahead of its feed's round
func RoundConsistencyInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var issues []string
		roster := k.rosterSize(ctx)

		current := make(map[string]uint64)
		if err := k.IterateRounds(ctx, func(r types.PriceRound) bool {
			current[r.FeedID] = r.RoundID

			set, found, err := k.getSubmissions(ctx, r.FeedID, r.RoundID)
			switch {
			case err != nil:
				issues = append(issues, err.Error())
			case !found:
				issues = append(issues, fmt.Sprintf("feed %s round %d has no submission set", r.FeedID, r.RoundID))
			default:
				if uint32(set.Len()) > roster {
					issues = append(issues, fmt.Sprintf("feed %s round %d has %d submissions for a roster of %d", r.FeedID, r.RoundID, set.Len(), roster))
				}
				seen := make(map[string]bool, set.Len())
				for _, sub := range set.Submissions {
					if seen[sub.Oracle] {
						issues = append(issues, fmt.Sprintf("feed %s round %d has duplicate submission by %s", r.FeedID, r.RoundID, sub.Oracle))
					}
					seen[sub.Oracle] = true
				}
			}
			return false
		}); err != nil {
			issues = append(issues, err.Error())
		}

		if err := k.IterateResolvedPrices(ctx, func(p types.ResolvedPrice) bool {
			if roundID, ok := current[p.FeedID]; !ok || p.RoundID > roundID {
				issues = append(issues, fmt.Sprintf("feed %s price from round %d is ahead of current round %d", p.FeedID, p.RoundID, roundID))
			}
			return false
		}); err != nil {
			issues = append(issues, err.Error())
		}

		return sdk.FormatInvariant(
			types.ModuleName, "round-consistency",
			formatIssues("round inconsistencies", issues),
		), len(issues) > 0
	}
}

// HistoryBoundInvariant checks every history is bounded and ordered by round id
func HistoryBoundInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var issues []string

		if err := k.IterateHistories(ctx, func(feedID string, h types.PriceHistory) bool {
			if err := types.ValidateHistory(h.Entries); err != nil {
				issues = append(issues, fmt.Sprintf("feed %s: %v", feedID, err))
			}
			return false
		}); err != nil {
			issues = append(issues, err.Error())
		}

		return sdk.FormatInvariant(
			types.ModuleName, "history-bound",
			formatIssues("history violations", issues),
		), len(issues) > 0
	}
}
