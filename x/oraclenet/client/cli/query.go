package cli

import (
	"context"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

// GetQueryCmd returns the read-only commands of the oracle network
func GetQueryCmd() *cobra.Command {
	oracleQueryCmd := &cobra.Command{
		Use:                        "query",
		Aliases:                    []string{"q"},
		Short:                      "Querying commands for the oracle network",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	oracleQueryCmd.AddCommand(
		GetCmdQueryConfig(),
		GetCmdQueryPaused(),
		GetCmdQueryOracle(),
		GetCmdQueryOracles(),
		GetCmdQueryOracleStats(),
		GetCmdQueryOracleHealth(),
		GetCmdQueryFeed(),
		GetCmdQueryFeeds(),
		GetCmdQueryPrice(),
		GetCmdQueryPriceValue(),
		GetCmdQueryLatestPriceUnchecked(),
		GetCmdQueryPriceHistory(),
		GetCmdQueryCurrentRound(),
		GetCmdQueryNetworkStats(),
		GetCmdQueryRoundSubmissions(),
	)

	return oracleQueryCmd
}

// GetCmdQueryConfig returns the config query command
func GetCmdQueryConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Query the oracle network configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, func(ctx context.Context, q types.QueryServer) (*types.QueryConfigResponse, error) {
				return q.Config(ctx, &types.QueryConfigRequest{})
			})
		},
	}

	AddQueryFlagsToCmd(cmd)
	return cmd
}

// GetCmdQueryPaused returns the paused query command
func GetCmdQueryPaused() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paused",
		Short: "Query whether the oracle network is paused",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, func(ctx context.Context, q types.QueryServer) (*types.QueryPausedResponse, error) {
				return q.Paused(ctx, &types.QueryPausedRequest{})
			})
		},
	}

	AddQueryFlagsToCmd(cmd)
	return cmd
}

// GetCmdQueryOracle returns the oracle query command
func GetCmdQueryOracle() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oracle [address]",
		Short: "Query an oracle provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, func(ctx context.Context, q types.QueryServer) (*types.QueryOracleResponse, error) {
				return q.Oracle(ctx, &types.QueryOracleRequest{Address: args[0]})
			})
		},
	}

	AddQueryFlagsToCmd(cmd)
	return cmd
}

// GetCmdQueryOracles returns the oracles query command
func GetCmdQueryOracles() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oracles",
		Short: "Query all oracle providers in registration order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, func(ctx context.Context, q types.QueryServer) (*types.QueryOraclesResponse, error) {
				return q.Oracles(ctx, &types.QueryOraclesRequest{})
			})
		},
	}

	AddQueryFlagsToCmd(cmd)
	return cmd
}

// GetCmdQueryOracleStats returns the oracle-stats query command
func GetCmdQueryOracleStats() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oracle-stats [address]",
		Short: "Query submission statistics of an oracle provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, func(ctx context.Context, q types.QueryServer) (*types.QueryOracleStatsResponse, error) {
				return q.OracleStats(ctx, &types.QueryOracleStatsRequest{Address: args[0]})
			})
		},
	}

	AddQueryFlagsToCmd(cmd)
	return cmd
}

// GetCmdQueryOracleHealth returns the oracle-health query command
func GetCmdQueryOracleHealth() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oracle-health [address]",
		Short: "Query the heartbeat health of an oracle provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, func(ctx context.Context, q types.QueryServer) (*types.QueryOracleHealthResponse, error) {
				return q.OracleHealth(ctx, &types.QueryOracleHealthRequest{Address: args[0]})
			})
		},
	}

	AddQueryFlagsToCmd(cmd)
	return cmd
}

// GetCmdQueryFeed returns the feed query command
func GetCmdQueryFeed() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feed [feed-id]",
		Short: "Query a price feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, func(ctx context.Context, q types.QueryServer) (*types.QueryFeedResponse, error) {
				return q.Feed(ctx, &types.QueryFeedRequest{FeedID: args[0]})
			})
		},
	}

	AddQueryFlagsToCmd(cmd)
	return cmd
}

// GetCmdQueryFeeds returns the feeds query command
func GetCmdQueryFeeds() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feeds",
		Short: "Query all price feeds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, func(ctx context.Context, q types.QueryServer) (*types.QueryFeedsResponse, error) {
				return q.Feeds(ctx, &types.QueryFeedsRequest{})
			})
		},
	}

	AddQueryFlagsToCmd(cmd)
	return cmd
}

// GetCmdQueryPrice returns the price query command
func GetCmdQueryPrice() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price [feed-id]",
		Short: "Query the latest resolved price, failing when it is stale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, func(ctx context.Context, q types.QueryServer) (*types.QueryPriceResponse, error) {
				return q.Price(ctx, &types.QueryPriceRequest{FeedID: args[0]})
			})
		},
	}

	AddQueryFlagsToCmd(cmd)
	return cmd
}

// GetCmdQueryPriceValue returns the price-value query command
func GetCmdQueryPriceValue() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price-value [feed-id]",
		Short: "Query only the value of the latest fresh price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, func(ctx context.Context, q types.QueryServer) (*types.QueryPriceValueResponse, error) {
				return q.PriceValue(ctx, &types.QueryPriceValueRequest{FeedID: args[0]})
			})
		},
	}

	AddQueryFlagsToCmd(cmd)
	return cmd
}

// GetCmdQueryLatestPriceUnchecked returns the price-unchecked query command
func GetCmdQueryLatestPriceUnchecked() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price-unchecked [feed-id]",
		Short: "Query the latest resolved price without a staleness check",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, func(ctx context.Context, q types.QueryServer) (*types.QueryLatestPriceUncheckedResponse, error) {
				return q.LatestPriceUnchecked(ctx, &types.QueryLatestPriceUncheckedRequest{FeedID: args[0]})
			})
		},
	}

	AddQueryFlagsToCmd(cmd)
	return cmd
}

// GetCmdQueryPriceHistory returns the price-history query command
func GetCmdQueryPriceHistory() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price-history [feed-id]",
		Short: "Query the resolved price history of a feed, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, func(ctx context.Context, q types.QueryServer) (*types.QueryPriceHistoryResponse, error) {
				return q.PriceHistory(ctx, &types.QueryPriceHistoryRequest{FeedID: args[0]})
			})
		},
	}

	AddQueryFlagsToCmd(cmd)
	return cmd
}

// GetCmdQueryCurrentRound returns the current-round query command
func GetCmdQueryCurrentRound() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "current-round [feed-id]",
		Short: "Query the current round of a feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, func(ctx context.Context, q types.QueryServer) (*types.QueryCurrentRoundResponse, error) {
				return q.CurrentRound(ctx, &types.QueryCurrentRoundRequest{FeedID: args[0]})
			})
		},
	}

	AddQueryFlagsToCmd(cmd)
	return cmd
}

// GetCmdQueryNetworkStats returns the network-stats query command
func GetCmdQueryNetworkStats() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "network-stats",
		Short: "Query aggregate oracle network statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, func(ctx context.Context, q types.QueryServer) (*types.QueryNetworkStatsResponse, error) {
				return q.NetworkStats(ctx, &types.QueryNetworkStatsRequest{})
			})
		},
	}

	AddQueryFlagsToCmd(cmd)
	return cmd
}

// GetCmdQueryRoundSubmissions returns the round-submissions query command
func GetCmdQueryRoundSubmissions() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "round-submissions [feed-id] [round-id]",
		Short: "Query the submissions recorded for a round",
		Long: `Query the submissions of a round in arrival order. Unknown rounds return an empty list.

Example:
  $ oracled query round-submissions BTC/USD 42`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			roundID, err := cast.ToUint64E(args[1])
			if err != nil {
				return err
			}
			return runQuery(cmd, func(ctx context.Context, q types.QueryServer) (*types.QueryRoundSubmissionsResponse, error) {
				return q.RoundSubmissions(ctx, &types.QueryRoundSubmissionsRequest{FeedID: args[0], RoundID: roundID})
			})
		},
	}

	AddQueryFlagsToCmd(cmd)
	return cmd
}
