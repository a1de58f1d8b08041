package cli

import (
	"context"
	"fmt"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

// GetTxCmd returns the state-changing commands of the oracle network
func GetTxCmd() *cobra.Command {
	oracleTxCmd := &cobra.Command{
		Use:                        "tx",
		Short:                      "Oracle network transaction subcommands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	oracleTxCmd.AddCommand(
		CmdInitialize(),
		CmdSetPaused(),
		CmdUpdateConfig(),
		CmdUpdateReputationConfig(),
		CmdRegisterOracle(),
		CmdDeactivateOracle(),
		CmdReactivateOracle(),
		CmdAddStake(),
		CmdHeartbeat(),
		CmdSlashOracle(),
		CmdCreateFeed(),
		CmdUpdateFeed(),
		CmdOpenRound(),
		CmdSubmitPrice(),
		CmdResolveRound(),
		CmdEnforceHeartbeats(),
	)

	return oracleTxCmd
}

// CmdInitialize returns the command that creates the network configuration
func CmdInitialize() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "initialize",
		Short: "Initialize the oracle network with the sender as admin",
		Long: `Create the network configuration with default parameters. The --from address
becomes the admin. Fails if the network was already initialized.

Example:
  $ oracled tx initialize --from oracle1admin...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			msg := &types.MsgInitialize{Admin: from}
			return runTx(cmd, msg, func(ctx context.Context, ms types.MsgServer) (*types.MsgInitializeResponse, error) {
				return ms.Initialize(ctx, msg)
			})
		},
	}

	AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSetPaused returns the command that pauses or unpauses the network
func CmdSetPaused() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-paused [true|false]",
		Short: "Pause or unpause the oracle network (admin only)",
		Long: `Pausing blocks registration, staking, heartbeats, round opening, submissions and
resolution. Queries, admin configuration and slashing keep working.

Example:
  $ oracled tx set-paused true --from oracle1admin...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			paused, err := cast.ToBoolE(args[0])
			if err != nil {
				return fmt.Errorf("invalid paused flag %q: %w", args[0], err)
			}
			msg := &types.MsgSetPaused{Admin: from, Paused: paused}
			return runTx(cmd, msg, func(ctx context.Context, ms types.MsgServer) (*types.MsgSetPausedResponse, error) {
				return ms.SetPaused(ctx, msg)
			})
		},
	}

	AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdUpdateConfig returns the command that changes roster, timing and stake parameters
func CmdUpdateConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-config",
		Short: "Update oracle network parameters (admin only)",
		Long: `Update roster, timing and stake parameters. Parameters without a flag keep their
current value.

Example:
  $ oracled tx update-config --min-oracles 5 --staleness 1800 --from oracle1admin...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			current, err := query(cmd, func(ctx context.Context, q types.QueryServer) (*types.QueryConfigResponse, error) {
				return q.Config(ctx, &types.QueryConfigRequest{})
			})
			if err != nil {
				return err
			}
			cfg := current.Config

			msg := &types.MsgUpdateConfig{
				Admin:                from,
				MinOracles:           cfg.MinOracles,
				MaxOracles:           cfg.MaxOracles,
				SubmissionWindowSecs: cfg.SubmissionWindowSecs,
				StalenessSecs:        cfg.StalenessSecs,
				OutlierThresholdBps:  cfg.OutlierThresholdBps,
				MinStake:             cfg.MinStake,
				HeartbeatInterval:    cfg.HeartbeatInterval,
			}

			flags := cmd.Flags()
			if flags.Changed(FlagMinOracles) {
				msg.MinOracles, _ = flags.GetUint32(FlagMinOracles)
			}
			if flags.Changed(FlagMaxOracles) {
				msg.MaxOracles, _ = flags.GetUint32(FlagMaxOracles)
			}
			if flags.Changed(FlagSubmissionWindow) {
				msg.SubmissionWindowSecs, _ = flags.GetUint64(FlagSubmissionWindow)
			}
			if flags.Changed(FlagStaleness) {
				msg.StalenessSecs, _ = flags.GetUint64(FlagStaleness)
			}
			if flags.Changed(FlagOutlierThresholdBps) {
				msg.OutlierThresholdBps, _ = flags.GetUint32(FlagOutlierThresholdBps)
			}
			if flags.Changed(FlagHeartbeatInterval) {
				msg.HeartbeatInterval, _ = flags.GetUint64(FlagHeartbeatInterval)
			}
			if flags.Changed(FlagMinStake) {
				raw, _ := flags.GetString(FlagMinStake)
				if msg.MinStake, err = parseAmount("min stake", raw); err != nil {
					return err
				}
			}

			return runTx(cmd, msg, func(ctx context.Context, ms types.MsgServer) (*types.MsgUpdateConfigResponse, error) {
				return ms.UpdateConfig(ctx, msg)
			})
		},
	}

	cmd.Flags().Uint32(FlagMinOracles, 0, "Minimum included submissions to resolve a round")
	cmd.Flags().Uint32(FlagMaxOracles, 0, "Maximum roster size")
	cmd.Flags().Uint64(FlagSubmissionWindow, 0, "Submission window in seconds")
	cmd.Flags().Uint64(FlagStaleness, 0, "Price staleness threshold in seconds")
	cmd.Flags().Uint32(FlagOutlierThresholdBps, 0, "Outlier deviation threshold in basis points")
	cmd.Flags().String(FlagMinStake, "", "Minimum stake to register")
	cmd.Flags().Uint64(FlagHeartbeatInterval, 0, "Heartbeat interval in seconds")
	AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdUpdateReputationConfig returns the command that changes the reputation parameters
func CmdUpdateReputationConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-reputation-config",
		Short: "Update reputation parameters (admin only)",
		Long: `Update the reputation parameters. Parameters without a flag keep their current value.
Every value must be at most rep-max.

Example:
  $ oracled tx update-reputation-config --rep-penalty 50 --from oracle1admin...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			current, err := query(cmd, func(ctx context.Context, q types.QueryServer) (*types.QueryConfigResponse, error) {
				return q.Config(ctx, &types.QueryConfigRequest{})
			})
			if err != nil {
				return err
			}
			cfg := current.Config

			msg := &types.MsgUpdateReputationConfig{
				Admin:          from,
				RepInitial:     cfg.RepInitial,
				RepMax:         cfg.RepMax,
				RepReward:      cfg.RepReward,
				RepPenalty:     cfg.RepPenalty,
				RepMissPenalty: cfg.RepMissPenalty,
			}

			for flag, field := range map[string]*uint32{
				FlagRepInitial:     &msg.RepInitial,
				FlagRepMax:         &msg.RepMax,
				FlagRepReward:      &msg.RepReward,
				FlagRepPenalty:     &msg.RepPenalty,
				FlagRepMissPenalty: &msg.RepMissPenalty,
			} {
				if cmd.Flags().Changed(flag) {
					*field, _ = cmd.Flags().GetUint32(flag)
				}
			}

			return runTx(cmd, msg, func(ctx context.Context, ms types.MsgServer) (*types.MsgUpdateReputationConfigResponse, error) {
				return ms.UpdateReputationConfig(ctx, msg)
			})
		},
	}

	cmd.Flags().Uint32(FlagRepInitial, 0, "Reputation of newly registered oracles")
	cmd.Flags().Uint32(FlagRepMax, 0, "Reputation ceiling")
	cmd.Flags().Uint32(FlagRepReward, 0, "Reward for an included submission")
	cmd.Flags().Uint32(FlagRepPenalty, 0, "Penalty for an outlier submission")
	cmd.Flags().Uint32(FlagRepMissPenalty, 0, "Penalty for missing a round")
	AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdRegisterOracle returns the command that joins the roster
func CmdRegisterOracle() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register-oracle [stake]",
		Short: "Register the sender as an oracle provider",
		Long: `Join the oracle roster with an initial stake of at least the network minimum.

Example:
  $ oracled tx register-oracle 10000000 --from oracle1provider...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			stake, err := parseAmount("stake", args[0])
			if err != nil {
				return err
			}
			msg := &types.MsgRegisterOracle{Provider: from, Stake: stake}
			return runTx(cmd, msg, func(ctx context.Context, ms types.MsgServer) (*types.MsgRegisterOracleResponse, error) {
				return ms.RegisterOracle(ctx, msg)
			})
		},
	}

	AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdDeactivateOracle returns the command that takes a provider off active duty
func CmdDeactivateOracle() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deactivate-oracle [provider]",
		Short: "Deactivate an oracle provider (the provider itself or the admin)",
		Long: `Deactivate a provider. Inactive providers cannot submit prices.

Example:
  $ oracled tx deactivate-oracle oracle1provider... --from oracle1provider...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			msg := &types.MsgDeactivateOracle{Sender: from, Provider: args[0]}
			return runTx(cmd, msg, func(ctx context.Context, ms types.MsgServer) (*types.MsgDeactivateOracleResponse, error) {
				return ms.DeactivateOracle(ctx, msg)
			})
		},
	}

	AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdReactivateOracle returns the command that returns the sender to active duty
func CmdReactivateOracle() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reactivate-oracle",
		Short: "Reactivate the sender's oracle provider",
		Long: `Return to active duty. Requires reputation of at least half the initial score and
stake at or above the network minimum.

Example:
  $ oracled tx reactivate-oracle --from oracle1provider...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			msg := &types.MsgReactivateOracle{Provider: from}
			return runTx(cmd, msg, func(ctx context.Context, ms types.MsgServer) (*types.MsgReactivateOracleResponse, error) {
				return ms.ReactivateOracle(ctx, msg)
			})
		},
	}

	AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdAddStake returns the command that tops up the sender's stake
func CmdAddStake() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-stake [amount]",
		Short: "Add stake to the sender's oracle provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			amount, err := parseAmount("amount", args[0])
			if err != nil {
				return err
			}
			msg := &types.MsgAddStake{Provider: from, Amount: amount}
			return runTx(cmd, msg, func(ctx context.Context, ms types.MsgServer) (*types.MsgAddStakeResponse, error) {
				return ms.AddStake(ctx, msg)
			})
		},
	}

	AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdHeartbeat returns the command that proves the sender is alive
func CmdHeartbeat() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "heartbeat",
		Short: "Record a liveness heartbeat for the sender",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			msg := &types.MsgHeartbeat{Provider: from}
			return runTx(cmd, msg, func(ctx context.Context, ms types.MsgServer) (*types.MsgHeartbeatResponse, error) {
				return ms.Heartbeat(ctx, msg)
			})
		},
	}

	AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSlashOracle returns the command that penalizes a provider
func CmdSlashOracle() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slash-oracle [provider] [stake-penalty] [rep-penalty]",
		Short: "Slash a provider's stake and reputation (admin only)",
		Long: `Reduce a provider's stake and reputation. A provider whose reputation drops to zero
is deactivated.

Example:
  $ oracled tx slash-oracle oracle1provider... 1000000 100 --from oracle1admin...`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			stakePenalty, err := parseAmount("stake penalty", args[1])
			if err != nil {
				return err
			}
			repPenalty, err := parseUint32("reputation penalty", args[2])
			if err != nil {
				return err
			}
			msg := &types.MsgSlashOracle{
				Admin:        from,
				Provider:     args[0],
				StakePenalty: stakePenalty,
				RepPenalty:   repPenalty,
			}
			return runTx(cmd, msg, func(ctx context.Context, ms types.MsgServer) (*types.MsgSlashOracleResponse, error) {
				return ms.SlashOracle(ctx, msg)
			})
		},
	}

	AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdCreateFeed returns the command that adds a feed to the catalog
func CmdCreateFeed() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-feed [feed-id] [base-asset] [quote-asset] [decimals]",
		Short: "Create a price feed (admin only)",
		Long: `Add a feed to the catalog. Prices for the feed are integers scaled by 10^decimals.

Example:
  $ oracled tx create-feed BTC/USD BTC USD 8 --from oracle1admin...`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			decimals, err := parseUint32("decimals", args[3])
			if err != nil {
				return err
			}
			msg := &types.MsgCreateFeed{
				Admin:      from,
				FeedID:     args[0],
				BaseAsset:  args[1],
				QuoteAsset: args[2],
				Decimals:   decimals,
			}
			return runTx(cmd, msg, func(ctx context.Context, ms types.MsgServer) (*types.MsgCreateFeedResponse, error) {
				return ms.CreateFeed(ctx, msg)
			})
		},
	}

	AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdUpdateFeed returns the command that changes a feed's status and overrides
func CmdUpdateFeed() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-feed [feed-id]",
		Short: "Update a feed's status and overrides (admin only)",
		Long: `Activate or deactivate a feed and set its staleness and quorum overrides. An override
of 0 falls back to the network value. Settings without a flag keep their current value.

Example:
  $ oracled tx update-feed BTC/USD --min-oracles-override 2 --from oracle1admin...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			current, err := query(cmd, func(ctx context.Context, q types.QueryServer) (*types.QueryFeedResponse, error) {
				return q.Feed(ctx, &types.QueryFeedRequest{FeedID: args[0]})
			})
			if err != nil {
				return err
			}
			feed := current.Feed

			msg := &types.MsgUpdateFeed{
				Admin:                 from,
				FeedID:                args[0],
				IsActive:              feed.IsActive,
				StalenessOverrideSecs: feed.StalenessOverrideSecs,
				MinOraclesOverride:    feed.MinOraclesOverride,
			}

			flags := cmd.Flags()
			if flags.Changed(FlagActive) {
				msg.IsActive, _ = flags.GetBool(FlagActive)
			}
			if flags.Changed(FlagStalenessOverride) {
				msg.StalenessOverrideSecs, _ = flags.GetUint64(FlagStalenessOverride)
			}
			if flags.Changed(FlagMinOraclesOverride) {
				msg.MinOraclesOverride, _ = flags.GetUint32(FlagMinOraclesOverride)
			}

			return runTx(cmd, msg, func(ctx context.Context, ms types.MsgServer) (*types.MsgUpdateFeedResponse, error) {
				return ms.UpdateFeed(ctx, msg)
			})
		},
	}

	cmd.Flags().Bool(FlagActive, true, "Whether the feed accepts rounds")
	cmd.Flags().Uint64(FlagStalenessOverride, 0, "Feed staleness threshold in seconds (0 = network value)")
	cmd.Flags().Uint32(FlagMinOraclesOverride, 0, "Feed quorum (0 = network value)")
	AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdOpenRound returns the command that starts the next round of a feed
func CmdOpenRound() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open-round [feed-id]",
		Short: "Open the next price round of a feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			msg := &types.MsgOpenRound{Sender: from, FeedID: args[0]}
			return runTx(cmd, msg, func(ctx context.Context, ms types.MsgServer) (*types.MsgOpenRoundResponse, error) {
				return ms.OpenRound(ctx, msg)
			})
		},
	}

	AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSubmitPrice returns the command that records an observation for the open round
func CmdSubmitPrice() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit-price [feed-id] [price] [confidence-bps]",
		Short: "Submit a price for the open round of a feed",
		Long: `Submit a price observation. The price is an integer scaled by the feed decimals and
confidence is in basis points (values above 10000 are clamped).

Example:
  $ oracled tx submit-price BTC/USD 5000012000000 9500 --from oracle1provider...`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			price, err := parseAmount("price", args[1])
			if err != nil {
				return err
			}
			confidence, err := parseUint32("confidence", args[2])
			if err != nil {
				return err
			}
			msg := &types.MsgSubmitPrice{
				Provider:   from,
				FeedID:     args[0],
				Price:      price,
				Confidence: confidence,
			}
			return runTx(cmd, msg, func(ctx context.Context, ms types.MsgServer) (*types.MsgSubmitPriceResponse, error) {
				return ms.SubmitPrice(ctx, msg)
			})
		},
	}

	AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdResolveRound returns the command that aggregates the open round of a feed
func CmdResolveRound() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve-round [feed-id]",
		Short: "Resolve the open round of a feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			msg := &types.MsgResolveRound{Sender: from, FeedID: args[0]}
			return runTx(cmd, msg, func(ctx context.Context, ms types.MsgServer) (*types.MsgResolveRoundResponse, error) {
				return ms.ResolveRound(ctx, msg)
			})
		},
	}

	AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdEnforceHeartbeats returns the command that deactivates providers with lapsed heartbeats
func CmdEnforceHeartbeats() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enforce-heartbeats",
		Short: "Deactivate oracles whose heartbeat lapsed (admin only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := fromAddress(cmd)
			if err != nil {
				return err
			}
			msg := &types.MsgEnforceHeartbeats{Admin: from}
			return runTx(cmd, msg, func(ctx context.Context, ms types.MsgServer) (*types.MsgEnforceHeartbeatsResponse, error) {
				return ms.EnforceHeartbeats(ctx, msg)
			})
		},
	}

	AddTxFlagsToCmd(cmd)
	return cmd
}
