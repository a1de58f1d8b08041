package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/paw-chain/oraclenet/api"
	"github.com/paw-chain/oraclenet/app"
	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

const (
	flagAPIAddress         = "api-address"
	flagEnforceHeartbeats  = "enforce-heartbeats-as"
	flagHeartbeatSweepTime = "enforce-heartbeats-every"
)

// ServeCmd serves the REST surface over the committed state until interrupted
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only REST API, health checks and metrics",
		Long: `Serve the oracle network REST API under /oraclenet/v1 together with /health and
/metrics until SIGINT or SIGTERM.

With --enforce-heartbeats-as the node also delivers enforce-heartbeats as the given admin
on every sweep interval, deactivating providers whose heartbeat lapsed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := nodeFromCmd(cmd)
			if err != nil {
				return err
			}
			oracleApp, err := n.openApp()
			if err != nil {
				return err
			}

			cfg := n.config.API
			if addr, _ := cmd.Flags().GetString(flagAPIAddress); addr != "" {
				cfg.Address = addr
			}
			server, err := api.NewServer(n.logger, oracleApp, cfg)
			if err != nil {
				return err
			}
			defer server.Close()
			if n.telemetry != nil {
				server.HealthChecker().SetTelemetry(n.telemetry)
			}

			sweepAs, _ := cmd.Flags().GetString(flagEnforceHeartbeats)
			sweepEvery, _ := cmd.Flags().GetDuration(flagHeartbeatSweepTime)
			if sweepAs != "" {
				if _, err := sdk.AccAddressFromBech32(sweepAs); err != nil {
					return types.ErrInvalidInput.Wrapf("invalid --%s address %s: %s", flagEnforceHeartbeats, sweepAs, err)
				}
				if sweepEvery <= 0 {
					return fmt.Errorf("--%s must be positive", flagHeartbeatSweepTime)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return server.Start(ctx)
			})
			if sweepAs != "" {
				g.Go(func() error {
					runHeartbeatSweeper(ctx, n.logger, oracleApp, sweepAs, sweepEvery)
					return nil
				})
			}
			return g.Wait()
		},
	}

	cmd.Flags().String(flagAPIAddress, "", "listen address, overriding api.address")
	cmd.Flags().String(flagEnforceHeartbeats, "", "admin address used to enforce heartbeats periodically")
	cmd.Flags().Duration(flagHeartbeatSweepTime, time.Minute, "interval between heartbeat sweeps")
	cmd.Annotations = map[string]string{annotationState: "", annotationTelemetry: ""}

	return cmd
}

// runHeartbeatSweeper delivers EnforceHeartbeats as admin on every tick until ctx is done
func runHeartbeatSweeper(ctx context.Context, logger log.Logger, oracleApp *app.OracleApp, admin string, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweepHeartbeats(logger, oracleApp, admin, time.Now().UTC())
		}
	}
}

func sweepHeartbeats(logger log.Logger, oracleApp *app.OracleApp, admin string, at time.Time) uint32 {
	var deactivated uint32
	err := oracleApp.Deliver(at, func(ctx context.Context, ms types.MsgServer) error {
		resp, err := ms.EnforceHeartbeats(ctx, &types.MsgEnforceHeartbeats{Admin: admin})
		if err != nil {
			return err
		}
		deactivated = resp.Deactivated
		return nil
	})
	if err != nil {
		logger.Error("heartbeat sweep failed", "err", err)
		return 0
	}
	if deactivated > 0 {
		logger.Info("heartbeat sweep deactivated providers", "count", deactivated)
	}
	return deactivated
}
