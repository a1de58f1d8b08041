package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paw-chain/oraclenet/app"
	"github.com/paw-chain/oraclenet/app/telemetry"
	"github.com/paw-chain/oraclenet/x/oraclenet/client/cli"
)

const (
	flagHome      = "home"
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"
	flagDBBackend = "db-backend"

	// annotationState marks commands that run against the committed state
	annotationState = "oracled/state"
	// annotationTelemetry marks commands that export traces and meters
	annotationTelemetry = "oracled/telemetry"
)

var sdkConfigOnce sync.Once

// initSDKConfig initializes the SDK config with the oracle network address prefix
func initSDKConfig() {
	sdkConfigOnce.Do(func() {
		app.SetConfig()
	})
}

type nodeKey struct{}

// node carries the resources opened for a single command invocation
type node struct {
	config NodeConfig
	viper  *viper.Viper
	logger log.Logger

	mu        sync.Mutex
	app       *app.OracleApp
	telemetry *telemetry.Provider
}

func nodeFromCmd(cmd *cobra.Command) (*node, error) {
	n, ok := cmd.Context().Value(nodeKey{}).(*node)
	if !ok || n == nil {
		return nil, errors.New("node configuration not loaded")
	}
	return n, nil
}

// openApp opens the state database under the node home
func (n *node) openApp() (*app.OracleApp, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.app != nil {
		return n.app, nil
	}

	dataDir := filepath.Join(n.config.Home, dataDirName)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := dbm.NewDB(dbName, n.config.DBBackend, dataDir)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", n.config.DBBackend, err)
	}

	var opts []app.Option
	if n.config.InvariantChecks {
		opts = append(opts, app.WithInvariantChecks())
	}
	if n.telemetry != nil {
		metrics, err := telemetry.NewBlockMetrics(n.telemetry.Meter())
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		opts = append(opts, app.WithBlockMetrics(metrics))
	}

	oracleApp, err := app.NewOracleApp(n.logger, db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	n.app = oracleApp
	return oracleApp, nil
}

// Close releases the state database and flushes telemetry
func (n *node) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	var errs []error
	if n.app != nil {
		errs = append(errs, n.app.Close())
		n.app = nil
	}
	if n.telemetry != nil {
		errs = append(errs, n.telemetry.Shutdown(context.Background()))
		n.telemetry = nil
	}
	return errors.Join(errs...)
}

func hasAnnotation(cmd *cobra.Command, key string) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[key]; ok {
			return true
		}
	}
	return false
}

func newLogger(cfg NodeConfig) log.Logger {
	opts := []log.Option{log.LevelOption(cfg.LogLevel)}
	if cfg.LogJSON {
		opts = append(opts, log.OutputJSONOption())
	}
	return log.NewLogger(os.Stderr, opts...)
}

// NewRootCmd creates the oracled root command and the cleanup that releases what its
// subcommands opened. Cleanup must run even when the command fails.
func NewRootCmd() (*cobra.Command, func() error) {
	initSDKConfig()

	var current *node
	cleanup := func() error {
		if current == nil {
			return nil
		}
		return current.Close()
	}

	rootCmd := &cobra.Command{
		Use:   app.AppName,
		Short: "Oracle network price aggregation engine",
		Long: `oracled runs a decentralized oracle network: staked providers submit prices
for registered feeds in rounds, the engine aggregates them into a weighted median with
outlier rejection, and consumers read fresh resolved prices.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			home, err := cmd.Flags().GetString(flagHome)
			if err != nil {
				return err
			}
			v, err := newViper(home, cmd.Flags())
			if err != nil {
				return err
			}
			cfg, err := loadNodeConfig(v, home)
			if err != nil {
				return err
			}

			current = &node{config: cfg, viper: v, logger: newLogger(cfg)}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = context.WithValue(ctx, nodeKey{}, current)

			if cfg.Telemetry.Enabled && hasAnnotation(cmd, annotationTelemetry) {
				provider, err := telemetry.NewProvider(cfg.Telemetry)
				if err != nil {
					return fmt.Errorf("failed to initialize telemetry: %w", err)
				}
				current.telemetry = provider
			}

			if hasAnnotation(cmd, annotationState) {
				oracleApp, err := current.openApp()
				if err != nil {
					return err
				}
				ctx = cli.WithHost(ctx, oracleApp)
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	rootCmd.PersistentFlags().String(flagHome, app.DefaultNodeHome, "directory for config and data")
	rootCmd.PersistentFlags().String(flagLogLevel, "info", "log level (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().String(flagLogFormat, "plain", "log output format (plain|json)")
	rootCmd.PersistentFlags().String(flagDBBackend, string(dbm.GoLevelDBBackend), "state database backend (goleveldb|memdb)")

	txCmd := cli.GetTxCmd()
	txCmd.Annotations = map[string]string{annotationState: ""}
	queryCmd := cli.GetQueryCmd()
	queryCmd.Annotations = map[string]string{annotationState: ""}

	rootCmd.AddCommand(
		InitCmd(),
		ExportCmd(),
		ServeCmd(),
		txCmd,
		queryCmd,
	)

	return rootCmd, cleanup
}

// Execute runs the root command with args and releases everything it opened
func Execute(ctx context.Context, args []string) error {
	rootCmd, cleanup := NewRootCmd()
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	return errors.Join(err, cleanup())
}
