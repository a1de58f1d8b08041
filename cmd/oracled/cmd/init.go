package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/paw-chain/oraclenet/app"
	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

const (
	flagAdmin       = "admin"
	flagGenesis     = "genesis"
	flagGenesisTime = "genesis-time"
	flagOverwrite   = "overwrite"
)

type initOutput struct {
	Home        string    `json:"home"`
	GenesisFile string    `json:"genesis_file"`
	ConfigFile  string    `json:"config_file"`
	GenesisTime time.Time `json:"genesis_time"`
	Admin       string    `json:"admin,omitempty"`
	Height      int64     `json:"height"`
}

// InitCmd writes the node config and genesis file and commits genesis as block 1
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the node home: config, genesis file and state",
		Long: `Write <home>/config/oracled.toml and <home>/config/genesis.json, then commit the
genesis state as the first block.

Without --genesis a fresh network governed by --admin is created; its parameters come
from the genesis.* config keys (ORACLED_GENESIS_* environment variables). With --genesis
an existing genesis file, for example one produced by "oracled export", is imported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := nodeFromCmd(cmd)
			if err != nil {
				return err
			}
			home := n.config.Home
			genFile := genesisPath(home)

			overwrite, _ := cmd.Flags().GetBool(flagOverwrite)
			if !overwrite && fileExists(genFile) {
				return fmt.Errorf("genesis.json file already exists: %v", genFile)
			}

			doc, err := buildGenesisDoc(cmd, n)
			if err != nil {
				return err
			}
			gs, err := doc.OracleNetGenesis()
			if err != nil {
				return err
			}

			oracleApp, err := n.openApp()
			if err != nil {
				return err
			}
			if height := oracleApp.LastBlockHeight(); height > 0 {
				return errorsmod.Wrapf(app.ErrChainInitialized, "state under %s is at height %d; remove the data directory to re-initialize", home, height)
			}

			if err := writeDefaultConfig(n.viper, home); err != nil {
				return err
			}
			if err := app.WriteGenesisFile(genFile, doc); err != nil {
				return err
			}
			if err := oracleApp.InitChain(doc.GenesisTime, gs); err != nil {
				return err
			}

			out := initOutput{
				Home:        home,
				GenesisFile: genFile,
				ConfigFile:  configPath(home),
				GenesisTime: doc.GenesisTime,
				Height:      oracleApp.LastBlockHeight(),
			}
			if gs.Config != nil {
				out.Admin = gs.Config.Admin
			}
			bz, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return err
		},
	}

	cmd.Flags().String(flagAdmin, "", "address of the network admin for a fresh genesis")
	cmd.Flags().String(flagGenesis, "", "import an existing genesis file instead of creating one")
	cmd.Flags().Int64(flagGenesisTime, 0, "genesis time as unix seconds (default: now)")
	cmd.Flags().Bool(flagOverwrite, false, "overwrite the genesis.json file")
	cmd.MarkFlagsMutuallyExclusive(flagAdmin, flagGenesis)

	return cmd
}

func buildGenesisDoc(cmd *cobra.Command, n *node) (*app.GenesisDoc, error) {
	if path, _ := cmd.Flags().GetString(flagGenesis); path != "" {
		return app.ReadGenesisFile(path)
	}

	admin, _ := cmd.Flags().GetString(flagAdmin)
	if admin == "" {
		return nil, fmt.Errorf("--%s is required unless --%s is given", flagAdmin, flagGenesis)
	}
	if _, err := sdk.AccAddressFromBech32(admin); err != nil {
		return nil, errorsmod.Wrapf(types.ErrInvalidInput, "invalid admin address %s: %s", admin, err)
	}

	genesisTime := time.Now().UTC().Truncate(time.Second)
	if unix, _ := cmd.Flags().GetInt64(flagGenesisTime); unix != 0 {
		if unix < 0 {
			return nil, fmt.Errorf("--%s must be a positive unix timestamp", flagGenesisTime)
		}
		genesisTime = time.Unix(unix, 0).UTC()
	}

	cfg := types.DefaultNetworkConfig(admin)
	if err := applyGenesisOverrides(n.viper, &cfg); err != nil {
		return nil, err
	}
	gs := types.DefaultGenesis()
	gs.Config = &cfg
	return app.NewGenesisDoc(genesisTime, gs)
}
