package cmd

import (
	"encoding/json"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"github.com/spf13/cobra"

	"github.com/paw-chain/oraclenet/app"
)

const flagOutput = "output"

// ExportCmd dumps the committed state as a genesis file
func ExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the committed state as a genesis file",
		Long: `Export the committed oracle network state, stamped with the last block time, in the
genesis format accepted by "oracled init --genesis".`,
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
			if oracleApp.LastBlockHeight() == 0 {
				return errorsmod.Wrapf(app.ErrChainNotInitialized, "nothing to export under %s", n.config.Home)
			}

			doc, err := oracleApp.ExportGenesisDoc()
			if err != nil {
				return err
			}

			if output, _ := cmd.Flags().GetString(flagOutput); output != "" {
				if err := app.WriteGenesisFile(output, doc); err != nil {
					return err
				}
				n.logger.Info("exported genesis", "file", output, "height", oracleApp.LastBlockHeight())
				return nil
			}

			bz, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return err
		},
	}

	cmd.Flags().String(flagOutput, "", "write the genesis to this file instead of stdout")
	cmd.Annotations = map[string]string{annotationState: ""}

	return cmd
}
