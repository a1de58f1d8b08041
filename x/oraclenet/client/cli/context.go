package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

// Host is the engine the commands run against
type Host interface {
	Deliver(blockTime time.Time, fn func(ctx context.Context, ms types.MsgServer) error) error
	Query(blockTime time.Time, fn func(ctx context.Context, q types.QueryServer) error) error
}

type hostKey struct{}

// WithHost returns ctx carrying host for the commands executed under it
func WithHost(ctx context.Context, host Host) context.Context {
	return context.WithValue(ctx, hostKey{}, host)
}

func hostFromCmd(cmd *cobra.Command) (Host, error) {
	host, ok := cmd.Context().Value(hostKey{}).(Host)
	if !ok || host == nil {
		return nil, errors.New("no oracle network state opened for this command")
	}
	return host, nil
}

// AddTxFlagsToCmd adds the signer and block time flags to a tx command
func AddTxFlagsToCmd(cmd *cobra.Command) {
	cmd.Flags().String(FlagFrom, "", "Address of the account performing the operation")
	cmd.Flags().Int64(FlagTime, 0, "Block time as unix seconds (default: now)")
	_ = cmd.MarkFlagRequired(FlagFrom)
}

// AddQueryFlagsToCmd adds the evaluation time flag to a query command
func AddQueryFlagsToCmd(cmd *cobra.Command) {
	cmd.Flags().Int64(FlagTime, 0, "Evaluate staleness and health at this unix time (default: now)")
}

func blockTime(cmd *cobra.Command) (time.Time, error) {
	unix, err := cmd.Flags().GetInt64(FlagTime)
	if err != nil {
		return time.Time{}, err
	}
	if unix == 0 {
		return time.Now().UTC(), nil
	}
	if unix < 0 {
		return time.Time{}, fmt.Errorf("--%s must be a positive unix timestamp", FlagTime)
	}
	return time.Unix(unix, 0).UTC(), nil
}

func fromAddress(cmd *cobra.Command) (string, error) {
	from, err := cmd.Flags().GetString(FlagFrom)
	if err != nil {
		return "", err
	}
	if from == "" {
		return "", fmt.Errorf("--%s is required", FlagFrom)
	}
	return from, nil
}

// runTx validates msg and delivers call as one block, printing the response
func runTx[R any](cmd *cobra.Command, msg types.Msg, call func(context.Context, types.MsgServer) (R, error)) error {
	if err := msg.ValidateBasic(); err != nil {
		return err
	}

	host, err := hostFromCmd(cmd)
	if err != nil {
		return err
	}
	at, err := blockTime(cmd)
	if err != nil {
		return err
	}

	var res R
	err = host.Deliver(at, func(ctx context.Context, ms types.MsgServer) error {
		var err error
		res, err = call(ctx, ms)
		return err
	})
	if err != nil {
		return err
	}
	return printOutput(cmd, res)
}

// runQuery evaluates call against committed state and prints the response
func runQuery[R any](cmd *cobra.Command, call func(context.Context, types.QueryServer) (R, error)) error {
	res, err := query(cmd, call)
	if err != nil {
		return err
	}
	return printOutput(cmd, res)
}

func query[R any](cmd *cobra.Command, call func(context.Context, types.QueryServer) (R, error)) (R, error) {
	var res R

	host, err := hostFromCmd(cmd)
	if err != nil {
		return res, err
	}
	at, err := blockTime(cmd)
	if err != nil {
		return res, err
	}

	err = host.Query(at, func(ctx context.Context, q types.QueryServer) error {
		var err error
		res, err = call(ctx, q)
		return err
	})
	return res, err
}

func printOutput(cmd *cobra.Command, v interface{}) error {
	bz, err := types.ModuleCdc.MarshalJSONIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return err
}

// FormatError renders err with the matching recovery suggestion
func FormatError(err error) string {
	return fmt.Sprintf("Error: %s\nSuggestion: %s", err, types.GetRecoverySuggestion(err))
}

func parseAmount(name, value string) (sdkmath.Int, error) {
	amount, ok := sdkmath.NewIntFromString(value)
	if !ok {
		return sdkmath.Int{}, fmt.Errorf("invalid %s %q: must be an integer", name, value)
	}
	return amount, nil
}

func parseUint32(name, value string) (uint32, error) {
	v, err := cast.ToUint32E(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	return v, nil
}
