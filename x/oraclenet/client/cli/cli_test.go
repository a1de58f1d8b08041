package cli

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"strings"
	"testing"
	"time"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/oraclenet/app"
	keepertest "github.com/paw-chain/oraclenet/testutil/keeper"
	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

var admin = keepertest.Address(0xA0)

func newHost(t *testing.T) *app.OracleApp {
	t.Helper()
	host, err := app.NewOracleApp(log.NewNopLogger(), dbm.NewMemDB())
	require.NoError(t, err)
	require.NoError(t, host.InitChain(keepertest.GenesisTime, types.NewGenesisState(admin)))
	return host
}

func unixAt(offset int64) string {
	return strconv.FormatInt(keepertest.GenesisTime.Unix()+offset, 10)
}

func execute(t *testing.T, host Host, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := new(bytes.Buffer)
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	ctx := context.Background()
	if host != nil {
		ctx = WithHost(ctx, host)
	}
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func commandNames(cmd *cobra.Command) map[string]bool {
	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[strings.Fields(sub.Use)[0]] = true
	}
	return names
}

func TestFlagConstants(t *testing.T) {
	t.Parallel()

	require.Equal(t, "from", FlagFrom)
	require.Equal(t, "time", FlagTime)
	require.Equal(t, "min-oracles", FlagMinOracles)
	require.Equal(t, "staleness", FlagStaleness)
	require.Equal(t, "rep-penalty", FlagRepPenalty)
	require.Equal(t, "min-oracles-override", FlagMinOraclesOverride)
}

func TestGetTxCmdStructure(t *testing.T) {
	t.Parallel()

	txCmd := GetTxCmd()
	require.Equal(t, "tx", txCmd.Use)
	require.True(t, txCmd.DisableFlagParsing)

	names := commandNames(txCmd)
	for _, expected := range []string{
		"initialize", "set-paused", "update-config", "update-reputation-config",
		"register-oracle", "deactivate-oracle", "reactivate-oracle", "add-stake",
		"heartbeat", "slash-oracle", "create-feed", "update-feed", "open-round",
		"submit-price", "resolve-round", "enforce-heartbeats",
	} {
		require.True(t, names[expected], "expected tx command %q not found", expected)
	}

	for _, sub := range txCmd.Commands() {
		require.NotNil(t, sub.Flags().Lookup(FlagFrom), sub.Use)
		require.NotNil(t, sub.Flags().Lookup(FlagTime), sub.Use)
	}
}

func TestGetQueryCmdStructure(t *testing.T) {
	t.Parallel()

	queryCmd := GetQueryCmd()
	require.Equal(t, "query", queryCmd.Use)

	names := commandNames(queryCmd)
	for _, expected := range []string{
		"config", "paused", "oracle", "oracles", "oracle-stats", "oracle-health",
		"feed", "feeds", "price", "price-value", "price-unchecked", "price-history",
		"current-round", "round-submissions", "network-stats",
	} {
		require.True(t, names[expected], "expected query command %q not found", expected)
	}
}

func TestRoundLifecycleThroughCommands(t *testing.T) {
	host := newHost(t)

	providers := []string{keepertest.Address(1), keepertest.Address(2), keepertest.Address(3)}
	for _, p := range providers {
		_, err := execute(t, host, GetTxCmd(), "register-oracle", "10000000", "--from", p, "--time", unixAt(1))
		require.NoError(t, err)
	}

	_, err := execute(t, host, GetTxCmd(), "create-feed", "BTC/USD", "BTC", "USD", "8", "--from", admin, "--time", unixAt(2))
	require.NoError(t, err)

	out, err := execute(t, host, GetTxCmd(), "open-round", "BTC/USD", "--from", admin, "--time", unixAt(3))
	require.NoError(t, err)
	require.Contains(t, out, "round_id")

	for i, price := range []string{"5000000000000", "5001000000000", "5002000000000"} {
		_, err := execute(t, host, GetTxCmd(), "submit-price", "BTC/USD", price, "9000", "--from", providers[i], "--time", unixAt(4))
		require.NoError(t, err)
	}

	out, err = execute(t, host, GetTxCmd(), "resolve-round", "BTC/USD", "--from", admin, "--time", unixAt(10))
	require.NoError(t, err)
	require.Contains(t, out, "5001000000000")

	out, err = execute(t, host, GetQueryCmd(), "price-value", "BTC/USD", "--time", unixAt(20))
	require.NoError(t, err)
	require.Contains(t, out, "5001000000000")

	_, err = execute(t, host, GetQueryCmd(), "price", "BTC/USD", "--time", unixAt(10+3601))
	require.ErrorIs(t, err, types.ErrStalePrice)

	out, err = execute(t, host, GetQueryCmd(), "price-unchecked", "BTC/USD", "--time", unixAt(10+3601))
	require.NoError(t, err)
	require.Contains(t, out, "5001000000000")

	out, err = execute(t, host, GetQueryCmd(), "round-submissions", "BTC/USD", "1")
	require.NoError(t, err)
	for _, p := range providers {
		require.Contains(t, out, p)
	}
}

func TestUpdateConfigKeepsUnsetParameters(t *testing.T) {
	host := newHost(t)

	_, err := execute(t, host, GetTxCmd(), "update-config", "--staleness", "1800", "--from", admin, "--time", unixAt(1))
	require.NoError(t, err)
	_, err = execute(t, host, GetTxCmd(), "update-reputation-config", "--rep-penalty", "50", "--from", admin, "--time", unixAt(2))
	require.NoError(t, err)

	err = host.Query(time.Now(), func(ctx context.Context, q types.QueryServer) error {
		resp, err := q.Config(ctx, &types.QueryConfigRequest{})
		require.NoError(t, err)
		require.Equal(t, uint64(1800), resp.Config.StalenessSecs)
		require.Equal(t, types.DefaultMinOracles, resp.Config.MinOracles)
		require.Equal(t, types.DefaultMinStake, resp.Config.MinStake)
		require.Equal(t, uint32(50), resp.Config.RepPenalty)
		require.Equal(t, types.DefaultRepMax, resp.Config.RepMax)
		return nil
	})
	require.NoError(t, err)
}

func TestUpdateFeedKeepsUnsetSettings(t *testing.T) {
	host := newHost(t)

	_, err := execute(t, host, GetTxCmd(), "create-feed", "ETH/USD", "ETH", "USD", "8", "--from", admin, "--time", unixAt(1))
	require.NoError(t, err)
	_, err = execute(t, host, GetTxCmd(), "update-feed", "ETH/USD", "--min-oracles-override", "2", "--from", admin, "--time", unixAt(2))
	require.NoError(t, err)
	_, err = execute(t, host, GetTxCmd(), "update-feed", "ETH/USD", "--active=false", "--from", admin, "--time", unixAt(3))
	require.NoError(t, err)

	err = host.Query(time.Now(), func(ctx context.Context, q types.QueryServer) error {
		resp, err := q.Feed(ctx, &types.QueryFeedRequest{FeedID: "ETH/USD"})
		require.NoError(t, err)
		require.False(t, resp.Feed.IsActive)
		require.Equal(t, uint32(2), resp.Feed.MinOraclesOverride)
		return nil
	})
	require.NoError(t, err)
}

func TestCommandErrors(t *testing.T) {
	host := newHost(t)
	provider := keepertest.Address(1)

	tests := []struct {
		name   string
		cmd    *cobra.Command
		args   []string
		target error
	}{
		{
			name:   "stake below minimum",
			cmd:    GetTxCmd(),
			args:   []string{"register-oracle", "5", "--from", provider, "--time", unixAt(1)},
			target: types.ErrInsufficientStake,
		},
		{
			name:   "zero price rejected before delivery",
			cmd:    GetTxCmd(),
			args:   []string{"submit-price", "BTC/USD", "0", "9000", "--from", provider},
			target: types.ErrInvalidPrice,
		},
		{
			name:   "bad sender address",
			cmd:    GetTxCmd(),
			args:   []string{"heartbeat", "--from", "not-an-address"},
			target: types.ErrInvalidInput,
		},
		{
			name:   "non-admin pause",
			cmd:    GetTxCmd(),
			args:   []string{"set-paused", "true", "--from", provider, "--time", unixAt(1)},
			target: types.ErrUnauthorized,
		},
		{
			name:   "unknown feed",
			cmd:    GetQueryCmd(),
			args:   []string{"feed", "DOGE/USD"},
			target: types.ErrFeedNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, host, tc.cmd, tc.args...)
			require.ErrorIs(t, err, tc.target)
		})
	}

	height := host.LastBlockHeight()
	_, err := execute(t, host, GetTxCmd(), "register-oracle", "lots", "--from", provider)
	require.ErrorContains(t, err, "must be an integer")
	_, err = execute(t, host, GetTxCmd(), "set-paused", "maybe", "--from", admin)
	require.ErrorContains(t, err, "invalid paused flag")
	_, err = execute(t, host, GetTxCmd(), "heartbeat")
	require.Error(t, err)
	_, err = execute(t, host, GetTxCmd(), "heartbeat", "--from", provider, "--time", "-5")
	require.ErrorContains(t, err, "positive unix timestamp")
	require.Equal(t, height, host.LastBlockHeight())
}

func TestCommandWithoutHost(t *testing.T) {
	_, err := execute(t, nil, GetQueryCmd(), "config")
	require.ErrorContains(t, err, "no oracle network state")
}

func TestFormatError(t *testing.T) {
	msg := FormatError(types.ErrStalePrice.Wrap("BTC/USD"))
	require.Contains(t, msg, "Error: BTC/USD: stale price")
	require.Contains(t, msg, "Suggestion: "+types.RecoverySuggestions[types.ErrStalePrice])
}
