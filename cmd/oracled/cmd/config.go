package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	sdkmath "cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/paw-chain/oraclenet/api"
	"github.com/paw-chain/oraclenet/app/telemetry"
	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

const (
	// EnvPrefix prefixes every environment override, e.g. ORACLED_API_ADDRESS
	EnvPrefix = "ORACLED"

	configFileName  = "oracled.toml"
	genesisFileName = "genesis.json"
	dataDirName     = "data"
	dbName          = "oraclenet"
)

// config keys
const (
	keyLogLevel        = "log-level"
	keyLogFormat       = "log-format"
	keyDBBackend       = "db-backend"
	keyInvariantChecks = "invariant-checks"

	keyAPIAddress     = "api.address"
	keyAPICORSOrigins = "api.cors-origins"
	keyAPIRateLimit   = "api.rate-limit-enabled"
	keyAPIRPS         = "api.rate-limit-rps"
	keyAPIBurst       = "api.rate-limit-burst"
	keyAPIMetrics     = "api.metrics-enabled"
	keyAPIMaxBlockAge = "api.max-block-age"

	keyTelemetryEnabled     = "telemetry.enabled"
	keyTelemetryEndpoint    = "telemetry.otlp-endpoint"
	keyTelemetrySampleRate  = "telemetry.sample-rate"
	keyTelemetryEnvironment = "telemetry.environment"
	keyTelemetryPrometheus  = "telemetry.prometheus-enabled"

	keyGenesisMinOracles        = "genesis.min-oracles"
	keyGenesisMaxOracles        = "genesis.max-oracles"
	keyGenesisSubmissionWindow  = "genesis.submission-window"
	keyGenesisStaleness         = "genesis.staleness"
	keyGenesisOutlierBps        = "genesis.outlier-threshold-bps"
	keyGenesisMinStake          = "genesis.min-stake"
	keyGenesisHeartbeatInterval = "genesis.heartbeat-interval"
)

// NodeConfig is the operator configuration of an oracled home
type NodeConfig struct {
	Home            string
	LogLevel        zerolog.Level
	LogJSON         bool
	DBBackend       dbm.BackendType
	InvariantChecks bool

	API       api.Config
	Telemetry telemetry.Config
}

func configPath(home string) string {
	return filepath.Join(home, "config", configFileName)
}

func genesisPath(home string) string {
	return filepath.Join(home, "config", genesisFileName)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyLogLevel, zerolog.InfoLevel.String())
	v.SetDefault(keyLogFormat, "plain")
	v.SetDefault(keyDBBackend, string(dbm.GoLevelDBBackend))
	v.SetDefault(keyInvariantChecks, false)

	apiCfg := api.DefaultConfig()
	v.SetDefault(keyAPIAddress, apiCfg.Address)
	v.SetDefault(keyAPICORSOrigins, apiCfg.CORSOrigins)
	v.SetDefault(keyAPIRateLimit, apiCfg.RateLimit.Enabled)
	v.SetDefault(keyAPIRPS, apiCfg.RateLimit.RPS)
	v.SetDefault(keyAPIBurst, apiCfg.RateLimit.Burst)
	v.SetDefault(keyAPIMetrics, apiCfg.MetricsEnabled)
	v.SetDefault(keyAPIMaxBlockAge, apiCfg.Health.MaxBlockAge.String())

	telCfg := telemetry.DefaultConfig()
	v.SetDefault(keyTelemetryEnabled, telCfg.Enabled)
	v.SetDefault(keyTelemetryEndpoint, telCfg.OTLPEndpoint)
	v.SetDefault(keyTelemetrySampleRate, telCfg.SampleRate)
	v.SetDefault(keyTelemetryEnvironment, telCfg.Environment)
	v.SetDefault(keyTelemetryPrometheus, telCfg.PrometheusEnabled)

	netCfg := types.DefaultNetworkConfig("")
	v.SetDefault(keyGenesisMinOracles, netCfg.MinOracles)
	v.SetDefault(keyGenesisMaxOracles, netCfg.MaxOracles)
	v.SetDefault(keyGenesisSubmissionWindow, netCfg.SubmissionWindowSecs)
	v.SetDefault(keyGenesisStaleness, netCfg.StalenessSecs)
	v.SetDefault(keyGenesisOutlierBps, netCfg.OutlierThresholdBps)
	v.SetDefault(keyGenesisMinStake, netCfg.MinStake.String())
	v.SetDefault(keyGenesisHeartbeatInterval, netCfg.HeartbeatInterval)
}

// newViper layers flags over ORACLED_* env over <home>/config/oracled.toml over defaults
func newViper(home string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetConfigFile(configPath(home))
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	for _, name := range []string{flagLogLevel, flagLogFormat, flagDBBackend} {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(name, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", configPath(home), err)
		}
	}
	return v, nil
}

// writeDefaultConfig writes the resolved settings to <home>/config/oracled.toml unless it exists
func writeDefaultConfig(v *viper.Viper, home string) error {
	path := configPath(home)
	if fileExists(path) {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func loadNodeConfig(v *viper.Viper, home string) (NodeConfig, error) {
	cfg := NodeConfig{
		Home:      home,
		API:       api.DefaultConfig(),
		Telemetry: telemetry.DefaultConfig(),
	}

	level, err := zerolog.ParseLevel(cast.ToString(v.Get(keyLogLevel)))
	if err != nil {
		return cfg, fmt.Errorf("invalid %s: %w", keyLogLevel, err)
	}
	cfg.LogLevel = level

	switch format := cast.ToString(v.Get(keyLogFormat)); format {
	case "plain":
	case "json":
		cfg.LogJSON = true
	default:
		return cfg, fmt.Errorf("invalid %s %q: want plain or json", keyLogFormat, format)
	}

	switch backend := dbm.BackendType(cast.ToString(v.Get(keyDBBackend))); backend {
	case dbm.GoLevelDBBackend, dbm.MemDBBackend:
		cfg.DBBackend = backend
	default:
		return cfg, fmt.Errorf("unsupported %s %q: want %s or %s", keyDBBackend, backend, dbm.GoLevelDBBackend, dbm.MemDBBackend)
	}

	if cfg.InvariantChecks, err = cast.ToBoolE(v.Get(keyInvariantChecks)); err != nil {
		return cfg, fmt.Errorf("invalid %s: %w", keyInvariantChecks, err)
	}

	if err := loadAPIConfig(v, &cfg.API); err != nil {
		return cfg, err
	}
	if err := loadTelemetryConfig(v, &cfg.Telemetry); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadAPIConfig(v *viper.Viper, cfg *api.Config) error {
	var err error
	cfg.Address = cast.ToString(v.Get(keyAPIAddress))
	cfg.CORSOrigins = toStringList(v.Get(keyAPICORSOrigins))
	if cfg.RateLimit.Enabled, err = cast.ToBoolE(v.Get(keyAPIRateLimit)); err != nil {
		return fmt.Errorf("invalid %s: %w", keyAPIRateLimit, err)
	}
	if cfg.RateLimit.RPS, err = cast.ToIntE(v.Get(keyAPIRPS)); err != nil {
		return fmt.Errorf("invalid %s: %w", keyAPIRPS, err)
	}
	if cfg.RateLimit.Burst, err = cast.ToIntE(v.Get(keyAPIBurst)); err != nil {
		return fmt.Errorf("invalid %s: %w", keyAPIBurst, err)
	}
	if cfg.MetricsEnabled, err = cast.ToBoolE(v.Get(keyAPIMetrics)); err != nil {
		return fmt.Errorf("invalid %s: %w", keyAPIMetrics, err)
	}
	if cfg.Health.MaxBlockAge, err = cast.ToDurationE(v.Get(keyAPIMaxBlockAge)); err != nil {
		return fmt.Errorf("invalid %s: %w", keyAPIMaxBlockAge, err)
	}
	return cfg.Validate()
}

func loadTelemetryConfig(v *viper.Viper, cfg *telemetry.Config) error {
	var err error
	if cfg.Enabled, err = cast.ToBoolE(v.Get(keyTelemetryEnabled)); err != nil {
		return fmt.Errorf("invalid %s: %w", keyTelemetryEnabled, err)
	}
	if cfg.SampleRate, err = cast.ToFloat64E(v.Get(keyTelemetrySampleRate)); err != nil {
		return fmt.Errorf("invalid %s: %w", keyTelemetrySampleRate, err)
	}
	if cfg.PrometheusEnabled, err = cast.ToBoolE(v.Get(keyTelemetryPrometheus)); err != nil {
		return fmt.Errorf("invalid %s: %w", keyTelemetryPrometheus, err)
	}
	cfg.OTLPEndpoint = cast.ToString(v.Get(keyTelemetryEndpoint))
	cfg.Environment = cast.ToString(v.Get(keyTelemetryEnvironment))
	return nil
}

// applyGenesisOverrides copies the genesis.* settings onto cfg
func applyGenesisOverrides(v *viper.Viper, cfg *types.NetworkConfig) error {
	var err error
	if cfg.MinOracles, err = cast.ToUint32E(v.Get(keyGenesisMinOracles)); err != nil {
		return fmt.Errorf("invalid %s: %w", keyGenesisMinOracles, err)
	}
	if cfg.MaxOracles, err = cast.ToUint32E(v.Get(keyGenesisMaxOracles)); err != nil {
		return fmt.Errorf("invalid %s: %w", keyGenesisMaxOracles, err)
	}
	if cfg.SubmissionWindowSecs, err = cast.ToUint64E(v.Get(keyGenesisSubmissionWindow)); err != nil {
		return fmt.Errorf("invalid %s: %w", keyGenesisSubmissionWindow, err)
	}
	if cfg.StalenessSecs, err = cast.ToUint64E(v.Get(keyGenesisStaleness)); err != nil {
		return fmt.Errorf("invalid %s: %w", keyGenesisStaleness, err)
	}
	if cfg.OutlierThresholdBps, err = cast.ToUint32E(v.Get(keyGenesisOutlierBps)); err != nil {
		return fmt.Errorf("invalid %s: %w", keyGenesisOutlierBps, err)
	}
	if cfg.HeartbeatInterval, err = cast.ToUint64E(v.Get(keyGenesisHeartbeatInterval)); err != nil {
		return fmt.Errorf("invalid %s: %w", keyGenesisHeartbeatInterval, err)
	}

	raw := cast.ToString(v.Get(keyGenesisMinStake))
	stake, ok := sdkmath.NewIntFromString(raw)
	if !ok {
		return fmt.Errorf("invalid %s %q: must be an integer", keyGenesisMinStake, raw)
	}
	cfg.MinStake = stake

	return cfg.Validate()
}

// toStringList accepts a toml array or a comma separated env value
func toStringList(v interface{}) []string {
	if s, ok := v.(string); ok {
		var out []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return cast.ToStringSlice(v)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
