package types

import (
	"errors"

	errorsmod "cosmossdk.io/errors"
)

// oraclenet module sentinel errors. Codes follow the contract error enum; code 1 is
// reserved by the SDK so the general group starts at 2.
var (
	// General
	ErrUnauthorized       = errorsmod.Register(ModuleName, 2, "unauthorized")
	ErrPaused             = errorsmod.Register(ModuleName, 3, "oracle network is paused")
	ErrAlreadyInitialized = errorsmod.Register(ModuleName, 4, "oracle network already initialized")
	ErrNotInitialized     = errorsmod.Register(ModuleName, 5, "oracle network not initialized")
	ErrInvalidInput       = errorsmod.Register(ModuleName, 6, "invalid input")

	// Oracle provider
	ErrOracleAlreadyRegistered = errorsmod.Register(ModuleName, 10, "oracle already registered")
	ErrOracleNotRegistered     = errorsmod.Register(ModuleName, 11, "oracle not registered")
	ErrOracleInactive          = errorsmod.Register(ModuleName, 12, "oracle is inactive")
	ErrInsufficientStake       = errorsmod.Register(ModuleName, 13, "insufficient stake")
	ErrMaxOraclesReached       = errorsmod.Register(ModuleName, 15, "maximum number of oracles reached")

	// Price feeds
	ErrFeedAlreadyExists = errorsmod.Register(ModuleName, 20, "feed already exists")
	ErrFeedNotFound      = errorsmod.Register(ModuleName, 21, "feed not found")
	ErrFeedInactive      = errorsmod.Register(ModuleName, 22, "feed is inactive")
	ErrMaxFeedsReached   = errorsmod.Register(ModuleName, 23, "maximum number of feeds reached")

	// Submissions
	ErrDuplicateSubmission    = errorsmod.Register(ModuleName, 30, "duplicate submission")
	ErrSubmissionWindowClosed = errorsmod.Register(ModuleName, 31, "submission window closed")
	ErrInvalidPrice           = errorsmod.Register(ModuleName, 32, "invalid price")
	ErrRoundNotOpen           = errorsmod.Register(ModuleName, 33, "round not open")

	// Aggregation
	ErrInsufficientSubmissions = errorsmod.Register(ModuleName, 40, "insufficient submissions")
	ErrConsensusNotReached     = errorsmod.Register(ModuleName, 41, "consensus not reached")
	ErrStalePrice              = errorsmod.Register(ModuleName, 42, "stale price")
	ErrNoResolvedPrice         = errorsmod.Register(ModuleName, 44, "no resolved price")

	// Reputation
	ErrReputationTooLow = errorsmod.Register(ModuleName, 50, "reputation too low")

	// State
	ErrStateCorruption = errorsmod.Register(ModuleName, 60, "state corruption detected")
)

// RecoverySuggestions provides actionable recovery steps for each error type
var RecoverySuggestions = map[error]string{
	ErrUnauthorized:       "Only the network admin may perform this operation. Check the admin address with 'query config'.",
	ErrPaused:             "The network is paused by the admin. Wait for the admin to unpause before retrying.",
	ErrAlreadyInitialized: "The network was already initialized. Use update-config to change parameters.",
	ErrNotInitialized:     "Run 'tx initialize' (or 'oracled init') with the admin address first.",
	ErrInvalidInput:       "One of the arguments is out of range. Check amounts are positive and bps values are within 0-10000.",

	ErrOracleAlreadyRegistered: "This address is already on the roster. Use reactivate-oracle if it was deactivated.",
	ErrOracleNotRegistered:     "Register the provider with register-oracle before using it.",
	ErrOracleInactive:          "The provider is inactive. Reactivate it (requires reputation of at least half the initial score).",
	ErrInsufficientStake:       "Stake is below the network minimum. Query config for min_stake.",
	ErrMaxOraclesReached:       "The roster is full. Wait for the admin to raise max_oracles.",

	ErrFeedAlreadyExists: "A feed with this id exists. Use update-feed to change it.",
	ErrFeedNotFound:      "Unknown feed id. List feeds with 'query feeds'.",
	ErrFeedInactive:      "The feed is deactivated. The admin can reactivate it with update-feed.",
	ErrMaxFeedsReached:   "The feed catalog is full. Deactivated feeds still count towards the limit.",

	ErrDuplicateSubmission:    "Each provider may submit once per round. Wait for the next round.",
	ErrSubmissionWindowClosed: "The round's submission window elapsed. Resolve it, or open a new round and resubmit.",
	ErrInvalidPrice:           "Price must be a positive integer scaled by the feed decimals.",
	ErrRoundNotOpen:           "No open round for this feed. Open a round first, or wait for the current one to resolve or expire.",

	ErrInsufficientSubmissions: "Not enough submissions to resolve. Wait for more providers or lower the feed's min-oracles override.",
	ErrConsensusNotReached:     "Too many submissions were rejected as outliers. Open a new round once providers agree.",
	ErrStalePrice:              "The latest resolved price is older than the staleness threshold. Run a new round.",
	ErrNoResolvedPrice:         "No round has been resolved for this feed yet.",

	ErrReputationTooLow: "Reputation is below half the initial score; the provider cannot be reactivated.",

	ErrStateCorruption: "Stored oracle state failed to decode. Export genesis and inspect the offending record.",
}

// GetRecoverySuggestion returns the recovery suggestion for an error
func GetRecoverySuggestion(err error) string {
	for target, suggestion := range RecoverySuggestions {
		if errors.Is(err, target) {
			return suggestion
		}
	}

	return "No recovery suggestion available. Check the error message for details."
}
