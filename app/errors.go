package app

import (
	errorsmod "cosmossdk.io/errors"
)

// Codespace is the error codespace of the application host
const Codespace = "oracleapp"

var (
	ErrChainInitialized    = errorsmod.Register(Codespace, 2, "chain already initialized")
	ErrChainNotInitialized = errorsmod.Register(Codespace, 3, "chain not initialized")
	ErrInvalidBlockTime    = errorsmod.Register(Codespace, 4, "invalid block time")
	ErrInvariantBroken     = errorsmod.Register(Codespace, 5, "state invariant broken")
	ErrInvalidGenesis      = errorsmod.Register(Codespace, 6, "invalid genesis")
)
