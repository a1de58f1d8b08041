package app

import (
	"time"

	errorsmod "cosmossdk.io/errors"
)

// ValidateBlockTime rejects zero block times and blocks that move time backwards
func ValidateBlockTime(blockTime, prevBlockTime time.Time) error {
	if blockTime.IsZero() {
		return errorsmod.Wrap(ErrInvalidBlockTime, "block time is required")
	}
	if blockTime.Unix() < 0 {
		return errorsmod.Wrapf(ErrInvalidBlockTime, "block time %s is before the unix epoch", blockTime)
	}

	if !prevBlockTime.IsZero() && blockTime.Before(prevBlockTime) {
		return errorsmod.Wrapf(ErrInvalidBlockTime,
			"block time %s is before previous block time %s",
			blockTime, prevBlockTime,
		)
	}

	return nil
}
