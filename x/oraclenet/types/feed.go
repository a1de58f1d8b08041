package types

import (
	"fmt"
	"regexp"

	errorsmod "cosmossdk.io/errors"
)

const (
	// MaxIdentifierLen bounds feed ids and asset labels
	MaxIdentifierLen = 32
)

var identifierRegexp = regexp.MustCompile(`^[A-Za-z0-9_/.\-]+$`)

// PriceFeed is a named asset-pair price stream
type PriceFeed struct {
	FeedID                string `json:"feed_id"`
	BaseAsset             string `json:"base_asset"`
	QuoteAsset            string `json:"quote_asset"`
	Decimals              uint32 `json:"decimals"`
	IsActive              bool   `json:"is_active"`
	StalenessOverrideSecs uint64 `json:"staleness_override_secs"`
	MinOraclesOverride    uint32 `json:"min_oracles_override"`
	CreatedAt             int64  `json:"created_at"`
}

// NewPriceFeed returns an active feed without overrides
func NewPriceFeed(feedID, base, quote string, decimals uint32, now int64) PriceFeed {
	return PriceFeed{
		FeedID:     feedID,
		BaseAsset:  base,
		QuoteAsset: quote,
		Decimals:   decimals,
		IsActive:   true,
		CreatedAt:  now,
	}
}

// Validate performs stateless checks on the feed definition
func (f PriceFeed) Validate() error {
	if err := ValidateFeedID(f.FeedID); err != nil {
		return err
	}
	if err := ValidateAsset(f.BaseAsset); err != nil {
		return errorsmod.Wrap(err, "base asset")
	}
	if err := ValidateAsset(f.QuoteAsset); err != nil {
		return errorsmod.Wrap(err, "quote asset")
	}
	if f.Decimals > MaxFeedDecimals {
		return errorsmod.Wrapf(ErrInvalidInput, "decimals %d exceeds %d", f.Decimals, MaxFeedDecimals)
	}
	if f.StalenessOverrideSecs > MaxDurationSecs {
		return errorsmod.Wrapf(ErrInvalidInput, "staleness override exceeds %d seconds", MaxDurationSecs)
	}
	if f.MinOraclesOverride > MaxRosterSize {
		return errorsmod.Wrapf(ErrInvalidInput, "min oracles override exceeds roster cap %d", MaxRosterSize)
	}
	return nil
}

// EffectiveStaleness returns the feed override, or the network default when unset
func (f PriceFeed) EffectiveStaleness(cfg NetworkConfig) uint64 {
	if f.StalenessOverrideSecs > 0 {
		return f.StalenessOverrideSecs
	}
	return cfg.StalenessSecs
}

// EffectiveMinOracles returns the feed override, or the network default when unset
func (f PriceFeed) EffectiveMinOracles(cfg NetworkConfig) uint32 {
	if f.MinOraclesOverride > 0 {
		return f.MinOraclesOverride
	}
	return cfg.MinOracles
}

// Pair renders the asset pair as BASE/QUOTE
func (f PriceFeed) Pair() string {
	return fmt.Sprintf("%s/%s", f.BaseAsset, f.QuoteAsset)
}

// ValidateFeedID checks a feed identifier
func ValidateFeedID(feedID string) error {
	if err := validateIdentifier(feedID); err != nil {
		return errorsmod.Wrapf(ErrInvalidInput, "feed id %q: %s", feedID, err)
	}
	return nil
}

// ValidateAsset checks an asset label
func ValidateAsset(asset string) error {
	if err := validateIdentifier(asset); err != nil {
		return errorsmod.Wrapf(ErrInvalidInput, "asset %q: %s", asset, err)
	}
	return nil
}

func validateIdentifier(id string) error {
	if len(id) == 0 {
		return fmt.Errorf("cannot be empty")
	}
	if len(id) > MaxIdentifierLen {
		return fmt.Errorf("longer than %d characters", MaxIdentifierLen)
	}
	if !identifierRegexp.MatchString(id) {
		return fmt.Errorf("may only contain letters, digits and _/.-")
	}
	return nil
}
