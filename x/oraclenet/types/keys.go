package types

import (
	"encoding/binary"
)

const (
	// ModuleName defines the module name
	ModuleName = "oraclenet"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

const (
	// MaxHistoryLen is the number of resolved prices retained per feed
	MaxHistoryLen = 50

	// MaxFeeds caps the feed catalog
	MaxFeeds = 100

	// MaxRosterSize is the hard ceiling for max_oracles
	MaxRosterSize = 64

	// MaxFeedDecimals matches the precision of math.LegacyDec so resolved prices can be rendered
	MaxFeedDecimals = 18

	// MaxConfidenceBps is the upper clamp for self-reported confidence
	MaxConfidenceBps = 10_000

	// BpsDenominator is 100% in basis points
	BpsDenominator = 10_000
)

var (
	// ConfigKey stores the NetworkConfig singleton
	ConfigKey = []byte{0x01}

	// PausedKey stores the pause flag
	PausedKey = []byte{0x02}

	// ProviderKeyPrefix indexes OracleProvider by address
	ProviderKeyPrefix = []byte{0x10}

	// FeedKeyPrefix indexes PriceFeed by feed id
	FeedKeyPrefix = []byte{0x11}

	// RoundKeyPrefix indexes the current PriceRound by feed id
	RoundKeyPrefix = []byte{0x12}

	// SubmissionKeyPrefix indexes SubmissionSet by (feed id, round id)
	SubmissionKeyPrefix = []byte{0x13}

	// ResolvedPriceKeyPrefix indexes ResolvedPrice by feed id
	ResolvedPriceKeyPrefix = []byte{0x14}

	// HistoryKeyPrefix indexes PriceHistory by feed id
	HistoryKeyPrefix = []byte{0x15}
)

// ProviderKey returns the key suffix for a provider inside ProviderKeyPrefix
func ProviderKey(address string) []byte {
	return []byte(address)
}

// FeedKey returns the key suffix for a feed-scoped record
func FeedKey(feedID string) []byte {
	return []byte(feedID)
}

// SubmissionKey returns the key suffix for the submission set of a round.
// The 0x00 separator keeps "BTC" rounds from sharing a prefix with "BTC2" rounds.
func SubmissionKey(feedID string, roundID uint64) []byte {
	key := make([]byte, 0, len(feedID)+9)
	key = append(key, []byte(feedID)...)
	key = append(key, 0x00)
	roundBz := make([]byte, 8)
	binary.BigEndian.PutUint64(roundBz, roundID)
	return append(key, roundBz...)
}

// SubmissionFeedPrefix returns the key suffix shared by all submission sets of a feed
func SubmissionFeedPrefix(feedID string) []byte {
	return append([]byte(feedID), 0x00)
}

// ParseSubmissionKey splits a submission key suffix back into feed id and round id
func ParseSubmissionKey(key []byte) (string, uint64, bool) {
	if len(key) < 10 || key[len(key)-9] != 0x00 {
		return "", 0, false
	}
	feedID := string(key[:len(key)-9])
	return feedID, binary.BigEndian.Uint64(key[len(key)-8:]), true
}
