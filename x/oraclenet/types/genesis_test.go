package types

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
)

func validGenesis() *GenesisState {
	gs := NewGenesisState(testAddr("admin"))
	gs.Providers = []OracleProvider{NewOracleProvider(testAddr("p1"), sdkmath.NewInt(10_000_000), 500, 10)}
	gs.Feeds = []PriceFeed{NewPriceFeed("BTC/USD", "BTC", "USD", 8, 10)}
	gs.Rounds = []PriceRound{{FeedID: "BTC/USD", RoundID: 2, OpenedAt: 20, ClosesAt: 320}}
	gs.Submissions = []RoundSubmissions{{
		FeedID:      "BTC/USD",
		RoundID:     2,
		Submissions: []PriceSubmission{{Oracle: testAddr("p1"), Price: sdkmath.NewInt(100), Timestamp: 25}},
	}}
	gs.Prices = []ResolvedPrice{{FeedID: "BTC/USD", RoundID: 1, Price: sdkmath.NewInt(99), Timestamp: 15, NumIncluded: 1}}
	gs.Histories = []FeedHistory{{FeedID: "BTC/USD", Entries: []PriceHistoryEntry{{RoundID: 1, Price: sdkmath.NewInt(99), Timestamp: 15, NumOracles: 1}}}}
	return gs
}

func TestGenesisValidate(t *testing.T) {
	require.NoError(t, DefaultGenesis().Validate())
	require.NoError(t, validGenesis().Validate())

	tests := []struct {
		name   string
		mutate func(*GenesisState)
	}{
		{"uninitialized with providers", func(gs *GenesisState) { gs.Config = nil }},
		{"invalid config", func(gs *GenesisState) { gs.Config.MinOracles = 0 }},
		{"duplicate provider", func(gs *GenesisState) { gs.Providers = append(gs.Providers, gs.Providers[0]) }},
		{"reputation above max", func(gs *GenesisState) { gs.Providers[0].Reputation = 1001 }},
		{"active with zero reputation", func(gs *GenesisState) { gs.Providers[0].Reputation = 0 }},
		{"duplicate feed", func(gs *GenesisState) { gs.Feeds = append(gs.Feeds, gs.Feeds[0]) }},
		{"round for unknown feed", func(gs *GenesisState) { gs.Rounds[0].FeedID = "ETH/USD" }},
		{"submissions beyond current round", func(gs *GenesisState) { gs.Submissions[0].RoundID = 3 }},
		{"duplicate submission", func(gs *GenesisState) {
			gs.Submissions[0].Submissions = append(gs.Submissions[0].Submissions, gs.Submissions[0].Submissions[0])
		}},
		{"price beyond current round", func(gs *GenesisState) { gs.Prices[0].RoundID = 5 }},
		{"history out of order", func(gs *GenesisState) {
			gs.Histories[0].Entries = append(gs.Histories[0].Entries, PriceHistoryEntry{RoundID: 1, Price: sdkmath.NewInt(1)})
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gs := validGenesis()
			tc.mutate(gs)
			require.Error(t, gs.Validate())
		})
	}
}

func TestGenesisAminoJSONRoundTrip(t *testing.T) {
	gs := validGenesis()

	bz, err := ModuleCdc.MarshalJSON(gs)
	require.NoError(t, err)

	var decoded GenesisState
	require.NoError(t, ModuleCdc.UnmarshalJSON(bz, &decoded))
	require.NoError(t, decoded.Validate())
	require.Equal(t, gs.Config.Admin, decoded.Config.Admin)
	require.True(t, decoded.Prices[0].Price.Equal(sdkmath.NewInt(99)))
	require.Len(t, decoded.Histories[0].Entries, 1)
}
