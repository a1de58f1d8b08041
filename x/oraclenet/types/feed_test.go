package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateFeedID(t *testing.T) {
	valid := []string{"BTC/USD", "eth-usd", "SOL_USDC", "a", "wstETH.e/USD", strings.Repeat("X", MaxIdentifierLen)}
	for _, id := range valid {
		require.NoError(t, ValidateFeedID(id), id)
	}

	invalid := []string{"", "BTC USD", "BTC:USD", strings.Repeat("X", MaxIdentifierLen+1), "btc\x00", "ÅBC"}
	for _, id := range invalid {
		require.ErrorIs(t, ValidateFeedID(id), ErrInvalidInput, id)
	}
}

func TestPriceFeedValidate(t *testing.T) {
	feed := NewPriceFeed("BTC/USD", "BTC", "USD", 8, 100)
	require.True(t, feed.IsActive)
	require.Equal(t, int64(100), feed.CreatedAt)
	require.Equal(t, "BTC/USD", feed.Pair())
	require.NoError(t, feed.Validate())

	feed.Decimals = MaxFeedDecimals
	require.NoError(t, feed.Validate())

	feed.Decimals = MaxFeedDecimals + 1
	require.ErrorIs(t, feed.Validate(), ErrInvalidInput)

	feed = NewPriceFeed("BTC/USD", "", "USD", 8, 0)
	require.ErrorIs(t, feed.Validate(), ErrInvalidInput)
}

func TestRoundLifecycleHelpers(t *testing.T) {
	round := PriceRound{FeedID: "BTC/USD", RoundID: 3, OpenedAt: 100, ClosesAt: 400}

	require.True(t, round.AcceptsSubmissions(100))
	require.True(t, round.AcceptsSubmissions(400))
	require.False(t, round.AcceptsSubmissions(401))

	require.False(t, round.CanBeReplaced(399))
	require.True(t, round.CanBeReplaced(400))
	require.Equal(t, uint64(2), round.ResolvedRounds())

	round.Resolved = true
	require.False(t, round.AcceptsSubmissions(100))
	require.True(t, round.CanBeReplaced(100))
	require.Equal(t, uint64(3), round.ResolvedRounds())
}

func TestSubmissionSetHas(t *testing.T) {
	set := SubmissionSet{Submissions: []PriceSubmission{{Oracle: "a"}, {Oracle: "b"}}}
	require.True(t, set.Has("a"))
	require.False(t, set.Has("c"))
	require.Equal(t, 2, set.Len())
}
