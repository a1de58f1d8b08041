package types

import (
	"context"

	sdkmath "cosmossdk.io/math"
)

// QueryServer is the read-only surface of the oracle network. Every method is safe to
// call mid-round and never mutates state.
type QueryServer interface {
	Config(context.Context, *QueryConfigRequest) (*QueryConfigResponse, error)
	Paused(context.Context, *QueryPausedRequest) (*QueryPausedResponse, error)
	Oracle(context.Context, *QueryOracleRequest) (*QueryOracleResponse, error)
	Oracles(context.Context, *QueryOraclesRequest) (*QueryOraclesResponse, error)
	OracleStats(context.Context, *QueryOracleStatsRequest) (*QueryOracleStatsResponse, error)
	OracleHealth(context.Context, *QueryOracleHealthRequest) (*QueryOracleHealthResponse, error)
	Feed(context.Context, *QueryFeedRequest) (*QueryFeedResponse, error)
	Feeds(context.Context, *QueryFeedsRequest) (*QueryFeedsResponse, error)
	Price(context.Context, *QueryPriceRequest) (*QueryPriceResponse, error)
	PriceValue(context.Context, *QueryPriceValueRequest) (*QueryPriceValueResponse, error)
	LatestPriceUnchecked(context.Context, *QueryLatestPriceUncheckedRequest) (*QueryLatestPriceUncheckedResponse, error)
	PriceHistory(context.Context, *QueryPriceHistoryRequest) (*QueryPriceHistoryResponse, error)
	CurrentRound(context.Context, *QueryCurrentRoundRequest) (*QueryCurrentRoundResponse, error)
	RoundSubmissions(context.Context, *QueryRoundSubmissionsRequest) (*QueryRoundSubmissionsResponse, error)
	NetworkStats(context.Context, *QueryNetworkStatsRequest) (*QueryNetworkStatsResponse, error)
}

type QueryConfigRequest struct{}

type QueryConfigResponse struct {
	Config NetworkConfig `json:"config"`
}

type QueryPausedRequest struct{}

type QueryPausedResponse struct {
	Paused bool `json:"paused"`
}

type QueryOracleRequest struct {
	Address string `json:"address"`
}

type QueryOracleResponse struct {
	Oracle OracleProvider `json:"oracle"`
}

type QueryOraclesRequest struct{}

type QueryOraclesResponse struct {
	Oracles []OracleProvider `json:"oracles"`
}

type QueryOracleStatsRequest struct {
	Address string `json:"address"`
}

type QueryOracleStatsResponse struct {
	Stats OracleStats `json:"stats"`
}

type QueryOracleHealthRequest struct {
	Address string `json:"address"`
}

type QueryOracleHealthResponse struct {
	Health OracleHealth `json:"health"`
}

type QueryFeedRequest struct {
	FeedID string `json:"feed_id"`
}

type QueryFeedResponse struct {
	Feed PriceFeed `json:"feed"`
}

type QueryFeedsRequest struct{}

type QueryFeedsResponse struct {
	Feeds []PriceFeed `json:"feeds"`
}

type QueryPriceRequest struct {
	FeedID string `json:"feed_id"`
}

type QueryPriceResponse struct {
	Price ResolvedPrice `json:"price"`
}

type QueryPriceValueRequest struct {
	FeedID string `json:"feed_id"`
}

type QueryPriceValueResponse struct {
	Price sdkmath.Int `json:"price"`
}

type QueryLatestPriceUncheckedRequest struct {
	FeedID string `json:"feed_id"`
}

type QueryLatestPriceUncheckedResponse struct {
	Price ResolvedPrice `json:"price"`
}

type QueryPriceHistoryRequest struct {
	FeedID string `json:"feed_id"`
}

type QueryPriceHistoryResponse struct {
	Entries []PriceHistoryEntry `json:"entries"`
}

type QueryCurrentRoundRequest struct {
	FeedID string `json:"feed_id"`
}

type QueryCurrentRoundResponse struct {
	Round PriceRound `json:"round"`
}

type QueryRoundSubmissionsRequest struct {
	FeedID  string `json:"feed_id"`
	RoundID uint64 `json:"round_id"`
}

type QueryRoundSubmissionsResponse struct {
	Submissions []PriceSubmission `json:"submissions"`
}

type QueryNetworkStatsRequest struct{}

type QueryNetworkStatsResponse struct {
	Stats NetworkStats `json:"stats"`
}
