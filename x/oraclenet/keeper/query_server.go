package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

type queryServer struct {
	Keeper
}

// NewQueryServerImpl returns an implementation of the QueryServer interface
func NewQueryServerImpl(keeper Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

var _ types.QueryServer = queryServer{}

func emptyRequest() error {
	return status.Error(codes.InvalidArgument, "empty request")
}

func requireField(name, value string) error {
	if value == "" {
		return status.Errorf(codes.InvalidArgument, "%s cannot be empty", name)
	}
	return nil
}

// Config returns the network configuration
func (qs queryServer) Config(goCtx context.Context, req *types.QueryConfigRequest) (*types.QueryConfigResponse, error) {
	if req == nil {
		return nil, emptyRequest()
	}
	cfg, err := qs.GetConfig(sdk.UnwrapSDKContext(goCtx))
	if err != nil {
		return nil, err
	}
	return &types.QueryConfigResponse{Config: cfg}, nil
}

func (qs queryServer) Paused(goCtx context.Context, req *types.QueryPausedRequest) (*types.QueryPausedResponse, error) {
	if req == nil {
		return nil, emptyRequest()
	}
	return &types.QueryPausedResponse{Paused: qs.IsPaused(sdk.UnwrapSDKContext(goCtx))}, nil
}

// Oracle returns a single provider record
func (qs queryServer) Oracle(goCtx context.Context, req *types.QueryOracleRequest) (*types.QueryOracleResponse, error) {
	if req == nil {
		return nil, emptyRequest()
	}
	if err := requireField("address", req.Address); err != nil {
		return nil, err
	}
	p, err := qs.GetOracle(sdk.UnwrapSDKContext(goCtx), req.Address)
	if err != nil {
		return nil, err
	}
	return &types.QueryOracleResponse{Oracle: p}, nil
}

// Oracles returns the whole roster ordered by address
func (qs queryServer) Oracles(goCtx context.Context, req *types.QueryOraclesRequest) (*types.QueryOraclesResponse, error) {
	if req == nil {
		return nil, emptyRequest()
	}
	oracles, err := qs.ListOracles(sdk.UnwrapSDKContext(goCtx))
	if err != nil {
		return nil, err
	}
	return &types.QueryOraclesResponse{Oracles: oracles}, nil
}

func (qs queryServer) OracleStats(goCtx context.Context, req *types.QueryOracleStatsRequest) (*types.QueryOracleStatsResponse, error) {
	if req == nil {
		return nil, emptyRequest()
	}
	if err := requireField("address", req.Address); err != nil {
		return nil, err
	}
	stats, err := qs.GetOracleStats(sdk.UnwrapSDKContext(goCtx), req.Address)
	if err != nil {
		return nil, err
	}
	return &types.QueryOracleStatsResponse{Stats: stats}, nil
}

func (qs queryServer) OracleHealth(goCtx context.Context, req *types.QueryOracleHealthRequest) (*types.QueryOracleHealthResponse, error) {
	if req == nil {
		return nil, emptyRequest()
	}
	if err := requireField("address", req.Address); err != nil {
		return nil, err
	}
	health, err := qs.GetOracleHealth(sdk.UnwrapSDKContext(goCtx), req.Address)
	if err != nil {
		return nil, err
	}
	return &types.QueryOracleHealthResponse{Health: health}, nil
}

func (qs queryServer) Feed(goCtx context.Context, req *types.QueryFeedRequest) (*types.QueryFeedResponse, error) {
	if req == nil {
		return nil, emptyRequest()
	}
	if err := requireField("feed_id", req.FeedID); err != nil {
		return nil, err
	}
	feed, err := qs.GetFeed(sdk.UnwrapSDKContext(goCtx), req.FeedID)
	if err != nil {
		return nil, err
	}
	return &types.QueryFeedResponse{Feed: feed}, nil
}

func (qs queryServer) Feeds(goCtx context.Context, req *types.QueryFeedsRequest) (*types.QueryFeedsResponse, error) {
	if req == nil {
		return nil, emptyRequest()
	}
	feeds, err := qs.ListFeeds(sdk.UnwrapSDKContext(goCtx))
	if err != nil {
		return nil, err
	}
	return &types.QueryFeedsResponse{Feeds: feeds}, nil
}

// Price returns the latest resolved price, failing with ErrStalePrice once it ages out
func (qs queryServer) Price(goCtx context.Context, req *types.QueryPriceRequest) (*types.QueryPriceResponse, error) {
	if req == nil {
		return nil, emptyRequest()
	}
	if err := requireField("feed_id", req.FeedID); err != nil {
		return nil, err
	}
	price, err := qs.GetPrice(sdk.UnwrapSDKContext(goCtx), req.FeedID)
	if err != nil {
		return nil, err
	}
	return &types.QueryPriceResponse{Price: price}, nil
}

func (qs queryServer) PriceValue(goCtx context.Context, req *types.QueryPriceValueRequest) (*types.QueryPriceValueResponse, error) {
	if req == nil {
		return nil, emptyRequest()
	}
	if err := requireField("feed_id", req.FeedID); err != nil {
		return nil, err
	}
	price, err := qs.GetPriceValue(sdk.UnwrapSDKContext(goCtx), req.FeedID)
	if err != nil {
		return nil, err
	}
	return &types.QueryPriceValueResponse{Price: price}, nil
}

// LatestPriceUnchecked returns the latest resolved price regardless of its age
func (qs queryServer) LatestPriceUnchecked(goCtx context.Context, req *types.QueryLatestPriceUncheckedRequest) (*types.QueryLatestPriceUncheckedResponse, error) {
	if req == nil {
		return nil, emptyRequest()
	}
	if err := requireField("feed_id", req.FeedID); err != nil {
		return nil, err
	}
	price, err := qs.GetLatestPriceUnchecked(sdk.UnwrapSDKContext(goCtx), req.FeedID)
	if err != nil {
		return nil, err
	}
	return &types.QueryLatestPriceUncheckedResponse{Price: price}, nil
}

func (qs queryServer) PriceHistory(goCtx context.Context, req *types.QueryPriceHistoryRequest) (*types.QueryPriceHistoryResponse, error) {
	if req == nil {
		return nil, emptyRequest()
	}
	if err := requireField("feed_id", req.FeedID); err != nil {
		return nil, err
	}
	entries, err := qs.GetPriceHistory(sdk.UnwrapSDKContext(goCtx), req.FeedID)
	if err != nil {
		return nil, err
	}
	return &types.QueryPriceHistoryResponse{Entries: entries}, nil
}

func (qs queryServer) CurrentRound(goCtx context.Context, req *types.QueryCurrentRoundRequest) (*types.QueryCurrentRoundResponse, error) {
	if req == nil {
		return nil, emptyRequest()
	}
	if err := requireField("feed_id", req.FeedID); err != nil {
		return nil, err
	}
	round, err := qs.GetCurrentRound(sdk.UnwrapSDKContext(goCtx), req.FeedID)
	if err != nil {
		return nil, err
	}
	return &types.QueryCurrentRoundResponse{Round: round}, nil
}

func (qs queryServer) RoundSubmissions(goCtx context.Context, req *types.QueryRoundSubmissionsRequest) (*types.QueryRoundSubmissionsResponse, error) {
	if req == nil {
		return nil, emptyRequest()
	}
	if err := requireField("feed_id", req.FeedID); err != nil {
		return nil, err
	}
	subs, err := qs.GetRoundSubmissions(sdk.UnwrapSDKContext(goCtx), req.FeedID, req.RoundID)
	if err != nil {
		return nil, err
	}
	return &types.QueryRoundSubmissionsResponse{Submissions: subs}, nil
}

// NetworkStats summarizes the roster and feed catalog
func (qs queryServer) NetworkStats(goCtx context.Context, req *types.QueryNetworkStatsRequest) (*types.QueryNetworkStatsResponse, error) {
	if req == nil {
		return nil, emptyRequest()
	}
	stats, err := qs.GetNetworkStats(sdk.UnwrapSDKContext(goCtx))
	if err != nil {
		return nil, err
	}
	return &types.QueryNetworkStatsResponse{Stats: stats}, nil
}
