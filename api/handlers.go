package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	errorsmod "cosmossdk.io/errors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// httpStatus maps an engine error to the response status
func httpStatus(err error) int {
	switch {
	case errors.Is(err, types.ErrStalePrice):
		return http.StatusConflict
	case errors.Is(err, types.ErrNoResolvedPrice),
		errors.Is(err, types.ErrFeedNotFound),
		errors.Is(err, types.ErrOracleNotRegistered),
		errors.Is(err, types.ErrRoundNotOpen):
		return http.StatusNotFound
	case errors.Is(err, types.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrNotInitialized):
		return http.StatusServiceUnavailable
	}

	if st, ok := status.FromError(err); ok && st.Code() == codes.InvalidArgument {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(c *gin.Context, err error) {
	code := httpStatus(err)
	if code >= http.StatusInternalServerError && code != http.StatusServiceUnavailable {
		s.logger.Error("query failed", "path", c.Request.URL.Path, "err", err)
		c.AbortWithStatusJSON(code, ErrorResponse{Error: "internal server error", Code: "INTERNAL_ERROR"})
		return
	}

	resp := ErrorResponse{Error: err.Error(), Suggestion: types.GetRecoverySuggestion(err)}
	if codespace, abciCode, _ := errorsmod.ABCIInfo(err, false); codespace == types.ModuleName {
		resp.Code = fmt.Sprintf("%s:%d", codespace, abciCode)
	}
	c.AbortWithStatusJSON(code, resp)
}

func (s *Server) respond(c *gin.Context, v interface{}) {
	bz, err := types.ModuleCdc.MarshalJSON(v)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", bz)
}

// serveQuery evaluates call against committed state at the server clock
func serveQuery[R any](s *Server, c *gin.Context, call func(context.Context, types.QueryServer) (R, error)) {
	var res R
	err := s.state.Query(s.now(), func(ctx context.Context, q types.QueryServer) error {
		var err error
		res, err = call(ctx, q)
		return err
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, res)
}

func (s *Server) handleGetConfig(c *gin.Context) {
	serveQuery(s, c, func(ctx context.Context, q types.QueryServer) (*types.QueryConfigResponse, error) {
		return q.Config(ctx, &types.QueryConfigRequest{})
	})
}

func (s *Server) handleGetPaused(c *gin.Context) {
	serveQuery(s, c, func(ctx context.Context, q types.QueryServer) (*types.QueryPausedResponse, error) {
		return q.Paused(ctx, &types.QueryPausedRequest{})
	})
}

func (s *Server) handleGetNetworkStats(c *gin.Context) {
	serveQuery(s, c, func(ctx context.Context, q types.QueryServer) (*types.QueryNetworkStatsResponse, error) {
		return q.NetworkStats(ctx, &types.QueryNetworkStatsRequest{})
	})
}

func (s *Server) handleGetFeeds(c *gin.Context) {
	serveQuery(s, c, func(ctx context.Context, q types.QueryServer) (*types.QueryFeedsResponse, error) {
		return q.Feeds(ctx, &types.QueryFeedsRequest{})
	})
}

func (s *Server) handleGetFeed(c *gin.Context) {
	feedID := c.Param("id")
	serveQuery(s, c, func(ctx context.Context, q types.QueryServer) (*types.QueryFeedResponse, error) {
		return q.Feed(ctx, &types.QueryFeedRequest{FeedID: feedID})
	})
}

// handleGetPrice returns the resolved price only while it is fresh
func (s *Server) handleGetPrice(c *gin.Context) {
	feedID := c.Param("id")
	serveQuery(s, c, func(ctx context.Context, q types.QueryServer) (*types.QueryPriceResponse, error) {
		return q.Price(ctx, &types.QueryPriceRequest{FeedID: feedID})
	})
}

func (s *Server) handleGetLatestPrice(c *gin.Context) {
	feedID := c.Param("id")
	serveQuery(s, c, func(ctx context.Context, q types.QueryServer) (*types.QueryLatestPriceUncheckedResponse, error) {
		return q.LatestPriceUnchecked(ctx, &types.QueryLatestPriceUncheckedRequest{FeedID: feedID})
	})
}

func (s *Server) handleGetPriceHistory(c *gin.Context) {
	feedID := c.Param("id")
	serveQuery(s, c, func(ctx context.Context, q types.QueryServer) (*types.QueryPriceHistoryResponse, error) {
		return q.PriceHistory(ctx, &types.QueryPriceHistoryRequest{FeedID: feedID})
	})
}

func (s *Server) handleGetCurrentRound(c *gin.Context) {
	feedID := c.Param("id")
	serveQuery(s, c, func(ctx context.Context, q types.QueryServer) (*types.QueryCurrentRoundResponse, error) {
		return q.CurrentRound(ctx, &types.QueryCurrentRoundRequest{FeedID: feedID})
	})
}

func (s *Server) handleGetRoundSubmissions(c *gin.Context) {
	feedID := c.Param("id")
	roundID, err := cast.ToUint64E(c.Param("round"))
	if err != nil {
		s.fail(c, errorsmod.Wrapf(types.ErrInvalidInput, "round id %q: %s", c.Param("round"), err))
		return
	}
	serveQuery(s, c, func(ctx context.Context, q types.QueryServer) (*types.QueryRoundSubmissionsResponse, error) {
		return q.RoundSubmissions(ctx, &types.QueryRoundSubmissionsRequest{FeedID: feedID, RoundID: roundID})
	})
}

func (s *Server) handleGetOracles(c *gin.Context) {
	serveQuery(s, c, func(ctx context.Context, q types.QueryServer) (*types.QueryOraclesResponse, error) {
		return q.Oracles(ctx, &types.QueryOraclesRequest{})
	})
}

func (s *Server) handleGetOracle(c *gin.Context) {
	addr := c.Param("addr")
	serveQuery(s, c, func(ctx context.Context, q types.QueryServer) (*types.QueryOracleResponse, error) {
		return q.Oracle(ctx, &types.QueryOracleRequest{Address: addr})
	})
}

func (s *Server) handleGetOracleStats(c *gin.Context) {
	addr := c.Param("addr")
	serveQuery(s, c, func(ctx context.Context, q types.QueryServer) (*types.QueryOracleStatsResponse, error) {
		return q.OracleStats(ctx, &types.QueryOracleStatsRequest{Address: addr})
	})
}

func (s *Server) handleGetOracleHealth(c *gin.Context) {
	addr := c.Param("addr")
	serveQuery(s, c, func(ctx context.Context, q types.QueryServer) (*types.QueryOracleHealthResponse, error) {
		return q.OracleHealth(ctx, &types.QueryOracleHealthRequest{Address: addr})
	})
}
