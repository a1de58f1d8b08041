package api

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	v1 := s.router.Group("/oraclenet/v1")
	{
		v1.GET("/config", s.handleGetConfig)
		v1.GET("/paused", s.handleGetPaused)
		v1.GET("/stats", s.handleGetNetworkStats)

		feeds := v1.Group("/feeds")
		{
			feeds.GET("", s.handleGetFeeds)
			feeds.GET("/:id", s.handleGetFeed)
			feeds.GET("/:id/price", s.handleGetPrice)
			feeds.GET("/:id/price/latest", s.handleGetLatestPrice)
			feeds.GET("/:id/history", s.handleGetPriceHistory)
			feeds.GET("/:id/round", s.handleGetCurrentRound)
			feeds.GET("/:id/rounds/:round/submissions", s.handleGetRoundSubmissions)
		}

		oracles := v1.Group("/oracles")
		{
			oracles.GET("", s.handleGetOracles)
			oracles.GET("/:addr", s.handleGetOracle)
			oracles.GET("/:addr/stats", s.handleGetOracleStats)
			oracles.GET("/:addr/health", s.handleGetOracleHealth)
		}
	}
}
