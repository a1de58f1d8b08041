package keeper_test

import (
	sdkmath "cosmossdk.io/math"

	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

// equal reputations resolve to the plain median and reward every provider
func (suite *KeeperTestSuite) TestResolveEqualReputation() {
	providers := suite.registerProviders(3)
	resolved := suite.runRound(providers, []int64{100_000_000, 100_500_000, 101_000_000})

	suite.Require().Equal(uint64(1), resolved.RoundID)
	suite.Require().True(resolved.Price.Equal(sdkmath.NewInt(100_500_000)))
	suite.Require().Equal(uint32(3), resolved.NumIncluded)
	suite.Require().Zero(resolved.NumRejected)
	suite.Require().Equal(uint32(99), resolved.SpreadBps)
	suite.Require().Equal(uint32(9_000), resolved.Confidence)
	suite.Require().Equal(suite.ctx.BlockTime().Unix(), resolved.Timestamp)

	for _, p := range providers {
		oracle := suite.oracle(p)
		suite.Require().Equal(uint64(1), oracle.AcceptedSubmissions)
		suite.Require().Equal(types.DefaultRepInitial+types.DefaultRepReward, oracle.Reputation)
	}

	round, err := suite.keeper.GetCurrentRound(suite.ctx, testFeed)
	suite.Require().NoError(err)
	suite.Require().True(round.Resolved)

	latest, err := suite.keeper.GetPrice(suite.ctx, testFeed)
	suite.Require().NoError(err)
	suite.Require().Equal(resolved, latest)
	suite.Require().True(hasEvent(suite.ctx.EventManager().Events(), types.EventTypeRoundResolved))
}

// a submission far from the median is excluded and its provider penalized
func (suite *KeeperTestSuite) TestResolveRejectsOutlier() {
	providers := suite.registerProviders(4)
	resolved := suite.runRound(providers, []int64{100_000_000, 100_100_000, 100_200_000, 200_000_000})

	suite.Require().Equal(uint32(3), resolved.NumIncluded)
	suite.Require().Equal(uint32(1), resolved.NumRejected)
	suite.Require().True(resolved.Price.Equal(sdkmath.NewInt(100_100_000)))

	outlier := suite.oracle(providers[3])
	suite.Require().Equal(uint64(1), outlier.RejectedSubmissions)
	suite.Require().Zero(outlier.AcceptedSubmissions)
	suite.Require().Equal(types.DefaultRepInitial-types.DefaultRepPenalty, outlier.Reputation)
	suite.Require().True(outlier.IsActive)

	for _, p := range providers[:3] {
		suite.Require().Equal(types.DefaultRepInitial+types.DefaultRepReward, suite.oracle(p).Reputation)
	}
	suite.Require().True(hasEvent(suite.ctx.EventManager().Events(), types.EventTypeOutlierRejected))
}

// active providers without a submission are charged the miss penalty
func (suite *KeeperTestSuite) TestResolvePenalizesMissedRound() {
	providers := suite.registerProviders(5)
	suite.Require().NoError(suite.keeper.DeactivateOracle(suite.ctx, admin, providers[4]))

	suite.runRound(providers[:3], []int64{100, 100, 100})

	missed := suite.oracle(providers[3])
	suite.Require().Equal(uint64(1), missed.MissedRounds)
	suite.Require().Equal(types.DefaultRepInitial-types.DefaultRepMissPenalty, missed.Reputation)
	suite.Require().True(hasEvent(suite.ctx.EventManager().Events(), types.EventTypeRoundMissed))

	// inactive providers are not charged
	inactive := suite.oracle(providers[4])
	suite.Require().Zero(inactive.MissedRounds)
	suite.Require().Equal(types.DefaultRepInitial, inactive.Reputation)
}

func (suite *KeeperTestSuite) TestResolveUsesReputationWeights() {
	providers := suite.registerProviders(3)
	suite.Require().NoError(suite.keeper.SlashOracle(suite.ctx, admin, providers[0], sdkmath.ZeroInt(), 400))
	suite.Require().NoError(suite.keeper.SlashOracle(suite.ctx, admin, providers[1], sdkmath.ZeroInt(), 400))

	// weights 100, 100, 500
	resolved := suite.runRound(providers, []int64{100, 101, 102})
	suite.Require().True(resolved.Price.Equal(sdkmath.NewInt(102)))
}

func (suite *KeeperTestSuite) TestResolveTwice() {
	providers := suite.registerProviders(3)
	suite.runRound(providers, []int64{100, 100, 100})

	oraclesBefore, err := suite.keeper.ListOracles(suite.ctx)
	suite.Require().NoError(err)
	priceBefore, err := suite.keeper.GetLatestPriceUnchecked(suite.ctx, testFeed)
	suite.Require().NoError(err)
	roundBefore, err := suite.keeper.GetCurrentRound(suite.ctx, testFeed)
	suite.Require().NoError(err)
	historyBefore, err := suite.keeper.GetPriceHistory(suite.ctx, testFeed)
	suite.Require().NoError(err)

	_, err = suite.keeper.ResolveRound(suite.ctx, admin, testFeed)
	suite.Require().ErrorIs(err, types.ErrRoundNotOpen)

	oracles, err := suite.keeper.ListOracles(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Equal(oraclesBefore, oracles)

	price, err := suite.keeper.GetLatestPriceUnchecked(suite.ctx, testFeed)
	suite.Require().NoError(err)
	suite.Require().Equal(priceBefore, price)

	round, err := suite.keeper.GetCurrentRound(suite.ctx, testFeed)
	suite.Require().NoError(err)
	suite.Require().Equal(roundBefore, round)

	history, err := suite.keeper.GetPriceHistory(suite.ctx, testFeed)
	suite.Require().NoError(err)
	suite.Require().Equal(historyBefore, history)
	suite.Require().Len(history, 1)
}

func (suite *KeeperTestSuite) TestResolveWithoutRound() {
	_, err := suite.keeper.ResolveRound(suite.ctx, admin, testFeed)
	suite.Require().ErrorIs(err, types.ErrRoundNotOpen)

	_, err = suite.keeper.ResolveRound(suite.ctx, admin, "NOPE")
	suite.Require().ErrorIs(err, types.ErrFeedNotFound)
}

func (suite *KeeperTestSuite) TestResolveInsufficientSubmissions() {
	providers := suite.registerProviders(3)
	_, err := suite.keeper.OpenRound(suite.ctx, admin, testFeed)
	suite.Require().NoError(err)
	for _, p := range providers[:2] {
		_, err := suite.keeper.SubmitPrice(suite.ctx, p, testFeed, sdkmath.NewInt(100), 0)
		suite.Require().NoError(err)
	}

	_, err = suite.keeper.ResolveRound(suite.ctx, admin, testFeed)
	suite.Require().ErrorIs(err, types.ErrInsufficientSubmissions)

	round, err := suite.keeper.GetCurrentRound(suite.ctx, testFeed)
	suite.Require().NoError(err)
	suite.Require().False(round.Resolved)

	// a feed override lowers the threshold
	suite.Require().NoError(suite.keeper.UpdateFeed(suite.ctx, admin, testFeed, true, 0, 2))
	resolved, err := suite.keeper.ResolveRound(suite.ctx, admin, testFeed)
	suite.Require().NoError(err)
	suite.Require().Equal(uint32(2), resolved.NumIncluded)
}

func (suite *KeeperTestSuite) TestResolveConsensusNotReached() {
	providers := suite.registerProviders(3)
	_, err := suite.keeper.OpenRound(suite.ctx, admin, testFeed)
	suite.Require().NoError(err)
	for i, price := range []int64{100, 100, 200} {
		_, err := suite.keeper.SubmitPrice(suite.ctx, providers[i], testFeed, sdkmath.NewInt(price), 0)
		suite.Require().NoError(err)
	}

	_, err = suite.keeper.ResolveRound(suite.ctx, admin, testFeed)
	suite.Require().ErrorIs(err, types.ErrConsensusNotReached)

	_, err = suite.keeper.GetLatestPriceUnchecked(suite.ctx, testFeed)
	suite.Require().ErrorIs(err, types.ErrNoResolvedPrice)
	suite.Require().Equal(types.DefaultRepInitial, suite.oracle(providers[2]).Reputation)
}

func (suite *KeeperTestSuite) TestResolveInactiveFeed() {
	providers := suite.registerProviders(3)
	_, err := suite.keeper.OpenRound(suite.ctx, admin, testFeed)
	suite.Require().NoError(err)
	for _, p := range providers {
		_, err := suite.keeper.SubmitPrice(suite.ctx, p, testFeed, sdkmath.NewInt(100), 0)
		suite.Require().NoError(err)
	}
	suite.Require().NoError(suite.keeper.UpdateFeed(suite.ctx, admin, testFeed, false, 0, 0))

	_, err = suite.keeper.ResolveRound(suite.ctx, admin, testFeed)
	suite.Require().ErrorIs(err, types.ErrFeedInactive)
}

func (suite *KeeperTestSuite) TestResolveAfterWindow() {
	providers := suite.registerProviders(3)
	_, err := suite.keeper.OpenRound(suite.ctx, admin, testFeed)
	suite.Require().NoError(err)
	for _, p := range providers {
		_, err := suite.keeper.SubmitPrice(suite.ctx, p, testFeed, sdkmath.NewInt(100), 0)
		suite.Require().NoError(err)
	}

	// an expired round can still be resolved as long as nobody replaced it
	suite.at(int64(types.DefaultSubmissionWindow) * 2)
	resolved, err := suite.keeper.ResolveRound(suite.ctx, admin, testFeed)
	suite.Require().NoError(err)
	suite.Require().Equal(suite.ctx.BlockTime().Unix(), resolved.Timestamp)
}

func (suite *KeeperTestSuite) TestReputationCapsAtMax() {
	providers := suite.registerProviders(3)
	update := &types.MsgUpdateReputationConfig{
		Admin:          admin,
		RepInitial:     500,
		RepMax:         502,
		RepReward:      5,
		RepPenalty:     20,
		RepMissPenalty: 10,
	}
	suite.Require().NoError(suite.keeper.UpdateConfig(suite.ctx, admin, update))

	suite.runRound(providers, []int64{100, 100, 100})
	suite.Require().Equal(uint32(502), suite.oracle(providers[0]).Reputation)
}
