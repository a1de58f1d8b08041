package keeper_test

import (
	sdkmath "cosmossdk.io/math"

	"github.com/paw-chain/oraclenet/x/oraclenet/keeper"
	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

func (suite *KeeperTestSuite) TestInvariantsHoldAfterActivity() {
	providers := suite.registerProviders(4)
	suite.runRound(providers, []int64{100, 101, 102, 500})
	_, err := suite.keeper.OpenRound(suite.ctx, admin, testFeed)
	suite.Require().NoError(err)
	_, err = suite.keeper.SubmitPrice(suite.ctx, providers[0], testFeed, sdkmath.NewInt(100), 0)
	suite.Require().NoError(err)

	msg, broken := keeper.AllInvariants(suite.keeper)(suite.ctx)
	suite.Require().False(broken, msg)
}

func (suite *KeeperTestSuite) TestReputationBoundsInvariant() {
	p := suite.registerProviders(1)[0]
	oracle := suite.oracle(p)

	oracle.Reputation = types.DefaultRepMax + 1
	suite.Require().NoError(suite.keeper.SetProviderUnchecked(suite.ctx, oracle))
	msg, broken := keeper.ReputationBoundsInvariant(suite.keeper)(suite.ctx)
	suite.Require().True(broken)
	suite.Require().Contains(msg, "above max")

	oracle.Reputation = 0
	suite.Require().NoError(suite.keeper.SetProviderUnchecked(suite.ctx, oracle))
	msg, broken = keeper.ReputationBoundsInvariant(suite.keeper)(suite.ctx)
	suite.Require().True(broken)
	suite.Require().Contains(msg, "zero reputation")
}

func (suite *KeeperTestSuite) TestRoundConsistencyInvariant() {
	providers := suite.registerProviders(2)
	_, err := suite.keeper.OpenRound(suite.ctx, admin, testFeed)
	suite.Require().NoError(err)

	dup := types.PriceSubmission{Oracle: providers[0], Price: sdkmath.NewInt(1)}
	suite.Require().NoError(suite.keeper.SetSubmissionsUnchecked(suite.ctx, testFeed, 1, types.SubmissionSet{
		Submissions: []types.PriceSubmission{dup, dup},
	}))
	msg, broken := keeper.RoundConsistencyInvariant(suite.keeper)(suite.ctx)
	suite.Require().True(broken)
	suite.Require().Contains(msg, "duplicate submission")

	suite.Require().NoError(suite.keeper.SetSubmissionsUnchecked(suite.ctx, testFeed, 1, types.SubmissionSet{}))
	suite.Require().NoError(suite.keeper.SetResolvedPriceUnchecked(suite.ctx, types.ResolvedPrice{
		FeedID: testFeed, RoundID: 5, Price: sdkmath.NewInt(1),
	}))
	msg, broken = keeper.RoundConsistencyInvariant(suite.keeper)(suite.ctx)
	suite.Require().True(broken)
	suite.Require().Contains(msg, "ahead of current round")
}

func (suite *KeeperTestSuite) TestHistoryBoundInvariant() {
	entry := func(round uint64) types.PriceHistoryEntry {
		return types.PriceHistoryEntry{RoundID: round, Price: sdkmath.NewInt(1)}
	}
	suite.Require().NoError(suite.keeper.SetHistoryUnchecked(suite.ctx, testFeed, types.PriceHistory{
		Entries: []types.PriceHistoryEntry{entry(2), entry(1)},
	}))

	msg, broken := keeper.HistoryBoundInvariant(suite.keeper)(suite.ctx)
	suite.Require().True(broken)
	suite.Require().Contains(msg, testFeed)

	msg, broken = keeper.AllInvariants(suite.keeper)(suite.ctx)
	suite.Require().True(broken, msg)
}

func (suite *KeeperTestSuite) TestRosterBoundInvariant() {
	msg, broken := keeper.RosterBoundInvariant(suite.keeper)(suite.ctx)
	suite.Require().False(broken, msg)

	for i := 0; i <= types.MaxRosterSize; i++ {
		p := types.NewOracleProvider(provider(i), testStake, 1, 0)
		suite.Require().NoError(suite.keeper.SetProviderUnchecked(suite.ctx, p))
	}
	_, broken = keeper.RosterBoundInvariant(suite.keeper)(suite.ctx)
	suite.Require().True(broken)
}
