package keeper_test

import (
	sdkmath "cosmossdk.io/math"

	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

func (suite *KeeperTestSuite) TestOpenRound() {
	_, err := suite.keeper.GetCurrentRound(suite.ctx, testFeed)
	suite.Require().ErrorIs(err, types.ErrRoundNotOpen)

	roundID, err := suite.keeper.OpenRound(suite.ctx, admin, testFeed)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(1), roundID)

	round, err := suite.keeper.GetCurrentRound(suite.ctx, testFeed)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(1), round.RoundID)
	suite.Require().False(round.Resolved)
	suite.Require().Equal(suite.ctx.BlockTime().Unix(), round.OpenedAt)
	suite.Require().Equal(round.OpenedAt+int64(types.DefaultSubmissionWindow), round.ClosesAt)

	subs, err := suite.keeper.GetRoundSubmissions(suite.ctx, testFeed, 1)
	suite.Require().NoError(err)
	suite.Require().NotNil(subs)
	suite.Require().Empty(subs)

	// still open
	_, err = suite.keeper.OpenRound(suite.ctx, admin, testFeed)
	suite.Require().ErrorIs(err, types.ErrRoundNotOpen)

	// an expired round may be replaced without being resolved
	suite.at(int64(types.DefaultSubmissionWindow))
	roundID, err = suite.keeper.OpenRound(suite.ctx, admin, testFeed)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(2), roundID)
}

func (suite *KeeperTestSuite) TestOpenRoundAfterResolution() {
	providers := suite.registerProviders(3)
	suite.runRound(providers, []int64{100, 100, 100})

	roundID, err := suite.keeper.OpenRound(suite.ctx, admin, testFeed)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(2), roundID)
}

func (suite *KeeperTestSuite) TestSubmitPrice() {
	providers := suite.registerProviders(2)
	_, err := suite.keeper.OpenRound(suite.ctx, admin, testFeed)
	suite.Require().NoError(err)

	suite.at(10)
	roundID, err := suite.keeper.SubmitPrice(suite.ctx, providers[0], testFeed, sdkmath.NewInt(100_000_000), 20_000)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(1), roundID)

	subs, err := suite.keeper.GetRoundSubmissions(suite.ctx, testFeed, 1)
	suite.Require().NoError(err)
	suite.Require().Len(subs, 1)
	suite.Require().Equal(providers[0], subs[0].Oracle)
	suite.Require().Equal(uint32(types.MaxConfidenceBps), subs[0].Confidence)
	suite.Require().Equal(suite.ctx.BlockTime().Unix(), subs[0].Timestamp)

	oracle := suite.oracle(providers[0])
	suite.Require().Equal(uint64(1), oracle.TotalSubmissions)
	suite.Require().Equal(suite.ctx.BlockTime().Unix(), oracle.LastHeartbeat)
	suite.Require().True(hasEvent(suite.ctx.EventManager().Events(), types.EventTypePriceSubmitted))

	_, err = suite.keeper.SubmitPrice(suite.ctx, providers[0], testFeed, sdkmath.NewInt(100_000_001), 0)
	suite.Require().ErrorIs(err, types.ErrDuplicateSubmission)

	subs, err = suite.keeper.GetRoundSubmissions(suite.ctx, testFeed, 1)
	suite.Require().NoError(err)
	suite.Require().Len(subs, 1)
}

func (suite *KeeperTestSuite) TestSubmitPriceRejections() {
	providers := suite.registerProviders(2)
	p := providers[0]

	_, err := suite.keeper.SubmitPrice(suite.ctx, p, testFeed, sdkmath.NewInt(1), 0)
	suite.Require().ErrorIs(err, types.ErrRoundNotOpen)

	_, err = suite.keeper.OpenRound(suite.ctx, admin, testFeed)
	suite.Require().NoError(err)

	tests := []struct {
		name     string
		provider string
		feedID   string
		price    sdkmath.Int
		wantErr  error
	}{
		{"unregistered", provider(9), testFeed, sdkmath.NewInt(1), types.ErrOracleNotRegistered},
		{"zero price", p, testFeed, sdkmath.ZeroInt(), types.ErrInvalidPrice},
		{"negative price", p, testFeed, sdkmath.NewInt(-1), types.ErrInvalidPrice},
		{"beyond int128", p, testFeed, types.MaxInt128().AddRaw(1), types.ErrInvalidPrice},
		{"unknown feed", p, "NOPE", sdkmath.NewInt(1), types.ErrRoundNotOpen},
	}
	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, err := suite.keeper.SubmitPrice(suite.ctx, tc.provider, tc.feedID, tc.price, 0)
			suite.Require().ErrorIs(err, tc.wantErr)
		})
	}

	// the largest int128 price is accepted
	_, err = suite.keeper.SubmitPrice(suite.ctx, providers[1], testFeed, types.MaxInt128(), 0)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.keeper.DeactivateOracle(suite.ctx, p, p))
	_, err = suite.keeper.SubmitPrice(suite.ctx, p, testFeed, sdkmath.NewInt(1), 0)
	suite.Require().ErrorIs(err, types.ErrOracleInactive)
}

func (suite *KeeperTestSuite) TestSubmissionWindow() {
	providers := suite.registerProviders(2)
	p, q := providers[0], providers[1]
	_, err := suite.keeper.OpenRound(suite.ctx, admin, testFeed)
	suite.Require().NoError(err)

	// closes_at itself is inside the window
	suite.at(int64(types.DefaultSubmissionWindow))
	_, err = suite.keeper.SubmitPrice(suite.ctx, p, testFeed, sdkmath.NewInt(1), 0)
	suite.Require().NoError(err)

	suite.at(int64(types.DefaultSubmissionWindow) + 1)
	_, err = suite.keeper.SubmitPrice(suite.ctx, q, testFeed, sdkmath.NewInt(1), 0)
	suite.Require().ErrorIs(err, types.ErrSubmissionWindowClosed)
}

func (suite *KeeperTestSuite) TestSubmitToResolvedRound() {
	providers := suite.registerProviders(4)
	suite.runRound(providers[:3], []int64{100, 100, 100})

	_, err := suite.keeper.SubmitPrice(suite.ctx, providers[3], testFeed, sdkmath.NewInt(100), 0)
	suite.Require().ErrorIs(err, types.ErrRoundNotOpen)
}

func (suite *KeeperTestSuite) TestRoundSubmissionsUnknownRound() {
	_, err := suite.keeper.GetRoundSubmissions(suite.ctx, testFeed, 7)
	suite.Require().ErrorIs(err, types.ErrRoundNotOpen)
}
