package keeper_test

import (
	"fmt"

	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

func (suite *KeeperTestSuite) TestCreateFeed() {
	feed, err := suite.keeper.GetFeed(suite.ctx, testFeed)
	suite.Require().NoError(err)
	suite.Require().Equal("BTC", feed.BaseAsset)
	suite.Require().Equal("USD", feed.QuoteAsset)
	suite.Require().Equal(uint32(8), feed.Decimals)
	suite.Require().True(feed.IsActive)
	suite.Require().Zero(feed.StalenessOverrideSecs)
	suite.Require().Zero(feed.MinOraclesOverride)

	tests := []struct {
		name    string
		caller  string
		feedID  string
		base    string
		dec     uint32
		wantErr error
	}{
		{"non-admin", outsider, "ETH/USD", "ETH", 8, types.ErrUnauthorized},
		{"duplicate", admin, testFeed, "BTC", 8, types.ErrFeedAlreadyExists},
		{"empty id", admin, "", "ETH", 8, types.ErrInvalidInput},
		{"bad id", admin, "ETH USD", "ETH", 8, types.ErrInvalidInput},
		{"empty asset", admin, "ETH/USD", "", 8, types.ErrInvalidInput},
		{"too many decimals", admin, "ETH/USD", "ETH", types.MaxFeedDecimals + 1, types.ErrInvalidInput},
	}
	for _, tc := range tests {
		suite.Run(tc.name, func() {
			err := suite.keeper.CreateFeed(suite.ctx, tc.caller, tc.feedID, tc.base, "USD", tc.dec)
			suite.Require().ErrorIs(err, tc.wantErr)
		})
	}
}

func (suite *KeeperTestSuite) TestCreateFeedCatalogFull() {
	// testFeed already occupies one slot
	for i := 1; i < types.MaxFeeds; i++ {
		suite.Require().NoError(suite.keeper.CreateFeed(suite.ctx, admin, fmt.Sprintf("F%d", i), "A", "B", 0))
	}
	err := suite.keeper.CreateFeed(suite.ctx, admin, "ONE/MORE", "A", "B", 0)
	suite.Require().ErrorIs(err, types.ErrMaxFeedsReached)

	// deactivated feeds still count
	suite.Require().NoError(suite.keeper.UpdateFeed(suite.ctx, admin, "F1", false, 0, 0))
	err = suite.keeper.CreateFeed(suite.ctx, admin, "ONE/MORE", "A", "B", 0)
	suite.Require().ErrorIs(err, types.ErrMaxFeedsReached)

	feeds, err := suite.keeper.ListFeeds(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(feeds, types.MaxFeeds)
}

func (suite *KeeperTestSuite) TestUpdateFeed() {
	suite.Require().ErrorIs(suite.keeper.UpdateFeed(suite.ctx, outsider, testFeed, false, 0, 0), types.ErrUnauthorized)
	suite.Require().ErrorIs(suite.keeper.UpdateFeed(suite.ctx, admin, "NOPE", false, 0, 0), types.ErrFeedNotFound)

	suite.Require().NoError(suite.keeper.UpdateFeed(suite.ctx, admin, testFeed, false, 60, 5))
	feed, err := suite.keeper.GetFeed(suite.ctx, testFeed)
	suite.Require().NoError(err)
	suite.Require().False(feed.IsActive)
	suite.Require().Equal(uint64(60), feed.StalenessOverrideSecs)
	suite.Require().Equal(uint32(5), feed.MinOraclesOverride)

	cfg, err := suite.keeper.GetConfig(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(60), feed.EffectiveStaleness(cfg))
	suite.Require().Equal(uint32(5), feed.EffectiveMinOracles(cfg))

	// zero overrides fall back to the network defaults
	suite.Require().NoError(suite.keeper.UpdateFeed(suite.ctx, admin, testFeed, true, 0, 0))
	feed, err = suite.keeper.GetFeed(suite.ctx, testFeed)
	suite.Require().NoError(err)
	suite.Require().Equal(cfg.StalenessSecs, feed.EffectiveStaleness(cfg))
	suite.Require().Equal(cfg.MinOracles, feed.EffectiveMinOracles(cfg))
}

func (suite *KeeperTestSuite) TestInactiveFeedRejectsRounds() {
	suite.Require().NoError(suite.keeper.UpdateFeed(suite.ctx, admin, testFeed, false, 0, 0))
	_, err := suite.keeper.OpenRound(suite.ctx, admin, testFeed)
	suite.Require().ErrorIs(err, types.ErrFeedInactive)

	_, err = suite.keeper.OpenRound(suite.ctx, admin, "NOPE")
	suite.Require().ErrorIs(err, types.ErrFeedNotFound)
}
