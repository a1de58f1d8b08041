package keeper_test

import (
	sdkmath "cosmossdk.io/math"

	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

func (suite *KeeperTestSuite) TestRegisterOracle() {
	p := provider(0)

	suite.Require().ErrorIs(suite.keeper.RegisterOracle(suite.ctx, p, sdkmath.NewInt(9_999_999)), types.ErrInsufficientStake)
	suite.Require().NoError(suite.keeper.RegisterOracle(suite.ctx, p, testStake))
	suite.Require().ErrorIs(suite.keeper.RegisterOracle(suite.ctx, p, testStake), types.ErrOracleAlreadyRegistered)

	oracle := suite.oracle(p)
	suite.Require().Equal(p, oracle.Address)
	suite.Require().True(oracle.Stake.Equal(testStake))
	suite.Require().Equal(types.DefaultRepInitial, oracle.Reputation)
	suite.Require().True(oracle.IsActive)
	suite.Require().Equal(suite.ctx.BlockTime().Unix(), oracle.RegisteredAt)
	suite.Require().Equal(oracle.RegisteredAt, oracle.LastHeartbeat)
	suite.Require().Zero(oracle.TotalSubmissions)
	suite.Require().True(hasEvent(suite.ctx.EventManager().Events(), types.EventTypeOracleRegistered))
}

func (suite *KeeperTestSuite) TestRegisterOracleRosterFull() {
	suite.registerProviders(int(types.DefaultMaxOracles))

	err := suite.keeper.RegisterOracle(suite.ctx, provider(100), testStake)
	suite.Require().ErrorIs(err, types.ErrMaxOraclesReached)

	// the roster check precedes the duplicate check
	err = suite.keeper.RegisterOracle(suite.ctx, provider(0), testStake)
	suite.Require().ErrorIs(err, types.ErrMaxOraclesReached)
	suite.Require().Equal(types.DefaultMaxOracles, suite.keeper.RosterSize(suite.ctx))
}

func (suite *KeeperTestSuite) TestListOracles() {
	oracles, err := suite.keeper.ListOracles(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().NotNil(oracles)
	suite.Require().Empty(oracles)

	suite.registerProviders(3)
	oracles, err = suite.keeper.ListOracles(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(oracles, 3)
	for i := 1; i < len(oracles); i++ {
		suite.Require().Less(oracles[i-1].Address, oracles[i].Address)
	}
}

func (suite *KeeperTestSuite) TestGetOracleNotRegistered() {
	_, err := suite.keeper.GetOracle(suite.ctx, provider(0))
	suite.Require().ErrorIs(err, types.ErrOracleNotRegistered)
	_, err = suite.keeper.GetOracleStats(suite.ctx, provider(0))
	suite.Require().ErrorIs(err, types.ErrOracleNotRegistered)
	_, err = suite.keeper.IsOracleHealthy(suite.ctx, provider(0))
	suite.Require().ErrorIs(err, types.ErrOracleNotRegistered)
}

func (suite *KeeperTestSuite) TestDeactivateOracle() {
	providers := suite.registerProviders(2)

	suite.Require().ErrorIs(suite.keeper.DeactivateOracle(suite.ctx, providers[1], providers[0]), types.ErrUnauthorized)
	suite.Require().ErrorIs(suite.keeper.DeactivateOracle(suite.ctx, admin, provider(9)), types.ErrOracleNotRegistered)

	suite.Require().NoError(suite.keeper.DeactivateOracle(suite.ctx, providers[0], providers[0]))
	suite.Require().False(suite.oracle(providers[0]).IsActive)

	suite.Require().NoError(suite.keeper.DeactivateOracle(suite.ctx, admin, providers[1]))
	suite.Require().False(suite.oracle(providers[1]).IsActive)
}

func (suite *KeeperTestSuite) TestReactivateOracle() {
	providers := suite.registerProviders(1)
	p := providers[0]

	suite.Require().ErrorIs(suite.keeper.ReactivateOracle(suite.ctx, provider(9)), types.ErrOracleNotRegistered)

	suite.Require().NoError(suite.keeper.DeactivateOracle(suite.ctx, p, p))
	suite.at(100)
	suite.Require().NoError(suite.keeper.ReactivateOracle(suite.ctx, p))
	oracle := suite.oracle(p)
	suite.Require().True(oracle.IsActive)
	suite.Require().Equal(suite.ctx.BlockTime().Unix(), oracle.LastHeartbeat)

	// 500 - 251 = 249 < 250
	suite.Require().NoError(suite.keeper.SlashOracle(suite.ctx, admin, p, sdkmath.ZeroInt(), 251))
	suite.Require().NoError(suite.keeper.DeactivateOracle(suite.ctx, p, p))
	suite.Require().ErrorIs(suite.keeper.ReactivateOracle(suite.ctx, p), types.ErrReputationTooLow)
	suite.Require().False(suite.oracle(p).IsActive)
}

func (suite *KeeperTestSuite) TestReactivateAtThreshold() {
	p := suite.registerProviders(1)[0]
	suite.Require().NoError(suite.keeper.SlashOracle(suite.ctx, admin, p, sdkmath.ZeroInt(), 250))
	suite.Require().NoError(suite.keeper.DeactivateOracle(suite.ctx, p, p))
	suite.Require().NoError(suite.keeper.ReactivateOracle(suite.ctx, p))
}

func (suite *KeeperTestSuite) TestReactivateWithZeroReputation() {
	p := suite.registerProviders(1)[0]
	suite.Require().NoError(suite.keeper.SlashOracle(suite.ctx, admin, p, sdkmath.ZeroInt(), types.DefaultRepInitial))
	suite.Require().False(suite.oracle(p).IsActive)

	// a threshold of rep_initial/2 rounds down to zero here
	suite.Require().NoError(suite.keeper.UpdateConfig(suite.ctx, admin, &types.MsgUpdateReputationConfig{
		Admin:      admin,
		RepInitial: 1,
		RepMax:     types.DefaultRepMax,
	}))
	suite.Require().ErrorIs(suite.keeper.ReactivateOracle(suite.ctx, p), types.ErrReputationTooLow)

	oracle := suite.oracle(p)
	suite.Require().False(oracle.IsActive)
	suite.Require().Zero(oracle.Reputation)
}

func (suite *KeeperTestSuite) TestAddStake() {
	p := suite.registerProviders(1)[0]

	_, err := suite.keeper.AddStake(suite.ctx, p, sdkmath.ZeroInt())
	suite.Require().ErrorIs(err, types.ErrInvalidInput)
	_, err = suite.keeper.AddStake(suite.ctx, p, sdkmath.NewInt(-5))
	suite.Require().ErrorIs(err, types.ErrInvalidInput)
	_, err = suite.keeper.AddStake(suite.ctx, provider(9), sdkmath.NewInt(5))
	suite.Require().ErrorIs(err, types.ErrOracleNotRegistered)

	stake, err := suite.keeper.AddStake(suite.ctx, p, sdkmath.NewInt(5))
	suite.Require().NoError(err)
	suite.Require().True(stake.Equal(sdkmath.NewInt(10_000_005)))
	suite.Require().True(suite.oracle(p).Stake.Equal(stake))
}

func (suite *KeeperTestSuite) TestAddStakeSaturates() {
	p := suite.registerProviders(1)[0]

	stake, err := suite.keeper.AddStake(suite.ctx, p, types.MaxInt128())
	suite.Require().NoError(err)
	suite.Require().True(stake.Equal(types.MaxInt128()))

	stake, err = suite.keeper.AddStake(suite.ctx, p, sdkmath.NewInt(1))
	suite.Require().NoError(err)
	suite.Require().True(stake.Equal(types.MaxInt128()))
}

func (suite *KeeperTestSuite) TestHeartbeat() {
	p := suite.registerProviders(1)[0]

	suite.at(400)
	suite.Require().NoError(suite.keeper.Heartbeat(suite.ctx, p))
	suite.Require().Equal(suite.ctx.BlockTime().Unix(), suite.oracle(p).LastHeartbeat)

	suite.Require().NoError(suite.keeper.DeactivateOracle(suite.ctx, p, p))
	suite.Require().ErrorIs(suite.keeper.Heartbeat(suite.ctx, p), types.ErrOracleInactive)
	suite.Require().ErrorIs(suite.keeper.Heartbeat(suite.ctx, provider(9)), types.ErrOracleNotRegistered)
}

func (suite *KeeperTestSuite) TestSlashOracle() {
	p := suite.registerProviders(1)[0]

	err := suite.keeper.SlashOracle(suite.ctx, outsider, p, sdkmath.NewInt(1), 1)
	suite.Require().ErrorIs(err, types.ErrUnauthorized)

	suite.Require().NoError(suite.keeper.SlashOracle(suite.ctx, admin, p, sdkmath.NewInt(4_000_000), 100))
	oracle := suite.oracle(p)
	suite.Require().True(oracle.Stake.Equal(sdkmath.NewInt(6_000_000)))
	suite.Require().Equal(uint32(400), oracle.Reputation)
	suite.Require().True(oracle.IsActive)
	suite.Require().True(hasEvent(suite.ctx.EventManager().Events(), types.EventTypeOracleSlashed))

	// zero stake penalty leaves the stake untouched
	suite.Require().NoError(suite.keeper.SlashOracle(suite.ctx, admin, p, sdkmath.ZeroInt(), 10_000))
	oracle = suite.oracle(p)
	suite.Require().True(oracle.Stake.Equal(sdkmath.NewInt(6_000_000)))
	suite.Require().Zero(oracle.Reputation)
	suite.Require().False(oracle.IsActive)
}

func (suite *KeeperTestSuite) TestSlashOracleStakeSaturates() {
	p := suite.registerProviders(1)[0]

	suite.Require().NoError(suite.keeper.SlashOracle(suite.ctx, admin, p, types.MaxInt128(), 0))
	suite.Require().NoError(suite.keeper.SlashOracle(suite.ctx, admin, p, types.MaxInt128(), 0))
	suite.Require().True(suite.oracle(p).Stake.Equal(types.MinInt128()))
}

func (suite *KeeperTestSuite) TestOracleStatsAndHealth() {
	providers := suite.registerProviders(3)
	suite.runRound(providers, []int64{100, 101, 102})

	stats, err := suite.keeper.GetOracleStats(suite.ctx, providers[0])
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(1), stats.TotalSubmissions)
	suite.Require().Equal(uint64(1), stats.AcceptedSubmissions)
	suite.Require().Equal(uint32(types.BpsDenominator), stats.AccuracyBps)

	healthy, err := suite.keeper.IsOracleHealthy(suite.ctx, providers[0])
	suite.Require().NoError(err)
	suite.Require().True(healthy)

	// the deadline itself is still live
	suite.at(int64(types.DefaultHeartbeatInterval))
	healthy, err = suite.keeper.IsOracleHealthy(suite.ctx, providers[0])
	suite.Require().NoError(err)
	suite.Require().True(healthy)

	suite.at(int64(types.DefaultHeartbeatInterval) + 1)
	health, err := suite.keeper.GetOracleHealth(suite.ctx, providers[0])
	suite.Require().NoError(err)
	suite.Require().False(health.Healthy)
	suite.Require().True(health.IsActive)
	suite.Require().Equal(health.LastHeartbeat+int64(types.DefaultHeartbeatInterval), health.Deadline)
}

func (suite *KeeperTestSuite) TestEnforceHeartbeats() {
	providers := suite.registerProviders(3)

	_, err := suite.keeper.EnforceHeartbeats(suite.ctx, outsider)
	suite.Require().ErrorIs(err, types.ErrUnauthorized)

	n, err := suite.keeper.EnforceHeartbeats(suite.ctx, admin)
	suite.Require().NoError(err)
	suite.Require().Zero(n)

	// every provider lapses
	suite.at(int64(types.DefaultHeartbeatInterval) + 1)
	n, err = suite.keeper.EnforceHeartbeats(suite.ctx, admin)
	suite.Require().NoError(err)
	suite.Require().Equal(uint32(3), n)

	for _, p := range providers {
		oracle := suite.oracle(p)
		suite.Require().False(oracle.IsActive)
		suite.Require().Equal(types.DefaultRepInitial-types.DefaultRepMissPenalty, oracle.Reputation)
		suite.Require().Zero(oracle.MissedRounds)
	}

	// inactive providers are not charged twice
	n, err = suite.keeper.EnforceHeartbeats(suite.ctx, admin)
	suite.Require().NoError(err)
	suite.Require().Zero(n)
	suite.Require().Equal(types.DefaultRepInitial-types.DefaultRepMissPenalty, suite.oracle(providers[0]).Reputation)
}

func (suite *KeeperTestSuite) TestEnforceHeartbeatsSparesLiveProviders() {
	providers := suite.registerProviders(2)

	suite.at(int64(types.DefaultHeartbeatInterval))
	suite.Require().NoError(suite.keeper.Heartbeat(suite.ctx, providers[0]))

	suite.at(int64(types.DefaultHeartbeatInterval) + 1)
	n, err := suite.keeper.EnforceHeartbeats(suite.ctx, admin)
	suite.Require().NoError(err)
	suite.Require().Equal(uint32(1), n)
	suite.Require().True(suite.oracle(providers[0]).IsActive)
	suite.Require().False(suite.oracle(providers[1]).IsActive)
}
