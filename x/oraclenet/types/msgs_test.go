package types

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
)

func TestMsgValidateBasic(t *testing.T) {
	admin := testAddr("admin")
	provider := testAddr("provider")

	tests := []struct {
		name string
		msg  Msg
		err  error
	}{
		{"initialize", &MsgInitialize{Admin: admin}, nil},
		{"initialize bad admin", &MsgInitialize{Admin: "bad"}, ErrInvalidInput},
		{"register", &MsgRegisterOracle{Provider: provider, Stake: sdkmath.NewInt(10)}, nil},
		{"register nil stake", &MsgRegisterOracle{Provider: provider}, ErrInvalidInput},
		{"add stake zero", &MsgAddStake{Provider: provider, Amount: sdkmath.ZeroInt()}, ErrInvalidInput},
		{"add stake", &MsgAddStake{Provider: provider, Amount: sdkmath.NewInt(1)}, nil},
		{"slash negative", &MsgSlashOracle{Admin: admin, Provider: provider, StakePenalty: sdkmath.NewInt(-1)}, ErrInvalidInput},
		{"slash", &MsgSlashOracle{Admin: admin, Provider: provider, StakePenalty: sdkmath.ZeroInt(), RepPenalty: 10}, nil},
		{"create feed", &MsgCreateFeed{Admin: admin, FeedID: "BTC/USD", BaseAsset: "BTC", QuoteAsset: "USD", Decimals: 8}, nil},
		{"create feed bad decimals", &MsgCreateFeed{Admin: admin, FeedID: "BTC/USD", BaseAsset: "BTC", QuoteAsset: "USD", Decimals: 19}, ErrInvalidInput},
		{"update feed", &MsgUpdateFeed{Admin: admin, FeedID: "BTC/USD", IsActive: true}, nil},
		{"open round bad feed", &MsgOpenRound{Sender: provider, FeedID: ""}, ErrInvalidInput},
		{"submit", &MsgSubmitPrice{Provider: provider, FeedID: "BTC/USD", Price: sdkmath.NewInt(1), Confidence: 20_000}, nil},
		{"submit zero price", &MsgSubmitPrice{Provider: provider, FeedID: "BTC/USD", Price: sdkmath.ZeroInt()}, ErrInvalidPrice},
		{"submit huge price", &MsgSubmitPrice{Provider: provider, FeedID: "BTC/USD", Price: MaxInt128().AddRaw(1)}, ErrInvalidPrice},
		{"resolve", &MsgResolveRound{Sender: provider, FeedID: "BTC/USD"}, nil},
		{"update config", &MsgUpdateConfig{Admin: admin, MinOracles: 1, MaxOracles: 5, SubmissionWindowSecs: 60, StalenessSecs: 60, OutlierThresholdBps: 100, MinStake: sdkmath.ZeroInt(), HeartbeatInterval: 60}, nil},
		{"update config zero outlier", &MsgUpdateConfig{Admin: admin, MinOracles: 1, MaxOracles: 5, SubmissionWindowSecs: 60, StalenessSecs: 60, MinStake: sdkmath.ZeroInt(), HeartbeatInterval: 60}, ErrInvalidInput},
		{"update reputation", &MsgUpdateReputationConfig{Admin: admin, RepInitial: 10, RepMax: 10}, nil},
		{"update reputation zero initial", &MsgUpdateReputationConfig{Admin: admin, RepMax: 10}, ErrInvalidInput},
		{"update reputation reward above max", &MsgUpdateReputationConfig{Admin: admin, RepInitial: 5, RepMax: 10, RepReward: 11}, ErrInvalidInput},
		{"enforce heartbeats", &MsgEnforceHeartbeats{Admin: admin}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.ValidateBasic()
			if tc.err == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tc.err)
			}
		})
	}
}
