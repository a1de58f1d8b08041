package types

import (
	"github.com/cosmos/cosmos-sdk/codec"
)

// RegisterLegacyAminoCodec registers the oraclenet messages on the provided LegacyAmino codec
func RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterInterface((*Msg)(nil), nil)
	cdc.RegisterConcrete(&MsgInitialize{}, "oraclenet/MsgInitialize", nil)
	cdc.RegisterConcrete(&MsgSetPaused{}, "oraclenet/MsgSetPaused", nil)
	cdc.RegisterConcrete(&MsgUpdateConfig{}, "oraclenet/MsgUpdateConfig", nil)
	cdc.RegisterConcrete(&MsgUpdateReputationConfig{}, "oraclenet/MsgUpdateReputationConfig", nil)
	cdc.RegisterConcrete(&MsgRegisterOracle{}, "oraclenet/MsgRegisterOracle", nil)
	cdc.RegisterConcrete(&MsgDeactivateOracle{}, "oraclenet/MsgDeactivateOracle", nil)
	cdc.RegisterConcrete(&MsgReactivateOracle{}, "oraclenet/MsgReactivateOracle", nil)
	cdc.RegisterConcrete(&MsgAddStake{}, "oraclenet/MsgAddStake", nil)
	cdc.RegisterConcrete(&MsgHeartbeat{}, "oraclenet/MsgHeartbeat", nil)
	cdc.RegisterConcrete(&MsgSlashOracle{}, "oraclenet/MsgSlashOracle", nil)
	cdc.RegisterConcrete(&MsgCreateFeed{}, "oraclenet/MsgCreateFeed", nil)
	cdc.RegisterConcrete(&MsgUpdateFeed{}, "oraclenet/MsgUpdateFeed", nil)
	cdc.RegisterConcrete(&MsgOpenRound{}, "oraclenet/MsgOpenRound", nil)
	cdc.RegisterConcrete(&MsgSubmitPrice{}, "oraclenet/MsgSubmitPrice", nil)
	cdc.RegisterConcrete(&MsgResolveRound{}, "oraclenet/MsgResolveRound", nil)
	cdc.RegisterConcrete(&MsgEnforceHeartbeats{}, "oraclenet/MsgEnforceHeartbeats", nil)
}

// ModuleCdc is the amino codec used for state records and genesis JSON
var ModuleCdc = codec.NewLegacyAmino()

func init() {
	RegisterLegacyAminoCodec(ModuleCdc)
	ModuleCdc.Seal()
}
