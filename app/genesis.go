package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	errorsmod "cosmossdk.io/errors"

	"github.com/paw-chain/oraclenet/x/oraclenet/types"
)

// GenesisState is a map from module name to that module's genesis JSON
type GenesisState map[string]json.RawMessage

// GenesisDoc is the on-disk genesis file
type GenesisDoc struct {
	GenesisTime time.Time    `json:"genesis_time"`
	AppState    GenesisState `json:"app_state"`
}

// NewDefaultGenesisDoc returns a genesis doc with the oracle network initialized for admin
func NewDefaultGenesisDoc(admin string, genesisTime time.Time) (*GenesisDoc, error) {
	return NewGenesisDoc(genesisTime, types.NewGenesisState(admin))
}

// NewGenesisDoc wraps an oraclenet genesis state in a genesis doc
func NewGenesisDoc(genesisTime time.Time, gs *types.GenesisState) (*GenesisDoc, error) {
	bz, err := types.ModuleCdc.MarshalJSON(gs)
	if err != nil {
		return nil, errorsmod.Wrap(ErrInvalidGenesis, err.Error())
	}
	return &GenesisDoc{
		GenesisTime: genesisTime.UTC(),
		AppState:    GenesisState{types.ModuleName: bz},
	}, nil
}

// OracleNetGenesis decodes and validates the oraclenet section of the app state
func (doc *GenesisDoc) OracleNetGenesis() (*types.GenesisState, error) {
	raw, ok := doc.AppState[types.ModuleName]
	if !ok {
		return nil, errorsmod.Wrapf(ErrInvalidGenesis, "app_state has no %s section", types.ModuleName)
	}
	var gs types.GenesisState
	if err := types.ModuleCdc.UnmarshalJSON(raw, &gs); err != nil {
		return nil, errorsmod.Wrapf(ErrInvalidGenesis, "decode %s genesis: %s", types.ModuleName, err)
	}
	if err := gs.Validate(); err != nil {
		return nil, errorsmod.Wrap(ErrInvalidGenesis, err.Error())
	}
	return &gs, nil
}

// ReadGenesisFile loads a genesis doc from path
func ReadGenesisFile(path string) (*GenesisDoc, error) {
	bz, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read genesis file: %w", err)
	}
	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return nil, errorsmod.Wrapf(ErrInvalidGenesis, "parse %s: %s", path, err)
	}
	if doc.GenesisTime.IsZero() {
		return nil, errorsmod.Wrap(ErrInvalidGenesis, "genesis_time is required")
	}
	return &doc, nil
}

// WriteGenesisFile writes doc to path, creating parent directories
func WriteGenesisFile(path string, doc *GenesisDoc) error {
	bz, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode genesis: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create genesis dir: %w", err)
	}
	return os.WriteFile(path, bz, 0o644)
}

// ExportGenesisDoc exports the committed state as a genesis doc stamped with the last block time
func (app *OracleApp) ExportGenesisDoc() (*GenesisDoc, error) {
	gs, err := app.ExportGenesis()
	if err != nil {
		return nil, err
	}
	return NewGenesisDoc(app.LastBlockTime(), gs)
}
