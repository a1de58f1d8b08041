package types

import (
	"fmt"
)

// GenesisState is the full exported state of the oracle network
type GenesisState struct {
	Config      *NetworkConfig     `json:"config,omitempty"`
	Paused      bool               `json:"paused"`
	Providers   []OracleProvider   `json:"providers"`
	Feeds       []PriceFeed        `json:"feeds"`
	Rounds      []PriceRound       `json:"rounds"`
	Submissions []RoundSubmissions `json:"submissions"`
	Prices      []ResolvedPrice    `json:"prices"`
	Histories   []FeedHistory      `json:"histories"`
}

// DefaultGenesis returns an uninitialized network; Initialize must be called before use
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Providers:   []OracleProvider{},
		Feeds:       []PriceFeed{},
		Rounds:      []PriceRound{},
		Submissions: []RoundSubmissions{},
		Prices:      []ResolvedPrice{},
		Histories:   []FeedHistory{},
	}
}

// NewGenesisState returns a genesis initialized with the default config for admin
func NewGenesisState(admin string) *GenesisState {
	gs := DefaultGenesis()
	cfg := DefaultNetworkConfig(admin)
	gs.Config = &cfg
	return gs
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	if gs.Config == nil {
		if len(gs.Providers) > 0 || len(gs.Feeds) > 0 || gs.Paused {
			return fmt.Errorf("state without config must be empty")
		}
		return nil
	}
	cfg := *gs.Config
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if len(gs.Providers) > MaxRosterSize {
		return fmt.Errorf("roster of %d providers exceeds cap %d", len(gs.Providers), MaxRosterSize)
	}
	providers := make(map[string]bool, len(gs.Providers))
	for _, p := range gs.Providers {
		if err := validateAddress("provider", p.Address); err != nil {
			return err
		}
		if providers[p.Address] {
			return fmt.Errorf("duplicate provider %s", p.Address)
		}
		providers[p.Address] = true
		if p.Stake.IsNil() || !IsInt128(p.Stake) {
			return fmt.Errorf("provider %s: stake outside the 128-bit range", p.Address)
		}
		if p.Reputation > cfg.RepMax {
			return fmt.Errorf("provider %s: reputation %d exceeds rep_max %d", p.Address, p.Reputation, cfg.RepMax)
		}
		if p.Reputation == 0 && p.IsActive {
			return fmt.Errorf("provider %s: active with zero reputation", p.Address)
		}
	}

	if len(gs.Feeds) > MaxFeeds {
		return fmt.Errorf("catalog of %d feeds exceeds cap %d", len(gs.Feeds), MaxFeeds)
	}
	feeds := make(map[string]bool, len(gs.Feeds))
	for _, f := range gs.Feeds {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("feed %s: %w", f.FeedID, err)
		}
		if feeds[f.FeedID] {
			return fmt.Errorf("duplicate feed %s", f.FeedID)
		}
		feeds[f.FeedID] = true
	}

	rounds := make(map[string]uint64, len(gs.Rounds))
	for _, r := range gs.Rounds {
		if !feeds[r.FeedID] {
			return fmt.Errorf("round references unknown feed %s", r.FeedID)
		}
		if _, dup := rounds[r.FeedID]; dup {
			return fmt.Errorf("duplicate round for feed %s", r.FeedID)
		}
		if r.RoundID == 0 {
			return fmt.Errorf("round for feed %s has id 0", r.FeedID)
		}
		rounds[r.FeedID] = r.RoundID
	}

	for _, rs := range gs.Submissions {
		current, ok := rounds[rs.FeedID]
		if !ok {
			return fmt.Errorf("submissions reference feed %s without a round", rs.FeedID)
		}
		if rs.RoundID == 0 || rs.RoundID > current {
			return fmt.Errorf("submissions for feed %s reference round %d beyond current %d", rs.FeedID, rs.RoundID, current)
		}
		if len(rs.Submissions) > MaxRosterSize {
			return fmt.Errorf("submissions for %s/%d exceed roster cap", rs.FeedID, rs.RoundID)
		}
		seen := make(map[string]bool, len(rs.Submissions))
		for _, sub := range rs.Submissions {
			if seen[sub.Oracle] {
				return fmt.Errorf("duplicate submission by %s in %s/%d", sub.Oracle, rs.FeedID, rs.RoundID)
			}
			seen[sub.Oracle] = true
			if sub.Price.IsNil() || !sub.Price.IsPositive() || !IsInt128(sub.Price) {
				return fmt.Errorf("invalid submitted price in %s/%d", rs.FeedID, rs.RoundID)
			}
		}
	}

	priced := make(map[string]bool, len(gs.Prices))
	for _, p := range gs.Prices {
		if !feeds[p.FeedID] {
			return fmt.Errorf("price references unknown feed %s", p.FeedID)
		}
		if priced[p.FeedID] {
			return fmt.Errorf("duplicate price for feed %s", p.FeedID)
		}
		priced[p.FeedID] = true
		if p.RoundID > rounds[p.FeedID] {
			return fmt.Errorf("price for feed %s references round %d beyond current", p.FeedID, p.RoundID)
		}
		if p.Price.IsNil() || !IsInt128(p.Price) {
			return fmt.Errorf("price for feed %s outside the 128-bit range", p.FeedID)
		}
	}

	histories := make(map[string]bool, len(gs.Histories))
	for _, h := range gs.Histories {
		if !feeds[h.FeedID] {
			return fmt.Errorf("history references unknown feed %s", h.FeedID)
		}
		if histories[h.FeedID] {
			return fmt.Errorf("duplicate history for feed %s", h.FeedID)
		}
		histories[h.FeedID] = true
		if err := ValidateHistory(h.Entries); err != nil {
			return fmt.Errorf("history for feed %s: %w", h.FeedID, err)
		}
	}

	return nil
}

// ValidateHistory checks the FIFO bound and round ordering of a history window
func ValidateHistory(entries []PriceHistoryEntry) error {
	if len(entries) > MaxHistoryLen {
		return fmt.Errorf("%d entries exceed bound %d", len(entries), MaxHistoryLen)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].RoundID <= entries[i-1].RoundID {
			return fmt.Errorf("round ids not strictly increasing at index %d", i)
		}
	}
	return nil
}
