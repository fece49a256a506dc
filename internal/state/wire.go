package state

import (
	"encoding/json"
	"fmt"

	"empower1.com/empower1chain/internal/merkletrie"
	"empower1.com/empower1chain/internal/statetypes"
)

type stateWire struct {
	Accounts   json.RawMessage `json:"accounts"`
	Slots      json.RawMessage `json:"slots"`
	Validators json.RawMessage `json:"validators"`
	Senators   json.RawMessage `json:"senators"`
	Rollups    json.RawMessage `json:"rollups"`
}

// EncodeState serialises the full state (all five MerkleMaps, structure
// and all) so a joining or far-behind node can adopt it directly rather
// than replaying every block since genesis. The result's Commit() can be
// checked against a block header's StateRoot before the caller trusts it.
func EncodeState(s *State) ([]byte, error) {
	accounts, err := s.Accounts.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("state: encode accounts: %w", err)
	}
	slots, err := s.Slots.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("state: encode slots: %w", err)
	}
	validators, err := s.Validators.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("state: encode validators: %w", err)
	}
	senators, err := s.Senators.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("state: encode senators: %w", err)
	}
	rollups, err := s.Rollups.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("state: encode rollups: %w", err)
	}
	return json.Marshal(stateWire{
		Accounts:   accounts,
		Slots:      slots,
		Validators: validators,
		Senators:   senators,
		Rollups:    rollups,
	})
}

// DecodeState is the inverse of EncodeState, the counterpart a joining
// node calls against a peer's /p2p/state response.
func DecodeState(data []byte) (*State, error) {
	var w stateWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("state: decode: %w", err)
	}

	accounts, err := merkletrie.FromWire[statetypes.Account](w.Accounts, statetypes.DecodeAccount)
	if err != nil {
		return nil, fmt.Errorf("state: decode accounts: %w", err)
	}
	slots, err := merkletrie.FromWire[statetypes.Slot](w.Slots, statetypes.DecodeSlot)
	if err != nil {
		return nil, fmt.Errorf("state: decode slots: %w", err)
	}
	validators, err := merkletrie.FromWire[statetypes.Validator](w.Validators, statetypes.DecodeValidator)
	if err != nil {
		return nil, fmt.Errorf("state: decode validators: %w", err)
	}
	senators, err := merkletrie.FromWire[statetypes.Senator](w.Senators, statetypes.DecodeSenator)
	if err != nil {
		return nil, fmt.Errorf("state: decode senators: %w", err)
	}
	rollups, err := merkletrie.FromWire[statetypes.Rollup](w.Rollups, statetypes.DecodeRollup)
	if err != nil {
		return nil, fmt.Errorf("state: decode rollups: %w", err)
	}

	return &State{
		Accounts:   accounts,
		Slots:      slots,
		Validators: validators,
		Senators:   senators,
		Rollups:    rollups,
	}, nil
}
