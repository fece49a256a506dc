package statetypes

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"empower1.com/empower1chain/internal/canon"
)

// Senator is the senators-map value. The senator/governance feature that
// populates this map (Oppose/Support payloads) is a non-goal of the core
// spec (spec.md §3, §9 Open Question (a)); the map itself is still real
// and contributes to State.Commit()'s five-way concatenation, per
// original_source/src/state.rs keeping all five tries live independent
// of which payloads are implemented.
type Senator struct {
	Weight uint32
}

type senatorWire struct {
	Weight uint32 `json:"weight"`
}

// CanonicalBytes implements merkletrie.Value.
func (s Senator) CanonicalBytes() []byte {
	return canon.Bytes(senatorWire{Weight: s.Weight})
}

// DecodeSenator is the inverse of Senator.CanonicalBytes.
func DecodeSenator(b []byte) (Senator, error) {
	var w senatorWire
	if err := json.Unmarshal(b, &w); err != nil {
		return Senator{}, err
	}
	return Senator{Weight: w.Weight}, nil
}

// Rollup is the rollups-map value. Like Senator, the rollup feature
// (Debit/Credit/Header payloads) is a non-goal; the map is still
// present and committed.
type Rollup struct {
	Root [32]byte
}

type rollupWire struct {
	Root string `json:"root"`
}

// CanonicalBytes implements merkletrie.Value.
func (r Rollup) CanonicalBytes() []byte {
	return canon.Bytes(rollupWire{Root: hexString(r.Root[:])})
}

// DecodeRollup is the inverse of Rollup.CanonicalBytes.
func DecodeRollup(b []byte) (Rollup, error) {
	var w rollupWire
	if err := json.Unmarshal(b, &w); err != nil {
		return Rollup{}, err
	}
	raw, err := hex.DecodeString(w.Root)
	if err != nil || len(raw) != 32 {
		return Rollup{}, fmt.Errorf("statetypes: decode rollup: bad root")
	}
	var out Rollup
	copy(out.Root[:], raw)
	return out, nil
}
