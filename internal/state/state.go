// Package state manages the global state of the EmPower1 chain: five
// independent MerkleMaps (accounts, slots, validators, senators,
// rollups) and the verify/apply pipeline that turns signed transactions
// into state transitions.
package state

import (
	"crypto/sha256"

	"empower1.com/empower1chain/internal/merkletrie"
	"empower1.com/empower1chain/internal/statetypes"
)

// State is the five independent MerkleMaps that together make up the
// replicated state.
type State struct {
	Accounts   *merkletrie.MerkleMap[statetypes.Account]
	Slots      *merkletrie.MerkleMap[statetypes.Slot]
	Validators *merkletrie.MerkleMap[statetypes.Validator]
	Senators   *merkletrie.MerkleMap[statetypes.Senator]
	Rollups    *merkletrie.MerkleMap[statetypes.Rollup]
}

// New returns the empty state: five empty MerkleMaps.
func New() *State {
	return &State{
		Accounts:   merkletrie.New[statetypes.Account](),
		Slots:      merkletrie.New[statetypes.Slot](),
		Validators: merkletrie.New[statetypes.Validator](),
		Senators:   merkletrie.New[statetypes.Senator](),
		Rollups:    merkletrie.New[statetypes.Rollup](),
	}
}

// Clone returns a shallow copy of s: a new *State whose five MerkleMap
// fields alias the same immutable tries as s. Because every MerkleMap is
// persistent, this is O(1) and safe to hand to a block builder that will
// Apply further transactions without perturbing s.
func (s *State) Clone() *State {
	clone := *s
	return &clone
}

// Metadata is the per-block context a transaction is verified and applied
// against: the round it is being included in (Stake records it as
// round_staked) and the block's proposal timestamp.
type Metadata struct {
	Round       uint64
	Proposal    uint64
	TimestampMs int64
}

// Commit returns the state commitment: the digest of the concatenation
// of the five component commitments, in fixed order.
func (s *State) Commit() [32]byte {
	h := sha256.New()
	for _, c := range [][32]byte{
		s.Accounts.Commit(),
		s.Slots.Commit(),
		s.Validators.Commit(),
		s.Senators.Commit(),
		s.Rollups.Commit(),
	} {
		h.Write(c[:])
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
