// Package statetypes holds the typed records committed into the five
// MerkleMaps of the replicated state: accounts, slots, validators,
// senators, rollups (spec.md §3 "State").
package statetypes

import (
	"encoding/binary"
	"sort"

	"empower1.com/empower1chain/internal/canon"
	"empower1.com/empower1chain/internal/signer"
)

// AccountID identifies an account: the SHA-256 digest of its owner's
// signing public key (spec.md §3 "Account identity").
type AccountID = signer.AccountID

// Account is the accounts-map value: a balance and a strictly-increasing
// nonce (spec.md §3, invariant 1).
type Account struct {
	Balance uint32
	Nonce   uint32
}

type accountWire struct {
	Balance uint32 `json:"balance"`
	Nonce   uint32 `json:"nonce"`
}

// CanonicalBytes implements merkletrie.Value.
func (a Account) CanonicalBytes() []byte {
	return canon.Bytes(accountWire{Balance: a.Balance, Nonce: a.Nonce})
}

// SlotIndex is a validator slot, a 4-byte big-endian index in
// [0, VALIDATOR_SLOTS) (spec.md §3 "Validator slot").
type SlotIndex uint32

// Key returns the canonical 4-byte big-endian trie key for a slot
// index.
func (s SlotIndex) Key() []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(s))
	return b[:]
}

// Slot is the slots-map value for an occupied slot: the round at which it
// was staked and the account that owns it.
type Slot struct {
	RoundStaked uint64
	Owner       AccountID
}

type slotWire struct {
	RoundStaked uint64 `json:"round_staked"`
	Owner       string `json:"owner"`
}

// CanonicalBytes implements merkletrie.Value.
func (s Slot) CanonicalBytes() []byte {
	return canon.Bytes(slotWire{RoundStaked: s.RoundStaked, Owner: hexString(s.Owner[:])})
}

// Validator is the validators-map value, indexed by AccountID (spec.md
// §3 "Validator record").
type Validator struct {
	SlotsHeld uint32
	PublicKey signer.PublicKey
	// Opposed is the set of senators currently opposing this validator's
	// unstake/stake actions. A validator cannot unstake while Opposed is
	// non-empty — spec.md §3, §4.2, and Open Question (a) in DESIGN.md:
	// Opposed's only observable effect anywhere in this module is
	// LockedStake.
	Opposed map[AccountID]struct{}
}

type validatorWire struct {
	SlotsHeld uint32   `json:"slots_held"`
	PublicKey string   `json:"public_key"`
	Opposed   []string `json:"opposed"`
}

// CanonicalBytes implements merkletrie.Value.
func (v Validator) CanonicalBytes() []byte {
	opposed := make([]string, 0, len(v.Opposed))
	for id := range v.Opposed {
		opposed = append(opposed, hexString(id[:]))
	}
	sort.Strings(opposed)
	return canon.Bytes(validatorWire{
		SlotsHeld: v.SlotsHeld,
		PublicKey: hexString(v.PublicKey[:]),
		Opposed:   opposed,
	})
}

// IsLocked reports whether the validator's stake is locked against
// Stake/Unstake (spec.md §4.2).
func (v Validator) IsLocked() bool {
	return len(v.Opposed) > 0
}

const hexDigits = "0123456789abcdef"

func hexString(b []byte) string {
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexDigits[c>>4]
		out[i*2+1] = hexDigits[c&0x0f]
	}
	return string(out)
}
