// Package leader implements the stake-weighted leader election walk
// (spec.md §4.5): starting from a round seed, repeatedly rehash until an
// occupied slot is drawn, skipping `proposal-1` such draws.
package leader

import (
	"crypto/sha256"
	"encoding/binary"
	"math/bits"

	"empower1.com/empower1chain/internal/params"
	"empower1.com/empower1chain/internal/signer"
	"empower1.com/empower1chain/internal/statetypes"
)

// Seed is the 32-byte round beacon the walk starts from.
type Seed [32]byte

// SlotLookup resolves an occupied slot index to its owning account, as
// the slots MerkleMap does.
type SlotLookup func(idx statetypes.SlotIndex) (owner statetypes.AccountID, occupied bool, err error)

// ValidatorLookup resolves an account to its validator record's public
// key, as the validators MerkleMap does.
type ValidatorLookup func(owner statetypes.AccountID) (pk signer.PublicKey, found bool, err error)

// idx maps a seed to a slot index: the first 8 bytes of H(s), interpreted
// as a big-endian u64, scaled into [0, VALIDATOR_SLOTS) (spec.md §4.5
// step 1). The scale is done in integer math (high 64 bits of the
// 128-bit product u*VALIDATOR_SLOTS) so the result is always strictly
// within range, unlike a float64 division which rounds up to exactly
// 1.0 for u near math.MaxUint64.
func idx(s Seed) statetypes.SlotIndex {
	h := sha256.Sum256(s[:])
	u := binary.BigEndian.Uint64(h[:8])
	hi, _ := bits.Mul64(u, uint64(params.ValidatorSlots))
	return statetypes.SlotIndex(hi)
}

func next(s Seed) Seed {
	return sha256.Sum256(s[:])
}

// Elect walks the seed forward until it selects the leader for the given
// proposal (1-based: proposal 1 is the first candidate drawn). It
// terminates as long as at least one slot is occupied, since every draw
// that lands on an occupied slot counts toward proposal.
func Elect(seed Seed, slots SlotLookup, validators ValidatorLookup, proposal uint64) (signer.PublicKey, error) {
	s := seed
	remaining := proposal
	for {
		owner, occupied, err := slots(idx(s))
		if err != nil {
			return signer.PublicKey{}, err
		}
		if occupied {
			remaining--
			if remaining == 0 {
				pk, found, err := validators(owner)
				if err != nil {
					return signer.PublicKey{}, err
				}
				if !found {
					return signer.PublicKey{}, ErrOwnerWithoutValidator
				}
				return pk, nil
			}
		}
		s = next(s)
	}
}
