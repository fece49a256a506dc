package leader

import (
	"empower1.com/empower1chain/internal/signer"
	"empower1.com/empower1chain/internal/state"
	"empower1.com/empower1chain/internal/statetypes"
)

// FromState adapts a *state.State into the SlotLookup/ValidatorLookup
// pair Elect needs, so callers in internal/block and internal/node don't
// have to hand-write the MerkleMap plumbing at every call site.
func FromState(s *state.State) (SlotLookup, ValidatorLookup) {
	slots := func(idx statetypes.SlotIndex) (statetypes.AccountID, bool, error) {
		slot, found, err := s.Slots.Get(idx.Key())
		if err != nil || !found {
			return statetypes.AccountID{}, false, err
		}
		return slot.Owner, true, nil
	}
	validators := func(owner statetypes.AccountID) (signer.PublicKey, bool, error) {
		v, found, err := s.Validators.Get(owner[:])
		if err != nil || !found {
			return signer.PublicKey{}, false, err
		}
		return v.PublicKey, true, nil
	}
	return slots, validators
}
