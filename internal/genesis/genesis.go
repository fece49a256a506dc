// Package genesis builds the network's bootstrap Snap: the fixed
// "Jenny" validator every node must derive identically at round 0
// (spec.md §6 "Default account (bootstrap)").
package genesis

import (
	"crypto/sha256"

	"empower1.com/empower1chain/internal/block"
	"empower1.com/empower1chain/internal/params"
	"empower1.com/empower1chain/internal/signer"
	"empower1.com/empower1chain/internal/state"
	"empower1.com/empower1chain/internal/statetypes"
)

// jennySeed is a fixed Ed25519 seed, not a secret: every node derives
// the same "Jenny" identity from it, so the bootstrap validator's public
// key is part of the protocol, not configuration.
var jennySeed = sha256.Sum256([]byte("empower1-jenny-bootstrap-seed"))

// Keypair returns the fixed bootstrap validator's keypair.
func Keypair() signer.KeyPair {
	return signer.FromSeed(jennySeed)
}

// Build constructs the genesis Snap at the given wall-clock timestamp:
// Jenny alone holds JENNY_SLOTS slots and JENNY_SLOTS*VALIDATOR_STAKE
// additional coins, guaranteeing leader election always has an occupied
// slot to land on (spec.md §9 "Leader election edge").
func Build(timestampMs int64) block.Snap {
	jenny := Keypair()
	id := jenny.Public.Identity()

	s := state.New()

	accounts, _, err := s.Accounts.Insert(id[:], statetypes.Account{
		Balance: uint32(params.JennySlots) * uint32(params.ValidatorStake),
	})
	if err != nil {
		panic(err)
	}
	s.Accounts = accounts

	validator := statetypes.Validator{PublicKey: jenny.Public, Opposed: map[statetypes.AccountID]struct{}{}}
	for i := statetypes.SlotIndex(0); i < params.JennySlots; i++ {
		slots, _, err := s.Slots.Insert(i.Key(), statetypes.Slot{RoundStaked: 0, Owner: id})
		if err != nil {
			panic(err)
		}
		s.Slots = slots
		validator.SlotsHeld++
	}

	validators, _, err := s.Validators.Insert(id[:], validator)
	if err != nil {
		panic(err)
	}
	s.Validators = validators

	return block.Genesis(jenny, s, timestampMs)
}
