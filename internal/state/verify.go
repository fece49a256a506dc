package state

import (
	"empower1.com/empower1chain/internal/params"
	"empower1.com/empower1chain/internal/signer"
	"empower1.com/empower1chain/internal/statetypes"
	"empower1.com/empower1chain/internal/txn"
)

// Verify computes the ordered list of Updates a signed transaction
// implies against s, without mutating s. Apply calls Verify and then
// materializes the result, so this pipeline is the single source of
// truth for transaction semantics — the block builder speculatively
// verifies candidate transactions through this same path, and the block
// verifier re-derives identical Updates when replaying a received
// block (spec.md §4.2).
func (s *State) Verify(tx txn.SignedTxn, meta Metadata) ([]Update, error) {
	sender := tx.Sender()
	acct, found, err := s.Accounts.Get(sender[:])
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, txn.ErrBadFromPk
	}

	if err := tx.VerifySignature(); err != nil {
		return nil, txn.ErrBadSig
	}

	switch {
	case tx.Txn.Nonce < acct.Nonce:
		return nil, txn.ErrSmallNonce
	case tx.Txn.Nonce > acct.Nonce:
		return nil, txn.ErrBigNonce
	}
	acct.Nonce++

	switch tx.Txn.Payload.Kind {
	case txn.KindPayment:
		return s.verifyPayment(sender, acct, tx.Txn.Payload)
	case txn.KindStake:
		return s.verifyStake(sender, acct, tx.Txn.Payload, tx.PublicKey, meta)
	case txn.KindUnstake:
		return s.verifyUnstake(sender, acct, tx.Txn.Payload)
	default:
		return nil, txn.ErrUnsupportedPayload
	}
}

func (s *State) verifyPayment(sender statetypes.AccountID, senderAcct statetypes.Account, p txn.Payload) ([]Update, error) {
	if senderAcct.Balance < p.Amount {
		return nil, txn.ErrInsuffBal
	}

	if p.To == sender {
		// Self-payment: only the nonce bump (already folded into
		// senderAcct) takes effect, no funds move.
		return []Update{putAccount(sender, senderAcct)}, nil
	}

	recipient, found, err := s.Accounts.Get(p.To[:])
	if err != nil {
		return nil, err
	}
	if !found {
		recipient = statetypes.Account{}
	}

	senderAcct.Balance -= p.Amount
	recipient.Balance += p.Amount

	return []Update{
		putAccount(sender, senderAcct),
		putAccount(p.To, recipient),
	}, nil
}

func (s *State) verifyStake(sender statetypes.AccountID, senderAcct statetypes.Account, p txn.Payload, pk signer.PublicKey, meta Metadata) ([]Update, error) {
	if senderAcct.Balance < params.ValidatorStake {
		return nil, txn.ErrInsuffStake
	}

	if p.Slot >= params.ValidatorSlots {
		return nil, txn.ErrBadStakeIdx
	}
	_, occupied, err := s.Slots.Get(p.Slot.Key())
	if err != nil {
		return nil, err
	}
	if occupied {
		return nil, txn.ErrBadStakeIdx
	}

	validator, found, err := s.Validators.Get(sender[:])
	if err != nil {
		return nil, err
	}
	if !found {
		validator = statetypes.Validator{PublicKey: pk, Opposed: map[statetypes.AccountID]struct{}{}}
	}
	if validator.IsLocked() {
		return nil, txn.ErrLockedStake
	}

	senderAcct.Balance -= params.ValidatorStake
	validator.SlotsHeld++

	return []Update{
		putAccount(sender, senderAcct),
		putSlot(p.Slot, statetypes.Slot{RoundStaked: meta.Round, Owner: sender}),
		putValidator(sender, validator),
	}, nil
}

func (s *State) verifyUnstake(sender statetypes.AccountID, senderAcct statetypes.Account, p txn.Payload) ([]Update, error) {
	slot, occupied, err := s.Slots.Get(p.Slot.Key())
	if err != nil {
		return nil, err
	}
	if !occupied || slot.Owner != sender {
		return nil, txn.ErrBadStakeIdx
	}

	validator, found, err := s.Validators.Get(sender[:])
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, txn.ErrBadStakeIdx
	}
	if validator.IsLocked() {
		return nil, txn.ErrLockedStake
	}

	senderAcct.Balance += params.ValidatorStake
	validator.SlotsHeld--

	updates := []Update{
		putAccount(sender, senderAcct),
		deleteSlot(p.Slot),
	}
	if validator.SlotsHeld == 0 {
		updates = append(updates, deleteValidator(sender))
	} else {
		updates = append(updates, putValidator(sender, validator))
	}
	return updates, nil
}

func putAccount(id statetypes.AccountID, a statetypes.Account) Update {
	return Update{Component: ComponentAccounts, Op: OpPut, Key: append([]byte{}, id[:]...), Value: a}
}

func putSlot(idx statetypes.SlotIndex, v statetypes.Slot) Update {
	return Update{Component: ComponentSlots, Op: OpPut, Key: idx.Key(), Value: v}
}

func deleteSlot(idx statetypes.SlotIndex) Update {
	return Update{Component: ComponentSlots, Op: OpDelete, Key: idx.Key()}
}

func putValidator(id statetypes.AccountID, v statetypes.Validator) Update {
	return Update{Component: ComponentValidators, Op: OpPut, Key: append([]byte{}, id[:]...), Value: v}
}

func deleteValidator(id statetypes.AccountID) Update {
	return Update{Component: ComponentValidators, Op: OpDelete, Key: append([]byte{}, id[:]...)}
}
