package statetypes

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// DecodeAccount parses the canonical bytes of an Account back into a
// value, the inverse of Account.CanonicalBytes. It is supplied to
// merkletrie.FromWire when reconstructing the accounts map from the
// wire.
func DecodeAccount(b []byte) (Account, error) {
	var w accountWire
	if err := json.Unmarshal(b, &w); err != nil {
		return Account{}, fmt.Errorf("statetypes: decode account: %w", err)
	}
	return Account{Balance: w.Balance, Nonce: w.Nonce}, nil
}

// DecodeSlot is the inverse of Slot.CanonicalBytes.
func DecodeSlot(b []byte) (Slot, error) {
	var w slotWire
	if err := json.Unmarshal(b, &w); err != nil {
		return Slot{}, fmt.Errorf("statetypes: decode slot: %w", err)
	}
	owner, err := decodeAccountID(w.Owner)
	if err != nil {
		return Slot{}, err
	}
	return Slot{RoundStaked: w.RoundStaked, Owner: owner}, nil
}

// DecodeValidator is the inverse of Validator.CanonicalBytes.
func DecodeValidator(b []byte) (Validator, error) {
	var w validatorWire
	if err := json.Unmarshal(b, &w); err != nil {
		return Validator{}, fmt.Errorf("statetypes: decode validator: %w", err)
	}
	pkBytes, err := hex.DecodeString(w.PublicKey)
	if err != nil || len(pkBytes) != len(Validator{}.PublicKey) {
		return Validator{}, fmt.Errorf("statetypes: decode validator: bad public key")
	}
	var v Validator
	copy(v.PublicKey[:], pkBytes)
	v.SlotsHeld = w.SlotsHeld
	v.Opposed = make(map[AccountID]struct{}, len(w.Opposed))
	for _, s := range w.Opposed {
		id, err := decodeAccountID(s)
		if err != nil {
			return Validator{}, err
		}
		v.Opposed[id] = struct{}{}
	}
	return v, nil
}

func decodeAccountID(s string) (AccountID, error) {
	var id AccountID
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != len(id) {
		return AccountID{}, fmt.Errorf("statetypes: bad account id %q", s)
	}
	copy(id[:], b)
	return id, nil
}
