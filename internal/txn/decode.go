package txn

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

func decodePayload(w payloadWire) (Payload, error) {
	p := Payload{Kind: Kind(w.Kind)}
	switch p.Kind {
	case KindPayment:
		id, err := decodeAccountID(w.To)
		if err != nil {
			return Payload{}, err
		}
		p.To = id
		p.Amount = w.Amount
	case KindStake, KindUnstake:
		p.Slot = SlotIndex(w.Slot)
	}
	return p, nil
}

// DecodeSignedTxn is the inverse of SignedTxn.CanonicalBytes, used by
// merkletrie.FromWire when reconstructing a block body received over the
// wire (spec.md §6).
func DecodeSignedTxn(b []byte) (SignedTxn, error) {
	var w signedWire
	if err := json.Unmarshal(b, &w); err != nil {
		return SignedTxn{}, fmt.Errorf("txn: decode signed txn: %w", err)
	}
	payload, err := decodePayload(w.Txn.Payload)
	if err != nil {
		return SignedTxn{}, err
	}
	var s SignedTxn
	s.Txn.Payload = payload
	s.Txn.Nonce = w.Txn.Nonce
	if w.Txn.OptRollup != "" {
		raw, err := hex.DecodeString(w.Txn.OptRollup)
		if err != nil || len(raw) != len(RollupID{}) {
			return SignedTxn{}, fmt.Errorf("txn: decode signed txn: bad rollup id")
		}
		var r RollupID
		copy(r[:], raw)
		s.Txn.OptRollup = &r
	}
	pkBytes, err := hex.DecodeString(w.PublicKey)
	if err != nil || len(pkBytes) != len(s.PublicKey) {
		return SignedTxn{}, fmt.Errorf("txn: decode signed txn: bad public key")
	}
	copy(s.PublicKey[:], pkBytes)
	sigBytes, err := hex.DecodeString(w.Signature)
	if err != nil || len(sigBytes) != len(s.Signature) {
		return SignedTxn{}, fmt.Errorf("txn: decode signed txn: bad signature")
	}
	copy(s.Signature[:], sigBytes)
	return s, nil
}

func decodeAccountID(s string) (AccountID, error) {
	var id AccountID
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != len(id) {
		return AccountID{}, fmt.Errorf("txn: bad account id %q", s)
	}
	copy(id[:], b)
	return id, nil
}
