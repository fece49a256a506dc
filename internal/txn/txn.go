// Package txn defines the transaction payload variants, the signed
// transaction envelope, and the deterministic total order over signed
// transactions (spec.md §3 "Transaction").
package txn

import (
	"bytes"

	"empower1.com/empower1chain/internal/canon"
	"empower1.com/empower1chain/internal/signer"
	"empower1.com/empower1chain/internal/statetypes"
)

// AccountID and SlotIndex are re-exported for convenience so callers
// building transactions don't need to import statetypes directly.
type AccountID = statetypes.AccountID
type SlotIndex = statetypes.SlotIndex

// Kind identifies which payload variant a Payload carries. Debit,
// Credit, Header, Oppose, and Support are reserved for the rollup and
// senator features; spec.md §3 calls their semantics a non-goal, and
// spec.md §9 Open Question (b) directs that state.Verify reject them
// with ErrUnsupportedPayload rather than silently ignoring them.
type Kind uint8

const (
	KindPayment Kind = iota
	KindStake
	KindUnstake
	KindDebit
	KindCredit
	KindHeader
	KindOppose
	KindSupport
)

func (k Kind) String() string {
	switch k {
	case KindPayment:
		return "Payment"
	case KindStake:
		return "Stake"
	case KindUnstake:
		return "Unstake"
	case KindDebit:
		return "Debit"
	case KindCredit:
		return "Credit"
	case KindHeader:
		return "Header"
	case KindOppose:
		return "Oppose"
	case KindSupport:
		return "Support"
	default:
		return "Unknown"
	}
}

// Payload is the tagged-union body of a transaction. Only the fields
// relevant to Kind are meaningful; this mirrors the teacher's TxType
// discriminated-struct convention (internal/core/transaction.go) rather
// than a Go interface, since every variant here is a fixed, small set of
// scalar fields.
type Payload struct {
	Kind   Kind
	To     AccountID // Payment
	Amount uint32    // Payment
	Slot   SlotIndex // Stake, Unstake
}

// NewPayment builds a Payment payload.
func NewPayment(to AccountID, amount uint32) Payload {
	return Payload{Kind: KindPayment, To: to, Amount: amount}
}

// NewStake builds a Stake payload.
func NewStake(slot SlotIndex) Payload {
	return Payload{Kind: KindStake, Slot: slot}
}

// NewUnstake builds an Unstake payload.
func NewUnstake(slot SlotIndex) Payload {
	return Payload{Kind: KindUnstake, Slot: slot}
}

type payloadWire struct {
	Kind   uint8  `json:"kind"`
	To     string `json:"to,omitempty"`
	Amount uint32 `json:"amount,omitempty"`
	Slot   uint32 `json:"slot,omitempty"`
}

func (p Payload) canonicalWire() payloadWire {
	w := payloadWire{Kind: uint8(p.Kind)}
	switch p.Kind {
	case KindPayment:
		w.To = hexString(p.To[:])
		w.Amount = p.Amount
	case KindStake, KindUnstake:
		w.Slot = uint32(p.Slot)
	}
	return w
}

// RollupID optionally ties a transaction to a rollup batch. Rollups are
// a non-goal of the core spec (spec.md §3); the field is carried so the
// wire shape matches the original source's Txn struct, but no component
// inspects it beyond including it in the canonical payload.
type RollupID [32]byte

// Txn is the unsigned transaction body: payload, optional rollup tag,
// and nonce (spec.md §3).
type Txn struct {
	Payload   Payload
	OptRollup *RollupID
	Nonce     uint32
}

type txnWire struct {
	Payload   payloadWire `json:"payload"`
	OptRollup string      `json:"rollup,omitempty"`
	Nonce     uint32      `json:"nonce"`
}

// CanonicalBytes is the exact byte sequence signed over and hashed
// (spec.md §6 "Canonical serialisation").
func (t Txn) CanonicalBytes() []byte {
	w := txnWire{Payload: t.Payload.canonicalWire(), Nonce: t.Nonce}
	if t.OptRollup != nil {
		w.OptRollup = hexString(t.OptRollup[:])
	}
	return canon.Bytes(w)
}

// SignedTxn bundles a Txn with the sender's public key and a signature
// over the txn's canonical bytes (spec.md §3 "signed transaction").
type SignedTxn struct {
	Txn       Txn
	PublicKey signer.PublicKey
	Signature signer.Signature
}

// Sign produces a SignedTxn over t using kp.
func Sign(kp signer.KeyPair, t Txn) SignedTxn {
	return SignedTxn{
		Txn:       t,
		PublicKey: kp.Public,
		Signature: kp.Sign(t.CanonicalBytes()),
	}
}

// VerifySignature checks the embedded signature against the embedded
// public key over the txn's canonical bytes.
func (s SignedTxn) VerifySignature() error {
	return signer.Verify(s.PublicKey, s.Txn.CanonicalBytes(), s.Signature)
}

// Sender is the account identity derived from the signer's public key.
func (s SignedTxn) Sender() AccountID {
	return s.PublicKey.Identity()
}

type signedWire struct {
	Txn       txnWire `json:"txn"`
	PublicKey string  `json:"public_key"`
	Signature string  `json:"signature"`
}

// CanonicalBytes implements merkletrie.Value, so SignedTxn can be stored
// directly as the value type of a block body MerkleMap (spec.md §3
// "Body: a MerkleMap from 8-byte composite key... to signed
// transactions").
func (s SignedTxn) CanonicalBytes() []byte {
	w := signedWire{PublicKey: hexString(s.PublicKey[:]), Signature: hexString(s.Signature[:])}
	w.Txn.Payload = s.Txn.Payload.canonicalWire()
	w.Txn.Nonce = s.Txn.Nonce
	if s.Txn.OptRollup != nil {
		w.Txn.OptRollup = hexString(s.Txn.OptRollup[:])
	}
	return canon.Bytes(w)
}

// Less implements the total order over signed transactions required for
// deterministic pool iteration (spec.md §3, §9): lexicographic over
// (payload, nonce, sender bytes, signature bytes).
func (s SignedTxn) Less(other SignedTxn) bool {
	if c := bytes.Compare(s.Txn.Payload.canonicalBytesForOrder(), other.Txn.Payload.canonicalBytesForOrder()); c != 0 {
		return c < 0
	}
	if s.Txn.Nonce != other.Txn.Nonce {
		return s.Txn.Nonce < other.Txn.Nonce
	}
	if c := bytes.Compare(s.PublicKey[:], other.PublicKey[:]); c != 0 {
		return c < 0
	}
	return bytes.Compare(s.Signature[:], other.Signature[:]) < 0
}

func (p Payload) canonicalBytesForOrder() []byte {
	return canon.Bytes(p.canonicalWire())
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
