// Package block implements the block header, the Builder that packages
// transactions into a signed block, and the Verifier that checks a
// candidate block against a node's current head (spec.md §4.3, §4.4).
package block

import (
	"crypto/sha256"

	"empower1.com/empower1chain/internal/canon"
	"empower1.com/empower1chain/internal/leader"
	"empower1.com/empower1chain/internal/signer"
)

// Header is the unsigned metadata of a block (spec.md §4.3 step 1).
type Header struct {
	PrevHash    [32]byte
	Round       uint64
	Proposal    uint64
	TimestampMs int64
	Seed        leader.Seed
	Beacon      signer.Signature
}

// Commits pins the two roots a header attests to: the post-application
// state commitment and the transaction-sequence commitment.
type Commits struct {
	StateRoot  [32]byte
	TxnseqRoot [32]byte
}

// SignedHeader bundles a Header and its Commits with the proposer's
// public key and signature over both (spec.md §4.4 clause 2).
type SignedHeader struct {
	Header    Header
	Commits   Commits
	Signer    signer.PublicKey
	Signature signer.Signature
}

type headerWire struct {
	PrevHash    string `json:"prev_hash"`
	Round       uint64 `json:"round"`
	Proposal    uint64 `json:"proposal"`
	TimestampMs int64  `json:"timestamp_ms"`
	Seed        string `json:"seed"`
	Beacon      string `json:"beacon"`
	StateRoot   string `json:"state_root"`
	TxnseqRoot  string `json:"txnseq_root"`
	Signer      string `json:"signer"`
}

// signingBytes is the exact byte sequence the proposer signs and the
// verifier re-derives: header fields plus commits plus the signer's
// public key, but never the signature itself.
func signingBytes(h Header, c Commits, pk signer.PublicKey) []byte {
	return canon.Bytes(headerWire{
		PrevHash:    hexString(h.PrevHash[:]),
		Round:       h.Round,
		Proposal:    h.Proposal,
		TimestampMs: h.TimestampMs,
		Seed:        hexString(h.Seed[:]),
		Beacon:      hexString(h.Beacon[:]),
		StateRoot:   hexString(c.StateRoot[:]),
		TxnseqRoot:  hexString(c.TxnseqRoot[:]),
		Signer:      hexString(pk[:]),
	})
}

// SigningBytes exposes signingBytes for the block verifier.
func (sh SignedHeader) SigningBytes() []byte {
	return signingBytes(sh.Header, sh.Commits, sh.Signer)
}

// Hash identifies the block: H(signing bytes || signature). Unlike
// SigningBytes, this commits to the signature too, so two headers that
// differ only in signature (impossible for honest signers, but not
// excluded structurally) hash differently.
func (sh SignedHeader) Hash() [32]byte {
	h := sha256.New()
	h.Write(sh.SigningBytes())
	h.Write(sh.Signature[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
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
