package block

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"empower1.com/empower1chain/internal/merkletrie"
	"empower1.com/empower1chain/internal/txn"
)

type blockWire struct {
	Header    headerWire      `json:"header"`
	Signature string          `json:"signature"`
	Body      json.RawMessage `json:"body"`
}

// EncodeBlock produces the canonical wire form of a full block, for the
// gossip transport rather than for signing (spec.md §6 gossip wire
// format). The body is encoded through merkletrie's own wire format so a
// peer can reconstruct and independently re-verify its commitment.
func EncodeBlock(b Block) ([]byte, error) {
	body, err := json.Marshal(b.Body)
	if err != nil {
		return nil, fmt.Errorf("block: encode body: %w", err)
	}
	sh := b.SignedHeader
	w := blockWire{
		Header: headerWire{
			PrevHash:    hexString(sh.Header.PrevHash[:]),
			Round:       sh.Header.Round,
			Proposal:    sh.Header.Proposal,
			TimestampMs: sh.Header.TimestampMs,
			Seed:        hexString(sh.Header.Seed[:]),
			Beacon:      hexString(sh.Header.Beacon[:]),
			StateRoot:   hexString(sh.Commits.StateRoot[:]),
			TxnseqRoot:  hexString(sh.Commits.TxnseqRoot[:]),
			Signer:      hexString(sh.Signer[:]),
		},
		Signature: hexString(sh.Signature[:]),
		Body:      body,
	}
	return json.Marshal(w)
}

// DecodeBlock is the inverse of EncodeBlock.
func DecodeBlock(data []byte) (Block, error) {
	var w blockWire
	if err := json.Unmarshal(data, &w); err != nil {
		return Block{}, fmt.Errorf("block: decode: %w", err)
	}

	var sh SignedHeader
	if err := hexInto(w.Header.PrevHash, sh.Header.PrevHash[:]); err != nil {
		return Block{}, err
	}
	sh.Header.Round = w.Header.Round
	sh.Header.Proposal = w.Header.Proposal
	sh.Header.TimestampMs = w.Header.TimestampMs
	if err := hexInto(w.Header.Seed, sh.Header.Seed[:]); err != nil {
		return Block{}, err
	}
	if err := hexInto(w.Header.Beacon, sh.Header.Beacon[:]); err != nil {
		return Block{}, err
	}
	if err := hexInto(w.Header.StateRoot, sh.Commits.StateRoot[:]); err != nil {
		return Block{}, err
	}
	if err := hexInto(w.Header.TxnseqRoot, sh.Commits.TxnseqRoot[:]); err != nil {
		return Block{}, err
	}
	if err := hexInto(w.Header.Signer, sh.Signer[:]); err != nil {
		return Block{}, err
	}
	if err := hexInto(w.Signature, sh.Signature[:]); err != nil {
		return Block{}, err
	}

	body, err := merkletrie.FromWire(w.Body, txn.DecodeSignedTxn)
	if err != nil {
		return Block{}, fmt.Errorf("block: decode body: %w", err)
	}

	return Block{SignedHeader: sh, Body: body}, nil
}

func hexInto(s string, dst []byte) error {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != len(dst) {
		return fmt.Errorf("block: bad hex field %q", s)
	}
	copy(dst, b)
	return nil
}
