package block

import (
	"encoding/binary"

	"empower1.com/empower1chain/internal/merkletrie"
	"empower1.com/empower1chain/internal/signer"
	"empower1.com/empower1chain/internal/state"
	"empower1.com/empower1chain/internal/txn"
)

// Block is a signed header plus its transaction-sequence body: a
// MerkleMap from an 8-byte composite key to signed transactions
// (spec.md §3 "Body").
type Block struct {
	SignedHeader SignedHeader
	Body         *merkletrie.MerkleMap[txn.SignedTxn]
}

// Snap is the persistent triple a node retains per accepted block: the
// block itself, its identifying hash, and the state that results from
// applying it (spec.md GLOSSARY "Snap").
type Snap struct {
	Block     Block
	BlockHash [32]byte
	State     *state.State
}

func metadataOf(h Header) state.Metadata {
	return state.Metadata{Round: h.Round, Proposal: h.Proposal, TimestampMs: h.TimestampMs}
}

// compositeKey packs (batch, count) into the 8-byte big-endian key the
// body map is indexed by (spec.md §4.3 step 3).
func compositeKey(batch, count uint32) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], (uint64(batch)<<32)|uint64(count))
	return b[:]
}

// Genesis builds the bootstrap Snap: round 0, an all-zero prev_hash and
// beacon, and the given initial state. It is not produced by a Builder
// since there is no prior head to extend — every node starts here
// (spec.md §6 "Jenny" bootstrap; §9 "genesis state must contain at
// least one slot"). kp signs the otherwise-empty header so the genesis
// Snap carries a verifiable Signer for the node that minted it.
func Genesis(kp signer.KeyPair, initial *state.State, timestampMs int64) Snap {
	body := merkletrie.New[txn.SignedTxn]()
	header := Header{TimestampMs: timestampMs}
	commits := Commits{StateRoot: initial.Commit(), TxnseqRoot: body.Commit()}
	sh := SignedHeader{Header: header, Commits: commits, Signer: kp.Public}
	sh.Signature = kp.Sign(signingBytes(header, commits, kp.Public))
	return Snap{
		Block:     Block{SignedHeader: sh, Body: body},
		BlockHash: sh.Hash(),
		State:     initial,
	}
}
