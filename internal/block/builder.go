package block

import (
	"crypto/sha256"

	"empower1.com/empower1chain/internal/merkletrie"
	"empower1.com/empower1chain/internal/params"
	"empower1.com/empower1chain/internal/signer"
	"empower1.com/empower1chain/internal/state"
	"empower1.com/empower1chain/internal/txn"
)

// Builder assembles a candidate block on top of a head Snap (spec.md
// §4.3). It owns a private clone of the head's state; transactions
// added through Add are applied against that clone, never the head's,
// so a Builder never races with a concurrent verifier reading the head.
type Builder struct {
	kp     signer.KeyPair
	header Header
	state  *state.State
	body   *merkletrie.MerkleMap[txn.SignedTxn]
	batch  uint32
	count  uint32
	size   int
}

// New starts a builder extending head for the given 1-based proposal
// index (spec.md §4.3 step 1).
func New(head Snap, kp signer.KeyPair, proposal uint64) *Builder {
	prevHeader := head.Block.SignedHeader.Header
	beacon := kp.Sign(prevHeader.Seed[:])
	header := Header{
		PrevHash:    head.BlockHash,
		Round:       prevHeader.Round + 1,
		Proposal:    proposal,
		TimestampMs: prevHeader.TimestampMs + int64(proposal)*params.BlockTimeMs,
		Seed:        sha256.Sum256(beacon[:]),
		Beacon:      beacon,
	}
	return &Builder{
		kp:     kp,
		header: header,
		state:  head.State.Clone(),
		body:   merkletrie.New[txn.SignedTxn](),
	}
}

// Round reports the round this builder is constructing.
func (b *Builder) Round() uint64 { return b.header.Round }

// Proposal reports the proposal index this builder is constructing for.
func (b *Builder) Proposal() uint64 { return b.header.Proposal }

// Len reports how many transactions have been added so far.
func (b *Builder) Len() int { return b.size }

func (b *Builder) metadata() state.Metadata {
	return state.Metadata{Round: b.header.Round, Proposal: b.header.Proposal, TimestampMs: b.header.TimestampMs}
}

// Add attempts to apply tx against the builder's private state clone. On
// success it is appended to the body at the next composite key and the
// builder's state reflects the application; on failure the builder is
// unchanged and the error is returned so the caller can decide whether
// to discard or retry the transaction elsewhere (spec.md §4.3 step 3).
func (b *Builder) Add(tx txn.SignedTxn) error {
	if b.size >= params.MaxBlockSize {
		return ErrBlockFull
	}
	if err := b.state.Apply(tx, b.metadata()); err != nil {
		return err
	}
	newBody, _, err := b.body.Insert(compositeKey(b.batch, b.count), tx)
	if err != nil {
		return err
	}
	b.body = newBody
	b.size++
	b.count++
	if b.count == params.TxnBatchSize {
		b.batch++
		b.count = 0
	}
	return nil
}

// Finalize commits the builder's state and body, signs the header, and
// returns the resulting Snap (spec.md §4.3 step 4).
func (b *Builder) Finalize() Snap {
	commits := Commits{StateRoot: b.state.Commit(), TxnseqRoot: b.body.Commit()}
	sh := SignedHeader{Header: b.header, Commits: commits, Signer: b.kp.Public}
	sh.Signature = b.kp.Sign(signingBytes(b.header, commits, b.kp.Public))
	blk := Block{SignedHeader: sh, Body: b.body}
	return Snap{Block: blk, BlockHash: sh.Hash(), State: b.state}
}
