package block

import (
	"crypto/sha256"

	"empower1.com/empower1chain/internal/leader"
	"empower1.com/empower1chain/internal/params"
	"empower1.com/empower1chain/internal/signer"
)

// Verify checks a candidate block against head in the exact clause
// order of spec.md §4.4, returning the first failure. On success it
// returns the resulting Snap (the candidate plus the state reached by
// replaying its body), which the caller can install via its fork-ring
// bookkeeping.
func Verify(head Snap, candidate Block) (Snap, error) {
	sh := candidate.SignedHeader
	prev := head.Block.SignedHeader.Header

	if sh.Header.PrevHash != head.BlockHash {
		return Snap{}, ErrNotApplicable
	}
	if err := signer.Verify(sh.Signer, sh.SigningBytes(), sh.Signature); err != nil {
		return Snap{}, ErrBadSig
	}
	if sh.Header.Round != prev.Round+1 {
		return Snap{}, ErrBadRound
	}
	if sh.Header.TimestampMs != prev.TimestampMs+int64(sh.Header.Proposal)*params.BlockTimeMs {
		return Snap{}, ErrBadBlockTime
	}
	if err := signer.Verify(sh.Signer, prev.Seed[:], sh.Header.Beacon); err != nil {
		return Snap{}, ErrBadBeacon
	}
	if sh.Header.Seed != sha256.Sum256(sh.Header.Beacon[:]) {
		return Snap{}, ErrBadSeed
	}
	if sh.Commits.TxnseqRoot != candidate.Body.Commit() {
		return Snap{}, ErrBadTxnseq
	}
	if err := candidate.Body.ValidCommits(); err != nil {
		return Snap{}, ErrBadTxnseq
	}

	slotLookup, validatorLookup := leader.FromState(head.State)
	electedPk, err := leader.Elect(prev.Seed, slotLookup, validatorLookup, sh.Header.Proposal)
	if err != nil {
		return Snap{}, err
	}
	if electedPk != sh.Signer {
		return Snap{}, ErrNotLeader
	}

	next := head.State.Clone()
	meta := metadataOf(sh.Header)
	for _, e := range candidate.Body.Iter() {
		if err := next.Apply(e.Value, meta); err != nil {
			return Snap{}, &BadTxnError{Txn: e.Value, Err: err}
		}
	}
	if next.Commit() != sh.Commits.StateRoot {
		return Snap{}, ErrBadState
	}

	return Snap{Block: candidate, BlockHash: sh.Hash(), State: next}, nil
}
