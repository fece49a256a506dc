package block

import (
	"errors"
	"fmt"

	"empower1.com/empower1chain/internal/txn"
)

// Block errors, spec.md §7 "Block errors". ErrNotApplicable signals the
// candidate doesn't extend this verifier's head at all, which is not a
// rejection — the caller should route the block to whichever Snap in
// its ring it does extend.
var (
	ErrNotApplicable = errors.New("block: candidate does not extend this head")
	ErrBadSig        = errors.New("block: header signature verification failed")
	ErrBadRound      = errors.New("block: round does not extend head by one")
	ErrBadBlockTime  = errors.New("block: timestamp does not match round and proposal")
	ErrBadBeacon     = errors.New("block: beacon is not a valid signature over head seed")
	ErrBadSeed       = errors.New("block: seed is not H(beacon)")
	ErrBadTxnseq     = errors.New("block: txnseq root mismatch or body fails valid_commits")
	ErrNotLeader     = errors.New("block: signer is not the elected leader for this proposal")
	ErrBadState      = errors.New("block: resulting state commitment mismatch")
	ErrBlockFull     = errors.New("block: builder has reached MAX_BLOCK_SIZE")
)

// BadTxnError wraps the transaction and underlying error from replaying
// a block's body during verification (spec.md §4.4 clause 9).
type BadTxnError struct {
	Txn txn.SignedTxn
	Err error
}

func (e *BadTxnError) Error() string {
	return fmt.Sprintf("block: transaction replay failed: %v", e.Err)
}

func (e *BadTxnError) Unwrap() error { return e.Err }
