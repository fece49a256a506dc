package txn

import "errors"

// Transaction errors, spec.md §7 "Transaction errors (synchronous,
// per-tx)". NoPreimage has no counterpart here: internal/state returns
// merkletrie.ErrNoPreimage unchanged when a trie lookup surfaces it.
var (
	ErrBadFromPk         = errors.New("txn: sender account not found")
	ErrBadSig            = errors.New("txn: signature verification failed")
	ErrBadStakeIdx       = errors.New("txn: slot occupied, out of range, or not owned by sender")
	ErrInsuffBal         = errors.New("txn: insufficient balance")
	ErrInsuffStake       = errors.New("txn: insufficient stake")
	ErrSmallNonce        = errors.New("txn: nonce smaller than expected")
	ErrBigNonce          = errors.New("txn: nonce larger than expected")
	ErrLockedStake       = errors.New("txn: validator stake is locked by opposition")
	ErrUnsupportedPayload = errors.New("txn: payload variant is not implemented")
)
