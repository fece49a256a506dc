package node

import (
	"errors"
	"fmt"

	"empower1.com/empower1chain/internal/block"
)

// Node orchestrator errors, spec.md §7 "Node errors" / §4.6 receive_chain.
var (
	ErrBadRound       = errors.New("node: snap round is neither head.round nor head.round+1")
	ErrAlreadyHave    = errors.New("node: chain already fully present in the ring")
	ErrTooShort       = errors.New("node: chain does not exceed head round")
	ErrSmallTimestamp = errors.New("node: chain arrived too late relative to wall clock")
	ErrBigTimestamp   = errors.New("node: chain arrived too early relative to wall clock")
	ErrBadPrev        = errors.New("node: chain predecessor not found in ring")
)

// BadBlockError wraps the offending block and verification error from
// receive_chain's block-by-block replay (spec.md §4.6 step 6).
type BadBlockError struct {
	Block block.Block
	Err   error
}

func (e *BadBlockError) Error() string {
	return fmt.Sprintf("node: chain rejected: %v", e.Err)
}

func (e *BadBlockError) Unwrap() error { return e.Err }
