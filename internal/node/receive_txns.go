package node

import (
	"empower1.com/empower1chain/internal/state"
	"empower1.com/empower1chain/internal/txn"
)

// ReceiveTxns verifies each signed transaction against the current
// head's state, opportunistically folds admissible ones into a live
// builder, and admits the rest into the txpool. The returned slice is
// every transaction newly admitted to the pool, for re-broadcast to
// peers; duplicates already pooled are dropped silently (spec.md §4.6
// "receive_txns").
func (n *Node) ReceiveTxns(txns []txn.SignedTxn) []txn.SignedTxn {
	head := n.Head()
	meta := state.Metadata{
		Round:       head.Block.SignedHeader.Header.Round,
		Proposal:    head.Block.SignedHeader.Header.Proposal,
		TimestampMs: head.Block.SignedHeader.Header.TimestampMs,
	}

	var admitted []txn.SignedTxn
	for _, tx := range txns {
		_, err := head.State.Verify(tx, meta)
		if err != nil && err != txn.ErrBigNonce {
			continue
		}

		if err == nil {
			n.builderMu.Lock()
			b := n.builder
			n.builderMu.Unlock()
			if b != nil {
				_ = b.Add(tx)
			}
		}

		if n.addToPool(tx) {
			admitted = append(admitted, tx)
		}
	}
	return admitted
}
