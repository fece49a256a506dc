package node

import (
	"empower1.com/empower1chain/internal/block"
	"empower1.com/empower1chain/internal/leader"
	"empower1.com/empower1chain/internal/params"
	"empower1.com/empower1chain/internal/txn"
)

// Tick runs once per BLOCK_TIME: it finalises any live builder and
// checks whether this node leads the next proposal (spec.md §4.6
// "Tick"). now is the node's wall-clock reading in milliseconds.
func (n *Node) Tick(now int64) ([]block.Block, error) {
	var broadcast []block.Block

	n.builderMu.Lock()
	b := n.builder
	n.builder = nil
	n.builderMu.Unlock()

	if b != nil {
		snap := b.Finalize()
		if err := n.AddSnap(snap); err != nil {
			n.log.Error().Err(err).Msg("tick: failed to install finalized block")
		} else {
			broadcast = append(broadcast, snap.Block)
		}
	}

	n.checkLeader(now)
	return broadcast, nil
}

// checkLeader determines the expected proposal index for now and, if
// this node is the elected leader for it, starts a fresh builder and
// drains the txpool into it (spec.md §4.6 step 2).
func (n *Node) checkLeader(now int64) {
	head := n.Head()
	headHeader := head.Block.SignedHeader.Header

	gap := now - headHeader.TimestampMs
	if gap < 0 {
		return
	}
	proposal := uint64(gap/params.BlockTimeMs) + 1

	slotLookup, validatorLookup := leader.FromState(head.State)
	pk, err := leader.Elect(headHeader.Seed, slotLookup, validatorLookup, proposal)
	if err != nil {
		n.log.Error().Err(err).Msg("checkLeader: election failed")
		return
	}
	if pk.Identity() != n.kp.Public.Identity() {
		return
	}

	b := block.New(head, n.kp, proposal)
	n.drainPoolInto(b)

	n.builderMu.Lock()
	n.builder = b
	n.builderMu.Unlock()
}

// drainPoolInto attempts to add every pooled transaction to b, silently
// dropping any whose apply fails — such transactions are considered
// stale (spec.md §4.6 step 2).
func (n *Node) drainPoolInto(b *block.Builder) {
	n.txpoolMu.Lock()
	items := make([]txn.SignedTxn, 0, n.txpool.Len())
	n.txpool.Ascend(func(item txn.SignedTxn) bool {
		items = append(items, item)
		return true
	})
	n.txpoolMu.Unlock()

	for _, tx := range items {
		_ = b.Add(tx)
	}
}
