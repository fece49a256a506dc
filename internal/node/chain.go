package node

import (
	"empower1.com/empower1chain/internal/block"
	"empower1.com/empower1chain/internal/params"
)

// ReceiveChain validates and installs an incoming sequence of blocks
// (spec.md §4.6 "receive_chain"). now is the node's wall-clock reading
// in milliseconds. It returns the chain for re-broadcast when the head
// advances, or nil otherwise.
func (n *Node) ReceiveChain(chain []block.Block, now int64) ([]block.Block, error) {
	for len(chain) > 0 {
		h := chain[0].SignedHeader.Header
		if _, ok := n.snapAt(h.Round, chain[0].SignedHeader.Hash()); !ok {
			break
		}
		chain = chain[1:]
	}
	if len(chain) == 0 {
		return nil, ErrAlreadyHave
	}

	headSnap := n.Head()
	headHeader := headSnap.Block.SignedHeader.Header

	last := chain[len(chain)-1].SignedHeader.Header
	if last.Round <= headHeader.Round {
		return nil, ErrTooShort
	}

	if now > last.TimestampMs+params.MaxClockGapMs+params.MaxPropTimeMs {
		return nil, ErrSmallTimestamp
	}
	if now+params.MaxClockGapMs < last.TimestampMs {
		return nil, ErrBigTimestamp
	}

	first := chain[0].SignedHeader.Header
	prevSnap, ok := n.snapAt(first.Round-1, first.PrevHash)
	if !ok {
		return nil, ErrBadPrev
	}

	forksOffHead := first.PrevHash != headSnap.BlockHash

	snaps := make([]block.Snap, 0, len(chain))
	cur := prevSnap
	for _, candidate := range chain {
		snap, err := block.Verify(cur, candidate)
		if err != nil {
			return nil, &BadBlockError{Block: candidate, Err: err}
		}
		snaps = append(snaps, snap)
		cur = snap
	}

	if forksOffHead {
		n.txpoolMu.Lock()
		n.txpool.Clear(false)
		n.txpoolMu.Unlock()
	}

	for _, snap := range snaps {
		if err := n.AddSnap(snap); err != nil {
			return nil, err
		}
	}

	if n.Head().Block.SignedHeader.Header.Round > headHeader.Round {
		return chain, nil
	}
	return nil, nil
}
