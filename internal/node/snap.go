package node

import (
	"empower1.com/empower1chain/internal/block"
	"empower1.com/empower1chain/internal/params"
)

func ringSlot(round uint64) uint64 { return round % params.MaxFork }

// AddSnap installs snap into the fork ring. If it advances the head, the
// previous occupant of that round's slot is cleared, the head is
// replaced, every transaction the new head's block includes is evicted
// from the txpool, and leader election is re-checked (spec.md §4.6
// "add_snap").
func (n *Node) AddSnap(snap block.Snap) error {
	round := snap.Block.SignedHeader.Header.Round

	n.headMu.Lock()
	headRound := n.head.Block.SignedHeader.Header.Round
	n.headMu.Unlock()

	if round != headRound && round != headRound+1 {
		return ErrBadRound
	}
	advances := round == headRound+1

	n.snapsMu.Lock()
	slot := ringSlot(round)
	if advances || n.snaps[slot] == nil {
		n.snaps[slot] = make(map[[32]byte]block.Snap, 1)
	}
	n.snaps[slot][snap.BlockHash] = snap
	n.snapsMu.Unlock()

	if !advances {
		return nil
	}

	n.headMu.Lock()
	n.head = snap
	n.headMu.Unlock()

	n.evictIncluded(snap)
	n.checkLeader(snap.Block.SignedHeader.Header.TimestampMs)
	return nil
}

// snapAt looks up a previously-installed Snap by round and hash.
func (n *Node) snapAt(round uint64, hash [32]byte) (block.Snap, bool) {
	n.snapsMu.Lock()
	defer n.snapsMu.Unlock()
	m := n.snaps[ringSlot(round)]
	if m == nil {
		return block.Snap{}, false
	}
	s, ok := m[hash]
	return s, ok
}
