package node

import (
	"golang.org/x/crypto/blake2b"

	"empower1.com/empower1chain/internal/block"
	"empower1.com/empower1chain/internal/txn"
)

// fingerprint hashes a signed transaction's canonical bytes with
// BLAKE2b-256 for the recently-seen gossip de-dup cache. This is
// deliberately a different hash function from the SHA-256 used in every
// consensus-critical commitment (merkletrie, signer, header hashing):
// fingerprinting is an optimisation, never part of the protocol's
// verifiable state, so it costs nothing to pick the faster primitive.
func fingerprint(tx txn.SignedTxn) [32]byte {
	return blake2b.Sum256(tx.CanonicalBytes())
}

// addToPool inserts tx into the txpool if it isn't a duplicate already
// seen (spec.md §4.6 "duplicates already in the pool are dropped
// silently"). Reports whether it was newly added.
func (n *Node) addToPool(tx txn.SignedTxn) bool {
	fp := fingerprint(tx)
	if n.seen.Contains(fp) {
		return false
	}
	n.seen.Add(fp, struct{}{})

	n.txpoolMu.Lock()
	defer n.txpoolMu.Unlock()
	if n.txpool.Has(tx) {
		return false
	}
	n.txpool.ReplaceOrInsert(tx)
	return true
}

// evictIncluded removes every transaction snap's body includes from the
// txpool, plus any pooled transaction whose nonce has fallen behind the
// sender's new on-chain nonce (spec.md §9 Open Question (c): the
// txpool-eviction policy this implementation commits to).
func (n *Node) evictIncluded(snap block.Snap) {
	n.txpoolMu.Lock()
	defer n.txpoolMu.Unlock()

	for _, e := range snap.Block.Body.Iter() {
		n.txpool.Delete(e.Value)
	}

	var stale []txn.SignedTxn
	n.txpool.Ascend(func(item txn.SignedTxn) bool {
		sender := item.Sender()
		acct, found, err := snap.State.Accounts.Get(sender[:])
		if err == nil && found && item.Txn.Nonce < acct.Nonce {
			stale = append(stale, item)
		}
		return true
	})
	for _, tx := range stale {
		n.txpool.Delete(tx)
	}
}
