// Package node implements the per-node orchestrator: the tick loop,
// leader-triggered block building, fork-ring retention, and transaction
// pool admission (spec.md §4.6).
//
// Shared-state discipline (spec.md §5): each mutable field below is
// protected by its own lock. Locks are always acquired in the order
// snapsMu -> headMu -> builderMu -> txpoolMu -> nonceMu; no method holds
// a lock from a later category while waiting on an earlier one, and no
// method holds any lock across a network send.
package node

import (
	"sync"

	"github.com/google/btree"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"empower1.com/empower1chain/internal/block"
	"empower1.com/empower1chain/internal/params"
	"empower1.com/empower1chain/internal/signer"
	"empower1.com/empower1chain/internal/txn"
)

// Node is one replica's mutable consensus state.
type Node struct {
	kp signer.KeyPair

	snapsMu sync.Mutex
	snaps   [params.MaxFork]map[[32]byte]block.Snap

	headMu sync.Mutex
	head   block.Snap

	builderMu sync.Mutex
	builder   *block.Builder

	txpoolMu sync.Mutex
	txpool   *btree.BTreeG[txn.SignedTxn]

	nonceMu sync.Mutex
	nonce   uint32

	seen *lru.Cache[[32]byte, struct{}]

	Peers []string

	log zerolog.Logger
}

func txnLess(a, b txn.SignedTxn) bool { return a.Less(b) }

// New creates a Node rooted at genesis, the bootstrap Snap (spec.md §6
// "Jenny" bootstrap).
func New(kp signer.KeyPair, genesis block.Snap, peers []string, log zerolog.Logger) *Node {
	seen, err := lru.New[[32]byte, struct{}](4096)
	if err != nil {
		// Only returns an error for a non-positive size, which is a
		// static misconfiguration, not a runtime condition.
		panic(err)
	}
	n := &Node{
		kp:     kp,
		head:   genesis,
		txpool: btree.NewG[txn.SignedTxn](32, txnLess),
		seen:   seen,
		Peers:  peers,
		log:    log.With().Str("component", "node").Logger(),
	}
	slot := genesis.Block.SignedHeader.Header.Round % params.MaxFork
	n.snaps[slot] = map[[32]byte]block.Snap{genesis.BlockHash: genesis}
	return n
}

// Head returns the current head Snap.
func (n *Node) Head() block.Snap {
	n.headMu.Lock()
	defer n.headMu.Unlock()
	return n.head
}

// NextNonce reserves and returns the next outgoing nonce for
// locally-originated transactions. It may outrun the on-chain nonce
// when transactions the node injected are still unconfirmed.
func (n *Node) NextNonce() uint32 {
	n.nonceMu.Lock()
	defer n.nonceMu.Unlock()
	v := n.nonce
	n.nonce++
	return v
}
