package merkletrie

import (
	"crypto/sha256"
	"encoding/binary"
)

// Value is the constraint every value stored in a MerkleMap must satisfy: a
// stable, canonical byte encoding used both for storage-independent equality
// and as an input to the node commitment formula (spec.md §4.1).
type Value interface {
	CanonicalBytes() []byte
}

// node is one level of the persistent radix-16 Patricia trie. Nodes are
// immutable after construction: every mutating MerkleMap operation builds
// new nodes along the touched path and reuses every untouched subtree,
// which is what lets Snaps and Builder clones share trie structure for
// free (spec.md §5, §9 "Persistent sharing vs. mutability").
type node[V Value] struct {
	substr   []byte // nibbles, each in [0,16), matched before branching
	value    *V
	children [16]*node[V]
	hash     [32]byte

	// stub marks a node known only by its commitment, with no content
	// (built by newStub; FromWire never produces one). Get, Insert and
	// Remove fail with ErrNoPreimage on reaching a stub (spec.md §7's
	// "NoPreimage (trie integrity violation)"); Iter skips it and
	// ValidCommits accepts its cached hash as given.
	stub bool
}

func emptyNode[V Value]() *node[V] {
	return newNode[V](nil, nil, [16]*node[V]{})
}

func newNode[V Value](substr []byte, value *V, children [16]*node[V]) *node[V] {
	n := &node[V]{substr: substr, value: value, children: children}
	n.hash = hashNode(n)
	return n
}

func newStub[V Value](h [32]byte) *node[V] {
	return &node[V]{stub: true, hash: h}
}

// hashNode computes the commitment of a node exactly per spec.md §4.1:
//
//	commit(node) = H(
//	    node.substr
//	  | (opt) serialise(node.value)
//	  | for each child c at nibble i in 0..15 with c present: i | commit(c)
//	  | big-endian u32 length of substr
//	  | u8 count of present children
//	)
func hashNode[V Value](n *node[V]) [32]byte {
	h := sha256.New()
	h.Write(n.substr)
	if n.value != nil {
		h.Write((*n.value).CanonicalBytes())
	}
	count := 0
	for i := 0; i < 16; i++ {
		c := n.children[i]
		if c == nil {
			continue
		}
		count++
		h.Write([]byte{byte(i)})
		ch := c.hash
		h.Write(ch[:])
	}
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(n.substr)))
	h.Write(lenBuf[:])
	h.Write([]byte{byte(count)})

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func childCount[V Value](children *[16]*node[V]) int {
	n := 0
	for i := 0; i < 16; i++ {
		if children[i] != nil {
			n++
		}
	}
	return n
}

func soleChild[V Value](children *[16]*node[V]) (nibble int, child *node[V]) {
	for i := 0; i < 16; i++ {
		if children[i] != nil {
			return i, children[i]
		}
	}
	return -1, nil
}

// rebuild enforces the canonical-shape invariant after a removal: a node
// with no value and at most one child must not exist as such — it either
// unsplits (absorbs its sole child by extending substr) or disappears
// entirely. Returns nil whenever the node is left with no value and no
// children, whatever its substr: a parent drops it from its children, and
// Remove replaces a nil root with the empty node.
func rebuild[V Value](substr []byte, value *V, children [16]*node[V]) *node[V] {
	count := childCount(&children)
	if value == nil && count == 1 {
		nibble, child := soleChild(&children)
		merged := make([]byte, 0, len(substr)+1+len(child.substr))
		merged = append(merged, substr...)
		merged = append(merged, byte(nibble))
		merged = append(merged, child.substr...)
		return newNode(merged, child.value, child.children)
	}
	if value == nil && count == 0 {
		if len(substr) == 0 {
			// Canonical empty node: only legal when this is the trie root,
			// the caller is responsible for keeping the root alive.
			return nil
		}
		return nil
	}
	return newNode(substr, value, children)
}

func commonPrefixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

func toNibbles(key []byte) []byte {
	nibbles := make([]byte, 0, len(key)*2)
	for _, b := range key {
		nibbles = append(nibbles, b>>4, b&0x0f)
	}
	return nibbles
}

func fromNibbles(nibbles []byte) []byte {
	out := make([]byte, len(nibbles)/2)
	for i := range out {
		out[i] = nibbles[2*i]<<4 | nibbles[2*i+1]
	}
	return out
}
