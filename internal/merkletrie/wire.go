package merkletrie

import (
	"encoding/base64"
	"encoding/json"
)

// wireNode is the canonical on-the-wire shape of a trie node: it carries
// structure, not just a commitment, so the receiving side can reconstruct
// the map and call ValidCommits to check it bit-for-bit (spec.md §8
// "Trie round-trip").
type wireNode struct {
	Substr   []byte            `json:"substr"`
	Value    json.RawMessage   `json:"value,omitempty"`
	Children map[string]*wireNode `json:"children,omitempty"`
}

func toWire[V Value](n *node[V]) (*wireNode, error) {
	if n == nil {
		return nil, nil
	}
	w := &wireNode{Substr: append([]byte{}, n.substr...)}
	if n.value != nil {
		raw, err := json.Marshal(base64.StdEncoding.EncodeToString((*n.value).CanonicalBytes()))
		if err != nil {
			return nil, err
		}
		w.Value = raw
	}
	for i := 0; i < 16; i++ {
		c := n.children[i]
		if c == nil {
			continue
		}
		wc, err := toWire(c)
		if err != nil {
			return nil, err
		}
		if w.Children == nil {
			w.Children = make(map[string]*wireNode, 1)
		}
		w.Children[nibbleKey(i)] = wc
	}
	return w, nil
}

func nibbleKey(i int) string {
	const hex = "0123456789abcdef"
	return string(hex[i])
}

func nibbleIndex(s string) int {
	const hex = "0123456789abcdef"
	for i := 0; i < 16; i++ {
		if hex[i] == s[0] {
			return i
		}
	}
	return -1
}

// Decode is supplied by callers because V's canonical bytes must be parsed
// back into a concrete value — merkletrie has no way to invert
// V.CanonicalBytes() on its own.
type Decode[V Value] func(canonicalBytes []byte) (V, error)

// MarshalJSON encodes the full node structure of the map, not just its
// commitment, so a peer can reconstruct and independently verify it.
func (m *MerkleMap[V]) MarshalJSON() ([]byte, error) {
	w, err := toWire(m.root)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// FromWire reconstructs a MerkleMap from wire bytes produced by
// MarshalJSON. The caller's decode function turns each leaf's canonical
// bytes back into a V. The resulting map's node commitments are
// recomputed from content, not trusted from the wire, so ValidCommits on
// the result always succeeds; whether the peer sent the expected map is
// decided by comparing Commit() against the root the caller expects.
func FromWire[V Value](data []byte, decode Decode[V]) (*MerkleMap[V], error) {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	root, err := fromWire(&w, decode)
	if err != nil {
		return nil, err
	}
	if root == nil {
		root = emptyNode[V]()
	}
	return &MerkleMap[V]{root: root}, nil
}

func fromWire[V Value](w *wireNode, decode Decode[V]) (*node[V], error) {
	if w == nil {
		return nil, nil
	}
	var value *V
	if len(w.Value) > 0 {
		var raw string
		if err := json.Unmarshal(w.Value, &raw); err != nil {
			return nil, err
		}
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, err
		}
		v, err := decode(decoded)
		if err != nil {
			return nil, err
		}
		value = &v
	}
	var children [16]*node[V]
	for k, wc := range w.Children {
		idx := nibbleIndex(k)
		if idx < 0 {
			continue
		}
		c, err := fromWire(wc, decode)
		if err != nil {
			return nil, err
		}
		children[idx] = c
	}
	return newNode(w.Substr, value, children), nil
}
