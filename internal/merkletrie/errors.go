package merkletrie

import "errors"

// ErrNoPreimage signals a structural integrity violation discovered while
// recomputing commitments over a trie received from the wire: some node's
// cached commitment does not match the hash of its own contents. It maps
// directly onto the NoPreimage transaction error in spec §7.
var ErrNoPreimage = errors.New("merkletrie: commitment has no valid preimage")
