// Package canon provides the canonical, deterministic byte encoding used
// everywhere a value must be hashed or signed: transaction payloads,
// block headers, and MerkleMap values (spec.md §6 "Canonical
// serialisation", §9 "Canonical value serialisation for commitments").
//
// The encoding is plain encoding/json. Go's encoding/json marshals map
// keys in sorted lexicographic order unconditionally and marshals struct
// fields in declaration order, which already satisfies "stable field
// order, stable encoding of collections... key-sorted maps" without a
// hand-rolled canonical encoder.
package canon

import "encoding/json"

// Bytes returns the canonical encoding of v. Callers pass plain structs
// (never maps with non-string keys, never types with nondeterministic
// Marshal methods) so that two independent encoders presented with the
// same logical value always agree bit-for-bit.
func Bytes(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		// Every caller in this module passes plain structs of bytes,
		// strings, and integers; json.Marshal only fails on channels,
		// functions, or cyclic maps, none of which appear here.
		panic("canon: value is not canonically serialisable: " + err.Error())
	}
	return b
}
