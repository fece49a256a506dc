package leader

import "errors"

// ErrOwnerWithoutValidator signals a state inconsistency: a slot is
// occupied by an account with no matching validator record. Verify/Apply
// (internal/state) never produce this state; it would only surface from
// a corrupted or maliciously crafted state snapshot.
var ErrOwnerWithoutValidator = errors.New("leader: slot owner has no validator record")
