package state

// Component names one of the five MerkleMaps an Update targets.
type Component uint8

const (
	ComponentAccounts Component = iota
	ComponentSlots
	ComponentValidators
	ComponentSenators
	ComponentRollups
)

// UpdateOp names the kind of change an Update describes.
type UpdateOp uint8

const (
	OpPut UpdateOp = iota
	OpDelete
)

// Update is one change to one component's map, produced by Verify and
// later materialized by Apply. Verify never mutates the State it is
// given; it only computes the list of Updates a signed transaction
// implies, so callers (the block builder and node) can inspect a
// transaction's effect before committing to it.
type Update struct {
	Component Component
	Op        UpdateOp
	Key       []byte
	Value     any // concrete statetypes.* value; unused when Op == OpDelete
}
