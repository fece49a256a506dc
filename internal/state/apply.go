package state

import (
	"fmt"

	"empower1.com/empower1chain/internal/merkletrie"
	"empower1.com/empower1chain/internal/txn"
)

// Apply runs Verify and materializes the resulting Updates into s,
// mutating s's five MerkleMap fields in place (each reassigned to the
// new persistent map returned by Insert/Remove). Updates are applied in
// the order Verify returned them, per spec.md §4.2.
func (s *State) Apply(tx txn.SignedTxn, meta Metadata) error {
	updates, err := s.Verify(tx, meta)
	if err != nil {
		return err
	}
	for _, u := range updates {
		if err := s.applyOne(u); err != nil {
			return err
		}
	}
	return nil
}

func (s *State) applyOne(u Update) error {
	switch u.Component {
	case ComponentAccounts:
		return applyTo(&s.Accounts, u)
	case ComponentSlots:
		return applyTo(&s.Slots, u)
	case ComponentValidators:
		return applyTo(&s.Validators, u)
	case ComponentSenators:
		return applyTo(&s.Senators, u)
	case ComponentRollups:
		return applyTo(&s.Rollups, u)
	default:
		return fmt.Errorf("state: apply: unknown component %d", u.Component)
	}
}

// applyTo is generic over the five MerkleMap value types so applyOne
// doesn't need a type switch per component; the Update.Value is asserted
// to V on OpPut.
func applyTo[V merkletrie.Value](m **merkletrie.MerkleMap[V], u Update) error {
	switch u.Op {
	case OpPut:
		v, ok := u.Value.(V)
		if !ok {
			return fmt.Errorf("state: apply: value type mismatch for component %d", u.Component)
		}
		newMap, _, err := (*m).Insert(u.Key, v)
		if err != nil {
			return err
		}
		*m = newMap
	case OpDelete:
		newMap, _, err := (*m).Remove(u.Key)
		if err != nil {
			return err
		}
		*m = newMap
	default:
		return fmt.Errorf("state: apply: unknown op %d", u.Op)
	}
	return nil
}
