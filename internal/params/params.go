// Package params collects the protocol constants named throughout
// spec.md. They are plain constants rather than a loaded configuration
// because they are consensus-critical: every node must agree on them
// bit-for-bit. internal/config exposes the *non*-consensus-critical
// bootstrap knobs (listen address, peer list, hex keypair seed, log level)
// through viper.
package params

import "time"

const (
	// ValidatorSlots is VALIDATOR_SLOTS (spec.md §3).
	ValidatorSlots = 256

	// JennySlots is the bootstrap validator's slot count,
	// VALIDATOR_SLOTS/2 (spec.md §6).
	JennySlots = ValidatorSlots / 2

	// ValidatorStake is VALIDATOR_STAKE, the coin cost of one slot
	// (spec.md §4.2).
	ValidatorStake = 1024

	// TxnBatchSize is TXN_BATCH_SIZE, the number of transactions per
	// batch in a block body's composite key (spec.md §4.3).
	TxnBatchSize = 128

	// MaxBlockSize is MAX_BLOCK_SIZE, the maximum number of
	// transactions a single block may carry (spec.md §4.3).
	MaxBlockSize = 1024

	// MaxFork is MAX_FORK, the size of the Snap retention ring
	// (spec.md §3, §4.6).
	MaxFork = 256

	// BlockTime is BLOCK_TIME, the nominal interval between rounds
	// (spec.md §4.3).
	BlockTime = 2000 * time.Millisecond

	// MaxClockGap is MAX_CLOCK_GAP (spec.md §4.6).
	MaxClockGap = 300 * time.Millisecond

	// MaxPropTime is MAX_PROP_TIME (spec.md §4.6).
	MaxPropTime = 250 * time.Millisecond
)

// BlockTimeMs, MaxClockGapMs, MaxPropTimeMs are the same durations in
// milliseconds, matching the header's TimestampMs unit (spec.md §3).
const (
	BlockTimeMs   = int64(BlockTime / time.Millisecond)
	MaxClockGapMs = int64(MaxClockGap / time.Millisecond)
	MaxPropTimeMs = int64(MaxPropTime / time.Millisecond)
)
