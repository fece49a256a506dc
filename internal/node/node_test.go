package node

import (
	"crypto/ed25519"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"empower1.com/empower1chain/internal/block"
	"empower1.com/empower1chain/internal/params"
	"empower1.com/empower1chain/internal/signer"
	"empower1.com/empower1chain/internal/state"
	"empower1.com/empower1chain/internal/statetypes"
	"empower1.com/empower1chain/internal/txn"
)

func kpFromByte(t *testing.T, b byte) signer.KeyPair {
	t.Helper()
	var seed [ed25519.SeedSize]byte
	seed[0] = b
	return signer.FromSeed(seed)
}

// genesisWithJenny mirrors internal/block's fixture: Jenny alone holds
// JENNY_SLOTS slots, so leader election always has an occupied slot to
// land on (spec.md §9 "Leader election edge").
func genesisWithJenny(t *testing.T, jenny signer.KeyPair, balance uint32) block.Snap {
	t.Helper()
	s := state.New()
	id := jenny.Public.Identity()

	m, _, err := s.Accounts.Insert(id[:], statetypes.Account{Balance: balance})
	require.NoError(t, err)
	s.Accounts = m

	validator := statetypes.Validator{PublicKey: jenny.Public, Opposed: map[statetypes.AccountID]struct{}{}}
	for i := statetypes.SlotIndex(0); i < params.JennySlots; i++ {
		sm, _, err := s.Slots.Insert(i.Key(), statetypes.Slot{RoundStaked: 0, Owner: id})
		require.NoError(t, err)
		s.Slots = sm
		validator.SlotsHeld++
	}
	vm, _, err := s.Validators.Insert(id[:], validator)
	require.NoError(t, err)
	s.Validators = vm

	return block.Genesis(jenny, s, 0)
}

func newTestNode(t *testing.T, kp signer.KeyPair, genesis block.Snap) *Node {
	t.Helper()
	return New(kp, genesis, nil, zerolog.Nop())
}

func TestAddSnapAdvancesHeadAndEvictsIncluded(t *testing.T) {
	jenny := kpFromByte(t, 1)
	genesis := genesisWithJenny(t, jenny, 10)
	n := newTestNode(t, jenny, genesis)

	bob := statetypes.AccountID{0xB0}
	pay := txn.Sign(jenny, txn.Txn{Payload: txn.NewPayment(bob, 1)})
	require.True(t, n.addToPool(pay))

	b := block.New(genesis, jenny, 1)
	require.NoError(t, b.Add(pay))
	snap := b.Finalize()

	require.NoError(t, n.AddSnap(snap))
	require.Equal(t, uint64(1), n.Head().Block.SignedHeader.Header.Round)

	n.txpoolMu.Lock()
	has := n.txpool.Has(pay)
	n.txpoolMu.Unlock()
	require.False(t, has, "included transaction must be evicted from the pool")
}

func TestAddSnapRejectsNonContiguousRound(t *testing.T) {
	jenny := kpFromByte(t, 1)
	genesis := genesisWithJenny(t, jenny, 10)
	n := newTestNode(t, jenny, genesis)

	b := block.New(genesis, jenny, 1)
	far := b.Finalize()
	far.Block.SignedHeader.Header.Round = 5

	err := n.AddSnap(far)
	require.ErrorIs(t, err, ErrBadRound)
}

// TestS6ForkTolerance: two competing same-round blocks are both stored
// in the ring; the first delivered becomes head. A subsequent 2-block
// extension of the loser advances the head and clears the txpool
// (spec.md §8 S6).
func TestS6ForkTolerance(t *testing.T) {
	jenny := kpFromByte(t, 1)
	outsider := kpFromByte(t, 9)
	genesis := genesisWithJenny(t, jenny, 20)
	n := newTestNode(t, jenny, genesis)

	winnerBuilder := block.New(genesis, jenny, 1)
	winnerPay := txn.Sign(jenny, txn.Txn{Payload: txn.NewPayment(statetypes.AccountID{0x01}, 1)})
	require.NoError(t, winnerBuilder.Add(winnerPay))
	winner := winnerBuilder.Finalize()

	loserBuilder := block.New(genesis, jenny, 2)
	loserPay := txn.Sign(jenny, txn.Txn{Payload: txn.NewPayment(statetypes.AccountID{0x02}, 1)})
	require.NoError(t, loserBuilder.Add(loserPay))
	loser := loserBuilder.Finalize()

	require.NoError(t, n.AddSnap(winner))
	require.NoError(t, n.AddSnap(loser))
	require.Equal(t, winner.BlockHash, n.Head().BlockHash, "first arrival wins the round")

	stalePay := txn.Sign(jenny, txn.Txn{Payload: txn.NewPayment(outsider.Public.Identity(), 1), Nonce: 2})
	require.True(t, n.addToPool(stalePay))

	ext1Builder := block.New(loser, jenny, 1)
	ext1 := ext1Builder.Finalize()
	ext2Builder := block.New(ext1, jenny, 1)
	ext2 := ext2Builder.Finalize()

	broadcast, err := n.ReceiveChain([]block.Block{ext1.Block, ext2.Block}, ext2.Block.SignedHeader.Header.TimestampMs)
	require.NoError(t, err)
	require.Len(t, broadcast, 2)

	require.Equal(t, uint64(3), n.Head().Block.SignedHeader.Header.Round)
	require.Equal(t, ext1.BlockHash, n.Head().Block.SignedHeader.Header.PrevHash)

	n.txpoolMu.Lock()
	poolLen := n.txpool.Len()
	n.txpoolMu.Unlock()
	require.Zero(t, poolLen, "fork switch must clear the txpool")
}

// TestS7ClockGating verifies receive_chain's wall-clock gate in both
// directions (spec.md §8 S7).
func TestS7ClockGating(t *testing.T) {
	jenny := kpFromByte(t, 1)
	genesis := genesisWithJenny(t, jenny, 10)
	n := newTestNode(t, jenny, genesis)

	b := block.New(genesis, jenny, 1)
	snap := b.Finalize()
	last := snap.Block.SignedHeader.Header.TimestampMs

	_, err := n.ReceiveChain([]block.Block{snap.Block}, last+params.MaxClockGapMs+params.MaxPropTimeMs+1)
	require.ErrorIs(t, err, ErrSmallTimestamp)

	_, err = n.ReceiveChain([]block.Block{snap.Block}, last-params.MaxClockGapMs-1)
	require.ErrorIs(t, err, ErrBigTimestamp)

	_, err = n.ReceiveChain([]block.Block{snap.Block}, last)
	require.NoError(t, err)
}

func TestReceiveTxnsAdmitsAndDropsDuplicates(t *testing.T) {
	jenny := kpFromByte(t, 1)
	genesis := genesisWithJenny(t, jenny, 10)
	n := newTestNode(t, jenny, genesis)

	pay := txn.Sign(jenny, txn.Txn{Payload: txn.NewPayment(statetypes.AccountID{0x01}, 1)})

	admitted := n.ReceiveTxns([]txn.SignedTxn{pay})
	require.Len(t, admitted, 1)

	admitted = n.ReceiveTxns([]txn.SignedTxn{pay})
	require.Empty(t, admitted, "duplicate must be dropped silently")
}

func TestReceiveTxnsKeepsFutureNonce(t *testing.T) {
	jenny := kpFromByte(t, 1)
	genesis := genesisWithJenny(t, jenny, 10)
	n := newTestNode(t, jenny, genesis)

	future := txn.Sign(jenny, txn.Txn{Payload: txn.NewPayment(statetypes.AccountID{0x01}, 1), Nonce: 3})
	admitted := n.ReceiveTxns([]txn.SignedTxn{future})
	require.Len(t, admitted, 1, "a BigNonce transaction is otherwise valid and must still be pooled")
}

func TestTickElectsLeaderAndBuildsBlock(t *testing.T) {
	jenny := kpFromByte(t, 1)
	genesis := genesisWithJenny(t, jenny, 10)
	n := newTestNode(t, jenny, genesis)

	n.checkLeader(params.BlockTimeMs)
	n.builderMu.Lock()
	b := n.builder
	n.builderMu.Unlock()
	require.NotNil(t, b, "jenny holds every occupied slot and must be elected for proposal 2")
	require.Equal(t, uint64(1), b.Round())
}
