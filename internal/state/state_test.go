package state

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"

	"empower1.com/empower1chain/internal/params"
	"empower1.com/empower1chain/internal/signer"
	"empower1.com/empower1chain/internal/statetypes"
	"empower1.com/empower1chain/internal/txn"
)

func testKeyPair(t *testing.T, b byte) signer.KeyPair {
	t.Helper()
	var seed [ed25519.SeedSize]byte
	seed[0] = b
	return signer.FromSeed(seed)
}

func withFundedAccount(t *testing.T, s *State, kp signer.KeyPair, balance uint32) statetypes.AccountID {
	t.Helper()
	id := kp.Public.Identity()
	m, _, err := s.Accounts.Insert(id[:], statetypes.Account{Balance: balance})
	require.NoError(t, err)
	s.Accounts = m
	return id
}

func TestVerifyRejectsUnknownSender(t *testing.T) {
	s := New()
	kp := testKeyPair(t, 1)
	tx := txn.Sign(kp, txn.Txn{Payload: txn.NewPayment(statetypes.AccountID{0xAA}, 1)})

	_, err := s.Verify(tx, Metadata{Round: 1})
	require.ErrorIs(t, err, txn.ErrBadFromPk)
}

func TestVerifyRejectsBadSignature(t *testing.T) {
	s := New()
	kp := testKeyPair(t, 1)
	withFundedAccount(t, s, kp, 100)

	tx := txn.Sign(kp, txn.Txn{Payload: txn.NewPayment(statetypes.AccountID{0xAA}, 1)})
	tx.Txn.Payload.Amount = 999

	_, err := s.Verify(tx, Metadata{Round: 1})
	require.ErrorIs(t, err, txn.ErrBadSig)
}

func TestNonceMonotonicity(t *testing.T) {
	s := New()
	kp := testKeyPair(t, 1)
	sender := withFundedAccount(t, s, kp, 100)
	recipient := statetypes.AccountID{0xBB}

	low := txn.Sign(kp, txn.Txn{Payload: txn.NewPayment(recipient, 1), Nonce: 0})
	require.NoError(t, s.Apply(low, Metadata{Round: 1}))

	acct, _, err := s.Accounts.Get(sender[:])
	require.NoError(t, err)
	require.Equal(t, uint32(1), acct.Nonce)

	replay := txn.Sign(kp, txn.Txn{Payload: txn.NewPayment(recipient, 1), Nonce: 0})
	_, err = s.Verify(replay, Metadata{Round: 2})
	require.ErrorIs(t, err, txn.ErrSmallNonce)

	future := txn.Sign(kp, txn.Txn{Payload: txn.NewPayment(recipient, 1), Nonce: 5})
	_, err = s.Verify(future, Metadata{Round: 2})
	require.ErrorIs(t, err, txn.ErrBigNonce)

	next := txn.Sign(kp, txn.Txn{Payload: txn.NewPayment(recipient, 1), Nonce: 1})
	require.NoError(t, s.Apply(next, Metadata{Round: 2}))
}

func TestPaymentConservesTotalBalance(t *testing.T) {
	s := New()
	kpA := testKeyPair(t, 1)
	kpB := testKeyPair(t, 2)
	withFundedAccount(t, s, kpA, 100)
	idB := withFundedAccount(t, s, kpB, 50)

	tx := txn.Sign(kpA, txn.Txn{Payload: txn.NewPayment(idB, 30)})
	require.NoError(t, s.Apply(tx, Metadata{Round: 1}))

	total := uint32(0)
	for _, e := range s.Accounts.Iter() {
		total += e.Value.Balance
	}
	require.Equal(t, uint32(150), total)
}

func TestSelfPaymentOnlyBumpsNonce(t *testing.T) {
	s := New()
	kp := testKeyPair(t, 1)
	id := withFundedAccount(t, s, kp, 100)

	tx := txn.Sign(kp, txn.Txn{Payload: txn.NewPayment(id, 40)})
	require.NoError(t, s.Apply(tx, Metadata{Round: 1}))

	acct, _, err := s.Accounts.Get(id[:])
	require.NoError(t, err)
	require.Equal(t, uint32(100), acct.Balance)
	require.Equal(t, uint32(1), acct.Nonce)
}

func TestPaymentInsufficientBalance(t *testing.T) {
	s := New()
	kp := testKeyPair(t, 1)
	withFundedAccount(t, s, kp, 10)

	tx := txn.Sign(kp, txn.Txn{Payload: txn.NewPayment(statetypes.AccountID{0xAA}, 11)})
	_, err := s.Verify(tx, Metadata{Round: 1})
	require.ErrorIs(t, err, txn.ErrInsuffBal)
}

func TestStakeAndUnstakeRoundTrip(t *testing.T) {
	s := New()
	kp := testKeyPair(t, 1)
	id := withFundedAccount(t, s, kp, params.ValidatorStake)

	stake := txn.Sign(kp, txn.Txn{Payload: txn.NewStake(3)})
	require.NoError(t, s.Apply(stake, Metadata{Round: 7}))

	slot, found, err := s.Slots.Get(statetypes.SlotIndex(3).Key())
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, id, slot.Owner)
	require.Equal(t, uint64(7), slot.RoundStaked)

	validator, found, err := s.Validators.Get(id[:])
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, uint32(1), validator.SlotsHeld)

	acct, _, err := s.Accounts.Get(id[:])
	require.NoError(t, err)
	require.Equal(t, uint32(0), acct.Balance)

	unstake := txn.Sign(kp, txn.Txn{Payload: txn.NewUnstake(3), Nonce: 1})
	require.NoError(t, s.Apply(unstake, Metadata{Round: 8}))

	_, found, err = s.Slots.Get(statetypes.SlotIndex(3).Key())
	require.NoError(t, err)
	require.False(t, found)

	_, found, err = s.Validators.Get(id[:])
	require.NoError(t, err)
	require.False(t, found, "validator record removed once slots_held reaches zero")

	acct, _, err = s.Accounts.Get(id[:])
	require.NoError(t, err)
	require.Equal(t, uint32(params.ValidatorStake), acct.Balance)
}

func TestStakeRejectsOccupiedSlot(t *testing.T) {
	s := New()
	kpA := testKeyPair(t, 1)
	kpB := testKeyPair(t, 2)
	withFundedAccount(t, s, kpA, params.ValidatorStake)
	withFundedAccount(t, s, kpB, params.ValidatorStake)

	stakeA := txn.Sign(kpA, txn.Txn{Payload: txn.NewStake(5)})
	require.NoError(t, s.Apply(stakeA, Metadata{Round: 1}))

	stakeB := txn.Sign(kpB, txn.Txn{Payload: txn.NewStake(5)})
	_, err := s.Verify(stakeB, Metadata{Round: 1})
	require.ErrorIs(t, err, txn.ErrBadStakeIdx)
}

func TestUnstakeRejectsNonOwner(t *testing.T) {
	s := New()
	kpA := testKeyPair(t, 1)
	kpB := testKeyPair(t, 2)
	withFundedAccount(t, s, kpA, params.ValidatorStake)
	withFundedAccount(t, s, kpB, params.ValidatorStake)

	stakeA := txn.Sign(kpA, txn.Txn{Payload: txn.NewStake(9)})
	require.NoError(t, s.Apply(stakeA, Metadata{Round: 1}))

	unstakeB := txn.Sign(kpB, txn.Txn{Payload: txn.NewUnstake(9)})
	_, err := s.Verify(unstakeB, Metadata{Round: 1})
	require.ErrorIs(t, err, txn.ErrBadStakeIdx)
}

func TestLockedValidatorCannotStakeOrUnstake(t *testing.T) {
	s := New()
	kp := testKeyPair(t, 1)
	id := withFundedAccount(t, s, kp, params.ValidatorStake*2)

	stake := txn.Sign(kp, txn.Txn{Payload: txn.NewStake(1)})
	require.NoError(t, s.Apply(stake, Metadata{Round: 1}))

	validator, _, err := s.Validators.Get(id[:])
	require.NoError(t, err)
	validator.Opposed = map[statetypes.AccountID]struct{}{{0x01}: {}}
	m, _, err := s.Validators.Insert(id[:], validator)
	require.NoError(t, err)
	s.Validators = m

	unstake := txn.Sign(kp, txn.Txn{Payload: txn.NewUnstake(1), Nonce: 1})
	_, err = s.Verify(unstake, Metadata{Round: 2})
	require.ErrorIs(t, err, txn.ErrLockedStake)

	secondStake := txn.Sign(kp, txn.Txn{Payload: txn.NewStake(2), Nonce: 1})
	_, err = s.Verify(secondStake, Metadata{Round: 2})
	require.ErrorIs(t, err, txn.ErrLockedStake)
}

func TestVerifyApplyEquivalence(t *testing.T) {
	s := New()
	kp := testKeyPair(t, 1)
	idA := withFundedAccount(t, s, kp, 100)
	kpB := testKeyPair(t, 2)
	idB := withFundedAccount(t, s, kpB, 0)

	tx := txn.Sign(kp, txn.Txn{Payload: txn.NewPayment(idB, 25)})

	updates, err := s.Verify(tx, Metadata{Round: 1})
	require.NoError(t, err)

	require.NoError(t, s.Apply(tx, Metadata{Round: 1}))

	for _, u := range updates {
		switch u.Component {
		case ComponentAccounts:
			want := u.Value.(statetypes.Account)
			var id statetypes.AccountID
			copy(id[:], u.Key)
			got, found, err := s.Accounts.Get(id[:])
			require.NoError(t, err)
			require.True(t, found)
			require.Equal(t, want, got)
		}
	}

	acctA, _, err := s.Accounts.Get(idA[:])
	require.NoError(t, err)
	require.Equal(t, uint32(75), acctA.Balance)
}

func TestCommitChangesOnAccountInsert(t *testing.T) {
	s := New()
	before := s.Commit()

	kp := testKeyPair(t, 1)
	withFundedAccount(t, s, kp, 10)
	after := s.Commit()

	require.NotEqual(t, before, after)
}
