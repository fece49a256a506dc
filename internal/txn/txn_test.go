package txn

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"

	"empower1.com/empower1chain/internal/signer"
)

func testKeyPair(t *testing.T, b byte) signer.KeyPair {
	t.Helper()
	var seed [ed25519.SeedSize]byte
	seed[0] = b
	return signer.FromSeed(seed)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	kp := testKeyPair(t, 1)
	tx := Txn{Payload: NewPayment(AccountID{0xAA}, 10), Nonce: 3}
	signed := Sign(kp, tx)
	require.NoError(t, signed.VerifySignature())
}

func TestMutatedPayloadInvalidatesSignature(t *testing.T) {
	kp := testKeyPair(t, 2)
	tx := Txn{Payload: NewPayment(AccountID{0xAA}, 10), Nonce: 3}
	signed := Sign(kp, tx)

	signed.Txn.Payload.Amount = 9999
	require.Error(t, signed.VerifySignature())
}

func TestWireRoundTrip(t *testing.T) {
	kp := testKeyPair(t, 3)
	tx := Txn{Payload: NewStake(7), Nonce: 1}
	signed := Sign(kp, tx)

	decoded, err := DecodeSignedTxn(signed.CanonicalBytes())
	require.NoError(t, err)
	require.Equal(t, signed, decoded)
}

func TestTotalOrderIsStrict(t *testing.T) {
	kpA := testKeyPair(t, 1)
	kpB := testKeyPair(t, 2)

	low := Sign(kpA, Txn{Payload: NewPayment(AccountID{0x01}, 1), Nonce: 1})
	high := Sign(kpB, Txn{Payload: NewPayment(AccountID{0x02}, 1), Nonce: 1})

	if low.Less(high) {
		require.True(t, low.Less(high))
		require.False(t, high.Less(low))
	} else {
		require.True(t, high.Less(low))
		require.False(t, low.Less(high))
	}
	require.False(t, low.Less(low))
}
