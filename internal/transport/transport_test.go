package transport

import (
	"bytes"
	"crypto/ed25519"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"empower1.com/empower1chain/internal/block"
	"empower1.com/empower1chain/internal/node"
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

func TestInitMessageTxnRoundTrip(t *testing.T) {
	jenny := kpFromByte(t, 1)
	pay := txn.Sign(jenny, txn.Txn{Payload: txn.NewPayment(statetypes.AccountID{0x01}, 1)})

	raw, err := json.Marshal(InitMessage{Txn: &TxnBody{Txns: []txn.SignedTxn{pay}}})
	require.NoError(t, err)

	var decoded InitMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.NotNil(t, decoded.Txn)
	require.Len(t, decoded.Txn.Txns, 1)
	require.Equal(t, pay.CanonicalBytes(), decoded.Txn.Txns[0].CanonicalBytes())
}

func TestInitMessageChainRoundTrip(t *testing.T) {
	jenny := kpFromByte(t, 1)
	genesis := genesisWithJenny(t, jenny, 10)
	b := block.New(genesis, jenny, 1)
	candidate := b.Finalize().Block

	raw, err := json.Marshal(InitMessage{Chain: &ChainBody{Chain: []block.Block{candidate}}})
	require.NoError(t, err)

	var decoded InitMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.NotNil(t, decoded.Chain)
	require.Len(t, decoded.Chain.Chain, 1)
	require.Equal(t, candidate.SignedHeader.Hash(), decoded.Chain.Chain[0].SignedHeader.Hash())
}

func TestInitMessageResyncAndBatchRoundTrip(t *testing.T) {
	raw, err := json.Marshal(InitMessage{Resync: true})
	require.NoError(t, err)
	var decoded InitMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.True(t, decoded.Resync)

	req := &BatchRequest{BlockHash: [32]byte{0xAA}, Batch: 3}
	raw, err = json.Marshal(InitMessage{Batch: req})
	require.NoError(t, err)
	decoded = InitMessage{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.NotNil(t, decoded.Batch)
	require.Equal(t, req.BlockHash, decoded.Batch.BlockHash)
	require.Equal(t, req.Batch, decoded.Batch.Batch)
}

func TestHandleStateAndFetchStateRoundTrip(t *testing.T) {
	jenny := kpFromByte(t, 1)
	genesis := genesisWithJenny(t, jenny, 10)
	n := node.New(jenny, genesis, nil, zerolog.Nop())
	srv := NewServer(n, zerolog.Nop())

	httpSrv := httptest.NewServer(srv.Routes())
	defer httpSrv.Close()

	snap, err := FetchState(httpSrv.Client(), httpSrv.URL)
	require.NoError(t, err)
	require.Equal(t, genesis.BlockHash, snap.BlockHash)
	require.Equal(t, genesis.State.Commit(), snap.State.Commit())
}

func TestFetchStateRejectsUnreachablePeer(t *testing.T) {
	_, err := FetchState(http.DefaultClient, "http://127.0.0.1:1")
	require.Error(t, err)
}

func TestHandleTxnAdmitsAndResponds(t *testing.T) {
	jenny := kpFromByte(t, 1)
	genesis := genesisWithJenny(t, jenny, 10)
	n := node.New(jenny, genesis, nil, zerolog.Nop())
	srv := NewServer(n, zerolog.Nop())

	pay := txn.Sign(jenny, txn.Txn{Payload: txn.NewPayment(statetypes.AccountID{0x01}, 1)})
	body, err := json.Marshal(InitMessage{Txn: &TxnBody{Txns: []txn.SignedTxn{pay}}})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/p2p/txn", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var result txnResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Ok, 1)
}
