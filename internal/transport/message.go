// Package transport implements the node's wire-facing surface: the
// gossip envelope, HTTP endpoints, and a websocket push path for
// unsolicited gossip (spec.md §6 "External interfaces").
package transport

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"empower1.com/empower1chain/internal/block"
	"empower1.com/empower1chain/internal/txn"
)

// TxnBody is the payload of an InitMessage's Txn variant.
type TxnBody struct {
	Txns []txn.SignedTxn
}

// ChainBody is the payload of an InitMessage's Chain variant.
type ChainBody struct {
	Chain []block.Block
}

// BatchRequest is the payload of an InitMessage's Batch variant: a peer
// asking for a specific batch of a block's body.
type BatchRequest struct {
	BlockHash [32]byte
	Batch     uint32
}

// InitMessage is the gossip envelope exchanged between peers. Exactly
// one of Txn, Chain, Resync, Batch is populated, mirroring the tagged
// union spec.md §6 defines.
type InitMessage struct {
	Txn    *TxnBody
	Chain  *ChainBody
	Resync bool
	Batch  *BatchRequest
}

type txnBodyWire struct {
	Txns []json.RawMessage `json:"txns"`
}

type chainBodyWire struct {
	Chain []json.RawMessage `json:"chain"`
}

// MarshalJSON encodes InitMessage as the externally-tagged envelope
// spec.md §6 specifies, reusing each domain type's own canonical
// encoder (txn.SignedTxn.CanonicalBytes, block.EncodeBlock) rather than
// re-deriving a wire format here.
func (m InitMessage) MarshalJSON() ([]byte, error) {
	switch {
	case m.Txn != nil:
		raws := make([]json.RawMessage, len(m.Txn.Txns))
		for i, t := range m.Txn.Txns {
			raws[i] = json.RawMessage(t.CanonicalBytes())
		}
		return json.Marshal(struct {
			Txn txnBodyWire `json:"Txn"`
		}{txnBodyWire{Txns: raws}})

	case m.Chain != nil:
		raws := make([]json.RawMessage, len(m.Chain.Chain))
		for i, b := range m.Chain.Chain {
			enc, err := block.EncodeBlock(b)
			if err != nil {
				return nil, err
			}
			raws[i] = enc
		}
		return json.Marshal(struct {
			Chain chainBodyWire `json:"Chain"`
		}{chainBodyWire{Chain: raws}})

	case m.Batch != nil:
		return json.Marshal(struct {
			Batch [2]any `json:"Batch"`
		}{[2]any{hex.EncodeToString(m.Batch.BlockHash[:]), m.Batch.Batch}})

	default:
		return json.Marshal(struct {
			Resync struct{} `json:"Resync"`
		}{})
	}
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (m *InitMessage) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("transport: decode init message: %w", err)
	}

	switch {
	case probe["Txn"] != nil:
		var w txnBodyWire
		if err := json.Unmarshal(probe["Txn"], &w); err != nil {
			return fmt.Errorf("transport: decode Txn body: %w", err)
		}
		txns := make([]txn.SignedTxn, len(w.Txns))
		for i, raw := range w.Txns {
			t, err := txn.DecodeSignedTxn(raw)
			if err != nil {
				return err
			}
			txns[i] = t
		}
		m.Txn = &TxnBody{Txns: txns}

	case probe["Chain"] != nil:
		var w chainBodyWire
		if err := json.Unmarshal(probe["Chain"], &w); err != nil {
			return fmt.Errorf("transport: decode Chain body: %w", err)
		}
		chain := make([]block.Block, len(w.Chain))
		for i, raw := range w.Chain {
			b, err := block.DecodeBlock(raw)
			if err != nil {
				return err
			}
			chain[i] = b
		}
		m.Chain = &ChainBody{Chain: chain}

	case probe["Resync"] != nil:
		m.Resync = true

	case probe["Batch"] != nil:
		var tuple [2]json.RawMessage
		if err := json.Unmarshal(probe["Batch"], &tuple); err != nil {
			return fmt.Errorf("transport: decode Batch body: %w", err)
		}
		var hashHex string
		if err := json.Unmarshal(tuple[0], &hashHex); err != nil {
			return err
		}
		raw, err := hex.DecodeString(hashHex)
		if err != nil || len(raw) != 32 {
			return fmt.Errorf("transport: bad batch block hash %q", hashHex)
		}
		var batchNum uint32
		if err := json.Unmarshal(tuple[1], &batchNum); err != nil {
			return err
		}
		var hash [32]byte
		copy(hash[:], raw)
		m.Batch = &BatchRequest{BlockHash: hash, Batch: batchNum}

	default:
		return fmt.Errorf("transport: unrecognised init message variant")
	}
	return nil
}
