package transport

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"empower1.com/empower1chain/internal/block"
	"empower1.com/empower1chain/internal/node"
	"empower1.com/empower1chain/internal/state"
)

// Server exposes a Node's receive_txns/receive_chain operations over
// HTTP and fans unsolicited gossip out to connected websocket peers
// (spec.md §6).
type Server struct {
	node *node.Node
	hub  *Hub
	log  zerolog.Logger
}

// NewServer wires an HTTP/websocket front end onto n.
func NewServer(n *node.Node, log zerolog.Logger) *Server {
	return &Server{
		node: n,
		hub:  newHub(),
		log:  log.With().Str("component", "transport").Logger(),
	}
}

// Routes returns the node's HTTP surface: POST /p2p/txn, POST
// /p2p/chain, GET /p2p/state (a full-state resync snapshot), and a GET
// /p2p/ws upgrade for the gossip push path.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/p2p/txn", s.handleTxn)
	mux.HandleFunc("/p2p/chain", s.handleChain)
	mux.HandleFunc("/p2p/state", s.handleState)
	mux.HandleFunc("/p2p/ws", s.handleWebsocket)
	return mux
}

// BroadcastBlocks pushes finalized blocks (typically the node's own,
// fresh off Tick) to every connected gossip peer.
func (s *Server) BroadcastBlocks(blocks []block.Block) {
	if len(blocks) == 0 {
		return
	}
	s.hub.broadcast(InitMessage{Chain: &ChainBody{Chain: blocks}})
}

type txnResult struct {
	Ok  []string `json:"Ok,omitempty"`
	Err string   `json:"Err,omitempty"`
}

func (s *Server) handleTxn(w http.ResponseWriter, r *http.Request) {
	var msg InitMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil || msg.Txn == nil {
		writeJSON(w, http.StatusBadRequest, txnResult{Err: "bad request"})
		return
	}

	admitted := s.node.ReceiveTxns(msg.Txn.Txns)
	s.hub.broadcast(InitMessage{Txn: &TxnBody{Txns: admitted}})

	ids := make([]string, len(admitted))
	for i, t := range admitted {
		sender := t.Sender()
		ids[i] = hex.EncodeToString(sender[:])
	}
	writeJSON(w, http.StatusOK, txnResult{Ok: ids})
}

type chainResult struct {
	Ok  bool   `json:"Ok,omitempty"`
	Err string `json:"Err,omitempty"`
}

func (s *Server) handleChain(w http.ResponseWriter, r *http.Request) {
	var msg InitMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil || msg.Chain == nil {
		writeJSON(w, http.StatusBadRequest, chainResult{Err: "bad request"})
		return
	}

	broadcast, err := s.node.ReceiveChain(msg.Chain.Chain, time.Now().UnixMilli())
	if err != nil {
		s.log.Error().Err(err).Msg("receive_chain rejected")
		writeJSON(w, http.StatusOK, chainResult{Err: err.Error()})
		return
	}
	if broadcast != nil {
		s.hub.broadcast(InitMessage{Chain: &ChainBody{Chain: broadcast}})
	}
	writeJSON(w, http.StatusOK, chainResult{Ok: true})
}

// stateSnapshot is the wire shape of GET /p2p/state: the current head
// block plus the full state it commits to, so a node well outside the
// fork window (spec.md §1 "network-partition recovery beyond the
// bounded fork window" is a non-goal, not this endpoint) can adopt a
// verified tip directly instead of replaying history it no longer has.
type stateSnapshot struct {
	Block json.RawMessage `json:"block"`
	State json.RawMessage `json:"state"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	head := s.node.Head()

	encodedBlock, err := block.EncodeBlock(head.Block)
	if err != nil {
		http.Error(w, "encode block failed", http.StatusInternalServerError)
		return
	}
	encodedState, err := state.EncodeState(head.State)
	if err != nil {
		http.Error(w, "encode state failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stateSnapshot{Block: encodedBlock, State: encodedState})
}

// FetchState retrieves and verifies a peer's current state snapshot: the
// decoded state's commitment must match the accompanying block header's
// StateRoot before either is trusted (spec.md §4.4 "state_root" check).
func FetchState(client *http.Client, peerURL string) (block.Snap, error) {
	resp, err := client.Get(peerURL + "/p2p/state")
	if err != nil {
		return block.Snap{}, fmt.Errorf("transport: fetch state: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return block.Snap{}, fmt.Errorf("transport: fetch state: peer returned %d", resp.StatusCode)
	}

	var snap stateSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return block.Snap{}, fmt.Errorf("transport: decode state snapshot: %w", err)
	}

	b, err := block.DecodeBlock(snap.Block)
	if err != nil {
		return block.Snap{}, fmt.Errorf("transport: decode snapshot block: %w", err)
	}
	st, err := state.DecodeState(snap.State)
	if err != nil {
		return block.Snap{}, fmt.Errorf("transport: decode snapshot state: %w", err)
	}
	if st.Commit() != b.SignedHeader.Commits.StateRoot {
		return block.Snap{}, fmt.Errorf("transport: snapshot state does not match block's state_root")
	}

	return block.Snap{Block: b, BlockHash: b.SignedHeader.Hash(), State: st}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
