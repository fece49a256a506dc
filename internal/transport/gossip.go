package transport

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"empower1.com/empower1chain/internal/block"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Peer gossip is authenticated at the message level (every txn and
	// block carries its own signature); the transport itself is origin
	// agnostic.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans unsolicited gossip out to every connected peer socket.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func newHub() *Hub {
	return &Hub{conns: make(map[*websocket.Conn]struct{})}
}

func (h *Hub) add(c *websocket.Conn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
	_ = c.Close()
}

func (h *Hub) broadcast(msg InitMessage) {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		c.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := c.WriteJSON(msg); err != nil {
			h.remove(c)
		}
	}
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	s.hub.add(conn)

	go func() {
		defer s.hub.remove(conn)
		for {
			var msg InitMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			s.handleGossipMessage(msg)
		}
	}()
}

func (s *Server) handleGossipMessage(msg InitMessage) {
	switch {
	case msg.Txn != nil:
		admitted := s.node.ReceiveTxns(msg.Txn.Txns)
		if len(admitted) > 0 {
			s.hub.broadcast(InitMessage{Txn: &TxnBody{Txns: admitted}})
		}

	case msg.Chain != nil:
		broadcast, err := s.node.ReceiveChain(msg.Chain.Chain, time.Now().UnixMilli())
		if err != nil {
			s.log.Error().Err(err).Msg("gossip receive_chain rejected")
			return
		}
		if broadcast != nil {
			s.hub.broadcast(InitMessage{Chain: &ChainBody{Chain: broadcast}})
		}

	case msg.Resync:
		head := s.node.Head()
		s.hub.broadcast(InitMessage{Chain: &ChainBody{Chain: []block.Block{head.Block}}})
	}
}
