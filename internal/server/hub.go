package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var (
	// ErrNoRecipient is returned by Post when no connected host matches.
	ErrNoRecipient = errors.New("no connected host for origin")
	// ErrDisconnected is returned by a reply function after its host left.
	ErrDisconnected = errors.New("host disconnected")
)

// MessageHandler receives one inbound frame, the sender's origin, and a
// function that writes back to that connection only.
type MessageHandler func(data []byte, origin string, reply func(msg any) error) bool

type peer struct {
	id     string
	origin string
}

// Hub tracks connected hosts and routes outbound messages by origin.
type Hub struct {
	mu       sync.Mutex
	conns    map[*websocket.Conn]peer
	handler  MessageHandler
	upgrader websocket.Upgrader
}

// NewHub builds a Hub that accepts connections from allowedOrigins. An
// empty list accepts any origin.
func NewHub(allowedOrigins []string) *Hub {
	allowed := make([]string, 0, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			allowed = append(allowed, o)
		}
	}
	h := &Hub{conns: make(map[*websocket.Conn]peer)}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowed) == 0 {
				return true
			}
			return slices.Contains(allowed, r.Header.Get("Origin"))
		},
	}
	return h
}

// Handle sets the function inbound frames are passed to.
func (h *Hub) Handle(fn MessageHandler) {
	h.mu.Lock()
	h.handler = fn
	h.mu.Unlock()
}

// Count returns the number of connected hosts.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Serve upgrades the request and reads frames until the peer goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[server] websocket upgrade failed: %v", err)
		return
	}
	p := peer{id: uuid.NewString(), origin: r.Header.Get("Origin")}

	h.mu.Lock()
	h.conns[ws] = p
	h.mu.Unlock()
	log.Printf("[server] host %s connected from %s", p.id, originLabel(p.origin))
	reply := func(msg any) error { return h.writeTo(ws, msg) }

	for {
		msgType, payload, err := ws.ReadMessage()
		if err != nil {
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}
		h.mu.Lock()
		fn := h.handler
		h.mu.Unlock()
		if fn != nil {
			fn(payload, p.origin, reply)
		}
	}

	h.leave(ws)
	log.Printf("[server] host %s disconnected", p.id)
}

func (h *Hub) leave(ws *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, ws)
	h.mu.Unlock()
	_ = ws.Close()
}

// writeTo marshals msg and writes it to ws alone.
func (h *Hub) writeTo(ws *websocket.Conn, msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.conns[ws]
	if !ok {
		return ErrDisconnected
	}
	if err := ws.WriteMessage(websocket.TextMessage, payload); err != nil {
		_ = ws.Close()
		delete(h.conns, ws)
		return fmt.Errorf("write to host %s: %w", p.id, err)
	}
	return nil
}

// Post marshals msg and writes it to every host whose origin equals
// targetOrigin, or to every host when targetOrigin is "*".
func (h *Hub) Post(msg any, targetOrigin string) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	sent := 0
	for ws, p := range h.conns {
		if targetOrigin != "*" && p.origin != targetOrigin {
			continue
		}
		if err := ws.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("[server] write to host %s failed: %v", p.id, err)
			_ = ws.Close()
			delete(h.conns, ws)
			continue
		}
		sent++
	}
	if sent == 0 {
		return fmt.Errorf("%w %q", ErrNoRecipient, targetOrigin)
	}
	return nil
}

// Close disconnects every host.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ws := range h.conns {
		_ = ws.Close()
		delete(h.conns, ws)
	}
}

func originLabel(origin string) string {
	if origin == "" {
		return "unknown origin"
	}
	return origin
}
