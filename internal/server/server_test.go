package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/five82/stickerpicker/internal/bridge"
	"github.com/five82/stickerpicker/internal/catalog"
	"github.com/five82/stickerpicker/internal/packs"
	"github.com/five82/stickerpicker/internal/state"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type staticBinding struct {
	id string
	ok bool
}

func (b staticBinding) Binding() (string, bool) { return b.id, b.ok }

func newTestServer(t *testing.T, hub *Hub, store *state.Store) *httptest.Server {
	t.Helper()
	if store == nil {
		store = &state.Store{}
	}
	srv := httptest.NewServer(NewRouter(hub, store, staticBinding{id: "W1", ok: true}))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return srv
}

func dial(t *testing.T, srv *httptest.Server, origin string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/widget"
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.Fatalf("dial: %v (status %d)", err, status)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitForCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.Count() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("hub count = %d, want %d", hub.Count(), want)
}

func TestHub_InboundReachesHandlerWithOrigin(t *testing.T) {
	hub := NewHub(nil)
	type frame struct {
		data   string
		origin string
	}
	got := make(chan frame, 1)
	hub.Handle(func(data []byte, origin string, _ func(any) error) bool {
		got <- frame{string(data), origin}
		return true
	})
	srv := newTestServer(t, hub, nil)
	conn := dial(t, srv, "https://host.example")

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"hello":1}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case f := <-got:
		if f.data != `{"hello":1}` || f.origin != "https://host.example" {
			t.Fatalf("frame = %+v", f)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("handler not called")
	}
}

func TestHub_PostRoutesByOrigin(t *testing.T) {
	hub := NewHub(nil)
	srv := newTestServer(t, hub, nil)
	a := dial(t, srv, "https://a.example")
	b := dial(t, srv, "https://b.example")
	waitForCount(t, hub, 2)

	if err := hub.Post(map[string]string{"to": "a"}, "https://a.example"); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if err := hub.Post(map[string]string{"to": "all"}, "*"); err != nil {
		t.Fatalf("Post: %v", err)
	}

	read := func(conn *websocket.Conn) string {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var body map[string]string
		if err := json.Unmarshal(data, &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return body["to"]
	}
	if got := read(a); got != "a" {
		t.Fatalf("a first message = %q, want a", got)
	}
	if got := read(a); got != "all" {
		t.Fatalf("a second message = %q, want all", got)
	}
	if got := read(b); got != "all" {
		t.Fatalf("b first message = %q, want all (origin-targeted message leaked)", got)
	}
}

func TestHub_PostWithoutRecipient(t *testing.T) {
	hub := NewHub(nil)
	if err := hub.Post(map[string]string{}, "*"); !errors.Is(err, ErrNoRecipient) {
		t.Fatalf("err = %v, want ErrNoRecipient", err)
	}
}

func TestHub_RejectsDisallowedOrigin(t *testing.T) {
	hub := NewHub([]string{"https://allowed.example/"})
	srv := newTestServer(t, hub, nil)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/widget"

	header := http.Header{"Origin": []string{"https://evil.example"}}
	if _, resp, err := websocket.DefaultDialer.Dial(url, header); err == nil {
		t.Fatalf("dial from disallowed origin succeeded")
	} else if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("dial err = %v, want 403", err)
	}

	dial(t, srv, "https://allowed.example")
	waitForCount(t, hub, 1)
}

func TestRouter_Catalog(t *testing.T) {
	store := &state.Store{}
	store.Update(catalog.State{
		Phase: catalog.Ready,
		Packs: []packs.Pack{{ID: "p1", Title: "Cats", Stickers: []packs.Sticker{{Body: "a"}, {Body: "b"}}}},
	})
	srv := newTestServer(t, NewHub(nil), store)

	resp, err := http.Get(srv.URL + "/api/catalog")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body catalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Phase != "ready" || body.Stickers != 2 || len(body.Packs) != 1 || body.Packs[0].Title != "Cats" {
		t.Fatalf("body = %+v", body)
	}
}

func TestRouter_Healthz(t *testing.T) {
	srv := newTestServer(t, NewHub(nil), nil)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" || body["bound"] != true || body["widget_id"] != "W1" {
		t.Fatalf("body = %v", body)
	}
}

func TestHub_ReplyReachesOnlySender(t *testing.T) {
	hub := NewHub(nil)
	hub.Handle(func(data []byte, origin string, reply func(any) error) bool {
		return reply(map[string]string{"echo": string(data)}) == nil
	})
	srv := newTestServer(t, hub, nil)
	sender := dial(t, srv, "https://host.example")
	other := dial(t, srv, "https://host.example")
	waitForCount(t, hub, 2)

	if err := sender.WriteMessage(websocket.TextMessage, []byte("ping")); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = sender.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := sender.ReadMessage()
	if err != nil {
		t.Fatalf("sender read: %v", err)
	}
	if string(data) != `{"echo":"ping"}` {
		t.Fatalf("sender got %s, want echo", data)
	}

	_ = other.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, data, err := other.ReadMessage(); err == nil {
		t.Fatalf("same-origin peer received %s", data)
	}
}

func TestHub_BridgeHandshakeStaysOnRequestingSocket(t *testing.T) {
	hub := NewHub(nil)
	widget := bridge.New(hub, bridge.Options{})
	hub.Handle(widget.HandleMessage)
	srv := newTestServer(t, hub, nil)
	host := dial(t, srv, "https://host.example")
	other := dial(t, srv, "https://host.example")
	waitForCount(t, hub, 2)

	req := `{"api":"toWidget","action":"capabilities","requestId":"r1","widgetId":"abc"}`
	if err := host.WriteMessage(websocket.TextMessage, []byte(req)); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = host.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := host.ReadMessage()
	if err != nil {
		t.Fatalf("host read: %v", err)
	}
	var reply map[string]any
	if err := json.Unmarshal(data, &reply); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if reply["requestId"] != "r1" || reply["response"] == nil {
		t.Fatalf("reply = %v, want echoed request with response", reply)
	}

	_ = other.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, data, err := other.ReadMessage(); err == nil {
		t.Fatalf("unbound same-origin peer received %s", data)
	}
}
