package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/five82/stickerpicker/internal/packs"
)

// Protocol constants.
const (
	APIToWidget        = "toWidget"
	APIFromWidget      = "fromWidget"
	ActionCapabilities = "capabilities"
	CapabilitySticker  = "m.sticker"

	// AnyOrigin targets every connected host.
	AnyOrigin = "*"

	errActionNotSupported = "Action not supported"
	requestIDPrefix       = "sticker-"
)

// ErrUnbound is returned by SendSelection in strict-origin mode before any
// host has bound the widget.
var ErrUnbound = errors.New("widget not bound to a host")

// Transport delivers a message to hosts whose origin matches targetOrigin,
// or to every host for AnyOrigin. Only sticker events go through it;
// handshake replies go back on the requesting connection.
type Transport interface {
	Post(msg any, targetOrigin string) error
}

// binding is either unbound or bound; bound is final.
type binding interface {
	isBinding()
}

type unbound struct{}

type bound struct {
	widgetID string
	origin   string
}

func (unbound) isBinding() {}
func (bound) isBinding()   {}

// Options configure a Bridge.
type Options struct {
	// StrictOrigin sends selections only to the origin captured at binding
	// instead of AnyOrigin.
	StrictOrigin bool
	// Now overrides the clock used for request ids.
	Now func() time.Time
}

// Bridge implements the host handshake and the sticker send action.
type Bridge struct {
	mu        sync.Mutex
	binding   binding
	transport Transport
	strict    bool
	now       func() time.Time
	lastStamp int64
}

// New builds an unbound Bridge that sends sticker events through transport.
func New(transport Transport, opts Options) *Bridge {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Bridge{
		binding:   unbound{},
		transport: transport,
		strict:    opts.StrictOrigin,
		now:       now,
	}
}

// request is an inbound toWidget message. raw keeps every field so the
// reply can echo the request unchanged.
type request struct {
	API       string
	Action    string
	RequestID string
	WidgetID  string
	raw       map[string]json.RawMessage
}

func parseRequest(data []byte) (request, bool) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return request{}, false
	}
	req := request{
		API:       stringField(raw, "api"),
		Action:    stringField(raw, "action"),
		RequestID: stringField(raw, "requestId"),
		WidgetID:  stringField(raw, "widgetId"),
		raw:       raw,
	}
	if req.RequestID == "" || req.WidgetID == "" || req.Action == "" || req.API != APIToWidget {
		return request{}, false
	}
	return req, true
}

func stringField(raw map[string]json.RawMessage, key string) string {
	var s string
	if v, ok := raw[key]; ok {
		if err := json.Unmarshal(v, &s); err != nil {
			return ""
		}
	}
	return s
}

// HandleMessage processes one inbound message from origin. reply writes to
// the connection the message arrived on and is the only path for the answer. It returns true when a reply was produced. Malformed
// messages and messages from a widget id other than the bound one are
// dropped.
func (b *Bridge) HandleMessage(data []byte, origin string, reply func(msg any) error) bool {
	if reply == nil {
		return false
	}
	req, ok := parseRequest(data)
	if !ok {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch cur := b.binding.(type) {
	case unbound:
		b.binding = bound{widgetID: req.WidgetID, origin: origin}
		log.Printf("[bridge] bound to widget %q from %s", req.WidgetID, displayOrigin(origin))
	case bound:
		if cur.widgetID != req.WidgetID {
			return false
		}
	}

	out := make(map[string]any, len(req.raw)+1)
	for k, v := range req.raw {
		out[k] = v
	}
	out["response"] = responseFor(req.Action)

	if err := reply(out); err != nil {
		log.Printf("[bridge] reply to %s failed: %v", displayOrigin(origin), err)
	}
	return true
}

type capabilitiesResponse struct {
	Capabilities []string `json:"capabilities"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func responseFor(action string) any {
	if action == ActionCapabilities {
		return capabilitiesResponse{Capabilities: []string{CapabilitySticker}}
	}
	var resp errorResponse
	resp.Error.Message = errActionNotSupported
	return resp
}

// SelectionEvent is the outbound fromWidget message for a chosen sticker.
type SelectionEvent struct {
	API       string        `json:"api"`
	Action    string        `json:"action"`
	RequestID string        `json:"requestId"`
	WidgetID  *string       `json:"widgetId"`
	Data      SelectionData `json:"data"`
}

// SelectionData carries the sticker name and its original payload.
type SelectionData struct {
	Name    string        `json:"name"`
	Content packs.Sticker `json:"content"`
}

// SendSelection posts sticker to the host without waiting for a reply.
// Every call gets a new request id.
func (b *Bridge) SendSelection(sticker packs.Sticker) error {
	b.mu.Lock()
	target := AnyOrigin
	var widgetID *string
	if cur, ok := b.binding.(bound); ok {
		id := cur.widgetID
		widgetID = &id
		if b.strict {
			target = cur.origin
		}
	} else if b.strict {
		b.mu.Unlock()
		return ErrUnbound
	}
	event := SelectionEvent{
		API:       APIFromWidget,
		Action:    CapabilitySticker,
		RequestID: b.nextRequestIDLocked(),
		WidgetID:  widgetID,
		Data:      SelectionData{Name: sticker.Body, Content: sticker},
	}
	b.mu.Unlock()

	if err := b.transport.Post(event, target); err != nil {
		return fmt.Errorf("send sticker %q: %w", sticker.Body, err)
	}
	return nil
}

// nextRequestIDLocked derives an id from the current time in milliseconds,
// bumped past the previous one when the clock has not advanced.
func (b *Bridge) nextRequestIDLocked() string {
	stamp := b.now().UnixMilli()
	if stamp <= b.lastStamp {
		stamp = b.lastStamp + 1
	}
	b.lastStamp = stamp
	return fmt.Sprintf("%s%d", requestIDPrefix, stamp)
}

// Binding returns the bound widget id, if any.
func (b *Bridge) Binding() (widgetID string, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if cur, isBound := b.binding.(bound); isBound {
		return cur.widgetID, true
	}
	return "", false
}

func displayOrigin(origin string) string {
	if strings.TrimSpace(origin) == "" {
		return "unknown origin"
	}
	return origin
}
