// Package bridge speaks the widget API with the hosting client.
//
// # Overview
//
// The host opens the conversation with toWidget requests. The first well
// formed request binds the bridge to its widget id; after that, requests for
// any other widget id are ignored. Every accepted request is echoed back to
// the connection it came from with a response attached: the capabilities
// request advertises m.sticker and anything else gets an "Action not
// supported" error.
//
//	host                                  bridge
//	 │  {api:toWidget, action:capabilities,  │
//	 │   requestId:r1, widgetId:W1}          │
//	 │──────────────────────────────────────►│ bind W1
//	 │◄──────────────────────────────────────│
//	 │  same fields + response:{capabilities:["m.sticker"]}
//	 │                                       │
//	 │  {api:fromWidget, action:m.sticker,   │ user picks a sticker
//	 │   requestId:sticker-<ms>, widgetId:W1,│
//	 │◄──data:{name, content}}───────────────│
//
// # Binding
//
// The binding is either unbound or bound to one widget id and the origin it
// arrived from. It never changes once set. A request is validated before it
// can bind: requestId, widgetId and action must be non-empty strings and api
// must be "toWidget". Anything else is dropped without a reply.
//
// # Replies and Events
//
// Replies go through the reply function handed to HandleMessage, which
// writes to the requesting connection only. Sticker events go through the
// Transport, addressed to AnyOrigin, or to the bound origin when
// Options.StrictOrigin is set.
//
// SendSelection emits a fromWidget m.sticker event carrying the sticker's
// original payload. Request ids are derived from the wall clock and never
// repeat within a process: two sends in the same millisecond get
// sticker-<ms> and sticker-<ms+1>. Before binding the event carries a null
// widgetId.
//
// # Usage Example
//
//	hub := server.NewHub(nil)
//	widget := bridge.New(hub, bridge.Options{})
//	hub.Handle(widget.HandleMessage)
//
//	// later, from the UI
//	if err := widget.SendSelection(sticker); err != nil {
//		log.Printf("send failed: %v", err)
//	}
//	if id, ok := widget.Binding(); ok {
//		fmt.Println("bound to", id)
//	}
package bridge
