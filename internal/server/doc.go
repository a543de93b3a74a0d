// Package server exposes the widget to hosting clients over HTTP.
//
// A host connects to /api/widget with a websocket; each connection is one
// parent frame and its Origin header is the origin messages are matched
// against. Handshake replies are written back on the connection that sent
// the request, through the reply function passed to the MessageHandler.
// Hub.Post implements bridge.Transport for sticker events, which are routed
// by origin, so the bridge never touches sockets directly. /api/catalog and /healthz are read-only views for
// debugging.
package server
