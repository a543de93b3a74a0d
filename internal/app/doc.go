// Package app is the composition root of the sticker picker.
//
// Run wires the pieces together in this order:
//
//	config.Load()          read ~/.config/stickerpicker/config.toml
//	setupLogging()         log to the configured file
//	packs.NewClient()      fetch index.json and pack files
//	StartLoader()          drain catalog.Loader into state.Store
//	server.NewHub()        websocket peers standing in for the host frame
//	bridge.New()           widget API handshake and sticker events
//	server.Serve()         gin router: /api/widget, /api/catalog, /healthz
//	ui.Run()               TUI, blocks until quit
//
// The loader runs once. A failed or empty catalog is shown as such; there is
// no retry or refresh. In headless mode the TUI is skipped and Run blocks
// until the context is cancelled.
package app
