// Package config loads the sticker picker's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/stickerpicker/config.toml
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing or blank, use defaults
//
// # TOML Format
//
//	packs_url = "https://stickers.example/packs/"
//	homeserver_url = "https://matrix-client.matrix.org"
//	listen = "127.0.0.1:7490"
//	allowed_origins = ["https://app.element.io"]
//	strict_origin = false
//	request_timeout_seconds = 30
//	log_dir = "~/.local/share/stickerpicker/logs"
//
// Every field is optional. packs_url may also be a local directory or a
// file:// URL. homeserver_url is only the starting value; an index.json that
// declares homeserver_url replaces it at load time.
//
// An empty allowed_origins accepts websocket connections from any origin.
// strict_origin makes sticker selections go only to the origin that bound
// the widget instead of to every connected host.
//
// Missing config files are not an error.
package config
