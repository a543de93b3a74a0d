// Package packs reads sticker pack documents and resolves thumbnail URLs.
//
// # Overview
//
// A sticker deployment is a static directory served over HTTP (or read from
// disk): an index.json manifest plus one JSON file per pack.
//
//	packs/
//	├── index.json      {"homeserver_url": "...", "packs": ["a.json", "b.json"]}
//	├── a.json          {"id": "...", "title": "...", "stickers": [...]}
//	└── b.json
//
// Client fetches these documents; Homeserver turns a sticker's mxc:// content
// URI into a 128x128 thumbnail URL on the configured homeserver.
//
// # Errors
//
// Fetch failures fall into three groups:
//
//   - transport errors, wrapped as "execute request: ..."
//   - *StatusError for any status >= 400; IsNotFound reports a 404
//   - ErrMalformedResponse (wrapped) when a body does not decode
//
// Callers decide what each means. The catalog loader treats a missing
// index.json as an empty deployment and everything else as a failure.
//
// # Stickers
//
// Sticker keeps its full JSON payload in Content and marshals back to it
// unchanged, so the host receives exactly what the pack file contained.
package packs
