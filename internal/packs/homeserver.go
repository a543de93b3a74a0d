package packs

import (
	"strings"
	"sync"
)

// DefaultHomeserverURL is used until config or the index overrides it.
const DefaultHomeserverURL = "https://matrix-client.matrix.org"

const (
	mxcPrefix      = "mxc://"
	thumbnailPath  = "/media-thumbnail/"
	thumbnailQuery = "?height=128&width=128&method=scale"
)

// Homeserver holds the base URL thumbnails are resolved against. It is
// created from config and updated by the catalog loader when the index
// declares homeserver_url; every resolution after an update uses the new base.
type Homeserver struct {
	mu   sync.RWMutex
	base string
}

// NewHomeserver returns a Homeserver seeded with base, or the default when blank.
func NewHomeserver(base string) *Homeserver {
	h := &Homeserver{base: DefaultHomeserverURL}
	h.SetHomeserver(base)
	return h
}

// SetHomeserver replaces the base URL. Blank values are ignored.
func (h *Homeserver) SetHomeserver(base string) {
	trimmed := strings.TrimRight(strings.TrimSpace(base), "/")
	if trimmed == "" {
		return
	}
	h.mu.Lock()
	h.base = trimmed
	h.mu.Unlock()
}

// URL returns the current base URL.
func (h *Homeserver) URL() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.base
}

// ThumbnailURL resolves a content URI against the current base.
func (h *Homeserver) ThumbnailURL(mediaRef string) string {
	return ThumbnailURL(h.URL(), mediaRef)
}

// ThumbnailURL builds the fixed 128x128 scaled thumbnail URL for mediaRef.
func ThumbnailURL(base, mediaRef string) string {
	contentID := strings.TrimPrefix(mediaRef, mxcPrefix)
	return strings.TrimRight(base, "/") + thumbnailPath + contentID + thumbnailQuery
}
