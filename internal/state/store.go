package state

import (
	"slices"
	"sync"
	"time"

	"github.com/five82/stickerpicker/internal/catalog"
	"github.com/five82/stickerpicker/internal/packs"
)

// Snapshot represents the latest catalog available to renderers.
type Snapshot struct {
	Packs       []packs.Pack
	Phase       catalog.Phase
	Error       string
	LastUpdated time.Time
	Version     uint64 // incremented on every accepted update
}

// IsTerminal reports whether loading has finished.
func (s Snapshot) IsTerminal() bool {
	return s.Phase.Terminal()
}

// StickerCount returns the number of stickers across all loaded packs.
func (s Snapshot) StickerCount() int {
	return packs.StickerCount(s.Packs)
}

// Store holds the current catalog snapshot. The catalog loader is its only
// writer; the UI and HTTP handlers read copies.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	changed  chan struct{}
}

// Update replaces the stored snapshot with st. Once a terminal phase has been
// stored further updates are rejected and Update returns false.
func (s *Store) Update(st catalog.State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot.Version > 0 && s.snapshot.IsTerminal() {
		return false
	}

	s.snapshot = Snapshot{
		Packs:       clonePacks(st.Packs),
		Phase:       st.Phase,
		Error:       st.Error,
		LastUpdated: time.Now(),
		Version:     s.snapshot.Version + 1,
	}
	if s.changed != nil {
		close(s.changed)
		s.changed = nil
	}
	return true
}

// Snapshot returns a copy of the current snapshot. The zero Store reports
// the Loading phase with no packs.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Packs = clonePacks(s.snapshot.Packs)
	return snap
}

// Changed returns a channel that is closed by the next accepted Update.
func (s *Store) Changed() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.changed == nil {
		s.changed = make(chan struct{})
	}
	return s.changed
}

func clonePacks(list []packs.Pack) []packs.Pack {
	if len(list) == 0 {
		return nil
	}
	dup := make([]packs.Pack, len(list))
	for i, p := range list {
		p.Stickers = slices.Clone(p.Stickers)
		dup[i] = p
	}
	return dup
}
