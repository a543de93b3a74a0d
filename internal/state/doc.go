// Package state holds the catalog snapshot shared between the loader and the
// renderers.
//
// # Overview
//
// The Store is the single place catalog data lives while the program runs.
// The catalog loader writes to it as packs arrive; the TUI and the
// /api/catalog handler read copies of it.
//
//	Producer (loader):              Consumers:
//	┌──────────────────┐           ┌───────────────────┐
//	│ FetchIndex()     │           │ ui: Snapshot()    │
//	│ FetchPack() ...  │           │ on Changed()      │
//	│      ↓           │           ├───────────────────┤
//	│ store.Update()   │──────────→│ /api/catalog:     │
//	│ (until terminal) │  (mutex)  │ Snapshot()        │
//	└──────────────────┘           └───────────────────┘
//
// # Update Semantics
//
// Each Update replaces the whole snapshot and bumps Version. The phase moves
// from Loading to exactly one terminal phase (Ready, Empty or Failed); after
// that the Store rejects further updates, so a stray writer cannot resurrect
// a finished load. A Failed snapshot keeps whatever packs were loaded before
// the failure.
//
// # Change Notification
//
// Changed returns a channel closed by the next accepted Update. Readers wait
// on it, take a Snapshot, then ask for a fresh channel:
//
//	for {
//		ch := store.Changed()
//		snap := store.Snapshot()
//		render(snap)
//		if snap.IsTerminal() {
//			return
//		}
//		<-ch
//	}
//
// Taking the channel before the snapshot avoids missing an update that lands
// in between.
//
// # Defensive Copying
//
// Update and Snapshot both copy the pack slice and each pack's sticker slice.
// Sticker payloads (json.RawMessage) are shared; nothing mutates them.
//
// # Testing Considerations
//
// The zero Store is ready to use and reports Loading with no packs.
package state
