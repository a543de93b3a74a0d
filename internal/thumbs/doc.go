// Package thumbs attaches sticker thumbnails only while their placeholders are
// near the visible region.
//
// # Overview
//
// Tracker owns the policy: on enter it resolves the thumbnail URL and sets it
// on the placeholder, on leave it clears it, and repeated events in the same
// direction do nothing. The number of loaded thumbnails therefore follows
// the size of the view, not the size of the catalog.
//
// Proximity detection is a collaborator behind the Observer interface.
// Viewport is the implementation the TUI uses: the renderer lays placeholders
// out in layout units, moves the view as the user scrolls, and Viewport
// reports which placeholders overlap the view grown by PrefetchMargin.
//
// # Region Test
//
//	 ┌───────────── view + margin ─────────────┐
//	 │        ┌──────── view ────────┐         │
//	 │  [A]   │  [B]           [C]   │         │   A, B, C: loaded
//	 │        └──────────────────────┘         │
//	 └─────────────────────────────────────────┘
//	   [D]                                         D: released
//
// With a zero threshold any overlap with the expanded view counts. A
// placeholder that reports no bounds (not laid out, for example hidden by a
// search filter) is outside.
//
// # Usage Example
//
//	vp := thumbs.NewViewport()
//	tracker := thumbs.NewTracker(homeserver, vp.Attach)
//	defer tracker.UnregisterAll()
//
//	for _, cell := range cells {
//		tracker.Register(cell) // no-op when already registered
//	}
//	vp.SetView(thumbs.Rect{Y: offset, W: width, H: height})
//	log.Printf("%d thumbnails loaded", tracker.Loaded())
//
// Placeholders must be comparable; the tracker keys them in maps. A
// placeholder that also implements Bounded is positioned by the Viewport.
package thumbs
