// Package catalog loads the sticker index and its packs into a sequence of
// snapshots, and filters the loaded packs for search.
//
// # Overview
//
// Loading is strictly sequential so packs appear in index order and the UI
// can show them one at a time as they arrive:
//
//	index.json ──► pack1 ──► pack2 ──► ... ──► Ready
//	    │            │         │
//	    │ 404        │ error   │ error
//	    ▼            ▼         ▼
//	  Empty        Failed    Failed (pack1 kept)
//
// A failed pack stops the run; packs already loaded stay in the snapshot.
// Later pack files are never requested.
//
// # Phases
//
//   - Loading: zero value, at least one more snapshot follows
//   - Ready: every pack in the index was appended
//   - Empty: index.json is missing (404) or lists no packs
//   - Failed: the index or a pack could not be fetched or decoded
//
// Ready, Empty and Failed are terminal; the sequence ends after one of them.
// A body that is valid JSON but not the expected document (an index
// without a "packs" key, a pack that is null or not an object) counts as
// malformed and ends the run as Failed.
//
// # Homeserver Override
//
// When index.json carries homeserver_url, it is pushed into the
// HomeserverSetter before the first pack is requested, so every thumbnail
// URL built afterwards uses it.
//
// # Usage Example
//
//	client, err := packs.NewClient("https://example.com/packs/", 30*time.Second)
//	if err != nil {
//		return err
//	}
//	hs := packs.NewHomeserver("https://matrix-client.matrix.org")
//	loader := catalog.NewLoader(client, hs)
//
//	for st := range loader.Load(ctx) {
//		store.Update(st)
//		if st.Phase == catalog.Failed {
//			log.Printf("load failed: %s", st.Error)
//		}
//	}
//
// Load runs once per Loader. Ranging over the returned sequence a second
// time yields nothing, and breaking out of the loop stops further fetches.
//
// # Search
//
// Filter keeps the stickers whose body matches a query and drops packs left
// with no stickers. A body matches when it contains the query, or when one
// of its words is within one edit per four query runes (Levenshtein):
//
//	catalog.Filter(list, "cat")   // "happy cat", "cat nap"
//	catalog.Filter(list, "kitty") // also "kitti"
//	catalog.Filter(list, "")      // list unchanged
package catalog
