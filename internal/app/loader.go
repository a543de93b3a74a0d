package app

import (
	"context"
	"log"

	"github.com/five82/stickerpicker/internal/catalog"
	"github.com/five82/stickerpicker/internal/state"
)

// StartLoader launches a background goroutine that drains the loader into
// the store. It returns immediately; the returned channel closes once the
// sequence has ended.
func StartLoader(ctx context.Context, store *state.Store, loader *catalog.Loader) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for st := range loader.Load(ctx) {
			if !store.Update(st) {
				log.Printf("[loader] store rejected %s snapshot", st.Phase)
				return
			}
			logState(st)
		}
	}()
	return done
}

func logState(st catalog.State) {
	switch st.Phase {
	case catalog.Loading:
		log.Printf("[loader] loaded %d pack(s)", len(st.Packs))
	case catalog.Ready:
		log.Printf("[loader] catalog ready: %d pack(s)", len(st.Packs))
	case catalog.Empty:
		log.Printf("[loader] no packs found")
	case catalog.Failed:
		log.Printf("[loader] load failed after %d pack(s): %s", len(st.Packs), st.Error)
	}
}
