package catalog

import (
	"context"
	"errors"
	"iter"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/five82/stickerpicker/internal/packs"
)

// Phase is the loading phase of the catalog.
type Phase int

const (
	Loading Phase = iota
	Ready
	Empty
	Failed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Empty:
		return "empty"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further snapshots follow this phase.
func (p Phase) Terminal() bool {
	return p != Loading
}

// State is one catalog snapshot.
type State struct {
	Packs []packs.Pack
	Phase Phase
	Error string
}

// HomeserverSetter receives the index's homeserver_url override.
type HomeserverSetter interface {
	SetHomeserver(base string)
}

// Loader turns an index and its pack files into a sequence of snapshots.
type Loader struct {
	fetcher    packs.Fetcher
	homeserver HomeserverSetter
	started    atomic.Bool
}

// NewLoader builds a Loader. homeserver may be nil.
func NewLoader(fetcher packs.Fetcher, homeserver HomeserverSetter) *Loader {
	return &Loader{fetcher: fetcher, homeserver: homeserver}
}

// Load returns the snapshot sequence. Packs are fetched one at a time in
// index order, each only after the previous result is known; a Loading
// snapshot follows every appended pack and the last snapshot is terminal.
// The sequence runs once: ranging over it again, or over a second Load call
// on the same Loader, yields nothing.
func (l *Loader) Load(ctx context.Context) iter.Seq[State] {
	return func(yield func(State) bool) {
		if !l.started.CompareAndSwap(false, true) {
			return
		}

		index, err := l.fetcher.FetchIndex(ctx)
		if err != nil {
			if packs.IsNotFound(err) {
				yield(State{Phase: Empty})
				return
			}
			yield(failed(nil, err))
			return
		}

		if l.homeserver != nil && strings.TrimSpace(index.HomeserverURL) != "" {
			l.homeserver.SetHomeserver(index.HomeserverURL)
		}

		if len(index.Packs) == 0 {
			yield(State{Phase: Empty})
			return
		}

		loaded := make([]packs.Pack, 0, len(index.Packs))
		for _, file := range index.Packs {
			pack, err := l.fetcher.FetchPack(ctx, file)
			if err != nil {
				yield(failed(loaded, err))
				return
			}
			loaded = append(loaded, *pack)
			if !yield(State{Phase: Loading, Packs: slices.Clone(loaded)}) {
				return
			}
		}
		yield(State{Phase: Ready, Packs: loaded})
	}
}

func failed(loaded []packs.Pack, err error) State {
	return State{Phase: Failed, Packs: slices.Clone(loaded), Error: Describe(err)}
}

// Describe renders a fetch error for display. Status errors show only the
// reason phrase, e.g. "Internal Server Error".
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var se *packs.StatusError
	if errors.As(err, &se) {
		if se.StatusText != "" {
			return se.StatusText
		}
	}
	return err.Error()
}
