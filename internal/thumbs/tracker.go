package thumbs

import "sync"

// Placeholder is a rendered sticker slot whose thumbnail can be attached and
// released. Implementations must be comparable (typically pointers).
type Placeholder interface {
	MediaRef() string
	SetSource(url string)
	ClearSource()
}

// Entry reports that a placeholder entered or left the observed region.
type Entry struct {
	Target       Placeholder
	Intersecting bool
}

// Options configure an Observer's region test.
type Options struct {
	// Margin extends the observed region beyond the view on every side.
	Margin int
	// Threshold is the fraction of a target that must overlap the region.
	// Zero means any non-empty overlap.
	Threshold float64
}

// Observer watches placeholders and reports proximity changes through the
// callback it was created with.
type Observer interface {
	Observe(p Placeholder)
	Disconnect()
}

// ObserverFactory builds an Observer that delivers entries to callback.
type ObserverFactory func(callback func([]Entry), opts Options) Observer

// Resolver maps a content URI to a thumbnail URL.
type Resolver interface {
	ThumbnailURL(mediaRef string) string
}

// Fixed region test used for every tracker.
const (
	PrefetchMargin   = 100
	OverlapThreshold = 0
)

// Tracker keeps thumbnails attached only to placeholders near the view.
type Tracker struct {
	mu         sync.Mutex
	resolver   Resolver
	observer   Observer
	registered map[Placeholder]struct{}
	loaded     map[Placeholder]string
}

// NewTracker builds a Tracker whose observer comes from newObserver.
func NewTracker(resolver Resolver, newObserver ObserverFactory) *Tracker {
	t := &Tracker{
		resolver:   resolver,
		registered: make(map[Placeholder]struct{}),
		loaded:     make(map[Placeholder]string),
	}
	t.observer = newObserver(t.handle, Options{Margin: PrefetchMargin, Threshold: OverlapThreshold})
	return t
}

// Register starts observing p. Registering the same placeholder twice is a no-op.
func (t *Tracker) Register(p Placeholder) {
	t.mu.Lock()
	if _, ok := t.registered[p]; ok {
		t.mu.Unlock()
		return
	}
	t.registered[p] = struct{}{}
	t.mu.Unlock()

	t.observer.Observe(p)
}

// UnregisterAll stops observing every placeholder and releases their thumbnails.
func (t *Tracker) UnregisterAll() {
	t.observer.Disconnect()

	t.mu.Lock()
	loaded := t.loaded
	t.loaded = make(map[Placeholder]string)
	t.registered = make(map[Placeholder]struct{})
	t.mu.Unlock()

	for p := range loaded {
		p.ClearSource()
	}
}

// Loaded returns how many placeholders currently hold a thumbnail.
func (t *Tracker) Loaded() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.loaded)
}

// Registered returns how many placeholders are observed.
func (t *Tracker) Registered() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.registered)
}

func (t *Tracker) handle(entries []Entry) {
	for _, e := range entries {
		if e.Intersecting {
			t.enter(e.Target)
		} else {
			t.leave(e.Target)
		}
	}
}

func (t *Tracker) enter(p Placeholder) {
	t.mu.Lock()
	if _, ok := t.registered[p]; !ok {
		t.mu.Unlock()
		return
	}
	if _, ok := t.loaded[p]; ok {
		t.mu.Unlock()
		return
	}
	url := t.resolver.ThumbnailURL(p.MediaRef())
	t.loaded[p] = url
	t.mu.Unlock()

	p.SetSource(url)
}

func (t *Tracker) leave(p Placeholder) {
	t.mu.Lock()
	if _, ok := t.loaded[p]; !ok {
		t.mu.Unlock()
		return
	}
	delete(t.loaded, p)
	t.mu.Unlock()

	p.ClearSource()
}
