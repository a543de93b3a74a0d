package thumbs

import "sync"

// Rect is an axis-aligned rectangle in layout units.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Area returns W*H, or zero for empty rectangles.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.W * r.H
}

// Expand grows r by m on every side.
func (r Rect) Expand(m int) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, W: r.W + 2*m, H: r.H + 2*m}
}

// Intersect returns the overlap of r and o.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.X+r.W, o.X+o.W), min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Bounded is implemented by placeholders that know where they are laid out.
// ok is false when the placeholder is not currently part of the layout.
type Bounded interface {
	Bounds() (r Rect, ok bool)
}

type visibility int

const (
	visUnknown visibility = iota
	visIn
	visOut
)

// Viewport is an Observer that tests placeholder bounds against a view
// rectangle expanded by the configured margin. Nothing is reported until
// Refresh (or SetView) runs; a newly observed target always gets one initial
// entry, after that only changes are reported.
type Viewport struct {
	mu       sync.Mutex
	callback func([]Entry)
	opts     Options
	view     Rect
	targets  map[Placeholder]visibility
	order    []Placeholder
}

var _ Observer = (*Viewport)(nil)

// NewViewport returns an unattached Viewport.
func NewViewport() *Viewport {
	return &Viewport{targets: make(map[Placeholder]visibility)}
}

// Attach sets the callback and options and returns v. It has the
// ObserverFactory signature so a Tracker can own the wiring:
//
//	vp := thumbs.NewViewport()
//	tracker := thumbs.NewTracker(resolver, vp.Attach)
func (v *Viewport) Attach(callback func([]Entry), opts Options) Observer {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.callback = callback
	v.opts = opts
	return v
}

// Observe adds p. Its first state is reported on the next Refresh.
func (v *Viewport) Observe(p Placeholder) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.targets[p]; ok {
		return
	}
	v.targets[p] = visUnknown
	v.order = append(v.order, p)
}

// Disconnect forgets every target.
func (v *Viewport) Disconnect() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.targets = make(map[Placeholder]visibility)
	v.order = nil
}

// SetView moves the view and refreshes.
func (v *Viewport) SetView(view Rect) {
	v.mu.Lock()
	v.view = view
	v.mu.Unlock()
	v.Refresh()
}

// View returns the current view rectangle.
func (v *Viewport) View() Rect {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.view
}

// Refresh re-tests every target and reports the ones whose state changed.
func (v *Viewport) Refresh() {
	v.mu.Lock()
	region := v.view.Expand(v.opts.Margin)
	var entries []Entry
	for _, p := range v.order {
		in := v.intersects(p, region)
		next := visOut
		if in {
			next = visIn
		}
		if v.targets[p] == next {
			continue
		}
		v.targets[p] = next
		entries = append(entries, Entry{Target: p, Intersecting: in})
	}
	callback := v.callback
	v.mu.Unlock()

	if len(entries) > 0 && callback != nil {
		callback(entries)
	}
}

func (v *Viewport) intersects(p Placeholder, region Rect) bool {
	if v.view.Empty() {
		return false
	}
	b, ok := p.(Bounded)
	if !ok {
		return false
	}
	r, laid := b.Bounds()
	if !laid || r.Empty() {
		return false
	}
	overlap := r.Intersect(region).Area()
	if overlap == 0 {
		return false
	}
	if v.opts.Threshold <= 0 {
		return true
	}
	return float64(overlap)/float64(r.Area()) >= v.opts.Threshold
}
