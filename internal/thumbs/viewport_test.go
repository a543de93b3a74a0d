package thumbs

import "testing"

type entryLog struct{ batches [][]Entry }

func (l *entryLog) record(entries []Entry) { l.batches = append(l.batches, entries) }

func TestRectIntersect(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	cases := []struct {
		name string
		b    Rect
		want Rect
	}{
		{"overlap", Rect{X: 5, Y: 5, W: 10, H: 10}, Rect{X: 5, Y: 5, W: 5, H: 5}},
		{"touching edge", Rect{X: 10, Y: 0, W: 5, H: 5}, Rect{}},
		{"disjoint", Rect{X: 20, Y: 20, W: 1, H: 1}, Rect{}},
		{"contained", Rect{X: 2, Y: 2, W: 2, H: 2}, Rect{X: 2, Y: 2, W: 2, H: 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := a.Intersect(tc.b); got != tc.want {
				t.Fatalf("Intersect = %+v, want %+v", got, tc.want)
			}
		})
	}
	if got := a.Expand(3); got != (Rect{X: -3, Y: -3, W: 16, H: 16}) {
		t.Fatalf("Expand = %+v", got)
	}
}

func TestViewport_InitialEntryThenChangesOnly(t *testing.T) {
	var log entryLog
	vp := NewViewport()
	vp.Attach(log.record, Options{Margin: 100})

	near := newCell("near", 0)
	far := newCell("far", 2000)
	vp.Observe(near)
	vp.Observe(far)
	if len(log.batches) != 0 {
		t.Fatalf("Observe reported before refresh")
	}

	vp.SetView(Rect{W: 128, H: 128})
	if len(log.batches) != 1 || len(log.batches[0]) != 2 {
		t.Fatalf("batches = %+v, want one batch with both targets", log.batches)
	}
	if !log.batches[0][0].Intersecting || log.batches[0][1].Intersecting {
		t.Fatalf("initial entries = %+v, want near in, far out", log.batches[0])
	}

	vp.Refresh()
	if len(log.batches) != 1 {
		t.Fatalf("unchanged refresh reported %d batches, want 1", len(log.batches))
	}
}

func TestViewport_MarginPrefetch(t *testing.T) {
	var log entryLog
	vp := NewViewport()
	vp.Attach(log.record, Options{Margin: 100})

	// Starts 99 units below the view; inside the margin.
	below := newCell("below", 128+99)
	// Starts exactly at the margin edge; zero overlap.
	edge := newCell("edge", 128+100)
	vp.Observe(below)
	vp.Observe(edge)
	vp.SetView(Rect{W: 128, H: 128})

	got := map[string]bool{}
	for _, e := range log.batches[0] {
		got[e.Target.MediaRef()] = e.Intersecting
	}
	if !got["below"] || got["edge"] {
		t.Fatalf("entries = %v, want below in and edge out", got)
	}
}

func TestViewport_Threshold(t *testing.T) {
	var log entryLog
	vp := NewViewport()
	vp.Attach(log.record, Options{Threshold: 0.5})

	c := newCell("half", 64+1) // 63 of 128 rows visible
	vp.Observe(c)
	vp.SetView(Rect{W: 128, H: 128})
	if log.batches[0][0].Intersecting {
		t.Fatalf("target below threshold reported intersecting")
	}
}

func TestViewport_UnlaidTargetsLeave(t *testing.T) {
	var log entryLog
	vp := NewViewport()
	vp.Attach(log.record, Options{})

	c := newCell("x", 0)
	vp.Observe(c)
	vp.SetView(Rect{W: 128, H: 128})
	c.laidOut = false
	vp.Refresh()

	last := log.batches[len(log.batches)-1]
	if len(last) != 1 || last[0].Intersecting {
		t.Fatalf("last batch = %+v, want leave for unlaid target", last)
	}
}

func TestViewport_DisconnectForgetsTargets(t *testing.T) {
	var log entryLog
	vp := NewViewport()
	vp.Attach(log.record, Options{})
	vp.Observe(newCell("x", 0))
	vp.Disconnect()
	vp.SetView(Rect{W: 128, H: 128})
	if len(log.batches) != 0 {
		t.Fatalf("disconnected viewport reported %d batches", len(log.batches))
	}
}
