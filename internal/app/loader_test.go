package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/five82/stickerpicker/internal/catalog"
	"github.com/five82/stickerpicker/internal/packs"
	"github.com/five82/stickerpicker/internal/state"
)

func newPackServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func runLoader(t *testing.T, srv *httptest.Server) (*state.Store, *packs.Homeserver) {
	t.Helper()
	client, err := packs.NewClient(srv.URL+"/packs/", 5*time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	hs := packs.NewHomeserver("https://matrix-client.matrix.org")
	store := &state.Store{}

	select {
	case <-StartLoader(context.Background(), store, catalog.NewLoader(client, hs)):
	case <-time.After(5 * time.Second):
		t.Fatalf("loader did not finish")
	}
	return store, hs
}

func TestStartLoader_FillsStore(t *testing.T) {
	srv := newPackServer(t, map[string]string{
		"/packs/index.json": `{"homeserver_url":"https://hs.example","packs":["a.json","b.json"]}`,
		"/packs/a.json":     `{"id":"a","title":"A","stickers":[{"id":"s1","body":"cat","url":"mxc://hs.example/s1"}]}`,
		"/packs/b.json":     `{"id":"b","title":"B","stickers":[]}`,
	})

	store, hs := runLoader(t, srv)
	snap := store.Snapshot()
	if snap.Phase != catalog.Ready {
		t.Fatalf("Phase = %v, want ready", snap.Phase)
	}
	if len(snap.Packs) != 2 || snap.Packs[0].ID != "a" || snap.Packs[1].ID != "b" {
		t.Fatalf("Packs = %+v, want a then b", snap.Packs)
	}
	// One snapshot per pack plus the terminal one.
	if snap.Version != 3 {
		t.Fatalf("Version = %d, want 3", snap.Version)
	}
	if hs.URL() != "https://hs.example" {
		t.Fatalf("homeserver = %q, want index override", hs.URL())
	}
}

func TestStartLoader_MissingIndexIsEmpty(t *testing.T) {
	srv := newPackServer(t, nil)

	store, _ := runLoader(t, srv)
	snap := store.Snapshot()
	if snap.Phase != catalog.Empty || snap.Error != "" {
		t.Fatalf("snapshot = %+v, want empty without error", snap)
	}
}

func TestStartLoader_FailedPackKeepsEarlierPacks(t *testing.T) {
	srv := newPackServer(t, map[string]string{
		"/packs/index.json": `{"packs":["a.json","gone.json"]}`,
		"/packs/a.json":     `{"id":"a","title":"A","stickers":[]}`,
	})

	store, _ := runLoader(t, srv)
	snap := store.Snapshot()
	if snap.Phase != catalog.Failed || snap.Error != "Not Found" {
		t.Fatalf("snapshot = %+v, want failed with Not Found", snap)
	}
	if len(snap.Packs) != 1 || snap.Packs[0].ID != "a" {
		t.Fatalf("Packs = %+v, want a retained", snap.Packs)
	}
}

func TestSetupLogging_WritesToFile(t *testing.T) {
	path := t.TempDir() + "/logs/stickerpicker.log"
	closeLog, err := setupLogging(path, false)
	if err != nil {
		t.Fatalf("setupLogging: %v", err)
	}
	logState(catalog.State{Phase: catalog.Empty})
	closeLog()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "[loader] no packs found") {
		t.Fatalf("log = %q, want loader line", data)
	}
}
