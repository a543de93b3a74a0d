package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/five82/stickerpicker/internal/bridge"
	"github.com/five82/stickerpicker/internal/catalog"
	"github.com/five82/stickerpicker/internal/config"
	"github.com/five82/stickerpicker/internal/packs"
	"github.com/five82/stickerpicker/internal/prefs"
	"github.com/five82/stickerpicker/internal/server"
	"github.com/five82/stickerpicker/internal/state"
	"github.com/five82/stickerpicker/internal/ui"
)

// Options configure the picker.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses ~/.config/stickerpicker/prefs.toml
	Listen     string // overrides the config listen address
	Headless   bool   // serve the bridge without the TUI
}

// Run loads the catalog, serves the widget bridge, and runs the TUI until
// the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.Listen != "" {
		cfg.Listen = opts.Listen
	}

	closeLog, err := setupLogging(cfg.LogPath(), opts.Headless)
	if err != nil {
		return err
	}
	defer closeLog()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		log.Printf("[app] prefs: %v (using defaults)", err)
	}

	client, err := packs.NewClient(cfg.PacksURL, cfg.RequestTimeout)
	if err != nil {
		return fmt.Errorf("init packs client: %w", err)
	}
	homeserver := packs.NewHomeserver(cfg.HomeserverURL)
	store := &state.Store{}
	loader := catalog.NewLoader(client, homeserver)

	hub := server.NewHub(cfg.AllowedOrigins)
	widget := bridge.New(hub, bridge.Options{StrictOrigin: cfg.StrictOrigin})
	hub.Handle(widget.HandleMessage)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Printf("[app] packs from %s, homeserver %s", client.BaseURL(), homeserver.URL())
	loaderDone := StartLoader(ctx, store, loader)

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.Serve(ctx, cfg.Listen, server.NewRouter(hub, store, widget)); err != nil {
			serveErr <- err
			cancel()
		}
	}()

	var runErr error
	if opts.Headless {
		<-ctx.Done()
	} else {
		runErr = ui.Run(ui.Options{
			Context:   ctx,
			Store:     store,
			Sender:    widget,
			Resolver:  homeserver,
			ThemeName: userPrefs.Theme,
			PrefsPath: opts.PrefsPath,
			LogPath:   cfg.LogPath(),
			Listen:    cfg.Listen,
		})
	}

	cancel()
	hub.Close()
	wg.Wait()
	<-loaderDone

	select {
	case err := <-serveErr:
		if runErr == nil {
			runErr = fmt.Errorf("serve widget: %w", err)
		}
	default:
	}
	return runErr
}

// setupLogging sends the standard logger to path. In headless mode the log
// is mirrored to stderr; otherwise the TUI owns the terminal.
func setupLogging(path string, mirror bool) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	prevOut, prevFlags := log.Writer(), log.Flags()
	var out io.Writer = file
	if mirror {
		out = io.MultiWriter(file, os.Stderr)
	}
	log.SetOutput(out)
	log.SetFlags(log.LstdFlags)

	return func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
		_ = file.Close()
	}, nil
}
