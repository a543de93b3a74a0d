package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/five82/stickerpicker/internal/state"
)

const shutdownTimeout = 5 * time.Second

// SnapshotSource provides the catalog served by /api/catalog.
type SnapshotSource interface {
	Snapshot() state.Snapshot
}

// BindingSource reports the widget binding for /healthz.
type BindingSource interface {
	Binding() (string, bool)
}

type catalogResponse struct {
	Phase       string       `json:"phase"`
	Error       string       `json:"error,omitempty"`
	Version     uint64       `json:"version"`
	LastUpdated time.Time    `json:"last_updated"`
	Stickers    int          `json:"sticker_count"`
	Packs       []packDigest `json:"packs"`
}

type packDigest struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Stickers int    `json:"stickers"`
}

// NewRouter wires the widget socket and the read-only status endpoints.
func NewRouter(hub *Hub, store SnapshotSource, binding BindingSource) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/api/widget", func(c *gin.Context) {
		hub.Serve(c.Writer, c.Request)
	})

	router.GET("/api/catalog", func(c *gin.Context) {
		snap := store.Snapshot()
		resp := catalogResponse{
			Phase:       snap.Phase.String(),
			Error:       snap.Error,
			Version:     snap.Version,
			LastUpdated: snap.LastUpdated,
			Stickers:    snap.StickerCount(),
			Packs:       make([]packDigest, 0, len(snap.Packs)),
		}
		for _, p := range snap.Packs {
			resp.Packs = append(resp.Packs, packDigest{ID: p.ID, Title: p.Title, Stickers: len(p.Stickers)})
		}
		c.JSON(http.StatusOK, resp)
	})

	router.GET("/healthz", func(c *gin.Context) {
		widgetID, bound := binding.Binding()
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"hosts":     hub.Count(),
			"bound":     bound,
			"widget_id": widgetID,
		})
	})

	return router
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[server] listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Printf("[server] stopped")
	return nil
}
