package stream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// Handler returns the stream routes: /ws for the websocket feed and
// /snapshot for the latest snapshot as JSON.
func Handler(h *Hub) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	mux.HandleFunc("/snapshot", func(w http.ResponseWriter, r *http.Request) {
		s, ok := h.Latest()
		if !ok {
			http.Error(w, "no snapshot yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s); err != nil {
			h.logger.Warn("writing snapshot failed", "error", err)
		}
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.logger.Debug("stream request", "remote", r.RemoteAddr, "method", r.Method, "url", r.URL.String())
		mux.ServeHTTP(w, r)
	})
}

// Serve runs the stream server on addr until ctx is done.
func Serve(ctx context.Context, addr string, h *Hub) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           Handler(h),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		h.logger.Info("serving snapshot stream", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		h.logger.Warn("stream server shutdown", "error", err)
	}
	// Shutdown leaves hijacked websocket connections alone.
	h.closeAll()
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
