// Package admin exposes read access to the run statistics and user traces
// over HTTP.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohit83k/radiusd/internal/logger"
	"github.com/mohit83k/radiusd/internal/stats"
	"github.com/mohit83k/radiusd/internal/trace"
)

// Handler serves the admin endpoints.
type Handler struct {
	Stats    *stats.RunStat
	Trace    *trace.UserTrace
	Gatherer prometheus.Gatherer
	Logger   logger.Logger
}

// NewRouter wires the admin routes.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprintln(w, "OK")
	}).Methods("GET")
	r.HandleFunc("/runstat", h.getRunStat).Methods("GET")
	r.HandleFunc("/runstat/reset", h.resetRunStat).Methods("POST")
	r.HandleFunc("/trace/{account}", h.getTrace).Methods("GET")
	if h.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(h.Gatherer, promhttp.HandlerOpts{})).Methods("GET")
	}
	return r
}

func (h *Handler) getRunStat(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.Stats.Snapshot())
}

func (h *Handler) resetRunStat(w http.ResponseWriter, r *http.Request) {
	h.Stats.Reset()
	h.Logger.WithFields(map[string]any{"remote": r.RemoteAddr}).Info("Run statistics reset")
	h.writeJSON(w, http.StatusOK, h.Stats.Snapshot())
}

func (h *Handler) getTrace(w http.ResponseWriter, r *http.Request) {
	account := mux.Vars(r)["account"]
	entries := h.Trace.Get(account)
	if len(entries) == 0 {
		http.Error(w, "no trace for account", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Error(fmt.Errorf("failed to write admin response: %w", err))
	}
}

// ListenAndServe serves router on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, router http.Handler, log logger.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("Admin server listening on " + addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("admin server: %w", err)
	}
	return nil
}
