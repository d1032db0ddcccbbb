// Package server exposes the HTTP trigger endpoint for a price-refresh run.
//
// Contract: 200 "OK updated=<N> shard=<i>/<S>" on success, 401 "Unauthorized"
// without a valid credential, 500 "ERR: <message>" when the run fails. Error
// bodies carry the error message only, never credentials or stack traces.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/NatanRincker/ctrl-invest-pricer/internal/runner"
)

// Authorizer decides whether a request may trigger a run.
type Authorizer interface {
	Authorized(header string) bool
}

// RunTrigger executes one refresh run.
type RunTrigger interface {
	Run(ctx context.Context) (runner.Result, error)
}

// Handler serves the trigger and health endpoints.
type Handler struct {
	auth   Authorizer
	runs   RunTrigger
	logger *slog.Logger
}

// New creates the HTTP handler.
func New(auth Authorizer, runs RunTrigger, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		auth:   auth,
		runs:   runs,
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/cron/update-public-assets", getOnly(h.update))
	mux.HandleFunc("/healthz", getOnly(h.health))
	return mux
}

// getOnly rejects non-GET requests with 405, matching the behavior of the
// Go 1.22+ ServeMux "GET /path" patterns this mux was written for.
func getOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	if !h.auth.Authorized(r.Header.Get("Authorization")) {
		h.logger.Warn("unauthorized trigger request", "remote", r.RemoteAddr)
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, "Unauthorized")
		return
	}

	// A panic anywhere in the run must surface as a 500, not kill the host.
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("run panicked", "panic", rec)
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprintf(w, "ERR: %v", rec)
		}
	}()

	res, err := h.runs.Run(r.Context())
	if err != nil {
		h.logger.Error("run failed",
			"error", err,
			"partial_updated", res.TotalUpdated,
		)
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "ERR: %v", err)
		return
	}

	fmt.Fprintf(w, "OK updated=%d shard=%d/%d", res.TotalUpdated, res.Shard, res.ShardCount)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "ok")
}
