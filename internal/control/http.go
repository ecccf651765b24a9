// Package control exposes a running counter Actomaton over HTTP: a snapshot
// endpoint and two action endpoints, so the scheduler can be driven and
// observed from outside a single process without a dedicated client SDK.
package control

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/nextlevelbuilder/actomaton/actomaton"
	"github.com/nextlevelbuilder/actomaton/internal/demo"
)

// CounterHandler serves the counter scenario over HTTP.
type CounterHandler struct {
	m     *actomaton.Actomaton[demo.CounterAction, demo.CounterState, struct{}]
	token string
}

// NewCounterHandler wraps m, optionally requiring a bearer token on every
// request.
func NewCounterHandler(m *actomaton.Actomaton[demo.CounterAction, demo.CounterState, struct{}], token string) *CounterHandler {
	return &CounterHandler{m: m, token: token}
}

// RegisterRoutes registers the counter's routes on mux.
func (h *CounterHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/counter", h.auth(h.handleSnapshot))
	mux.HandleFunc("POST /v1/counter/inc", h.auth(h.handleInc))
	mux.HandleFunc("POST /v1/counter/dec", h.auth(h.handleDec))
}

func (h *CounterHandler) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.token != "" && extractBearerToken(r) != h.token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next(w, r)
	}
}

func (h *CounterHandler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.m.Snapshot())
}

func (h *CounterHandler) handleInc(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, demo.Inc)
}

func (h *CounterHandler) handleDec(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, demo.Dec)
}

func (h *CounterHandler) send(w http.ResponseWriter, r *http.Request, a demo.CounterAction) {
	handle := h.m.Send(a)
	if err := handle.Wait(r.Context()); err != nil {
		slog.Error("control.counter.send", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, h.m.Snapshot())
}

func extractBearerToken(r *http.Request) string {
	const prefix = "Bearer "
	auth := r.Header.Get("Authorization")
	if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		return auth[len(prefix):]
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
