// Package inspect provides the HTTP introspection API for a hook registry:
// read-only endpoints listing extension points and recent run-log entries,
// plus a trigger endpoint that invokes Run on a key. Routes can be guarded
// by the bearer-token middleware in this package.
package inspect

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/ferro-labs/ferrohooks"
	"github.com/ferro-labs/ferrohooks/internal/runlog"
	"github.com/ferro-labs/ferrohooks/internal/version"
)

// Handlers holds dependencies for the inspect HTTP handlers.
type Handlers struct {
	Registry *ferrohooks.Registry
	Logs     runlog.Reader

	// runMu serializes Run calls triggered over HTTP. The registry assumes a
	// single cooperative caller, so the host provides the synchronization.
	runMu sync.Mutex
}

// ExtensionPointInfo is the wire shape for one extension point.
type ExtensionPointInfo struct {
	Key          string `json:"key"`
	RunCallbacks int    `json:"run_callbacks"`
}

// Routes returns a chi.Router with all inspect endpoints mounted.
func (h *Handlers) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.health)
	r.Get("/extension-points", h.listExtensionPoints)
	r.Get("/extension-points/{key}", h.getExtensionPoint)
	r.Get("/runs", h.listRuns)
	r.Post("/run/{key}", h.triggerRun)

	return r
}

func (h *Handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "ok",
		"version":          version.Short(),
		"extension_points": len(h.Registry.Keys()),
	})
}

func (h *Handlers) listExtensionPoints(w http.ResponseWriter, _ *http.Request) {
	keys := h.Registry.Keys()
	infos := make([]ExtensionPointInfo, 0, len(keys))
	for _, key := range keys {
		infos = append(infos, ExtensionPointInfo{
			Key:          key,
			RunCallbacks: h.Registry.HookCount(key),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"extension_points": infos})
}

func (h *Handlers) getExtensionPoint(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if !h.Registry.Has(key) {
		writeError(w, http.StatusNotFound, "unknown extension point: "+key)
		return
	}
	writeJSON(w, http.StatusOK, ExtensionPointInfo{
		Key:          key,
		RunCallbacks: h.Registry.HookCount(key),
	})
}

func (h *Handlers) listRuns(w http.ResponseWriter, r *http.Request) {
	if h.Logs == nil {
		writeError(w, http.StatusNotFound, "run log not configured")
		return
	}
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	entries, err := h.Logs.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": entries})
}

func (h *Handlers) triggerRun(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var data any
	if r.Body != nil {
		// An empty body means Run with nil data.
		if err := json.NewDecoder(r.Body).Decode(&data); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
	}

	h.runMu.Lock()
	result, err := h.Registry.Run(r.Context(), key, data)
	h.runMu.Unlock()
	if err != nil {
		var notFound *ferrohooks.NotFoundError
		if errors.As(err, &notFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"key":     key,
		"present": result.Present(),
		"result":  result.Interface(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
