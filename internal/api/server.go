// Package api exposes the engine contract over HTTP for the session/UI
// layer: proposal evaluation, agreement simulation, run lookup, and
// cancellation. Simulations run in the background so long durations don't
// hold a request open.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/talgya/accord/internal/engine"
	"github.com/talgya/accord/internal/issue"
	"github.com/talgya/accord/internal/persistence"
	"github.com/talgya/accord/internal/scenario"
	"github.com/talgya/accord/internal/sim"
)

// Server serves the engine over HTTP.
type Server struct {
	Engine *engine.Engine
	DB     *persistence.DB // Optional — runs persist when set
	Port   int

	mu   sync.Mutex
	jobs map[string]*job
}

type job struct {
	handle string
	done   bool
	run    *sim.Run
	err    error
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	s.jobs = make(map[string]*job)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/evaluate", s.handleEvaluate)
	mux.HandleFunc("/api/v1/simulate", s.handleSimulate)
	mux.HandleFunc("/api/v1/runs", s.handleRuns)
	mux.HandleFunc("/api/v1/run/", s.handleRunRoutes)
	return mux
}

// ListenAndServe blocks serving the API.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "persistence", s.DB != nil)
	return http.ListenAndServe(addr, s.Handler())
}

// evaluateRequest bundles a scenario document with the proposal to score.
type evaluateRequest struct {
	scenario.Document
}

// handleEvaluate scores the request's proposal for every party.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	space, profiles, err := req.Build()
	if err != nil {
		writeError(w, err)
		return
	}
	proposal, ok := req.BuildProposal()
	if !ok {
		http.Error(w, "request has no proposal", http.StatusBadRequest)
		return
	}

	ev, err := s.Engine.EvaluateProposal(space, proposal, profiles)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, ev)
}

// simulateRequest adds run parameters to a scenario document.
type simulateRequest struct {
	scenario.Document
	Duration int    `json:"duration"`
	Seed     *int64 `json:"seed,omitempty"`
}

// handleSimulate starts a background run and returns its handle for
// polling and cancellation.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Duration < 1 {
		http.Error(w, "duration must be at least 1", http.StatusBadRequest)
		return
	}

	space, profiles, err := req.Build()
	if err != nil {
		writeError(w, err)
		return
	}
	proposal, ok := req.BuildProposal()
	if !ok {
		http.Error(w, "request has no proposal", http.StatusBadRequest)
		return
	}

	handle, results := s.Engine.StartSimulation(space, proposal, profiles, req.Duration, req.Seed)

	j := &job{handle: handle}
	s.mu.Lock()
	s.jobs[handle] = j
	s.mu.Unlock()

	go func() {
		res := <-results
		s.mu.Lock()
		j.done = true
		j.run = res.Run
		j.err = res.Err
		s.mu.Unlock()

		if res.Err == nil && res.Run != nil && s.DB != nil {
			if err := s.DB.SaveRun(res.Run); err != nil {
				slog.Error("run save failed", "run_id", res.Run.ID, "error", err)
			}
		}
	}()

	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, map[string]any{"handle": handle})
}

// handleRunRoutes dispatches GET /api/v1/run/{handle} and
// POST /api/v1/run/{handle}/cancel.
func (s *Server) handleRunRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/run/")
	if handle, ok := strings.CutSuffix(rest, "/cancel"); ok {
		s.handleCancel(w, r, handle)
		return
	}
	s.handleRunStatus(w, r, rest)
}

func (s *Server) handleRunStatus(w http.ResponseWriter, r *http.Request, handle string) {
	s.mu.Lock()
	j, ok := s.jobs[handle]
	s.mu.Unlock()
	if !ok {
		// Fall back to persisted runs addressed by run id.
		if s.DB != nil {
			if run, err := s.DB.LoadRun(handle); err == nil {
				writeJSON(w, map[string]any{"status": "stored", "run": run})
				return
			}
		}
		http.Error(w, "unknown run handle", http.StatusNotFound)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case !j.done:
		writeJSON(w, map[string]any{"status": "running"})
	case j.err != nil:
		writeJSON(w, map[string]any{"status": "failed", "error": j.err.Error()})
	default:
		status := "complete"
		if !j.run.Complete {
			status = "cancelled"
		}
		writeJSON(w, map[string]any{"status": status, "run": j.run})
	}
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request, handle string) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	cancelled := s.Engine.Cancel(handle)
	writeJSON(w, map[string]any{"cancelled": cancelled})
}

// handleRuns lists persisted runs.
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "persistence disabled", http.StatusNotFound)
		return
	}
	runs, err := s.DB.ListRuns(50)
	if err != nil {
		http.Error(w, "listing failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"runs": runs})
}

// writeError maps validation failures to 400 with structured detail.
func writeError(w http.ResponseWriter, err error) {
	var ve *issue.ValidationError
	if errors.As(err, &ve) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"error": ve})
		return
	}
	http.Error(w, err.Error(), http.StatusBadRequest)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
