// Package engine is the external contract of the bargaining and
// simulation core: proposal evaluation, agreement simulation, and
// best-effort cancellation of in-flight runs. The engine holds no
// process-wide mutable state beyond the registry of running simulations —
// every call is a pure function of its explicit inputs plus the run's
// owned RNG.
package engine

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"github.com/talgya/accord/internal/acceptance"
	"github.com/talgya/accord/internal/config"
	"github.com/talgya/accord/internal/issue"
	"github.com/talgya/accord/internal/party"
	"github.com/talgya/accord/internal/sim"
	"github.com/talgya/accord/internal/trend"
	"github.com/talgya/accord/internal/utility"
)

// Engine wires the utility, acceptance, simulation, and trend components
// under one validated configuration.
type Engine struct {
	cfg        config.Config
	utility    *utility.Engine
	acceptance *acceptance.Model
	analyzer   *trend.Analyzer

	mu      sync.Mutex
	running map[string]context.CancelFunc
}

// New creates an engine. Inconsistent configuration fails here, never
// mid-run.
func New(cfg config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:        cfg,
		utility:    utility.NewEngine(cfg.Utility),
		acceptance: acceptance.NewModel(cfg.Acceptance),
		analyzer:   trend.NewAnalyzer(cfg.Trend),
		running:    make(map[string]context.CancelFunc),
	}, nil
}

// Evaluation is the full scoring of one proposal across all parties.
type Evaluation struct {
	Scores             []utility.Score     `json:"utility_scores"`
	Acceptances        []acceptance.Result `json:"acceptance_results"`
	OverallProbability float64             `json:"overall_probability"`
}

// EvaluateProposal scores the proposal for every party and aggregates the
// acceptance probabilities. Pure and synchronous; any validation failure
// aborts with nothing partially scored.
func (e *Engine) EvaluateProposal(space *issue.IssueSpace, p issue.Proposal, profiles []*party.Profile) (*Evaluation, error) {
	ev := &Evaluation{}
	for _, prof := range profiles {
		score, err := e.utility.ScoreProposal(p, prof, space)
		if err != nil {
			return nil, err
		}
		ev.Scores = append(ev.Scores, score)
		ev.Acceptances = append(ev.Acceptances, e.acceptance.Evaluate(score, prof))
	}
	ev.OverallProbability = acceptance.Aggregate(ev.Acceptances)

	slog.Debug("proposal evaluated",
		"proposal_id", p.ID,
		"parties", len(profiles),
		"overall_probability", ev.OverallProbability,
	)
	return ev, nil
}

// SimulateAgreement runs the agent simulator for the proposal and attaches
// a summary. A nil seed generates one, returned inside the run so the
// caller can persist it for reproduction. The run registers under a handle
// for the duration, so Cancel can reach it.
func (e *Engine) SimulateAgreement(ctx context.Context, space *issue.IssueSpace, p issue.Proposal, profiles []*party.Profile, duration int, seed *int64) (*sim.Run, error) {
	s := int64(0)
	if seed != nil {
		s = *seed
	} else {
		s = rand.Int63()
	}

	handle := uuid.NewString()
	runCtx, cancel := context.WithCancel(ctx)
	e.mu.Lock()
	e.running[handle] = cancel
	e.mu.Unlock()
	defer func() {
		cancel()
		e.mu.Lock()
		delete(e.running, handle)
		e.mu.Unlock()
	}()

	runner := sim.NewRunner(e.cfg, space, profiles)
	run, err := runner.Run(runCtx, p, duration, s)
	if err != nil {
		return nil, err
	}
	run.Summary = e.analyzer.Summarize(run)

	slog.Info("agreement simulated",
		"run_id", run.ID,
		"seed", run.Seed,
		"steps", run.StepsCompleted,
		"complete", run.Complete,
		"incidents", run.Summary.TotalIncidents,
		"trend", run.Summary.Trend,
		"assessment", run.Summary.Assessment,
	)
	return run, nil
}

// StartSimulation launches SimulateAgreement in the background and returns
// a handle immediately. The result arrives on the returned channel; the
// handle cancels via Cancel.
func (e *Engine) StartSimulation(space *issue.IssueSpace, p issue.Proposal, profiles []*party.Profile, duration int, seed *int64) (string, <-chan RunResult) {
	handle := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	e.mu.Lock()
	e.running[handle] = cancel
	e.mu.Unlock()

	out := make(chan RunResult, 1)
	go func() {
		defer func() {
			cancel()
			e.mu.Lock()
			delete(e.running, handle)
			e.mu.Unlock()
		}()
		run, err := e.SimulateAgreement(ctx, space, p, profiles, duration, seed)
		out <- RunResult{Run: run, Err: err}
		close(out)
	}()
	return handle, out
}

// RunResult carries the outcome of a background simulation.
type RunResult struct {
	Run *sim.Run
	Err error
}

// Cancel requests cooperative cancellation of an in-flight run. The run
// stops at its next step boundary and comes back flagged incomplete.
// Returns false when no run holds the handle.
func (e *Engine) Cancel(handle string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	cancel, ok := e.running[handle]
	if ok {
		cancel()
	}
	return ok
}

// Explore runs the Monte Carlo exploration and summarizes every run.
func (e *Engine) Explore(ctx context.Context, space *issue.IssueSpace, p issue.Proposal, profiles []*party.Profile, duration, n, workers int, baseSeed int64) ([]*sim.Run, error) {
	runner := sim.NewRunner(e.cfg, space, profiles)
	runs, err := runner.Explore(ctx, p, duration, n, workers, baseSeed)
	if err != nil {
		return nil, err
	}
	for _, run := range runs {
		run.Summary = e.analyzer.Summarize(run)
	}
	return runs, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() config.Config {
	return e.cfg
}
