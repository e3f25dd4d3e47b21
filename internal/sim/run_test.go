package sim

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/talgya/accord/internal/config"
	"github.com/talgya/accord/internal/issue"
	"github.com/talgya/accord/internal/party"
)

func shoalSpace(t *testing.T) *issue.IssueSpace {
	t.Helper()
	space, err := issue.NewIssueSpace("shoal", []issue.Dimension{
		{ID: "standoff_nm", Kind: issue.KindContinuous, Min: 0, Max: 10, Unit: "nm"},
		{ID: "escorts", Kind: issue.KindContinuous, Min: 0, Max: 5},
		{ID: "notice_hours", Kind: issue.KindContinuous, Min: 0, Max: 72, Unit: "h"},
		{ID: "hotline", Kind: issue.KindBoolean},
	})
	if err != nil {
		t.Fatalf("NewIssueSpace: %v", err)
	}
	return space
}

func shoalParties() []*party.Profile {
	return []*party.Profile{
		{
			PartyID:   "coastal",
			Interests: map[string]float64{"standoff_nm": 0.4, "escorts": 0.3, "notice_hours": 0.3},
			Ideal: map[string]issue.Value{
				"standoff_nm":  issue.Number(5),
				"escorts":      issue.Number(2),
				"notice_hours": issue.Number(12),
			},
			MinAcceptable: map[string]issue.Value{
				"standoff_nm":  issue.Number(2),
				"escorts":      issue.Number(1),
				"notice_hours": issue.Number(48),
			},
			BATNAUtility:  0.15,
			RiskTolerance: 0.6,
		},
		{
			PartyID:   "distant",
			Interests: map[string]float64{"standoff_nm": 0.5, "escorts": 0.2, "notice_hours": 0.3},
			Ideal: map[string]issue.Value{
				"standoff_nm":  issue.Number(2),
				"escorts":      issue.Number(0),
				"notice_hours": issue.Number(72),
			},
			MinAcceptable: map[string]issue.Value{
				"standoff_nm":  issue.Number(4),
				"escorts":      issue.Number(1),
				"notice_hours": issue.Number(24),
			},
			BATNAUtility:  0.2,
			RiskTolerance: 0.3,
		},
	}
}

func shoalProposal() issue.Proposal {
	return issue.Proposal{
		ID: "prop-1",
		Values: map[string]issue.Value{
			"standoff_nm":  issue.Number(3),
			"escorts":      issue.Number(1),
			"notice_hours": issue.Number(24),
			"hotline":      issue.Flag(true),
		},
		Round: 1,
	}
}

func newShoalRunner(t *testing.T) *Runner {
	t.Helper()
	return NewRunner(config.Default(), shoalSpace(t), shoalParties())
}

// stripVolatile clears the per-run UUID so two runs of the same seed can be
// compared structurally.
func stripVolatile(r *Run) {
	r.ID = ""
}

func TestRunDeterministicPerSeed(t *testing.T) {
	r := newShoalRunner(t)
	ctx := context.Background()

	a, err := r.Run(ctx, shoalProposal(), 300, 42)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	b, err := r.Run(ctx, shoalProposal(), 300, 42)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	stripVolatile(a)
	stripVolatile(b)
	aj, _ := json.Marshal(a)
	bj, _ := json.Marshal(b)
	if string(aj) != string(bj) {
		t.Fatal("same seed, proposal, and duration must reproduce the run exactly")
	}
}

func TestRunDivergesAcrossSeeds(t *testing.T) {
	r := newShoalRunner(t)
	ctx := context.Background()

	a, err := r.Run(ctx, shoalProposal(), 300, 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	b, err := r.Run(ctx, shoalProposal(), 300, 2)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	stripVolatile(a)
	stripVolatile(b)
	aj, _ := json.Marshal(a)
	bj, _ := json.Marshal(b)
	if string(aj) == string(bj) {
		t.Fatal("different seeds produced identical runs")
	}
}

func TestRunInvariants(t *testing.T) {
	r := newShoalRunner(t)
	run, err := r.Run(context.Background(), shoalProposal(), 300, 7)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !run.Complete || run.StepsCompleted != 300 {
		t.Fatalf("run incomplete: complete=%v steps=%d", run.Complete, run.StepsCompleted)
	}

	prevStep := 0
	for i, inc := range run.Incidents {
		if inc.Step < prevStep {
			t.Fatalf("incident %d out of step order: %d after %d", i, inc.Step, prevStep)
		}
		prevStep = inc.Step
		if inc.Step < 1 || inc.Step > 300 {
			t.Fatalf("incident %d at step %d outside the run", i, inc.Step)
		}
		if inc.Severity < 0 || inc.Severity > 1 {
			t.Fatalf("incident %d severity %g outside [0, 1]", i, inc.Severity)
		}
		if len(inc.Actors) != 2 {
			t.Fatalf("incident %d has %d actors, want 2", i, len(inc.Actors))
		}
		if inc.Type != classifyIncident(inc.Severity) {
			t.Fatalf("incident %d type %q inconsistent with severity %g", i, inc.Type, inc.Severity)
		}
	}

	for id, stats := range run.PartyStats {
		if stats.Activities < 0 || stats.Violations < 0 {
			t.Fatalf("party %s has negative stats", id)
		}
	}
	if run.HotlineSuccesses > run.HotlineAttempts {
		t.Fatalf("hotline successes %d exceed attempts %d", run.HotlineSuccesses, run.HotlineAttempts)
	}
}

func TestRunPrefixProperty(t *testing.T) {
	// A shorter run is the exact prefix of a longer one under the same
	// seed: the step loop consumes the random stream identically.
	r := newShoalRunner(t)
	ctx := context.Background()

	short, err := r.Run(ctx, shoalProposal(), 40, 11)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	long, err := r.Run(ctx, shoalProposal(), 100, 11)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var prefix []Incident
	for _, inc := range long.Incidents {
		if inc.Step <= 40 {
			prefix = append(prefix, inc)
		}
	}
	sj, _ := json.Marshal(short.Incidents)
	pj, _ := json.Marshal(prefix)
	if string(sj) != string(pj) {
		t.Fatalf("40-step run logged %d incidents; first 40 steps of the 100-step run logged %d", len(short.Incidents), len(prefix))
	}
}

// cancelAfter is a context whose Done channel closes after a fixed number
// of polls, cancelling a run at an exact step boundary.
type cancelAfter struct {
	context.Context
	remaining int
	done      chan struct{}
	closed    bool
}

func newCancelAfter(steps int) *cancelAfter {
	return &cancelAfter{Context: context.Background(), remaining: steps, done: make(chan struct{})}
}

func (c *cancelAfter) Done() <-chan struct{} {
	if c.remaining == 0 && !c.closed {
		close(c.done)
		c.closed = true
	}
	c.remaining--
	return c.done
}

func (c *cancelAfter) Err() error {
	if c.closed {
		return context.Canceled
	}
	return nil
}

func TestRunCancellationReturnsPartialRun(t *testing.T) {
	r := newShoalRunner(t)

	run, err := r.Run(newCancelAfter(25), shoalProposal(), 300, 42)
	if err != nil {
		t.Fatalf("cancellation must not be an error, got %v", err)
	}
	if run.Complete {
		t.Fatal("cancelled run must be flagged incomplete")
	}
	if run.StepsCompleted != 25 {
		t.Fatalf("steps completed = %d, want 25", run.StepsCompleted)
	}
	for _, inc := range run.Incidents {
		if inc.Step > 25 {
			t.Fatalf("incident at step %d recorded after cancellation", inc.Step)
		}
	}

	// The partial log matches the same seed's full run up to the cut.
	full, err := r.Run(context.Background(), shoalProposal(), 300, 42)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	var prefix []Incident
	for _, inc := range full.Incidents {
		if inc.Step <= 25 {
			prefix = append(prefix, inc)
		}
	}
	cj, _ := json.Marshal(run.Incidents)
	pj, _ := json.Marshal(prefix)
	if string(cj) != string(pj) {
		t.Fatal("partial run diverged from the full run's prefix")
	}
}

func TestRunZeroIncidentConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Sim.BaseInteractionProb = 0
	cfg.Weather.AccidentProb = 0

	r := NewRunner(cfg, shoalSpace(t), shoalParties())
	run, err := r.Run(context.Background(), shoalProposal(), 200, 3)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(run.Incidents) != 0 {
		t.Fatalf("expected a quiet run, got %d incidents", len(run.Incidents))
	}
	if !run.Complete || run.StepsCompleted != 200 {
		t.Fatal("quiet run must still complete normally")
	}
}

func TestRunRejectsBadInputs(t *testing.T) {
	r := newShoalRunner(t)
	ctx := context.Background()

	if _, err := r.Run(ctx, shoalProposal(), 0, 1); err == nil {
		t.Fatal("zero duration must be rejected")
	}

	bad := issue.Proposal{ID: "p", Values: map[string]issue.Value{"no_such": issue.Number(1)}}
	if _, err := r.Run(ctx, bad, 100, 1); err == nil {
		t.Fatal("proposal off the issue space must be rejected")
	}
}

func TestClassifyIncident(t *testing.T) {
	tests := []struct {
		severity float64
		want     IncidentType
	}{
		{0.0, IncidentCloseApproach},
		{0.29, IncidentCloseApproach},
		{0.30, IncidentWarning},
		{0.54, IncidentWarning},
		{0.55, IncidentWaterCannon},
		{0.74, IncidentWaterCannon},
		{0.75, IncidentBlocking},
		{0.89, IncidentBlocking},
		{0.90, IncidentCollision},
		{1.0, IncidentCollision},
	}
	for _, tt := range tests {
		if got := classifyIncident(tt.severity); got != tt.want {
			t.Errorf("classifyIncident(%g) = %q, want %q", tt.severity, got, tt.want)
		}
	}
}

func TestExtractTerms(t *testing.T) {
	space := shoalSpace(t)
	cfg := config.Default().Sim

	full := extractTerms(shoalProposal(), space, cfg)
	if !full.hasStandoff || full.standoffNorm != 0.3 {
		t.Fatalf("standoff term = %+v, want norm 0.3", full)
	}
	if !full.hasEscortLimit || full.escortLimit != 1 {
		t.Fatalf("escort term = %+v, want limit 1", full)
	}
	if !full.noticeRequired || !full.hotline {
		t.Fatalf("notice/hotline terms = %+v", full)
	}

	empty := extractTerms(issue.Proposal{ID: "p", Values: map[string]issue.Value{}}, space, cfg)
	if empty.hasStandoff || empty.hasEscortLimit || empty.noticeRequired || empty.hotline {
		t.Fatalf("empty proposal must impose no terms, got %+v", empty)
	}
}
