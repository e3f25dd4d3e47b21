// Package sim runs the agent-based stochastic simulation of field
// behavior under an agreed ruleset. A single run is inherently sequential
// (each step's tension and memory depend on the last) and owns all of its
// state: RNG, agents, incident log. Independent runs never share anything.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"

	"github.com/talgya/accord/internal/agents"
	"github.com/talgya/accord/internal/config"
	"github.com/talgya/accord/internal/issue"
	"github.com/talgya/accord/internal/party"
	"github.com/talgya/accord/internal/weather"
)

// PartyStats tracks activity and violation counts for one party's agents.
type PartyStats struct {
	Activities int `json:"activities"`
	Violations int `json:"violations"`
}

// Run is one simulation of a proposal over a duration. Fully materialized
// at completion and never mutated afterward; re-running with the same
// seed, proposal, and duration reproduces it bit for bit.
type Run struct {
	ID         string                 `json:"id"`
	Proposal   issue.Proposal         `json:"proposal"`
	Duration   int                    `json:"duration"`
	Seed       int64                  `json:"seed"`
	Incidents  []Incident             `json:"incident_log"`
	PartyStats map[string]*PartyStats `json:"party_stats"`

	HotlineAttempts  int `json:"hotline_attempts"`
	HotlineSuccesses int `json:"hotline_successes"`

	StepsCompleted int  `json:"steps_completed"`
	Complete       bool `json:"complete"` // False when cancelled mid-run

	Summary *Summary `json:"summary,omitempty"`
}

// Runner executes simulations for one scenario (issue space + parties).
// Stateless between runs — safe to use from concurrent goroutines.
type Runner struct {
	cfg      config.Config
	space    *issue.IssueSpace
	profiles []*party.Profile
}

// NewRunner creates a runner for a scenario.
func NewRunner(cfg config.Config, space *issue.IssueSpace, profiles []*party.Profile) *Runner {
	return &Runner{cfg: cfg, space: space, profiles: profiles}
}

// activity is one agent's sortie for the current step.
type activity struct {
	agent     *agents.Agent
	violating bool // The sortie itself breaches a term
}

// Run simulates the proposal for duration steps under the given seed.
// Cancellation via ctx stops at the next step boundary and returns the
// partial run flagged incomplete — that is not an error.
func (r *Runner) Run(ctx context.Context, p issue.Proposal, duration int, seed int64) (*Run, error) {
	if duration < 1 {
		return nil, fmt.Errorf("duration must be at least 1 step, got %d", duration)
	}
	if err := r.space.Validate(&p); err != nil {
		return nil, err
	}
	for _, prof := range r.profiles {
		if err := prof.Validate(r.space); err != nil {
			return nil, err
		}
	}

	// All randomness for the run flows from this one generator.
	rng := rand.New(rand.NewSource(seed))
	wx := weather.NewProcess(seed, r.cfg.Weather)
	t := extractTerms(p, r.space, r.cfg.Sim)

	spawner := agents.NewSpawner(rng)
	var fleet []*agents.Agent
	run := &Run{
		ID:         uuid.NewString(),
		Proposal:   p,
		Duration:   duration,
		Seed:       seed,
		PartyStats: make(map[string]*PartyStats, len(r.profiles)),
	}
	for _, prof := range r.profiles {
		run.PartyStats[prof.PartyID] = &PartyStats{}
		fleet = append(fleet, spawner.SpawnFleet(prof, r.cfg.Sim.AgentsPerParty, r.cfg.Sim.Zones)...)
	}

	slog.Debug("simulation starting",
		"run_id", run.ID,
		"proposal_id", p.ID,
		"duration", duration,
		"seed", seed,
		"agents", len(fleet),
	)

	for step := 1; step <= duration; step++ {
		select {
		case <-ctx.Done():
			run.StepsCompleted = step - 1
			run.Complete = false
			slog.Info("simulation cancelled",
				"run_id", run.ID,
				"steps_completed", run.StepsCompleted,
				"incidents", len(run.Incidents),
			)
			return run, nil
		default:
		}

		wxState := wx.At(step)
		mods := weather.MapToSim(wxState, r.cfg.Weather)

		active := r.selectActivities(rng, fleet, t, run)
		r.resolveInteractions(rng, step, active, t, wxState, mods, run)
		r.rollAccident(rng, step, active, mods, run)

		for _, a := range fleet {
			a.DecayTension(r.cfg.Sim.TensionDecay)
		}
	}

	run.StepsCompleted = duration
	run.Complete = true
	slog.Debug("simulation complete",
		"run_id", run.ID,
		"incidents", len(run.Incidents),
	)
	return run, nil
}

// selectActivities stochastically sorties agents per role base rates and
// flags term-breaching sorties (unannounced resupply, excess escorts).
func (r *Runner) selectActivities(rng *rand.Rand, fleet []*agents.Agent, t terms, run *Run) []activity {
	cfg := r.cfg.Sim
	var active []activity

	for _, a := range fleet {
		var rate float64
		switch a.Role {
		case agents.RolePatrol:
			rate = cfg.PatrolRate
		case agents.RoleFishing:
			rate = cfg.FishingRate
		case agents.RoleResupply:
			rate = cfg.ResupplyRate
		case agents.RoleMilitia:
			rate = cfg.MilitiaRate
		}
		if rng.Float64() >= rate {
			continue
		}

		a.Zone = rng.Intn(cfg.Zones)
		act := activity{agent: a}
		run.PartyStats[a.PartyID].Activities++

		switch a.Role {
		case agents.RoleResupply:
			// Notification terms: compliant crews file notice; the rest
			// sail unannounced.
			if t.noticeRequired && rng.Float64() >= a.ComplianceBias {
				act.violating = true
			}
		case agents.RolePatrol, agents.RoleMilitia:
			// Escort limits: aggressive crews bring more hulls than the
			// agreement allows, unless discipline holds.
			if t.hasEscortLimit {
				escorts := rng.Intn(2 + int(3*a.Aggression))
				if escorts > t.escortLimit && rng.Float64() >= a.ComplianceBias {
					act.violating = true
				}
			}
		}
		if act.violating {
			run.PartyStats[a.PartyID].Violations++
		}
		active = append(active, act)
	}
	return active
}

// resolveInteractions checks every cross-party pair sharing a zone. A
// flagged interaction samples a severity, classifies a type, and rolls the
// hotline; every resolved interaction updates agent memory either way.
func (r *Runner) resolveInteractions(rng *rand.Rand, step int, active []activity, t terms, wx weather.State, mods weather.Modifiers, run *Run) {
	cfg := r.cfg.Sim

	for i := 0; i < len(active); i++ {
		for j := i + 1; j < len(active); j++ {
			a, b := active[i], active[j]
			if a.agent.PartyID == b.agent.PartyID || a.agent.Zone != b.agent.Zone {
				continue
			}

			pairAggr := (a.agent.Aggression + b.agent.Aggression) / 2
			pairTension := (a.agent.Tension + b.agent.Tension) / 2

			// Stricter standoff terms leave more room to breach; a
			// proposal with no distance term sits at the midpoint.
			strictness := 0.5
			if t.hasStandoff {
				strictness = t.standoffNorm
			}

			p := cfg.BaseInteractionProb *
				(0.4 + cfg.AggressionFactor*pairAggr) *
				(1 + cfg.TensionFactor*pairTension) *
				(0.5 + strictness) *
				mods.IncidentMultiplier
			if a.violating || b.violating {
				p *= 1.5
			}
			if p > 0.95 {
				p = 0.95
			}

			if rng.Float64() >= p {
				// Routine pass — remembered, no incident.
				a.agent.Remember(step, 0, false)
				b.agent.Remember(step, 0, false)
				continue
			}

			sev := clamp01(rng.Float64()*(0.3+0.5*pairAggr+0.3*minf(pairTension, 1)) + 0.1*wx.SeaState)

			deEscalated := false
			if t.hotline {
				run.HotlineAttempts++
				if rng.Float64() < cfg.HotlineSuccessProb {
					deEscalated = true
					run.HotlineSuccesses++
				}
			}

			run.Incidents = append(run.Incidents, Incident{
				Step:               step,
				Actors:             []agents.ID{a.agent.ID, b.agent.ID},
				Type:               classifyIncident(sev),
				Severity:           sev,
				AgreementViolation: true,
				DeEscalated:        deEscalated,
			})

			// Escalation memory: both crews carry the incident forward;
			// a successful hotline call takes some heat out of it.
			raise := cfg.TensionPerIncident * sev
			if deEscalated {
				raise /= 2
			}
			a.agent.Remember(step, sev, true)
			b.agent.Remember(step, sev, true)
			a.agent.RaiseTension(raise, cfg.TensionCap)
			b.agent.RaiseTension(raise, cfg.TensionCap)

			// The hotter head owns the violation.
			at := a.agent
			if b.agent.Aggression > a.agent.Aggression {
				at = b.agent
			}
			run.PartyStats[at.PartyID].Violations++
		}
	}
}

// rollAccident produces weather-driven incidents independent of deliberate
// behavior.
func (r *Runner) rollAccident(rng *rand.Rand, step int, active []activity, mods weather.Modifiers, run *Run) {
	if len(active) < 2 || rng.Float64() >= mods.AccidentProb {
		return
	}

	i := rng.Intn(len(active))
	j := rng.Intn(len(active) - 1)
	if j >= i {
		j++
	}
	a, b := active[i].agent, active[j].agent

	sev := clamp01(0.2 + 0.5*rng.Float64())
	run.Incidents = append(run.Incidents, Incident{
		Step:               step,
		Actors:             []agents.ID{a.ID, b.ID},
		Type:               classifyIncident(sev),
		Severity:           sev,
		AgreementViolation: false,
		DeEscalated:        false,
	})

	// Accidents rattle crews too.
	raise := r.cfg.Sim.TensionPerIncident * sev / 2
	a.Remember(step, sev, false)
	b.Remember(step, sev, false)
	a.RaiseTension(raise, r.cfg.Sim.TensionCap)
	b.RaiseTension(raise, r.cfg.Sim.TensionCap)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
