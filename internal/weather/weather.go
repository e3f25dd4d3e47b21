// Package weather provides the environmental process for a run: a
// slow-varying sea-state and visibility field that perturbs incident
// probability and produces accidental incidents.
// Deterministic — the field is derived from the run seed, never wall-clock
// or external data.
package weather

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/accord/internal/config"
)

// State is the environment at one simulation step.
type State struct {
	SeaState   float64 `json:"sea_state"`  // 0 calm – 1 heavy
	Visibility float64 `json:"visibility"` // 0 none – 1 clear
	Storm      bool    `json:"storm"`
}

// Process generates weather states from layered simplex noise. Two
// independent layers (sea state and visibility) sampled along the step
// axis give smooth, slow-varying conditions.
type Process struct {
	sea   opensimplex.Noise
	vis   opensimplex.Noise
	scale float64
	storm float64
}

// NewProcess creates a weather process seeded from the run seed.
func NewProcess(seed int64, cfg config.Weather) *Process {
	return &Process{
		sea:   opensimplex.NewNormalized(seed + 1),
		vis:   opensimplex.NewNormalized(seed + 2),
		scale: cfg.NoiseScale,
		storm: cfg.StormThreshold,
	}
}

// At returns the conditions for a step.
func (p *Process) At(step int) State {
	x := float64(step) * p.scale
	sea := p.sea.Eval2(x, 0)
	vis := p.vis.Eval2(x, 17.5)
	return State{
		SeaState:   sea,
		Visibility: vis,
		Storm:      sea >= p.storm,
	}
}

// Modifiers holds the simulation-facing effects of a weather state.
type Modifiers struct {
	// IncidentMultiplier perturbs deliberate-incident probability: heavy
	// weather and poor visibility make misjudged maneuvers likelier.
	IncidentMultiplier float64
	// AccidentProb is the per-step probability of an incident that is
	// independent of deliberate behavior.
	AccidentProb float64
}

// MapToSim converts conditions into simulation modifiers.
func MapToSim(s State, cfg config.Weather) Modifiers {
	m := Modifiers{IncidentMultiplier: 1.0}

	// Scale smoothly with sea state up to the configured storm multiplier.
	m.IncidentMultiplier = 1.0 + (cfg.StormIncidentMultiplier-1.0)*s.SeaState

	// Poor visibility adds its own bump.
	if s.Visibility < 0.3 {
		m.IncidentMultiplier *= 1.2
	}

	m.AccidentProb = cfg.AccidentProb * s.SeaState
	if s.Storm {
		m.AccidentProb *= 2
	}
	return m
}
