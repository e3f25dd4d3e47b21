package weather

import (
	"testing"

	"github.com/talgya/accord/internal/config"
)

func TestProcessDeterministic(t *testing.T) {
	cfg := config.Default().Weather
	a := NewProcess(99, cfg)
	b := NewProcess(99, cfg)
	for step := 0; step < 200; step++ {
		if a.At(step) != b.At(step) {
			t.Fatalf("same seed diverged at step %d", step)
		}
	}

	c := NewProcess(100, cfg)
	diverged := false
	for step := 0; step < 200; step++ {
		if a.At(step) != c.At(step) {
			diverged = true
			break
		}
	}
	if !diverged {
		t.Fatal("different seeds produced identical weather")
	}
}

func TestStateBounds(t *testing.T) {
	p := NewProcess(7, config.Default().Weather)
	for step := 0; step < 500; step++ {
		s := p.At(step)
		if s.SeaState < 0 || s.SeaState > 1 {
			t.Fatalf("sea state %g outside [0, 1] at step %d", s.SeaState, step)
		}
		if s.Visibility < 0 || s.Visibility > 1 {
			t.Fatalf("visibility %g outside [0, 1] at step %d", s.Visibility, step)
		}
		if s.Storm != (s.SeaState >= config.Default().Weather.StormThreshold) {
			t.Fatalf("storm flag inconsistent with sea state at step %d", step)
		}
	}
}

func TestMapToSim(t *testing.T) {
	cfg := config.Default().Weather

	calm := MapToSim(State{SeaState: 0, Visibility: 1}, cfg)
	if calm.IncidentMultiplier != 1.0 {
		t.Fatalf("calm multiplier = %g, want 1.0", calm.IncidentMultiplier)
	}
	if calm.AccidentProb != 0 {
		t.Fatalf("calm accident prob = %g, want 0", calm.AccidentProb)
	}

	heavy := MapToSim(State{SeaState: 1, Visibility: 0.8, Storm: true}, cfg)
	if heavy.IncidentMultiplier != cfg.StormIncidentMultiplier {
		t.Fatalf("full sea multiplier = %g, want %g", heavy.IncidentMultiplier, cfg.StormIncidentMultiplier)
	}
	if heavy.AccidentProb != cfg.AccidentProb*2 {
		t.Fatalf("storm accident prob = %g, want %g", heavy.AccidentProb, cfg.AccidentProb*2)
	}

	fog := MapToSim(State{SeaState: 0.5, Visibility: 0.1}, cfg)
	clear := MapToSim(State{SeaState: 0.5, Visibility: 0.9}, cfg)
	if fog.IncidentMultiplier <= clear.IncidentMultiplier {
		t.Fatalf("poor visibility (%g) must raise the multiplier over clear (%g)", fog.IncidentMultiplier, clear.IncidentMultiplier)
	}
}
