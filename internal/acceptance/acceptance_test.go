package acceptance

import (
	"math"
	"testing"

	"github.com/talgya/accord/internal/config"
	"github.com/talgya/accord/internal/party"
	"github.com/talgya/accord/internal/utility"
)

func scored(partyID string, value float64) utility.Score {
	return utility.Score{PartyID: partyID, Value: value}
}

func profileWith(batna, rt float64) *party.Profile {
	return &party.Profile{PartyID: "p", BATNAUtility: batna, RiskTolerance: rt}
}

func TestEvaluateLogisticReferenceValues(t *testing.T) {
	m := NewModel(config.Default().Acceptance)

	// Margin 1/3−0.15, required 0.1·(1−0.6): x = 0.14333,
	// p = 1/(1+e^(−8x)) ≈ 0.759.
	resA := m.Evaluate(scored("coastal", 1.0/3.0), profileWith(0.15, 0.6))
	if math.Abs(resA.Probability-0.7589) > 1e-3 {
		t.Fatalf("coastal probability = %g, want ≈0.759", resA.Probability)
	}
	if resA.Status != StatusStrong {
		t.Fatalf("coastal status = %q, want strong", resA.Status)
	}

	// Margin 0.25−0.2, required 0.1·(1−0.3): x = −0.02, p ≈ 0.460.
	resB := m.Evaluate(scored("distant", 0.25), profileWith(0.2, 0.3))
	if math.Abs(resB.Probability-0.4601) > 1e-3 {
		t.Fatalf("distant probability = %g, want ≈0.460", resB.Probability)
	}
	if resB.Status != StatusMarginal {
		t.Fatalf("distant status = %q, want marginal", resB.Status)
	}
}

func TestEvaluateMonotoneInUtility(t *testing.T) {
	m := NewModel(config.Default().Acceptance)
	prof := profileWith(0.3, 0.5)

	prev := -1.0
	for v := 0.0; v <= 1.0; v += 0.05 {
		p := m.Evaluate(scored("p", v), prof).Probability
		if p < prev {
			t.Fatalf("probability decreased (%g → %g) as utility rose to %g", prev, p, v)
		}
		if p < 0 || p > 1 {
			t.Fatalf("probability %g outside [0, 1]", p)
		}
		prev = p
	}
}

func TestRiskAversionNeedsMoreHeadroom(t *testing.T) {
	m := NewModel(config.Default().Acceptance)
	score := scored("p", 0.5)

	averse := m.Evaluate(score, profileWith(0.4, 0.1)).Probability
	tolerant := m.Evaluate(score, profileWith(0.4, 0.9)).Probability
	if averse >= tolerant {
		t.Fatalf("risk-averse party (%g) must accept less readily than risk-tolerant (%g)", averse, tolerant)
	}
}

func TestVetoedScoreIsZeroProbability(t *testing.T) {
	m := NewModel(config.Default().Acceptance)
	res := m.Evaluate(utility.Score{PartyID: "p", Value: 0, Vetoed: true}, profileWith(0, 1))
	if res.Probability != 0 || res.Status != StatusWeak {
		t.Fatalf("vetoed score must yield probability 0 / weak, got %g / %q", res.Probability, res.Status)
	}
}

func TestLinearCurveClamped(t *testing.T) {
	cfg := config.Default().Acceptance
	cfg.Curve = config.CurveLinear
	m := NewModel(cfg)

	high := m.Evaluate(scored("p", 1.0), profileWith(0, 1)).Probability
	if high != 1 {
		t.Fatalf("linear curve must clamp at 1, got %g", high)
	}
	low := m.Evaluate(scored("p", 0), profileWith(1, 0)).Probability
	if low != 0 {
		t.Fatalf("linear curve must clamp at 0, got %g", low)
	}
}

func TestAggregateIsProduct(t *testing.T) {
	tests := []struct {
		name    string
		results []Result
		want    float64
	}{
		{"no parties", nil, 0},
		{"single", []Result{{Probability: 0.7}}, 0.7},
		{"two", []Result{{Probability: 0.8}, {Probability: 0.5}}, 0.4},
		{"three with veto", []Result{{Probability: 0.9}, {Probability: 0.9}, {Probability: 0}}, 0},
		{"four", []Result{{Probability: 0.9}, {Probability: 0.8}, {Probability: 0.7}, {Probability: 0.6}}, 0.9 * 0.8 * 0.7 * 0.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Aggregate(tt.results); math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("Aggregate = %g, want %g", got, tt.want)
			}
		})
	}
}
