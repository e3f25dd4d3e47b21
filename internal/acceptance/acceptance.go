// Package acceptance converts utility scores into acceptance
// probabilities and aggregates them into an overall agreement probability.
package acceptance

import (
	"math"

	"github.com/talgya/accord/internal/config"
	"github.com/talgya/accord/internal/party"
	"github.com/talgya/accord/internal/utility"
)

// Status tags a party's acceptance probability band.
type Status string

const (
	StatusStrong   Status = "strong"
	StatusMarginal Status = "marginal"
	StatusWeak     Status = "weak"
)

// Result is one party's modeled likelihood of accepting a proposal.
type Result struct {
	PartyID     string  `json:"party_id"`
	Probability float64 `json:"probability"`
	Status      Status  `json:"status"`
}

// Model maps (utility − BATNA) margins to probabilities.
type Model struct {
	cfg config.Acceptance
}

// NewModel creates an acceptance model.
func NewModel(cfg config.Acceptance) *Model {
	return &Model{cfg: cfg}
}

// Evaluate computes the acceptance probability for one scored party.
// Probability rises monotonically with the margin above BATNA; the margin
// a party requires before reaching even odds shrinks with risk tolerance,
// so risk-averse parties need more headroom for the same probability.
func (m *Model) Evaluate(score utility.Score, prof *party.Profile) Result {
	margin := score.Value - prof.BATNAUtility
	required := m.cfg.RequiredMarginScale * (1 - prof.RiskTolerance)
	x := margin - required

	var p float64
	switch m.cfg.Curve {
	case config.CurveLinear:
		p = 0.5 + m.cfg.Slope*x
	default: // logistic
		p = 1 / (1 + math.Exp(-m.cfg.Steepness*x))
	}
	if score.Vetoed {
		// A crossed red line is categorically unacceptable.
		p = 0
	}
	p = clamp01(p)

	return Result{
		PartyID:     score.PartyID,
		Probability: p,
		Status:      m.status(p),
	}
}

func (m *Model) status(p float64) Status {
	switch {
	case p >= m.cfg.StrongThreshold:
		return StatusStrong
	case p >= m.cfg.MarginalThreshold:
		return StatusMarginal
	default:
		return StatusWeak
	}
}

// Aggregate returns the overall agreement probability: the product of all
// parties' probabilities, treating acceptances as independent events. That
// independence is a stated modeling simplification, not an emergent
// property. No parties means no agreement.
func Aggregate(results []Result) float64 {
	if len(results) == 0 {
		return 0
	}
	p := 1.0
	for _, r := range results {
		p *= r.Probability
	}
	return p
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
