// Package utility scores a proposed agreement against one party's
// interest model. Scoring is pure and side-effect free — safe to call
// concurrently across proposals and parties.
package utility

import (
	"github.com/talgya/accord/internal/config"
	"github.com/talgya/accord/internal/issue"
	"github.com/talgya/accord/internal/party"
)

// DimensionScore is the per-dimension breakdown of a utility score.
type DimensionScore struct {
	DimensionID     string  `json:"dimension_id"`
	Weight          float64 `json:"weight"`
	Satisfaction    float64 `json:"satisfaction"` // 0–1 before weighting
	BelowMinimum    bool    `json:"below_minimum"`
	RedLine         bool    `json:"red_line"`
	RedLineViolated bool    `json:"red_line_violated"`
}

// Score is the derived utility of one proposal for one party. Never
// mutated after computation.
type Score struct {
	PartyID    string           `json:"party_id"`
	ProposalID string           `json:"proposal_id"`
	Value      float64          `json:"score"` // 0–1
	BelowBATNA bool             `json:"below_batna"`
	Vetoed     bool             `json:"vetoed"` // A red line was crossed
	Breakdown  []DimensionScore `json:"per_dimension_breakdown"`
}

// Engine computes utility scores under a fixed falloff configuration.
type Engine struct {
	cfg config.Utility
}

// NewEngine creates a utility engine.
func NewEngine(cfg config.Utility) *Engine {
	return &Engine{cfg: cfg}
}

// ScoreProposal evaluates the proposal for the given party. The proposal
// is validated against the issue space first; validation failures abort
// with nothing partially scored.
func (e *Engine) ScoreProposal(p issue.Proposal, prof *party.Profile, space *issue.IssueSpace) (Score, error) {
	if err := space.Validate(&p); err != nil {
		return Score{}, err
	}
	if err := prof.Validate(space); err != nil {
		return Score{}, err
	}

	score := Score{PartyID: prof.PartyID, ProposalID: p.ID}
	total := 0.0
	vetoed := false

	// Iterate dimensions in issue-space order so the breakdown is stable.
	for _, dim := range space.Dimensions {
		weight, cares := prof.Interests[dim.ID]
		if !cares || weight == 0 {
			continue
		}
		v, present := p.Values[dim.ID]
		if !present {
			continue
		}

		sat, crossed := e.satisfaction(dim, v, prof.Ideal[dim.ID], prof.MinAcceptable[dim.ID])
		ds := DimensionScore{
			DimensionID:  dim.ID,
			Weight:       weight,
			Satisfaction: sat,
			BelowMinimum: crossed,
			RedLine:      prof.IsRedLine(dim.ID),
		}
		if ds.RedLine && crossed {
			ds.RedLineViolated = true
			if e.cfg.RedLineVeto {
				vetoed = true
			}
		}
		score.Breakdown = append(score.Breakdown, ds)
		total += weight * sat
	}

	score.Value = clamp01(total)
	if vetoed {
		// Red lines are absolute vetoes, not weighted penalties.
		score.Value = 0
		score.Vetoed = true
	}
	// Below-BATNA is surfaced here but zeroing nothing — acceptance is
	// where walking away wins.
	score.BelowBATNA = score.Value < prof.BATNAUtility
	return score, nil
}

// satisfaction maps a proposal value to [0, 1] for one dimension: 1.0 at
// the party's ideal, decaying monotonically to 0 at the minimum-acceptable
// bound on the unfavorable side (clamped to 0 beyond it), and toward the
// range boundary on the favorable side. The second return reports whether
// the value crossed the minimum-acceptable bound.
func (e *Engine) satisfaction(dim issue.Dimension, v, ideal, min issue.Value) (float64, bool) {
	switch dim.Kind {
	case issue.KindContinuous:
		return e.continuousSatisfaction(dim, v.Num, ideal.Num, min.Num)
	case issue.KindBoolean:
		if v.Num == ideal.Num {
			return 1, false
		}
		// The off-ideal setting crosses the bound only when the party
		// declared the ideal setting as its minimum too.
		return 0, v.Num != min.Num
	case issue.KindCategorical:
		if v.Label == ideal.Label {
			return 1, false
		}
		return 0, v.Label != min.Label
	}
	return 0, false
}

func (e *Engine) continuousSatisfaction(dim issue.Dimension, v, ideal, min float64) (float64, bool) {
	if v == ideal {
		return 1, false
	}

	// Direction: the minimum-acceptable bound sits on the unfavorable
	// side of the ideal. A bound below the ideal is a floor; above, a cap.
	var frac float64
	crossed := false
	switch {
	case min < ideal: // Floor — lower values are worse.
		if v < min {
			return 0, true
		}
		if v < ideal {
			frac = (ideal - v) / (ideal - min)
		} else {
			frac = overshootFrac(v, ideal, dim.Max)
		}
	case min > ideal: // Cap — higher values are worse.
		if v > min {
			return 0, true
		}
		if v > ideal {
			frac = (v - ideal) / (min - ideal)
		} else {
			frac = undershootFrac(v, ideal, dim.Min)
		}
	default: // min == ideal: any deviation crosses the bound.
		return 0, true
	}

	sat := 1 - frac
	if e.cfg.FalloffShape == config.FalloffQuadratic {
		sat = sat * sat
	}
	return clamp01(sat), crossed
}

// overshootFrac measures deviation past the ideal on the favorable side,
// normalized against the remaining headroom to the range boundary.
func overshootFrac(v, ideal, rangeMax float64) float64 {
	if rangeMax <= ideal {
		return 0
	}
	return (v - ideal) / (rangeMax - ideal)
}

func undershootFrac(v, ideal, rangeMin float64) float64 {
	if ideal <= rangeMin {
		return 0
	}
	return (ideal - v) / (ideal - rangeMin)
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
