// Package party provides the per-stakeholder interest model: weighted
// interests, ideal and minimum-acceptable positions, red lines, BATNA,
// and risk tolerance.
package party

import (
	"fmt"
	"math"

	"github.com/talgya/accord/internal/issue"
)

// WeightTolerance is how far interest weights may drift from summing to 1
// before a profile is rejected (accommodates hand-authored scenarios).
const WeightTolerance = 1e-3

// Profile models one stakeholder's interests over an issue space.
type Profile struct {
	PartyID       string                 `json:"party_id"`
	Interests     map[string]float64     `json:"interests"`          // Dimension → weight, weights sum to 1
	Ideal         map[string]issue.Value `json:"ideal"`              // Best-case value per dimension
	MinAcceptable map[string]issue.Value `json:"minimum_acceptable"` // Direction-aware bound per dimension
	RedLines      []string               `json:"red_lines,omitempty"`
	BATNAUtility  float64                `json:"batna_utility"`
	RiskTolerance float64                `json:"risk_tolerance"` // 0 = risk-averse, 1 = risk-tolerant
}

// IsRedLine reports whether the dimension is a hard constraint for this party.
func (p *Profile) IsRedLine(dimID string) bool {
	for _, rl := range p.RedLines {
		if rl == dimID {
			return true
		}
	}
	return false
}

// Validate checks internal consistency and consistency with the issue
// space. Fails with a malformed-profile ValidationError naming the party
// and offending dimension.
func (p *Profile) Validate(space *issue.IssueSpace) error {
	if p.PartyID == "" {
		return &issue.ValidationError{Kind: issue.ErrMalformedProfile, Detail: "empty party_id"}
	}
	if p.RiskTolerance < 0 || p.RiskTolerance > 1 {
		return &issue.ValidationError{
			Kind:   issue.ErrMalformedProfile,
			Party:  p.PartyID,
			Detail: fmt.Sprintf("risk_tolerance %g outside [0, 1]", p.RiskTolerance),
		}
	}
	if p.BATNAUtility < 0 || p.BATNAUtility > 1 {
		return &issue.ValidationError{
			Kind:   issue.ErrMalformedProfile,
			Party:  p.PartyID,
			Detail: fmt.Sprintf("batna_utility %g outside [0, 1]", p.BATNAUtility),
		}
	}

	sum := 0.0
	for dimID, w := range p.Interests {
		dim, ok := space.Dimension(dimID)
		if !ok {
			return &issue.ValidationError{
				Kind:      issue.ErrMalformedProfile,
				Party:     p.PartyID,
				Dimension: dimID,
				Detail:    "interest references dimension not in issue space",
			}
		}
		if w < 0 {
			return &issue.ValidationError{
				Kind:      issue.ErrMalformedProfile,
				Party:     p.PartyID,
				Dimension: dimID,
				Detail:    fmt.Sprintf("negative weight %g", w),
			}
		}
		sum += w

		ideal, ok := p.Ideal[dimID]
		if !ok {
			return &issue.ValidationError{
				Kind:      issue.ErrMalformedProfile,
				Party:     p.PartyID,
				Dimension: dimID,
				Detail:    "weighted dimension has no ideal_value",
			}
		}
		if err := dim.Check(ideal); err != nil {
			err.Kind = issue.ErrMalformedProfile
			err.Party = p.PartyID
			return err
		}
		if min, ok := p.MinAcceptable[dimID]; ok {
			if err := dim.Check(min); err != nil {
				err.Kind = issue.ErrMalformedProfile
				err.Party = p.PartyID
				return err
			}
		}
	}
	if math.Abs(sum-1.0) > WeightTolerance {
		return &issue.ValidationError{
			Kind:   issue.ErrMalformedProfile,
			Party:  p.PartyID,
			Detail: fmt.Sprintf("interest weights sum to %g, want 1", sum),
		}
	}

	for _, rl := range p.RedLines {
		if _, ok := space.Dimension(rl); !ok {
			return &issue.ValidationError{
				Kind:      issue.ErrMalformedProfile,
				Party:     p.PartyID,
				Dimension: rl,
				Detail:    "red line references dimension not in issue space",
			}
		}
	}
	return nil
}
