// Package issue defines the negotiable dimensions of a scenario and the
// proposals scored against them.
// An IssueSpace is loaded once per scenario and treated as immutable.
package issue

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind classifies how a dimension's values behave.
type Kind string

const (
	KindContinuous  Kind = "continuous"
	KindCategorical Kind = "categorical"
	KindBoolean     Kind = "boolean"
)

// Dimension is one negotiable axis of an agreement, e.g. a standoff
// distance in nautical miles or a notification period in hours.
type Dimension struct {
	ID   string   `json:"id"`
	Kind Kind     `json:"kind"`
	Min  float64  `json:"min,omitempty"`  // Continuous only
	Max  float64  `json:"max,omitempty"`  // Continuous only
	Enum []string `json:"enum,omitempty"` // Categorical only
	Unit string   `json:"unit,omitempty"`
}

// Value is a single proposal value for one dimension. Continuous and
// boolean dimensions use Num (booleans as 0/1); categorical dimensions
// use Label.
type Value struct {
	Num   float64 `json:"num"`
	Label string  `json:"label,omitempty"`
}

// Number returns a continuous value.
func Number(f float64) Value { return Value{Num: f} }

// Flag returns a boolean value.
func Flag(b bool) Value {
	if b {
		return Value{Num: 1}
	}
	return Value{Num: 0}
}

// Category returns a categorical value.
func Category(label string) Value { return Value{Label: label} }

// Bool interprets the value as a boolean.
func (v Value) Bool() bool { return v.Num >= 0.5 }

// Check validates a value against the dimension's declared range or enum.
func (d Dimension) Check(v Value) *ValidationError {
	switch d.Kind {
	case KindContinuous:
		if v.Num < d.Min || v.Num > d.Max {
			return &ValidationError{
				Kind:      ErrOutOfRange,
				Dimension: d.ID,
				Detail:    fmt.Sprintf("value %g outside range [%g, %g]", v.Num, d.Min, d.Max),
			}
		}
	case KindBoolean:
		if v.Num != 0 && v.Num != 1 {
			return &ValidationError{
				Kind:      ErrOutOfRange,
				Dimension: d.ID,
				Detail:    fmt.Sprintf("boolean value must be 0 or 1, got %g", v.Num),
			}
		}
	case KindCategorical:
		for _, e := range d.Enum {
			if e == v.Label {
				return nil
			}
		}
		return &ValidationError{
			Kind:      ErrOutOfRange,
			Dimension: d.ID,
			Detail:    fmt.Sprintf("label %q not in enum %v", v.Label, d.Enum),
		}
	}
	return nil
}

// IssueSpace holds the ordered set of dimensions for a scenario.
type IssueSpace struct {
	ID         string      `json:"id"`
	Dimensions []Dimension `json:"dimensions"`

	index map[string]int
}

// NewIssueSpace builds and validates an issue space. Dimension IDs must be
// unique, continuous ranges non-inverted, and categorical enums non-empty.
func NewIssueSpace(id string, dims []Dimension) (*IssueSpace, error) {
	s := &IssueSpace{
		ID:         id,
		Dimensions: dims,
		index:      make(map[string]int, len(dims)),
	}
	for i, d := range dims {
		if d.ID == "" {
			return nil, &ValidationError{Kind: ErrDimensionMismatch, Detail: "dimension with empty id"}
		}
		if _, dup := s.index[d.ID]; dup {
			return nil, &ValidationError{Kind: ErrDimensionMismatch, Dimension: d.ID, Detail: "duplicate dimension id"}
		}
		switch d.Kind {
		case KindContinuous:
			if d.Min > d.Max {
				return nil, &ValidationError{
					Kind:      ErrOutOfRange,
					Dimension: d.ID,
					Detail:    fmt.Sprintf("inverted range [%g, %g]", d.Min, d.Max),
				}
			}
		case KindCategorical:
			if len(d.Enum) == 0 {
				return nil, &ValidationError{Kind: ErrOutOfRange, Dimension: d.ID, Detail: "categorical dimension with empty enum"}
			}
		case KindBoolean:
			// Nothing to validate.
		default:
			return nil, &ValidationError{
				Kind:      ErrDimensionMismatch,
				Dimension: d.ID,
				Detail:    fmt.Sprintf("unknown dimension kind %q", d.Kind),
			}
		}
		s.index[d.ID] = i
	}
	return s, nil
}

// Dimension looks up a dimension by id.
func (s *IssueSpace) Dimension(id string) (Dimension, bool) {
	i, ok := s.index[id]
	if !ok {
		return Dimension{}, false
	}
	return s.Dimensions[i], true
}

// Validate checks every proposal value against the space. A value for an
// unknown dimension fails with ErrDimensionMismatch; a value outside its
// dimension's range fails with ErrOutOfRange. The first failure aborts.
func (s *IssueSpace) Validate(p *Proposal) error {
	// Walk dimensions in declared order so failures are deterministic.
	for _, d := range s.Dimensions {
		v, ok := p.Values[d.ID]
		if !ok {
			continue
		}
		if err := d.Check(v); err != nil {
			return err
		}
	}
	for id := range p.Values {
		if _, ok := s.index[id]; !ok {
			return &ValidationError{
				Kind:      ErrDimensionMismatch,
				Dimension: id,
				Detail:    "proposal references dimension not in issue space",
			}
		}
	}
	return nil
}

// Proposal is a candidate agreement: one value per negotiated dimension.
// Immutable once scored — callers must not mutate Values after handing a
// proposal to the engine.
type Proposal struct {
	ID       string           `json:"id"`
	Values   map[string]Value `json:"values"`
	Round    int              `json:"round_number"`
	Proposer string           `json:"proposer,omitempty"`
}

// NewProposal creates a proposal with a fresh id.
func NewProposal(values map[string]Value, round int, proposer string) Proposal {
	return Proposal{
		ID:       uuid.NewString(),
		Values:   values,
		Round:    round,
		Proposer: proposer,
	}
}
