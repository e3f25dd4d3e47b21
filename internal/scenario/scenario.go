// Package scenario loads facilitator-authored scenario documents: an
// issue space, the party profiles, optionally a proposal and config
// overrides. The core engine stays serialization-agnostic; this package is
// the YAML boundary for the CLI and the JSON boundary for the HTTP API.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/talgya/accord/internal/config"
	"github.com/talgya/accord/internal/issue"
	"github.com/talgya/accord/internal/party"
)

// Document is the on-disk scenario format.
type Document struct {
	Name       string         `yaml:"name" json:"name"`
	IssueSpace IssueSpaceDoc  `yaml:"issue_space" json:"issue_space"`
	Parties    []PartyDoc     `yaml:"parties" json:"parties"`
	Proposal   *ProposalDoc   `yaml:"proposal,omitempty" json:"proposal,omitempty"`
	Config     *config.Config `yaml:"config,omitempty" json:"config,omitempty"`
}

// IssueSpaceDoc describes the negotiable dimensions.
type IssueSpaceDoc struct {
	ID         string         `yaml:"id" json:"id"`
	Dimensions []DimensionDoc `yaml:"dimensions" json:"dimensions"`
}

// DimensionDoc is one dimension entry.
type DimensionDoc struct {
	ID   string   `yaml:"id" json:"id"`
	Kind string   `yaml:"kind" json:"kind"`
	Min  float64  `yaml:"min" json:"min"`
	Max  float64  `yaml:"max" json:"max"`
	Enum []string `yaml:"enum,omitempty" json:"enum,omitempty"`
	Unit string   `yaml:"unit,omitempty" json:"unit,omitempty"`
}

// PartyDoc is one stakeholder entry.
type PartyDoc struct {
	PartyID       string              `yaml:"party_id" json:"party_id"`
	Interests     map[string]float64  `yaml:"interests" json:"interests"`
	Ideal         map[string]ValueDoc `yaml:"ideal" json:"ideal"`
	MinAcceptable map[string]ValueDoc `yaml:"minimum_acceptable" json:"minimum_acceptable"`
	RedLines      []string            `yaml:"red_lines,omitempty" json:"red_lines,omitempty"`
	BATNAUtility  float64             `yaml:"batna_utility" json:"batna_utility"`
	RiskTolerance float64             `yaml:"risk_tolerance" json:"risk_tolerance"`
}

// ValueDoc holds either a number or a label depending on dimension kind.
type ValueDoc struct {
	Num   float64 `yaml:"num" json:"num"`
	Label string  `yaml:"label,omitempty" json:"label,omitempty"`
}

// ProposalDoc is a candidate agreement entry.
type ProposalDoc struct {
	Values   map[string]ValueDoc `yaml:"values" json:"values"`
	Round    int                 `yaml:"round" json:"round"`
	Proposer string              `yaml:"proposer,omitempty" json:"proposer,omitempty"`
}

// Load reads and parses a scenario file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	// Pre-seed defaults so a scenario's config section overrides only the
	// fields it names.
	def := config.Default()
	doc := Document{Config: &def}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return &doc, nil
}

// Build converts the document into engine inputs, validating as it goes.
func (d *Document) Build() (*issue.IssueSpace, []*party.Profile, error) {
	dims := make([]issue.Dimension, 0, len(d.IssueSpace.Dimensions))
	for _, dd := range d.IssueSpace.Dimensions {
		dims = append(dims, issue.Dimension{
			ID:   dd.ID,
			Kind: issue.Kind(dd.Kind),
			Min:  dd.Min,
			Max:  dd.Max,
			Enum: dd.Enum,
			Unit: dd.Unit,
		})
	}
	space, err := issue.NewIssueSpace(d.IssueSpace.ID, dims)
	if err != nil {
		return nil, nil, err
	}

	profiles := make([]*party.Profile, 0, len(d.Parties))
	for _, pd := range d.Parties {
		prof := &party.Profile{
			PartyID:       pd.PartyID,
			Interests:     pd.Interests,
			Ideal:         toValues(pd.Ideal),
			MinAcceptable: toValues(pd.MinAcceptable),
			RedLines:      pd.RedLines,
			BATNAUtility:  pd.BATNAUtility,
			RiskTolerance: pd.RiskTolerance,
		}
		if err := prof.Validate(space); err != nil {
			return nil, nil, err
		}
		profiles = append(profiles, prof)
	}
	return space, profiles, nil
}

// BuildProposal converts the document's proposal, when present.
func (d *Document) BuildProposal() (issue.Proposal, bool) {
	if d.Proposal == nil {
		return issue.Proposal{}, false
	}
	return issue.NewProposal(toValues(d.Proposal.Values), d.Proposal.Round, d.Proposal.Proposer), true
}

// EngineConfig returns the scenario's config overrides, or the defaults.
func (d *Document) EngineConfig() config.Config {
	if d.Config != nil {
		return *d.Config
	}
	return config.Default()
}

func toValues(docs map[string]ValueDoc) map[string]issue.Value {
	vals := make(map[string]issue.Value, len(docs))
	for id, v := range docs {
		vals[id] = issue.Value{Num: v.Num, Label: v.Label}
	}
	return vals
}
