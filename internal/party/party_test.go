package party

import (
	"errors"
	"testing"

	"github.com/talgya/accord/internal/issue"
)

func testSpace(t *testing.T) *issue.IssueSpace {
	t.Helper()
	space, err := issue.NewIssueSpace("shoal", []issue.Dimension{
		{ID: "standoff_nm", Kind: issue.KindContinuous, Min: 0, Max: 10},
		{ID: "escorts", Kind: issue.KindContinuous, Min: 0, Max: 5},
	})
	if err != nil {
		t.Fatalf("NewIssueSpace: %v", err)
	}
	return space
}

func validProfile() *Profile {
	return &Profile{
		PartyID:   "coastal",
		Interests: map[string]float64{"standoff_nm": 0.6, "escorts": 0.4},
		Ideal: map[string]issue.Value{
			"standoff_nm": issue.Number(5),
			"escorts":     issue.Number(2),
		},
		MinAcceptable: map[string]issue.Value{
			"standoff_nm": issue.Number(2),
			"escorts":     issue.Number(1),
		},
		BATNAUtility:  0.3,
		RiskTolerance: 0.5,
	}
}

func TestValidateAcceptsWellFormedProfile(t *testing.T) {
	if err := validProfile().Validate(testSpace(t)); err != nil {
		t.Fatalf("valid profile rejected: %v", err)
	}
}

func TestValidateRejectsMalformedProfiles(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Profile)
	}{
		{"weights not summing to 1", func(p *Profile) { p.Interests["escorts"] = 0.9 }},
		{"negative weight", func(p *Profile) {
			p.Interests["standoff_nm"] = -0.2
			p.Interests["escorts"] = 1.2
		}},
		{"unknown interest dimension", func(p *Profile) {
			delete(p.Interests, "escorts")
			p.Interests["no_such"] = 0.4
		}},
		{"missing ideal", func(p *Profile) { delete(p.Ideal, "escorts") }},
		{"ideal out of range", func(p *Profile) { p.Ideal["standoff_nm"] = issue.Number(99) }},
		{"minimum out of range", func(p *Profile) { p.MinAcceptable["escorts"] = issue.Number(-3) }},
		{"risk tolerance out of range", func(p *Profile) { p.RiskTolerance = 1.4 }},
		{"batna out of range", func(p *Profile) { p.BATNAUtility = -0.1 }},
		{"unknown red line", func(p *Profile) { p.RedLines = []string{"no_such"} }},
		{"empty party id", func(p *Profile) { p.PartyID = "" }},
	}
	space := testSpace(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.mutate(p)
			err := p.Validate(space)
			var ve *issue.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Kind != issue.ErrMalformedProfile {
				t.Fatalf("expected malformed_profile, got %s", ve.Kind)
			}
		})
	}
}

func TestIsRedLine(t *testing.T) {
	p := validProfile()
	p.RedLines = []string{"standoff_nm"}
	if !p.IsRedLine("standoff_nm") || p.IsRedLine("escorts") {
		t.Fatal("red line lookup broken")
	}
}
