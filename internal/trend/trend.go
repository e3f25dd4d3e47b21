// Package trend summarizes simulation output: incident totals, severity,
// the declining/stable/escalating trend, per-party compliance, and hotline
// effectiveness. All classification thresholds come from configuration.
package trend

import (
	"sort"

	"github.com/talgya/accord/internal/config"
	"github.com/talgya/accord/internal/sim"
)

// Analyzer computes run summaries under a fixed threshold configuration.
type Analyzer struct {
	cfg config.Trend
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(cfg config.Trend) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Summarize condenses a run's incident log into summary metrics. Partial
// runs summarize over the steps actually completed.
func (an *Analyzer) Summarize(run *sim.Run) *sim.Summary {
	s := &sim.Summary{
		TotalIncidents:    len(run.Incidents),
		ComplianceByParty: make(map[string]float64, len(run.PartyStats)),
	}

	totalSev := 0.0
	for _, inc := range run.Incidents {
		totalSev += inc.Severity
		if inc.Severity > s.MaxSeverity {
			s.MaxSeverity = inc.Severity
		}
	}
	if s.TotalIncidents > 0 {
		s.AvgSeverity = totalSev / float64(s.TotalIncidents)
	}

	s.Trend = an.classifyTrend(run)

	// compliance = 1 − violations / activities, per party.
	for _, partyID := range sortedParties(run.PartyStats) {
		st := run.PartyStats[partyID]
		if st.Activities == 0 {
			s.ComplianceByParty[partyID] = 1.0
			continue
		}
		rate := 1.0 - float64(st.Violations)/float64(st.Activities)
		if rate < 0 {
			rate = 0
		}
		s.ComplianceByParty[partyID] = rate
	}

	if run.HotlineAttempts > 0 {
		s.HotlineEffectiveness = float64(run.HotlineSuccesses) / float64(run.HotlineAttempts)
	}

	s.Assessment = an.assess(run, s)
	return s
}

// classifyTrend compares incident counts in the first half of the run
// against the second: materially fewer later means declining, materially
// more means escalating, by the configured ratio.
func (an *Analyzer) classifyTrend(run *sim.Run) sim.Trend {
	half := run.StepsCompleted / 2
	first, second := 0, 0
	for _, inc := range run.Incidents {
		if inc.Step <= half {
			first++
		} else {
			second++
		}
	}

	switch {
	case first > second && float64(first) >= an.cfg.Ratio*float64(second):
		return sim.TrendDeclining
	case second > first && float64(second) >= an.cfg.Ratio*float64(first):
		return sim.TrendEscalating
	default:
		return sim.TrendStable
	}
}

func (an *Analyzer) assess(run *sim.Run, s *sim.Summary) sim.Assessment {
	if run.StepsCompleted == 0 {
		return sim.AssessmentMixed
	}
	per100 := float64(s.TotalIncidents) / float64(run.StepsCompleted) * 100

	switch {
	case per100 <= an.cfg.GoodIncidentRate && s.AvgSeverity <= an.cfg.GoodSeverity:
		return sim.AssessmentGood
	case per100 >= an.cfg.ConcerningIncidentRate || s.AvgSeverity >= an.cfg.ConcerningSeverity:
		return sim.AssessmentConcerning
	default:
		return sim.AssessmentMixed
	}
}

func sortedParties(stats map[string]*sim.PartyStats) []string {
	parties := make([]string, 0, len(stats))
	for id := range stats {
		parties = append(parties, id)
	}
	sort.Strings(parties)
	return parties
}
