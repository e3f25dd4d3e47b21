// Summary data model for a completed (or partial) run. Computation lives
// in the trend package; the types live here with the rest of the run state.
package sim

// Trend describes how incident frequency moved across a run.
type Trend string

const (
	TrendDeclining  Trend = "declining"
	TrendStable     Trend = "stable"
	TrendEscalating Trend = "escalating"
)

// Assessment is the overall read on how the agreement held up.
type Assessment string

const (
	AssessmentGood       Assessment = "good"
	AssessmentMixed      Assessment = "mixed"
	AssessmentConcerning Assessment = "concerning"
)

// Summary aggregates a run's incident log into facilitator-facing metrics.
type Summary struct {
	TotalIncidents       int                `json:"total_incidents"`
	AvgSeverity          float64            `json:"avg_severity"`
	MaxSeverity          float64            `json:"max_severity"`
	Trend                Trend              `json:"trend"`
	ComplianceByParty    map[string]float64 `json:"compliance_rate_per_party"`
	HotlineEffectiveness float64            `json:"hotline_effectiveness"`
	Assessment           Assessment         `json:"assessment"`
}
