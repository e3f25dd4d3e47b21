// Incident model — adverse interactions recorded during a run.
package sim

import "github.com/talgya/accord/internal/agents"

// IncidentType classifies how serious an interaction became.
type IncidentType string

const (
	IncidentCloseApproach IncidentType = "close-approach"
	IncidentWarning       IncidentType = "warning"
	IncidentWaterCannon   IncidentType = "water-cannon"
	IncidentBlocking      IncidentType = "blocking"
	IncidentCollision     IncidentType = "collision"
)

// Severity bands for type classification.
const (
	sevWarning     = 0.30
	sevWaterCannon = 0.55
	sevBlocking    = 0.75
	sevCollision   = 0.90
)

// classifyIncident maps a severity sample to an incident type.
func classifyIncident(severity float64) IncidentType {
	switch {
	case severity < sevWarning:
		return IncidentCloseApproach
	case severity < sevWaterCannon:
		return IncidentWarning
	case severity < sevBlocking:
		return IncidentWaterCannon
	case severity < sevCollision:
		return IncidentBlocking
	default:
		return IncidentCollision
	}
}

// Incident is one recorded adverse interaction. Immutable once emitted;
// appended to the run's log in step order.
type Incident struct {
	Step               int          `json:"step"`
	Actors             []agents.ID  `json:"actors"`
	Type               IncidentType `json:"type"`
	Severity           float64      `json:"severity"` // 0–1
	AgreementViolation bool         `json:"agreement_violation"`
	DeEscalated        bool         `json:"de_escalated"`
}
