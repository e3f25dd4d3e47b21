// Package agents provides the simulated unit model: role, zone,
// aggression, compliance bias, and the incident memory that drives
// escalation dynamics. Each run owns its agents exclusively — state is
// never shared across runs.
package agents

// ID is a unique identifier for an agent within one run.
type ID uint64

// Role is a simulated unit's function at sea.
type Role uint8

const (
	RolePatrol   Role = iota // Coast guard / law-enforcement vessel
	RoleFishing              // Civilian fishing vessel
	RoleResupply             // Resupply or transfer mission
	RoleMilitia              // Maritime militia vessel
)

// NumRoles is the total number of roles.
const NumRoles = 4

// RoleName returns a human-readable role label.
func RoleName(r Role) string {
	switch r {
	case RolePatrol:
		return "patrol"
	case RoleFishing:
		return "fishing"
	case RoleResupply:
		return "resupply"
	case RoleMilitia:
		return "militia"
	default:
		return "unknown"
	}
}

// Agent is one simulated unit. Rule-based and auditable — behavior comes
// from these fields plus the run's RNG, nothing opaque.
type Agent struct {
	ID      ID     `json:"id"`
	PartyID string `json:"party_id"`
	Role    Role   `json:"role"`

	// Zone is the sea sector the unit currently operates in.
	Zone int `json:"zone"`

	// Disposition, fixed at spawn.
	Aggression     float64 `json:"aggression_level"` // 0–1
	ComplianceBias float64 `json:"compliance_bias"`  // 0–1, chance of honoring terms

	// Tension is the escalation-memory level: raised by incidents,
	// decayed exponentially each step, capped.
	Tension float64 `json:"tension"`

	// Memory of recent interactions.
	Memory []Memory `json:"memory,omitempty"`
}

// RaiseTension adds to the agent's tension, capped to keep the escalation
// feedback from running away.
func (a *Agent) RaiseTension(amount, cap float64) {
	a.Tension += amount
	if a.Tension > cap {
		a.Tension = cap
	}
}

// DecayTension applies the per-step exponential decay term.
func (a *Agent) DecayTension(rate float64) {
	a.Tension *= rate
	if a.Tension < 1e-6 {
		a.Tension = 0
	}
}
