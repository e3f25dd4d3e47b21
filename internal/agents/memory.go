// Agent memory stream — records of recent interactions. Memory feeds the
// escalation model: what a crew just lived through changes how it reacts.
package agents

// MaxMemories bounds the per-agent memory stream.
const MaxMemories = 16

// Memory records one resolved interaction from the agent's perspective.
type Memory struct {
	Step      int     `json:"step"`
	Severity  float64 `json:"severity"` // 0 for interactions that stayed routine
	Violation bool    `json:"violation"`
}

// Remember appends a memory, dropping the oldest when the stream is full.
func (a *Agent) Remember(step int, severity float64, violation bool) {
	m := Memory{Step: step, Severity: severity, Violation: violation}
	if len(a.Memory) >= MaxMemories {
		copy(a.Memory, a.Memory[1:])
		a.Memory[len(a.Memory)-1] = m
		return
	}
	a.Memory = append(a.Memory, m)
}

// RecentSeverity sums remembered severities over the trailing window.
// Used as the tension seed when an agent sizes up a new encounter.
func (a *Agent) RecentSeverity(sinceStep int) float64 {
	total := 0.0
	for _, m := range a.Memory {
		if m.Step >= sinceStep {
			total += m.Severity
		}
	}
	return total
}
