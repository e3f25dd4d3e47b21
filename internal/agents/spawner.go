// Agent spawning — builds each party's flotilla from its profile.
// Aggression and compliance derive from the party's risk tolerance plus
// seeded jitter, so fleet disposition is reproducible per run.
package agents

import (
	"math/rand"

	"github.com/talgya/accord/internal/party"
)

// Spawner creates agents for one simulation run. It draws from the run's
// RNG so that spawn order and disposition are part of the run's
// deterministic stream.
type Spawner struct {
	rng    *rand.Rand
	nextID ID
}

// NewSpawner creates a spawner backed by the run's generator.
func NewSpawner(rng *rand.Rand) *Spawner {
	return &Spawner{rng: rng, nextID: 1}
}

// SpawnFleet creates count agents for a party. Roles cycle through patrol,
// fishing, resupply, and militia so every party fields a mixed presence.
func (s *Spawner) SpawnFleet(prof *party.Profile, count, zones int) []*Agent {
	fleet := make([]*Agent, 0, count)
	for i := 0; i < count; i++ {
		fleet = append(fleet, s.spawnOne(prof, Role(i%NumRoles), zones))
	}
	return fleet
}

func (s *Spawner) spawnOne(prof *party.Profile, role Role, zones int) *Agent {
	id := s.nextID
	s.nextID++

	// Risk-tolerant parties field more assertive crews; patrol and
	// militia run hotter than civilian traffic.
	aggr := 0.15 + 0.45*prof.RiskTolerance + 0.2*s.rng.Float64()
	if role == RoleMilitia {
		aggr += 0.15
	}
	if role == RoleFishing {
		aggr -= 0.1
	}

	comply := 0.95 - 0.25*prof.RiskTolerance - 0.15*s.rng.Float64()

	return &Agent{
		ID:             id,
		PartyID:        prof.PartyID,
		Role:           role,
		Zone:           s.rng.Intn(zones),
		Aggression:     clamp01(aggr),
		ComplianceBias: clamp01(comply),
	}
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
