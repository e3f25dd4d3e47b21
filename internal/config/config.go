// Package config holds every tunable threshold and rate in the engine.
// Scenarios recalibrate by overriding fields; nothing in the scoring or
// simulation code embeds these constants directly.
package config

import "fmt"

// Falloff shapes for utility decay.
const (
	FalloffLinear    = "linear"
	FalloffQuadratic = "quadratic"
)

// Acceptance probability curves.
const (
	CurveLogistic = "logistic"
	CurveLinear   = "linear"
)

// ConfigurationError reports a missing or inconsistent setting. It is
// raised at engine construction, never mid-run.
type ConfigurationError struct {
	Field  string
	Detail string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Detail)
}

// Config aggregates all engine settings.
type Config struct {
	Utility    Utility    `yaml:"utility"`
	Acceptance Acceptance `yaml:"acceptance"`
	Sim        Sim        `yaml:"sim"`
	Weather    Weather    `yaml:"weather"`
	Trend      Trend      `yaml:"trend"`
}

// Utility controls how proposal values map to per-dimension satisfaction.
type Utility struct {
	// FalloffShape is "linear" or "quadratic". Both are 1.0 at the
	// party's ideal and 0 at the minimum-acceptable bound.
	FalloffShape string `yaml:"falloff_shape"`
	// RedLineVeto forces overall utility to 0 when a red-line dimension
	// is crossed. On by default; off demotes red lines to zero-satisfaction
	// dimensions.
	RedLineVeto bool `yaml:"red_line_veto"`
}

// Acceptance controls the utility → probability mapping.
type Acceptance struct {
	// Curve is "logistic" or "linear", applied to the margin above BATNA
	// minus the required margin.
	Curve     string  `yaml:"curve"`
	Steepness float64 `yaml:"steepness"` // Logistic curve
	Slope     float64 `yaml:"slope"`     // Linear curve
	// RequiredMarginScale sets how much margin above BATNA a fully
	// risk-averse party needs before hitting 50% acceptance. Scaled by
	// (1 − risk_tolerance) per party.
	RequiredMarginScale float64 `yaml:"required_margin_scale"`
	StrongThreshold     float64 `yaml:"strong_threshold"`
	MarginalThreshold   float64 `yaml:"marginal_threshold"`
}

// Sim controls the agent simulator's stochastic processes.
type Sim struct {
	// Units fielded per party and the zones they sortie into.
	AgentsPerParty int `yaml:"agents_per_party"`
	Zones          int `yaml:"zones"`

	// Per-step activity base rates by role.
	PatrolRate   float64 `yaml:"patrol_rate"`
	FishingRate  float64 `yaml:"fishing_rate"`
	ResupplyRate float64 `yaml:"resupply_rate"`
	MilitiaRate  float64 `yaml:"militia_rate"`

	// Interaction model.
	BaseInteractionProb float64 `yaml:"base_interaction_prob"`
	AggressionFactor    float64 `yaml:"aggression_factor"`
	TensionFactor       float64 `yaml:"tension_factor"`

	// Escalation memory: tension added per incident (scaled by its
	// severity), exponential decay applied every step, hard cap.
	TensionPerIncident float64 `yaml:"tension_per_incident"`
	TensionDecay       float64 `yaml:"tension_decay"`
	TensionCap         float64 `yaml:"tension_cap"`

	// Hotline / CUES de-escalation.
	HotlineSuccessProb float64 `yaml:"hotline_success_prob"`

	// Dimension ids the simulator reads agreement terms from. A missing
	// dimension simply imposes no term.
	StandoffDimension string `yaml:"standoff_dimension"`
	EscortDimension   string `yaml:"escort_dimension"`
	NoticeDimension   string `yaml:"notice_dimension"`
	HotlineDimension  string `yaml:"hotline_dimension"`
}

// Weather controls the slow-varying environmental process.
type Weather struct {
	// NoiseScale is the step-to-coordinate scale of the sea-state noise
	// field; smaller values vary more slowly.
	NoiseScale     float64 `yaml:"noise_scale"`
	StormThreshold float64 `yaml:"storm_threshold"`
	// StormIncidentMultiplier perturbs deliberate-incident probability in
	// heavy weather; AccidentProb is the per-step chance of a weather
	// "accidental" incident at full sea state.
	StormIncidentMultiplier float64 `yaml:"storm_incident_multiplier"`
	AccidentProb            float64 `yaml:"accident_prob"`
}

// Trend controls run summarization thresholds.
type Trend struct {
	// Ratio between first-half and second-half incident counts before a
	// run classifies as declining or escalating.
	Ratio float64 `yaml:"ratio"`

	// Assessment bands: incidents per 100 steps and average severity.
	GoodIncidentRate       float64 `yaml:"good_incident_rate"`
	ConcerningIncidentRate float64 `yaml:"concerning_incident_rate"`
	GoodSeverity           float64 `yaml:"good_severity"`
	ConcerningSeverity     float64 `yaml:"concerning_severity"`
}

// Default returns the calibration used when a scenario overrides nothing.
func Default() Config {
	return Config{
		Utility: Utility{
			FalloffShape: FalloffLinear,
			RedLineVeto:  true,
		},
		Acceptance: Acceptance{
			Curve:               CurveLogistic,
			Steepness:           8.0,
			Slope:               2.0,
			RequiredMarginScale: 0.10,
			StrongThreshold:     0.7,
			MarginalThreshold:   0.4,
		},
		Sim: Sim{
			AgentsPerParty:      6,
			Zones:               4,
			PatrolRate:          0.35,
			FishingRate:         0.45,
			ResupplyRate:        0.12,
			MilitiaRate:         0.25,
			BaseInteractionProb: 0.22,
			AggressionFactor:    0.8,
			TensionFactor:       0.5,
			TensionPerIncident:  0.25,
			TensionDecay:        0.92,
			TensionCap:          1.5,
			HotlineSuccessProb:  0.87,
			StandoffDimension:   "standoff_nm",
			EscortDimension:     "escorts",
			NoticeDimension:     "notice_hours",
			HotlineDimension:    "hotline",
		},
		Weather: Weather{
			NoiseScale:              0.035,
			StormThreshold:          0.78,
			StormIncidentMultiplier: 1.6,
			AccidentProb:            0.012,
		},
		Trend: Trend{
			Ratio:                  1.5,
			GoodIncidentRate:       4.0,
			ConcerningIncidentRate: 12.0,
			GoodSeverity:           0.35,
			ConcerningSeverity:     0.6,
		},
	}
}

// Validate rejects missing or inconsistent settings before any run starts.
func (c Config) Validate() error {
	switch c.Utility.FalloffShape {
	case FalloffLinear, FalloffQuadratic:
	default:
		return &ConfigurationError{Field: "utility.falloff_shape", Detail: fmt.Sprintf("unknown shape %q", c.Utility.FalloffShape)}
	}

	switch c.Acceptance.Curve {
	case CurveLogistic:
		if c.Acceptance.Steepness <= 0 {
			return &ConfigurationError{Field: "acceptance.steepness", Detail: "must be positive for logistic curve"}
		}
	case CurveLinear:
		if c.Acceptance.Slope <= 0 {
			return &ConfigurationError{Field: "acceptance.slope", Detail: "must be positive for linear curve"}
		}
	default:
		return &ConfigurationError{Field: "acceptance.curve", Detail: fmt.Sprintf("unknown curve %q", c.Acceptance.Curve)}
	}
	if c.Acceptance.RequiredMarginScale < 0 {
		return &ConfigurationError{Field: "acceptance.required_margin_scale", Detail: "must be non-negative"}
	}
	if !inUnit(c.Acceptance.StrongThreshold) || !inUnit(c.Acceptance.MarginalThreshold) {
		return &ConfigurationError{Field: "acceptance.thresholds", Detail: "status thresholds must be in [0, 1]"}
	}
	if c.Acceptance.MarginalThreshold >= c.Acceptance.StrongThreshold {
		return &ConfigurationError{
			Field:  "acceptance.thresholds",
			Detail: fmt.Sprintf("marginal threshold %g must be below strong threshold %g", c.Acceptance.MarginalThreshold, c.Acceptance.StrongThreshold),
		}
	}

	if c.Sim.AgentsPerParty < 1 {
		return &ConfigurationError{Field: "sim.agents_per_party", Detail: "must be at least 1"}
	}
	if c.Sim.Zones < 1 {
		return &ConfigurationError{Field: "sim.zones", Detail: "must be at least 1"}
	}
	for _, r := range []struct {
		name string
		val  float64
	}{
		{"sim.patrol_rate", c.Sim.PatrolRate},
		{"sim.fishing_rate", c.Sim.FishingRate},
		{"sim.resupply_rate", c.Sim.ResupplyRate},
		{"sim.militia_rate", c.Sim.MilitiaRate},
		{"sim.base_interaction_prob", c.Sim.BaseInteractionProb},
		{"sim.hotline_success_prob", c.Sim.HotlineSuccessProb},
		{"weather.accident_prob", c.Weather.AccidentProb},
	} {
		if !inUnit(r.val) {
			return &ConfigurationError{Field: r.name, Detail: fmt.Sprintf("probability %g outside [0, 1]", r.val)}
		}
	}
	if c.Sim.TensionDecay <= 0 || c.Sim.TensionDecay > 1 {
		return &ConfigurationError{Field: "sim.tension_decay", Detail: fmt.Sprintf("decay %g must be in (0, 1]", c.Sim.TensionDecay)}
	}
	if c.Sim.TensionCap <= 0 {
		return &ConfigurationError{Field: "sim.tension_cap", Detail: "must be positive"}
	}
	if c.Sim.TensionPerIncident < 0 {
		return &ConfigurationError{Field: "sim.tension_per_incident", Detail: "must be non-negative"}
	}

	if c.Weather.NoiseScale <= 0 {
		return &ConfigurationError{Field: "weather.noise_scale", Detail: "must be positive"}
	}
	if c.Weather.StormIncidentMultiplier < 1 {
		return &ConfigurationError{Field: "weather.storm_incident_multiplier", Detail: "must be at least 1"}
	}

	if c.Trend.Ratio <= 1 {
		return &ConfigurationError{Field: "trend.ratio", Detail: fmt.Sprintf("ratio %g must exceed 1", c.Trend.Ratio)}
	}
	if c.Trend.GoodIncidentRate < 0 || c.Trend.ConcerningIncidentRate <= c.Trend.GoodIncidentRate {
		return &ConfigurationError{Field: "trend.incident_rates", Detail: "concerning rate must exceed good rate"}
	}
	if c.Trend.ConcerningSeverity <= c.Trend.GoodSeverity {
		return &ConfigurationError{Field: "trend.severities", Detail: "concerning severity must exceed good severity"}
	}
	return nil
}

func inUnit(v float64) bool { return v >= 0 && v <= 1 }
