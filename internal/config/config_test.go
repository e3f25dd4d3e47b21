package config

import (
	"errors"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			"unknown falloff shape",
			func(c *Config) { c.Utility.FalloffShape = "cubic" },
			"utility.falloff_shape",
		},
		{
			"unknown curve",
			func(c *Config) { c.Acceptance.Curve = "step" },
			"acceptance.curve",
		},
		{
			"non-positive steepness",
			func(c *Config) { c.Acceptance.Steepness = 0 },
			"acceptance.steepness",
		},
		{
			"non-positive slope on linear curve",
			func(c *Config) { c.Acceptance.Curve = CurveLinear; c.Acceptance.Slope = -1 },
			"acceptance.slope",
		},
		{
			"inverted status thresholds",
			func(c *Config) { c.Acceptance.MarginalThreshold = 0.8 },
			"acceptance.thresholds",
		},
		{
			"zero agents",
			func(c *Config) { c.Sim.AgentsPerParty = 0 },
			"sim.agents_per_party",
		},
		{
			"zero zones",
			func(c *Config) { c.Sim.Zones = 0 },
			"sim.zones",
		},
		{
			"probability above one",
			func(c *Config) { c.Sim.PatrolRate = 1.2 },
			"sim.patrol_rate",
		},
		{
			"tension decay above one",
			func(c *Config) { c.Sim.TensionDecay = 1.3 },
			"sim.tension_decay",
		},
		{
			"negative tension cap",
			func(c *Config) { c.Sim.TensionCap = -0.5 },
			"sim.tension_cap",
		},
		{
			"zero noise scale",
			func(c *Config) { c.Weather.NoiseScale = 0 },
			"weather.noise_scale",
		},
		{
			"storm multiplier below one",
			func(c *Config) { c.Weather.StormIncidentMultiplier = 0.5 },
			"weather.storm_incident_multiplier",
		},
		{
			"trend ratio at one",
			func(c *Config) { c.Trend.Ratio = 1.0 },
			"trend.ratio",
		},
		{
			"concerning rate below good rate",
			func(c *Config) { c.Trend.ConcerningIncidentRate = 2 },
			"trend.incident_rates",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			var ce *ConfigurationError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *ConfigurationError, got %v", err)
			}
			if ce.Field != tt.field {
				t.Fatalf("error field = %q, want %q", ce.Field, tt.field)
			}
		})
	}
}
