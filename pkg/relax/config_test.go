package relax

import (
	"testing"

	"github.com/matzehuels/stipple/pkg/density"
	"github.com/matzehuels/stipple/pkg/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(Static); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
	if cfg.Count != 5000 || cfg.Iterations != 30 || cfg.Samples != 80 {
		t.Errorf("DefaultConfig() = %+v", cfg)
	}
	if cfg.WhiteCutoff != 0.1 || cfg.Polarity != density.DarkOnLight || cfg.Seed != 42 {
		t.Errorf("DefaultConfig() = %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		mode    Mode
		wantErr bool
	}{
		{"zero count", func(c *Config) { c.Count = 0 }, Static, true},
		{"zero iterations static", func(c *Config) { c.Iterations = 0 }, Static, true},
		{"zero iterations animated", func(c *Config) { c.Iterations = 0 }, Animated, false},
		{"zero samples", func(c *Config) { c.Samples = 0 }, Animated, true},
		{"cutoff above one", func(c *Config) { c.WhiteCutoff = 1.5 }, Static, true},
		{"cutoff one", func(c *Config) { c.WhiteCutoff = 1 }, Static, false},
		{"negative cutoff", func(c *Config) { c.WhiteCutoff = -0.1 }, Static, true},
		{"bad polarity", func(c *Config) { c.Polarity = density.Polarity(7) }, Static, true},
		{"negative workers", func(c *Config) { c.Workers = -1 }, Static, true},
		{"negative budget", func(c *Config) { c.RejectionBudget = -1 }, Static, true},
		{"negative seed", func(c *Config) { c.Seed = -7 }, Static, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate(tt.mode)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Validate() code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
			}
		})
	}
}
