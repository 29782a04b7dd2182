package relax

import (
	"time"

	"github.com/matzehuels/stipple/pkg/density"
	"github.com/matzehuels/stipple/pkg/errors"
)

// Mode selects how a run terminates.
type Mode int

const (
	// Static runs perform exactly Config.Iterations steps and complete.
	Static Mode = iota
	// Animated runs step until cancelled, paced by Config.Cadence.
	Animated
)

func (m Mode) String() string {
	if m == Animated {
		return "animated"
	}
	return "static"
}

// Default configuration values.
const (
	DefaultCount           = 5000
	DefaultIterations      = 30
	DefaultSamples         = 80
	DefaultWhiteCutoff     = 0.1
	DefaultSeed            = 42
	DefaultCadence         = 80 * time.Millisecond
	DefaultRejectionBudget = 1000
)

// Config holds the parameters of one run. It is copied into the run when
// the run is created and never changes afterwards.
type Config struct {
	// Count is the number of stipples. Must be positive.
	Count int `json:"count" yaml:"count" toml:"count"`

	// Iterations is the number of relaxation steps of a static run.
	// Ignored by animated runs.
	Iterations int `json:"iterations" yaml:"iterations" toml:"iterations"`

	// Samples is the number of Monte Carlo samples per centroid estimate.
	Samples int `json:"samples" yaml:"samples" toml:"samples"`

	// WhiteCutoff rejects initial candidates whose weight does not exceed it.
	WhiteCutoff float64 `json:"white_cutoff" yaml:"white_cutoff" toml:"white_cutoff"`

	// Polarity decides whether dark or light pixels attract stipples.
	Polarity density.Polarity `json:"polarity" yaml:"polarity" toml:"polarity"`

	// Seed drives initial placement. Only the low 32 bits are used.
	Seed int64 `json:"seed" yaml:"seed" toml:"seed"`

	// Workers bounds per-step parallelism. Zero means GOMAXPROCS.
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty" toml:"workers,omitempty"`

	// Cadence is the minimum time between two animated steps.
	Cadence time.Duration `json:"cadence,omitempty" yaml:"cadence,omitempty" toml:"cadence,omitempty"`

	// RejectionBudget is the number of candidates drawn per requested
	// point before the initializer falls back to uniform placement.
	RejectionBudget int `json:"rejection_budget,omitempty" yaml:"rejection_budget,omitempty" toml:"rejection_budget,omitempty"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Count:           DefaultCount,
		Iterations:      DefaultIterations,
		Samples:         DefaultSamples,
		WhiteCutoff:     DefaultWhiteCutoff,
		Polarity:        density.DarkOnLight,
		Seed:            DefaultSeed,
		Cadence:         DefaultCadence,
		RejectionBudget: DefaultRejectionBudget,
	}
}

// Validate checks the configuration for a run in the given mode.
// Iterations is only checked for static runs.
func (c Config) Validate(mode Mode) error {
	if err := errors.ValidatePositive("count", c.Count); err != nil {
		return err
	}
	if mode == Static {
		if err := errors.ValidatePositive("iterations", c.Iterations); err != nil {
			return err
		}
	}
	if err := errors.ValidatePositive("samples", c.Samples); err != nil {
		return err
	}
	if err := errors.ValidateUnit("white cutoff", c.WhiteCutoff); err != nil {
		return err
	}
	if !c.Polarity.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "unknown polarity %d", int(c.Polarity))
	}
	if c.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers must not be negative, got %d", c.Workers)
	}
	if c.Cadence < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cadence must not be negative, got %s", c.Cadence)
	}
	if c.RejectionBudget < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "rejection budget must not be negative, got %d", c.RejectionBudget)
	}
	return nil
}

func (c Config) cadence() time.Duration {
	if c.Cadence <= 0 {
		return DefaultCadence
	}
	return c.Cadence
}

func (c Config) rejectionBudget() int {
	if c.RejectionBudget <= 0 {
		return DefaultRejectionBudget
	}
	return c.RejectionBudget
}
