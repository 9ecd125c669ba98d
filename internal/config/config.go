package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fieldsim/internal/field"
	"github.com/san-kum/fieldsim/internal/tracer"
)

const (
	DefaultLinesPerCharge = 20
	DefaultLength         = 20
	DefaultResolution     = 1
	DefaultTolExp         = 1
	DefaultExtent         = 15.0
	DefaultGridSize       = 64

	// Charge count limits for the interactive surfaces.
	MinCharges = 2
	MaxCharges = 8
)

type Config struct {
	Arrangement string         `yaml:"arrangement"`
	Charges     []ChargeConfig `yaml:"charges"`
	Stepper     string         `yaml:"stepper"`
	Tracer      TracerConfig   `yaml:"tracer"`
	Grid        GridConfig     `yaml:"grid"`
	Seed        int64          `yaml:"seed"`
}

type ChargeConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Q float64 `yaml:"q"`
}

type TracerConfig struct {
	LinesPerCharge int `yaml:"lines_per_charge"`
	Length         int `yaml:"length"`
	Resolution     int `yaml:"resolution"`
	// TolExp is the approach tolerance exponent: tolerance = 10^-tol_exp.
	TolExp int `yaml:"tol_exp"`
}

type GridConfig struct {
	Extent float64 `yaml:"extent"`
	Nx     int     `yaml:"nx"`
	Ny     int     `yaml:"ny"`
}

func DefaultConfig() *Config {
	return &Config{
		Arrangement: "dipole",
		Stepper:     "euler",
		Tracer: TracerConfig{
			LinesPerCharge: DefaultLinesPerCharge,
			Length:         DefaultLength,
			Resolution:     DefaultResolution,
			TolExp:         DefaultTolExp,
		},
		Grid: GridConfig{
			Extent: DefaultExtent,
			Nx:     DefaultGridSize,
			Ny:     DefaultGridSize,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// TracerSettings converts the config into tracer settings, expanding the
// tolerance exponent.
func (c *Config) TracerSettings() tracer.Settings {
	return tracer.Settings{
		LinesPerCharge: c.Tracer.LinesPerCharge,
		Length:         c.Tracer.Length,
		Resolution:     c.Tracer.Resolution,
		ApproachTol:    Tolerance(c.Tracer.TolExp),
	}
}

// Tolerance expands an exponent n into the approach tolerance 10^-n.
func Tolerance(exp int) float64 {
	tol := 1.0
	for i := 0; i < exp; i++ {
		tol /= 10
	}
	return tol
}

// System builds the charge system: explicit charges win over a named
// arrangement.
func (c *Config) System() (*field.System, error) {
	if len(c.Charges) > 0 {
		s := &field.System{}
		for _, ch := range c.Charges {
			s.Charges = append(s.Charges, field.Charge{
				Position: field.Vec{X: ch.X, Y: ch.Y},
				Value:    ch.Q,
			})
		}
		return s, nil
	}

	switch c.Arrangement {
	case "dipole":
		return field.Dipole(5, 1), nil
	case "quadrupole":
		return field.Quadrupole(5, 1), nil
	case "diagonal":
		return field.Diagonal(MinCharges + 1), nil
	case "demo":
		return field.Demo(), nil
	case "random":
		return field.Random(6, 10, c.Seed), nil
	default:
		return nil, fmt.Errorf("unknown arrangement: %s", c.Arrangement)
	}
}

// GridBounds returns the symmetric sampling window.
func (c *Config) GridBounds() (xmin, xmax, ymin, ymax float64) {
	e := c.Grid.Extent
	return -e, e, -e, e
}
