package config

var Presets = map[string]map[string]*Config{
	"dipole": {
		"classic": {
			Arrangement: "dipole", Stepper: "euler",
			Tracer: TracerConfig{LinesPerCharge: 20, Length: 20, Resolution: 1, TolExp: 1},
			Grid:   GridConfig{Extent: 15, Nx: 64, Ny: 64},
		},
		"fine": {
			Arrangement: "dipole", Stepper: "rk4",
			Tracer: TracerConfig{LinesPerCharge: 40, Length: 40, Resolution: 8, TolExp: 2},
			Grid:   GridConfig{Extent: 15, Nx: 128, Ny: 128},
		},
	},
	"quadrupole": {
		"classic": {
			Arrangement: "quadrupole", Stepper: "euler",
			Tracer: TracerConfig{LinesPerCharge: 16, Length: 30, Resolution: 2, TolExp: 1},
			Grid:   GridConfig{Extent: 15, Nx: 64, Ny: 64},
		},
	},
	"demo": {
		"classic": {
			Arrangement: "demo", Stepper: "euler",
			Tracer: TracerConfig{LinesPerCharge: 20, Length: 20, Resolution: 1, TolExp: 1},
			Grid:   GridConfig{Extent: 15, Nx: 64, Ny: 64},
		},
		"smooth": {
			Arrangement: "demo", Stepper: "rk4",
			Tracer: TracerConfig{LinesPerCharge: 24, Length: 60, Resolution: 4, TolExp: 2},
			Grid:   GridConfig{Extent: 15, Nx: 96, Ny: 96},
		},
	},
	"random": {
		"scatter": {
			Arrangement: "random", Stepper: "euler", Seed: 42,
			Tracer: TracerConfig{LinesPerCharge: 12, Length: 30, Resolution: 2, TolExp: 1},
			Grid:   GridConfig{Extent: 15, Nx: 64, Ny: 64},
		},
	},
}

func GetPreset(arrangement, preset string) *Config {
	arrangementPresets, ok := Presets[arrangement]
	if !ok {
		return nil
	}
	cfg, ok := arrangementPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(arrangement string) []string {
	arrangementPresets, ok := Presets[arrangement]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(arrangementPresets))
	for name := range arrangementPresets {
		names = append(names, name)
	}
	return names
}
