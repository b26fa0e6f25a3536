package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config aggregates run configuration values.
type Config struct {
	System    SystemConfig     `toml:"system"`
	Particles []ParticleConfig `toml:"particles"`
	Migration MigrationConfig  `toml:"migration"`
	Render    RenderConfig     `toml:"render"`
	Store     StoreConfig      `toml:"store"`
	Logging   LoggingConfig    `toml:"logging"`
}

// SystemConfig controls the default system and the interpolation.
// An empty Preset keeps the charges given in the particles section, or the
// neutral vacancy for the default system.
type SystemConfig struct {
	Preset           string     `toml:"preset"`
	MgO              float64    `toml:"mgo"`
	Frames           int        `toml:"frames"`
	Steepness        float64    `toml:"steepness"`
	Reference        [2]float64 `toml:"reference"`
	FailOnDegenerate bool       `toml:"fail_on_degenerate"`
}

// ParticleConfig describes one particle of a custom start configuration.
// Site, when set, places the particle on the lattice and overrides
// Position.
type ParticleConfig struct {
	Species  string     `toml:"species"`
	Charge   float64    `toml:"charge"`
	Position [2]float64 `toml:"position"`
	Site     []int      `toml:"site"`
	Weight   *float64   `toml:"weight"`
}

// MigrationConfig describes the hop of a custom start configuration.
type MigrationConfig struct {
	Origin int        `toml:"origin"`
	Dest   int        `toml:"dest"`
	Mover  int        `toml:"mover"`
	Target [2]float64 `toml:"target"`
	// Step is the lattice spacing used for Site placement and snapping.
	Step float64 `toml:"step"`
	Snap bool    `toml:"snap"`
}

// SpeciesStyle is the display color (hex) and marker size of a species.
type SpeciesStyle struct {
	Color  string  `toml:"color"`
	Radius float64 `toml:"radius"`
}

type RenderConfig struct {
	Enabled   bool                    `toml:"enabled"`
	OutputDir string                  `toml:"output_dir"`
	Width     int                     `toml:"width"`
	Height    int                     `toml:"height"`
	Species   map[string]SpeciesStyle `toml:"species"`
}

type StoreConfig struct {
	Path string `toml:"path"`
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string `toml:"level"`
	Format        string `toml:"format"` // text|json
	IncludeCaller bool   `toml:"include_caller"`
}

const (
	defaultMgO           = 2.1
	defaultFrames        = 11
	defaultSteepness     = 5.0
	defaultOutputDir     = "."
	defaultWidth         = 1500
	defaultHeight        = 1000
	defaultLoggingLevel  = "info"
	defaultLoggingFormat = "text"
)

// Default returns the configuration of the built-in MgO vacancy hop.
func Default() Config {
	return Config{
		System: SystemConfig{
			MgO:       defaultMgO,
			Frames:    defaultFrames,
			Steepness: defaultSteepness,
			Reference: [2]float64{1, 0},
		},
		Render: RenderConfig{
			Enabled:   true,
			OutputDir: defaultOutputDir,
			Width:     defaultWidth,
			Height:    defaultHeight,
			Species: map[string]SpeciesStyle{
				"Mg": {Color: "fa8072", Radius: 35},
				"O":  {Color: "ff0000", Radius: 55},
				"V":  {Color: "0000ff", Radius: 65},
			},
		},
		Logging: LoggingConfig{
			Level:  defaultLoggingLevel,
			Format: defaultLoggingFormat,
		},
	}
}

// Load reads the TOML file at path over the defaults and then applies
// environment overrides.  An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file '%s': %w", path, err)
		}
		if err := Parse(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes TOML data into cfg.  Fields absent from data keep their
// current values.
func Parse(data []byte, cfg *Config) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse TOML: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.System.Preset = valueOrDefault("DIPOLE_PRESET", cfg.System.Preset)
	cfg.Render.OutputDir = valueOrDefault("DIPOLE_OUTPUT_DIR", cfg.Render.OutputDir)
	cfg.Store.Path = valueOrDefault("DIPOLE_DB", cfg.Store.Path)
	cfg.Logging.Level = valueOrDefault("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = valueOrDefault("LOG_FORMAT", cfg.Logging.Format)
	cfg.Logging.IncludeCaller = parseBoolWithDefault("LOG_INCLUDE_CALLER", cfg.Logging.IncludeCaller)

	if v := os.Getenv("DIPOLE_FRAMES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DIPOLE_FRAMES value %q: %w", v, err)
		}
		cfg.System.Frames = n
	}

	if v := os.Getenv("DIPOLE_STEEPNESS"); v != "" {
		k, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid DIPOLE_STEEPNESS value %q: %w", v, err)
		}
		cfg.System.Steepness = k
	}

	if v := os.Getenv("DIPOLE_REFERENCE"); v != "" {
		ref, err := parseVec(v)
		if err != nil {
			return fmt.Errorf("invalid DIPOLE_REFERENCE value %q: %w", v, err)
		}
		cfg.System.Reference = ref
	}
	return nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

// parseVec parses "x,y".
func parseVec(s string) ([2]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return [2]float64{}, fmt.Errorf("want 2 comma separated components, got %v", len(parts))
	}
	var v [2]float64
	for i, p := range parts {
		x, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return [2]float64{}, err
		}
		v[i] = x
	}
	return v, nil
}
