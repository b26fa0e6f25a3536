package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	dipole "github.com/funkymunkycool/classical-dipoles"
	"github.com/funkymunkycool/classical-dipoles/render"
)

const customTOML = `
[system]
preset = "v+"
frames = 21
steepness = 8.0
reference = [0.0, 1.0]

[migration]
origin = 2
dest = 1
mover = 0
target = [0.0, 1.5]
step = 1.5
snap = true

[[particles]]
species = "Mg"
charge = 1.2
site = [2, 1]

[[particles]]
species = "V"
charge = -1.2
position = [3.01, 1.49]
weight = 0.0

[[particles]]
species = "V"
charge = -1.2
position = [0.0, 1.5]
weight = 1.0

[render.species.V]
color = "00ff00"
radius = 70.0
`

func TestDefaultSystem(t *testing.T) {
	cfg := Default()
	sys, err := cfg.Build()
	require.NoError(t, err)

	assert.Len(t, sys.Start, 5)
	assert.Equal(t, defaultFrames, sys.Frames())
	assert.Equal(t, r2.Vec{X: 1}, sys.Reference())
}

func TestParseCustom(t *testing.T) {
	cfg := Default()
	require.NoError(t, Parse([]byte(customTOML), &cfg))

	assert.Equal(t, "v+", cfg.System.Preset)
	assert.Equal(t, 21, cfg.System.Frames)
	assert.Equal(t, defaultMgO, cfg.System.MgO, "unset keys keep their defaults")
	assert.Len(t, cfg.Particles, 3)
	assert.Equal(t, SpeciesStyle{Color: "00ff00", Radius: 70}, cfg.Render.Species["V"])
	assert.Equal(t, "fa8072", cfg.Render.Species["Mg"].Color)

	sys, err := cfg.Build()
	require.NoError(t, err)

	assert.Equal(t, 8.0, sys.Steepness())
	assert.Equal(t, dipole.SingleCharge, sys.Start[1].Charge, "preset replaces vacancy charges")
	assert.Equal(t, dipole.SingleCharge, sys.Start[2].Charge)
	assert.Equal(t, 1.2, sys.Start[0].Charge)
	assert.Equal(t, dipole.VacancyPair{Origin: 2, Dest: 1}, sys.Pair)
	assert.Equal(t, r2.Vec{X: 3, Y: 1.5}, sys.Start[0].Pos)
	assert.Equal(t, r2.Vec{X: 3, Y: 1.5}, sys.Start[1].Pos, "position snapped onto the lattice")
	assert.Equal(t, 0.0, sys.Start[1].Weight)

	tr, err := sys.Run()
	require.NoError(t, err)
	assert.Equal(t, 21, tr.Len())
}

func TestCustomPresetCharges(t *testing.T) {
	cfg := Default()
	require.NoError(t, Parse([]byte(customTOML), &cfg))

	cfg.System.Preset = "v2+"
	sys, err := cfg.Build()
	require.NoError(t, err)
	assert.Equal(t, dipole.DoubleCharge, sys.Start[1].Charge)
	assert.Equal(t, dipole.DoubleCharge, sys.Start[2].Charge)

	cfg.System.Preset = ""
	sys, err = cfg.Build()
	require.NoError(t, err)
	assert.Equal(t, -1.2, sys.Start[1].Charge, "no preset keeps the particles section charges")
	assert.Equal(t, -1.2, sys.Start[2].Charge)
}

func TestInlineSpeciesWithoutRadius(t *testing.T) {
	cfg := Default()
	data := []byte("[render]\nspecies.O = { color = \"00ff00\" }\n")
	require.NoError(t, Parse(data, &cfg))
	assert.Equal(t, 0.0, cfg.Render.Species["O"].Radius)

	colors := map[string]string{}
	radii := map[string]float64{}
	for name, st := range cfg.Render.Species {
		colors[name] = st.Color
		radii[name] = st.Radius
	}
	_, err := render.ParseTable(colors, radii)
	assert.ErrorIs(t, err, dipole.ConfigurationErr)
}

func TestCustomValidation(t *testing.T) {
	cfg := Default()
	require.NoError(t, Parse([]byte(customTOML), &cfg))

	cfg.Particles[1].Species = "Xe"
	_, err := cfg.Build()
	assert.ErrorIs(t, err, dipole.ConfigurationErr)

	cfg = Default()
	require.NoError(t, Parse([]byte(customTOML), &cfg))
	cfg.Migration.Step = 0
	_, err = cfg.Build()
	assert.ErrorIs(t, err, dipole.ConfigurationErr)

	cfg = Default()
	cfg.System.Preset = "bogus"
	_, err = cfg.Build()
	assert.ErrorIs(t, err, dipole.ConfigurationErr)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.toml")
	require.NoError(t, os.WriteFile(path, []byte(customTOML), 0o644))

	t.Setenv("DIPOLE_FRAMES", "7")
	t.Setenv("DIPOLE_REFERENCE", "-1, 0")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.System.Frames)
	assert.Equal(t, [2]float64{-1, 0}, cfg.System.Reference)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 8.0, cfg.System.Steepness)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	t.Setenv("DIPOLE_STEEPNESS", "steep")
	_, err = Load("")
	assert.Error(t, err)
}
