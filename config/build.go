package config

import (
	"fmt"

	dipole "github.com/funkymunkycool/classical-dipoles"
	"github.com/funkymunkycool/classical-dipoles/lattice"
	"github.com/funkymunkycool/classical-dipoles/preset"
	"gonum.org/v1/gonum/spatial/r2"
)

// Options translates the system section into dipole options, starting
// with the preset's.
func (c Config) Options() ([]dipole.Option, error) {
	var opts []dipole.Option
	if c.System.Preset != "" {
		ps, err := preset.Lookup(c.System.Preset)
		if err != nil {
			return nil, err
		}
		opts = append(opts, ps.Options()...)
	}

	opts = append(opts,
		dipole.Frames(c.System.Frames),
		dipole.Steepness(c.System.Steepness),
		dipole.Reference(r2.Vec{X: c.System.Reference[0], Y: c.System.Reference[1]}),
	)
	if c.System.MgO != 0 {
		opts = append(opts, dipole.Spacing(c.System.MgO))
	}
	if c.System.FailOnDegenerate {
		opts = append(opts, dipole.FailOnDegenerate)
	}
	return opts, nil
}

// Build builds the configured system.  Without a particles section it is
// the default MgO hop.  A preset on a particles section replaces the
// charges of the vacancy pair.
func (c Config) Build() (*dipole.System, error) {
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	if len(c.Particles) == 0 {
		return dipole.Initialize(opts...)
	}

	m := c.Migration
	grid := &lattice.Infinite{Step: m.Step}
	if (m.Snap || hasSites(c.Particles)) && m.Step <= 0 {
		return nil, fmt.Errorf("%w: lattice placement needs a positive migration.step", dipole.ConfigurationErr)
	}

	place := func(pos []float64) r2.Vec {
		if m.Snap {
			pos = grid.Nearest(pos)
		}
		return r2.Vec{X: pos[0], Y: pos[1]}
	}

	start := make(dipole.Configuration, len(c.Particles))
	for i, pc := range c.Particles {
		p := dipole.Particle{
			Charge:  pc.Charge,
			Species: dipole.Species(pc.Species),
			Weight:  1,
		}
		if pc.Weight != nil {
			p.Weight = *pc.Weight
		}
		if len(pc.Site) != 0 {
			if len(pc.Site) != 2 {
				return nil, fmt.Errorf("%w: particle %v site needs 2 indices, got %v", dipole.ConfigurationErr, i, len(pc.Site))
			}
			p.Pos = place(grid.Site(pc.Site...))
		} else {
			p.Pos = place(pc.Position[:])
		}
		start[i] = p
	}

	target := place(m.Target[:])
	pair := dipole.VacancyPair{Origin: m.Origin, Dest: m.Dest}
	return dipole.NewSystem(start, pair, m.Mover, target, opts...)
}

func hasSites(ps []ParticleConfig) bool {
	for _, p := range ps {
		if len(p.Site) != 0 {
			return true
		}
	}
	return false
}
