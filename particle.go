package dipole

import (
	"fmt"
	"math"

	"github.com/funkymunkycool/classical-dipoles/lattice"
	"gonum.org/v1/gonum/spatial/r2"
)

type Species string

const (
	Mg Species = "Mg"
	O  Species = "O"
	V  Species = "V"
)

func (s Species) Valid() bool {
	switch s {
	case Mg, O, V:
		return true
	}
	return false
}

// Particle is a point charge.  Weight is the fractional occupation of the
// particle's site: 1 is fully present and 0 is absent.
type Particle struct {
	Charge  float64
	Pos     r2.Vec
	Weight  float64
	Species Species
}

// Configuration is an ordered snapshot of particles.  Index i refers to the
// same physical entity in every configuration derived from one another.
type Configuration []Particle

// Clone returns a copy of c that shares no memory with it.
func (c Configuration) Clone() Configuration {
	if c == nil {
		return nil
	}
	dup := make(Configuration, len(c))
	copy(dup, c)
	return dup
}

func (c Configuration) Positions() []r2.Vec {
	pos := make([]r2.Vec, len(c))
	for i, p := range c {
		pos[i] = p.Pos
	}
	return pos
}

// VacancyPair identifies the two sites sharing the mobile vacancy.  Origin
// is occupied at the start of the hop and Dest is empty.
type VacancyPair struct {
	Origin int
	Dest   int
}

func (vp VacancyPair) check(n int) error {
	if vp.Origin < 0 || vp.Origin >= n || vp.Dest < 0 || vp.Dest >= n {
		return fmt.Errorf("%w: vacancy pair %v out of range for %v particles", ConfigurationErr, vp, n)
	} else if vp.Origin == vp.Dest {
		return fmt.Errorf("%w: vacancy pair sites must differ, got %v twice", ConfigurationErr, vp.Origin)
	}
	return nil
}

const weightTol = 1e-12

// Validate checks species labels, the weight range and the occupation of
// the vacancy pair.  Non-vacancy particles must be fully present.
func Validate(c Configuration, pair VacancyPair) error {
	if err := pair.check(len(c)); err != nil {
		return err
	}
	for i, p := range c {
		if !p.Species.Valid() {
			return fmt.Errorf("%w: particle %v has unknown species %q", ConfigurationErr, i, p.Species)
		} else if p.Weight < 0 || p.Weight > 1 || math.IsNaN(p.Weight) {
			return fmt.Errorf("%w: particle %v weight %v outside [0,1]", ConfigurationErr, i, p.Weight)
		} else if i != pair.Origin && i != pair.Dest && p.Weight != 1 {
			return fmt.Errorf("%w: particle %v is not part of the vacancy pair but has weight %v", ConfigurationErr, i, p.Weight)
		}
	}
	sum := c[pair.Origin].Weight + c[pair.Dest].Weight
	if math.Abs(sum-1) > weightTol {
		return fmt.Errorf("%w: vacancy site weights sum to %v, not 1", ConfigurationErr, sum)
	}
	return nil
}

// DeriveMigrated returns a copy of c with particle mover relocated to
// target.  Charges, weights, species and every other position are left as
// they are.
func DeriveMigrated(c Configuration, mover int, target r2.Vec) (Configuration, error) {
	if mover < 0 || mover >= len(c) {
		return nil, fmt.Errorf("%w: mover index %v out of range for %v particles", ConfigurationErr, mover, len(c))
	}
	moved := c.Clone()
	moved[mover].Pos = target
	return moved, nil
}

// Initialize builds the default system: an O ion sitting on the empty
// destination site of the vacancy, two Mg neighbours, and the occupied
// origin site the O ion hops onto.
//
//	0: O  at (r, r/2)
//	1: Mg at (r/2, r)
//	2: Mg at (r/2, 0)
//	3: V  at (r, r/2)  weight 0 (destination)
//	4: V  at (0, r/2)  weight 1 (origin)
//
// where r is the O-O distance sqrt(2)*MgO.  All positions are sites of a
// square lattice with step r/2.
func Initialize(opts ...Option) (*System, error) {
	p := defaultParams()
	for _, opt := range opts {
		opt(&p)
	}

	r := math.Sqrt(2 * p.MgO * p.MgO)
	grid := &lattice.Infinite{Step: r / 2}
	site := func(i, j int) r2.Vec {
		pos := grid.Site(i, j)
		return r2.Vec{X: pos[0], Y: pos[1]}
	}

	start := Configuration{
		{Charge: p.OCharge, Pos: site(2, 1), Weight: 1, Species: O},
		{Charge: p.MgCharge, Pos: site(1, 2), Weight: 1, Species: Mg},
		{Charge: p.MgCharge, Pos: site(1, 0), Weight: 1, Species: Mg},
		{Charge: p.V0, Pos: site(2, 1), Weight: p.DestWeight, Species: V},
		{Charge: p.V1, Pos: site(0, 1), Weight: p.OriginWeight, Species: V},
	}
	pair := VacancyPair{Origin: 4, Dest: 3}

	// the O ion hops onto the origin vacancy site
	return newSystem(start, pair, 0, start[pair.Origin].Pos, p)
}
