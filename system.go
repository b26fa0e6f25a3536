package dipole

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// System holds a start configuration, the hop that turns it into the end
// configuration and the most recently computed trajectory.
type System struct {
	Start  Configuration
	End    Configuration
	Pair   VacancyPair
	Mover  int
	Target r2.Vec
	params params
	traj   *Trajectory
}

// NewSystem builds a system from a custom start configuration.  Particle
// mover hops to target while the vacancy moves from pair.Origin to
// pair.Dest.  Charges come from start unless VacancyCharges is given, in
// which case it replaces the charges of the vacancy pair.
func NewSystem(start Configuration, pair VacancyPair, mover int, target r2.Vec, opts ...Option) (*System, error) {
	p := defaultParams()
	for _, opt := range opts {
		opt(&p)
	}
	return newSystem(start, pair, mover, target, p)
}

func newSystem(start Configuration, pair VacancyPair, mover int, target r2.Vec, p params) (*System, error) {
	s := &System{
		Start:  start.Clone(),
		Pair:   pair,
		Mover:  mover,
		Target: target,
		params: p,
	}

	if err := Validate(s.Start, pair); err != nil {
		return nil, err
	} else if mover < 0 || mover >= len(start) {
		return nil, fmt.Errorf("%w: mover index %v out of range for %v particles", ConfigurationErr, mover, len(start))
	} else if s.params.Frames < 2 {
		return nil, fmt.Errorf("%w: need at least 2 frames, got %v", ConfigurationErr, s.params.Frames)
	} else if !(s.params.Steepness > 0) {
		return nil, fmt.Errorf("%w: steepness must be positive, got %v", ConfigurationErr, s.params.Steepness)
	}
	if p.VacancySet {
		s.Start[pair.Dest].Charge = p.V0
		s.Start[pair.Origin].Charge = p.V1
	}
	return s, nil
}

func (s *System) Frames() int { return s.params.Frames }
func (s *System) Steepness() float64 { return s.params.Steepness }
func (s *System) Reference() r2.Vec { return s.params.Reference }
func (s *System) Trajectory() *Trajectory { return s.traj }

// Run derives the end configuration, interpolates the migration and
// computes the dipole of every frame.  The previous trajectory is replaced
// only if every step succeeds.
func (s *System) Run() (*Trajectory, error) {
	end, err := DeriveMigrated(s.Start, s.Mover, s.Target)
	if err != nil {
		return nil, err
	}

	frames, err := Interpolate(s.Start, end, s.Pair, s.params.Frames, s.params.Steepness)
	if err != nil {
		return nil, err
	}

	calc := Calculator{Reference: s.params.Reference, ZeroOnDegenerate: s.params.ZeroFallback}
	traj, err := calc.Trajectory(frames)
	if err != nil {
		return nil, err
	}
	traj.Pair = s.Pair
	traj.Steepness = s.params.Steepness

	s.End = end
	s.traj = traj
	return traj, nil
}
