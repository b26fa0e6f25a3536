// Package dipole models point charges on a 2D lattice and computes the
// electric dipole moment while a vacancy migrates between two sites.
package dipole

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

var ConfigurationErr = errors.New("invalid configuration")
var DimensionMismatchErr = errors.New("configuration dimensions do not match")
var DegenerateDipoleErr = errors.New("dipole direction is undefined")

// DipoleMoment returns charge*weight*position for every particle in c.
func DipoleMoment(c Configuration) []r2.Vec {
	moments := make([]r2.Vec, len(c))
	for i, p := range c {
		moments[i] = r2.Scale(p.Charge*p.Weight, p.Pos)
	}
	return moments
}

// Total sums the per-particle dipole vectors.
func Total(moments []r2.Vec) r2.Vec {
	var d r2.Vec
	for _, m := range moments {
		d = r2.Add(d, m)
	}
	return d
}

// Signed returns |d| with the sign of the cosine between d and ref.  A
// dipole orthogonal to ref counts as positive.  DegenerateDipoleErr is
// returned when either vector is zero since the angle is then undefined.
func Signed(d, ref r2.Vec) (float64, error) {
	if r2.Norm(ref) == 0 {
		return 0, fmt.Errorf("%w: zero reference direction", DegenerateDipoleErr)
	}
	mag := r2.Norm(d)
	if mag == 0 {
		return 0, fmt.Errorf("%w: total dipole is zero", DegenerateDipoleErr)
	}
	if r2.Dot(d, ref) < 0 {
		return -mag, nil
	}
	return mag, nil
}

// Aggregate returns the signed magnitude of the total dipole of c along
// ref.
func Aggregate(c Configuration, ref r2.Vec) (float64, error) {
	return Signed(Total(DipoleMoment(c)), ref)
}

// Calculator evaluates dipoles along a migration path.  If ZeroOnDegenerate
// is true, frames with a vanishing total dipole get magnitude 0 instead of
// aborting the whole calculation.  A zero Reference always fails.
type Calculator struct {
	Reference        r2.Vec
	ZeroOnDegenerate bool
}

func (calc Calculator) magnitude(d r2.Vec) (float64, error) {
	mag, err := Signed(d, calc.Reference)
	if err != nil && calc.ZeroOnDegenerate && r2.Norm(calc.Reference) != 0 {
		return 0, nil
	}
	return mag, err
}

// TrajectoryDipoles returns the per-particle dipole vectors and the signed
// magnitude of every frame, index aligned with frames.
func (calc Calculator) TrajectoryDipoles(frames []Configuration) (dipoles [][]r2.Vec, mags []float64, err error) {
	dipoles = make([][]r2.Vec, 0, len(frames))
	mags = make([]float64, 0, len(frames))
	for i, c := range frames {
		moments := DipoleMoment(c)
		mag, err := calc.magnitude(Total(moments))
		if err != nil {
			return dipoles, mags, fmt.Errorf("frame %v: %w", i, err)
		}
		dipoles = append(dipoles, moments)
		mags = append(mags, mag)
	}
	return dipoles, mags, nil
}

// Trajectory annotates frames with their dipoles.
func (calc Calculator) Trajectory(frames []Configuration) (*Trajectory, error) {
	dipoles, mags, err := calc.TrajectoryDipoles(frames)
	if err != nil {
		return nil, err
	}

	ts := Schedule(len(frames))
	tr := &Trajectory{Reference: calc.Reference, Frames: make([]Frame, len(frames))}
	for i := range frames {
		tr.Frames[i] = Frame{
			Index:     i,
			T:         ts[i],
			Config:    frames[i],
			Dipoles:   dipoles[i],
			Total:     Total(dipoles[i]),
			Magnitude: mags[i],
		}
	}
	return tr, nil
}

// TrajectoryDipoles evaluates frames along ref with the same policy as
// System: a frame whose total dipole vanishes gets magnitude 0.  Use a
// Calculator to fail on such frames instead.
func TrajectoryDipoles(frames []Configuration, ref r2.Vec) ([][]r2.Vec, []float64, error) {
	return Calculator{Reference: ref, ZeroOnDegenerate: true}.TrajectoryDipoles(frames)
}
