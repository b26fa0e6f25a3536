// Package lattice places points on a regular mesh of sites.
package lattice

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Lattice maps integer site indices to positions and back.
type Lattice interface {
	// Site returns the position of the site with the given indices.
	Site(idx ...int) []float64
	// Nearest returns the position of the site closest to p.
	Nearest(p []float64) []float64
}

// Infinite is a grid of sites extending in all dimensions without bounds.
// The length of Origin defines the dimensionality of the lattice. If Origin
// == nil, the dimensionality is set by the first call to Site or Nearest.
// If Basis == nil, a unit basis (the identity matrix) is used.  If Step ==
// 0, the lattice represents continuous space and Nearest just returns a
// copy of the point passed to it.
type Infinite struct {
	Origin []float64
	// Basis contains a set of column vectors defining the direction of each
	// lattice axis.
	Basis *mat.Dense
	// Step is the spacing between neighbouring sites along every axis.
	Step     float64
	inverter *mat.Dense
}

func (l *Infinite) init(ndim int) {
	if n := len(l.Origin); n != 0 && n != ndim {
		panic(fmt.Sprintf("origin len %v incompatible with point len %v", n, ndim))
	}
	if len(l.Origin) == 0 {
		l.Origin = make([]float64, ndim)
	}
	if l.Basis != nil && l.inverter == nil {
		inv := &mat.Dense{}
		if err := inv.Inverse(l.Basis); err != nil {
			panic("lattice basis is singular: " + err.Error())
		}
		l.inverter = inv
	}
}

// Site returns Origin + Step*Basis*idx.
func (l *Infinite) Site(idx ...int) []float64 {
	l.init(len(idx))

	v := mat.NewVecDense(len(idx), nil)
	for i, n := range idx {
		v.SetVec(i, float64(n)*l.Step)
	}
	if l.Basis != nil {
		rot := mat.NewVecDense(len(idx), nil)
		rot.MulVec(l.Basis, v)
		v = rot
	}

	pos := make([]float64, len(idx))
	for i := range pos {
		pos[i] = l.Origin[i] + v.AtVec(i)
	}
	return pos
}

// Nearest returns the nearest site to p by rounding each coordinate to the
// nearest multiple of Step.  If the basis is not the identity matrix, p is
// transformed to the lattice basis before rounding and then transformed
// back.
func (l *Infinite) Nearest(p []float64) []float64 {
	if l.Step == 0 {
		return append([]float64{}, p...)
	}
	l.init(len(p))

	// translate p based on origin and transform to lattice coordinates
	v := mat.NewVecDense(len(p), nil)
	for i := range p {
		v.SetVec(i, p[i]-l.Origin[i])
	}
	if l.inverter != nil {
		rot := mat.NewVecDense(len(p), nil)
		rot.MulVec(l.inverter, v)
		v = rot
	}

	idx := make([]int, len(p))
	for i := range idx {
		idx[i] = int(math.Round(v.AtVec(i) / l.Step))
	}
	return l.Site(idx...)
}

// OnSite reports whether p lies within tol of a lattice site.
func OnSite(l Lattice, p []float64, tol float64) bool {
	near := l.Nearest(p)
	for i := range p {
		if math.Abs(near[i]-p[i]) > tol {
			return false
		}
	}
	return true
}
