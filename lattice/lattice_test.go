package lattice

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

type neartest struct {
	l    *Infinite
	p    []float64
	want []float64
}

func TestNearest(t *testing.T) {
	eps := 1e-10
	half := math.Sqrt(2*2.1*2.1) / 2
	tests := []neartest{
		{
			l:    &Infinite{Step: 1},
			p:    []float64{0.4, 1.6},
			want: []float64{0, 2},
		},
		{
			l:    &Infinite{Step: 0},
			p:    []float64{0.4, 1.6},
			want: []float64{0.4, 1.6},
		},
		{
			l:    &Infinite{Step: half},
			p:    []float64{2 * half * 1.01, half * 0.98},
			want: []float64{2 * half, half},
		},
		{
			l:    &Infinite{Origin: []float64{0.5, 0.5}, Step: 1},
			p:    []float64{1.4, -0.4},
			want: []float64{1.5, -0.5},
		},
		{
			// 45 degree rotated axes
			l: &Infinite{
				Basis: mat.NewDense(2, 2, []float64{1, -1, 1, 1}),
				Step:  1,
			},
			p:    []float64{0.1, 1.9},
			want: []float64{0, 2},
		},
	}

	for n, test := range tests {
		got := test.l.Nearest(test.p)
		for i := range got {
			if diff := math.Abs(got[i] - test.want[i]); diff > eps {
				t.Errorf("test %v nearest[%v]: want %v, got %v", n, i, test.want[i], got[i])
			}
		}
	}
}

func TestSite(t *testing.T) {
	l := &Infinite{Step: 0.5}
	got := l.Site(2, 1)
	if got[0] != 1 || got[1] != 0.5 {
		t.Errorf("site (2,1): want [1 0.5], got %v", got)
	}

	if !OnSite(l, got, 1e-12) {
		t.Errorf("site %v not reported on lattice", got)
	}
	if OnSite(l, []float64{0.25, 0}, 1e-12) {
		t.Errorf("point between sites reported on lattice")
	}
}

func TestNearestDoesNotAlias(t *testing.T) {
	l := &Infinite{}
	p := []float64{1, 2}
	got := l.Nearest(p)
	got[0] = 42
	if p[0] != 1 {
		t.Errorf("continuous lattice returned its input slice")
	}
}
