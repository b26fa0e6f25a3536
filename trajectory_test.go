package dipole

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestRun(t *testing.T) {
	s, err := Initialize()
	if err != nil {
		t.Fatal(err)
	}
	if s.Trajectory() != nil {
		t.Fatalf("trajectory set before Run")
	}

	tr, err := s.Run()
	if err != nil {
		t.Fatal(err)
	}
	if tr.Len() != DefaultFrames {
		t.Fatalf("want %v frames, got %v", DefaultFrames, tr.Len())
	}
	if s.End[0].Pos.X != 0 {
		t.Errorf("O ion did not hop to x=0: %v", s.End[0].Pos)
	}

	for i, f := range tr.Frames {
		want, err := Aggregate(f.Config, r2.Vec{X: 1})
		if errors.Is(err, DegenerateDipoleErr) {
			want = 0
		} else if err != nil {
			t.Fatal(err)
		}
		if f.Magnitude != want {
			t.Errorf("frame %v: want magnitude %v, got %v", i, want, f.Magnitude)
		}
		if f.Index != i || len(f.Dipoles) != len(s.Start) {
			t.Errorf("frame %v badly annotated: %+v", i, f)
		}
	}
	if tr.Frames[5].T != 0.5 {
		t.Errorf("middle frame t: want 0.5, got %v", tr.Frames[5].T)
	}
	if len(tr.Magnitudes()) != tr.Len() || len(tr.Dipoles()) != tr.Len() {
		t.Errorf("accessors not aligned with frames")
	}
}

func TestRunMidpointDipole(t *testing.T) {
	s, err := Initialize()
	if err != nil {
		t.Fatal(err)
	}
	tr, err := s.Run()
	if err != nil {
		t.Fatal(err)
	}

	// the hop is symmetric about its midpoint where the charge separation
	// cancels
	mid := tr.Frames[tr.Len()/2]
	if math.Abs(mid.Magnitude) > 1e-9 || r2.Norm(mid.Total) > 1e-9 {
		t.Errorf("midpoint dipole should vanish, got %v (%v)", mid.Total, mid.Magnitude)
	}

	first, last := tr.Frames[0].Magnitude, tr.Frames[tr.Len()-1].Magnitude
	if math.Abs(first+last) > 1e-9 {
		t.Errorf("endpoint magnitudes should be opposite: %v vs %v", first, last)
	}
}

func TestExtremes(t *testing.T) {
	mags := []float64{0.5, -2, 3, 3, -1}
	tr := &Trajectory{}
	for i, m := range mags {
		tr.Frames = append(tr.Frames, Frame{Index: i, Magnitude: m})
	}

	lo, hi := tr.Extremes(2)
	if len(lo) != 2 || lo[0].Index != 1 || lo[1].Index != 4 {
		t.Errorf("lowest: want frames [1 4], got %+v", lo)
	}
	if len(hi) != 2 || hi[0].Index != 3 || hi[1].Index != 2 {
		t.Errorf("highest: want frames [3 2], got %+v", hi)
	}

	lo, hi = tr.Extremes(10)
	if len(lo) != len(mags) || len(hi) != len(mags) {
		t.Errorf("want all %v frames, got %v/%v", len(mags), len(lo), len(hi))
	}

	if lo, hi := tr.Extremes(0); lo != nil || hi != nil {
		t.Errorf("k=0 should return nothing")
	}
}
