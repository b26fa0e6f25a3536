package dipole

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
)

// Sigmoid is the error function rescaled onto (0, 1).
func Sigmoid(x float64) float64 { return math.Erf(x)/2 + 0.5 }

// HandoffWeights returns the occupations of the origin and destination
// vacancy sites at migration progress t.  The endpoints keep a residual
// occupation of Sigmoid(-k/2).  Both weights are evaluated independently and
// are not renormalized, so their sum is 1 only up to rounding.
func HandoffWeights(t, k float64) (origin, dest float64) {
	origin = Sigmoid(k * ((1 - t) - 0.5))
	dest = Sigmoid(k * (t - 0.5))
	return origin, dest
}

// Schedule returns n evenly spaced migration progress values from 0 to 1
// inclusive.  It returns nil for n < 1 and [0] for n == 1.
func Schedule(n int) []float64 {
	if n < 1 {
		return nil
	} else if n == 1 {
		return []float64{0}
	}
	ts := floats.Span(make([]float64, n), 0, 1)
	// Span accumulates step*i, which can land one ulp short of 1
	ts[n-1] = 1
	return ts
}

// Interpolate produces n frames between start and end.  Positions move
// linearly while the vacancy occupation is handed from pair.Origin to
// pair.Dest following a sigmoid with steepness k.  Every frame is an
// independent copy.
func Interpolate(start, end Configuration, pair VacancyPair, n int, k float64) ([]Configuration, error) {
	if len(start) != len(end) {
		return nil, fmt.Errorf("%w: start has %v particles, end has %v", DimensionMismatchErr, len(start), len(end))
	}
	for i := range start {
		if start[i].Species != end[i].Species {
			return nil, fmt.Errorf("%w: particle %v is %v in start but %v in end", DimensionMismatchErr, i, start[i].Species, end[i].Species)
		}
	}
	if err := pair.check(len(start)); err != nil {
		return nil, err
	} else if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 frames, got %v", ConfigurationErr, n)
	} else if !(k > 0) {
		return nil, fmt.Errorf("%w: steepness must be positive, got %v", ConfigurationErr, k)
	}

	frames := make([]Configuration, n)
	for i, t := range Schedule(n) {
		frame := start.Clone()
		for j := range frame {
			frame[j].Pos = lerp(start[j].Pos, end[j].Pos, t)
			frame[j].Weight = 1
		}
		frame[pair.Origin].Weight, frame[pair.Dest].Weight = HandoffWeights(t, k)
		frames[i] = frame
	}
	return frames, nil
}

// lerp is written as a weighted sum so that t == 0 and t == 1 reproduce a
// and b bit for bit.
func lerp(a, b r2.Vec, t float64) r2.Vec {
	return r2.Add(r2.Scale(1-t, a), r2.Scale(t, b))
}
