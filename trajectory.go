package dipole

import (
	"github.com/petar/GoLLRB/llrb"
	"gonum.org/v1/gonum/spatial/r2"
)

// Frame is one configuration along a migration path together with its
// dipoles.
type Frame struct {
	Index     int
	T         float64
	Config    Configuration
	Dipoles   []r2.Vec
	Total     r2.Vec
	Magnitude float64
}

// Trajectory is the ordered sequence of frames of a vacancy migration.  It
// is not modified after construction.
type Trajectory struct {
	Frames    []Frame
	Pair      VacancyPair
	Steepness float64
	Reference r2.Vec
}

func (tr *Trajectory) Len() int { return len(tr.Frames) }

func (tr *Trajectory) Magnitudes() []float64 {
	mags := make([]float64, len(tr.Frames))
	for i, f := range tr.Frames {
		mags[i] = f.Magnitude
	}
	return mags
}

func (tr *Trajectory) Dipoles() [][]r2.Vec {
	dips := make([][]r2.Vec, len(tr.Frames))
	for i, f := range tr.Frames {
		dips[i] = f.Dipoles
	}
	return dips
}

type ranked struct {
	Frame
}

// Less orders by magnitude and breaks ties by frame index so that equal
// magnitudes are not collapsed by the tree.
func (f1 ranked) Less(than llrb.Item) bool {
	f2 := than.(ranked)
	if f1.Magnitude != f2.Magnitude {
		return f1.Magnitude < f2.Magnitude
	}
	return f1.Index < f2.Index
}

// Extremes returns up to k frames with the lowest signed magnitude in
// ascending order and up to k frames with the highest in descending order.
func (tr *Trajectory) Extremes(k int) (lowest, highest []Frame) {
	if k <= 0 || len(tr.Frames) == 0 {
		return nil, nil
	}

	tree := llrb.New()
	for _, f := range tr.Frames {
		tree.ReplaceOrInsert(ranked{f})
	}

	tree.AscendGreaterOrEqual(tree.Min(), func(it llrb.Item) bool {
		lowest = append(lowest, it.(ranked).Frame)
		return len(lowest) < k
	})
	tree.DescendLessOrEqual(tree.Max(), func(it llrb.Item) bool {
		highest = append(highest, it.(ranked).Frame)
		return len(highest) < k
	})
	return lowest, highest
}
