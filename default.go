package dipole

import "gonum.org/v1/gonum/spatial/r2"

const (
	DefaultMgO       = 2.1
	DefaultOCharge   = -1.2
	DefaultMgCharge  = 1.2
	DefaultFrames    = 11
	DefaultSteepness = 5.0
)

// Vacancy charges for the supported charge states.
const (
	NeutralCharge = -1.2
	SingleCharge  = -0.2
	DoubleCharge  = 0.8
)

type params struct {
	MgO          float64
	OCharge      float64
	MgCharge     float64
	V0           float64
	V1           float64
	VacancySet   bool
	DestWeight   float64
	OriginWeight float64
	Frames       int
	Steepness    float64
	Reference    r2.Vec
	ZeroFallback bool
}

func defaultParams() params {
	return params{
		MgO:          DefaultMgO,
		OCharge:      DefaultOCharge,
		MgCharge:     DefaultMgCharge,
		V0:           NeutralCharge,
		V1:           NeutralCharge,
		DestWeight:   0,
		OriginWeight: 1,
		Frames:       DefaultFrames,
		Steepness:    DefaultSteepness,
		Reference:    r2.Vec{X: 1},
		ZeroFallback: true,
	}
}

type Option func(*params)

// VacancyCharges sets the charges of the destination (v0) and origin (v1)
// vacancy sites.
func VacancyCharges(v0, v1 float64) Option {
	return func(p *params) {
		p.V0, p.V1 = v0, v1
		p.VacancySet = true
	}
}

// SiteWeights sets the starting occupation of the destination and origin
// vacancy sites.  They must sum to 1.
func SiteWeights(dest, origin float64) Option {
	return func(p *params) {
		p.DestWeight, p.OriginWeight = dest, origin
	}
}

func Charges(o, mg float64) Option {
	return func(p *params) {
		p.OCharge, p.MgCharge = o, mg
	}
}

// Spacing sets the Mg-O distance.
func Spacing(mgo float64) Option {
	return func(p *params) {
		p.MgO = mgo
	}
}

func Frames(n int) Option {
	return func(p *params) {
		p.Frames = n
	}
}

func Steepness(k float64) Option {
	return func(p *params) {
		p.Steepness = k
	}
}

// Reference sets the direction that defines a positive dipole magnitude.
func Reference(dir r2.Vec) Option {
	return func(p *params) {
		p.Reference = dir
	}
}

// FailOnDegenerate makes Run fail with DegenerateDipoleErr when the total
// dipole of a frame vanishes.  By default such frames get magnitude 0; the
// symmetric default hop passes through D = 0 at its midpoint.
func FailOnDegenerate(p *params) {
	p.ZeroFallback = false
}
