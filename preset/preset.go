// Package preset provides the vacancy charge states the dipole model is
// usually run with.
package preset

import (
	"fmt"
	"strings"

	dipole "github.com/funkymunkycool/classical-dipoles"
)

var All = []Preset{
	Neutral{},
	SinglyCharged{},
	DoublyCharged{},
	Asymmetric{Origin: dipole.NeutralCharge, Dest: dipole.DoubleCharge},
}

type Preset interface {
	Name() string
	// Options configures dipole.Initialize for this preset.
	Options() []dipole.Option
}

// Neutral is the uncharged vacancy, V0.
type Neutral struct{}

func (ps Neutral) Name() string { return "neutral" }

func (ps Neutral) Options() []dipole.Option {
	return []dipole.Option{dipole.VacancyCharges(dipole.NeutralCharge, dipole.NeutralCharge)}
}

// SinglyCharged is the V+ vacancy.
type SinglyCharged struct{}

func (ps SinglyCharged) Name() string { return "v+" }

func (ps SinglyCharged) Options() []dipole.Option {
	return []dipole.Option{dipole.VacancyCharges(dipole.SingleCharge, dipole.SingleCharge)}
}

// DoublyCharged is the V2+ vacancy.
type DoublyCharged struct{}

func (ps DoublyCharged) Name() string { return "v2+" }

func (ps DoublyCharged) Options() []dipole.Option {
	return []dipole.Option{dipole.VacancyCharges(dipole.DoubleCharge, dipole.DoubleCharge)}
}

// Asymmetric gives the two vacancy sites different charges, e.g. a vacancy
// that changes its charge state during the hop.
type Asymmetric struct {
	Origin float64
	Dest   float64
}

func (ps Asymmetric) Name() string {
	return fmt.Sprintf("asymmetric(%v,%v)", ps.Origin, ps.Dest)
}

func (ps Asymmetric) Options() []dipole.Option {
	return []dipole.Option{dipole.VacancyCharges(ps.Dest, ps.Origin)}
}

// Lookup returns the preset in All with the given case-insensitive name.
func Lookup(name string) (Preset, error) {
	for _, ps := range All {
		if strings.EqualFold(ps.Name(), name) {
			return ps, nil
		}
	}
	return nil, fmt.Errorf("%w: unknown preset %q", dipole.ConfigurationErr, name)
}
