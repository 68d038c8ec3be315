package celestial

import (
	"math"

	"github.com/san-kum/orbitsim/internal/units"
)

// Radiation describes a star's black-body emission.
type Radiation struct {
	Luminosity  float64 // W
	Temperature float64 // K
	Wavelength  float64 // peak, m
	Frequency   float64 // peak, Hz
	Class       SpectralClass
}

// SpectralClass is the Harvard classification letter.
type SpectralClass string

const (
	ClassO SpectralClass = "O"
	ClassB SpectralClass = "B"
	ClassA SpectralClass = "A"
	ClassF SpectralClass = "F"
	ClassG SpectralClass = "G"
	ClassK SpectralClass = "K"
	ClassM SpectralClass = "M"
)

// Luminosity follows the main-sequence mass-luminosity relation L ∝ M^3.5.
func Luminosity(mass float64, c *units.Constants) float64 {
	return c.SolarLuminosity * math.Pow(mass/c.SolarMass, 3.5)
}

// SurfaceTemperature solves the Stefan-Boltzmann law for T.
func SurfaceTemperature(luminosity, radius float64, c *units.Constants) float64 {
	return math.Pow(luminosity/(4*math.Pi*c.StefanBoltzmann*radius*radius), 0.25)
}

// Classify maps a surface temperature to its spectral class.
func Classify(temperature float64) SpectralClass {
	switch {
	case temperature < 3700:
		return ClassM
	case temperature < 5200:
		return ClassK
	case temperature < 6000:
		return ClassG
	case temperature < 7500:
		return ClassF
	case temperature < 10000:
		return ClassA
	case temperature < 30000:
		return ClassB
	}
	return ClassO
}

// TemperatureColor returns the RGBA colour of a star at the given surface
// temperature.
func TemperatureColor(temperature float64) [4]float64 {
	switch {
	case math.IsNaN(temperature):
		return [4]float64{1, 0, 0, 1}
	case temperature < 3500:
		return [4]float64{0.471, 0.035, 0.02, 1}
	case temperature < 6000:
		return [4]float64{1, 0.804, 0, 1}
	case temperature < 10000:
		return [4]float64{1, 1, 1, 1}
	case temperature < 25000:
		return [4]float64{0, 1, 1, 1}
	}
	return [4]float64{0.35, 0.2, 0.35, 1}
}

// Radiation computes the emission of c as if it were a star. The result is
// meaningful for any kind but only used for stars.
func (c *Celestial) Radiation(consts *units.Constants) Radiation {
	l := Luminosity(c.Mass.Float(), consts)
	t := SurfaceTemperature(l, c.Radius.Float(), consts)
	r := Radiation{Luminosity: l, Temperature: t, Class: Classify(t)}
	if t > 0 {
		r.Wavelength = consts.WienDisplacement / t
		r.Frequency = consts.C / r.Wavelength
	}
	return r
}
