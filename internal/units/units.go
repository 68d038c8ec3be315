// Package units holds the physical constants and unit conversion tables
// shared by the simulation core.
//
// A [Constants] table is built once at process start with [Default], optionally
// adjusted with [Constants.WithOverrides], and then passed by pointer to every
// component that needs it. The table is never mutated after construction.
package units

// Time units in seconds.
const (
	Second = 1.0
	Minute = 60.0
	Hour   = 3600.0
	Day    = 86_400.0
	Week   = 604_800.0
	Month  = 2_419_200.0
	Year   = 31_556_926.0
)

// Constants is the immutable table of physical constants.
type Constants struct {
	G                float64 // m^3 kg^-1 s^-2
	C                float64 // m/s
	AU               float64 // m
	LightYear        float64 // m
	SolarMass        float64 // kg
	EarthMass        float64 // kg
	SolarLuminosity  float64 // W
	StefanBoltzmann  float64 // W m^-2 K^-4
	WienDisplacement float64 // m K
	EarthGravity     float64 // m/s^2
}

// Default returns the standard SI constants table.
func Default() *Constants {
	return &Constants{
		G:                6.6743e-11,
		C:                299_792_458.0,
		AU:               149_597_870_700.0,
		LightYear:        9.4605284e15,
		SolarMass:        2e30,
		EarthMass:        5.97219e24,
		SolarLuminosity:  3.828e26,
		StefanBoltzmann:  5.670367e-8,
		WienDisplacement: 2.9e-3,
		EarthGravity:     9.81,
	}
}

// Overrides replaces selected constants; zero fields are left alone.
type Overrides struct {
	G float64
	C float64
}

// WithOverrides returns a copy of c with the non-zero overrides applied.
func (c *Constants) WithOverrides(o Overrides) *Constants {
	out := *c
	if o.G > 0 {
		out.G = o.G
	}
	if o.C > 0 {
		out.C = o.C
	}
	return &out
}

// Length returns the factor converting unit to meters.
func (c *Constants) Length(unit string) (float64, bool) {
	switch unit {
	case "mm":
		return 1e-3, true
	case "cm":
		return 1e-2, true
	case "dm":
		return 1e-1, true
	case "m":
		return 1, true
	case "km":
		return 1e3, true
	case "au":
		return c.AU, true
	case "ly":
		return c.LightYear, true
	}
	return 0, false
}

// Mass returns the factor converting unit to kilograms.
func (c *Constants) Mass(unit string) (float64, bool) {
	switch unit {
	case "g":
		return 1e-3, true
	case "kg":
		return 1, true
	case "t":
		return 1e3, true
	case "sm":
		return c.SolarMass, true
	}
	return 0, false
}

// Velocity returns the factor converting unit to meters per second.
func (c *Constants) Velocity(unit string) (float64, bool) {
	switch unit {
	case "m/s":
		return 1, true
	case "km/s":
		return 1e3, true
	case "km/h":
		return 1 / 3.6, true
	case "c":
		return c.C, true
	}
	return 0, false
}

// TimeStep returns the factor converting a scenario dt unit to seconds.
// Months are 28 days of hours and years 365 hours, matching the scenario
// format rather than the calendar constants above.
func TimeStep(unit string) (float64, bool) {
	switch unit {
	case "ms":
		return 1e-3, true
	case "s":
		return 1, true
	case "min":
		return 60, true
	case "h", "hour", "hours":
		return 3600, true
	case "mon", "month", "months":
		return 3600 * 28, true
	case "y", "year", "years":
		return 3600 * 365, true
	}
	return 0, false
}

// SchwarzschildRadius returns 2GM/c^2.
func (c *Constants) SchwarzschildRadius(mass float64) float64 {
	return 2 * c.G * mass / (c.C * c.C)
}

// SchwarzschildMass returns r c^2 / 2G.
func (c *Constants) SchwarzschildMass(radius float64) float64 {
	return radius * c.C * c.C / (2 * c.G)
}
