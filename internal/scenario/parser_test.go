package scenario

import (
	"math"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/san-kum/orbitsim/internal/celestial"
	"github.com/san-kum/orbitsim/internal/quantity"
	"github.com/san-kum/orbitsim/internal/sim"
	"github.com/san-kum/orbitsim/internal/units"
)

const earthBlock = `
Earth:
  type: terrestrial
  mass: 5.97219e24kg
  radius: 6371km
  velocity: (0,0,0)
  coordinates: (0,0,0)
`

func mustParse(text string) *sim.Simulation {
	GinkgoHelper()
	s, err := ParseString(text)
	Expect(err).NotTo(HaveOccurred())
	return s
}

func only(s *sim.Simulation) *celestial.Celestial {
	GinkgoHelper()
	Expect(s.Bodies).To(HaveLen(1))
	return s.Bodies[0]
}

var _ = Describe("Parse", func() {
	Describe("global settings", func() {
		It("defaults name and time step", func() {
			s := mustParse("")
			Expect(s.Name).To(Equal("Astronomical Simulation"))
			Expect(s.Dt.Float()).To(Equal(3600.0))
			Expect(s.Bodies).To(BeEmpty())
			Expect(s.Elapsed.Float()).To(BeZero())
		})

		It("reads dt: 1 h as 3600 seconds", func() {
			Expect(mustParse("dt: 1 h\n").Dt.Float()).To(Equal(3600.0))
		})

		DescribeTable("converts time step units",
			func(line string, want float64) {
				Expect(mustParse(line).Dt.Float()).To(BeNumerically("~", want, 1e-12))
			},
			Entry("milliseconds", "dt: 250 ms", 0.25),
			Entry("seconds", "dt: 30 s", 30.0),
			Entry("minutes", "dt: 5 min", 300.0),
			Entry("hours", "dt: 2 hours", 7200.0),
			Entry("months", "dt: 1 mon", 3600.0*28),
			Entry("month", "dt: 2 month", 2*3600.0*28),
			Entry("years", "dt: 1 years", 3600.0*365),
			Entry("trailing space", "dt: 10 s   ", 10.0),
		)

		DescribeTable("ignores malformed time steps",
			func(line string) {
				Expect(mustParse(line).Dt.Float()).To(Equal(units.Hour))
			},
			Entry("days are not a unit", "dt: 1 d"),
			Entry("fraction", "dt: 1.5 h"),
			Entry("negative", "dt: -1 h"),
			Entry("missing unit", "dt: 10"),
			Entry("indented", "  dt: 1 s"),
		)

		It("keeps the last dt and name", func() {
			s := mustParse("dt: 1 s\nname: First\ndt: 2 min\nname:   Second Try  \n")
			Expect(s.Dt.Float()).To(Equal(120.0))
			Expect(s.Name).To(Equal("Second Try"))
		})
	})

	Describe("body blocks", func() {
		It("reads the Earth block", func() {
			earth := only(mustParse(earthBlock))
			Expect(earth.Name).To(Equal("Earth"))
			Expect(earth.Kind).To(Equal(celestial.RockPlanet))
			Expect(earth.Mass.Float()).To(Equal(5.97219e24))
			Expect(earth.Radius.Float()).To(Equal(6_371_000.0))
			Expect(earth.Velocity).To(Equal(quantity.Zero))
			Expect(earth.Coordinates).To(Equal(quantity.Origin))
			Expect(earth.Density.Float()).To(BeNumerically("~", 5.97219e24/6_371_000, 1e6))
		})

		It("gives an empty block the defaults", func() {
			b := only(mustParse("Rock:\n"))
			Expect(b.Kind).To(Equal(celestial.RockPlanet))
			Expect(b.Mass.Float()).To(Equal(1.0))
			Expect(b.Radius.Float()).To(Equal(1.0))
			Expect(b.Density.Float()).To(Equal(1.0))
			Expect(b.Velocity).To(Equal(quantity.Zero))
			Expect(b.Coordinates).To(Equal(quantity.Origin))
		})

		It("keeps declaration order", func() {
			s := mustParse("Sun:\n  type: star\nMercury:\nVenus:\n  mass: 4.867e24kg\nEarth:\n")
			names := make([]string, len(s.Bodies))
			for i, b := range s.Bodies {
				names[i] = b.Name
			}
			Expect(names).To(Equal([]string{"Sun", "Mercury", "Venus", "Earth"}))
		})

		It("applies properties to the most recent block", func() {
			s := mustParse("A:\n  mass: 2kg\nB:\n  mass: 3kg\n")
			Expect(s.Bodies[0].Mass.Float()).To(Equal(2.0))
			Expect(s.Bodies[1].Mass.Float()).To(Equal(3.0))
		})

		It("ignores properties before any block", func() {
			s := mustParse("  mass: 5kg\nA:\n")
			Expect(only(s).Mass.Float()).To(Equal(1.0))
		})

		It("ignores comments and unknown lines", func() {
			s := mustParse("# solar system\nA: not a header\n  colour: blue\n\nA:\n")
			Expect(only(s).Name).To(Equal("A"))
		})
	})

	DescribeTable("type names",
		func(value string, want celestial.Kind) {
			Expect(only(mustParse("X:\n  type: " + value + "\n  mass: 1kg\n")).Kind).To(Equal(want))
		},
		Entry("black hole", "Black Hole", celestial.BlackHole),
		Entry("gas planet", "gasplanet", celestial.GasPlanet),
		Entry("gas giant", "Gas Giant", celestial.GasPlanet),
		Entry("star", "STAR", celestial.Star),
		Entry("satellite", "satellite", celestial.Satellite),
		Entry("terrestrial", "terrestrial", celestial.RockPlanet),
		Entry("unknown falls back", "asteroid", celestial.RockPlanet),
	)

	Describe("radius", func() {
		DescribeTable("converts length units",
			func(value string, want float64) {
				Expect(only(mustParse("X:\n  radius: " + value + "\n")).Radius.Float()).To(BeNumerically("~", want, want*1e-12))
			},
			Entry("mm", "1500mm", 1.5),
			Entry("cm", "250cm", 2.5),
			Entry("dm", "30dm", 3.0),
			Entry("m", "42m", 42.0),
			Entry("km", "6371km", 6.371e6),
			Entry("au", "1au", units.Default().AU),
			Entry("ly upper case", "2LY", 2*units.Default().LightYear),
			Entry("decimal with space", "1.5 km", 1500.0),
		)

		DescribeTable("keeps the prior value when malformed",
			func(value string) {
				Expect(only(mustParse("X:\n  radius: " + value + "\n")).Radius.Float()).To(Equal(1.0))
			},
			Entry("letters", "abckm"),
			Entry("no unit", "6371"),
			Entry("unknown unit", "10parsec"),
		)

		It("keeps an earlier valid value", func() {
			Expect(only(mustParse("X:\n  radius: 5km\n  radius: abckm\n")).Radius.Float()).To(Equal(5000.0))
		})
	})

	Describe("mass", func() {
		DescribeTable("converts mass units and exponents",
			func(value string, want float64) {
				Expect(only(mustParse("X:\n  mass: " + value + "\n")).Mass.Float()).To(BeNumerically("~", want, want*1e-12))
			},
			Entry("grams", "500g", 0.5),
			Entry("kilograms", "12kg", 12.0),
			Entry("tonnes", "3t", 3000.0),
			Entry("solar masses", "1.5sm", 3e30),
			Entry("scientific", "7.342e22kg", 7.342e22),
			Entry("a*b^c", "5.97*10^24kg", 5.97e24),
			Entry("a^b", "10^3kg", 1000.0),
			Entry("a*b", "2*4kg", 8.0),
			Entry("upper case unit", "2KG", 2.0),
		)

		It("keeps the default for a malformed mass", func() {
			Expect(only(mustParse("X:\n  mass: heavy\n")).Mass.Float()).To(Equal(1.0))
			Expect(only(mustParse("X:\n  mass: 10lb\n")).Mass.Float()).To(Equal(1.0))
		})
	})

	Describe("velocity and coordinates", func() {
		It("reads bare numbers as base units", func() {
			b := only(mustParse("X:\n  velocity: (1, -2, 3.5)\n  coordinates: (-10,0,7)\n"))
			Expect(b.Velocity).To(Equal(quantity.NewVector(1, -2, 3.5)))
			Expect(b.Coordinates).To(Equal(quantity.NewPoint(-10, 0, 7)))
		})

		It("converts component units", func() {
			c := units.Default()
			b := only(mustParse("X:\n  velocity: (29.78km/s,36km/h,0.5c)\n  coordinates: (1au,-2km,0.1ly)\n"))
			Expect(b.Velocity.X.Float()).To(BeNumerically("~", 29780, 1e-6))
			Expect(b.Velocity.Y.Float()).To(BeNumerically("~", 10, 1e-9))
			Expect(b.Velocity.Z.Float()).To(BeNumerically("~", 0.5*c.C, 1e-3))
			Expect(b.Coordinates.X.Float()).To(Equal(c.AU))
			Expect(b.Coordinates.Y.Float()).To(Equal(-2000.0))
			Expect(b.Coordinates.Z.Float()).To(BeNumerically("~", 0.1*c.LightYear, 1))
		})

		DescribeTable("keeps the prior value when malformed",
			func(value string) {
				b := only(mustParse("X:\n  velocity: (1,2,3)\n  velocity: " + value + "\n"))
				Expect(b.Velocity).To(Equal(quantity.NewVector(1, 2, 3)))
			},
			Entry("two components", "(1,2)"),
			Entry("no parentheses", "1,2,3"),
			Entry("unknown unit", "(1mph,0,0)"),
			Entry("not a number", "(a,b,c)"),
		)
	})

	Describe("derived values", func() {
		It("derives radius from mass and density", func() {
			b := only(mustParse("X:\n  mass: 100kg\n  density: 4 kg/m\n"))
			Expect(b.Radius.Float()).To(BeNumerically("~", 25, 1e-12))
		})

		It("derives mass from radius and density", func() {
			b := only(mustParse("X:\n  radius: 10m\n  density: 3\n"))
			Expect(b.Mass.Float()).To(BeNumerically("~", 30, 1e-12))
		})

		It("builds a black hole from its mass", func() {
			c := units.Default()
			b := only(mustParse("Sgr:\n  type: blackhole\n  mass: 4.1e6sm\n  radius: 5km\n"))
			Expect(b.Kind).To(Equal(celestial.BlackHole))
			Expect(b.Radius.Float()).To(BeNumerically("~", c.SchwarzschildRadius(4.1e6*c.SolarMass), 1e-3))
			Expect(math.IsInf(b.Density.Float(), 1)).To(BeTrue())
		})

		It("builds a black hole from its radius", func() {
			c := units.Default()
			b := only(mustParse("Hole:\n  type: black hole\n  radius: 3km\n"))
			Expect(b.Mass.Float()).To(BeNumerically("~", c.SchwarzschildMass(3000), 1e15))
		})

		It("builds a default black hole from the default mass", func() {
			b := only(mustParse("Hole:\n  type: blackhole\n"))
			Expect(b.Mass.Float()).To(Equal(1.0))
			Expect(b.Radius.Float()).To(BeNumerically("~", units.Default().SchwarzschildRadius(1), 1e-40))
		})
	})

	Describe("options", func() {
		It("uses the supplied constants", func() {
			c := units.Default().WithOverrides(units.Overrides{G: 1})
			s, err := ParseString("A:\n", WithConstants(c))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Constants().G).To(Equal(1.0))
		})

		It("logs malformed properties at debug level", func() {
			core, logs := observer.New(zap.DebugLevel)
			_, err := ParseString("X:\n  radius: abckm\n  colour: red\nnonsense\n", WithLogger(zap.New(core)))
			Expect(err).NotTo(HaveOccurred())
			Expect(logs.FilterMessage("malformed property").Len()).To(Equal(1))
			Expect(logs.FilterMessage("unknown property").Len()).To(Equal(1))
			Expect(logs.FilterMessage("ignored line").Len()).To(Equal(1))
		})
	})

	Describe("ParseFile", func() {
		It("reads a file from disk", func() {
			path := filepath.Join(GinkgoT().TempDir(), "earth.txt")
			Expect(os.WriteFile(path, []byte("name: Home\n"+earthBlock), 0o644)).To(Succeed())

			s, err := ParseFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Name).To(Equal("Home"))
			Expect(only(s).Name).To(Equal("Earth"))
		})

		It("fails for a missing file", func() {
			_, err := ParseFile(filepath.Join(GinkgoT().TempDir(), "missing.txt"))
			Expect(err).To(MatchError(os.ErrNotExist))
		})
	})

	It("parses CRLF input", func() {
		s := mustParse(strings.ReplaceAll("dt: 1 s\n"+earthBlock, "\n", "\r\n"))
		Expect(s.Dt.Float()).To(Equal(1.0))
		Expect(only(s).Radius.Float()).To(Equal(6_371_000.0))
	})

	It("produces a simulation that ticks", func() {
		s := mustParse("dt: 1 min\nSun:\n  type: star\n  mass: 1sm\n  radius: 696340km\nEarth:\n  mass: 5.97219e24kg\n  radius: 6371km\n  coordinates: (1au,0,0)\n  velocity: (0,29.78km/s,0)\n")
		Expect(s.Tick()).To(Succeed())
		Expect(s.Elapsed.Float()).To(Equal(60.0))
		Expect(s.Bodies[1].Coordinates.Y.Float()).To(BeNumerically("~", 29780*60, 1e-6))
	})
})

var _ = Describe("classify", func() {
	DescribeTable("line shapes",
		func(text string, want shape, key, value string) {
			l := classify(text)
			Expect(l.shape).To(Equal(want), "shape of %q", text)
			if want != shapeIgnored {
				Expect(l.key).To(Equal(key))
				Expect(l.value).To(Equal(value))
			}
		},
		Entry(nil, "dt: 3 min", shapeDt, "3", "min"),
		Entry(nil, "name: Solar System ", shapeName, "", "Solar System"),
		Entry(nil, "Earth:", shapeHeader, "Earth", ""),
		Entry(nil, "Earth:   ", shapeHeader, "Earth", ""),
		Entry(nil, "dt:", shapeHeader, "dt", ""),
		Entry(nil, "name:", shapeHeader, "name", ""),
		Entry(nil, "  mass: 5 kg", shapeProperty, "mass", "5 kg"),
		Entry(nil, "\tradius:6371km", shapeProperty, "radius", "6371km"),
		Entry(nil, "  Earth:", shapeIgnored, "", ""),
		Entry(nil, "Earth: 5", shapeIgnored, "", ""),
		Entry(nil, "dt: 1 d", shapeIgnored, "", ""),
		Entry(nil, "My Planet:", shapeIgnored, "", ""),
		Entry(nil, "", shapeIgnored, "", ""),
		Entry(nil, "# comment", shapeIgnored, "", ""),
	)
})
