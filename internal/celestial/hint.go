package celestial

import (
	"strings"

	"github.com/san-kum/orbitsim/internal/units"
)

// Hint tells a renderer how to draw a body.
type Hint struct {
	Color    [4]float64 `json:"color"`
	Texture  string     `json:"texture"`
	Emissive bool       `json:"emissive"`
}

var (
	rockColor = [4]float64{0.2, 0.2, 0.2, 1}
	gasColor  = [4]float64{0.5, 0.5, 0.8, 1}
	holeColor = [4]float64{0, 0, 0, 1}
)

// Hint derives the display hint from the body's kind.
func (c *Celestial) Hint(consts *units.Constants) Hint {
	switch c.Kind {
	case Star:
		return Hint{Color: TemperatureColor(c.Radiation(consts).Temperature), Texture: "star", Emissive: true}
	case GasPlanet:
		return Hint{Color: gasColor, Texture: "gasgiant"}
	case Satellite:
		return Hint{Color: rockColor, Texture: "satellite"}
	case BlackHole:
		return Hint{Color: holeColor, Texture: "blackhole"}
	}
	if strings.EqualFold(c.Name, "earth") {
		return Hint{Color: rockColor, Texture: "earth"}
	}
	return Hint{Color: rockColor, Texture: "terrestrial"}
}
