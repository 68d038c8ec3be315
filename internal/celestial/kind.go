package celestial

import "strings"

// Kind classifies a celestial body.
type Kind int

const (
	RockPlanet Kind = iota
	GasPlanet
	Satellite
	Star
	BlackHole
)

func (k Kind) String() string {
	switch k {
	case RockPlanet:
		return "Rock Planet"
	case GasPlanet:
		return "Gas Planet"
	case Satellite:
		return "Satellite"
	case Star:
		return "Star"
	case BlackHole:
		return "Black Hole"
	}
	return "Unknown"
}

// IsPlanet reports whether k is one of the planet kinds.
func (k Kind) IsPlanet() bool {
	return k == RockPlanet || k == GasPlanet || k == Satellite
}

// ParseKind matches a type name ignoring case and whitespace. Anything it
// does not recognise is a rock planet.
func ParseKind(s string) Kind {
	key := strings.ToLower(strings.Join(strings.Fields(s), ""))
	switch key {
	case "blackhole":
		return BlackHole
	case "gasplanet", "gasgiant":
		return GasPlanet
	case "star":
		return Star
	case "satellite":
		return Satellite
	}
	return RockPlanet
}

// Kinds lists every kind in declaration order.
func Kinds() []Kind {
	return []Kind{RockPlanet, GasPlanet, Satellite, Star, BlackHole}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	*k = ParseKind(string(b))
	return nil
}
