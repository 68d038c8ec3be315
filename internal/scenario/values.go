package scenario

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/orbitsim/internal/quantity"
	"github.com/san-kum/orbitsim/internal/units"
)

var errMalformed = errors.New("malformed value")

// numberPrefix returns the length of the longest prefix of s that reads as a
// decimal number with optional sign, fraction and exponent.
func numberPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return i
}

// number reads a leading number from s and returns the remainder.
func number(s string) (float64, string, error) {
	n := numberPrefix(s)
	if n == 0 {
		return 0, s, errMalformed
	}
	v, err := strconv.ParseFloat(s[:n], 64)
	if err != nil {
		return 0, s, errMalformed
	}
	return v, s[n:], nil
}

// exponentNumber reads `a`, `a*b`, `a^b` or `a*b^c` from the front of s.
func exponentNumber(s string) (float64, string, error) {
	a, rest, err := number(s)
	if err != nil {
		return 0, s, err
	}
	switch {
	case strings.HasPrefix(rest, "^"):
		b, rest, err := number(rest[1:])
		if err != nil {
			return 0, s, err
		}
		return math.Pow(a, b), rest, nil
	case strings.HasPrefix(rest, "*"):
		b, rest, err := number(rest[1:])
		if err != nil {
			return 0, s, err
		}
		if !strings.HasPrefix(rest, "^") {
			return a * b, rest, nil
		}
		c, rest, err := number(rest[1:])
		if err != nil {
			return 0, s, err
		}
		return a * math.Pow(b, c), rest, nil
	}
	return a, rest, nil
}

func compact(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

// length parses a number followed by a mandatory length unit.
func length(value string, c *units.Constants) (quantity.Scalar, error) {
	n, unit, err := number(compact(value))
	if err != nil {
		return 0, err
	}
	f, ok := c.Length(strings.ToLower(unit))
	if !ok {
		return 0, errMalformed
	}
	return quantity.Scalar(n * f), nil
}

// mass parses a number, possibly in exponent notation, followed by a
// mandatory mass unit.
func mass(value string, c *units.Constants) (quantity.Scalar, error) {
	n, unit, err := exponentNumber(compact(value))
	if err != nil {
		return 0, err
	}
	f, ok := c.Mass(strings.ToLower(unit))
	if !ok {
		return 0, errMalformed
	}
	return quantity.Scalar(n * f), nil
}

// density parses a number with an optional kg/m unit.
func density(value string) (quantity.Scalar, error) {
	n, unit, err := number(compact(value))
	if err != nil {
		return 0, err
	}
	if unit != "" && strings.ToLower(unit) != "kg/m" {
		return 0, errMalformed
	}
	return quantity.Scalar(n), nil
}

// triple splits `(x,y,z)` and converts each component with conv. A component
// without a unit is taken to be in the base unit already.
func triple(value string, conv func(string) (float64, bool)) ([3]float64, error) {
	var out [3]float64
	v := compact(value)
	if !strings.HasPrefix(v, "(") || !strings.HasSuffix(v, ")") {
		return out, errMalformed
	}
	parts := strings.Split(v[1:len(v)-1], ",")
	if len(parts) != 3 {
		return out, errMalformed
	}
	for i, p := range parts {
		n, unit, err := number(p)
		if err != nil {
			return out, err
		}
		f := 1.0
		if unit != "" {
			var ok bool
			if f, ok = conv(strings.ToLower(unit)); !ok {
				return out, errMalformed
			}
		}
		out[i] = n * f
	}
	return out, nil
}

func velocity(value string, c *units.Constants) (quantity.Vector, error) {
	v, err := triple(value, c.Velocity)
	if err != nil {
		return quantity.Zero, err
	}
	return quantity.NewVector(v[0], v[1], v[2]), nil
}

func coordinates(value string, c *units.Constants) (quantity.Point, error) {
	v, err := triple(value, c.Length)
	if err != nil {
		return quantity.Origin, err
	}
	return quantity.NewPoint(v[0], v[1], v[2]), nil
}

// timeStep converts the digits and unit of a dt line to seconds.
func timeStep(digits, unit string) (quantity.Scalar, error) {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, errMalformed
	}
	f, ok := units.TimeStep(unit)
	if !ok {
		return 0, errMalformed
	}
	return quantity.Scalar(float64(n) * f), nil
}
