package units

import (
	"fmt"
	"strconv"
	"strings"
)

var durationUnits = []struct {
	suffix  string
	seconds float64
}{
	// longest suffix first so "mon" wins over "m"
	{"mon", Month},
	{"ms", 1e-3},
	{"s", Second},
	{"m", Minute},
	{"h", Hour},
	{"d", Day},
	{"w", Week},
	{"y", Year},
}

// ParseDuration reads a simulated duration such as "90m", "12h", "28d",
// "2w", "3mon" or "1.5y" and returns it in seconds. A bare number is
// seconds. Months and years use the calendar constants, not the scenario
// dt table.
func ParseDuration(s string) (float64, error) {
	num, factor := strings.TrimSpace(s), Second
	for _, u := range durationUnits {
		if strings.HasSuffix(num, u.suffix) {
			num, factor = strings.TrimSuffix(num, u.suffix), u.seconds
			break
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("units: invalid duration %q", s)
	}
	return v * factor, nil
}
