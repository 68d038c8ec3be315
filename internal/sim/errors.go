package sim

import "fmt"

// TickError wraps a failure during force evaluation with the tick it
// happened in. The simulation state is unchanged when a tick fails.
type TickError struct {
	Step    int
	Time    float64
	Body    string
	Other   string
	Wrapped error
}

func (e *TickError) Error() string {
	if e.Other != "" {
		return fmt.Sprintf("sim: step %d (t=%gs) %s/%s: %v", e.Step, e.Time, e.Body, e.Other, e.Wrapped)
	}
	return fmt.Sprintf("sim: step %d (t=%gs) %s: %v", e.Step, e.Time, e.Body, e.Wrapped)
}

func (e *TickError) Unwrap() error {
	return e.Wrapped
}
