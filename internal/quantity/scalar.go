package quantity

import "math"

// Scalar is a dimensioned real number.
type Scalar float64

func (s Scalar) Float() float64      { return float64(s) }
func (s Scalar) Add(o Scalar) Scalar { return s + o }
func (s Scalar) Sub(o Scalar) Scalar { return s - o }
func (s Scalar) Mul(o Scalar) Scalar { return s * o }
func (s Scalar) Div(o Scalar) Scalar { return s / o }
func (s Scalar) Neg() Scalar         { return -s }
func (s Scalar) Abs() Scalar         { return Scalar(math.Abs(float64(s))) }
func (s Scalar) Sqrt() Scalar        { return Scalar(math.Sqrt(float64(s))) }
func (s Scalar) Pow(e Scalar) Scalar { return Scalar(math.Pow(float64(s), float64(e))) }
func (s Scalar) Less(o Scalar) bool  { return s < o }
func (s Scalar) IsInf() bool         { return math.IsInf(float64(s), 0) }
func (s Scalar) IsFinite() bool      { return !math.IsInf(float64(s), 0) && !math.IsNaN(float64(s)) }
func (s Scalar) Cmp(o Scalar) int {
	switch {
	case s < o:
		return -1
	case s > o:
		return 1
	}
	return 0
}

// ApproxEqual reports whether s and o agree within a relative tolerance.
// Values near zero are compared absolutely.
func (s Scalar) ApproxEqual(o Scalar, tol float64) bool {
	a, b := float64(s), float64(o)
	diff := math.Abs(a - b)
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale < 1 {
		return diff <= tol
	}
	return diff <= tol*scale
}
