package app

import "math"

// roundTo округляет значение до заданного числа знаков после запятой.
func roundTo(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}
