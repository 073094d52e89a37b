package mathutil

// Linspace returns n evenly spaced values over [start, stop], both ends included.
// n == 1 yields just start; n <= 0 yields nil.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	// exact endpoint, independent of step rounding
	out[n-1] = stop
	return out
}
