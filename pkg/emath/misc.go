package emath

import "math"

// Some functions that only operate on basic types, that are useful

// OddKernelSize scales a kernel size by a multiplier, truncates it to an
// int, and bumps it to the next odd value if needed. The result is always
// odd and at least 1.
func OddKernelSize(size, multiplier float64) int {
	k := int(size * multiplier)
	if k < 1 {
		return 1
	}
	if k%2 == 0 {
		k++
	}
	return k
}

func ClampF64(f, min, max float64) float64 {
	if f < min { return min }
	if f > max { return max }
	return f
}

// SqrtFloor returns floor(sqrt(area) * multiplier), never less than `min`.
func SqrtFloor(area, multiplier float64, min int) int {
	v := int(math.Sqrt(area) * multiplier)
	if v < min {
		return min
	}
	return v
}
