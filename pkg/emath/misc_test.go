package emath

import(
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOddKernelSize(t *testing.T) {
	tests := []struct{
		size, mult float64
		want       int
	}{
		{5, 1.0, 5},
		{4, 1.0, 5},
		{5, 2.0, 11},
		{5, 0.1, 1},
		{1, 0.1, 1},
		{50, 2.0, 101},
		{7, 1.5, 11},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, OddKernelSize(tc.size, tc.mult), "%v x %v", tc.size, tc.mult)
	}

	for size:=1.0; size<=50; size++ {
		for mult:=0.1; mult<=2.0; mult+=0.01 {
			k := OddKernelSize(size, mult)
			assert.True(t, k >= 1 && k%2 == 1, "%v x %v gave %d", size, mult, k)
		}
	}
}

func TestSqrtFloor(t *testing.T) {
	assert.Equal(t, 5, SqrtFloor(25, 1.0, 5))
	assert.Equal(t, 5, SqrtFloor(4, 1.0, 5))
	assert.Equal(t, 13, SqrtFloor(169, 1.0, 5))
	assert.Equal(t, 2, SqrtFloor(169, 0.2, 1))
	assert.Equal(t, 1, SqrtFloor(169, 0, 1))
	assert.Equal(t, 5, SqrtFloor(0, 2, 5))
}

func TestClampF64(t *testing.T) {
	assert.Equal(t, 0.0, ClampF64(-3, 0, 1))
	assert.Equal(t, 1.0, ClampF64(3, 0, 1))
	assert.Equal(t, 0.5, ClampF64(0.5, 0, 1))
}
