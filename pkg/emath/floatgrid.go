package emath

import(
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg" // Move to https://pkg.go.dev/golang.org/x/image/font#Drawer sometime
	"gonum.org/v1/gonum/floats"
)

// A FloatGrid is a grid of floats, with some operations. The spike
// mask lives in one of these between rendering and compositing.
type FloatGrid struct {
	stride int
	values []float64
}

func NewFloatGrid(w, h int) FloatGrid {
	return FloatGrid{
		stride: w,
		values: make([]float64, w*h),
	}
}

func (g1 *FloatGrid)NewFromThis() FloatGrid  { return NewFloatGrid(g1.Dx(), g1.Dy()) }
func (fg *FloatGrid)Set(x, y int, v float64) { fg.values[fg.stride*y + x] = v }
func (fg *FloatGrid)Get(x, y int) float64    { return fg.values[fg.stride*y + x] }
func (fg *FloatGrid)Dx() int                 { return fg.stride }
func (fg *FloatGrid)Dy() int {
	if fg.stride == 0 { return 0 }
	return len(fg.values) / fg.stride
}

func (g1 *FloatGrid)Copy() *FloatGrid {
	g2 := FloatGrid{stride: g1.stride, values:make([]float64, len(g1.values))}
	copy(g2.values, g1.values)
	return &g2
}

// Max returns the largest value in the grid (0 for an empty grid).
func (fg *FloatGrid)Max() float64 {
	if len(fg.values) == 0 { return 0 }
	return floats.Max(fg.values)
}

// GaussianKernel returns the 1D, normalized, symmetric kernel of size
// n (which must be odd). The small sizes use the fixed binomial
// kernels, and bigger ones derive sigma from the size, both the same
// way OpenCV's GaussianBlur does when it is given sigma=0; so masks
// blurred here match the ones the original tool produced.
func GaussianKernel(n int) []float64 {
	switch n {
	case 1: return []float64{1}
	case 3: return []float64{0.25, 0.5, 0.25}
	case 5: return []float64{0.0625, 0.25, 0.375, 0.25, 0.0625}
	case 7: return []float64{0.03125, 0.109375, 0.21875, 0.28125, 0.21875, 0.109375, 0.03125}
	}

	sigma := ((float64(n)-1)*0.5 - 1)*0.3 + 0.8
	scale2 := -0.5 / (sigma*sigma)
	k := make([]float64, n)
	for i:=0; i<n; i++ {
		x := float64(i) - float64(n-1)*0.5
		k[i] = math.Exp(scale2 * x*x)
	}
	floats.Scale(1.0/floats.Sum(k), k)
	return k
}

// reflect101 maps an out-of-range index back into [0,n), mirroring
// about the edge samples without repeating them (i.e. "dcb|abcd|cba").
func reflect101(i, n int) int {
	if n == 1 { return 0 }
	for i < 0 || i >= n {
		if i < 0       { i = -i }
		if i >= n      { i = 2*n - 2 - i }
	}
	return i
}

// GaussianBlur returns a new grid, smoothed by a separable gaussian
// kernel of odd size `ksize` in both X and Y.
func (g1 FloatGrid)GaussianBlur(ksize int) FloatGrid {
	if ksize < 1 || ksize%2 == 0 {
		panic(fmt.Sprintf("GaussianBlur: kernel size %d must be odd and positive", ksize))
	}

	width := g1.Dx()
	height := g1.Dy()
	g2 := g1.NewFromThis()
	if width == 0 || height == 0 { return g2 }

	k := GaussianKernel(ksize)
	r := ksize / 2

	T  := g1.NewFromThis()

	//--- X blur, build up in T
	for y:=0; y<height; y++ {
		for x:=0; x<width; x++ {
			t := 0.0
			for i:=-r; i<=r; i++ {
				t += k[i+r] * g1.Get(reflect101(x+i, width), y)
			}
			T.Set(x, y, t)
		}
	}

	//--- Y blur, read from T and generate output
	for x:=0; x<width; x++ {
		for y:=0; y<height; y++ {
			t := 0.0
			for i:=-r; i<=r; i++ {
				t += k[i+r] * T.Get(x, reflect101(y+i, height))
			}
			g2.Set(x, y, t)
		}
	}

	return g2
}

func (fg *FloatGrid)Stats() string {
	min := math.MaxFloat64
	max := -1.0  * min

	for i:=0 ; i<len(fg.values) ; i++ {
		if fg.values[i] > max { max = fg.values[i] }
		if fg.values[i] < min { min = fg.values[i] }
	}
	return fmt.Sprintf("fg[%dx%d, vals{%f,%f}]", fg.Dx(), fg.Dy(), min, max)
}

// ToImg saves a simple grayscale, based on the range of values in the grid,
// with a title drawn in the top left.
func (fg *FloatGrid)ToImg(title, filename string) error {
	min, max := math.MaxFloat64, -math.MaxFloat64
	for i:=0; i<len(fg.values); i++ {
		if fg.values[i] > max { max = fg.values[i] }
		if fg.values[i] < min { min = fg.values[i] }
	}
	if max <= min { max = min + 1 } // flat grid, avoid divide by zero

	img := image.NewGray16(image.Rectangle{Max:image.Point{fg.Dx(), fg.Dy()}})
	for x:=0; x<fg.Dx(); x++ {
		for y:=0; y<fg.Dy(); y++ {
			gray := (fg.Get(x,y) - min) / (max - min)
			img.SetGray16(x, y, color.Gray16{uint16(gray * 65535.0)})
		}
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB(1,1,1)
	dc.DrawString(title, 10, 20)
	return dc.SavePNG(filename)
}
