package spikes

import(
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DougReynolds/AF-Diffraction-Spikes/pkg/raster"
)

func TestLuminance(t *testing.T) {
	r := raster.New(3, 1, 3, 8)
	r.SetSample(0, 0, 0, 255)                                                  // pure red
	r.SetSample(1, 0, 0, 255); r.SetSample(1, 0, 1, 255); r.SetSample(1, 0, 2, 255) // white
	r.SetSample(2, 0, 0, 200); r.SetSample(2, 0, 1, 200); r.SetSample(2, 0, 2, 200)

	gray := Luminance(r)
	assert.Equal(t, []uint8{76, 255, 200}, gray.Pix)

	r16 := raster.New(1, 1, 1, 16)
	r16.SetSample(0, 0, 0, 0xABCD)
	assert.Equal(t, []uint8{0xAB}, Luminance(r16).Pix)
}

func TestThresholdIsInclusive(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 3, 1))
	gray.Pix = []uint8{199, 200, 201}

	assert.Equal(t, []uint8{0, 255, 255}, Threshold(gray, 200, 255).Pix)
	assert.Equal(t, []uint8{0, 7, 7}, Threshold(gray, 200, 7).Pix)
}

func TestDilateAtEdge(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 10, 10))
	gray.Pix[0] = 255

	out := Dilate(gray, 5)
	n := 0
	for _, v := range out.Pix {
		if v != 0 { n++ }
	}
	assert.Equal(t, 9, n) // the 3x3 of the 5x5 window that's inside the image
	assert.Equal(t, uint8(255), out.Pix[2*out.Stride + 2])
}

func TestDetectSingleSquare(t *testing.T) {
	// Two 5x5 dilations grow the square by 4 on every side, to 13x13
	sources := DetectSources(sky(100, 100, 1, 8, square5(50, 50)), 200, 255)
	require.Len(t, sources, 1)
	assert.Equal(t, image.Point{50, 50}, sources[0].Centroid)
	assert.Equal(t, 169.0, sources[0].Area)
	assert.Equal(t, image.Rect(44, 44, 57, 57), sources[0].Bounds)
}

func TestDetectNearbyBlobsMerge(t *testing.T) {
	r := sky(100, 100, 1, 8, image.Rect(20, 20, 25, 25), image.Rect(28, 20, 33, 25))
	sources := DetectSources(r, 200, 255)
	require.Len(t, sources, 1)
	assert.Equal(t, 273.0, sources[0].Area)
	assert.Equal(t, image.Point{26, 22}, sources[0].Centroid)
}

func TestDetectRasterOrder(t *testing.T) {
	r := sky(100, 100, 3, 16, square5(10, 70), square5(70, 10))
	sources := DetectSources(r, 200, 255)
	require.Len(t, sources, 2)
	assert.Equal(t, image.Point{70, 10}, sources[0].Centroid) // the higher one is found first
	assert.Equal(t, image.Point{10, 70}, sources[1].Centroid)
}

func TestDetectHolesBelongToOuterRegion(t *testing.T) {
	// A hollow square outline, with a single bright pixel in the middle
	r := sky(100, 100, 1, 8,
		image.Rect(20, 20, 61, 21), image.Rect(20, 60, 61, 61),
		image.Rect(20, 20, 21, 61), image.Rect(60, 20, 61, 61),
		image.Rect(40, 40, 41, 41))

	sources := DetectSources(r, 200, 255)
	require.Len(t, sources, 1)
	assert.Equal(t, 49.0*49.0, sources[0].Area)
	assert.Equal(t, image.Point{40, 40}, sources[0].Centroid)
}

func TestDetectNothing(t *testing.T) {
	assert.Empty(t, DetectSources(sky(50, 50, 3, 8), 200, 255))

	// Everything is below threshold
	dim := sky(50, 50, 1, 8)
	for i := range dim.Pix { dim.Pix[i] = 199 }
	assert.Empty(t, DetectSources(dim, 200, 255))

	// A fill value of zero means nothing is ever marked
	assert.Empty(t, DetectSources(sky(50, 50, 3, 8, square5(25, 25)), 200, 0))

	assert.Empty(t, DetectSources(raster.New(0, 0, 1, 8), 200, 255))
}

func TestDetectorNames(t *testing.T) {
	assert.Contains(t, DetectorNames(), "builtin")
	assert.NotNil(t, NewConfig().GetDetector())
}

func TestRectCenter(t *testing.T) {
	assert.Equal(t, image.Point{50, 50}, RectCenter(image.Rect(44, 44, 56, 56)))
	assert.Equal(t, image.Point{2, 1}, RectCenter(image.Rect(0, 0, 5, 3)))
}
