package spikes

import(
	"math"

	"github.com/DougReynolds/AF-Diffraction-Spikes/pkg/raster"
)

// The blend is a plain weighted sum, out = orig*1.0 + mask*0.5
const(
	origWeight = 1.0
	maskWeight = 0.5
)

// blend returns the unclipped value of one sample, in sample units.
// The mask is in [0,255] whatever the bit depth, so it is scaled up to
// the sample range first.
func blend(orig uint16, mask, maxSample float64) float64 {
	return origWeight*float64(orig) + maskWeight*mask*(maxSample/255.0)
}

// Composite blends the mask over the original, returning a new raster.
// If the sizes differ, orig is resized (bilinearly) to the mask. The
// mask goes into every color channel; alpha is left alone. The output
// keeps the input's channel layout and bit depth.
func Composite(orig *raster.Raster, mask *Mask) *raster.Raster {
	src := orig
	if orig.Width != mask.Dx() || orig.Height != mask.Dy() {
		src = raster.Resize(orig, mask.Dx(), mask.Dy())
	}

	// BitDepth came from the input file's own tags, via raster.Load
	out := src.Clone()

	max := float64(out.MaxSample())
	nColors := out.ColorChannels()

	for y:=0; y<out.Height; y++ {
		for x:=0; x<out.Width; x++ {
			m := mask.At(x, y)
			if m == 0 { continue }
			for c:=0; c<nColors; c++ {
				v := math.Round(blend(src.Sample(x, y, c), m, max))
				out.SetSample(x, y, c, uint16(math.Max(0, math.Min(max, v))))
			}
		}
	}

	return out
}
