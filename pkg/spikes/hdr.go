package spikes

import(
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/hdrcolor"

	"github.com/DougReynolds/AF-Diffraction-Spikes/pkg/raster"
)

// BlendedHDR is the blend of a raster and a mask without the clipping,
// with samples normalized so that 1.0 is the raster's max sample. Where
// spikes cross bright sources the value goes up to 1.5. Implements
// hdr.Image.
type BlendedHDR struct {
	orig *raster.Raster
	mask *Mask
}

func NewBlendedHDR(orig *raster.Raster, mask *Mask) BlendedHDR {
	if orig.Width != mask.Dx() || orig.Height != mask.Dy() {
		orig = raster.Resize(orig, mask.Dx(), mask.Dy())
	}
	return BlendedHDR{orig, mask}
}

// Implement image.Image
func (bh BlendedHDR)ColorModel() color.Model       { return hdrcolor.RGBModel }
func (bh BlendedHDR)Bounds() image.Rectangle       { return bh.orig.Bounds() }
func (bh BlendedHDR)At(x, y int) color.Color       { return bh.HDRAt(x,y) }

// Implement hdr.Image
func (bh BlendedHDR)Size() int                     { return bh.orig.Width * bh.orig.Height }
func (bh BlendedHDR)HDRAt(x, y int) hdrcolor.Color {
	max := float64(bh.orig.MaxSample())
	m := bh.mask.At(x, y)

	v := [3]float64{}
	for c:=0; c<3; c++ {
		ch := c
		if bh.orig.ColorChannels() == 1 { ch = 0 }
		v[c] = blend(bh.orig.Sample(x, y, ch), m, max) / max
	}
	return hdrcolor.RGB{R: v[0], G: v[1], B: v[2]}
}

// WriteHDR outputs a Radiance RGBE file, for HDR tools that want to see
// the spikes before they got clipped.
func WriteHDR(orig *raster.Raster, mask *Mask, filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return &raster.EncodeError{Path: filename, Err: fmt.Errorf("open+w: %v", err)}
	} else {
		defer writer.Close()
		if err := rgbe.Encode(writer, NewBlendedHDR(orig, mask)); err != nil {
			return &raster.EncodeError{Path: filename, Err: fmt.Errorf("encoding RGBE: %v", err)}
		}
	}
	return nil
}
