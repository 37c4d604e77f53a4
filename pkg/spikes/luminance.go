package spikes

import(
	"image"

	"github.com/DougReynolds/AF-Diffraction-Spikes/pkg/raster"
)

// grayU16 is the weighted luminance of 16bit RGB values.
func grayU16(r, g, b uint16) uint16 {
	gray := float64(r) * 0.2989 + float64(g) * 0.5870 + float64(b) * 0.1140
	if gray > 0xFFFF { gray = 0xFFFF }

	return uint16(gray)
}

// Luminance reduces a raster to an 8bit grayscale of the same size. Any
// alpha channel is ignored.
func Luminance(r *raster.Raster) *image.Gray {
	img := image.NewGray(r.Bounds())

	to16 := func(v uint16) uint16 { return v }
	if r.BitDepth == 8 {
		to16 = func(v uint16) uint16 { return v * 0x101 }
	}

	for y:=0; y<r.Height; y++ {
		for x:=0; x<r.Width; x++ {
			var gray uint16
			if r.ColorChannels() == 1 {
				gray = to16(r.Sample(x, y, 0))
			} else {
				gray = grayU16(to16(r.Sample(x, y, 0)), to16(r.Sample(x, y, 1)), to16(r.Sample(x, y, 2)))
			}
			img.Pix[img.PixOffset(x, y)] = uint8(gray >> 8)
		}
	}

	return img
}
