package raster

import(
	"image"

	"golang.org/x/image/draw"
)

// Resize returns a new raster of size w x h, resampled bilinearly. The
// layout and bit depth are kept; so is Meta.
func Resize(r *Raster, w, h int) *Raster {
	if w == r.Width && h == r.Height {
		return r.Clone()
	}

	src := r.ToImage()
	var dst draw.Image
	if r.BitDepth == 16 {
		dst = image.NewNRGBA64(image.Rect(0, 0, w, h))
	} else {
		dst = image.NewNRGBA(image.Rect(0, 0, w, h))
	}
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	// fromImage can't fail here, the bitdepth came from a valid raster
	out, _ := fromImage(dst, r.BitDepth, r.Channels)
	out.Meta = r.Meta
	return out
}

// Preview scales a raster down (or up) to the given width, keeping the
// aspect ratio, as an 8bit RGBA image suitable for a quick look.
func Preview(r *Raster, width int) *image.RGBA {
	if width <= 0 || r.Width == 0 {
		width = r.Width
	}
	height := r.Height * width / r.Width
	if height < 1 { height = 1 }

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), r.ToRGBA(), r.Bounds(), draw.Src, nil)
	return dst
}
