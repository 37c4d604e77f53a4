package spikes

import(
	"image"
	"sort"

	"github.com/DougReynolds/AF-Diffraction-Spikes/pkg/raster"
)

// A Detector finds the bright sources in a raster. Luminance at or
// above `min` counts as bright; `max` is the value the thresholded
// mask is filled with (so a max of 0 finds nothing).
type Detector func(r *raster.Raster, min, max uint8) []Source

var detectors = map[string]Detector{
	"builtin": DetectSources,
}

func DetectorNames() []string {
	names := []string{}
	for name := range detectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

const(
	dilateSize       = 5 // a 5x5 rectangular structuring element ...
	dilateIterations = 2 // ... applied twice
)

// DetectSources is the pure-go detector. It thresholds the luminance,
// dilates the result so that nearby bright pixels merge, and then
// returns one Source per outer region, in the order a raster scan
// first touches them. Holes, and anything inside a hole, belong to the
// enclosing region.
func DetectSources(r *raster.Raster, min, max uint8) []Source {
	mask := Threshold(Luminance(r), min, max)
	for i:=0; i<dilateIterations; i++ {
		mask = Dilate(mask, dilateSize)
	}
	return OuterRegions(mask)
}

// Threshold returns a binary image; pixels >= min get the value max, the
// rest are zero.
func Threshold(gray *image.Gray, min, max uint8) *image.Gray {
	out := image.NewGray(gray.Bounds())
	for i, v := range gray.Pix {
		if v >= min {
			out.Pix[i] = max
		}
	}
	return out
}

// Dilate is a max filter over a size x size square. Pixels beyond the
// edge of the image don't contribute. A square element is separable, so
// we do rows and then columns.
func Dilate(in *image.Gray, size int) *image.Gray {
	b := in.Bounds()
	w, h := b.Dx(), b.Dy()
	r := size / 2

	tmp := image.NewGray(b)
	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			max := uint8(0)
			for i:=x-r; i<=x+r; i++ {
				if i < 0 || i >= w { continue }
				if v := in.Pix[y*in.Stride + i]; v > max { max = v }
			}
			tmp.Pix[y*tmp.Stride + x] = max
		}
	}

	out := image.NewGray(b)
	for x:=0; x<w; x++ {
		for y:=0; y<h; y++ {
			max := uint8(0)
			for j:=y-r; j<=y+r; j++ {
				if j < 0 || j >= h { continue }
				if v := tmp.Pix[j*tmp.Stride + x]; v > max { max = v }
			}
			out.Pix[y*out.Stride + x] = max
		}
	}

	return out
}

// OuterRegions finds the outer boundaries of all the non-zero regions,
// and returns the moments of everything each boundary encloses.
//
// Rather than trace contours, we flood the background in from the
// image border (4-connected); whatever the flood can't reach is inside
// some outer boundary. Those pixels are then grouped into 8-connected
// regions, which is the usual foreground/background pairing and gives
// the same regions a border follower would.
func OuterRegions(mask *image.Gray) []Source {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return []Source{}
	}

	fg := func(x, y int) bool { return mask.Pix[y*mask.Stride + x] != 0 }

	//--- Flood the background from the border
	outside := make([]bool, w*h)
	toVisit := []image.Point{}
	visit := func(x, y int) {
		if x < 0 || y < 0 || x >= w || y >= h { return }
		if outside[y*w+x] || fg(x, y) { return }
		outside[y*w+x] = true
		toVisit = append(toVisit, image.Point{x, y})
	}
	for x:=0; x<w; x++ { visit(x, 0); visit(x, h-1) }
	for y:=0; y<h; y++ { visit(0, y); visit(w-1, y) }

	var p image.Point
	for len(toVisit) > 0 {
		p, toVisit = toVisit[len(toVisit)-1], toVisit[:len(toVisit)-1]
		visit(p.X-1, p.Y)
		visit(p.X+1, p.Y)
		visit(p.X, p.Y-1)
		visit(p.X, p.Y+1)
	}

	//--- Label what's left, in raster order
	seen := make([]bool, w*h)
	sources := []Source{}

	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			if outside[y*w+x] || seen[y*w+x] { continue }

			m := moments{}
			stack := []image.Point{{x, y}}
			seen[y*w+x] = true
			for len(stack) > 0 {
				p, stack = stack[len(stack)-1], stack[:len(stack)-1]
				m.add(image.Point{p.X + b.Min.X, p.Y + b.Min.Y})

				for dy:=-1; dy<=1; dy++ {
					for dx:=-1; dx<=1; dx++ {
						nx, ny := p.X+dx, p.Y+dy
						if nx < 0 || ny < 0 || nx >= w || ny >= h { continue }
						if outside[ny*w+nx] || seen[ny*w+nx] { continue }
						seen[ny*w+nx] = true
						stack = append(stack, image.Point{nx, ny})
					}
				}
			}

			if src, ok := m.source(); ok {
				sources = append(sources, src)
			}
		}
	}

	return sources
}
