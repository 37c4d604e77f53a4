package spikes

import(
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/DougReynolds/AF-Diffraction-Spikes/pkg/emath"
)

// A Mask is the single channel intensity image the spikes get drawn
// into. Spikes are stroked onto a gg canvas (white on black, so the
// red channel is the intensity, in [0,255]); the canvas is flattened
// into a FloatGrid for blurring and compositing.
type Mask struct {
	dc      *gg.Context
	grid    emath.FloatGrid
	dirty   bool   // canvas has strokes the grid hasn't seen
	blurred bool
}

func NewMask(w, h int) *Mask {
	dc := gg.NewContext(w, h)
	dc.SetRGB(0, 0, 0)
	dc.Clear()

	return &Mask{
		dc:   dc,
		grid: emath.NewFloatGrid(w, h),
	}
}

func (m *Mask)Dx() int { return m.dc.Width() }
func (m *Mask)Dy() int { return m.dc.Height() }
func (m *Mask)Bounds() image.Rectangle { return image.Rect(0, 0, m.Dx(), m.Dy()) }

// Context is the canvas to draw on. Strokes must be done before Blur.
func (m *Mask)Context() *gg.Context {
	if m.blurred {
		panic("Mask: drawing after Blur")
	}
	m.dirty = true
	return m.dc
}

func (m *Mask)sync() {
	if !m.dirty || m.blurred { return }
	img := m.dc.Image()
	for y:=0; y<m.Dy(); y++ {
		for x:=0; x<m.Dx(); x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			m.grid.Set(x, y, float64(r >> 8))
		}
	}
	m.dirty = false
}

// At returns the mask intensity at (x,y), nominally in [0,255].
func (m *Mask)At(x, y int) float64 {
	m.sync()
	return m.grid.Get(x, y)
}

func (m *Mask)Max() float64 {
	m.sync()
	return m.grid.Max()
}

// Grid is a copy of the current intensities.
func (m *Mask)Grid() emath.FloatGrid {
	m.sync()
	return *m.grid.Copy()
}

// Blur smooths the whole mask with a gaussian of (odd) size ksize. It
// is the last thing that happens to a mask; it can't be drawn on after.
func (m *Mask)Blur(ksize int) {
	m.sync()
	m.grid = m.grid.GaussianBlur(ksize)
	m.blurred = true
}

// ToImage renders the mask as an 8bit gray image, clipping at 255.
func (m *Mask)ToImage() *image.Gray {
	m.sync()
	img := image.NewGray(m.Bounds())
	for y:=0; y<m.Dy(); y++ {
		for x:=0; x<m.Dx(); x++ {
			img.SetGray(x, y, color.Gray{uint8(emath.ClampF64(m.grid.Get(x, y) + 0.5, 0, 255))})
		}
	}
	return img
}

func (m *Mask)WriteDebug(title, filename string) error {
	m.sync()
	return m.grid.ToImg(title, filename)
}
