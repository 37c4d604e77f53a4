package spikes

import(
	"fmt"
	"image"

	"github.com/DougReynolds/AF-Diffraction-Spikes/pkg/emath"
)

const(
	minSpikeLength    = 5
	minSpikeThickness = 1
)

// An Arm is one straight line of a spike, through the source's centroid.
type Arm struct {
	From, To image.Point
}

func (a Arm)String() string { return fmt.Sprintf("%v-%v", a.From, a.To) }

// Geometry is the cross drawn over one source: a vertical and a
// horizontal arm, each 2*Length long, optionally rotated.
type Geometry struct {
	Center            image.Point
	Length            int   // half the length of an arm, in pixels
	Thickness         int   // stroke width, in pixels

	Vertical          Arm   // before rotation
	Horizontal        Arm
	RotatedVertical   Arm
	RotatedHorizontal Arm
}

func (g Geometry)String() string {
	return fmt.Sprintf("spike[%v, len=%d, thick=%d, v=%s, h=%s]", g.Center, g.Length, g.Thickness,
		g.RotatedVertical, g.RotatedHorizontal)
}

// Arms are the two lines that should actually get drawn.
func (g Geometry)Arms() []Arm { return []Arm{g.RotatedVertical, g.RotatedHorizontal} }

// SpikeLength and SpikeThickness scale with the square root of the
// source area, so they grow with the source's diameter.
func SpikeLength(area, multiplier float64) int {
	return emath.SqrtFloor(area, multiplier, minSpikeLength)
}

func SpikeThickness(area, multiplier float64) int {
	return emath.SqrtFloor(area, multiplier, minSpikeThickness)
}

// NewGeometry works out the spike for a source. All four endpoints are
// rotated individually about the centroid, and truncated back onto the
// pixel grid.
func NewGeometry(src Source, cfg Config) Geometry {
	c := src.Centroid
	l := SpikeLength(src.Area, cfg.SpikeLengthMultiplier)

	g := Geometry{
		Center:     c,
		Length:     l,
		Thickness:  SpikeThickness(src.Area, cfg.SpikeThicknessMultiplier),
		Vertical:   Arm{image.Point{c.X, c.Y - l}, image.Point{c.X, c.Y + l}},
		Horizontal: Arm{image.Point{c.X - l, c.Y}, image.Point{c.X + l, c.Y}},
	}

	rot := func(p image.Point) image.Point { return emath.RotatePointAbout(p, c, cfg.RotationAngle) }
	g.RotatedVertical = Arm{rot(g.Vertical.From), rot(g.Vertical.To)}
	g.RotatedHorizontal = Arm{rot(g.Horizontal.From), rot(g.Horizontal.To)}

	return g
}

func NewGeometries(sources []Source, cfg Config) []Geometry {
	geoms := make([]Geometry, len(sources))
	for i, src := range sources {
		geoms[i] = NewGeometry(src, cfg)
	}
	return geoms
}
