package spikes

import(
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

// An ArmDrawer strokes one arm onto the mask's canvas. Intensity ramps
// linearly from 0 at each end to full at the middle. Drawers composite
// "over" what's already there, and everything is white, so a dim part
// of one arm can never darken a brighter part of another.
type ArmDrawer func(dc *gg.Context, a Arm, thickness int)

// Lines are drawn through pixel centers.
func px(p image.Point) (float64, float64) { return float64(p.X) + 0.5, float64(p.Y) + 0.5 }

func white(alpha float64) color.NRGBA {
	return color.NRGBA{255, 255, 255, uint8(math.Round(alpha * 255))}
}

// DrawGradientArm does each arm as a single stroke, with a linear
// gradient along its length.
func DrawGradientArm(dc *gg.Context, a Arm, thickness int) {
	x0, y0 := px(a.From)
	x1, y1 := px(a.To)

	// gg samples patterns at integer pixel coords, not centers
	grad := gg.NewLinearGradient(x0-0.5, y0-0.5, x1-0.5, y1-0.5)
	grad.AddColorStop(0.0, white(0))
	grad.AddColorStop(0.5, white(1))
	grad.AddColorStop(1.0, white(0))

	dc.SetStrokeStyle(grad)
	dc.SetLineWidth(float64(thickness))
	dc.SetLineCap(gg.LineCapButt)
	dc.DrawLine(x0, y0, x1, y1)
	dc.Stroke()
}

// DrawSteppedArm cuts the arm into 2*halflength short segments, and
// draws each at the ramp value for its midpoint.
func DrawSteppedArm(dc *gg.Context, a Arm, thickness int) {
	x0, y0 := px(a.From)
	x1, y1 := px(a.To)

	n := int(math.Hypot(x1-x0, y1-y0))
	if n < 2 { n = 2 }

	dc.SetLineWidth(float64(thickness))
	dc.SetLineCap(gg.LineCapButt)
	for i:=0; i<n; i++ {
		t0, t1 := float64(i)/float64(n), float64(i+1)/float64(n)
		tm := (t0 + t1) / 2
		dc.SetColor(white(1 - math.Abs(2*tm - 1)))
		dc.DrawLine(x0 + t0*(x1-x0), y0 + t0*(y1-y0), x0 + t1*(x1-x0), y0 + t1*(y1-y0))
		dc.Stroke()
	}
}

// DrawSolidArm is a plain line at full intensity; no falloff.
func DrawSolidArm(dc *gg.Context, a Arm, thickness int) {
	x0, y0 := px(a.From)
	x1, y1 := px(a.To)

	dc.SetColor(white(1))
	dc.SetLineWidth(float64(thickness))
	dc.SetLineCap(gg.LineCapButt)
	dc.DrawLine(x0, y0, x1, y1)
	dc.Stroke()
}

// Render draws the spikes for every geometry into the mask.
func Render(m *Mask, geoms []Geometry, draw ArmDrawer) {
	dc := m.Context()
	for _, g := range geoms {
		for _, a := range g.Arms() {
			draw(dc, a, g.Thickness)
		}
	}
}
