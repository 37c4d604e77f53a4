package spikes

import(
	"fmt"
	"image"
)

// A Source is a bright blob, found by a Detector. It's the thing spikes
// get drawn out of.
//
// Area counts pixels, so it is bigger than the polygon area OpenCV's
// contourArea reports for the same boundary (169 vs 144 for a 13x13
// square). Older renders that used contourArea can have spikes a pixel
// shorter.
type Source struct {
	Centroid image.Point     // truncated first moments, m10/m00 and m01/m00
	Area     float64         // m00; the number of pixels inside the region's outer boundary
	Bounds   image.Rectangle // Max is exclusive, as for any image.Rectangle
}

func (s Source)String() string {
	return fmt.Sprintf("src[%v, area=%.0f, %v]", s.Centroid, s.Area, s.Bounds)
}

// moments accumulates the raw spatial moments of a set of pixels.
type moments struct {
	m00, m10, m01 float64
	bounds        image.Rectangle
}

func (m *moments)add(p image.Point) {
	if m.m00 == 0 {
		m.bounds = image.Rectangle{p, p}
	} else {
		m.bounds = GrowRectangle(m.bounds, p)
	}
	m.m00++
	m.m10 += float64(p.X)
	m.m01 += float64(p.Y)
}

// source turns the moments into a Source; ok is false for an empty region.
func (m moments)source() (Source, bool) {
	if m.m00 == 0 {
		return Source{}, false
	}
	b := m.bounds
	b.Max = b.Max.Add(image.Point{1, 1})
	return Source{
		Centroid: image.Point{int(m.m10 / m.m00), int(m.m01 / m.m00)},
		Area:     m.m00,
		Bounds:   b,
	}, true
}

func RectCenter(b image.Rectangle) image.Point {
	return image.Point{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2}
}

// GrowRectangle extends r (whose Max is treated as inclusive) to include p.
func GrowRectangle(r image.Rectangle, p image.Point) image.Rectangle {
	if p.X < r.Min.X {
		r.Min.X = p.X
	} else if p.X > r.Max.X {
		r.Max.X = p.X
	}

	if p.Y < r.Min.Y {
		r.Min.Y = p.Y
	} else if p.Y > r.Max.Y {
		r.Max.Y = p.Y
	}

	return r
}
