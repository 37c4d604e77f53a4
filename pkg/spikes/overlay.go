package spikes

import(
	"fmt"
	"image"
	"log"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/DougReynolds/AF-Diffraction-Spikes/pkg/raster"
)

var(
	labelFace     font.Face
	labelFaceOnce sync.Once
)

func getLabelFace() font.Face {
	labelFaceOnce.Do(func() {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			log.Printf("overlay: parsing font: %v", err) // gg falls back to its basic face
			return
		}
		labelFace = truetype.NewFace(f, &truetype.Options{Size: 11, DPI: 72, Hinting: font.HintingFull})
	})
	return labelFace
}

// markerColor spreads the sources around the hue wheel, so neighbours
// are easy to tell apart.
func markerColor(i, n int) colorful.Color {
	if n < 1 { n = 1 }
	return colorful.Hsv(360.0 * float64(i) / float64(n), 0.8, 1.0)
}

// Overlay draws a box around each source, labelled with its index and
// area, and the arms of its spike if geoms are given.
func Overlay(r *raster.Raster, sources []Source, geoms []Geometry) image.Image {
	dc := gg.NewContextForImage(r.ToRGBA())
	if face := getLabelFace(); face != nil {
		dc.SetFontFace(face)
	}

	for i, src := range sources {
		dc.SetColor(markerColor(i, len(sources)))
		dc.SetLineWidth(1)

		b := src.Bounds
		dc.DrawRectangle(float64(b.Min.X) - 0.5, float64(b.Min.Y) - 0.5, float64(b.Dx()) + 1, float64(b.Dy()) + 1)
		dc.Stroke()

		c := src.Centroid
		dc.DrawCircle(float64(c.X) + 0.5, float64(c.Y) + 0.5, 1.5)
		dc.Fill()

		top := RectCenter(b)
		dc.DrawStringAnchored(fmt.Sprintf("%d:%.0f", i, src.Area), float64(top.X) + 0.5, float64(b.Min.Y) - 3, 0.5, 0)

		if i < len(geoms) {
			for _, a := range geoms[i].Arms() {
				x0, y0 := px(a.From)
				x1, y1 := px(a.To)
				dc.DrawLine(x0, y0, x1, y1)
				dc.Stroke()
			}
		}
	}

	return dc.Image()
}

func WriteOverlay(r *raster.Raster, sources []Source, geoms []Geometry, filename string) error {
	return raster.WritePNG(Overlay(r, sources, geoms), filename)
}
