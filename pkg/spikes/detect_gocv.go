//go:build gocv

package spikes

import(
	"image"
	"image/color"
	"log"
	"sort"

	"gocv.io/x/gocv"

	"github.com/DougReynolds/AF-Diffraction-Spikes/pkg/raster"
)

// Builds with `-tags gocv` can pick detector: gocv, which does the same
// job with OpenCV's morphology and contour finding.
func init() {
	detectors["gocv"] = DetectSourcesGoCV
}

func DetectSourcesGoCV(r *raster.Raster, min, max uint8) []Source {
	gray := Luminance(r)
	mat, err := gocv.NewMatFromBytes(r.Height, r.Width, gocv.MatTypeCV8UC1, gray.Pix)
	if err != nil {
		log.Printf("gocv detector: %v", err)
		return []Source{}
	}
	defer mat.Close()

	// ThresholdBinary is "> thresh", we want ">= min"
	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(mat, &binary, float32(min)-1, float32(max), gocv.ThresholdBinary)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{dilateSize, dilateSize})
	defer kernel.Close()
	for i:=0; i<dilateIterations; i++ {
		gocv.Dilate(binary, &binary, kernel)
	}

	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	filled := gocv.NewMatWithSize(r.Height, r.Width, gocv.MatTypeCV8U)
	defer filled.Close()

	type found struct {
		src   Source
		first image.Point
	}
	all := []found{}

	for i:=0; i<contours.Size(); i++ {
		contour := contours.At(i)
		rect := gocv.BoundingRect(contour)

		// Moments of the filled region, not of the contour polygon, so the
		// area is a pixel count like the builtin detector's.
		filled.SetTo(gocv.NewScalar(0, 0, 0, 0))
		gocv.DrawContours(&filled, contours, i, color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)
		roi := filled.Region(rect)
		mom := gocv.Moments(roi, true)
		roi.Close()

		m00 := mom["m00"]
		if m00 == 0 {
			continue
		}
		m10 := mom["m10"] + m00*float64(rect.Min.X)
		m01 := mom["m01"] + m00*float64(rect.Min.Y)

		first := image.Point{r.Width, r.Height}
		for _, p := range contour.ToPoints() {
			if p.Y < first.Y || (p.Y == first.Y && p.X < first.X) {
				first = p
			}
		}

		all = append(all, found{
			src: Source{
				Centroid: image.Point{int(m10 / m00), int(m01 / m00)},
				Area:     m00,
				Bounds:   rect,
			},
			first: first,
		})
	}

	// OpenCV returns them roughly bottom-up; we promise raster order.
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].first.Y != all[j].first.Y { return all[i].first.Y < all[j].first.Y }
		return all[i].first.X < all[j].first.X
	})

	sources := []Source{}
	for _, f := range all {
		sources = append(sources, f.src)
	}
	return sources
}
