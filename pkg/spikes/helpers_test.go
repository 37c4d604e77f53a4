package spikes

import(
	"image"
	"testing"

	"github.com/DougReynolds/AF-Diffraction-Spikes/pkg/raster"
	"github.com/DougReynolds/AF-Diffraction-Spikes/pkg/logging"
)

// sky is a black raster with white squares in it.
func sky(w, h, channels, bitDepth int, squares ...image.Rectangle) *raster.Raster {
	r := raster.New(w, h, channels, bitDepth)
	r.Meta = raster.Meta{Format: "tiff", BitsPerSample: bitDepth, SamplesPerPixel: channels}
	for _, sq := range squares {
		for y:=sq.Min.Y; y<sq.Max.Y; y++ {
			for x:=sq.Min.X; x<sq.Max.X; x++ {
				for c:=0; c<r.ColorChannels(); c++ {
					r.SetSample(x, y, c, r.MaxSample())
				}
			}
		}
	}
	if r.HasAlpha() {
		for y:=0; y<h; y++ {
			for x:=0; x<w; x++ {
				r.SetSample(x, y, 3, r.MaxSample())
			}
		}
	}
	return r
}

// square5 is a 5x5 square centered on (x,y)
func square5(x, y int) image.Rectangle { return image.Rect(x-2, y-2, x+3, y+3) }

func testPipeline(t *testing.T, cfg Config) *Pipeline {
	t.Helper()
	return NewPipeline(cfg, logging.Discard())
}
