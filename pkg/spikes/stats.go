package spikes

import(
	"fmt"
	"log/slog"

	"github.com/codahale/hdrhistogram"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// A Summary describes the spread of source sizes in one image. Handy for
// picking thresholds: if the median area is in the thousands, min is
// too low and the whole sky is one blob.
type Summary struct {
	Count      int
	MeanArea   float64
	MedianArea float64
	P90Area    float64
	MaxArea    float64
	MeanLength float64
}

func (s Summary)String() string {
	if s.Count == 0 { return "summary[no sources]" }
	return fmt.Sprintf("summary[n=%d, area mean=%.1f median=%.0f p90=%.0f max=%.0f, mean len=%.1f]",
		s.Count, s.MeanArea, s.MedianArea, s.P90Area, s.MaxArea, s.MeanLength)
}

func (s Summary)LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("count", s.Count),
		slog.Float64("mean_area", s.MeanArea),
		slog.Float64("median_area", s.MedianArea),
		slog.Float64("p90_area", s.P90Area),
		slog.Float64("max_area", s.MaxArea),
		slog.Float64("mean_length", s.MeanLength),
	)
}

func Summarize(sources []Source, geoms []Geometry) Summary {
	s := Summary{Count: len(sources)}
	if len(sources) == 0 {
		return s
	}

	areas := make([]float64, len(sources))
	for i, src := range sources {
		areas[i] = src.Area
	}
	s.MeanArea = stat.Mean(areas, nil)
	s.MaxArea = floats.Max(areas)

	// Quantiles off a histogram, since areas are integral pixel counts
	h := hdrhistogram.New(1, int64(s.MaxArea) + 1, 3)
	for _, a := range areas {
		_ = h.RecordValue(int64(a)) // can't fail, the range covers MaxArea
	}
	s.MedianArea = float64(h.ValueAtQuantile(50))
	s.P90Area = float64(h.ValueAtQuantile(90))

	if len(geoms) > 0 {
		lengths := make([]float64, len(geoms))
		for i, g := range geoms {
			lengths[i] = float64(g.Length)
		}
		s.MeanLength = stat.Mean(lengths, nil)
	}

	return s
}
