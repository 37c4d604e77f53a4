package spikes

import(
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/DougReynolds/AF-Diffraction-Spikes/pkg/raster"
)

// A Pipeline runs the stages in order: detect, build geometries, render,
// blur, composite. Each stage finishes before the next one starts.
type Pipeline struct {
	Config
	Log      *slog.Logger
	WriteHDR bool          // also write the unclipped blend, next to the output, as .hdr
}

func NewPipeline(cfg Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{Config: cfg, Log: logger}
}

// Result is everything a run produced.
type Result struct {
	RunID      string
	Input      string          // filenames, if the run was file based
	Output     string

	Sources    []Source
	Geometries []Geometry
	Mask       *Mask           // blurred
	Raster     *raster.Raster  // the composited output
	Summary    Summary
	Elapsed    time.Duration
}

func (r Result)String() string {
	return fmt.Sprintf("run[%s, %d sources, %s, %s]", r.RunID, len(r.Sources), r.Summary, r.Elapsed)
}

// Process runs the pipeline on a raster already in memory, with the
// default logger.
func Process(ctx context.Context, r *raster.Raster, cfg Config) (*Result, error) {
	return NewPipeline(cfg, nil).Process(ctx, r)
}

// ProcessFile loads `in`, runs the pipeline, and saves to `out`.
func ProcessFile(ctx context.Context, in, out string, cfg Config) (*Result, error) {
	return NewPipeline(cfg, nil).ProcessFile(ctx, in, out)
}

func (p *Pipeline)Process(ctx context.Context, r *raster.Raster) (*Result, error) {
	return p.process(ctx, r, uuid.NewString())
}

func (p *Pipeline)process(ctx context.Context, r *raster.Raster, runID string) (*Result, error) {
	start := time.Now()
	if err := p.Config.Validate(); err != nil {
		return nil, err
	}

	log := p.Log.With("run", runID)
	res := &Result{RunID: runID, Input: r.Meta.Filename}

	res.Sources = p.GetDetector()(r, uint8(p.MinThreshold), uint8(p.MaxThreshold))
	log.Info("detected sources", "n", len(res.Sources), "raster", r.String(), "detector", p.Detector)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Geometries = NewGeometries(res.Sources, p.Config)
	for _, g := range res.Geometries {
		log.Debug("spike", "geometry", g.String())
	}

	res.Mask = NewMask(r.Width, r.Height)
	Render(res.Mask, res.Geometries, p.GetArmDrawer())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Mask.Blur(p.BlurKernel())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Raster = Composite(r, res.Mask)
	res.Summary = Summarize(res.Sources, res.Geometries)
	res.Elapsed = time.Since(start)

	if p.Verbosity > 0 {
		p.writeDebugImages(log, r, res)
	}

	log.Info("composited", "summary", res.Summary, "blur_kernel", p.BlurKernel(), "elapsed", res.Elapsed)
	return res, nil
}

func (p *Pipeline)writeDebugImages(log *slog.Logger, r *raster.Raster, res *Result) {
	stem := "spikes"
	if r.Meta.Filename != "" {
		stem = strings.TrimSuffix(filepath.Base(r.Meta.Filename), filepath.Ext(r.Meta.Filename))
	}

	overlay := filepath.Join(p.DebugDir, stem + "-overlay.png")
	if err := WriteOverlay(r, res.Sources, res.Geometries, overlay); err != nil {
		log.Warn("debug overlay", "err", err)
	}

	mask := filepath.Join(p.DebugDir, stem + "-mask.png")
	title := fmt.Sprintf("mask k=%d %s", p.BlurKernel(), res.Summary)
	if err := res.Mask.WriteDebug(title, mask); err != nil {
		log.Warn("debug mask", "err", err)
	}

	grid := res.Mask.Grid()
	log.Debug("wrote debug images", "overlay", overlay, "mask", mask, "mask_stats", grid.Stats())
}

// ProcessFile validates the config before touching the input, and only
// writes the output once everything else has worked.
func (p *Pipeline)ProcessFile(ctx context.Context, in, out string) (*Result, error) {
	if err := p.Config.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := p.Log.With("run", runID)
	log.Info("loading", "in", in)

	r, err := raster.Load(in)
	if err != nil {
		return nil, err
	}
	log.Debug("loaded", "meta", r.Meta.String())

	res, err := p.process(ctx, r, runID)
	if err != nil {
		return nil, err
	}
	res.Input = in

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := raster.Save(res.Raster, out, p.SaveOptions()); err != nil {
		return nil, err
	}
	res.Output = out

	if info, err := os.Stat(out); err == nil {
		log.Info("saved", "out", out, "size", humanize.Bytes(uint64(info.Size())), "bits", res.Raster.BitDepth)
	}

	if p.WriteHDR {
		hdrFile := HDRFilename(out)
		if err := WriteHDR(r, res.Mask, hdrFile); err != nil {
			return res, err
		}
		log.Info("saved hdr", "out", hdrFile)
	}

	return res, nil
}

func HDRFilename(out string) string {
	return strings.TrimSuffix(out, filepath.Ext(out)) + ".hdr"
}
