package spikes

import(
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DougReynolds/AF-Diffraction-Spikes/pkg/raster"
)

func TestProcessSingleSource(t *testing.T) {
	orig := sky(100, 100, 3, 8, square5(50, 50))
	res, err := testPipeline(t, NewConfig()).Process(context.Background(), orig)
	require.NoError(t, err)

	require.Len(t, res.Sources, 1)
	assert.Equal(t, image.Point{50, 50}, res.Sources[0].Centroid)
	require.Len(t, res.Geometries, 1)
	assert.Equal(t, 13, res.Geometries[0].Length)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 1, res.Summary.Count)

	out := res.Raster
	assert.Equal(t, 8, out.BitDepth)
	assert.Equal(t, 3, out.Channels)
	assert.Greater(t, out.Sample(50, 42, 0), uint16(0), "spike arm brightens the sky")
	assert.Equal(t, uint16(0), out.Sample(5, 5, 0))
	assert.Equal(t, uint16(0), orig.Sample(50, 42, 0), "input isn't modified")
}

func TestProcessSquareScenario(t *testing.T) {
	// One 5x5 square in a 100x100 gray image; after dilation it's a 13x13
	// source, so the arms are 13px each way and 2px thick
	res, err := testPipeline(t, NewConfig()).Process(context.Background(), sky(100, 100, 1, 8, square5(50, 50)))
	require.NoError(t, err)
	require.Len(t, res.Geometries, 1)

	g := res.Geometries[0]
	assert.Equal(t, Arm{image.Point{50, 37}, image.Point{50, 63}}, g.RotatedVertical)
	assert.Equal(t, Arm{image.Point{37, 50}, image.Point{63, 50}}, g.RotatedHorizontal)
	assert.Equal(t, 2, g.Thickness)

	for d:=-10; d<=10; d++ {
		assert.Greater(t, res.Mask.At(50, 50+d), 0.0, "vertical arm at %d", d)
		assert.Greater(t, res.Mask.At(50+d, 50), 0.0, "horizontal arm at %d", d)
	}
	assert.Equal(t, 0.0, res.Mask.At(20, 20))
}

func TestProcessNoSources(t *testing.T) {
	orig := sky(40, 30, 1, 16)
	res, err := Process(context.Background(), orig, NewConfig())
	require.NoError(t, err)
	assert.Empty(t, res.Sources)
	if diff := cmp.Diff(orig.Pix, res.Raster.Pix); diff != "" {
		t.Errorf("no-source image changed:\n%s", diff)
	}
}

func TestProcessRejectsBadConfig(t *testing.T) {
	cfg := NewConfig()
	cfg.BlurKernelSize = 0
	_, err := Process(context.Background(), sky(10, 10, 3, 8), cfg)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestProcessCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testPipeline(t, NewConfig()).Process(ctx, sky(50, 50, 3, 8, square5(25, 25)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.tif")
	out := filepath.Join(dir, "out.tif")
	require.NoError(t, raster.Save(sky(64, 48, 3, 16, square5(20, 20), square5(45, 30)), in, raster.DefaultSaveOptions()))

	p := testPipeline(t, NewConfig())
	p.WriteHDR = true
	res, err := p.ProcessFile(context.Background(), in, out)
	require.NoError(t, err)
	assert.Len(t, res.Sources, 2)
	assert.Equal(t, in, res.Input)
	assert.Equal(t, out, res.Output)

	loaded, err := raster.Load(out)
	require.NoError(t, err)
	assert.Equal(t, 16, loaded.BitDepth)
	assert.Equal(t, 300.0, loaded.Meta.XDPI)
	assert.Equal(t, res.Raster.Pix, loaded.Pix)

	assert.FileExists(t, filepath.Join(dir, "out.hdr"))
}

func TestProcessFileErrors(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.tif")

	// Config is checked before the input is even opened
	cfg := NewConfig()
	cfg.BlurMultiplier = 0
	_, err := ProcessFile(context.Background(), filepath.Join(dir, "missing.tif"), out, cfg)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	var decErr *raster.DecodeError
	_, err = ProcessFile(context.Background(), filepath.Join(dir, "missing.tif"), out, NewConfig())
	assert.True(t, errors.As(err, &decErr))

	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err), "no partial output")
}

func TestProcessDebugImages(t *testing.T) {
	cfg := NewConfig()
	cfg.Verbosity = 1
	cfg.DebugDir = t.TempDir()

	orig := sky(60, 60, 3, 8, square5(30, 30))
	orig.Meta.Filename = "/data/m42.tif"
	_, err := testPipeline(t, cfg).Process(context.Background(), orig)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(cfg.DebugDir, "m42-overlay.png"))
	assert.FileExists(t, filepath.Join(cfg.DebugDir, "m42-mask.png"))
}

func TestProcessAll(t *testing.T) {
	in := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "results")
	require.NoError(t, raster.Save(sky(32, 32, 1, 8, square5(16, 16)), filepath.Join(in, "a.tif"), raster.DefaultSaveOptions()))
	require.NoError(t, raster.Save(sky(32, 32, 3, 8), filepath.Join(in, "b.png"), raster.DefaultSaveOptions()))
	require.NoError(t, os.WriteFile(filepath.Join(in, "c.tif"), []byte("junk"), 0644))

	results, err := testPipeline(t, NewConfig()).ProcessAll(context.Background(), outDir, in)
	assert.Error(t, err, "c.tif is junk")
	require.Len(t, results, 2)

	assert.FileExists(t, filepath.Join(outDir, "a-spikes.tif"))
	assert.FileExists(t, filepath.Join(outDir, "b-spikes.png"))
	assert.Len(t, results[0].Sources, 1)
	assert.Empty(t, results[1].Sources)
}

func TestOutputFilename(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "m31-spikes.tiff"), OutputFilename("/data/m31.tiff", "out"))
}
