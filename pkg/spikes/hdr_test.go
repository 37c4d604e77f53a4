package spikes

import(
	"os"
	"path/filepath"
	"testing"

	"github.com/mdouchement/hdr/hdrcolor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlendedHDRIsUnclipped(t *testing.T) {
	orig := sky(2, 1, 1, 8)
	orig.SetSample(0, 0, 0, 255)

	bh := NewBlendedHDR(orig, flatMask(2, 1, 255))
	assert.Equal(t, 2, bh.Size())

	c := bh.HDRAt(0, 0).(hdrcolor.RGB)
	assert.InDelta(t, 1.5, c.R, 1e-9)
	assert.InDelta(t, 1.5, c.B, 1e-9)

	c = bh.HDRAt(1, 0).(hdrcolor.RGB)
	assert.InDelta(t, 0.5, c.G, 1e-9)
}

func TestWriteHDR(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "out.hdr")
	require.NoError(t, WriteHDR(sky(16, 8, 3, 16, square5(8, 4)), flatMask(16, 8, 10), filename))

	info, err := os.Stat(filename)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	assert.Error(t, WriteHDR(sky(4, 4, 3, 8), flatMask(4, 4, 0), filepath.Join(t.TempDir(), "no", "x.hdr")))
}

func TestHDRFilename(t *testing.T) {
	assert.Equal(t, "/tmp/m31-spikes.hdr", HDRFilename("/tmp/m31-spikes.tif"))
}
