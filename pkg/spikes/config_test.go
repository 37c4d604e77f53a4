package spikes

import(
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullYaml = `
min_threshold: 180
max_threshold: 255
spike_length_multiplier: 1.5
spike_thickness_multiplier: 0.1
blur_kernel_size: 7
blur_multiplier: 0.5
rotation_angle: 30
style: stepped
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "spikes.yaml")
	require.NoError(t, os.WriteFile(filename, []byte(contents), 0644))
	return filename
}

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, NewConfig().Validate())
}

func TestLoadConfig(t *testing.T) {
	c, err := LoadConfig(writeConfig(t, fullYaml))
	require.NoError(t, err)

	want := NewConfig()
	want.MinThreshold = 180
	want.SpikeLengthMultiplier = 1.5
	want.SpikeThicknessMultiplier = 0.1
	want.BlurKernelSize = 7
	want.BlurMultiplier = 0.5
	want.RotationAngle = 30
	want.Style = "stepped"

	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigMissingField(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
min_threshold: 180
max_threshold: 255
spike_length_multiplier: 1.5
spike_thickness_multiplier: 0.1
blur_multiplier: 0.5
rotation_angle: 30
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "blur_kernel_size", cfgErr.Field)
}

func TestLoadConfigZeroIsNotMissing(t *testing.T) {
	c, err := LoadConfig(writeConfig(t, `
min_threshold: 0
max_threshold: 0
spike_length_multiplier: 0
spike_thickness_multiplier: 0
blur_kernel_size: 1
blur_multiplier: 1
rotation_angle: 0
`))
	require.NoError(t, err)
	assert.Equal(t, 0, c.MaxThreshold)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, fullYaml + "spike_colour: red\n"))
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestLoadConfigNoFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct{
		field string
		edit  func(*Config)
	}{
		{"blur_kernel_size",           func(c *Config) { c.BlurKernelSize = 0 }},
		{"blur_kernel_size",           func(c *Config) { c.BlurKernelSize = -3 }},
		{"blur_multiplier",            func(c *Config) { c.BlurMultiplier = 0 }},
		{"spike_length_multiplier",    func(c *Config) { c.SpikeLengthMultiplier = -0.1 }},
		{"spike_thickness_multiplier", func(c *Config) { c.SpikeThicknessMultiplier = -1 }},
		{"min_threshold",              func(c *Config) { c.MinThreshold = 256 }},
		{"max_threshold",              func(c *Config) { c.MaxThreshold = -1 }},
		{"style",                      func(c *Config) { c.Style = "sparkly" }},
		{"detector",                   func(c *Config) { c.Detector = "magic" }},
		{"compression",                func(c *Config) { c.Compression = "lzw" }},
	} {
		c := NewConfig()
		tc.edit(&c)
		err := c.Validate()

		var cfgErr *ConfigError
		if assert.True(t, errors.As(err, &cfgErr), tc.field) {
			assert.Equal(t, tc.field, cfgErr.Field)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		}
	}
}

func TestClamp(t *testing.T) {
	c := NewConfig()
	c.RotationAngle = 120
	c.BlurKernelSize = 80
	c.SpikeLengthMultiplier = 3

	c2, warnings := c.Clamp()
	assert.Equal(t, 89.0, c2.RotationAngle)
	assert.Equal(t, 50, c2.BlurKernelSize)
	assert.Equal(t, 2.0, c2.SpikeLengthMultiplier)
	assert.Len(t, warnings, 3)

	_, warnings = NewConfig().Clamp()
	assert.Empty(t, warnings)
}

func TestBlurKernelAlwaysOdd(t *testing.T) {
	c := NewConfig()
	assert.Equal(t, 5, c.BlurKernel())

	c.BlurKernelSize = 4
	assert.Equal(t, 5, c.BlurKernel())

	for k:=1; k<=50; k++ {
		for _, mult := range []float64{0.1, 0.3, 0.5, 1.0, 1.25, 1.5, 2.0} {
			c.BlurKernelSize, c.BlurMultiplier = k, mult
			got := c.BlurKernel()
			assert.GreaterOrEqual(t, got, 1)
			assert.Equal(t, 1, got%2, "k=%d mult=%v", k, mult)
		}
	}
}

func TestAsYamlRoundTrips(t *testing.T) {
	c := NewConfig()
	c.RotationAngle = 12.5
	c.Verbosity = 1

	c2, err := newConfigFromYaml([]byte(c.AsYaml()))
	require.NoError(t, err)
	if diff := cmp.Diff(c, c2); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}
